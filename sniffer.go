// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package magicfs

import (
	"bytes"
	"fmt"
	"io"

	"github.com/gabriel-vasile/mimetype"
)

//go:generate mockgen -destination=./internal/mocks/mock_sniffer.go -package=mocks github.com/hashicorp/go-magicfs Sniffer

// SniffOptions adjust what a [Sniffer] reports.
type SniffOptions struct {
	// MIME requests a MIME-style identifier instead of a description.
	MIME bool

	// Uncompress requests to look inside one layer of compression and to
	// report the inner format, if it can be identified.
	Uncompress bool
}

// Sniffer is the content sniffing oracle. It maps the first bytes of a file to
// a content type and is expected to be a pure function of its input.
type Sniffer interface {
	Sniff(header []byte, opts SniffOptions) (string, error)
}

// StreamSniffer is a [Sniffer] that can look inside a compression by reading
// the whole stream. Block-based codecs such as bzip2, xz, zstd or lz4 yield no
// output for a header that ends inside their first block.
type StreamSniffer interface {
	Sniffer

	// SniffStream identifies header, stream yields the complete content
	// starting with header.
	SniffStream(header []byte, stream io.Reader, opts SniffOptions) (string, error)
}

// SnifferFunc is an adapter to allow the use of ordinary functions as [Sniffer].
type SnifferFunc func(header []byte, opts SniffOptions) (string, error)

// Sniff calls f(header, opts).
func (f SnifferFunc) Sniff(header []byte, opts SniffOptions) (string, error) {
	return f(header, opts)
}

// defaultInnerLength is the number of decompressed bytes that are identified
// when looking inside a compression.
const defaultInnerLength = 4096

// MagicSniffer is the default [Sniffer]. Archive and compression formats are
// identified by their magic bytes, everything else by
// [github.com/gabriel-vasile/mimetype].
type MagicSniffer struct {
	innerLength int
}

// NewMagicSniffer returns the default [Sniffer].
func NewMagicSniffer() *MagicSniffer {
	return &MagicSniffer{innerLength: defaultInnerLength}
}

// identity is the result of identifying a single layer.
type identity struct {
	contentType ContentType
	description string
}

// Sniff identifies header. An empty header is reported as [ContentTypeEmpty],
// unidentified binary content as [ContentTypeOctetStream].
func (s *MagicSniffer) Sniff(header []byte, opts SniffOptions) (string, error) {
	return s.SniffStream(header, bytes.NewReader(header), opts)
}

// SniffStream identifies header like [MagicSniffer.Sniff], but decompresses
// stream when looking inside a compression. At most the inner length of
// decompressed bytes is read.
func (s *MagicSniffer) SniffStream(header []byte, stream io.Reader, opts SniffOptions) (string, error) {
	result := identify(header)
	if opts.Uncompress {
		if inner, ok := s.uncompress(stream, result); ok {
			result = inner
		}
	}

	if opts.MIME {
		return string(result.contentType), nil
	}
	return result.description, nil
}

// uncompress identifies the content inside the compression outer. Brotli has no
// magic bytes, so content that is not a known format is probed for brotli and
// only accepted if the inner bytes are a known format.
func (s *MagicSniffer) uncompress(src io.Reader, outer identity) (identity, bool) {
	f, ok := formatByContentType(outer.contentType)
	probe := false
	switch {
	case ok && f.decompress == nil:
		return identity{}, false
	case !ok:
		f, probe = &formatBrotli, true
	}

	inner, err := uncompressStream(f, src, s.innerLength)
	if err != nil {
		return identity{}, false
	}
	if _, known := detectFormat(inner); probe && !known {
		return identity{}, false
	}

	id := identify(inner)
	if id.contentType == ContentTypeOctetStream || id.contentType == ContentTypeEmpty {
		return identity{}, false
	}
	return identity{
		contentType: id.contentType,
		description: fmt.Sprintf("%s (%s)", id.description, f.description),
	}, true
}

// identify returns the identity of a single layer.
func identify(header []byte) identity {
	if len(header) == 0 {
		return identity{ContentTypeEmpty, "empty"}
	}

	// archive and compression formats first
	if f, ok := detectFormat(header); ok {
		return identity{f.contentType, f.description}
	}

	// everything else
	ct := parseContentType(mimetype.Detect(header).String())
	if f, ok := formatByContentType(ct); ok {
		return identity{f.contentType, f.description}
	}
	if ct == ContentTypeOctetStream {
		return identity{ct, "data"}
	}
	return identity{ct, string(ct)}
}
