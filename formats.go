// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package magicfs

import (
	"bytes"
	"io"
)

// init calculates the maximum header length
func init() {
	for _, f := range knownFormats {
		needs := f.offset
		for _, mb := range f.magicBytes {
			if len(mb)+f.offset > needs {
				needs = len(mb) + f.offset
			}
		}
		if needs > maxHeaderLength {
			maxHeaderLength = needs
		}
	}
}

// decompressionFunc returns a reader that decompresses src.
type decompressionFunc func(src io.Reader) (io.Reader, error)

// headerCheck is a function that checks if the given header matches the expected magic bytes.
type headerCheck func([]byte) bool

// format describes a file format that is identified by magic bytes.
type format struct {
	// contentType is the normalized identifier of the format
	contentType ContentType

	// aliases are other MIME names of the format
	aliases []string

	// description is the human readable name of the format
	description string

	// magicBytes are the possible signatures, located at offset
	magicBytes [][]byte
	offset     int

	// headerCheck replaces the magic bytes comparison, if set
	headerCheck headerCheck

	// decompress is set for single-layer compression wrappers
	decompress decompressionFunc
}

// matches checks if header belongs to the format.
func (f *format) matches(header []byte) bool {
	if f.headerCheck != nil {
		return f.headerCheck(header)
	}
	return matchesMagicBytes(header, f.offset, f.magicBytes)
}

// knownFormats is the ordered collection of formats that are identified by
// their header before the generic sniffer is asked.
var knownFormats = []*format{
	&formatZip,
	&formatRar,
	&format7zip,
	&formatTar,
	&formatGZip,
	&formatBzip2,
	&formatXz,
	&formatZstd,
	&formatLZ4,
	&formatSnappy,
	&formatZlib,
	&formatBrotli,
}

// maxHeaderLength is the maximum header length of all known formats
var maxHeaderLength int

// matchesMagicBytes checks if data contains one of magicBytes at offset.
func matchesMagicBytes(data []byte, offset int, magicBytes [][]byte) bool {
	// check all possible magic bytes until match is found
	for _, mb := range magicBytes {
		// check if header is long enough
		if offset+len(mb) > len(data) {
			continue
		}

		// check for byte match
		if bytes.Equal(mb, data[offset:offset+len(mb)]) {
			return true
		}
	}

	// no match found
	return false
}

// detectFormat returns the first known format that matches header.
func detectFormat(header []byte) (*format, bool) {
	for _, f := range knownFormats {
		if f.matches(header) {
			return f, true
		}
	}
	return nil, false
}

// formatByContentType returns the known format for ct, also checking aliases.
func formatByContentType(ct ContentType) (*format, bool) {
	for _, f := range knownFormats {
		if f.contentType == ct {
			return f, true
		}
		for _, alias := range f.aliases {
			if ContentType(alias) == ct {
				return f, true
			}
		}
	}
	return nil, false
}
