// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package magicfs

import (
	"archive/tar"
	"context"
	"fmt"
	"io"
	"io/fs"
	"time"

	"github.com/spf13/afero"
)

// offsetTar is the offset where the magic bytes are located in the file
const offsetTar = 257

// magicBytesTar are the magic bytes for tar files
var magicBytesTar = [][]byte{
	[]byte("ustar\x00tar\x00"),
	[]byte("ustar\x00"),
	[]byte("ustar  \x00"),
}

var formatTar = format{
	contentType: ContentTypeTar,
	description: "POSIX tar archive",
	magicBytes:  magicBytesTar,
	offset:      offsetTar,
}

// isTar checks if the header matches the magic bytes for tar files
func isTar(data []byte) bool {
	return formatTar.matches(data)
}

// mountTar reads the tar archive from src and returns its contents as a
// read-only filesystem. A tar archive that is wrapped in one layer of a known
// compression is decompressed transparently.
func mountTar(ctx context.Context, src io.Reader, cfg *Config) (afero.Fs, error) {
	// limit input size
	limitedReader := newInputReader(src, cfg.MaxInputSize())
	defer captureInputSize(telemetryFromContext(ctx), limitedReader)

	// peel compression
	tarStream, err := uncompressTarStream(limitedReader, cfg)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closer, ok := tarStream.(io.Closer); ok {
			closer.Close()
		}
	}()

	// log mount
	cfg.Logger().Info("mounting tar")
	return materialize(ctx, newTarWalker(tarStream), cfg)
}

// uncompressTarStream returns a reader with the plain tar stream of src. If the
// header of src is a known compression, src is decompressed. Brotli has no magic
// bytes and is only used if the decompressed header is a tar header.
func uncompressTarStream(src io.Reader, cfg *Config) (io.Reader, error) {
	headerReader, err := newHeaderReader(src, cfg.SniffLength())
	if err != nil {
		return nil, err
	}
	header := headerReader.PeekHeader()

	// plain tar
	if isTar(header) {
		return headerReader, nil
	}

	// one layer of compression with magic bytes
	if f, ok := detectFormat(header); ok && f.decompress != nil {
		cfg.Logger().Debug("decompress tar stream", "compression", f.contentType)
		r, err := f.decompress(headerReader)
		if err != nil {
			return nil, fmt.Errorf("cannot start decompression: %w", err)
		}
		return r, nil
	}

	// brotli probe
	if inner, err := uncompressHeader(&formatBrotli, header, maxHeaderLength); err == nil && isTar(inner) {
		cfg.Logger().Debug("decompress tar stream", "compression", formatBrotli.contentType)
		return formatBrotli.decompress(headerReader)
	}

	// let the tar reader report the error
	return headerReader, nil
}

// tarBlockSize is the size of a tar header and of the end-of-archive blocks
const tarBlockSize = 512

// tarEndReader counts the zero bytes at the end of the consumed tar stream. A
// complete archive ends with two zero blocks, the tar reader accepts fewer.
type tarEndReader struct {
	r     io.Reader
	zeros int64
}

func (t *tarEndReader) Read(p []byte) (int, error) {
	n, err := t.r.Read(p)
	i := n - 1
	for i >= 0 && p[i] == 0 {
		i--
	}
	if i < 0 {
		t.zeros += int64(n)
	} else {
		t.zeros = int64(n - 1 - i)
	}
	return n, err
}

// complete checks if the end-of-archive blocks have been read
func (t *tarEndReader) complete() bool {
	return t.zeros >= 2*tarBlockSize
}

// tarWalker is a walker for tar files
type tarWalker struct {
	tr  *tar.Reader
	end *tarEndReader
}

// newTarWalker returns a walker for the tar stream r
func newTarWalker(r io.Reader) *tarWalker {
	end := &tarEndReader{r: r}
	return &tarWalker{tr: tar.NewReader(end), end: end}
}

// Type returns the content type for tar files
func (t *tarWalker) Type() ContentType {
	return ContentTypeTar
}

// Next returns the next entry in the tar archive. A stream that ends without
// the end-of-archive blocks is reported as [io.ErrUnexpectedEOF].
func (t *tarWalker) Next() (archiveEntry, error) {
	hdr, err := t.tr.Next()
	if err == io.EOF && !t.end.complete() {
		return nil, fmt.Errorf("missing end of archive: %w", io.ErrUnexpectedEOF)
	}
	if err != nil {
		return nil, err
	}
	return &tarEntry{hdr, t.tr}, nil
}

// tarEntry is an entry in a tar archive
type tarEntry struct {
	hdr *tar.Header
	tr  *tar.Reader
}

// Name returns the name of the entry
func (t *tarEntry) Name() string {
	return t.hdr.Name
}

// Size returns the size of the entry
func (t *tarEntry) Size() int64 {
	return t.hdr.Size
}

// Mode returns the mode of the entry
func (t *tarEntry) Mode() fs.FileMode {
	return t.hdr.FileInfo().Mode()
}

// Linkname returns the linkname of the entry
func (t *tarEntry) Linkname() string {
	return t.hdr.Linkname
}

// IsRegular returns true if the entry is a regular file
func (t *tarEntry) IsRegular() bool {
	return t.hdr.Typeflag == tar.TypeReg
}

// IsDir returns true if the entry is a directory
func (t *tarEntry) IsDir() bool {
	return t.hdr.Typeflag == tar.TypeDir
}

// IsSymlink returns true if the entry is a symlink
func (t *tarEntry) IsSymlink() bool {
	return t.hdr.Typeflag == tar.TypeSymlink
}

// Open returns a reader for the entry
func (t *tarEntry) Open() (io.ReadCloser, error) {
	return io.NopCloser(t.tr), nil
}

// Type returns the type of the entry
func (t *tarEntry) Type() fs.FileMode {
	return fs.FileMode(t.hdr.Typeflag)
}

// ModTime returns the modification time of the entry
func (t *tarEntry) ModTime() time.Time {
	return t.hdr.ModTime
}
