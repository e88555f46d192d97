// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package magicfs

import (
	"bytes"
	"fmt"
	"io"
)

// headerReader is an implementation of io.Reader that allows the first bytes of
// the reader to be read twice. This is useful for identifying the compression
// of an archive stream before it is mounted.
type headerReader struct {
	r      io.Reader
	header []byte
}

func newHeaderReader(r io.Reader, headerSize int) (*headerReader, error) {
	// read at least headerSize bytes. If EOF, capture whatever was read.
	buf := make([]byte, headerSize)
	n, err := io.ReadFull(r, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, fmt.Errorf("cannot read header: %w", err)
	}
	return &headerReader{r, buf[:n]}, nil
}

func (p *headerReader) Read(b []byte) (int, error) {
	// read from header first
	if len(p.header) > 0 {
		n := copy(b, p.header)
		p.header = p.header[n:]
		return n, nil
	}

	// then continue reading from the source
	return p.r.Read(b)
}

func (p *headerReader) PeekHeader() []byte {
	return p.header
}

// uncompressHeader decompresses header with f and returns up to n bytes of the
// decompressed content. A header that ends in the middle of the compressed
// stream is expected and not reported as error.
func uncompressHeader(f *format, header []byte, n int) ([]byte, error) {
	return uncompressStream(f, bytes.NewReader(header), n)
}

// uncompressStream decompresses src with f and returns up to n bytes of the
// decompressed content. Only as much of src is consumed as the decoder needs.
func uncompressStream(f *format, src io.Reader, n int) ([]byte, error) {
	if f.decompress == nil {
		return nil, fmt.Errorf("%s is not a compression", f.contentType)
	}
	r, err := f.decompress(src)
	if err != nil {
		return nil, err
	}
	if closer, ok := r.(io.Closer); ok {
		defer closer.Close()
	}
	buf := make([]byte, n)
	read, err := io.ReadFull(r, buf)
	if read == 0 && err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
	return buf[:read], nil
}
