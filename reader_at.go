// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package magicfs

import (
	"bytes"
	"fmt"
	"io"
	"os"
)

// seekerReaderAt is a struct that combines the io.ReaderAt and io.Seeker interfaces
type seekerReaderAt interface {
	io.Reader
	io.ReaderAt
	io.Seeker
}

// readerToReaderAtSeeker converts an io.Reader to an io.ReaderAt and io.Seeker.
// Files of an [afero.Fs] are used as they are, other readers are cached in
// memory or in a temporary file, depending on [Config.CacheInMemory]. The
// returned cleanup function removes the temporary file and is never nil.
func readerToReaderAtSeeker(c *Config, r io.Reader) (seekerReaderAt, func(), error) {
	noop := func() {}

	if s, ok := r.(seekerReaderAt); ok {
		return s, noop, nil
	}

	// check if reader is a buffer
	if b, ok := r.(*bytes.Buffer); ok {
		return bytes.NewReader(b.Bytes()), noop, nil
	}

	// limit reader
	in := newInputReader(r, c.MaxInputSize())

	// check how to cache
	if c.CacheInMemory() {
		b, err := io.ReadAll(in)
		if err != nil {
			return nil, noop, fmt.Errorf("cannot read all from reader: %w", err)
		}
		return bytes.NewReader(b), noop, nil
	}

	// create temp file
	tmpFile, err := os.CreateTemp("", "magicfs-*")
	if err != nil {
		return nil, noop, err
	}
	cleanup := func() {
		tmpFile.Close()
		os.Remove(tmpFile.Name())
	}

	// copy reader to temp file
	if _, err := io.Copy(tmpFile, in); err != nil {
		cleanup()
		return nil, noop, fmt.Errorf("cannot copy reader to file: %w", err)
	}

	// seek to start
	if _, err := tmpFile.Seek(0, io.SeekStart); err != nil {
		cleanup()
		return nil, noop, err
	}

	// return temp file
	return tmpFile, cleanup, nil
}

// inputSize returns the size of src and checks it against the maximum input size.
func inputSize(c *Config, src io.Seeker) (int64, error) {
	size, err := src.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, fmt.Errorf("cannot seek to end of reader: %w", err)
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return 0, fmt.Errorf("cannot seek to start of reader: %w", err)
	}
	if c.MaxInputSize() != -1 && size > c.MaxInputSize() {
		return 0, fmt.Errorf("%w: %d bytes", ErrMaxInputSizeExceeded, size)
	}
	return size, nil
}
