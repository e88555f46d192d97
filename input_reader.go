// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package magicfs

import (
	"fmt"
	"io"
)

// inputReader reads an archive stream and counts the consumed bytes. A stream
// longer than limit fails with [ErrMaxInputSizeExceeded]. A limit of -1
// disables the check.
type inputReader struct {
	r     io.Reader
	limit int64
	size  int64
}

func newInputReader(r io.Reader, limit int64) *inputReader {
	return &inputReader{r: r, limit: limit}
}

func (i *inputReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if i.limit >= 0 {
		remaining := i.limit - i.size
		if remaining <= 0 {
			// a stream of exactly limit bytes ends here
			var probe [1]byte
			if n, err := i.r.Read(probe[:]); n == 0 {
				return 0, err
			}
			return 0, fmt.Errorf("%w: more than %d bytes", ErrMaxInputSizeExceeded, i.limit)
		}
		if int64(len(p)) > remaining {
			p = p[:remaining]
		}
	}
	n, err := i.r.Read(p)
	i.size += int64(n)
	return n, err
}

// Size returns the number of bytes read from the stream so far.
func (i *inputReader) Size() int64 {
	return i.size
}
