// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package magicfs

import (
	"fmt"
	"io"
)

// extractionWriter writes entry content into a mounted view. It writes at most
// the remaining extraction budget and then fails with
// [ErrMaxExtractionSizeExceeded]. A budget of -1 is unlimited.
type extractionWriter struct {
	w         io.Writer
	remaining int64
	written   int64
}

func newExtractionWriter(w io.Writer, remaining int64) *extractionWriter {
	return &extractionWriter{w: w, remaining: remaining}
}

func (e *extractionWriter) Write(p []byte) (int, error) {
	exceeded := e.remaining >= 0 && int64(len(p)) > e.remaining
	if exceeded {
		p = p[:e.remaining]
	}

	n, err := e.w.Write(p)
	e.written += int64(n)
	if e.remaining >= 0 {
		e.remaining -= int64(n)
	}
	if err == nil && exceeded {
		err = fmt.Errorf("%w: stopped after %d bytes", ErrMaxExtractionSizeExceeded, e.written)
	}
	return n, err
}
