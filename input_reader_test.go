// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package magicfs

import (
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"
)

func TestInputReader(t *testing.T) {
	tests := []struct {
		name     string
		limit    int64
		input    string
		want     string
		wantSize int64
		wantErr  error
	}{
		{name: "under limit", limit: 10, input: "12345", want: "12345", wantSize: 5},
		{name: "unlimited", limit: -1, input: "12345", want: "12345", wantSize: 5},
		{name: "at limit", limit: 5, input: "12345", want: "12345", wantSize: 5},
		{name: "empty input", limit: 0, input: "", want: "", wantSize: 0},
		{name: "over limit", limit: 4, input: "12345", want: "1234", wantSize: 4, wantErr: ErrMaxInputSizeExceeded},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := newInputReader(iotest.OneByteReader(strings.NewReader(tc.input)), tc.limit)
			data, err := io.ReadAll(r)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("ReadAll() error = %v, want %v", err, tc.wantErr)
			}
			if string(data) != tc.want {
				t.Errorf("ReadAll() = %q, want %q", data, tc.want)
			}
			if r.Size() != tc.wantSize {
				t.Errorf("Size() = %d, want %d", r.Size(), tc.wantSize)
			}
		})
	}
}

func TestInputReaderEmptyBuffer(t *testing.T) {
	r := newInputReader(strings.NewReader("12345"), 0)
	n, err := r.Read(nil)
	if n != 0 || err != nil {
		t.Errorf("Read(nil) = %d, %v, want 0, nil", n, err)
	}
}
