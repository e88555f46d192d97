// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package magicfs

import (
	"archive/tar"
	"bytes"
	"errors"
	"io"
	"testing"
	"testing/iotest"
)

func TestTarWalkerEndOfArchive(t *testing.T) {
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	for _, name := range []string{"one", "two"} {
		if err := tw.WriteHeader(&tar.Header{Name: name, Typeflag: tar.TypeReg, Mode: 0644, Size: 3}); err != nil {
			t.Fatalf("error writing tar header: %v", err)
		}
		if _, err := tw.Write([]byte(name)); err != nil {
			t.Fatalf("error writing tar data: %v", err)
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("error closing tar writer: %v", err)
	}
	full := buf.Bytes()

	tests := []struct {
		name        string
		data        []byte
		oneByte     bool
		wantEntries int
		wantErr     error
	}{
		{name: "complete", data: full, wantEntries: 2},
		{name: "complete read byte by byte", data: full, oneByte: true, wantEntries: 2},
		{name: "complete with trailing padding", data: append(append([]byte{}, full...), make([]byte, 8192)...), wantEntries: 2},
		{name: "cut after first entry", data: full[:1024], wantEntries: 1, wantErr: io.ErrUnexpectedEOF},
		{name: "cut after second entry", data: full[:2048], wantEntries: 2, wantErr: io.ErrUnexpectedEOF},
		{name: "single end block", data: full[:2048+512], oneByte: true, wantEntries: 2, wantErr: io.ErrUnexpectedEOF},
		{name: "empty", data: nil, wantErr: io.ErrUnexpectedEOF},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var r io.Reader = bytes.NewReader(tc.data)
			if tc.oneByte {
				r = iotest.OneByteReader(r)
			}
			w := newTarWalker(r)

			entries := 0
			var err error
			for {
				var ae archiveEntry
				if ae, err = w.Next(); err != nil {
					break
				}
				if ae != nil {
					entries++
				}
			}

			if tc.wantErr == nil && err != io.EOF {
				t.Errorf("Next() error = %v, want io.EOF", err)
			}
			if tc.wantErr != nil && !errors.Is(err, tc.wantErr) {
				t.Errorf("Next() error = %v, want %v", err, tc.wantErr)
			}
			if entries != tc.wantEntries {
				t.Errorf("entries = %d, want %d", entries, tc.wantEntries)
			}
		})
	}
}
