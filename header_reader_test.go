// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package magicfs

import (
	"bytes"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
)

func TestNewHeaderReader(t *testing.T) {
	reader := strings.NewReader("test input")
	headerReader, err := newHeaderReader(reader, 4)

	if err != nil {
		t.Errorf("Unexpected error: %v", err)
	}

	if string(headerReader.PeekHeader()) != "test" {
		t.Errorf("Incorrect header: got %v, want %v", string(headerReader.PeekHeader()), "test")
	}

	buf := make([]byte, 4)
	n, err := headerReader.Read(buf)

	if err != nil {
		t.Errorf("Unexpected error: %v", err)
	}

	if n != 4 {
		t.Errorf("Incorrect number of bytes read: got %v, want %v", n, 4)
	}

	if string(buf) != "test" {
		t.Errorf("Incorrect data read: got %v, want %v", string(buf), "test")
	}

	n, err = headerReader.Read(buf)

	if err != nil {
		t.Errorf("Unexpected error: %v", err)
	}

	if n != 4 {
		t.Errorf("Incorrect number of bytes read: got %v, want %v", n, 4)
	}

	if string(buf) != " inp" {
		t.Errorf("Incorrect data read: got %v, want %v", string(buf), " inp")
	}
}

func TestNewHeaderReaderShortInput(t *testing.T) {
	headerReader, err := newHeaderReader(strings.NewReader("ab"), 4096)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if string(headerReader.PeekHeader()) != "ab" {
		t.Errorf("Incorrect header: got %q, want %q", headerReader.PeekHeader(), "ab")
	}
}

func TestUncompressHeader(t *testing.T) {
	payload := bytes.Repeat([]byte("magic "), 1000)
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write(payload); err != nil {
		t.Fatalf("error writing gzip data: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("error closing gzip writer: %v", err)
	}

	tests := []struct {
		name    string
		format  *format
		header  []byte
		n       int
		want    []byte
		wantErr bool
	}{
		{
			name:   "complete stream",
			format: &formatGZip,
			header: buf.Bytes(),
			n:      100,
			want:   payload[:100],
		},
		{
			name:   "shorter than requested",
			format: &formatGZip,
			header: buf.Bytes(),
			n:      10000,
			want:   payload,
		},
		{
			name:    "not a compression",
			format:  &formatZip,
			header:  buf.Bytes(),
			n:       100,
			wantErr: true,
		},
		{
			name:    "broken stream",
			format:  &formatGZip,
			header:  []byte{0x1f, 0x8b},
			n:       100,
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := uncompressHeader(tc.format, tc.header, tc.n)
			if (err != nil) != tc.wantErr {
				t.Fatalf("uncompressHeader() error = %v, wantErr %v", err, tc.wantErr)
			}
			if !bytes.Equal(got, tc.want) {
				t.Errorf("uncompressHeader() returned %d bytes, want %d", len(got), len(tc.want))
			}
		})
	}
}
