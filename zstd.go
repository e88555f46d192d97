// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package magicfs

import (
	"io"

	"github.com/klauspost/compress/zstd"
)

// magicBytesZstd is the magic bytes for zstandard files.
// reference: https://www.rfc-editor.org/rfc/rfc8878.html
var magicBytesZstd = [][]byte{
	{0x28, 0xb5, 0x2f, 0xfd},
}

var formatZstd = format{
	contentType: ContentTypeZstd,
	description: "Zstandard compressed data",
	magicBytes:  magicBytesZstd,
	decompress:  decompressZstdStream,
}

// decompressZstdStream returns an io.Reader that decompresses src with zstandard algorithm.
// The decoder runs synchronously, so no goroutines outlive the stream.
func decompressZstdStream(src io.Reader) (io.Reader, error) {
	dec, err := zstd.NewReader(src, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, err
	}
	return dec.IOReadCloser(), nil
}
