// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package magicfs

import (
	"io"

	"github.com/klauspost/compress/gzip"
)

// magicBytesGZip are the magic bytes for gzip compressed files.
//
// https://socketloop.com/tutorials/golang-gunzip-file
var magicBytesGZip = [][]byte{
	{0x1f, 0x8b},
}

// formatGZip describes gzip compressed files.
var formatGZip = format{
	contentType: ContentTypeGZip,
	aliases:     []string{"application/x-gzip"},
	description: "gzip compressed data",
	magicBytes:  magicBytesGZip,
	decompress:  decompressGZipStream,
}

// decompressGZipStream returns an io.Reader that decompresses src with gzip algorithm.
func decompressGZipStream(src io.Reader) (io.Reader, error) {
	return gzip.NewReader(src)
}
