// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package magicfs

import (
	"io"

	"github.com/klauspost/compress/zlib"
)

// magicBytesZlib is the magic bytes for Zlib files with the default window size.
// The FDICT variants are left out, because they collide with plain text.
// reference https://www.ietf.org/rfc/rfc1950.txt
var magicBytesZlib = [][]byte{
	{0x78, 0x01},
	{0x78, 0x5e},
	{0x78, 0x9c},
	{0x78, 0xda},
}

var formatZlib = format{
	contentType: ContentTypeZlib,
	description: "zlib compressed data",
	magicBytes:  magicBytesZlib,
	decompress:  decompressZlibStream,
}

// decompressZlibStream returns an io.Reader that decompresses src with zlib algorithm
func decompressZlibStream(src io.Reader) (io.Reader, error) {
	return zlib.NewReader(src)
}
