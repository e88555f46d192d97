// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package magicfs

import (
	"io"

	"github.com/pierrec/lz4/v4"
)

// magicBytesLZ4 is the magic bytes for LZ4 files.
// reference https://android.googlesource.com/platform/external/lz4/+/HEAD/doc/lz4_Frame_format.md
var magicBytesLZ4 = [][]byte{
	{0x04, 0x22, 0x4D, 0x18},
}

var formatLZ4 = format{
	contentType: ContentTypeLZ4,
	description: "LZ4 compressed data",
	magicBytes:  magicBytesLZ4,
	decompress:  decompressLZ4Stream,
}

// decompressLZ4Stream returns an io.Reader that decompresses src with lz4 algorithm
func decompressLZ4Stream(src io.Reader) (io.Reader, error) {
	return lz4.NewReader(src), nil
}
