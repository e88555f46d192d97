// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package magicfs

import (
	"io"

	"github.com/golang/snappy"
)

// magicBytesSnappy is the stream identifier of the snappy framing format.
var magicBytesSnappy = [][]byte{
	append([]byte{0xff, 0x06, 0x00, 0x00}, []byte("sNaPpY")...),
}

var formatSnappy = format{
	contentType: ContentTypeSnappy,
	description: "snappy framed data",
	magicBytes:  magicBytesSnappy,
	decompress:  decompressSnappyStream,
}

// decompressSnappyStream returns an io.Reader that decompresses src with snappy algorithm
func decompressSnappyStream(src io.Reader) (io.Reader, error) {
	return snappy.NewReader(src), nil
}
