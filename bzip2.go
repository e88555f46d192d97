// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package magicfs

import (
	"io"

	"github.com/dsnet/compress/bzip2"
)

// magicBytesBzip2 are the magic bytes for bzip2 compressed files
// reference: https://en.wikipedia.org/wiki/Bzip2 // https://github.com/dsnet/compress/blob/master/doc/bzip2-format.pdf
var magicBytesBzip2 = [][]byte{
	[]byte("BZh1"),
	[]byte("BZh2"),
	[]byte("BZh3"),
	[]byte("BZh4"),
	[]byte("BZh5"),
	[]byte("BZh6"),
	[]byte("BZh7"),
	[]byte("BZh8"),
	[]byte("BZh9"),
}

var formatBzip2 = format{
	contentType: ContentTypeBzip2,
	aliases:     []string{"application/bzip2"},
	description: "bzip2 compressed data",
	magicBytes:  magicBytesBzip2,
	decompress:  decompressBz2Stream,
}

func decompressBz2Stream(src io.Reader) (io.Reader, error) {
	return bzip2.NewReader(src, &bzip2.ReaderConfig{})
}
