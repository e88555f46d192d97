// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package magicfs

import (
	"io"

	"github.com/andybalholm/brotli"
)

// formatBrotli describes brotli compressed data. Brotli has no magic bytes,
// so it is never matched by header and only found by probing.
var formatBrotli = format{
	contentType: ContentTypeBrotli,
	description: "Brotli compressed data",
	headerCheck: isBrotli,
	decompress:  decompressBrotliStream,
}

// isBrotli returns always false, because the brotli magic bytes are not unique
func isBrotli(header []byte) bool {
	return false
}

// decompressBrotliStream returns an io.Reader that decompresses src with brotli algorithm
func decompressBrotliStream(src io.Reader) (io.Reader, error) {
	return brotli.NewReader(src), nil
}
