// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package magicfs

import (
	"path"
	"strings"
)

// ContentType is a normalized MIME-like identifier of a detected format,
// e.g., "application/zip". It never carries parameters.
type ContentType string

// ContentTypeUnknown is returned if a file has no extension hint and was
// therefore not sniffed.
const ContentTypeUnknown ContentType = ""

const (
	ContentType7zip        ContentType = "application/x-7z-compressed"
	ContentTypeBrotli      ContentType = "application/x-brotli"
	ContentTypeBzip2       ContentType = "application/x-bzip2"
	ContentTypeDirectory   ContentType = "inode/directory"
	ContentTypeEmpty       ContentType = "application/x-empty"
	ContentTypeGZip        ContentType = "application/gzip"
	ContentTypeLZ4         ContentType = "application/x-lz4"
	ContentTypeOctetStream ContentType = "application/octet-stream"
	ContentTypeRar         ContentType = "application/x-rar"
	ContentTypeSnappy      ContentType = "application/x-snappy-framed"
	ContentTypeTar         ContentType = "application/x-tar"
	ContentTypeXz          ContentType = "application/x-xz"
	ContentTypeZip         ContentType = "application/zip"
	ContentTypeZlib        ContentType = "application/zlib"
	ContentTypeZstd        ContentType = "application/zstd"
)

// String returns the content type as string.
func (ct ContentType) String() string {
	return string(ct)
}

// IsUnknown returns true if no content type was determined.
func (ct ContentType) IsUnknown() bool {
	return ct == ContentTypeUnknown
}

// IsCompressed returns true if ct is a single-layer compression wrapper.
func (ct ContentType) IsCompressed() bool {
	_, ok := compressedTypes[ct]
	return ok
}

// parseContentType strips parameters and whitespace from a MIME string, e.g.,
// "text/plain; charset=utf-8" becomes "text/plain".
func parseContentType(s string) ContentType {
	s, _, _ = strings.Cut(s, ";")
	return ContentType(strings.ToLower(strings.TrimSpace(s)))
}

// compressedTypes are the content types of single-layer compression wrappers.
// A hint from this set enables decompression-aware sniffing.
var compressedTypes = map[ContentType]struct{}{
	ContentTypeBrotli: {},
	ContentTypeBzip2:  {},
	ContentTypeGZip:   {},
	ContentTypeLZ4:    {},
	ContentTypeSnappy: {},
	ContentTypeXz:     {},
	ContentTypeZlib:   {},
	ContentTypeZstd:   {},
}

// defaultExtensionHints maps lower-case file extensions to the hinted content type.
//
// Files without extension are assumed to be anonymous compressed payloads and
// are hinted as gzip, so they are always sniffed decompression-aware.
var defaultExtensionHints = map[string]ContentType{
	"":         ContentTypeGZip,
	".7z":      ContentType7zip,
	".br":      ContentTypeBrotli,
	".bz2":     ContentTypeBzip2,
	".gz":      ContentTypeGZip,
	".lz4":     ContentTypeLZ4,
	".rar":     ContentTypeRar,
	".sz":      ContentTypeSnappy,
	".tar":     ContentTypeTar,
	".tar.bz2": ContentTypeBzip2,
	".tar.gz":  ContentTypeGZip,
	".tar.xz":  ContentTypeXz,
	".tar.zst": ContentTypeZstd,
	".tbz":     ContentTypeBzip2,
	".tbz2":    ContentTypeBzip2,
	".tgz":     ContentTypeGZip,
	".txz":     ContentTypeXz,
	".tzst":    ContentTypeZstd,
	".xz":      ContentTypeXz,
	".zip":     ContentTypeZip,
	".zst":     ContentTypeZstd,
	".zz":      ContentTypeZlib,
}

// Suffixes returns the lower-case suffix chain of the base name of p, e.g.
// [".tar", ".gz"] for "backup.tar.gz". A leading dot does not start a suffix,
// so ".bashrc" has none.
func Suffixes(p string) []string {
	name := strings.ToLower(path.Base(strings.ReplaceAll(p, "\\", "/")))
	name = strings.TrimLeft(name, ".")
	parts := strings.Split(name, ".")
	if len(parts) < 2 {
		return nil
	}
	suffixes := make([]string, 0, len(parts)-1)
	for _, part := range parts[1:] {
		suffixes = append(suffixes, "."+part)
	}
	return suffixes
}

// lookupHint finds the hint for p with longest suffix match in hints. Files
// without extension use the hint of the empty extension.
func lookupHint(hints map[string]ContentType, p string) (ContentType, bool) {
	suffixes := Suffixes(p)
	if len(suffixes) == 0 {
		hint, ok := hints[""]
		return hint, ok
	}
	for i := range suffixes {
		if hint, ok := hints[strings.Join(suffixes[i:], "")]; ok {
			return hint, true
		}
	}
	return ContentTypeUnknown, false
}

// ExtensionHint returns the default hint for the extension of p.
func ExtensionHint(p string) (ContentType, bool) {
	return lookupHint(defaultExtensionHints, p)
}
