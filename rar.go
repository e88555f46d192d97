// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package magicfs

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"time"

	"github.com/nwaples/rardecode"
	"github.com/spf13/afero"
)

// magicBytesRar are the magic bytes for Rar files.
var magicBytesRar = [][]byte{
	{0x52, 0x61, 0x72, 0x21, 0x1A, 0x07, 0x00},       // Rar 1.5
	{0x52, 0x61, 0x72, 0x21, 0x1A, 0x07, 0x01, 0x00}, // Rar 5.0
}

var formatRar = format{
	contentType: ContentTypeRar,
	aliases:     []string{"application/x-rar-compressed", "application/vnd.rar"},
	description: "RAR archive data",
	magicBytes:  magicBytesRar,
}

// mountRar reads the Rar archive from src and returns its contents as a
// read-only filesystem.
func mountRar(ctx context.Context, src io.Reader, cfg *Config) (afero.Fs, error) {
	// limit input size
	limitedReader := newInputReader(src, cfg.MaxInputSize())
	defer captureInputSize(telemetryFromContext(ctx), limitedReader)

	// log mount
	cfg.Logger().Info("mounting rar")

	a, err := rardecode.NewReader(limitedReader, "")
	if err != nil {
		return nil, fmt.Errorf("cannot create rar decoder: %w", err)
	}
	return materialize(ctx, &rarWalker{a}, cfg)
}

// rarWalker is an archiveWalker for Rar files.
type rarWalker struct {
	r *rardecode.Reader
}

// Type returns the content type for rar files.
func (rw *rarWalker) Type() ContentType {
	return ContentTypeRar
}

// Next returns the next entry in the rar file.
func (rw *rarWalker) Next() (archiveEntry, error) {
	fh, err := rw.r.Next()
	if err != nil {
		return nil, err
	}
	return &rarEntry{fh, rw.r}, nil
}

// rarEntry is an archiveEntry for Rar files.
type rarEntry struct {
	f *rardecode.FileHeader
	r io.Reader
}

// Name returns the name of the file.
func (r *rarEntry) Name() string {
	return r.f.Name
}

// Size returns the size of the file.
func (r *rarEntry) Size() int64 {
	return r.f.UnPackedSize
}

// Mode returns the mode of the file.
func (r *rarEntry) Mode() fs.FileMode {
	return r.f.Mode()
}

// Linkname symlinks are not supported.
func (r *rarEntry) Linkname() string {
	return ""
}

// IsRegular returns true if the file is a regular file.
func (r *rarEntry) IsRegular() bool {
	return !r.f.IsDir && r.f.Mode().IsRegular()
}

// IsDir returns true if the file is a directory.
func (r *rarEntry) IsDir() bool {
	return r.f.IsDir
}

// IsSymlink returns true if the file is a symlink.
func (r *rarEntry) IsSymlink() bool {
	return false
}

// Type returns the type of the file.
func (r *rarEntry) Type() fs.FileMode {
	return r.f.Mode().Type()
}

// Open returns a reader for the file.
func (r *rarEntry) Open() (io.ReadCloser, error) {
	return io.NopCloser(r.r), nil
}

// ModTime returns the modification time of the file.
func (r *rarEntry) ModTime() time.Time {
	return r.f.ModificationTime
}
