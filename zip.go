// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package magicfs

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"io/fs"
	"time"

	"github.com/spf13/afero"
)

// magicBytesZip contains the magic bytes for a zip archive.
// reference: https://golang.org/pkg/archive/zip/
var magicBytesZip = [][]byte{
	{0x50, 0x4B, 0x03, 0x04},
}

var formatZip = format{
	contentType: ContentTypeZip,
	aliases:     []string{"application/x-zip-compressed", "application/x-zip"},
	description: "Zip archive data",
	magicBytes:  magicBytesZip,
}

// mountZip reads the zip archive from src and returns its contents as a
// read-only filesystem.
func mountZip(ctx context.Context, src io.Reader, cfg *Config) (afero.Fs, error) {
	sra, cleanup, err := readerToReaderAtSeeker(cfg, src)
	if err != nil {
		return nil, fmt.Errorf("cannot convert reader to readerAt and seeker: %w", err)
	}
	defer cleanup()

	// log mount
	cfg.Logger().Info("mounting zip")

	// get size of input and check if it exceeds maximum input size
	size, err := inputSize(cfg, sra)
	if err != nil {
		return nil, err
	}
	telemetryFromContext(ctx).InputSize = size

	// create zip reader and load entries
	reader, err := zip.NewReader(sra, size)
	if err != nil {
		return nil, fmt.Errorf("cannot create zip reader: %w", err)
	}
	return materialize(ctx, &zipWalker{zr: reader}, cfg)
}

// zipWalker is a walker for zip files
type zipWalker struct {
	zr *zip.Reader
	fp int
}

// Type returns the content type of zip files
func (z zipWalker) Type() ContentType {
	return ContentTypeZip
}

// Next returns the next entry in the zip archive
func (z *zipWalker) Next() (archiveEntry, error) {
	if z.fp >= len(z.zr.File) {
		return nil, io.EOF
	}
	defer func() { z.fp++ }()
	return &zipEntry{z.zr.File[z.fp]}, nil
}

// zipEntry is an entry in a zip archive
type zipEntry struct {
	zf *zip.File
}

// Name returns the name of the entry
func (z *zipEntry) Name() string {
	return z.zf.FileHeader.Name
}

// Size returns the size of the entry
func (z *zipEntry) Size() int64 {
	return int64(z.zf.FileHeader.UncompressedSize64)
}

// Mode returns the mode of the entry
func (z *zipEntry) Mode() fs.FileMode {
	return z.zf.FileHeader.Mode()
}

// Linkname returns the linkname of the entry
func (z *zipEntry) Linkname() string {
	rc, err := z.zf.Open()
	if err != nil {
		return ""
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	return string(data)
}

// IsRegular returns true if the entry is a regular file
func (z *zipEntry) IsRegular() bool {
	return z.zf.FileHeader.Mode().Type() == 0
}

// IsDir returns true if the entry is a directory
func (z *zipEntry) IsDir() bool {
	return z.zf.FileHeader.Mode().Type() == fs.ModeDir
}

// IsSymlink returns true if the entry is a symlink
func (z *zipEntry) IsSymlink() bool {
	return z.zf.FileHeader.Mode().Type() == fs.ModeSymlink
}

// Open returns a reader for the entry
func (z *zipEntry) Open() (io.ReadCloser, error) {
	return z.zf.Open()
}

// Type returns the type of the entry
func (z *zipEntry) Type() fs.FileMode {
	return z.zf.FileHeader.Mode().Type()
}

// ModTime returns the modification time of the entry
func (z *zipEntry) ModTime() time.Time {
	return z.zf.FileHeader.Modified
}
