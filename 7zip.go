// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package magicfs

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"time"

	"github.com/bodgit/sevenzip"
	"github.com/spf13/afero"
)

// magicBytes7zip are the magic bytes for 7zip files
var magicBytes7zip = [][]byte{
	{0x37, 0x7A, 0xBC, 0xAF, 0x27, 0x1C},
}

var format7zip = format{
	contentType: ContentType7zip,
	description: "7-zip archive data",
	magicBytes:  magicBytes7zip,
}

// mount7zip reads the 7zip archive from src and returns its contents as a
// read-only filesystem.
func mount7zip(ctx context.Context, src io.Reader, cfg *Config) (afero.Fs, error) {
	sra, cleanup, err := readerToReaderAtSeeker(cfg, src)
	if err != nil {
		return nil, fmt.Errorf("cannot convert reader to readerAt and seeker: %w", err)
	}
	defer cleanup()

	// log mount
	cfg.Logger().Info("mounting 7zip")

	// get size of input and check if it exceeds maximum input size
	size, err := inputSize(cfg, sra)
	if err != nil {
		return nil, err
	}
	telemetryFromContext(ctx).InputSize = size

	// create 7zip reader and load entries
	reader, err := sevenzip.NewReader(sra, size)
	if err != nil {
		return nil, fmt.Errorf("cannot create 7zip reader: %w", err)
	}
	return materialize(ctx, &sevenZipWalker{r: reader}, cfg)
}

type sevenZipWalker struct {
	r  *sevenzip.Reader
	fp int
}

func (z sevenZipWalker) Type() ContentType {
	return ContentType7zip
}

func (z *sevenZipWalker) Next() (archiveEntry, error) {
	if z.fp >= len(z.r.File) {
		return nil, io.EOF
	}
	defer func() { z.fp++ }()
	return &sevenZipEntry{z.r.File[z.fp]}, nil
}

type sevenZipEntry struct {
	f *sevenzip.File
}

func (z *sevenZipEntry) Name() string {
	return z.f.Name
}

func (z *sevenZipEntry) Size() int64 {
	return z.f.FileInfo().Size()
}

func (z *sevenZipEntry) Mode() fs.FileMode {
	return z.f.FileInfo().Mode()
}

func (z *sevenZipEntry) Linkname() string {
	return ""
}

func (z *sevenZipEntry) IsRegular() bool {
	return z.f.FileInfo().Mode().IsRegular()
}

func (z *sevenZipEntry) IsDir() bool {
	return z.f.FileInfo().Mode().IsDir()
}

func (z *sevenZipEntry) IsSymlink() bool {
	return z.f.FileInfo().Mode().Type() == fs.ModeSymlink
}

func (z *sevenZipEntry) Open() (io.ReadCloser, error) {
	return z.f.Open()
}

func (z *sevenZipEntry) Type() fs.FileMode {
	return z.f.FileInfo().Mode().Type()
}

func (z *sevenZipEntry) ModTime() time.Time {
	return z.f.FileInfo().ModTime()
}
