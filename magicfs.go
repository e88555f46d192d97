// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package magicfs

import (
	"context"
	"sync"

	"github.com/spf13/afero"
)

// Magic reads the header of p on fsys and returns what the [Sniffer] of cfg
// reports for it. Unlike [Classifier.Classify], the extension is not
// consulted and any path is sniffed. A nil cfg uses the defaults.
func Magic(ctx context.Context, fsys afero.Fs, p string, cfg *Config, opts SniffOptions) (string, error) {
	if cfg == nil {
		cfg = NewConfig()
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	p = cleanPath(p)
	stat, err := fsys.Stat(p)
	if err != nil {
		return "", pathError(p, err)
	}
	if stat.IsDir() {
		if opts.MIME {
			return string(ContentTypeDirectory), nil
		}
		return "directory", nil
	}

	result, _, err := sniffFile(fsys, p, cfg, opts)
	return result, err
}

// MagicFs decorates an [afero.Fs] with content sniffing.
type MagicFs struct {
	afero.Fs

	cfg *Config
}

// NewMagicFs returns fsys decorated with [MagicFs.Magic]. A nil cfg uses the
// defaults.
func NewMagicFs(fsys afero.Fs, cfg *Config) *MagicFs {
	if cfg == nil {
		cfg = NewConfig()
	}
	return &MagicFs{Fs: fsys, cfg: cfg}
}

// Magic sniffs p, see [Magic].
func (m *MagicFs) Magic(ctx context.Context, p string, opts SniffOptions) (string, error) {
	return Magic(ctx, m.Fs, p, m.cfg, opts)
}

// Name implements [afero.Fs].
func (m *MagicFs) Name() string {
	return "MagicFs"
}

var (
	defaultDispatcherOnce sync.Once
	defaultDispatcher     *Dispatcher
	defaultDispatcherErr  error
)

// dispatcher returns the lazily built package level [Dispatcher].
func dispatcher() (*Dispatcher, error) {
	defaultDispatcherOnce.Do(func() {
		defaultDispatcher, defaultDispatcherErr = NewDispatcher(nil, nil)
	})
	return defaultDispatcher, defaultDispatcherErr
}

// IsArchive reports whether p on fsys is a mountable archive, using the
// default configuration. See [Dispatcher.IsArchive].
func IsArchive(ctx context.Context, fsys afero.Fs, p string) (bool, error) {
	d, err := dispatcher()
	if err != nil {
		return false, err
	}
	return d.IsArchive(ctx, fsys, p)
}

// MountArchive mounts p on fsys, using the default configuration. See
// [Dispatcher.Mount].
func MountArchive(ctx context.Context, fsys afero.Fs, p string) (*ArchiveFs, bool, error) {
	d, err := dispatcher()
	if err != nil {
		return nil, false, err
	}
	return d.Mount(ctx, fsys, p)
}
