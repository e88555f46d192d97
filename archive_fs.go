// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package magicfs

import (
	"io"
	"sync"

	"github.com/spf13/afero"
)

// ArchiveFs is the read-only view of a mounted archive. Paths are rooted at
// "/" and use forward slashes. An ArchiveFs can be passed to [Classifier] and
// [Dispatcher] again to look into nested archives.
type ArchiveFs struct {
	afero.Fs

	contentType ContentType
	path        string

	closeOnce sync.Once
	closers   []io.Closer
	closeErr  error
}

// newArchiveFs returns view as ArchiveFs. Closing it closes view, if it is an
// [io.Closer], and then src.
func newArchiveFs(view afero.Fs, ct ContentType, p string, src io.Closer) *ArchiveFs {
	a := &ArchiveFs{
		Fs:          afero.NewBasePathFs(view, "/"),
		contentType: ct,
		path:        p,
	}
	if c, ok := view.(io.Closer); ok {
		a.closers = append(a.closers, c)
	}
	if src != nil {
		a.closers = append(a.closers, src)
	}
	return a
}

// ContentType returns the content type the archive was mounted as.
func (a *ArchiveFs) ContentType() ContentType {
	return a.contentType
}

// Path returns the path of the archive on its parent filesystem.
func (a *ArchiveFs) Path() string {
	return a.path
}

// Name implements [afero.Fs].
func (a *ArchiveFs) Name() string {
	return "ArchiveFs"
}

// Close releases the resources held by the view, including the archive stream
// it was mounted from. It is safe to call Close more than once.
func (a *ArchiveFs) Close() error {
	a.closeOnce.Do(func() {
		for _, c := range a.closers {
			if err := c.Close(); err != nil && a.closeErr == nil {
				a.closeErr = err
			}
		}
	})
	return a.closeErr
}
