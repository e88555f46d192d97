// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package magicfs

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/spf13/afero"
)

// ArchiveFactory builds a read-only filesystem view from the archive in src.
// The returned filesystem is rooted at "/".
//
// When called by a [Dispatcher], src is the opened [afero.File] of the archive.
// It stays open until the view is closed with [ArchiveFs.Close], so a factory
// may read it lazily after returning. If the returned filesystem is an
// [io.Closer], it is closed first. On error src is closed by the dispatcher.
type ArchiveFactory func(ctx context.Context, src io.Reader, cfg *Config) (afero.Fs, error)

// ArchiveRegistry maps a [ContentType] to the [ArchiveFactory] that mounts it.
// It is immutable after construction and safe for concurrent use.
type ArchiveRegistry struct {
	factories map[ContentType]ArchiveFactory
}

// RegistryOption adds entries to an [ArchiveRegistry].
type RegistryOption func(*registryBuilder)

type registryBuilder struct {
	factories map[ContentType]ArchiveFactory
	err       error
}

// defaultArchiveFactories are the archive formats that can be mounted out of the box.
var defaultArchiveFactories = map[ContentType]ArchiveFactory{
	ContentType7zip: mount7zip,
	ContentTypeRar:  mountRar,
	ContentTypeTar:  mountTar,
	ContentTypeZip:  mountZip,
}

// WithArchiveFactory registers f for ct. Registering a second factory for a
// content type fails with [ErrDuplicateFactory].
func WithArchiveFactory(ct ContentType, f ArchiveFactory) RegistryOption {
	return func(b *registryBuilder) {
		if b.err != nil {
			return
		}
		ct = parseContentType(string(ct))
		if _, exists := b.factories[ct]; exists {
			b.err = fmt.Errorf("%w: %s", ErrDuplicateFactory, ct)
			return
		}
		if f == nil {
			b.err = fmt.Errorf("no factory given for %s", ct)
			return
		}
		b.factories[ct] = f
	}
}

// NewArchiveRegistry returns a registry holding the built-in factories and the
// ones added by opts.
func NewArchiveRegistry(opts ...RegistryOption) (*ArchiveRegistry, error) {
	b := &registryBuilder{factories: make(map[ContentType]ArchiveFactory, len(defaultArchiveFactories)+len(opts))}
	for ct, f := range defaultArchiveFactories {
		b.factories[ct] = f
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.err != nil {
		return nil, b.err
	}
	return &ArchiveRegistry{factories: b.factories}, nil
}

// DefaultArchiveRegistry returns a registry with the built-in factories only.
func DefaultArchiveRegistry() *ArchiveRegistry {
	r, _ := NewArchiveRegistry()
	return r
}

// Lookup returns the factory registered for ct. Only exact matches count.
func (r *ArchiveRegistry) Lookup(ct ContentType) (ArchiveFactory, bool) {
	if ct.IsUnknown() {
		return nil, false
	}
	f, ok := r.factories[ct]
	return f, ok
}

// ContentTypes returns the registered content types in sorted order.
func (r *ArchiveRegistry) ContentTypes() []ContentType {
	types := make([]ContentType, 0, len(r.factories))
	for ct := range r.factories {
		types = append(types, ct)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}
