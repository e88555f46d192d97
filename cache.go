// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package magicfs

import (
	"reflect"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/spf13/afero"
)

// cacheKey identifies a path on a specific filesystem instance. The same path
// on two filesystems may refer to different bytes, so both are part of the key.
type cacheKey struct {
	fsys afero.Fs
	path string
}

// classificationCache is a bounded LRU cache of classification results. It is
// safe for concurrent use. A nil cache stores nothing.
type classificationCache struct {
	lru *lru.Cache[cacheKey, ContentType]
}

// newClassificationCache returns a cache holding size results. If size is 0,
// nil is returned and caching is disabled.
func newClassificationCache(size int) (*classificationCache, error) {
	if size <= 0 {
		return nil, nil
	}
	c, err := lru.New[cacheKey, ContentType](size)
	if err != nil {
		return nil, err
	}
	return &classificationCache{lru: c}, nil
}

// cacheable returns true if fsys can be part of a map key. Filesystems with
// a non-comparable dynamic type would panic on hashing and are never cached.
func cacheable(fsys afero.Fs) bool {
	return fsys != nil && reflect.TypeOf(fsys).Comparable()
}

func (c *classificationCache) get(fsys afero.Fs, path string) (ContentType, bool) {
	if c == nil || !cacheable(fsys) {
		return ContentTypeUnknown, false
	}
	return c.lru.Get(cacheKey{fsys, path})
}

func (c *classificationCache) add(fsys afero.Fs, path string, ct ContentType) {
	if c == nil || !cacheable(fsys) {
		return
	}
	c.lru.Add(cacheKey{fsys, path}, ct)
}

// len returns the number of cached results.
func (c *classificationCache) len() int {
	if c == nil {
		return 0
	}
	return c.lru.Len()
}
