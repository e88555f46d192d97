// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package magicfs

import (
	"context"
	"fmt"
	"path"

	"github.com/spf13/afero"
)

// Classifier determines the [ContentType] of files on an [afero.Fs].
//
// The file extension decides if a file is sniffed at all: files without a hint
// are reported as [ContentTypeUnknown] without reading a byte. Hinted files are
// sniffed and the [Sniffer] result is returned, the hint is only a gate. If the
// hint is a compression, the sniffer looks inside it, so "backup.gz" holding
// a tar archive classifies as [ContentTypeTar].
//
// A Classifier is safe for concurrent use.
type Classifier struct {
	cfg   *Config
	hints map[string]ContentType
	cache *classificationCache
}

// NewClassifier returns a [Classifier] for cfg. A nil cfg uses the defaults.
// The extension hints of cfg are copied, later changes of cfg have no effect.
func NewClassifier(cfg *Config) (*Classifier, error) {
	if cfg == nil {
		cfg = NewConfig()
	}

	hints := make(map[string]ContentType, len(defaultExtensionHints)+len(cfg.ExtensionHints()))
	for ext, hint := range defaultExtensionHints {
		hints[ext] = hint
	}
	for ext, hint := range cfg.ExtensionHints() {
		hints[ext] = hint
	}

	cache, err := newClassificationCache(cfg.CacheSize())
	if err != nil {
		return nil, fmt.Errorf("cannot create classification cache: %w", err)
	}

	return &Classifier{cfg: cfg, hints: hints, cache: cache}, nil
}

// Config returns the configuration of the classifier.
func (c *Classifier) Config() *Config {
	return c.cfg
}

// CachedResults returns the number of cached classification results.
func (c *Classifier) CachedResults() int {
	return c.cache.len()
}

// Hint returns the extension hint for p.
func (c *Classifier) Hint(p string) (ContentType, bool) {
	return lookupHint(c.hints, p)
}

// Classify returns the [ContentType] of p on fsys.
//
// It fails with [ErrNotFound] if p does not exist, with [ErrPermissionDenied]
// if p cannot be opened and with [ErrIO] if reading fails. Directories are
// reported as [ContentTypeDirectory] without sniffing.
func (c *Classifier) Classify(ctx context.Context, fsys afero.Fs, p string) (ContentType, error) {
	// prepare telemetry capturing
	p = cleanPath(p)
	td := &TelemetryData{Operation: OperationClassify, Path: p}
	defer c.cfg.TelemetryHook()(ctx, td)
	defer captureDuration(td, now())

	ct, err := c.classify(ctx, fsys, p, td)
	if err != nil {
		td.LastError = err
		c.cfg.Logger().Debug("classification failed", "path", p, "error", err)
		return ContentTypeUnknown, err
	}
	td.ContentType = ct
	c.cfg.Logger().Debug("classified", "path", p, "hint", td.Hint, "contentType", ct, "cacheHit", td.CacheHit)
	return ct, nil
}

func (c *Classifier) classify(ctx context.Context, fsys afero.Fs, p string, td *TelemetryData) (ContentType, error) {
	// check if context is canceled
	if err := ctx.Err(); err != nil {
		return ContentTypeUnknown, err
	}

	// the path needs to exist, independent of the hint
	stat, err := fsys.Stat(p)
	if err != nil {
		return ContentTypeUnknown, pathError(p, err)
	}
	if stat.IsDir() {
		return ContentTypeDirectory, nil
	}

	if ct, ok := c.cache.get(fsys, p); ok {
		td.CacheHit = true
		return ct, nil
	}

	// no hint, no sniffing
	hint, ok := c.Hint(p)
	if !ok {
		c.cache.add(fsys, p, ContentTypeUnknown)
		return ContentTypeUnknown, nil
	}
	td.Hint = hint

	// refine the hint by sniffing the header
	result, sniffed, err := sniffFile(fsys, p, c.cfg, SniffOptions{MIME: true, Uncompress: hint.IsCompressed()})
	td.SniffedBytes = sniffed
	if err != nil {
		return ContentTypeUnknown, err
	}

	ct := parseContentType(result)
	c.cache.add(fsys, p, ct)
	return ct, nil
}

// sniffFile reads at most [Config.SniffLength] bytes from the beginning of p
// and passes them to the sniffer. Files shorter than that are sniffed with what
// is available, an empty file with an empty header. To look inside a
// compression, a [StreamSniffer] reads on behind the header. It returns the
// number of bytes read from p.
func sniffFile(fsys afero.Fs, p string, cfg *Config, opts SniffOptions) (string, int64, error) {
	f, err := fsys.Open(p)
	if err != nil {
		return "", 0, pathError(p, err)
	}
	defer f.Close()

	counter := newInputReader(f, -1)
	hr, err := newHeaderReader(counter, cfg.SniffLength())
	if err != nil {
		return "", counter.Size(), pathError(p, err)
	}
	header := hr.PeekHeader()

	var result string
	if ss, ok := cfg.Sniffer().(StreamSniffer); ok && opts.Uncompress {
		result, err = ss.SniffStream(header, hr, opts)
	} else {
		result, err = cfg.Sniffer().Sniff(header, opts)
	}
	if err != nil {
		return "", counter.Size(), fmt.Errorf("cannot sniff %s: %w", p, err)
	}
	return result, counter.Size(), nil
}

// cleanPath normalizes p to an absolute slash-separated path.
func cleanPath(p string) string {
	return path.Clean("/" + p)
}
