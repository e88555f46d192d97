// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package magicfs

import (
	"context"

	"github.com/spf13/afero"
)

// Dispatcher classifies files and mounts the ones a factory is registered for.
// It is safe for concurrent use.
type Dispatcher struct {
	classifier *Classifier
	registry   *ArchiveRegistry
}

// NewDispatcher returns a [Dispatcher]. A nil classifier or registry falls
// back to the defaults.
func NewDispatcher(c *Classifier, r *ArchiveRegistry) (*Dispatcher, error) {
	if c == nil {
		var err error
		if c, err = NewClassifier(nil); err != nil {
			return nil, err
		}
	}
	if r == nil {
		r = DefaultArchiveRegistry()
	}
	return &Dispatcher{classifier: c, registry: r}, nil
}

// Classifier returns the classifier of the dispatcher.
func (d *Dispatcher) Classifier() *Classifier {
	return d.classifier
}

// Registry returns the archive registry of the dispatcher.
func (d *Dispatcher) Registry() *ArchiveRegistry {
	return d.registry
}

// IsArchive reports whether p classifies as a content type with a registered
// [ArchiveFactory]. Errors of the classification are returned unchanged.
func (d *Dispatcher) IsArchive(ctx context.Context, fsys afero.Fs, p string) (bool, error) {
	ct, err := d.classifier.Classify(ctx, fsys, p)
	if err != nil {
		return false, err
	}
	_, ok := d.registry.Lookup(ct)
	return ok, nil
}

// Mount classifies p and mounts it with the registered factory. If p is not an
// archive, Mount returns false and no error. Failures after the archive was
// recognized are returned as [*MountError] together with true.
//
// The caller is responsible to close the returned [ArchiveFs].
func (d *Dispatcher) Mount(ctx context.Context, fsys afero.Fs, p string) (*ArchiveFs, bool, error) {
	ct, err := d.classifier.Classify(ctx, fsys, p)
	if err != nil {
		return nil, false, err
	}
	factory, ok := d.registry.Lookup(ct)
	if !ok {
		return nil, false, nil
	}

	cfg := d.classifier.Config()
	p = cleanPath(p)

	// prepare telemetry capturing
	td := &TelemetryData{Operation: OperationMount, Path: p, ContentType: ct}
	defer cfg.TelemetryHook()(ctx, td)
	defer captureDuration(td, now())

	view, src, err := d.mount(ctx, fsys, p, factory, td)
	if err != nil {
		mErr := &MountError{Path: p, ContentType: ct, Err: err}
		td.LastError = mErr
		cfg.Logger().Error("mount failed", "path", p, "contentType", ct, "error", err)
		return nil, true, mErr
	}
	cfg.Logger().Debug("mounted", "path", p, "contentType", ct, "files", td.MountedFiles, "dirs", td.MountedDirs)
	return newArchiveFs(view, ct, p, src), true, nil
}

// mount opens p and passes it to factory. On success the opened file is
// returned, it is owned by the view from then on.
func (d *Dispatcher) mount(ctx context.Context, fsys afero.Fs, p string, factory ArchiveFactory, td *TelemetryData) (afero.Fs, afero.File, error) {
	f, err := fsys.Open(p)
	if err != nil {
		return nil, nil, pathError(p, err)
	}
	view, err := factory(withTelemetry(ctx, td), f, d.classifier.Config())
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return view, f, nil
}
