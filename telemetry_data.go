// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package magicfs

import (
	"context"
	"encoding/json"
	"time"
)

// now is a function point that returns time.Now to the caller.
var now = time.Now

const (
	// OperationClassify marks [TelemetryData] of a classification.
	OperationClassify = "classify"

	// OperationMount marks [TelemetryData] of a mount.
	OperationMount = "mount"
)

// TelemetryData holds all telemetry data of a classification or a mount.
type TelemetryData struct {
	// CacheHit is true if the content type was taken from the classification cache
	CacheHit bool `json:"cache_hit"`

	// ContentType is the classified content type
	ContentType ContentType `json:"content_type"`

	// Duration is the time the operation took
	Duration time.Duration `json:"duration"`

	// Hint is the content type derived from the file extension
	Hint ContentType `json:"hint"`

	// InputSize is the number of bytes read from the archive stream
	InputSize int64 `json:"input_size"`

	// LastError is the error that ended the operation
	LastError error `json:"last_error"`

	// MountedDirs is the number of directories in the mounted view
	MountedDirs int64 `json:"mounted_dirs"`

	// MountedFiles is the number of files in the mounted view
	MountedFiles int64 `json:"mounted_files"`

	// MountSize is the size of all files in the mounted view
	MountSize int64 `json:"mount_size"`

	// Operation is either [OperationClassify] or [OperationMount]
	Operation string `json:"operation"`

	// Path is the classified or mounted path
	Path string `json:"path"`

	// SniffedBytes is the number of bytes passed to the sniffer
	SniffedBytes int64 `json:"sniffed_bytes"`

	// UnsupportedFiles is the number of skipped archive entries
	UnsupportedFiles int64 `json:"unsupported_files"`

	// LastUnsupportedFile is the last skipped archive entry
	LastUnsupportedFile string `json:"last_unsupported_file"`
}

// String returns a string representation of [TelemetryData].
func (m TelemetryData) String() string {
	b, _ := json.Marshal(m)
	return string(b)
}

// MarshalJSON implements the [encoding/json.Marshaler] interface.
func (m TelemetryData) MarshalJSON() ([]byte, error) {
	var lastError string
	if m.LastError != nil {
		lastError = m.LastError.Error()
	}

	type Alias TelemetryData
	return json.Marshal(&struct {
		LastError string `json:"last_error"`
		*Alias
	}{
		LastError: lastError,
		Alias:     (*Alias)(&m),
	})
}

// TelemetryHook is a function type that performs operations on [TelemetryData]
// after a classification or mount has finished, which can be used to submit the
// [TelemetryData] to a telemetry service, for example.
type TelemetryHook func(context.Context, *TelemetryData)

// captureDuration captures the duration of the operation
func captureDuration(td *TelemetryData, start time.Time) {
	td.Duration = now().Sub(start)
}

// captureInputSize captures the input size of a mount
func captureInputSize(td *TelemetryData, r *inputReader) {
	td.InputSize = r.Size()
}

type telemetryKey struct{}

// withTelemetry returns a context that carries td to the archive factory.
func withTelemetry(ctx context.Context, td *TelemetryData) context.Context {
	return context.WithValue(ctx, telemetryKey{}, td)
}

// telemetryFromContext returns the [TelemetryData] of the running mount. Outside
// of a mount, a detached value is returned, so callers never check for nil.
func telemetryFromContext(ctx context.Context) *TelemetryData {
	if td, ok := ctx.Value(telemetryKey{}).(*TelemetryData); ok {
		return td
	}
	return &TelemetryData{}
}
