// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package magicfs

import (
	"errors"
	"fmt"
	"io/fs"
)

var (
	// ErrNotFound is returned if the classified path does not exist.
	ErrNotFound = errors.New("not found")

	// ErrPermissionDenied is returned if the path cannot be opened for reading.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrIO is returned for any other failure while reading the path.
	ErrIO = errors.New("i/o error")

	// ErrMountFailed is matched by every [MountError].
	ErrMountFailed = errors.New("mount failed")

	// ErrDuplicateFactory is returned if two archive factories are registered
	// for the same [ContentType].
	ErrDuplicateFactory = errors.New("duplicate archive factory")

	// ErrMaxFilesExceeded is returned if an archive holds more entries than
	// configured with [WithMaxFiles].
	ErrMaxFilesExceeded = errors.New("maximum files exceeded")

	// ErrMaxExtractionSizeExceeded is returned if the unpacked content of an
	// archive exceeds [WithMaxExtractionSize].
	ErrMaxExtractionSizeExceeded = errors.New("maximum extraction size exceeded")

	// ErrMaxInputSizeExceeded is returned if the archive stream exceeds
	// [WithMaxInputSize].
	ErrMaxInputSizeExceeded = errors.New("maximum input size exceeded")

	// ErrUnsupportedFile is returned for archive entries that cannot be
	// represented in a mounted view, e.g., symlinks or device files.
	ErrUnsupportedFile = errors.New("unsupported file")
)

// MountError is returned by [Dispatcher.Mount] if the archive stream cannot be
// opened or the archive factory fails.
type MountError struct {
	Path        string
	ContentType ContentType
	Err         error
}

func (e *MountError) Error() string {
	return fmt.Sprintf("cannot mount %s (%s): %s", e.Path, e.ContentType, e.Err)
}

// Unwrap returns the underlying cause.
func (e *MountError) Unwrap() error {
	return e.Err
}

// Is reports ErrMountFailed as a match, so callers can check the category
// without a type assertion.
func (e *MountError) Is(target error) bool {
	return target == ErrMountFailed
}

// pathError maps a filesystem error on path into the package error categories,
// keeping the original error in the chain.
func pathError(path string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %s: %w", ErrNotFound, path, err)
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%w: %s: %w", ErrPermissionDenied, path, err)
	default:
		return fmt.Errorf("%w: %s: %w", ErrIO, path, err)
	}
}
