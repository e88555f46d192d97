// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package magicfs

import (
	"archive/tar"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"strings"
	"unicode/utf8"

	"github.com/spf13/afero"
)

// materialize checks ctx for cancellation, while it reads all entries from src
// into an in-memory filesystem. The returned filesystem is read-only.
//
// The whole archive is read before the view is returned, so a corrupt archive
// fails here instead of producing a partial view.
func materialize(ctx context.Context, src archiveWalker, c *Config) (afero.Fs, error) {
	td := telemetryFromContext(ctx)
	mem := afero.NewMemMapFs()

	c.Logger().Info("start loading archive", "type", src.Type())
	var objectCounter int64
	var extractedBytes int64

	for {
		// check if context is canceled
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		// get next file
		ae, err := src.Next()

		switch {

		// if no more files are found exit loop
		case err == io.EOF:
			c.Logger().Debug("archive loaded", "type", src.Type(), "files", td.MountedFiles, "dirs", td.MountedDirs)
			return afero.NewReadOnlyFs(mem), nil

		// return any other error
		case err != nil:
			return nil, fmt.Errorf("error reading %s: %w", src.Type(), err)

		// if the header is nil, just skip it
		case ae == nil:
			continue
		}

		// check if maximum of objects is exceeded
		objectCounter++
		if err := c.CheckMaxFiles(objectCounter); err != nil {
			return nil, err
		}

		// the archive root is the root of the view
		name := entryPath(c, ae.Name())
		if name == "/" {
			continue
		}
		c.Logger().Debug("load", "name", name)

		switch {

		// directories keep their mode, unless they are not accessible
		case ae.IsDir():
			if err := mem.MkdirAll(name, dirMode(c, ae.Mode())); err != nil {
				return nil, fmt.Errorf("cannot create directory %s: %w", name, err)
			}
			if err := mem.Chmod(name, fs.ModeDir|dirMode(c, ae.Mode())); err != nil {
				return nil, fmt.Errorf("cannot set mode of %s: %w", name, err)
			}
			td.MountedDirs++

		case ae.IsRegular():

			// check extraction size
			if err := c.CheckExtractionSize(extractedBytes + ae.Size()); err != nil {
				return nil, err
			}

			// limit the remaining size, headers may lie about it
			limit := int64(-1)
			if c.MaxExtractionSize() != -1 {
				limit = c.MaxExtractionSize() - extractedBytes
			}

			n, err := createFile(mem, c, name, ae, limit)
			extractedBytes += n
			td.MountSize = extractedBytes
			if err != nil {
				return nil, err
			}
			td.MountedFiles++

		default:

			// tar specific: check for git comment file `pax_global_header` from type `67` and skip
			if ae.Type() == fs.FileMode(tar.TypeXGlobalHeader) {
				continue
			}

			// check if unsupported files should be skipped
			if c.ContinueOnUnsupportedFiles() {
				c.Logger().Info("skipped unsupported file", "name", name, "symlink", ae.IsSymlink(), "target", ae.Linkname())
				td.UnsupportedFiles++
				td.LastUnsupportedFile = name
				continue
			}
			return nil, fmt.Errorf("%w: %s (%s)", ErrUnsupportedFile, name, ae.Mode().Type())
		}
	}
}

// createFile writes the content of ae to name in mem and returns the number
// of written bytes. If limit is not -1, at most limit bytes are written.
func createFile(mem afero.Fs, c *Config, name string, ae archiveEntry, limit int64) (int64, error) {
	if err := mem.MkdirAll(path.Dir(name), c.CustomCreateDirMode()); err != nil {
		return 0, fmt.Errorf("cannot create directory for %s: %w", name, err)
	}

	rc, err := ae.Open()
	if err != nil {
		return 0, fmt.Errorf("cannot open %s: %w", name, err)
	}
	defer rc.Close()

	f, err := mem.OpenFile(name, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, ae.Mode().Perm())
	if err != nil {
		return 0, fmt.Errorf("cannot create %s: %w", name, err)
	}
	n, err := io.Copy(newExtractionWriter(f, limit), rc)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return n, fmt.Errorf("cannot load %s: %w", name, err)
	}

	if mt := ae.ModTime(); !mt.IsZero() {
		if err := mem.Chtimes(name, mt, mt); err != nil {
			return n, fmt.Errorf("cannot set times of %s: %w", name, err)
		}
	}
	return n, nil
}

// dirMode returns the permission bits for a directory entry. Directories
// without owner access fall back to the configured mode.
func dirMode(c *Config, mode fs.FileMode) fs.FileMode {
	if mode.Perm()&0500 != 0500 {
		return c.CustomCreateDirMode()
	}
	return mode.Perm()
}

// entryPath returns the absolute, cleaned path of an archive entry inside the
// mounted view. Names that are not valid UTF-8 are decoded with the configured
// filename encoding.
func entryPath(c *Config, name string) string {
	if enc := c.FilenameEncoding(); enc != nil && !utf8.ValidString(name) {
		if decoded, err := enc.NewDecoder().String(name); err == nil {
			name = decoded
		} else {
			c.Logger().Warn("cannot decode entry name", "name", name, "error", err)
		}
	}
	name = strings.ReplaceAll(name, "\\", "/")
	return path.Clean("/" + name)
}
