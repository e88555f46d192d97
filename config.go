// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package magicfs

import (
	"context"
	"io"
	"io/fs"
	"log/slog"
	"strings"

	"golang.org/x/text/encoding"
)

// ConfigOption is a function pointer to implement the option pattern
type ConfigOption func(*Config)

// Config provides a configuration struct and options to adjust the configuration.
//
// The configuration struct holds all options for classification and mounting.
// The configuration options can be adjusted using the option pattern style.
//
// The default configuration limits mounted archives to prevent memory exhaustion,
// because every built-in archive view is held in memory.
type Config struct {
	// cacheInMemory decides if non-seekable archive streams are cached in memory
	// or in a temporary file before zip and 7zip archives are parsed.
	cacheInMemory bool

	// cacheSize is the number of classification results kept in the LRU cache.
	// Set value to 0 to disable the cache.
	cacheSize int

	// continueOnUnsupportedFiles skips archive entries that cannot be represented
	// in a mounted view (symlinks, devices, fifos) instead of failing the mount
	continueOnUnsupportedFiles bool

	// customCreateDirMode is the file mode for directories that are implied by
	// entry paths but not present in the archive
	customCreateDirMode fs.FileMode

	// extensionHints are additional extension hints, merged over the defaults
	extensionHints map[string]ContentType

	// filenameEncoding decodes entry names that are not valid UTF-8
	filenameEncoding encoding.Encoding

	// logger stream for classification and mounting
	logger logger

	// maxExtractionSize is the maximum size of all files of a mounted archive.
	// Set value to -1 to disable the check.
	maxExtractionSize int64

	// maxFiles is the maximum of entries (including folders and symlinks) in a mounted archive.
	// Set value to -1 to disable the check.
	maxFiles int64

	// maxInputSize is the maximum size of an archive stream that is mounted.
	// Set value to -1 to disable the check.
	maxInputSize int64

	// sniffer is the oracle that identifies the content of a file header
	sniffer Sniffer

	// sniffLength is the number of bytes that are read from a file for sniffing
	sniffLength int

	// telemetryHook is a function to consume telemetry data after a classification
	// or mount finished
	telemetryHook TelemetryHook
}

// CacheInMemory returns true if non-seekable archive streams are cached in memory.
//
// If set to false, the stream is stored in a temporary file to avoid memory exhaustion.
func (c *Config) CacheInMemory() bool {
	return c.cacheInMemory
}

// CacheSize returns the number of classification results that are cached.
func (c *Config) CacheSize() int {
	return c.cacheSize
}

// CheckMaxFiles checks if counter exceeds the configured maximum. If the maximum is exceeded,
// a [ErrMaxFilesExceeded] error is returned.
func (c *Config) CheckMaxFiles(counter int64) error {

	// check if disabled
	if c.MaxFiles() == -1 {
		return nil
	}

	// check value
	if counter > c.MaxFiles() {
		return ErrMaxFilesExceeded
	}
	return nil
}

// CheckExtractionSize checks if fileSize exceeds configured maximum. If the maximum is exceeded,
// a [ErrMaxExtractionSizeExceeded] error is returned.
func (c *Config) CheckExtractionSize(fileSize int64) error {

	// check if disabled
	if c.MaxExtractionSize() == -1 {
		return nil
	}

	// check value
	if fileSize > c.MaxExtractionSize() {
		return ErrMaxExtractionSizeExceeded
	}
	return nil
}

// ContinueOnUnsupportedFiles returns true if archive entries that cannot be
// represented in a mounted view, e.g., symlinks, FIFO, block or character devices,
// should be skipped.
func (c *Config) ContinueOnUnsupportedFiles() bool {
	return c.continueOnUnsupportedFiles
}

// CustomCreateDirMode returns the file mode for directories that are implied
// by entry paths but not present in the archive.
func (c *Config) CustomCreateDirMode() fs.FileMode {
	return c.customCreateDirMode
}

// ExtensionHints returns the additional extension hints.
func (c *Config) ExtensionHints() map[string]ContentType {
	return c.extensionHints
}

// FilenameEncoding returns the encoding used to decode entry names that are not
// valid UTF-8. A nil encoding keeps names as they are.
func (c *Config) FilenameEncoding() encoding.Encoding {
	return c.filenameEncoding
}

// Logger returns the logger.
func (c *Config) Logger() logger {
	return c.logger
}

// MaxExtractionSize returns the maximum size over all files of a mounted archive.
func (c *Config) MaxExtractionSize() int64 {
	return c.maxExtractionSize
}

// MaxFiles returns the maximum of entries (including folders and symlinks) in a mounted archive.
func (c *Config) MaxFiles() int64 {
	return c.maxFiles
}

// MaxInputSize returns the maximum size of a mounted archive stream.
func (c *Config) MaxInputSize() int64 {
	return c.maxInputSize
}

// Sniffer returns the content sniffing oracle.
func (c *Config) Sniffer() Sniffer {
	return c.sniffer
}

// SniffLength returns the number of bytes that are read for sniffing.
func (c *Config) SniffLength() int {
	return c.sniffLength
}

// TelemetryHook returns the telemetry hook.
func (c *Config) TelemetryHook() TelemetryHook {
	if c.telemetryHook == nil {
		return func(ctx context.Context, d *TelemetryData) {
			// noop
		}
	}
	return c.telemetryHook
}

const (
	defaultCacheInMemory              = false         // cache on disk
	defaultCacheSize                  = 8             // 8 classification results
	defaultContinueOnUnsupportedFiles = true          // skip symlinks and special files
	defaultCustomCreateDirMode        = 0755          // default directory permissions rwxr-xr-x
	defaultMaxFiles                   = 100000        // 100k files
	defaultMaxExtractionSize          = 1 << (10 * 3) // 1 Gb
	defaultMaxInputSize               = 1 << (10 * 3) // 1 Gb
	defaultSniffLength                = 4096          // bytes read for sniffing

	// minSniffLength is the smallest header that is passed to the sniffer.
	// Less bytes can produce an incorrect identification.
	minSniffLength = 2048
)

var (
	// slog to discard
	defaultLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
	// no operation telemetry hook
	defaultTelemetryHook = func(ctx context.Context, d *TelemetryData) {
		// noop
	}
)

// NewConfig is a generator option that takes opts as adjustments of the
// default configuration in an option pattern style.
func NewConfig(opts ...ConfigOption) *Config {

	// setup default values
	config := &Config{
		cacheInMemory:              defaultCacheInMemory,
		cacheSize:                  defaultCacheSize,
		continueOnUnsupportedFiles: defaultContinueOnUnsupportedFiles,
		customCreateDirMode:        defaultCustomCreateDirMode,
		logger:                     defaultLogger,
		maxExtractionSize:          defaultMaxExtractionSize,
		maxFiles:                   defaultMaxFiles,
		maxInputSize:               defaultMaxInputSize,
		sniffLength:                defaultSniffLength,
		telemetryHook:              defaultTelemetryHook,
	}

	// Loop through each option
	for _, opt := range opts {
		opt(config)
	}

	// fall back to the built-in sniffer
	if config.sniffer == nil {
		config.sniffer = NewMagicSniffer()
	}

	return config
}

// WithCacheInMemory options pattern function to enable/disable caching non-seekable
// archive streams in memory. This applies only to zip and 7zip archives.
//
// If set to false, the stream is stored in a temporary file to avoid memory exhaustion.
func WithCacheInMemory(cache bool) ConfigOption {
	return func(c *Config) {
		c.cacheInMemory = cache
	}
}

// WithCacheSize options pattern function to set the number of cached classification
// results. (0 to disable the cache)
//
// Cached results are not revalidated: a file that is modified after it was
// classified keeps its cached [ContentType] until the entry is evicted.
func WithCacheSize(size int) ConfigOption {
	return func(c *Config) {
		if size < 0 {
			size = 0
		}
		c.cacheSize = size
	}
}

// WithContinueOnUnsupportedFiles options pattern function to enable/disable skipping
// archive entries that cannot be represented in a mounted view.
func WithContinueOnUnsupportedFiles(ctd bool) ConfigOption {
	return func(c *Config) {
		c.continueOnUnsupportedFiles = ctd
	}
}

// WithCustomCreateDirMode options pattern function to set the file mode for
// directories that are implied by entry paths but not present in the archive.
func WithCustomCreateDirMode(mode fs.FileMode) ConfigOption {
	return func(c *Config) {
		c.customCreateDirMode = mode
	}
}

// WithExtensionHint options pattern function to map a file extension, e.g. ".cbz",
// to a [ContentType] hint. The extension is matched case-insensitive; an empty
// extension overrides the hint for files without extension.
func WithExtensionHint(ext string, hint ContentType) ConfigOption {
	return func(c *Config) {
		if c.extensionHints == nil {
			c.extensionHints = make(map[string]ContentType)
		}
		ext = strings.ToLower(ext)
		if len(ext) > 0 && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		c.extensionHints[ext] = hint
	}
}

// WithFilenameEncoding options pattern function to set the encoding of entry names
// that are not valid UTF-8, e.g. [golang.org/x/text/encoding/charmap.CodePage437]
// for zip archives created on legacy systems.
func WithFilenameEncoding(enc encoding.Encoding) ConfigOption {
	return func(c *Config) {
		c.filenameEncoding = enc
	}
}

// WithLogger options pattern function to set a custom logger. A nil logger
// keeps the default, which discards all output.
func WithLogger(logger logger) ConfigOption {
	return func(c *Config) {
		if l, ok := logger.(*slog.Logger); logger == nil || (ok && l == nil) {
			c.logger = defaultLogger
			return
		}
		c.logger = logger
	}
}

// WithMaxExtractionSize options pattern function to set maximum size over all files
// of a mounted archive. (-1 to disable check)
func WithMaxExtractionSize(maxExtractionSize int64) ConfigOption {
	return func(c *Config) {
		c.maxExtractionSize = maxExtractionSize
	}
}

// WithMaxFiles options pattern function to set maximum number of files, directories
// and symlinks in a mounted archive. (-1 to disable check)
func WithMaxFiles(maxFiles int64) ConfigOption {
	return func(c *Config) {
		c.maxFiles = maxFiles
	}
}

// WithMaxInputSize options pattern function to set MaxInputSize for mounted archive streams. (-1 to disable check)
func WithMaxInputSize(maxInputSize int64) ConfigOption {
	return func(c *Config) {
		c.maxInputSize = maxInputSize
	}
}

// WithSniffer options pattern function to replace the content sniffing oracle.
func WithSniffer(s Sniffer) ConfigOption {
	return func(c *Config) {
		c.sniffer = s
	}
}

// WithSniffLength options pattern function to set the number of bytes that are
// read for sniffing. Values below 2048 are raised to 2048.
func WithSniffLength(n int) ConfigOption {
	return func(c *Config) {
		if n < minSniffLength {
			n = minSniffLength
		}
		c.sniffLength = n
	}
}

// WithTelemetryHook options pattern function to set a [TelemetryHook], which is called
// after each classification and mount.
func WithTelemetryHook(hook TelemetryHook) ConfigOption {
	return func(c *Config) {
		if hook == nil {
			hook = defaultTelemetryHook
		}
		c.telemetryHook = hook
	}
}
