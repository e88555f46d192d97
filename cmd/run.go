// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sync"

	"github.com/alecthomas/kong"
	"github.com/hashicorp/go-magicfs"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

// Globals are the flags shared by all commands.
type Globals struct {
	CacheSize   int              `optional:"" default:"8" help:"Number of cached classification results. (disable cache: 0)"`
	SniffLength int              `optional:"" default:"4096" help:"Bytes read from each file for sniffing."`
	Verbose     bool             `short:"v" optional:"" help:"Verbose logging."`
	Version     kong.VersionFlag `short:"V" optional:"" help:"Print release version information."`
}

// CLI are the cli parameters for the magicfs binary
type CLI struct {
	Globals

	Magic MagicCmd `cmd:"" help:"Print the detected type of files."`
	Tree  TreeCmd  `cmd:"" help:"Walk a directory and print content types, descending into archives."`
}

// MagicCmd sniffs every given path.
type MagicCmd struct {
	Paths      []string `arg:"" name:"path" help:"Files to sniff." type:"path"`
	Jobs       int      `short:"j" optional:"" default:"4" help:"Number of files sniffed concurrently."`
	Mime       bool     `short:"m" optional:"" help:"Print MIME types instead of descriptions."`
	Uncompress bool     `short:"z" optional:"" help:"Look inside compressed files."`
}

// TreeCmd walks a directory tree.
type TreeCmd struct {
	Root  string `arg:"" name:"root" default:"." help:"Directory to walk." type:"existingdir"`
	Depth int    `short:"d" optional:"" default:"3" help:"Maximum archive nesting that is mounted. (disable mounting: 0)"`
}

// Run the entrypoint into go-magicfs as a cli tool
func Run(version, commit, date string) {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Description("Content sniffing and archive mounting for filesystems"),
		kong.UsageOnError(),
		kong.Vars{
			"version": fmt.Sprintf("%s (%s), commit %s, built at %s", filepath.Base(os.Args[0]), version, commit, date),
		},
	)
	kctx.FatalIfErrorf(kctx.Run(&cli.Globals))
}

// config returns the library configuration for the global flags.
func (g *Globals) config() *magicfs.Config {
	// Check for verbose output
	logLevel := slog.LevelError
	if g.Verbose {
		logLevel = slog.LevelDebug
	}

	// setup logger
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))

	return magicfs.NewConfig(
		magicfs.WithCacheSize(g.CacheSize),
		magicfs.WithLogger(logger),
		magicfs.WithSniffLength(g.SniffLength),
	)
}

// Run executes the magic command.
func (m *MagicCmd) Run(g *Globals) error {
	return m.run(context.Background(), os.Stdout, afero.NewOsFs(), g.config())
}

func (m *MagicCmd) run(ctx context.Context, out io.Writer, fsys afero.Fs, cfg *magicfs.Config) error {
	results := make([]string, len(m.Paths))
	opts := magicfs.SniffOptions{MIME: m.Mime, Uncompress: m.Uncompress}

	eg, ctx := errgroup.WithContext(ctx)
	if m.Jobs > 0 {
		eg.SetLimit(m.Jobs)
	}
	for i, p := range m.Paths {
		i, p := i, p
		eg.Go(func() error {
			result, err := magicfs.Magic(ctx, fsys, p, cfg, opts)
			if err != nil {
				return errors.Wrapf(err, "cannot sniff %s", p)
			}
			results[i] = result
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	for i, p := range m.Paths {
		fmt.Fprintf(out, "%s: %s\n", p, results[i])
	}
	return nil
}

// Run executes the tree command.
func (t *TreeCmd) Run(g *Globals) error {
	fsys := afero.NewBasePathFs(afero.NewOsFs(), t.Root)
	return t.run(context.Background(), os.Stdout, fsys, g.config())
}

func (t *TreeCmd) run(ctx context.Context, out io.Writer, fsys afero.Fs, cfg *magicfs.Config) error {
	classifier, err := magicfs.NewClassifier(cfg)
	if err != nil {
		return errors.Wrap(err, "cannot create classifier")
	}
	d, err := magicfs.NewDispatcher(classifier, nil)
	if err != nil {
		return errors.Wrap(err, "cannot create dispatcher")
	}

	w := &treeWalker{d: d, out: out, maxDepth: t.Depth}
	w.walk(ctx, fsys, "", 0)
	return w.errs.ErrorOrNil()
}

// treeWalker prints the content type of every file and descends into archives.
type treeWalker struct {
	d        *magicfs.Dispatcher
	out      io.Writer
	maxDepth int

	mu   sync.Mutex
	errs *multierror.Error
}

func (w *treeWalker) fail(err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.errs = multierror.Append(w.errs, err)
}

// walk walks fsys, prefix is the path of the archive fsys belongs to.
func (w *treeWalker) walk(ctx context.Context, fsys afero.Fs, prefix string, depth int) {
	err := afero.Walk(fsys, "/", func(p string, info os.FileInfo, err error) error {
		if err != nil {
			w.fail(errors.Wrapf(err, "cannot walk %s", path.Join(prefix, p)))
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		name := path.Join(prefix, p)

		ct, err := w.d.Classifier().Classify(ctx, fsys, p)
		if err != nil {
			w.fail(errors.Wrapf(err, "cannot classify %s", name))
			return nil
		}
		fmt.Fprintf(w.out, "%s\t%s\n", name, describe(ct))

		if depth >= w.maxDepth {
			return nil
		}
		view, ok, err := w.d.Mount(ctx, fsys, p)
		if err != nil {
			w.fail(errors.Wrapf(err, "cannot mount %s", name))
			return nil
		}
		if !ok {
			return nil
		}
		defer view.Close()
		w.walk(ctx, view, name+"!", depth+1)
		return nil
	})
	if err != nil {
		w.fail(err)
	}
}

// describe returns a printable content type.
func describe(ct magicfs.ContentType) string {
	if ct.IsUnknown() {
		return "-"
	}
	return ct.String()
}
