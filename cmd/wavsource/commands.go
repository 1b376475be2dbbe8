// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/ik5/wavsource"
	"github.com/ik5/wavsource/audio"
	"github.com/ik5/wavsource/diag"
	"github.com/ik5/wavsource/handler"
	"github.com/ik5/wavsource/internal/regstore"
	"github.com/ik5/wavsource/source"
)

func (e *env) newHandler() *handler.Handler {
	return handler.New(
		handler.WithSink(diag.NewSlogSink(e.logger)),
		handler.WithSourceOptions(source.WithBufferDuration(e.cfg.Source.BufferDuration)),
	)
}

func fileURL(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return "file://" + filepath.ToSlash(path)
}

// resolveFile opens path and resolves it within the configured timeout.
// The caller shuts the source down and closes the file.
func (e *env) resolveFile(ctx context.Context, path string) (audio.MediaSource, *os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, e.cfg.Resolve.Timeout)
	defer cancel()

	// A creation abandoned at the timeout may still be reading f; it is
	// closed once that creation is done with it.
	src, err := wavsource.Resolve(ctx, e.newHandler(), f, fileURL(path),
		wavsource.OnAbandon(func() { f.Close() }))
	if err != nil {
		if ctx.Err() == nil || !errors.Is(err, ctx.Err()) {
			f.Close()
		}
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return src, f, nil
}

// probe resolves every file concurrently and prints one line per file in
// argument order. Files that fail are reported and make the command fail.
func probe(e *env, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: probe FILE...", errUsage)
	}

	lines := make([]string, len(args))
	failed := make([]error, len(args))

	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(e.cfg.Resolve.Concurrency)

	for i, path := range args {
		g.Go(func() error {
			src, f, err := e.resolveFile(ctx, path)
			if err != nil {
				failed[i] = err
				lines[i] = fmt.Sprintf("%s: error: %v", path, err)
				return nil
			}
			defer f.Close()
			defer src.Shutdown()

			lines[i] = fmt.Sprintf("%s: %s, %v", path, src.Format(), src.Duration())
			return nil
		})
	}
	_ = g.Wait()

	var nfailed int
	for i, line := range lines {
		fmt.Fprintln(e.stdout, line)
		if failed[i] != nil {
			nfailed++
		}
	}
	if nfailed > 0 {
		return fmt.Errorf("%d of %d files failed", nfailed, len(args))
	}
	return nil
}

func render(e *env, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("%w: render IN OUT", errUsage)
	}

	src, in, err := e.resolveFile(context.Background(), args[0])
	if err != nil {
		return err
	}
	defer in.Close()
	defer src.Shutdown()

	out, err := os.Create(args[1])
	if err != nil {
		return err
	}

	n, err := wavsource.Render(src, out)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}

	e.logger.Info("rendered", "in", args[0], "out", args[1], "bytes", n)
	fmt.Fprintf(e.stdout, "%s: %d bytes of PCM\n", args[1], n)
	return nil
}

func openStore(e *env, args []string, name string) (*regstore.FileStore, error) {
	if len(args) != 0 {
		return nil, fmt.Errorf("%w: %s takes no arguments", errUsage, name)
	}
	return regstore.Open(e.cfg.Registry.Path)
}

func register(e *env, args []string) error {
	store, err := openStore(e, args, "register")
	if err != nil {
		return err
	}
	if err := handler.Register(store); err != nil {
		return err
	}
	fmt.Fprintf(e.stdout, "registered %s for %s in %s\n", handler.ID, handler.Extension, store.Path())
	return nil
}

func unregister(e *env, args []string) error {
	store, err := openStore(e, args, "unregister")
	if err != nil {
		return err
	}
	if err := handler.Unregister(store); err != nil {
		return err
	}
	fmt.Fprintf(e.stdout, "unregistered %s for %s in %s\n", handler.ID, handler.Extension, store.Path())
	return nil
}

func listHandlers(e *env, args []string) error {
	store, err := openStore(e, args, "handlers")
	if err != nil {
		return err
	}
	for _, r := range store.All() {
		fmt.Fprintf(e.stdout, "%s\t%s\t%s\n", r.Extension, r.HandlerID, r.Description)
	}
	return nil
}
