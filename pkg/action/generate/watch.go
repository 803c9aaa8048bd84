package generate

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/cmmoran/stylegen/internal/loader"
	"github.com/cmmoran/stylegen/pkg/parser"
)

// DebouncePeriod is how long a file must be quiet before it is regenerated.
var DebouncePeriod = 200 * time.Millisecond

// Watch runs a full generation, then regenerates declaration files as they
// change until ctx is cancelled. Generation failures are logged and do not
// stop the watch.
func Watch(ctx context.Context, opts *parser.Options) error {
	srcs, err := Discover(ctx, opts)
	if err != nil {
		return err
	}
	return WatchSources(ctx, srcs, opts)
}

// WatchSources is Watch over an already discovered set of files.
func WatchSources(ctx context.Context, srcs []Source, opts *parser.Options) error {
	results, err := Generate(ctx, srcs, opts)
	if err != nil {
		return err
	}
	if err := Write(results, opts); err != nil {
		slog.Error("generate", "error", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	defer watcher.Close()

	packages := make(map[string]string)
	for _, src := range srcs {
		dir := filepath.Dir(src.Path)
		if _, ok := packages[dir]; ok {
			continue
		}
		packages[dir] = src.Package
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		slog.Debug("watching", "dir", dir)
	}

	var (
		mu      sync.Mutex
		writeMu sync.Mutex
		timers  = make(map[string]*time.Timer)
	)
	schedule := func(path string) {
		mu.Lock()
		defer mu.Unlock()
		if t, ok := timers[path]; ok {
			t.Stop()
		}
		timers[path] = time.AfterFunc(DebouncePeriod, func() {
			writeMu.Lock()
			defer writeMu.Unlock()
			src := Source{Path: path, Package: packages[filepath.Dir(path)]}
			if err := regenerate(src, opts); err != nil {
				slog.Error("regenerate", "source", path, "error", err)
			}
		})
	}
	defer func() {
		mu.Lock()
		defer mu.Unlock()
		for _, t := range timers {
			t.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if filepath.Ext(event.Name) != ".go" || opts.Excluded(event.Name) {
				continue
			}
			isDecl, err := loader.IsDeclaration(event.Name)
			if err != nil || !isDecl {
				continue
			}
			slog.Info("change detected", "file", event.Name, "op", event.Op.String())
			schedule(event.Name)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watcher", "error", err)
		}
	}
}

func regenerate(src Source, opts *parser.Options) error {
	res, err := File(src, opts)
	if err != nil {
		return err
	}
	return Write([]*Result{res}, opts)
}
