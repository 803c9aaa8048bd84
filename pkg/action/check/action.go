package check

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/go-cmp/cmp"

	"github.com/cmmoran/stylegen/pkg/action/generate"
	"github.com/cmmoran/stylegen/pkg/manifest"
	"github.com/cmmoran/stylegen/pkg/parser"
)

// ErrStale is returned when at least one output is missing or out of date.
var ErrStale = errors.New("generated files are out of date")

// Drift describes one output that does not match its declaration file.
type Drift struct {
	Source  string
	Output  string
	Missing bool
	Edited  bool   // the output changed since the manifest recorded it
	Diff    string // -on disk +expected
}

// Sources regenerates srcs in memory and compares every result with the
// file on disk. Declaration errors are returned as they are by Write.
func Sources(ctx context.Context, srcs []generate.Source, opts *parser.Options) ([]Drift, error) {
	results, err := generate.Generate(ctx, srcs, opts)
	if err != nil {
		return nil, err
	}

	var m *manifest.Manifest
	if opts.ManifestPath != "" {
		if m, err = manifest.Load(opts.ManifestPath); err != nil {
			return nil, err
		}
	}

	var (
		drifts []Drift
		errs   []error
	)
	for _, res := range results {
		if !res.OK() {
			for _, d := range res.Diagnostics {
				errs = append(errs, d)
			}
			continue
		}
		onDisk, err := os.ReadFile(res.Output)
		if errors.Is(err, os.ErrNotExist) {
			drifts = append(drifts, Drift{Source: res.Source.Path, Output: res.Output, Missing: true})
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", res.Output, err)
		}
		diff := cmp.Diff(string(onDisk), string(res.Content))
		if diff == "" {
			continue
		}
		d := Drift{Source: res.Source.Path, Output: res.Output, Diff: diff}
		if m != nil {
			if o, ok := m.Lookup(manifest.Rel(opts.ManifestPath, res.Source.Path)); ok {
				if d.Edited, err = o.Modified(filepath.Dir(opts.ManifestPath)); err != nil {
					return nil, err
				}
			}
		}
		drifts = append(drifts, d)
	}
	if len(errs) > 0 {
		return drifts, fmt.Errorf("%w: %w", generate.ErrDiagnostics, errors.Join(errs...))
	}
	return drifts, nil
}

// Run checks every declaration file matched by opts and returns ErrStale
// when any output differs.
func Run(ctx context.Context, opts *parser.Options) ([]Drift, error) {
	srcs, err := generate.Discover(ctx, opts)
	if err != nil {
		return nil, err
	}
	drifts, err := Sources(ctx, srcs, opts)
	if err != nil {
		return drifts, err
	}
	for _, d := range drifts {
		slog.Warn("stale", "source", d.Source, "output", d.Output, "missing", d.Missing, "edited", d.Edited)
	}
	if len(drifts) > 0 {
		return drifts, fmt.Errorf("%w: %d of %d", ErrStale, len(drifts), len(srcs))
	}
	return nil, nil
}
