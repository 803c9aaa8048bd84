package generate

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/cmmoran/stylegen/internal/generator"
	"github.com/cmmoran/stylegen/internal/loader"
	decl "github.com/cmmoran/stylegen/internal/parser"
	"github.com/cmmoran/stylegen/pkg/manifest"
	"github.com/cmmoran/stylegen/pkg/parser"
)

// ErrDiagnostics is returned when at least one declaration file produced
// diagnostics. The individual diagnostics are joined to it.
var ErrDiagnostics = errors.New("declaration errors")

// Source is one declaration file to expand.
type Source struct {
	Path    string // absolute path of the declaration file
	Package string // import path, empty when unknown
}

// Result is the outcome of expanding one declaration file.
type Result struct {
	Source      Source
	Output      string // path of the generated file
	Content     []byte // nil when Diagnostics is not empty
	Classes     []manifest.Class
	Diagnostics decl.Diagnostics
}

// OK reports whether the result may be written.
func (r *Result) OK() bool {
	return len(r.Diagnostics) == 0 && r.Content != nil
}

// Discover lists the declaration files matched by the options' patterns.
func Discover(ctx context.Context, opts *parser.Options) ([]Source, error) {
	var (
		pkgs []*loader.Package
		err  error
	)
	if opts.Scan {
		pkgs, err = loader.Scan(opts.InDir, opts.Patterns...)
	} else {
		pkgs, err = loader.Load(ctx, opts.InDir, opts.Patterns...)
	}
	if err != nil {
		return nil, err
	}
	var out []Source
	for _, pkg := range pkgs {
		for _, file := range pkg.Files {
			if opts.Excluded(file) {
				slog.Debug("excluded", "file", file)
				continue
			}
			out = append(out, Source{Path: file, Package: pkg.Path})
		}
	}
	return out, nil
}

// File expands a single declaration file. Syntax errors are returned as err;
// problems with the declarations themselves end up in Result.Diagnostics.
func File(src Source, opts *parser.Options) (*Result, error) {
	data, err := os.ReadFile(src.Path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", src.Path, err)
	}

	res := &Result{Source: src, Output: opts.OutputPath(src.Path)}
	file, diags, err := decl.ParseFile(src.Path, data)
	if err != nil {
		return nil, err
	}
	res.Diagnostics = diags
	for _, c := range file.Classes {
		mc := manifest.Class{Name: c.Name}
		for _, p := range c.Properties {
			mc.Properties = append(mc.Properties, p.Name)
		}
		res.Classes = append(res.Classes, mc)
	}
	if len(diags) > 0 {
		return res, nil
	}

	res.Content, err = generator.Generate(file, opts.GeneratorConfig(res.Output))
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Generate expands srcs concurrently, at most opts.Workers at a time, or
// without a limit when Workers is not positive. The results keep the order
// of srcs.
func Generate(ctx context.Context, srcs []Source, opts *parser.Options) ([]*Result, error) {
	results := make([]*Result, len(srcs))

	eg, ctx := errgroup.WithContext(ctx)
	if opts.Workers > 0 {
		eg.SetLimit(opts.Workers)
	}
	for i, src := range srcs {
		eg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			res, err := File(src, opts)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Write writes every result without diagnostics whose content differs from
// what is on disk, then records the outputs in the manifest when one is
// configured. It returns ErrDiagnostics joined with every diagnostic.
func Write(results []*Result, opts *parser.Options) error {
	var m *manifest.Manifest
	if opts.ManifestPath != "" {
		var err error
		if m, err = manifest.Load(opts.ManifestPath); err != nil {
			return err
		}
		m.Generator = "stylegen"
	}

	var errs []error
	for _, res := range results {
		log := slog.With("source", res.Source.Path, "output", res.Output)
		if !res.OK() {
			for _, d := range res.Diagnostics {
				log.Error("declaration", "error", d.Error())
				errs = append(errs, d)
			}
			continue
		}

		written, err := writeIfChanged(res.Output, res.Content)
		if err != nil {
			return err
		}
		if written {
			log.Info("generated", "classes", len(res.Classes))
		} else {
			log.Debug("unchanged")
		}

		if m != nil {
			m.Record(manifest.Output{
				Source:  manifest.Rel(opts.ManifestPath, res.Source.Path),
				File:    manifest.Rel(opts.ManifestPath, res.Output),
				Package: res.Source.Package,
				SHA256:  manifest.Sum(res.Content),
				Classes: res.Classes,
			})
		}
	}

	if m != nil {
		if err := forget(m, opts.ManifestPath); err != nil {
			return err
		}
		if err := m.Save(opts.ManifestPath); err != nil {
			return err
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrDiagnostics, errors.Join(errs...))
	}
	return nil
}

// Run discovers, expands and writes every declaration file once.
func Run(ctx context.Context, opts *parser.Options) error {
	srcs, err := Discover(ctx, opts)
	if err != nil {
		return err
	}
	slog.Info("discovered", "files", len(srcs), "dir", opts.InDir)

	results, err := Generate(ctx, srcs, opts)
	if err != nil {
		return err
	}
	return Write(results, opts)
}

func writeIfChanged(path string, content []byte) (bool, error) {
	old, err := os.ReadFile(path)
	if err == nil && bytes.Equal(old, content) {
		return false, nil
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return false, fmt.Errorf("write %s: %w", path, err)
	}
	return true, nil
}

// forget drops the manifest entries whose declaration file is gone, together
// with their output unless it was edited since it was generated.
func forget(m *manifest.Manifest, manifestPath string) error {
	for _, o := range slices.Clone(m.Outputs) {
		if _, err := os.Stat(manifest.Abs(manifestPath, o.Source)); !errors.Is(err, os.ErrNotExist) {
			continue
		}
		m.Remove(o.Source)
		log := slog.With("source", o.Source, "output", o.File)
		out := manifest.Abs(manifestPath, o.File)
		if _, err := os.Stat(out); errors.Is(err, os.ErrNotExist) {
			log.Info("declaration removed")
			continue
		}

		modified, err := o.Modified(filepath.Dir(manifestPath))
		if err != nil {
			return err
		}
		if modified {
			log.Warn("declaration removed, keeping edited output")
			continue
		}
		if err := os.Remove(out); err != nil {
			return fmt.Errorf("remove %s: %w", o.File, err)
		}
		log.Info("declaration removed, output deleted")
	}
	return nil
}
