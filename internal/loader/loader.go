// Package loader finds declaration files: Go files that only build with the
// stylegen constraint and therefore never show up in a normal package load.
package loader

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"go/build/constraint"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/mod/modfile"
	"golang.org/x/tools/go/packages"
)

// ErrNoModule is returned when no go.mod exists above a directory.
var ErrNoModule = errors.New("no go.mod found")

// Tag is the build tag that marks declaration files.
const Tag = "stylegen"

// Package is a package with at least one declaration file.
type Package struct {
	Path  string   // import path
	Name  string   // package name, empty when nothing but declarations exists
	Dir   string   // directory on disk
	Files []string // absolute paths of declaration files, sorted
}

// Load resolves patterns relative to dir, the same way the go command does,
// and returns every package that has declaration files. Declaration files are
// excluded from the build, so they are read from the packages' ignored files.
func Load(ctx context.Context, dir string, patterns ...string) ([]*Package, error) {
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}
	pkgs, err := packages.Load(&packages.Config{
		Context: ctx,
		Mode:    packages.NeedName | packages.NeedFiles,
		Dir:     dir,
	}, patterns...)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", strings.Join(patterns, " "), err)
	}

	byDir := make(map[string]*Package)
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			// a directory holding only declaration files reports that its
			// files are all excluded; that is expected here
			slog.Debug("package load", "pkg", pkg.PkgPath, "error", e.Msg)
		}
		for _, file := range pkg.IgnoredFiles {
			ok, err := IsDeclaration(file)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
			d := filepath.Dir(file)
			p, seen := byDir[d]
			if !seen {
				p = &Package{Path: pkg.PkgPath, Name: pkg.Name, Dir: d}
				byDir[d] = p
			}
			p.Files = append(p.Files, file)
		}
	}

	return sorted(byDir), nil
}

// ScanDir lists the declaration files of a single directory without invoking
// the go command. The import path is derived from the enclosing go.mod.
func ScanDir(dir string) (*Package, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, err
	}

	p := &Package{Dir: abs}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".go") || strings.HasSuffix(e.Name(), "_test.go") {
			continue
		}
		file := filepath.Join(abs, e.Name())
		ok, err := IsDeclaration(file)
		if err != nil {
			return nil, err
		}
		if ok {
			p.Files = append(p.Files, file)
		}
	}
	sort.Strings(p.Files)

	if p.Path, err = ImportPath(abs); err != nil && !errors.Is(err, ErrNoModule) {
		return nil, err
	}
	return p, nil
}

// Scan resolves directory patterns relative to dir without the go command. A
// pattern ending in /... covers every directory below it except testdata,
// vendor and those starting with "." or "_", as the go command skips them.
func Scan(dir string, patterns ...string) ([]*Package, error) {
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}

	byDir := make(map[string]*Package)
	add := func(d string) error {
		p, err := ScanDir(d)
		if err != nil {
			return err
		}
		if len(p.Files) > 0 {
			byDir[p.Dir] = p
		}
		return nil
	}
	for _, pattern := range patterns {
		root, recursive := strings.CutSuffix(pattern, "...")
		root = filepath.Join(dir, filepath.FromSlash(root))
		if !recursive {
			if err := add(root); err != nil {
				return nil, err
			}
			continue
		}
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() {
				return nil
			}
			name := d.Name()
			if path != root && (name == "testdata" || name == "vendor" || strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")) {
				return filepath.SkipDir
			}
			return add(path)
		})
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", pattern, err)
		}
	}
	return sorted(byDir), nil
}

func sorted(byDir map[string]*Package) []*Package {
	out := make([]*Package, 0, len(byDir))
	for _, p := range byDir {
		sort.Strings(p.Files)
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Dir < out[j].Dir })
	return out
}

// IsDeclaration reports whether the file at path carries a //go:build line
// that mentions the stylegen tag and is satisfied by it.
func IsDeclaration(path string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	expr := buildConstraint(data)
	if expr == nil || !mentions(expr, Tag) {
		return false, nil
	}
	return expr.Eval(func(tag string) bool { return tag == Tag }), nil
}

// buildConstraint returns the //go:build expression of a file header, or nil.
func buildConstraint(src []byte) constraint.Expr {
	sc := bufio.NewScanner(bytes.NewReader(src))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		switch {
		case line == "":
			continue
		case constraint.IsGoBuild(line):
			expr, err := constraint.Parse(line)
			if err != nil {
				return nil
			}
			return expr
		case strings.HasPrefix(line, "//"):
			continue
		default:
			return nil
		}
	}
	return nil
}

func mentions(expr constraint.Expr, tag string) bool {
	switch e := expr.(type) {
	case *constraint.TagExpr:
		return e.Tag == tag
	case *constraint.NotExpr:
		return mentions(e.X, tag)
	case *constraint.AndExpr:
		return mentions(e.X, tag) || mentions(e.Y, tag)
	case *constraint.OrExpr:
		return mentions(e.X, tag) || mentions(e.Y, tag)
	}
	return false
}

// ImportPath derives the import path of dir from the nearest go.mod.
func ImportPath(dir string) (string, error) {
	modDir, err := FindGoModDir(dir)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(filepath.Join(modDir, "go.mod"))
	if err != nil {
		return "", err
	}
	modPath := modfile.ModulePath(data)
	if modPath == "" {
		return "", fmt.Errorf("%s/go.mod: missing module directive", modDir)
	}
	rel, err := filepath.Rel(modDir, dir)
	if err != nil {
		return "", err
	}
	if rel == "." {
		return modPath, nil
	}
	return modPath + "/" + filepath.ToSlash(rel), nil
}

// FindGoModDir walks up from dir until it finds go.mod.
func FindGoModDir(dir string) (string, error) {
	from, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		if fi, err := os.Stat(filepath.Join(from, "go.mod")); err == nil && !fi.IsDir() {
			return from, nil
		}
		parent := filepath.Dir(from)
		if parent == from {
			return "", fmt.Errorf("%s: %w", dir, ErrNoModule)
		}
		from = parent
	}
}
