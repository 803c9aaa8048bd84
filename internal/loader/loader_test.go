package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestIsDeclaration(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		src  string
		want bool
	}{
		{"tag", "//go:build stylegen\n\npackage lib\n", true},
		{"after comments", "// Copyright\n\n//go:build stylegen && !windows\n\npackage lib\n", true},
		{"negated", "//go:build !stylegen\n\npackage lib\n", false},
		{"other tag", "//go:build integration\n\npackage lib\n", false},
		{"none", "package lib\n", false},
		{"after package", "package lib\n\n//go:build stylegen\n", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".go")
			write(t, path, tt.src)
			got, err := IsDeclaration(path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := IsDeclaration(filepath.Join(dir, "missing.go"))
	assert.Error(t, err)
}

func TestScanDir(t *testing.T) {
	root := t.TempDir()
	write(t, filepath.Join(root, "go.mod"), "module example.com/ui\n\ngo 1.24\n")
	lib := filepath.Join(root, "widgets", "text")
	write(t, filepath.Join(lib, "para.go"), "//go:build stylegen\n\npackage text\n")
	write(t, filepath.Join(lib, "para_gen.go"), "//go:build !stylegen\n\npackage text\n")
	write(t, filepath.Join(lib, "heading.go"), "//go:build stylegen\n\npackage text\n")
	write(t, filepath.Join(lib, "util.go"), "package text\n")
	write(t, filepath.Join(lib, "para_test.go"), "//go:build stylegen\n\npackage text\n")

	p, err := ScanDir(lib)
	require.NoError(t, err)
	assert.Equal(t, "example.com/ui/widgets/text", p.Path)
	assert.Equal(t, lib, p.Dir)
	assert.Equal(t, []string{
		filepath.Join(lib, "heading.go"),
		filepath.Join(lib, "para.go"),
	}, p.Files)
}

func TestScan(t *testing.T) {
	root := t.TempDir()
	write(t, filepath.Join(root, "go.mod"), "module example.com/ui\n\ngo 1.24\n")
	decl := "//go:build stylegen\n\npackage p\n"
	write(t, filepath.Join(root, "widgets", "text", "para.go"), decl)
	write(t, filepath.Join(root, "widgets", "box", "box.go"), decl)
	write(t, filepath.Join(root, "widgets", "plain", "plain.go"), "package plain\n")
	write(t, filepath.Join(root, "widgets", "testdata", "fixture.go"), decl)
	write(t, filepath.Join(root, "_old", "old.go"), decl)

	pkgs, err := Scan(root, "./...")
	require.NoError(t, err)
	var paths []string
	for _, p := range pkgs {
		paths = append(paths, p.Path)
	}
	assert.Equal(t, []string{"example.com/ui/widgets/box", "example.com/ui/widgets/text"}, paths)

	pkgs, err = Scan(root, "./widgets/text")
	require.NoError(t, err)
	require.Len(t, pkgs, 1)
	assert.Equal(t, []string{filepath.Join(root, "widgets", "text", "para.go")}, pkgs[0].Files)

	_, err = Scan(root, "./missing")
	assert.Error(t, err)
}

func TestImportPath(t *testing.T) {
	root := t.TempDir()
	write(t, filepath.Join(root, "go.mod"), "module example.com/ui\n")

	path, err := ImportPath(root)
	require.NoError(t, err)
	assert.Equal(t, "example.com/ui", path)

	sub := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	path, err = ImportPath(sub)
	require.NoError(t, err)
	assert.Equal(t, "example.com/ui/a/b", path)

	modDir, err := FindGoModDir(sub)
	require.NoError(t, err)
	assert.Equal(t, root, modDir)
}
