package main

import (
	"go/format"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/cmmoran/stylegen/internal/generator"
	stylegen "github.com/cmmoran/stylegen/internal/parser"
	. "github.com/cmmoran/stylegen/pkg/parser"
)

// canonical renders a Go file as its comments, one per line in source
// order, followed by its code reprinted without them. Two files compare equal
// when they differ at most in blank lines around comments.
func canonical(t *testing.T, filename string, src []byte) string {
	t.Helper()
	fset := token.NewFileSet()
	withComments, err := parser.ParseFile(fset, filename, src, parser.ParseComments)
	require.NoError(t, err)

	var b strings.Builder
	for _, group := range withComments.Comments {
		for _, c := range group.List {
			b.WriteString(c.Text)
			b.WriteByte('\n')
		}
	}

	code, err := parser.ParseFile(fset, filename, src, parser.SkipObjectResolution)
	require.NoError(t, err)
	require.NoError(t, format.Node(&b, fset, code))
	return b.String()
}

func TestExamplesInSync(ttt *testing.T) {
	tests := []struct {
		name string
		dir  string
		opts []Option
	}{
		{
			name: "library with defaults",
			dir:  "examples/library",
		},
	}
	for _, tt := range tests {
		ttt.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			o := NewOptions().Apply(append([]Option{WithInDir(tt.dir)}, tt.opts...)...)
			require.NoError(t, o.Normalize())

			decls, err := filepath.Glob(filepath.Join(tt.dir, "*.go"))
			require.NoError(t, err)
			checked := 0
			for _, path := range decls {
				src, err := os.ReadFile(path)
				require.NoError(t, err)
				file, diags, err := stylegen.ParseFile(path, src)
				require.NoError(t, err)
				if len(file.Classes) == 0 {
					continue
				}
				require.Empty(t, diags)

				outPath := o.OutputPath(path)
				got, err := generator.Generate(file, o.GeneratorConfig(outPath))
				require.NoError(t, err)
				expected, err := os.ReadFile(outPath)
				require.NoError(t, err)

				diff := cmp.Diff(canonical(t, outPath, expected), canonical(t, outPath, got))
				require.Empty(t, diff, "%s is out of date (-checked in +generated):\n%s", outPath, diff)
				checked++
			}
			require.NotZero(t, checked)
		})
	}
}
