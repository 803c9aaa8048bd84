package generator

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/parser"
	"go/printer"
	"go/token"
	"strconv"

	"golang.org/x/tools/go/ast/astutil"
	"golang.org/x/tools/imports"

	"github.com/cmmoran/stylegen/internal/model"
)

// fixImports adds the declaration file's imports to src, which only knows the
// packages the generator referenced itself, then drops the ones nothing uses
// and formats the result.
func fixImports(filename string, src []byte, decl []model.Import) ([]byte, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filename, src, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("parse generated %s: %w\n%s", filename, err, src)
	}

	for _, imp := range decl {
		if hasImport(file.Imports, imp) {
			continue
		}
		astutil.AddNamedImport(fset, file, imp.Name, imp.Path)
	}

	var buf bytes.Buffer
	if err := printer.Fprint(&buf, fset, file); err != nil {
		return nil, fmt.Errorf("print generated %s: %w", filename, err)
	}

	out, err := imports.Process(filename, buf.Bytes(), &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: false,
	})
	if err != nil {
		return nil, fmt.Errorf("format generated %s: %w", filename, err)
	}
	return out, nil
}

// hasImport reports whether imp is already satisfied by specs: same path,
// and either the same local name or no explicit name on imp.
func hasImport(specs []*ast.ImportSpec, imp model.Import) bool {
	for _, spec := range specs {
		path, err := strconv.Unquote(spec.Path.Value)
		if err != nil || path != imp.Path {
			continue
		}
		if imp.Name == "" {
			return true
		}
		if spec.Name != nil && spec.Name.Name == imp.Name {
			return true
		}
	}
	return false
}
