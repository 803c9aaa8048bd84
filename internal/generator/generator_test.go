package generator

import (
	"go/ast"
	goparser "go/parser"
	"go/token"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmmoran/stylegen/internal/parser"
)

func generateFixture(t *testing.T, name string, cfg Config) string {
	t.Helper()
	path := filepath.Join("testdata", name)
	src, err := os.ReadFile(path)
	require.NoError(t, err)

	file, diags, err := parser.ParseFile(path, src)
	require.NoError(t, err)
	require.Empty(t, diags)

	out, err := Generate(file, cfg)
	require.NoError(t, err)
	return string(out)
}

func keyTypes(t *testing.T, src string) []string {
	t.Helper()
	fset := token.NewFileSet()
	f, err := goparser.ParseFile(fset, "out.go", src, 0)
	require.NoError(t, err, src)

	var names []string
	for _, decl := range f.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok || gen.Tok != token.TYPE {
			continue
		}
		for _, spec := range gen.Specs {
			name := spec.(*ast.TypeSpec).Name.Name
			if strings.HasSuffix(name, "_Key") {
				names = append(names, name)
			}
		}
	}
	return names
}

func TestNames(t *testing.T) {
	assert.Equal(t, "_Para_types_", Namespace("Para"))
	assert.Equal(t, "_Para_types_Width_Key", KeyTypeName("Para", "Width"))
	assert.Equal(t, "_Para_types_Width_default", DefaultVarName("Para", "Width"))
	assert.Equal(t, "Para::Width", DisplayName("Para", "Width"))
	assert.Equal(t, "lib/para_gen.go", OutputName("lib/para.go", ""))
	assert.Equal(t, "lib/para.styles.go", OutputName("lib/para.go", ".styles"))
}

func TestGenerateHeader(t *testing.T) {
	out := generateFixture(t, "para.go", Config{})

	assert.True(t, strings.HasPrefix(out, "//go:build !stylegen\n"), out)
	assert.Contains(t, out, "// Code generated by stylegen from para.go. DO NOT EDIT.")
	assert.Contains(t, out, "package library")
}

func TestGenerateDeterministic(t *testing.T) {
	first := generateFixture(t, "para.go", Config{AssertSetter: true})
	second := generateFixture(t, "para.go", Config{AssertSetter: true})
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("output differs between runs (-first +second):\n%s", diff)
	}
}

func TestGenerateKeyTypesDistinct(t *testing.T) {
	para := keyTypes(t, generateFixture(t, "para.go", Config{}))
	cell := keyTypes(t, generateFixture(t, "cell.go", Config{}))

	assert.Equal(t, []string{
		"_Para_types_Width_Key",
		"_Para_types_Strong_Key",
		"_Para_types_Gap_Key",
		"_Para_types_Fill_Key",
		"_Para_types_LineHeight_Key",
		"_Para_types_Body_Key",
	}, para)
	assert.Equal(t, []string{"_Cell_types_Span_Key", "_Cell_types_Align_Key"}, cell)

	seen := make(map[string]bool)
	for _, name := range append(para, cell...) {
		assert.False(t, seen[name], "duplicate key type %s", name)
		seen[name] = true
	}
}

func TestGenerateStruct(t *testing.T) {
	out := generateFixture(t, "para.go", Config{})

	assert.Contains(t, out, "// Para is a paragraph of text.\ntype Para struct {")
	assert.Contains(t, out, "// Width is the line width in em.")
	assert.Regexp(t, regexp.MustCompile(`\tWidth\s+_Para_types_Width_Key\n`), out)
	assert.Regexp(t, regexp.MustCompile("LineHeight\\s+_Para_types_LineHeight_Key\\s+`json:\"lineHeight\"`"), out)
	assert.NotContains(t, out, "style:\"")
	assert.NotContains(t, out, "//style:class")
}

func TestGenerateKeepsUnknownAttributes(t *testing.T) {
	src := "//go:build stylegen\n\npackage text\n\n" +
		"import \"github.com/cmmoran/stylegen/pkg/style\"\n\n" +
		"//style:class\ntype Para struct {\n" +
		"\tFill string `style:\"shorthand,resolve,theme(dark)\" json:\"fill\"`\n" +
		"\tGap  []int  `style:\"variadic\"`\n" +
		"}\n\n" +
		"func (Para) construct(args *style.Args) (Para, error) { return Para{}, nil }\n"
	file, diags, err := parser.ParseFile("text.go", []byte(src))
	require.NoError(t, err)
	require.Empty(t, diags)

	out, err := Generate(file, Config{})
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile("Fill\\s+_Para_types_Fill_Key\\s+`json:\"fill\" style:\"resolve,theme\\(dark\\)\"`"), string(out))
	assert.Regexp(t, regexp.MustCompile(`Gap\s+_Para_types_Gap_Key\n`), string(out))
	assert.NotContains(t, string(out), "shorthand")
}

func TestGenerateKeyNamespace(t *testing.T) {
	out := generateFixture(t, "para.go", Config{})

	assert.Contains(t, out, "type _Para_types_Width_Key struct{}")
	assert.Contains(t, out, "var _Para_types_Width_default = sync.OnceValue(func() *float64 {")
	assert.Contains(t, out, "var v float64 = 10.0")
	assert.Contains(t, out, `return "Para::Width"`)
	assert.Contains(t, out, "return reflect.TypeFor[Para]()")
	assert.Contains(t, out, "func (_Para_types_Width_Key) DefaultRef() *float64 {\n\treturn _Para_types_Width_default()\n}")
	assert.Contains(t, out, "func (_Para_types_Width_Key) Nonfolding()")

	// zero default
	assert.Contains(t, out, "var v int = *new(int)")

	// folding
	assert.Contains(t, out, "func (_Para_types_Strong_Key) Folding() bool {\n\treturn true\n}")
	assert.Contains(t, out, "var fold func(int, int) int = add")
	assert.NotContains(t, out, "func (_Para_types_Strong_Key) Nonfolding()")
}

func TestGenerateSet(t *testing.T) {
	out := generateFixture(t, "para.go", Config{AssertSetter: true})

	assert.Contains(t, out, "func (Para) Set(args *style.Args, styles *style.Map) error {")
	assert.Contains(t, out, `style.Named[float64](args, "width")`)
	assert.Contains(t, out, `style.Named[float64](args, "line-height")`)
	assert.Contains(t, out, "style.All[float64](args)")
	assert.Contains(t, out, "style.Find[string](args)")
	assert.Contains(t, out, "style.SetOpt(styles, _Para_types_Gap_Key{}, v, ok)")
	assert.NotContains(t, out, `"body")`+"\n\t\tif err")
	assert.NotContains(t, out, "_Para_types_Body_Key{}, v, ok")
	assert.Contains(t, out, "var _ style.Setter = (*Para)(nil)")
}

func TestGenerateVerbatimMethods(t *testing.T) {
	out := generateFixture(t, "para.go", Config{})
	assert.Contains(t, out, "func (Para) Construct(args *style.Args) (*Node, error) {")
	assert.Contains(t, out, "strings.TrimSpace(text)")
	assert.Contains(t, out, "\"strings\"")

	// passthrough keeps source order and doc comments
	node := strings.Index(out, "// Node is a constructed paragraph.")
	add := strings.Index(out, "func add(inner, outer int) int")
	require.NotEqual(t, -1, node)
	require.NotEqual(t, -1, add)
	assert.Less(t, node, add)
}

func TestGenerateGeneric(t *testing.T) {
	out := generateFixture(t, "cell.go", Config{AssertSetter: true})

	assert.Contains(t, out, "type Cell[T fmt.Stringer] struct {")
	assert.Contains(t, out, "type _Cell_types_Span_Key[T fmt.Stringer] struct{}")
	assert.Contains(t, out, "func (_Cell_types_Span_Key[T]) NodeID() reflect.Type {\n\treturn reflect.TypeFor[Cell[T]]()\n}")
	assert.Contains(t, out, "func (c Cell[T]) Set(args *style.Args, styles *style.Map) error {")
	assert.NotContains(t, out, "style.Named[int]")
	assert.NotContains(t, out, "style.Setter = ")
	assert.Contains(t, out, "\"fmt\"")
}
