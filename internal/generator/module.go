package generator

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/cmmoran/stylegen/internal/model"
)

// DefaultRuntimePkg is the import path generated code refers to for the
// style runtime.
const DefaultRuntimePkg = "github.com/cmmoran/stylegen/pkg/style"

// BuildTag is the constraint that keeps declaration files out of normal
// builds. Generated files carry its negation.
const BuildTag = "stylegen"

// RuntimeName is the package name generated code uses for the runtime.
const RuntimeName = "style"

// Config controls how a declaration file is rendered.
type Config struct {
	// RuntimePkg is the import path of the style runtime.
	RuntimePkg string
	// Filename is the output path; it only affects import resolution.
	Filename string
	// AssertSetter adds a compile-time Setter assertion for every
	// non-generic class.
	AssertSetter bool
}

type Generator struct {
	runtime string
	cfg     Config
}

func New(cfg Config) *Generator {
	if cfg.RuntimePkg == "" {
		cfg.RuntimePkg = DefaultRuntimePkg
	}
	return &Generator{runtime: cfg.RuntimePkg, cfg: cfg}
}

// Generate renders the output file of one parsed declaration file.
func Generate(file *model.File, cfg Config) ([]byte, error) {
	return New(cfg).Generate(file)
}

// Generate renders file: the header, every class with its Construct and Set
// methods and key namespaces, and the file's other declarations.
func (g *Generator) Generate(file *model.File) ([]byte, error) {
	f := jen.NewFile(file.PkgName)
	f.HeaderComment("//go:build !" + BuildTag)
	f.HeaderComment(Header(file.Name))
	f.ImportName(g.runtime, RuntimeName)

	for _, c := range file.Classes {
		g.class(f.Group, c)
	}

	for _, text := range file.Passthrough {
		f.Id(text)
		f.Line()
	}

	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", file.Name, err)
	}

	filename := g.cfg.Filename
	if filename == "" {
		filename = OutputName(file.Name, DefaultSuffix)
	}
	return fixImports(filename, buf.Bytes(), file.Imports)
}

// Header is the generated-file marker for a declaration file.
func Header(source string) string {
	return fmt.Sprintf("Code generated by stylegen from %s. DO NOT EDIT.", filepath.Base(source))
}

// DefaultSuffix is appended to a declaration file's base name.
const DefaultSuffix = "_gen"

// OutputName maps a declaration file to its output file.
func OutputName(source, suffix string) string {
	if suffix == "" {
		suffix = DefaultSuffix
	}
	ext := filepath.Ext(source)
	return strings.TrimSuffix(source, ext) + suffix + ".go"
}

// class emits everything generated for c in order: the rewritten struct,
// Construct, Set and the key namespace of every property.
func (g *Generator) class(grp *jen.Group, c *model.ClassDecl) {
	g.structDecl(grp, c)
	g.verbatim(grp, c.Construct, "Construct")
	g.setMethod(grp, c)
	if g.cfg.AssertSetter && !c.HasTypeParams() {
		grp.Var().Id("_").Qual(g.runtime, "Setter").Op("=").Parens(jen.Op("*").Id(c.Name)).Parens(jen.Nil())
		grp.Line()
	}
	for _, p := range c.Properties {
		g.keyNamespace(grp, c, p)
	}
}

// structDecl rewrites the class so every property field holds its key.
func (g *Generator) structDecl(grp *jen.Group, c *model.ClassDecl) {
	comment(grp, c.Doc)
	declare(grp.Type(), c.Name, c).StructFunc(func(fields *jen.Group) {
		for _, p := range c.Properties {
			comment(fields, p.Doc)
			field := fields.Id(p.Name).Add(keyType(c, p))
			if len(p.Tags) > 0 {
				field.Tag(p.Tags)
			}
		}
	})
	grp.Line()
}

// verbatim emits m with its receiver, signature and body exactly as
// declared, under name.
func (g *Generator) verbatim(grp *jen.Group, m *model.Method, name string) {
	if m == nil {
		return
	}
	comment(grp, m.Doc)
	sig := fmt.Sprintf("func (%s) %s(%s)", m.Recv, name, m.Params)
	if m.Results != "" {
		sig += " " + m.Results
	}
	grp.Id(sig + " " + m.Body)
	grp.Line()
}
