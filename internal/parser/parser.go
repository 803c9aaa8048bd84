package parser

import (
	"go/ast"
	goparser "go/parser"
	"go/token"
	"strconv"
	"strings"

	"github.com/cmmoran/stylegen/internal/model"
)

// ClassDirective marks a type declaration as a style class.
const ClassDirective = "//style:class"

// Method names recognized on a class.
const (
	ConstructMethod = "construct"
	SetMethod       = "set"
)

// Parser holds the state of one declaration file parse.
type Parser struct {
	fset    *token.FileSet
	src     []byte
	file    *ast.File
	classes map[string]*classState
	order   []*classState
	claimed map[ast.Decl]bool
	diags   Diagnostics
}

type classState struct {
	decl   *model.ClassDecl
	spec   *ast.TypeSpec
	failed bool
}

// ParseFile parses one declaration file. A syntax error is returned as err.
// Problems with a class are reported as diagnostics and the class (or, for
// attribute problems, the property) is left out of the result.
func ParseFile(filename string, src []byte) (*model.File, Diagnostics, error) {
	fset := token.NewFileSet()
	file, err := goparser.ParseFile(fset, filename, src, goparser.ParseComments)
	if err != nil {
		return nil, nil, err
	}

	p := &Parser{
		fset:    fset,
		src:     src,
		file:    file,
		classes: make(map[string]*classState),
		claimed: make(map[ast.Decl]bool),
	}

	out := &model.File{
		Name:    filename,
		PkgName: file.Name.Name,
	}
	p.collectImports(out)
	p.collectClasses()
	p.collectMethods()

	for _, cs := range p.order {
		if cs.failed {
			continue
		}
		if cs.decl.Construct == nil {
			p.report(ErrMissingConstructor, cs.spec.Pos(), cs.decl.Name, "", "class %s has no %s method", cs.decl.Name, ConstructMethod)
			continue
		}
		out.Classes = append(out.Classes, cs.decl)
	}

	p.collectPassthrough(out)

	return out, p.diags, nil
}

func (p *Parser) report(kind error, pos token.Pos, owner, property, format string, args ...any) {
	p.diags = append(p.diags, newDiagnostic(kind, p.fset.Position(pos), owner, property, format, args...))
}

func (p *Parser) collectImports(out *model.File) {
	for _, imp := range p.file.Imports {
		path, err := strconv.Unquote(imp.Path.Value)
		if err != nil {
			continue
		}
		mi := model.Import{Path: path}
		if imp.Name != nil {
			mi.Name = imp.Name.Name
		}
		out.Imports = append(out.Imports, mi)
	}
}

// collectClasses finds every type spec carrying the class directive and
// parses its header and properties.
func (p *Parser) collectClasses() {
	for _, decl := range p.file.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok || gen.Tok != token.TYPE {
			continue
		}
		for _, spec := range gen.Specs {
			ts, ok := spec.(*ast.TypeSpec)
			if !ok {
				continue
			}
			doc := ts.Doc
			if doc == nil && len(gen.Specs) == 1 {
				doc = gen.Doc
			}
			if !hasDirective(doc, ClassDirective) {
				continue
			}

			cs := p.parseClass(ts, doc)
			p.classes[cs.decl.Name] = cs
			p.order = append(p.order, cs)
			p.claimed[gen] = true
		}
	}
}

func (p *Parser) parseClass(ts *ast.TypeSpec, doc *ast.CommentGroup) *classState {
	name := ts.Name.Name
	cs := &classState{
		spec: ts,
		decl: &model.ClassDecl{
			Name: name,
			Doc:  doc.Text(),
			Pos:  p.fset.Position(ts.Pos()),
		},
	}

	if strings.Contains(name, model.NamespaceSep) {
		p.report(ErrReservedName, ts.Name.Pos(), name, "", "class name may not contain %q", model.NamespaceSep)
		cs.failed = true
		return cs
	}
	if ts.Assign.IsValid() {
		p.report(ErrMalformedSelfType, ts.Pos(), name, "", "class %s must be a defined type, not an alias", name)
		cs.failed = true
		return cs
	}
	st, ok := ts.Type.(*ast.StructType)
	if !ok {
		p.report(ErrMalformedSelfType, ts.Type.Pos(), name, "", "class %s must be a struct type, found %s", name, p.text(ts.Type))
		cs.failed = true
		return cs
	}

	if ts.TypeParams != nil {
		for _, field := range ts.TypeParams.List {
			constraint := p.text(field.Type)
			for _, id := range field.Names {
				cs.decl.TypeParams = append(cs.decl.TypeParams, model.TypeParam{Name: id.Name, Constraint: constraint})
			}
		}
	}

	seen := make(map[string]bool)
	for _, field := range st.Fields.List {
		if len(field.Names) == 0 {
			p.report(ErrUnexpectedItem, field.Pos(), name, "", "embedded field %s is not a property", p.text(field.Type))
			cs.failed = true
			return cs
		}
		for _, id := range field.Names {
			if seen[id.Name] {
				p.report(ErrDuplicateProperty, id.Pos(), name, id.Name, "property %s is declared twice", id.Name)
				cs.failed = true
				return cs
			}
			seen[id.Name] = true

			raw := &model.RawProperty{
				Name:     id.Name,
				Doc:      field.Doc.Text(),
				TypeExpr: field.Type,
				TypeText: p.text(field.Type),
				TagLit:   field.Tag,
				Pos:      p.fset.Position(id.Pos()),
			}
			prop, d := ProcessAttributes(cs.decl, raw)
			if d != nil {
				p.diags = append(p.diags, d)
				continue
			}
			cs.decl.Properties = append(cs.decl.Properties, prop)
		}
	}

	return cs
}

// collectMethods attaches construct and set to their classes and rejects
// every other method declared on a class.
func (p *Parser) collectMethods() {
	for _, decl := range p.file.Decls {
		fd, ok := decl.(*ast.FuncDecl)
		if !ok || fd.Recv == nil || len(fd.Recv.List) != 1 {
			continue
		}
		recv := fd.Recv.List[0]
		base, ok := receiverBase(recv.Type)
		if !ok {
			continue
		}
		cs, ok := p.classes[base]
		if !ok {
			continue
		}
		p.claimed[fd] = true
		if cs.failed {
			continue
		}

		owner := cs.decl.Name
		if !receiverMatches(recv.Type, len(cs.decl.TypeParams)) {
			p.report(ErrMalformedSelfType, recv.Type.Pos(), owner, "", "receiver %s does not match class %s", p.text(recv.Type), owner)
			cs.failed = true
			continue
		}
		if fd.Body == nil {
			p.report(ErrUnexpectedItem, fd.Pos(), owner, "", "method %s has no body", fd.Name.Name)
			cs.failed = true
			continue
		}

		var slot **model.Method
		switch fd.Name.Name {
		case ConstructMethod:
			slot = &cs.decl.Construct
		case SetMethod:
			slot = &cs.decl.Set
		default:
			p.report(ErrUnexpectedMethod, fd.Name.Pos(), owner, "", "method %s is not allowed, only %s and %s", fd.Name.Name, ConstructMethod, SetMethod)
			cs.failed = true
			continue
		}
		if *slot != nil {
			p.report(ErrUnexpectedMethod, fd.Name.Pos(), owner, "", "method %s is declared twice", fd.Name.Name)
			cs.failed = true
			continue
		}
		*slot = p.method(fd)
	}
}

func (p *Parser) method(fd *ast.FuncDecl) *model.Method {
	m := &model.Method{
		Name: fd.Name.Name,
		Recv: p.text(fd.Recv.List[0]),
		Body: p.text(fd.Body),
		Doc:  fd.Doc.Text(),
		Pos:  p.fset.Position(fd.Pos()),
	}
	if params := fd.Type.Params; params != nil && len(params.List) > 0 {
		m.Params = p.span(params.List[0].Pos(), params.List[len(params.List)-1].End())
	}
	if results := fd.Type.Results; results != nil && len(results.List) > 0 {
		m.Results = p.text(results)
	}
	return m
}

// collectPassthrough keeps every declaration that is neither an import, a
// class nor a class method, verbatim and in source order.
func (p *Parser) collectPassthrough(out *model.File) {
	for _, decl := range p.file.Decls {
		switch d := decl.(type) {
		case *ast.GenDecl:
			if d.Tok == token.IMPORT {
				continue
			}
			if !p.claimed[d] {
				out.Passthrough = append(out.Passthrough, p.withDoc(d.Doc, d))
				continue
			}
			// a grouped type declaration that also holds classes
			for _, spec := range d.Specs {
				ts, ok := spec.(*ast.TypeSpec)
				if !ok {
					continue
				}
				if cs, ok := p.classes[ts.Name.Name]; ok && cs.spec == ts {
					continue
				}
				text := "type " + p.text(ts)
				if ts.Doc != nil {
					text = p.span(ts.Doc.Pos(), ts.Doc.End()) + "\n" + text
				}
				out.Passthrough = append(out.Passthrough, text)
			}
		case *ast.FuncDecl:
			if p.claimed[d] {
				continue
			}
			out.Passthrough = append(out.Passthrough, p.withDoc(d.Doc, d))
		}
	}
}

func (p *Parser) withDoc(doc *ast.CommentGroup, n ast.Node) string {
	if doc == nil {
		return p.text(n)
	}
	return p.span(doc.Pos(), n.End())
}

// text returns the source of n exactly as written.
func (p *Parser) text(n ast.Node) string {
	return p.span(n.Pos(), n.End())
}

func (p *Parser) span(from, to token.Pos) string {
	start := p.fset.Position(from).Offset
	end := p.fset.Position(to).Offset
	return string(p.src[start:end])
}

func hasDirective(doc *ast.CommentGroup, directive string) bool {
	if doc == nil {
		return false
	}
	for _, c := range doc.List {
		text := strings.TrimSpace(c.Text)
		if text == directive || strings.HasPrefix(text, directive+" ") {
			return true
		}
	}
	return false
}

// receiverBase returns the type name of a method receiver: T, *T, T[A]
// and *T[A, B] all yield "T".
func receiverBase(expr ast.Expr) (string, bool) {
	if star, ok := expr.(*ast.StarExpr); ok {
		expr = star.X
	}
	switch t := expr.(type) {
	case *ast.IndexExpr:
		expr = t.X
	case *ast.IndexListExpr:
		expr = t.X
	}
	id, ok := expr.(*ast.Ident)
	if !ok {
		return "", false
	}
	return id.Name, true
}

// receiverMatches reports whether the receiver names the class with exactly
// n type parameters, each bound to a plain identifier.
func receiverMatches(expr ast.Expr, n int) bool {
	if star, ok := expr.(*ast.StarExpr); ok {
		expr = star.X
	}
	var indices []ast.Expr
	switch t := expr.(type) {
	case *ast.Ident:
	case *ast.IndexExpr:
		indices = []ast.Expr{t.Index}
	case *ast.IndexListExpr:
		indices = t.Indices
	default:
		return false
	}
	if len(indices) != n {
		return false
	}
	for _, idx := range indices {
		if _, ok := idx.(*ast.Ident); !ok {
			return false
		}
	}
	return true
}
