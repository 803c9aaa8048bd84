package model

import (
	"go/ast"
	"go/token"
)

// NamespaceSep joins an owner name to the names of the helpers generated
// for it. Owner and property identifiers may not contain it.
const NamespaceSep = "_types_"

// TypeParam is one entry of the owner's type parameter list.
type TypeParam struct {
	Name       string // "T"
	Constraint string // "any", "fmt.Stringer", "~int | ~string"
}

type RawProperty struct {
	Name     string // Go identifier
	Doc      string
	TypeExpr ast.Expr      // AST for the declared value type
	TypeText string        // value type as written
	TagLit   *ast.BasicLit // the raw `\`…\`` literal
	Pos      token.Position
}

// Attributes is the processed `style:"…"` tag of one property.
type Attributes struct {
	Fold      string   // fold combinator as written, empty when the property does not fold
	Shorthand bool     // fall back to the first positional argument of the value type
	Variadic  bool     // fall back to all positional arguments of the element type
	Skip      bool     // excluded from the generated setter
	ArgName   string   // explicit argument name from name(…)
	Unknown   []string // unrecognized entries, kept in order
}

type PropertyDecl struct {
	Name      string
	ValueType string // value type as written, e.g. "[]float64"
	ElemType  string // element type of a variadic property
	Default   string // default expression as written, or "*new(ValueType)"
	Attrs     Attributes
	ArgName   string            // named argument looked up by the setter
	Tags      map[string]string // struct tag entries other than the generator keys
	Doc       string
	Pos       token.Position
}

// Foldable reports whether the property merges values set at nested scopes.
func (p *PropertyDecl) Foldable() bool {
	return p.Attrs.Fold != ""
}

// Method is a construct or set method captured verbatim.
type Method struct {
	Name     string // "construct" or "set"
	Recv     string // "p *Para[T]"
	Params   string // "args *style.Args"
	Results  string // "(style.Content, error)", empty when there are none
	Body     string // "{ … }"
	Doc      string
	Pos      token.Position
}

type ClassDecl struct {
	Name       string
	TypeParams []TypeParam
	Properties []*PropertyDecl
	Construct  *Method
	Set        *Method
	Doc        string
	Pos        token.Position
}

// HasTypeParams reports whether the owner is generic.
func (c *ClassDecl) HasTypeParams() bool {
	return len(c.TypeParams) > 0
}

// Property returns the property named name, or nil.
func (c *ClassDecl) Property(name string) *PropertyDecl {
	for _, p := range c.Properties {
		if p.Name == name {
			return p
		}
	}
	return nil
}

type Import struct {
	Name string // explicit local name, empty when none
	Path string
}

// File is everything one declaration file contributes to its output.
type File struct {
	Name        string // declaration file path
	PkgName     string
	Imports     []Import
	Classes     []*ClassDecl
	Passthrough []string // other top-level declarations, verbatim, in source order
}
