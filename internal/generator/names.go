package generator

import (
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/cmmoran/stylegen/internal/model"
)

// Namespace is the prefix of every helper generated for owner. It is derived
// from the owner name alone, so repeated runs produce the same identifiers,
// and it starts with an underscore so helpers stay unexported and out of the
// way of identifiers the author writes. Owner and property names never
// contain model.NamespaceSep, so two helpers cannot share a name.
func Namespace(owner string) string {
	return "_" + owner + model.NamespaceSep
}

// KeyTypeName is the key type of property prop of owner.
func KeyTypeName(owner, prop string) string {
	return Namespace(owner) + prop + "_Key"
}

// DefaultVarName is the process-wide default cache of property prop.
func DefaultVarName(owner, prop string) string {
	return Namespace(owner) + prop + "_default"
}

// DisplayName is the value a key's Name method returns.
func DisplayName(owner, prop string) string {
	return owner + "::" + prop
}

// typeParamDecls renders the owner's type parameter list with constraints.
func typeParamDecls(c *model.ClassDecl) []jen.Code {
	out := make([]jen.Code, 0, len(c.TypeParams))
	for _, tp := range c.TypeParams {
		out = append(out, jen.Id(tp.Name).Id(tp.Constraint))
	}
	return out
}

// typeArgs renders the owner's type parameters as arguments.
func typeArgs(c *model.ClassDecl) []jen.Code {
	out := make([]jen.Code, 0, len(c.TypeParams))
	for _, tp := range c.TypeParams {
		out = append(out, jen.Id(tp.Name))
	}
	return out
}

func instantiate(name string, c *model.ClassDecl) *jen.Statement {
	s := jen.Id(name)
	if c.HasTypeParams() {
		s.Types(typeArgs(c)...)
	}
	return s
}

func declare(s *jen.Statement, name string, c *model.ClassDecl) *jen.Statement {
	s.Id(name)
	if c.HasTypeParams() {
		s.Types(typeParamDecls(c)...)
	}
	return s
}

// ownerType is O or O[T, …].
func ownerType(c *model.ClassDecl) *jen.Statement {
	return instantiate(c.Name, c)
}

// keyType is the key type of p, instantiated with the owner's parameters.
func keyType(c *model.ClassDecl, p *model.PropertyDecl) *jen.Statement {
	return instantiate(KeyTypeName(c.Name, p.Name), c)
}

// comment adds text as line comments, one per line.
func comment(g *jen.Group, text string) {
	text = strings.TrimRight(text, "\n")
	if text == "" {
		return
	}
	for _, line := range strings.Split(text, "\n") {
		g.Comment(line)
	}
}
