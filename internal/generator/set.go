package generator

import (
	"github.com/dave/jennifer/jen"

	"github.com/cmmoran/stylegen/internal/model"
)

// setMethod emits the Set implementation of c: the declared set method when
// there is one, otherwise one lookup block per property that is not skipped.
func (g *Generator) setMethod(grp *jen.Group, c *model.ClassDecl) {
	if c.Set != nil {
		g.verbatim(grp, c.Set, "Set")
		return
	}

	grp.Commentf("Set applies the style properties of %s found in args to styles.", c.Name)
	grp.Func().Params(ownerType(c)).Id("Set").Params(
		jen.Id("args").Op("*").Qual(g.runtime, "Args"),
		jen.Id("styles").Op("*").Qual(g.runtime, "Map"),
	).Error().BlockFunc(func(body *jen.Group) {
		for _, p := range c.Properties {
			if p.Attrs.Skip {
				continue
			}
			body.BlockFunc(func(b *jen.Group) {
				g.setProperty(b, c, p)
			})
		}
		body.Return(jen.Nil())
	})
	grp.Line()
}

// setProperty resolves one property: the named argument first, then the
// positional fallback its attributes allow. An unresolved value leaves the
// map untouched.
func (g *Generator) setProperty(b *jen.Group, c *model.ClassDecl, p *model.PropertyDecl) {
	b.List(jen.Id("v"), jen.Id("ok"), jen.Err()).Op(":=").Qual(g.runtime, "Named").Types(jen.Id(p.ValueType)).Call(
		jen.Id("args"), jen.Lit(p.ArgName),
	)
	b.If(jen.Err().Op("!=").Nil()).Block(
		jen.Return(jen.Err()),
	)

	switch {
	case p.Attrs.Variadic:
		b.If(jen.Op("!").Id("ok")).Block(
			jen.If(
				jen.Id("list").Op(":=").Qual(g.runtime, "All").Types(jen.Id(p.ElemType)).Call(jen.Id("args")),
				jen.Len(jen.Id("list")).Op(">").Lit(0),
			).Block(
				jen.List(jen.Id("v"), jen.Id("ok")).Op("=").List(jen.Id("list"), jen.True()),
			),
		)
	case p.Attrs.Shorthand:
		b.If(jen.Op("!").Id("ok")).Block(
			jen.List(jen.Id("v"), jen.Id("ok")).Op("=").Qual(g.runtime, "Find").Types(jen.Id(p.ValueType)).Call(jen.Id("args")),
		)
	}

	b.Qual(g.runtime, "SetOpt").Call(jen.Id("styles"), keyType(c, p).Values(), jen.Id("v"), jen.Id("ok"))
}
