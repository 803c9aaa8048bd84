package generator

import (
	"github.com/dave/jennifer/jen"

	"github.com/cmmoran/stylegen/internal/model"
)

// keyNamespace emits the key type of p and its Property implementation: the
// zero-size marker type, the cached default, and either the fold methods or
// the Nonfolding marker.
func (g *Generator) keyNamespace(grp *jen.Group, c *model.ClassDecl, p *model.PropertyDecl) {
	keyName := KeyTypeName(c.Name, p.Name)
	defName := DefaultVarName(c.Name, p.Name)
	value := jen.Id(p.ValueType)
	recv := func() *jen.Statement { return jen.Params(keyType(c, p)) }

	grp.Commentf("%s is the style key of %s.%s.", keyName, c.Name, p.Name)
	declare(grp.Type(), keyName, c).Struct()
	grp.Line()

	grp.Var().Id(defName).Op("=").Qual("sync", "OnceValue").Call(
		jen.Func().Params().Op("*").Add(value.Clone()).Block(
			jen.Var().Id("v").Add(value.Clone()).Op("=").Id(p.Default),
			jen.Return(jen.Op("&").Id("v")),
		),
	)
	grp.Line()

	grp.Func().Add(recv()).Id("Name").Params().String().Block(
		jen.Return(jen.Lit(DisplayName(c.Name, p.Name))),
	)
	grp.Line()

	grp.Func().Add(recv()).Id("NodeID").Params().Qual("reflect", "Type").Block(
		jen.Return(jen.Qual("reflect", "TypeFor").Types(ownerType(c)).Call()),
	)
	grp.Line()

	grp.Func().Add(recv()).Id("Default").Params().Add(value.Clone()).Block(
		jen.Return(jen.Id(p.Default)),
	)
	grp.Line()

	grp.Func().Add(recv()).Id("DefaultRef").Params().Op("*").Add(value.Clone()).Block(
		jen.Return(jen.Id(defName).Call()),
	)
	grp.Line()

	if p.Foldable() {
		grp.Func().Add(recv()).Id("Folding").Params().Bool().Block(
			jen.Return(jen.True()),
		)
		grp.Line()

		grp.Func().Add(recv()).Id("Fold").Params(
			jen.List(jen.Id("inner"), jen.Id("outer")).Add(value.Clone()),
		).Add(value.Clone()).Block(
			jen.Var().Id("fold").Func().Params(value.Clone(), value.Clone()).Add(value.Clone()).Op("=").Id(p.Attrs.Fold),
			jen.Return(jen.Id("fold").Call(jen.Id("inner"), jen.Id("outer"))),
		)
		grp.Line()
		return
	}

	grp.Func().Add(recv()).Id("Folding").Params().Bool().Block(
		jen.Return(jen.False()),
	)
	grp.Line()

	grp.Func().Add(recv()).Id("Fold").Params(
		jen.List(jen.Id("inner"), jen.Id("_")).Add(value.Clone()),
	).Add(value.Clone()).Block(
		jen.Return(jen.Id("inner")),
	)
	grp.Line()

	grp.Func().Add(recv()).Id("Nonfolding").Params().Block()
	grp.Line()
}
