package parser

import (
	"fmt"
	"go/ast"
	goparser "go/parser"
	"go/types"
	"strconv"
	"strings"
	"unicode"

	"github.com/cmmoran/stylegen/internal/model"
)

// Struct tag keys read by the attribute processor.
const (
	StyleTagKey   = "style"
	DefaultTagKey = "default"
)

// ProcessAttributes interprets the style and default tags of one raw
// property of class. A failure drops only this property.
func ProcessAttributes(class *model.ClassDecl, raw *model.RawProperty) (*model.PropertyDecl, *Diagnostic) {
	fail := func(kind error, format string, args ...any) (*model.PropertyDecl, *Diagnostic) {
		return nil, newDiagnostic(kind, raw.Pos, class.Name, raw.Name, format, args...)
	}

	if strings.Contains(raw.Name, model.NamespaceSep) {
		return fail(ErrReservedName, "property name may not contain %q", model.NamespaceSep)
	}

	prop := &model.PropertyDecl{
		Name:      raw.Name,
		ValueType: raw.TypeText,
		Doc:       raw.Doc,
		Pos:       raw.Pos,
	}

	// malformed entries are reported after the flags have been checked
	// against each other
	var (
		kept      []tagPair
		malformed []string
	)
	for _, pair := range parseStructTagLit(raw.TagLit) {
		switch pair.Key {
		case DefaultTagKey:
			if _, err := goparser.ParseExpr(pair.Value); err != nil {
				malformed = append(malformed, fmt.Sprintf("default %q: %v", pair.Value, err))
				continue
			}
			prop.Default = pair.Value
		case StyleTagKey:
			for _, entry := range splitAttrs(pair.Value) {
				if d := applyAttr(&prop.Attrs, entry); d != "" {
					malformed = append(malformed, d)
				}
			}
			if len(prop.Attrs.Unknown) > 0 {
				kept = append(kept, tagPair{Key: StyleTagKey, Value: strings.Join(prop.Attrs.Unknown, ",")})
			}
		default:
			kept = append(kept, pair)
		}
	}
	prop.Tags = tagMap(kept)

	if prop.Attrs.Shorthand && prop.Attrs.Variadic {
		return fail(ErrConflictingAttributes, "shorthand and variadic are mutually exclusive")
	}
	if len(malformed) > 0 {
		return fail(ErrMalformedAttribute, "%s", strings.Join(malformed, "; "))
	}

	if prop.Attrs.Variadic {
		at, ok := raw.TypeExpr.(*ast.ArrayType)
		if !ok || at.Len != nil {
			return fail(ErrInvalidVariadic, "value type %s is not a slice type", raw.TypeText)
		}
		prop.ElemType = types.ExprString(at.Elt)
	}

	if name, ok := mentionsTypeParam(raw.TypeExpr, class.TypeParams); ok {
		return fail(ErrGenericValue, "value type %s depends on type parameter %s", raw.TypeText, name)
	}

	if prop.Default == "" {
		prop.Default = "*new(" + raw.TypeText + ")"
	}

	prop.ArgName = prop.Attrs.ArgName
	if prop.ArgName == "" {
		prop.ArgName = ArgName(raw.Name)
	}

	return prop, nil
}

// applyAttr records one style tag entry and returns a problem description
// when the entry is malformed.
func applyAttr(attrs *model.Attributes, entry string) string {
	if arg, ok := callArg(entry, "fold"); ok {
		if arg == "" {
			return "fold needs a combinator"
		}
		if _, err := goparser.ParseExpr(arg); err != nil {
			return "fold(" + arg + "): " + err.Error()
		}
		attrs.Fold = arg
		return ""
	}
	if arg, ok := callArg(entry, "name"); ok {
		if strings.HasPrefix(arg, `"`) || strings.HasPrefix(arg, "`") {
			unquoted, err := strconv.Unquote(arg)
			if err != nil {
				return "name(" + arg + "): " + err.Error()
			}
			arg = unquoted
		}
		if arg == "" {
			return "name needs an argument name"
		}
		attrs.ArgName = arg
		return ""
	}

	switch entry {
	case "":
	case "shorthand":
		attrs.Shorthand = true
	case "variadic":
		attrs.Variadic = true
	case "skip":
		attrs.Skip = true
	default:
		attrs.Unknown = append(attrs.Unknown, entry)
	}
	return ""
}

func mentionsTypeParam(expr ast.Expr, params []model.TypeParam) (string, bool) {
	if len(params) == 0 || expr == nil {
		return "", false
	}
	names := make(map[string]bool, len(params))
	for _, tp := range params {
		names[tp.Name] = true
	}

	var found string
	ast.Inspect(expr, func(n ast.Node) bool {
		if found != "" {
			return false
		}
		switch n := n.(type) {
		case *ast.SelectorExpr:
			// pkg.Name never refers to a type parameter
			if _, ok := n.X.(*ast.Ident); ok {
				return false
			}
		case *ast.Ident:
			if names[n.Name] {
				found = n.Name
			}
		}
		return true
	})
	return found, found != ""
}

// ArgName derives the named argument a generated setter looks up for a
// property: underscores become dashes, word boundaries inside CamelCase
// identifiers get a dash and the result is lower-cased. Initialisms stay one
// word, so LineHeight, HTMLColor and FONT_SIZE give line-height, html-color
// and font-size.
func ArgName(ident string) string {
	rs := []rune(ident)
	var b strings.Builder
	last := -1
	for i, r := range rs {
		if r == '_' {
			b.WriteByte('-')
			last = i
			continue
		}
		if i > 0 && i < len(rs)-1 && unicode.IsUpper(r) && last != i-1 {
			prev, next := rs[i-1], rs[i+1]
			// userID: lower to upper; HTMLColor: the last capital of a run
			// that is followed by a lower-case letter, unless that is a
			// plural s ending the name (URLs)
			plural := next == 's' && i+1 == len(rs)-1
			if unicode.IsLower(prev) || unicode.IsDigit(prev) ||
				unicode.IsUpper(prev) && unicode.IsLower(next) && !plural {
				b.WriteByte('-')
				last = i
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
