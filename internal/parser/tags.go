package parser

import (
	"go/ast"
	"strconv"
	"strings"
)

// tagPair is one key:"value" entry of a struct tag.
type tagPair struct {
	Key   string
	Value string
}

// parseStructTagLit splits the raw tag literal into its pairs, in order.
// Parsing stops at the first malformed entry, like reflect.StructTag.Lookup.
func parseStructTagLit(lit *ast.BasicLit) []tagPair {
	if lit == nil {
		return nil
	}
	raw, err := strconv.Unquote(lit.Value)
	if err != nil {
		return nil
	}
	return structTagPairs(raw)
}

func structTagPairs(tag string) []tagPair {
	var out []tagPair
	for tag != "" {
		tag = strings.TrimLeft(tag, " ")
		if tag == "" {
			break
		}

		i := 0
		for i < len(tag) && tag[i] > ' ' && tag[i] != ':' && tag[i] != '"' && tag[i] != 0x7f {
			i++
		}
		if i == 0 || i+1 >= len(tag) || tag[i] != ':' || tag[i+1] != '"' {
			break
		}
		key := tag[:i]
		tag = tag[i+1:]

		i = 1
		for i < len(tag) && tag[i] != '"' {
			if tag[i] == '\\' {
				i++
			}
			i++
		}
		if i >= len(tag) {
			break
		}
		val, err := strconv.Unquote(tag[:i+1])
		if err != nil {
			break
		}
		out = append(out, tagPair{Key: key, Value: val})
		tag = tag[i+1:]
	}
	return out
}

// tagMap converts pairs into a key/value map; a repeated key keeps its last
// value. It returns nil when there are no pairs.
func tagMap(pairs []tagPair) map[string]string {
	if len(pairs) == 0 {
		return nil
	}
	m := make(map[string]string, len(pairs))
	for _, p := range pairs {
		m[p.Key] = p.Value
	}
	return m
}

// splitAttrs splits a style tag value on top-level commas. Commas nested in
// brackets or string literals belong to their entry.
func splitAttrs(v string) []string {
	var (
		out   []string
		depth int
		quote byte
		start int
	)
	for i := 0; i < len(v); i++ {
		c := v[i]
		if quote != 0 {
			switch {
			case c == '\\' && quote != '`':
				i++
			case c == quote:
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'', '`':
			quote = c
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, strings.TrimSpace(v[start:i]))
				start = i + 1
			}
		}
	}
	if rest := strings.TrimSpace(v[start:]); rest != "" || len(out) > 0 {
		out = append(out, rest)
	}
	return out
}

// callArg returns the argument text of an entry written as name(arg).
func callArg(entry, name string) (string, bool) {
	if !strings.HasPrefix(entry, name+"(") || !strings.HasSuffix(entry, ")") {
		return "", false
	}
	return strings.TrimSpace(entry[len(name)+1 : len(entry)-1]), true
}
