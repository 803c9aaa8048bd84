package style

// Chain is a stack of style maps, innermost first. The zero value and nil
// are empty chains.
type Chain struct {
	head  *Map
	outer *Chain
}

// Push returns a chain with m as its new innermost scope.
func (c *Chain) Push(m *Map) *Chain {
	return &Chain{head: m, outer: c}
}

// Lookup resolves key through the chain. A non-folding key yields the
// innermost value. A folding key folds every value, inner over outer, onto
// the default. Without any value the default is returned.
func Lookup[V any, K Property[V]](c *Chain, key K) V {
	var values []V
	for link := c; link != nil; link = link.outer {
		v, ok := Get[V](link.head, key)
		if !ok {
			continue
		}
		if !key.Folding() {
			return v
		}
		values = append(values, v)
	}

	acc := *key.DefaultRef()
	for i := len(values) - 1; i >= 0; i-- {
		acc = key.Fold(values[i], acc)
	}
	return acc
}
