// Package style is the runtime that stylegen output is written against: the
// Property capability implemented by generated keys, the Map that stores
// values under those keys, scoped lookup through a Chain, and the Args a
// generated setter reads from.
package style

import "reflect"

// Property describes one styleable attribute of a node.
//
// Implementations are zero-size key types emitted by stylegen. A key value
// only identifies a slot in a Map; copying it never copies a stored value.
type Property[V any] interface {
	comparable

	// Name is the display name of the property, e.g. "Para::Leading".
	Name() string
	// NodeID is the type of the node the property belongs to.
	NodeID() reflect.Type
	// Default evaluates the declared default expression.
	Default() V
	// DefaultRef returns the process-wide cached default. It must not be
	// modified.
	DefaultRef() *V
	// Folding reports whether values set at nested scopes are merged.
	Folding() bool
	// Fold merges a more specific value into a less specific one.
	Fold(inner, outer V) V
}

// Nonfolding is implemented by keys whose values overwrite each other when
// the same property is set at nested scopes.
type Nonfolding interface {
	Nonfolding()
}

// Constructor is implemented by node classes that build themselves from
// arguments.
type Constructor[C any] interface {
	Construct(args *Args) (C, error)
}

// Setter is implemented by node classes that apply argument-sourced
// property overrides to a style map.
type Setter interface {
	Set(args *Args, styles *Map) error
}

// Styles runs the node's setter over args and returns the resulting map.
func Styles(node Setter, args *Args) (*Map, error) {
	styles := NewMap()
	if err := node.Set(args, styles); err != nil {
		return nil, err
	}
	return styles, nil
}
