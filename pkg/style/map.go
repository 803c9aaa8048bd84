package style

import (
	"fmt"
	"reflect"
	"strings"
)

type entry struct {
	name  string
	node  reflect.Type
	value any
}

// Map is a heterogeneous mapping from property keys to values. The map owns
// the stored values.
type Map struct {
	entries map[any]entry
	order   []any
}

func NewMap() *Map {
	return &Map{entries: make(map[any]entry)}
}

// Set stores value under key, replacing a previous value.
func Set[V any, K Property[V]](m *Map, key K, value V) {
	if m.entries == nil {
		m.entries = make(map[any]entry)
	}
	if _, ok := m.entries[key]; !ok {
		m.order = append(m.order, key)
	}
	m.entries[key] = entry{name: key.Name(), node: key.NodeID(), value: value}
}

// SetOpt stores value under key when ok is true and does nothing otherwise.
func SetOpt[V any, K Property[V]](m *Map, key K, value V, ok bool) {
	if ok {
		Set(m, key, value)
	}
}

// Get returns the value stored directly in m under key.
func Get[V any, K Property[V]](m *Map, key K) (V, bool) {
	var zero V
	if m == nil {
		return zero, false
	}
	e, ok := m.entries[key]
	if !ok {
		return zero, false
	}
	v, ok := e.value.(V)
	return v, ok
}

// Contains reports whether m holds a value under key.
func Contains[V any, K Property[V]](m *Map, key K) bool {
	if m == nil {
		return false
	}
	_, ok := m.entries[key]
	return ok
}

func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.order)
}

// Names returns the display names of the stored properties in insertion
// order.
func (m *Map) Names() []string {
	if m == nil {
		return nil
	}
	out := make([]string, 0, len(m.order))
	for _, k := range m.order {
		out = append(out, m.entries[k].name)
	}
	return out
}

// Apply copies every entry of other into m. Entries of other win.
func (m *Map) Apply(other *Map) {
	if other == nil {
		return
	}
	if m.entries == nil {
		m.entries = make(map[any]entry)
	}
	for _, k := range other.order {
		if _, ok := m.entries[k]; !ok {
			m.order = append(m.order, k)
		}
		m.entries[k] = other.entries[k]
	}
}

// Filter returns the entries of m whose key belongs to node.
func (m *Map) Filter(node reflect.Type) *Map {
	out := NewMap()
	if m == nil {
		return out
	}
	for _, k := range m.order {
		if e := m.entries[k]; e.node == node {
			out.entries[k] = e
			out.order = append(out.order, k)
		}
	}
	return out
}

func (m *Map) String() string {
	if m.Len() == 0 {
		return "{}"
	}
	var b strings.Builder
	b.WriteString("{")
	for i, k := range m.order {
		if i > 0 {
			b.WriteString(", ")
		}
		e := m.entries[k]
		fmt.Fprintf(&b, "%s: %v", e.name, e.value)
	}
	b.WriteString("}")
	return b.String()
}
