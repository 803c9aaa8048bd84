package style

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

var (
	// ErrArgType reports an argument whose value has the wrong type.
	ErrArgType = errors.New("style: argument type mismatch")
	// ErrUnexpectedArg reports arguments left over after a node consumed
	// everything it understands.
	ErrUnexpectedArg = errors.New("style: unexpected argument")
)

// Arg is one argument of a call. Positional arguments have an empty name.
type Arg struct {
	Name  string
	Value any
}

// Positional returns an unnamed argument.
func Positional(v any) Arg { return Arg{Value: v} }

// Keyed returns a named argument.
func Keyed(name string, v any) Arg { return Arg{Name: name, Value: v} }

func (a Arg) IsNamed() bool { return a.Name != "" }

func (a Arg) String() string {
	if a.IsNamed() {
		return fmt.Sprintf("%s: %v", a.Name, a.Value)
	}
	return fmt.Sprint(a.Value)
}

// ArgError describes a named argument whose value cannot be used.
type ArgError struct {
	Name string
	Want reflect.Type
	Got  any
}

func (e *ArgError) Error() string {
	return fmt.Sprintf("style: argument %q: expected %s, found %T", e.Name, e.Want, e.Got)
}

func (e *ArgError) Is(target error) bool {
	return target == ErrArgType
}

// Args is an argument list. Lookups consume the arguments they return.
type Args struct {
	items []Arg
}

func NewArgs(items ...Arg) *Args {
	return &Args{items: append([]Arg(nil), items...)}
}

func (a *Args) Len() int {
	if a == nil {
		return 0
	}
	return len(a.items)
}

// Finish fails when arguments remain.
func (a *Args) Finish() error {
	if a.Len() == 0 {
		return nil
	}
	left := make([]string, len(a.items))
	for i, it := range a.items {
		left[i] = it.String()
	}
	return fmt.Errorf("%w: %s", ErrUnexpectedArg, strings.Join(left, ", "))
}

// Named consumes every argument called name and returns the last one. It
// fails when that value is not a T.
func Named[T any](a *Args, name string) (T, bool, error) {
	var (
		zero  T
		found *Arg
	)
	if a == nil {
		return zero, false, nil
	}
	kept := a.items[:0]
	for i := range a.items {
		if a.items[i].Name == name {
			it := a.items[i]
			found = &it
			continue
		}
		kept = append(kept, a.items[i])
	}
	a.items = kept
	if found == nil {
		return zero, false, nil
	}
	v, ok := found.Value.(T)
	if !ok {
		return zero, false, &ArgError{Name: name, Want: reflect.TypeFor[T](), Got: found.Value}
	}
	return v, true, nil
}

// All consumes every positional argument that is a T.
func All[T any](a *Args) []T {
	if a == nil {
		return nil
	}
	var (
		out  []T
		kept = a.items[:0]
	)
	for _, it := range a.items {
		if !it.IsNamed() {
			if v, ok := it.Value.(T); ok {
				out = append(out, v)
				continue
			}
		}
		kept = append(kept, it)
	}
	a.items = kept
	return out
}

// Find consumes the first positional argument that is a T.
func Find[T any](a *Args) (T, bool) {
	var zero T
	if a == nil {
		return zero, false
	}
	for i, it := range a.items {
		if it.IsNamed() {
			continue
		}
		if v, ok := it.Value.(T); ok {
			a.items = append(a.items[:i], a.items[i+1:]...)
			return v, true
		}
	}
	return zero, false
}
