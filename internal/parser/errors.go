package parser

import (
	"errors"
	"fmt"
	"go/token"
	"strings"
)

// Diagnostic kinds. Every Diagnostic unwraps to exactly one of them.
var (
	ErrUnexpectedItem        = errors.New("unexpected item")
	ErrUnexpectedMethod      = errors.New("unexpected method")
	ErrMissingConstructor    = errors.New("missing constructor")
	ErrConflictingAttributes = errors.New("conflicting attributes")
	ErrMalformedSelfType     = errors.New("malformed self type")
	ErrDuplicateProperty     = errors.New("duplicate property")
	ErrMalformedAttribute    = errors.New("malformed attribute")
	ErrInvalidVariadic       = errors.New("invalid variadic property")
	ErrGenericValue          = errors.New("generic value type")
	ErrReservedName          = errors.New("reserved name")
)

// Diagnostic is a generation error attached to the offending declaration.
type Diagnostic struct {
	Pos      token.Position
	Kind     error
	Owner    string // class type name, empty before the header is known
	Property string // property name for attribute failures
	Msg      string
}

// Error implements the error interface.
func (d *Diagnostic) Error() string {
	var b strings.Builder
	if d.Pos.IsValid() {
		b.WriteString(d.Pos.String())
		b.WriteString(": ")
	}
	b.WriteString("stylegen: ")
	b.WriteString(d.Kind.Error())
	switch {
	case d.Owner != "" && d.Property != "":
		fmt.Fprintf(&b, " in %s.%s", d.Owner, d.Property)
	case d.Owner != "":
		fmt.Fprintf(&b, " in %s", d.Owner)
	}
	if d.Msg != "" {
		b.WriteString(": ")
		b.WriteString(d.Msg)
	}
	return b.String()
}

// Unwrap returns the diagnostic kind.
func (d *Diagnostic) Unwrap() error {
	return d.Kind
}

func newDiagnostic(kind error, pos token.Position, owner, property, format string, args ...any) *Diagnostic {
	return &Diagnostic{
		Pos:      pos,
		Kind:     kind,
		Owner:    owner,
		Property: property,
		Msg:      fmt.Sprintf(format, args...),
	}
}

type Diagnostics []*Diagnostic

// Err joins the diagnostics, or returns nil when there are none.
func (ds Diagnostics) Err() error {
	if len(ds) == 0 {
		return nil
	}
	errs := make([]error, len(ds))
	for i, d := range ds {
		errs[i] = d
	}
	return errors.Join(errs...)
}

// Has reports whether any diagnostic is of the given kind.
func (ds Diagnostics) Has(kind error) bool {
	for _, d := range ds {
		if errors.Is(d, kind) {
			return true
		}
	}
	return false
}
