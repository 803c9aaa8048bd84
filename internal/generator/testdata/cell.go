//go:build stylegen

package library

import (
	"fmt"

	"github.com/cmmoran/stylegen/pkg/style"
)

//style:class
type Cell[T fmt.Stringer] struct {
	Span  int `default:"1" style:"name(colspan)"`
	Align string
}

func (c Cell[T]) construct(args *style.Args) (Cell[T], error) {
	return c, args.Finish()
}

func (c Cell[T]) set(args *style.Args, styles *style.Map) error {
	span, ok := style.Find[int](args)
	style.SetOpt(styles, c.Span, span, ok)
	return nil
}
