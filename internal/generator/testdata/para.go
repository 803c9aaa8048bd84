//go:build stylegen

package library

import (
	"strings"

	"github.com/cmmoran/stylegen/pkg/style"
)

// Para is a paragraph of text.
//
//style:class
type Para struct {
	// Width is the line width in em.
	Width      float64   `default:"10.0"`
	Strong     int       `style:"fold(add)"`
	Gap        []float64 `style:"variadic"`
	Fill       string    `style:"shorthand" default:"\"black\""`
	LineHeight float64   `default:"1.2" json:"lineHeight"`
	Body       string    `style:"skip"`
}

func (Para) construct(args *style.Args) (*Node, error) {
	text, _, err := style.Named[string](args, "body")
	if err != nil {
		return nil, err
	}
	styles, err := style.Styles(Para{}, args)
	if err != nil {
		return nil, err
	}
	return &Node{Text: strings.TrimSpace(text), Styles: styles}, args.Finish()
}

// Node is a constructed paragraph.
type Node struct {
	Text   string
	Styles *style.Map
}

func add(inner, outer int) int { return inner + outer }
