// Package render turns stored post and comment text into safe HTML and
// provides the template helpers the views use.
package render

import (
	"bytes"
	"html/template"
	"sync"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	md       goldmark.Markdown
	ugc      *bluemonday.Policy
	initOnce sync.Once
)

func initRenderers() {
	initOnce.Do(func() {
		// Bodies arrive as editor HTML or markdown; raw HTML passes through
		// goldmark and is cleaned afterwards.
		md = goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(html.WithUnsafe()),
		)

		ugc = bluemonday.UGCPolicy()
		ugc.AllowAttrs("style").OnElements("span", "p")
		ugc.AllowStyles("color", "background-color", "text-align").Globally()
	})
}

// Content renders stored rich text as sanitized HTML. The stored value is
// never modified; sanitizing happens on every render.
func Content(s string) template.HTML {
	initRenderers()

	var buf bytes.Buffer
	if err := md.Convert([]byte(s), &buf); err != nil {
		return template.HTML(ugc.Sanitize(s))
	}
	return template.HTML(ugc.SanitizeBytes(buf.Bytes()))
}

// Funcs are the helpers available to every view.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"content":  Content,
		"gravatar": Gravatar,
		"year":     func() int { return time.Now().Year() },
		"masthead": NewMasthead,
		"field":    NewField,
	}
}

// Masthead is the page banner.
type Masthead struct {
	Heading    string
	Subheading string
	Image      string
}

func NewMasthead(heading, subheading, image string) Masthead {
	return Masthead{Heading: heading, Subheading: subheading, Image: image}
}

// Field is one labelled form input with its current value and first error.
type Field struct {
	Name  string
	Label string
	Type  string
	Value string
	Error string
}

func NewField(name, label, typ, value, err string) Field {
	return Field{Name: name, Label: label, Type: typ, Value: value, Error: err}
}
