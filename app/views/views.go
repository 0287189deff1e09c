// Package views holds the embedded HTML templates. Each page is parsed
// together with the layout and partials and rendered through "layout".
package views

import (
	"embed"
	"fmt"
	"html/template"
)

//go:embed *.html
var files embed.FS

// Pages lists every page template, by name without extension.
var Pages = []string{
	"index",
	"post",
	"register",
	"login",
	"make-post",
	"about",
	"contact",
	"error",
}

// Parse returns one template set per page.
func Parse(funcs template.FuncMap) (map[string]*template.Template, error) {
	templates := make(map[string]*template.Template, len(Pages))
	for _, page := range Pages {
		t, err := template.New(page).Funcs(funcs).ParseFS(files, "layout.html", "partials.html", page+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", page, err)
		}
		templates[page] = t
	}
	return templates, nil
}
