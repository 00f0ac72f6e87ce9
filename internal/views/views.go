// Package views renders the pages and htmx fragments of the alumni form.
package views

import (
	"context"
	"embed"
	"html/template"
	"io"

	"github.com/a-h/templ"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

func render(name string, data any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return templates.ExecuteTemplate(w, name, data)
	})
}

type layoutData struct {
	Title     string
	CSRFToken string
	Nonce     string
}

// Layout wraps the children found in ctx with the page shell. The CSRF token
// is sent with every htmx request through hx-headers.
func Layout(title, csrfToken, cspNonce string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		data := layoutData{Title: title, CSRFToken: csrfToken, Nonce: cspNonce}
		if err := templates.ExecuteTemplate(w, "layout_start", data); err != nil {
			return err
		}
		if err := templ.GetChildren(ctx).Render(templ.ClearChildren(ctx), w); err != nil {
			return err
		}
		return templates.ExecuteTemplate(w, "layout_end", data)
	})
}

// Page renders body inside Layout.
func Page(ctx context.Context, w io.Writer, title, csrfToken, cspNonce string, body templ.Component) error {
	return Layout(title, csrfToken, cspNonce).Render(templ.WithChildren(ctx, body), w)
}
