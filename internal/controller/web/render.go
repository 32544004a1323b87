package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/labstack/echo/v4"
)

//go:embed templates/*.html
var templateFS embed.FS

// page is what every template receives.
type page struct {
	Title   string
	Account *account
	Data    interface{}
}

func newPage(c echo.Context, title string, data interface{}) page {
	return page{Title: title, Account: currentAccount(c), Data: data}
}

// renderer keeps one template set per page, each holding the shared layout.
type renderer struct {
	pages map[string]*template.Template
}

var _ echo.Renderer = (*renderer)(nil)

func newRenderer() *renderer {
	layout := template.Must(template.ParseFS(templateFS, "templates/layout.html"))

	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		panic(err)
	}

	r := &renderer{pages: make(map[string]*template.Template, len(files))}
	for _, f := range files {
		name := strings.TrimSuffix(path.Base(f), ".html")
		if name == "layout" {
			continue
		}
		t := template.Must(layout.Clone())
		r.pages[name] = template.Must(t.ParseFS(templateFS, f))
	}
	return r
}

func (r *renderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}
	return t.ExecuteTemplate(w, "layout", data)
}
