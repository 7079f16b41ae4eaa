package dashboard

import (
	"embed"
	"io/fs"
	"os"

	template "github.com/goliatone/go-template"
)

//go:embed templates/*.html templates/**/*.html
var embeddedTemplates embed.FS

// NewTemplateRenderer creates a go-template renderer for the page and board
// fragment. When dir is set, templates are read from it instead of the
// embedded copies and must provide "dashboard.html" and
// "partials/board.html".
func NewTemplateRenderer(dir ...string) (Renderer, error) {
	if len(dir) > 0 && dir[0] != "" {
		return newTemplateRenderer(os.DirFS(dir[0]), ".")
	}
	return newTemplateRenderer(embeddedTemplates, "templates")
}

func newTemplateRenderer(fsys fs.FS, baseDir string) (Renderer, error) {
	return template.NewRenderer(
		template.WithFS(fsys),
		template.WithBaseDir(baseDir),
		template.WithExtension(".html"),
	)
}
