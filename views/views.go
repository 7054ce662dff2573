// Package views holds the embedded HTML templates and the Fiber template
// engine configured to render them.
package views

import (
	"embed"
	"net/http"

	"github.com/gofiber/template/html/v2"
)

//go:embed layouts/*.html *.html
var FS embed.FS

// Engine returns the HTML template engine backed by the embedded templates.
func Engine() *html.Engine {
	return html.NewFileSystem(http.FS(FS), ".html")
}
