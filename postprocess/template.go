package postprocess

import (
	"strings"
	"text/template"

	"github.com/goc9000/pgbook"
)

// pageTemplate is the XHTML 1.1 page every article is rendered into.
// Content arrives already escaped and ASCII-clean, so it is inserted
// verbatim.
const pageTemplate = `<?xml version="1.0" encoding="utf-8"?>
<!DOCTYPE html PUBLIC "-//W3C//DTD XHTML 1.1//EN" "http://www.w3.org/TR/xhtml11/DTD/xhtml11.dtd">
<html xmlns="http://www.w3.org/1999/xhtml">
<head>
  <title>{{.Title}}</title>
  <style type="text/css">
body { font-family: sans-serif; }
h1, h2 { font-variant: small-caps; color: #800000; }
blockquote { font-style: italic; }
a._local_link { background-color: #e0e0e0; }
a._external_link { }
img._embedded_page { border: 1px solid gray; }
{{.CSS}}
  </style>
</head>
<body>
{{.Content}}
</body>
</html>
`

// Ensure Renderer implements pgbook.PageRenderer at compile time.
var _ pgbook.PageRenderer = (*Renderer)(nil)

// Renderer renders article content into complete XHTML pages.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer creates a Renderer.
func NewRenderer() *Renderer {
	return &Renderer{
		tmpl: template.Must(template.New("page").Parse(pageTemplate)),
	}
}

// RenderPage wraps a postprocessed content fragment in the page
// template. The title is entity-escaped; content and extra CSS are
// inserted as-is.
func (r *Renderer) RenderPage(title, css, content string) (string, error) {
	var b strings.Builder
	err := r.tmpl.Execute(&b, struct {
		Title   string
		CSS     string
		Content string
	}{
		Title:   pgbook.HTMLEntities(title),
		CSS:     css,
		Content: content,
	})
	if err != nil {
		return "", err
	}
	return b.String(), nil
}
