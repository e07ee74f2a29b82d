package mock

import (
	"context"

	"github.com/goc9000/pgbook"
)

var _ pgbook.Preprocessor = (*Preprocessor)(nil)

// Preprocessor is a mock implementation of pgbook.Preprocessor.
type Preprocessor struct {
	PreprocessFn func(ctx context.Context, page string) (string, error)
}

func (p *Preprocessor) Preprocess(ctx context.Context, page string) (string, error) {
	return p.PreprocessFn(ctx, page)
}

var _ pgbook.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of pgbook.Extractor.
type Extractor struct {
	ExtractFn func(ctx context.Context, book *pgbook.Book, page string) (string, error)
}

func (e *Extractor) Extract(ctx context.Context, book *pgbook.Book, page string) (string, error) {
	return e.ExtractFn(ctx, book, page)
}

var _ pgbook.Postprocessor = (*Postprocessor)(nil)

// Postprocessor is a mock implementation of pgbook.Postprocessor.
type Postprocessor struct {
	PostprocessFn func(fragment string) string
}

func (p *Postprocessor) Postprocess(fragment string) string {
	return p.PostprocessFn(fragment)
}

var _ pgbook.PageRenderer = (*PageRenderer)(nil)

// PageRenderer is a mock implementation of pgbook.PageRenderer.
type PageRenderer struct {
	RenderPageFn func(title, css, content string) (string, error)
}

func (r *PageRenderer) RenderPage(title, css, content string) (string, error) {
	return r.RenderPageFn(title, css, content)
}

var _ pgbook.IndexParser = (*IndexParser)(nil)

// IndexParser is a mock implementation of pgbook.IndexParser.
type IndexParser struct {
	EssayLinksFn func(page string) ([]string, error)
}

func (p *IndexParser) EssayLinks(page string) ([]string, error) {
	return p.EssayLinksFn(page)
}
