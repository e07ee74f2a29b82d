package mock

import (
	"context"

	"github.com/goc9000/pgbook"
)

var _ pgbook.ImageResolver = (*ImageResolver)(nil)

// ImageResolver is a mock implementation of pgbook.ImageResolver.
type ImageResolver struct {
	ResolveImageFn func(ctx context.Context, book *pgbook.Book, src string) (string, error)
}

func (r *ImageResolver) ResolveImage(ctx context.Context, book *pgbook.Book, src string) (string, error) {
	return r.ResolveImageFn(ctx, book, src)
}

var _ pgbook.PaperEmbedder = (*PaperEmbedder)(nil)

// PaperEmbedder is a mock implementation of pgbook.PaperEmbedder.
type PaperEmbedder struct {
	EmbedPagesFn func(ctx context.Context) ([]pgbook.EmbeddedPage, error)
}

func (e *PaperEmbedder) EmbedPages(ctx context.Context) ([]pgbook.EmbeddedPage, error) {
	return e.EmbedPagesFn(ctx)
}
