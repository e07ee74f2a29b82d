package pgbook

import "context"

// EmbeddedPage is one page image of an embedded paper, addressed by a
// cache reference the image resolver can fetch.
type EmbeddedPage struct {
	Ref    string
	Width  int
	Height int
}

// PaperEmbedder converts an external PostScript/PDF document into page
// images seeded into the fetch cache, so the image resolver can embed
// them like any other image. Tool availability is probed before any
// side effects are committed, and temporary state is cleaned up on both
// success and failure paths.
type PaperEmbedder interface {
	EmbedPages(ctx context.Context) ([]EmbeddedPage, error)
}
