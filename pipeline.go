package pgbook

import "context"

// Preprocessor applies string-level fixups to a raw page before
// structural parsing: tag repair, deprecated-tag neutralization, legacy
// preformatted-text conversion, banner excision, paragraph-marker
// normalization, and comment extraction. Fully deterministic given
// identical input.
type Preprocessor interface {
	// Preprocess transforms the raw page text into prepared text.
	// Returns ESTRUCTURE if no body region is found.
	Preprocess(ctx context.Context, page string) (string, error)
}

// Extractor parses prepared text, locates the main content region,
// classifies and handles its sibling blocks, and normalizes the
// retained markup, resolving every link and image reference against the
// book. The result is the serialized inner content of the main region.
type Extractor interface {
	// Extract returns the article's serialized content fragment.
	// Returns ESTRUCTURE when the page does not match any recognized
	// layout.
	Extract(ctx context.Context, book *Book, page string) (string, error)
}

// IndexParser extracts the ordered list of main-article links from the
// essay index page.
type IndexParser interface {
	// EssayLinks returns the links in index order. Returns ESTRUCTURE
	// when the index does not match the known layout.
	EssayLinks(page string) ([]string, error)
}

// Postprocessor applies block-level corrections to a serialized
// fragment, reconstructing valid paragraph nesting. Idempotent: running
// it on already-corrected output yields the same text.
type Postprocessor interface {
	Postprocess(fragment string) string
}

// PageRenderer wraps a content fragment into a complete, self-contained
// styled XHTML document.
type PageRenderer interface {
	RenderPage(title, css, content string) (string, error)
}
