// Package preprocess applies string-level fixups to raw page text
// before structural parsing. The fixups form a fixed, order-sensitive
// cascade of named passes; each pass is independently testable and
// fully deterministic given identical input.
package preprocess

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/goc9000/pgbook"
)

// Ensure Preprocessor implements pgbook.Preprocessor at compile time.
var _ pgbook.Preprocessor = (*Preprocessor)(nil)

// Preprocessor runs the raw-text fixup cascade. The fetcher is needed
// by one page-specific correction that splices in externally hosted
// text.
type Preprocessor struct {
	Fetcher pgbook.PageFetcher
	Opts    pgbook.Options
}

// NewPreprocessor creates a Preprocessor with the given collaborators.
func NewPreprocessor(fetcher pgbook.PageFetcher, opts pgbook.Options) *Preprocessor {
	return &Preprocessor{Fetcher: fetcher, Opts: opts}
}

// Pass is one named transformation in the cascade.
type Pass struct {
	Name  string
	Apply func(ctx context.Context, page string) (string, error)
}

// pure lifts a string transform into a Pass application.
func pure(fn func(string) string) func(context.Context, string) (string, error) {
	return func(_ context.Context, page string) (string, error) {
		return fn(page), nil
	}
}

// Passes returns the cascade in its fixed application order.
func (p *Preprocessor) Passes() []Pass {
	return []Pass{
		{"escape-non-ascii", pure(EscapeNonASCII)},
		{"extract-body", func(_ context.Context, page string) (string, error) { return ExtractBody(page) }},
		{"fix-weird-tags", pure(FixWeirdTags)},
		{"fix-xmp-tags", pure(FixXmpTags)},
		{"adhoc-fixes", p.adhocFixes},
		{"remove-banners", pure(RemoveBanners)},
		{"convert-paragraphs", pure(ConvertParagraphs)},
		{"extract-comments", pure(p.extractComments)},
	}
}

// Preprocess runs the full cascade over the raw page text.
func (p *Preprocessor) Preprocess(ctx context.Context, page string) (string, error) {
	for _, pass := range p.Passes() {
		var err error
		page, err = pass.Apply(ctx, page)
		if err != nil {
			return "", fmt.Errorf("preprocess pass %q: %w", pass.Name, err)
		}
	}
	return page, nil
}

// EscapeNonASCII replaces every non-ASCII rune with a numeric character
// reference, so the rest of the cascade operates on pure ASCII.
func EscapeNonASCII(page string) string {
	var b strings.Builder
	b.Grow(len(page))
	for _, r := range page {
		if r < 128 {
			b.WriteRune(r)
		} else {
			fmt.Fprintf(&b, "&#%d;", r)
		}
	}
	return b.String()
}

var bodyRe = regexp.MustCompile(`(?s)<body\b[^>]*>.*?</body\b[^>]*>`)

// ExtractBody cuts the document down to its body region. The pages all
// carry a body element; a page without one does not match any known
// layout.
func ExtractBody(page string) (string, error) {
	body := bodyRe.FindString(page)
	if body == "" {
		return "", pgbook.Errorf(pgbook.ESTRUCTURE, "no body region found in page")
	}
	return body, nil
}

var (
	weirdLinkRe = regexp.MustCompile(`<(xa|ax|nota)\s+`)
	ximgRe      = regexp.MustCompile(`<ximg\s+[^>]*>`)
)

// FixWeirdTags repairs known malformed link tag spellings, marking them
// as deprecated links, and deletes a known-deprecated image tag.
func FixWeirdTags(page string) string {
	page = weirdLinkRe.ReplaceAllString(page, `<a class="_deprecated_link" `)
	page = ximgRe.ReplaceAllString(page, "")
	return page
}

var xmpRe = regexp.MustCompile(`(?si)<xmp\b[^>]*>(.*?)</xmp>`)

// FixXmpTags converts legacy xmp preformatted-text blocks into escaped
// pre blocks.
func FixXmpTags(page string) string {
	return xmpRe.ReplaceAllStringFunc(page, func(m string) string {
		inner := xmpRe.FindStringSubmatch(m)[1]
		return "<pre>" + pgbook.HTMLEntities(inner) + "</pre>"
	})
}

var paragraphRe = regexp.MustCompile(`<p(\s+[^>]*)?>`)

// ConvertParagraphs normalizes paragraph markers into the break-pair
// representation the source markup itself mostly uses. Paragraph
// structure is reconstructed after serialization.
func ConvertParagraphs(page string) string {
	return paragraphRe.ReplaceAllString(page, "<br/><br/>")
}
