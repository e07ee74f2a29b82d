// Package postprocess reconstructs valid paragraph and block nesting in
// serialized fragments. The tree serializer is not paragraph-aware (the
// source markup implies paragraphs with untyped line breaks), so
// paragraph boundaries are restored textually with a fixed sequence of
// regex corrections.
//
// Every correction is idempotent: each boundary-inserting rule consumes
// an already-present boundary before re-inserting it, so running the
// postprocessor on already-corrected output yields the same text.
package postprocess

import (
	"regexp"

	"github.com/goc9000/pgbook"
)

// Ensure Postprocessor implements pgbook.Postprocessor at compile time.
var _ pgbook.Postprocessor = (*Postprocessor)(nil)

// Postprocessor applies the correction sequence.
type Postprocessor struct{}

// NewPostprocessor creates a Postprocessor.
func NewPostprocessor() *Postprocessor {
	return &Postprocessor{}
}

// Postprocess runs the full correction sequence over a fragment. The
// fragment is expected to arrive wrapped in a single paragraph.
func (p *Postprocessor) Postprocess(fragment string) string {
	fragment = FixBlockquotes(fragment)
	fragment = FixCenterTags(fragment)
	fragment = FixBlockTags(fragment)
	fragment = ApplyFinalCorrections(fragment)
	fragment = AddCoda(fragment)
	return fragment
}

var blockquoteRe = regexp.MustCompile(`(</p>)?(</?blockquote[^>]*>)(<p>)?`)

// FixBlockquotes promotes blockquote boundaries to paragraph
// boundaries.
func FixBlockquotes(page string) string {
	return blockquoteRe.ReplaceAllString(page, "</p>$2<p>")
}

var (
	centerTrailBrRe = regexp.MustCompile(`</center>\s*<br />`)
	centerLastBrRe  = regexp.MustCompile(`<br />\s*</center>`)
	centerLeadBrRe  = regexp.MustCompile(`<br />\s*<center>`)
	centerFirstBrRe = regexp.MustCompile(`<center>\s*<br />`)
	centerJoinRe    = regexp.MustCompile(`</center><center[^>]*>`)
	centerOpenRe    = regexp.MustCompile(`<center[^>]*>`)
	centerCloseRe   = regexp.MustCompile(`</center[^>]*>`)
)

// FixCenterTags converts centered regions into centered paragraphs,
// first collapsing the line breaks made redundant by the paragraph
// boundaries this introduces.
func FixCenterTags(page string) string {
	page = centerTrailBrRe.ReplaceAllString(page, "</center>")
	page = centerLastBrRe.ReplaceAllString(page, "</center>")
	page = centerLeadBrRe.ReplaceAllString(page, "<center>")
	page = centerFirstBrRe.ReplaceAllString(page, "<center>")
	page = centerJoinRe.ReplaceAllString(page, "<br />")

	page = centerOpenRe.ReplaceAllString(page, `</p><p style="text-align:center">`)
	page = centerCloseRe.ReplaceAllString(page, "</p><p>")
	return page
}

var (
	hrRe         = regexp.MustCompile(`(</p>)?(<hr\b[^>]*>)(<p>)?`)
	blockOpenRe  = regexp.MustCompile(`(</p>)?(<(?:pre|ol|ul|table|h\d)\b)`)
	blockCloseRe = regexp.MustCompile(`(</(?:pre|ol|ul|table|h\d)\b[^>]*>)(<p>)?`)
)

// FixBlockTags forces block-level elements to close and reopen any
// enclosing paragraph.
func FixBlockTags(page string) string {
	page = hrRe.ReplaceAllString(page, "</p>$2<p>")
	page = blockOpenRe.ReplaceAllString(page, "</p>$2")
	page = blockCloseRe.ReplaceAllString(page, "$1<p>")
	return page
}

var (
	cellOpenTrimRe  = regexp.MustCompile(`(<(?:td|li)\b[^>]*>[^<]*)</p>`)
	cellCloseTrimRe = regexp.MustCompile(`<p>([^<]*</(?:td|li)\b)`)
	emptyParaRe     = regexp.MustCompile(`<p>\s*</p>`)
	trailingParaRe  = regexp.MustCompile(`<p>$`)
)

// ApplyFinalCorrections trims paragraph wrapping that illegally crosses
// into or out of a table cell or list item, and removes paragraphs left
// empty by the earlier corrections.
func ApplyFinalCorrections(page string) string {
	page = cellOpenTrimRe.ReplaceAllString(page, "$1")
	page = cellCloseTrimRe.ReplaceAllString(page, "$1")
	page = emptyParaRe.ReplaceAllString(page, "")
	page = trailingParaRe.ReplaceAllString(page, "")
	return page
}

var codaRe = regexp.MustCompile(`(\s*<br />)*</p>$`)

// AddCoda appends the fixed trailing visual coda (spacing and a rule)
// at the end of the fragment, replacing any trailing line breaks.
func AddCoda(page string) string {
	return codaRe.ReplaceAllString(page, "<br /><br /><br /><br /></p><hr />")
}
