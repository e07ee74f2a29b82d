package preprocess

import (
	"fmt"
	"strings"

	"regexp"

	"github.com/goc9000/pgbook"
)

var commentRe = regexp.MustCompile(`(?s)<!--(.*?)-->`)

// extractComments pulls every markup comment out of the page, replacing
// each in place with a numbered footnote marker, and appends the
// collected footnotes as a dedicated block just before the end of the
// body. Comments matching known ad phrases are discarded; author-name
// leakage in name attributes is redacted.
func (p *Preprocessor) extractComments(page string) string {
	var comments []string

	page = commentRe.ReplaceAllStringFunc(page, func(m string) string {
		if !p.Opts.IncludeComments {
			return ""
		}

		text := commentRe.FindStringSubmatch(m)[1]
		for _, ad := range pgbook.CommentAds {
			if strings.Contains(text, ad) {
				return ""
			}
		}

		if pos := strings.Index(text, `name="`); pos != -1 {
			pos += len(`name="`)
			text = text[:pos] + "deleted_" + text[pos:]
		}

		comments = append(comments, text)
		n := len(comments)
		return fmt.Sprintf(`<sup><a href="#_comment%d">(%d)</a></sup>`, n, n)
	})

	if len(comments) == 0 {
		return page
	}

	var b strings.Builder
	b.WriteString(`<div id="__comments"><br /><b>Comments and Edits</b>`)
	for i, comm := range comments {
		fmt.Fprintf(&b, `<br/><br /><a name="_comment%d">(%d)</a> %s`, i+1, i+1, comm)
	}
	b.WriteString(`</div>`)

	pos := strings.Index(page, "</body")
	if pos == -1 {
		return page + b.String()
	}
	return page[:pos] + b.String() + page[pos:]
}
