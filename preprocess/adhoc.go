package preprocess

import (
	"context"
	"regexp"
	"strings"

	"github.com/goc9000/pgbook"
)

// Page-specific corrections. Each is keyed by a literal marker string
// found in exactly one page and is a no-op when the marker is absent.

var (
	catalogListRe = regexp.MustCompile(`(?s)<ol>\s*1. (Catalogs are so expensive.*?)</ol>`)
	catalogItemRe = regexp.MustCompile(`<br><br>\d+[.] `)
)

// trevorCredit marks a photo credit caption that sits in the wrong
// structural position on one page.
const trevorCredit = "Image: Casey Muller: Trevor Blackwell at Rehearsal Day, summer 2006"

// bbnMarker identifies the one page that references externally hosted
// excerpt text.
const (
	bbnMarker       = `alt="Lisp for Web-Based Applications"`
	bbnAnchor       = "BBN Labs in Cambridge, MA.<br><br></font>"
	bbnExcerptsURL  = "http://lib.store.yahoo.net/lib/paulgraham/bbnexcerpts.txt"
	trevorAnchorTag = "width=410 height=144 border=0 hspace=0 vspace=0></a>"
)

func (p *Preprocessor) adhocFixes(ctx context.Context, page string) (string, error) {
	page = fixCatalogList(page)
	page = strings.ReplaceAll(page, ` alt="Click to enlarge"`, "")
	page = relocateTrevorCredit(page)
	return p.spliceBBNExcerpts(ctx, page)
}

// fixCatalogList reconstructs a numbered list that the source flattened
// into break-separated text.
func fixCatalogList(page string) string {
	return catalogListRe.ReplaceAllStringFunc(page, func(m string) string {
		inner := catalogListRe.FindStringSubmatch(m)[1]
		return "<ol><li>" + catalogItemRe.ReplaceAllString(inner, "</li><li>") + "</li></ol>"
	})
}

// relocateTrevorCredit moves a photo credit caption next to its image,
// dropping the stray table it was parked in.
func relocateTrevorCredit(page string) string {
	if !strings.Contains(page, trevorCredit) {
		return page
	}

	pos1 := strings.Index(page, trevorAnchorTag) + len(trevorAnchorTag)
	pos := strings.Index(page, trevorCredit)
	pos2 := strings.LastIndex(page[:pos], "<table")
	pos3 := strings.Index(page[pos:], "</table>")
	if pos2 == -1 || pos3 == -1 {
		return page
	}
	pos3 += pos + len("</table>")

	creditHTML := `<br><span style="font-size: 75%">` + trevorCredit + "</span><br>"
	return page[:pos1] + creditHTML + page[pos1:pos2] + page[pos3:]
}

// spliceBBNExcerpts inserts externally hosted excerpt text after its
// introduction on the one page that references it.
func (p *Preprocessor) spliceBBNExcerpts(ctx context.Context, page string) (string, error) {
	if !strings.Contains(page, bbnMarker) {
		return page, nil
	}

	data, err := p.Fetcher.Fetch(ctx, bbnExcerptsURL)
	if err != nil {
		return "", err
	}

	pos := strings.Index(page, bbnAnchor) + len(bbnAnchor)
	return page[:pos] + "<pre>" + pgbook.HTMLEntities(string(data)) + "</pre>" + page[pos:], nil
}
