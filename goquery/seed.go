package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/goc9000/pgbook"
)

// Ensure IndexParser implements pgbook.IndexParser at compile time.
var _ pgbook.IndexParser = (*IndexParser)(nil)

// IndexParser extracts main-article links from the essay index page.
type IndexParser struct{}

// EssayLinks implements pgbook.IndexParser.
func (IndexParser) EssayLinks(page string) ([]string, error) {
	return EssayLinks(page)
}

// EssayLinks extracts the ordered main-article links from the essay
// index page. The index keeps its list of essays in the second of its
// fixed-width layout tables.
func EssayLinks(page string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return nil, pgbook.Errorf(pgbook.EINVALID, "cannot parse essay index: %v", err)
	}

	tables := doc.Find(`table[width="455"]`)
	if tables.Length() < 2 {
		return nil, pgbook.Errorf(pgbook.ESTRUCTURE, "essay index does not match the known layout")
	}

	var links []string
	tables.Eq(1).Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		if href, ok := sel.Attr("href"); ok {
			links = append(links, href)
		}
	})
	if len(links) == 0 {
		return nil, pgbook.Errorf(pgbook.ESTRUCTURE, "no essay links found in index")
	}

	return links, nil
}
