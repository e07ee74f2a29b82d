package goquery

import (
	"github.com/goc9000/pgbook"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// fixAnchors resolves every hyperlink in the retained content to its
// canonical form and tags it local or external for styling. Deprecated
// link markers are unwrapped to their inner content when removal is
// enabled, bypassing resolution. Attribute damage from the source era
// (name doubling as id, "hef" for href) is repaired first.
func (e *Extractor) fixAnchors(mainCell *html.Node, book *pgbook.Book) {
	for _, link := range findAll(mainCell, atom.A) {
		if e.Opts.RemoveDeprecatedLinks && attrVal(link, "class") == "_deprecated_link" {
			replaceWithChildren(link)
			continue
		}

		if name, ok := attr(link, "name"); ok {
			setAttr(link, "id", name)
			removeAttr(link, "name")
		}
		if hef, ok := attr(link, "hef"); ok {
			if _, hasName := attr(link, "name"); !hasName {
				setAttr(link, "href", hef)
			}
			removeAttr(link, "hef")
		}

		url, ok := attr(link, "href")
		if !ok {
			continue
		}
		ref := book.ResolveReference(url, e.Opts)
		setAttr(link, "href", ref.HRef())
		if ref.Kind == pgbook.RefExternal {
			addClass(link, "_external_link")
		} else {
			addClass(link, "_local_link")
		}
	}
}
