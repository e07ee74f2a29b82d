// Package goquery implements the structural half of the pipeline: it
// parses prepared page text into a mutable tree, locates the main
// content region, classifies and handles the region's sibling blocks,
// normalizes legacy presentational markup, and resolves every link and
// image reference against the book.
package goquery

import (
	"context"
	"strconv"
	"strings"

	"github.com/goc9000/pgbook"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Ensure Extractor implements pgbook.Extractor at compile time.
var _ pgbook.Extractor = (*Extractor)(nil)

// Extractor turns one prepared page into its normalized content
// fragment.
type Extractor struct {
	Images pgbook.ImageResolver
	Paper  pgbook.PaperEmbedder
	Opts   pgbook.Options
}

// NewExtractor creates an Extractor with the given collaborators.
func NewExtractor(images pgbook.ImageResolver, opts pgbook.Options) *Extractor {
	return &Extractor{Images: images, Opts: opts}
}

// Extract runs the full structural pipeline over one prepared page and
// returns the serialized inner content of the main region.
func (e *Extractor) Extract(ctx context.Context, book *pgbook.Book, page string) (string, error) {
	root, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return "", pgbook.Errorf(pgbook.EINVALID, "cannot parse page: %v", err)
	}

	// The footnote block sits at the end of the body, where it would
	// confuse the sibling classifier; park it aside until the main cell
	// is extracted.
	comments := detachComments(root)

	mainCell, err := e.extractMainContent(ctx, root)
	if err != nil {
		return "", err
	}

	retrieveComments(comments, mainCell)
	if err := replaceTitleImages(mainCell); err != nil {
		return "", err
	}
	removeBottomAds(mainCell)
	removeScripts(mainCell)
	convertFontTags(mainCell)
	convertStrikethrough(mainCell)
	fixEntities(mainCell)
	e.fixAnchors(mainCell, book)
	fixTableStyles(mainCell)
	fixBrAndHrStyles(mainCell)
	if err := e.resolveImages(ctx, mainCell, book); err != nil {
		return "", err
	}

	return RenderChildren(mainCell), nil
}

// findTitleImage returns the first image carrying a non-empty alt-text
// attribute. That text is the article title; the image anchors the main
// content region.
func findTitleImage(n *html.Node) *html.Node {
	return findFirst(n, func(m *html.Node) bool {
		if !isElem(m, atom.Img) {
			return false
		}
		alt, ok := attr(m, "alt")
		return ok && strings.TrimSpace(alt) != ""
	})
}

// extractMainContent locates the main content cell, absorbs or discards
// the structural siblings of its enclosing table, and detaches the cell
// from the document.
func (e *Extractor) extractMainContent(ctx context.Context, root *html.Node) (*html.Node, error) {
	titleImg := findTitleImage(root)
	if titleImg == nil {
		return nil, pgbook.Errorf(pgbook.ESTRUCTURE, "title image not found")
	}
	title := strings.TrimSpace(attrVal(titleImg, "alt"))
	mainCell := titleImg.Parent

	if e.Opts.IncludeRootsOfLisp && e.Paper != nil && title == "The Roots of Lisp" {
		pages, err := e.Paper.EmbedPages(ctx)
		if err != nil {
			return nil, err
		}
		appendEmbeddedPages(mainCell, pages)
	}

	mainTable := mainCell.Parent
	for mainTable != nil && !isElem(mainTable, atom.Table) {
		mainTable = mainTable.Parent
	}
	if mainTable == nil {
		return nil, pgbook.Errorf(pgbook.ESTRUCTURE, "main content table not found")
	}

	for {
		section := mainTable.NextSibling
		if section == nil {
			break
		}
		switch {
		case section.Type == html.TextNode:
			if strings.TrimSpace(section.Data) != "" {
				return nil, pgbook.Errorf(pgbook.ESTRUCTURE, "unexpected text after main content: %q", section.Data)
			}
			detach(section)
		case section.Type != html.ElementNode:
			detach(section)
		case section.DataAtom == atom.Br:
			moveChild(mainCell, section)
		case section.DataAtom != atom.Table:
			return nil, pgbook.Errorf(pgbook.ESTRUCTURE, "expected <br> or <table> after main content, got <%s>", section.Data)
		case isLinksSection(section):
			e.rewriteLinksSection(mainCell, section)
		case isEndSection(section) || isAdSection(section) || isDisqusSection(section):
			detach(section)
		default:
			appendCustomSection(mainCell, section)
		}
	}

	detach(mainCell)
	return mainCell, nil
}

// isLinksSection recognizes the per-essay block of related links: it
// contains both a link and an image, every link sits in the site's
// legacy font styling, and every image is either a 1x1 spacer or a
// small icon from the site's CDN.
func isLinksSection(table *html.Node) bool {
	links := findAll(table, atom.A)
	imgs := findAll(table, atom.Img)
	if len(links) == 0 || len(imgs) == 0 {
		return false
	}

	for _, link := range links {
		font := link.Parent
		if !isElem(font, atom.Font) || attrVal(font, "size") != "2" || attrVal(font, "face") != "verdana" {
			return false
		}
	}

	for _, img := range imgs {
		src := attrVal(img, "src")
		if !strings.HasSuffix(src, "trans_1x1.gif") && !strings.HasPrefix(src, "http://ep.yimg.com/ca/I/paulgraham_") {
			return false
		}
		if intAttr(img, "width") > 20 || intAttr(img, "height") > 20 {
			return false
		}
	}

	return true
}

// rewriteLinksSection replaces the links block with a plain bulleted
// list of (URL, caption) pairs appended to the main cell. The block is
// omitted entirely when link retention is disabled or the list ends up
// empty.
func (e *Extractor) rewriteLinksSection(mainCell, table *html.Node) {
	type entry struct {
		url     string
		caption string
	}
	var links []entry

	for _, font := range findAll(table, atom.Font) {
		if attrVal(font, "size") != "2" || attrVal(font, "face") != "verdana" {
			continue
		}
		link := font.FirstChild
		if !isElem(link, atom.A) {
			continue
		}
		href, ok := attr(link, "href")
		if !ok {
			continue
		}

		caption := strings.TrimSpace(text(link, ""))
		if e.Opts.OmitTranslations && strings.HasSuffix(caption, " Translation") {
			continue
		}
		links = append(links, entry{url: href, caption: caption})
	}

	detach(table)

	if !e.Opts.IncludeLinks || len(links) == 0 {
		return
	}

	b := newElem("b")
	b.AppendChild(newText("Links"))
	mainCell.AppendChild(b)

	ul := newElem("ul")
	for _, l := range links {
		li := newElem("li")
		a := newElem("a", html.Attribute{Key: "href", Val: l.url})
		a.AppendChild(newText(l.caption))
		li.AppendChild(a)
		ul.AppendChild(li)
	}
	mainCell.AppendChild(ul)
}

// isAdSection recognizes sibling blocks whose visible text matches a
// known ad phrase.
func isAdSection(table *html.Node) bool {
	t := text(table, " ")
	for _, ad := range pgbook.SectionAds {
		if strings.Contains(t, ad) {
			return true
		}
	}
	return false
}

// isDisqusSection recognizes the discussion-widget placeholder.
func isDisqusSection(table *html.Node) bool {
	return findFirst(table, func(n *html.Node) bool {
		return isElem(n, atom.Div) && attrVal(n, "id") == "disqus_thread"
	}) != nil
}

// isEndSection recognizes the end-of-essay marker: a horizontal rule
// and no visible text.
func isEndSection(table *html.Node) bool {
	hasRule := findFirst(table, func(n *html.Node) bool { return isElem(n, atom.Hr) }) != nil
	return hasRule && strings.TrimSpace(text(table, "")) == ""
}

// appendCustomSection splices a generic block container's non-trivial
// cells directly into the main cell and discards the container. Cells
// narrower than 10 units are layout filler; 1x1 spacer images are
// dropped before judging emptiness.
func appendCustomSection(mainCell, table *html.Node) {
	for _, tr := range tableRows(table) {
		for td := tr.FirstChild; td != nil; {
			next := td.NextSibling
			if !isElem(td, atom.Td) && !isElem(td, atom.Th) {
				td = next
				continue
			}
			if _, ok := attr(td, "width"); ok && intAttr(td, "width") < 10 {
				td = next
				continue
			}
			for _, img := range findAll(td, atom.Img) {
				if strings.HasSuffix(attrVal(img, "src"), "trans_1x1.gif") {
					detach(img)
				}
			}
			if td.FirstChild == nil {
				td = next
				continue
			}
			for td.FirstChild != nil {
				moveChild(mainCell, td.FirstChild)
			}
			td = next
		}
	}
	detach(table)
}

// detachComments removes the footnote block the preprocessor parked at
// the end of the body and returns it, or nil when the page has none.
func detachComments(root *html.Node) *html.Node {
	comments := findFirst(root, func(n *html.Node) bool {
		return isElem(n, atom.Div) && attrVal(n, "id") == "__comments"
	})
	if comments != nil {
		detach(comments)
	}
	return comments
}

// retrieveComments moves the parked footnote block's contents into the
// main cell.
func retrieveComments(comments, mainCell *html.Node) {
	if comments == nil {
		return
	}
	for comments.FirstChild != nil {
		moveChild(mainCell, comments.FirstChild)
	}
}

// appendEmbeddedPages adds a centered run of embedded page images to
// the main cell.
func appendEmbeddedPages(mainCell *html.Node, pages []pgbook.EmbeddedPage) {
	center := newElem("center")
	for _, p := range pages {
		center.AppendChild(newElem("br"))
		center.AppendChild(newElem("img",
			html.Attribute{Key: "src", Val: p.Ref},
			html.Attribute{Key: "width", Val: strconv.Itoa(p.Width)},
			html.Attribute{Key: "height", Val: strconv.Itoa(p.Height)},
			html.Attribute{Key: "class", Val: "_embedded_page"},
		))
		center.AppendChild(newElem("br"))
	}
	mainCell.AppendChild(center)
}
