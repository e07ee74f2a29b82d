package goquery

import (
	"path"
	"regexp"
	"strings"

	"github.com/goc9000/pgbook"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// addStyle appends a declaration to a node's inline style, keeping
// declarations semicolon-separated.
func addStyle(n *html.Node, style string) {
	if style == "" {
		return
	}
	sty := strings.TrimSpace(attrVal(n, "style"))
	if sty != "" && !strings.HasSuffix(sty, ";") {
		sty += ";"
	}
	if !strings.HasSuffix(strings.TrimSpace(style), ";") {
		style += ";"
	}
	setAttr(n, "style", sty+style)
}

// addClass appends a class to a node's class attribute.
func addClass(n *html.Node, cls string) {
	cl := strings.TrimSpace(attrVal(n, "class"))
	if cl == "" {
		setAttr(n, "class", cls)
		return
	}
	setAttr(n, "class", cl+" "+cls)
}

// attrToCSS converts a presentational attribute into the equivalent
// inline style declaration and removes the attribute. The css template
// substitutes the attribute value for every "{0}"; an empty template
// means "attribute:value".
func attrToCSS(n *html.Node, name, css string) {
	val, ok := attr(n, name)
	if !ok {
		return
	}
	if css == "" {
		css = name + ":{0}"
	}
	addStyle(n, strings.ReplaceAll(css, "{0}", val))
	removeAttr(n, name)
}

// replaceImageWithHeading swaps a title-marker image for a heading
// element carrying the corresponding text, then consumes up to two
// immediately following line breaks to avoid orphan spacing.
func replaceImageWithHeading(img *html.Node, tag, title string) {
	hdg := newElem(tag)
	hdg.AppendChild(newText(title))
	replaceNode(img, hdg)

	for i := 0; i < 2; i++ {
		consumed := false
		for sib := hdg.NextSibling; sib != nil; sib = sib.NextSibling {
			if sib.Type == html.ElementNode {
				if sib.DataAtom != atom.Br {
					return
				}
				detach(sib)
				consumed = true
				break
			}
			if sib.Type == html.TextNode && strings.TrimSpace(sib.Data) != "" {
				return
			}
		}
		if !consumed {
			return
		}
	}
}

// replaceTitleImages replaces the main title image with an h1 heading
// and the fixed set of named sub-images with h2 headings.
func replaceTitleImages(mainCell *html.Node) error {
	img := findTitleImage(mainCell)
	if img == nil {
		return pgbook.Errorf(pgbook.ESTRUCTURE, "title image missing from extracted content")
	}
	replaceImageWithHeading(img, "h1", attrVal(img, "alt"))

	for _, img := range findAll(mainCell, atom.Img) {
		name := path.Base(attrVal(img, "src"))
		if title, ok := pgbook.TitleImages[name]; ok {
			replaceImageWithHeading(img, "h2", title)
		}
	}
	return nil
}

// removeBottomAds discards book-promotion tables at the bottom of the
// content, along with the line breaks trailing them.
func removeBottomAds(mainCell *html.Node) {
	for _, table := range findAll(mainCell, atom.Table) {
		if !strings.Contains(text(table, ""), "You'll find this essay and 14 others") {
			continue
		}
		for isElem(table.NextSibling, atom.Br) {
			detach(table.NextSibling)
		}
		detach(table)
	}
}

// removeScripts deletes script elements outright.
func removeScripts(mainCell *html.Node) {
	for _, script := range findAll(mainCell, atom.Script) {
		detach(script)
	}
}

// convertFontTags rewrites legacy font coloring as an inline style.
// Face and size changes are ignored; a font element left with no
// surviving style collapses into its children.
func convertFontTags(mainCell *html.Node) {
	for _, font := range findAll(mainCell, atom.Font) {
		attrToCSS(font, "color", "")
		removeAttr(font, "face")
		removeAttr(font, "size")

		if _, ok := attr(font, "style"); ok {
			font.Data = "span"
			font.DataAtom = atom.Span
		} else {
			replaceWithChildren(font)
		}
	}
}

// convertStrikethrough rewrites strikethrough markup as a styled span.
func convertStrikethrough(mainCell *html.Node) {
	for _, st := range findAll(mainCell, atom.S) {
		st.Data = "span"
		st.DataAtom = atom.Span
		addStyle(st, "text-decoration: line-through")
	}
}

// fixTableStyles converts table, row and cell width and background
// attributes into inline styles, and centers tables inside centered
// regions with auto margins.
func fixTableStyles(mainCell *html.Node) {
	for _, t := range findAll(mainCell, atom.Table, atom.Tr, atom.Td) {
		attrToCSS(t, "width", "")
		attrToCSS(t, "bgcolor", "background-color:{0}")
	}
	for _, cent := range findAll(mainCell, atom.Center) {
		for _, tbl := range findAll(cent, atom.Table) {
			addStyle(tbl, "margin: auto")
		}
	}
}

// fixBrAndHrStyles strips stray formatting attributes from line breaks
// and horizontal rules.
func fixBrAndHrStyles(mainCell *html.Node) {
	for _, br := range findAll(mainCell, atom.Br) {
		removeAttr(br, "clear")
	}
	for _, hr := range findAll(mainCell, atom.Hr) {
		removeAttr(hr, "color")
		removeAttr(hr, "height")
	}
}

var singleCharEntityRe = regexp.MustCompile(`&(\w);`)

// escapeEntityText corrects loose text so rendering it verbatim yields
// well-formed output: a raw ampersand not opening a recognized entity
// becomes a literal ampersand entity, bare single-character entity
// lookalikes are neutralized, and angle brackets are escaped.
func escapeEntityText(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '&' {
			b.WriteByte(c)
			continue
		}
		rest := s[i+1:]
		if strings.HasPrefix(rest, "#") || (len(rest) >= 2 && isWordByte(rest[0]) && isWordByte(rest[1])) {
			b.WriteByte(c)
			continue
		}
		b.WriteString("&amp;")
	}
	out := singleCharEntityRe.ReplaceAllString(b.String(), "&amp;$1")
	out = strings.ReplaceAll(out, "<", "&lt;")
	out = strings.ReplaceAll(out, ">", "&gt;")
	return out
}

func isWordByte(c byte) bool {
	return c == '_' ||
		(c >= '0' && c <= '9') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= 'a' && c <= 'z')
}

// fixEntities re-escapes every text node in the subtree. The serializer
// emits text data verbatim, so this pass is what guarantees well-formed
// character data in the output.
func fixEntities(mainCell *html.Node) {
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				c.Data = escapeEntityText(c.Data)
			}
			walk(c)
		}
	}
	walk(mainCell)
}

// fixImageStyle converts presentational image attributes into styles
// and guarantees an alt attribute is present.
func fixImageStyle(img *html.Node) {
	if _, ok := attr(img, "alt"); !ok {
		setAttr(img, "alt", "")
	}
	attrToCSS(img, "align", "float:{0}")
	attrToCSS(img, "border", "")
	attrToCSS(img, "hspace", "margin-left:{0};margin-right:{0}")
	attrToCSS(img, "vspace", "margin-top:{0};margin-bottom:{0}")
}
