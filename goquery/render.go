package goquery

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// voidElements must render self-closing in XHTML output.
var voidElements = map[atom.Atom]bool{
	atom.Area: true, atom.Base: true, atom.Br: true, atom.Col: true,
	atom.Embed: true, atom.Hr: true, atom.Img: true, atom.Input: true,
	atom.Link: true, atom.Meta: true, atom.Source: true, atom.Wbr: true,
}

// RenderChildren serializes the children of n as an XHTML fragment.
//
// Text node data is emitted verbatim — the entity-escaping pass owns
// character-data correctness — except that non-ASCII runes become
// numeric character references, keeping the output pure ASCII. The
// serializer is not paragraph-structure-aware; paragraph boundaries are
// reconstructed textually by the postprocessor.
func RenderChildren(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		renderNode(&b, c)
	}
	return b.String()
}

// RenderNode serializes a single node as an XHTML fragment.
func RenderNode(n *html.Node) string {
	var b strings.Builder
	renderNode(&b, n)
	return b.String()
}

func renderNode(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		writeASCII(b, n.Data)
	case html.ElementNode:
		b.WriteByte('<')
		b.WriteString(n.Data)
		for _, a := range n.Attr {
			b.WriteByte(' ')
			b.WriteString(a.Key)
			b.WriteString(`="`)
			writeAttrValue(b, a.Val)
			b.WriteByte('"')
		}
		if voidElements[n.DataAtom] && n.FirstChild == nil {
			b.WriteString(" />")
			return
		}
		b.WriteByte('>')
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			renderNode(b, c)
		}
		b.WriteString("</")
		b.WriteString(n.Data)
		b.WriteByte('>')
	case html.DocumentNode:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			renderNode(b, c)
		}
	case html.CommentNode:
		// Comments were extracted by the preprocessor; any stragglers
		// are dropped.
	case html.RawNode:
		b.WriteString(n.Data)
	}
}

// writeASCII emits s with non-ASCII runes as numeric character
// references.
func writeASCII(b *strings.Builder, s string) {
	for _, r := range s {
		if r < 128 {
			b.WriteRune(r)
		} else {
			fmt.Fprintf(b, "&#%d;", r)
		}
	}
}

// writeAttrValue emits an attribute value with markup metacharacters
// escaped and non-ASCII runes as numeric character references.
func writeAttrValue(b *strings.Builder, s string) {
	for _, r := range s {
		switch {
		case r == '&':
			b.WriteString("&amp;")
		case r == '<':
			b.WriteString("&lt;")
		case r == '>':
			b.WriteString("&gt;")
		case r == '"':
			b.WriteString("&quot;")
		case r < 128:
			b.WriteRune(r)
		default:
			fmt.Fprintf(b, "&#%d;", r)
		}
	}
}
