package goquery

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Node-level helpers for the tree surgery the classifier and normalizer
// perform. goquery selections are convenient for queries, but the
// sibling splicing and node replacement here is clearer on raw
// x/net/html nodes.

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func attrVal(n *html.Node, key string) string {
	v, _ := attr(n, key)
	return v
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func removeAttr(n *html.Node, key string) {
	for i, a := range n.Attr {
		if a.Key == key {
			n.Attr = append(n.Attr[:i], n.Attr[i+1:]...)
			return
		}
	}
}

// intAttr parses a numeric attribute, treating absent or malformed
// values as zero.
func intAttr(n *html.Node, key string) int {
	v, ok := attr(n, key)
	if !ok {
		return 0
	}
	i, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0
	}
	return i
}

func isElem(n *html.Node, a atom.Atom) bool {
	return n != nil && n.Type == html.ElementNode && n.DataAtom == a
}

func detach(n *html.Node) {
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// moveChild detaches n from wherever it is and appends it to parent.
func moveChild(parent, n *html.Node) {
	detach(n)
	parent.AppendChild(n)
}

// replaceNode puts repl in old's place. old is detached; there is no
// aliasing between the two afterwards.
func replaceNode(old, repl *html.Node) {
	parent := old.Parent
	detach(repl)
	parent.InsertBefore(repl, old)
	parent.RemoveChild(old)
}

// replaceWithChildren promotes n's children into its place and removes n.
func replaceWithChildren(n *html.Node) {
	parent := n.Parent
	for c := n.FirstChild; c != nil; c = n.FirstChild {
		n.RemoveChild(c)
		parent.InsertBefore(c, n)
	}
	parent.RemoveChild(n)
}

// findAll returns the depth-first descendants of n matching any of the
// given element kinds. The result is a snapshot: mutating the tree
// afterwards does not invalidate it.
func findAll(n *html.Node, atoms ...atom.Atom) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(m *html.Node) {
		for c := m.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode {
				for _, a := range atoms {
					if c.DataAtom == a {
						out = append(out, c)
						break
					}
				}
			}
			walk(c)
		}
	}
	walk(n)
	return out
}

// findFirst returns the first depth-first descendant matching pred.
func findFirst(n *html.Node, pred func(*html.Node) bool) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if pred(c) {
			return c
		}
		if found := findFirst(c, pred); found != nil {
			return found
		}
	}
	return nil
}

// text returns the concatenated text content of n's subtree, with sep
// between adjacent text runs.
func text(n *html.Node, sep string) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(m *html.Node) {
		for c := m.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				parts = append(parts, c.Data)
			}
			walk(c)
		}
	}
	walk(n)
	return strings.Join(parts, sep)
}

func newElem(name string, attrs ...html.Attribute) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		Data:     name,
		DataAtom: atom.Lookup([]byte(name)),
		Attr:     attrs,
	}
}

func newText(data string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: data}
}

// tableRows returns the direct rows of a table, looking through row
// groups but not into nested tables.
func tableRows(table *html.Node) []*html.Node {
	var rows []*html.Node
	for c := table.FirstChild; c != nil; c = c.NextSibling {
		switch {
		case isElem(c, atom.Tr):
			rows = append(rows, c)
		case isElem(c, atom.Tbody) || isElem(c, atom.Thead) || isElem(c, atom.Tfoot):
			for r := c.FirstChild; r != nil; r = r.NextSibling {
				if isElem(r, atom.Tr) {
					rows = append(rows, r)
				}
			}
		}
	}
	return rows
}
