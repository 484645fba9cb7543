// Package dom holds the tree operations the splitter relies on, layered over
// golang.org/x/net/html nodes.
package dom

import (
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// NextElementSibling returns the next sibling of n that is an element, skipping
// text, comment and other non-element nodes.
func NextElementSibling(n *html.Node) *html.Node {
	for s := n.NextSibling; s != nil; s = s.NextSibling {
		if s.Type == html.ElementNode {
			return s
		}
	}
	return nil
}

// PrevElementSibling is the mirror of NextElementSibling.
func PrevElementSibling(n *html.Node) *html.Node {
	for s := n.PrevSibling; s != nil; s = s.PrevSibling {
		if s.Type == html.ElementNode {
			return s
		}
	}
	return nil
}

// FirstElementChild returns the first child of n that is an element.
func FirstElementChild(n *html.Node) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			return c
		}
	}
	return nil
}

// Detach unlinks n from its parent. The node and its subtree stay intact and
// can be inserted elsewhere later.
func Detach(n *html.Node) {
	if n != nil && n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// Clone returns a deep copy of n. The copy has no parent or siblings.
func Clone(n *html.Node) *html.Node {
	c := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
	}
	if len(n.Attr) > 0 {
		c.Attr = make([]html.Attribute, len(n.Attr))
		copy(c.Attr, n.Attr)
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		c.AppendChild(Clone(child))
	}
	return c
}

// Attr returns the value of the attribute key, or "" when absent.
func Attr(n *html.Node, key string) string {
	if n == nil {
		return ""
	}
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val
		}
	}
	return ""
}

// Element creates a detached element. attrs are key/value pairs.
func Element(tag string, attrs ...string) *html.Node {
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
	for i := 0; i+1 < len(attrs); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: attrs[i], Val: attrs[i+1]})
	}
	return n
}

// Text creates a detached text node.
func Text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// AppendElement creates an element, appends it to parent and returns it.
func AppendElement(parent *html.Node, tag string, attrs ...string) *html.Node {
	n := Element(tag, attrs...)
	parent.AppendChild(n)
	return n
}

// TextContent concatenates all text below n, trimmed.
func TextContent(n *html.Node) string {
	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(buf.String())
}

// HeadingLevel returns 1..6 for h1..h6 elements and 0 for anything else.
func HeadingLevel(n *html.Node) int {
	if n == nil || n.Type != html.ElementNode {
		return 0
	}
	switch n.DataAtom {
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		return int(n.Data[1] - '0')
	}
	return 0
}

// FindElement returns the first element below (or equal to) n with the given
// atom, in document order.
func FindElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := FindElement(c, a); found != nil {
			return found
		}
	}
	return nil
}

// PathOf returns the child indexes leading from the tree root to n. Together
// with Follow it locates the same structural position in a cloned tree.
func PathOf(n *html.Node) []int {
	var path []int
	for ; n.Parent != nil; n = n.Parent {
		idx := 0
		for s := n.PrevSibling; s != nil; s = s.PrevSibling {
			idx++
		}
		path = append(path, idx)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// Follow walks path from root and returns the node it ends on, or nil when
// the tree has a different shape.
func Follow(root *html.Node, path []int) *html.Node {
	n := root
	for _, idx := range path {
		c := n.FirstChild
		for ; c != nil && idx > 0; idx-- {
			c = c.NextSibling
		}
		if c == nil {
			return nil
		}
		n = c
	}
	return n
}

// RemoveChildren detaches every child of n.
func RemoveChildren(n *html.Node) {
	for n.FirstChild != nil {
		n.RemoveChild(n.FirstChild)
	}
}

// Render serializes n to w.
func Render(w io.Writer, n *html.Node) error {
	return html.Render(w, n)
}

// RenderString serializes n and returns the markup.
func RenderString(n *html.Node) (string, error) {
	var buf strings.Builder
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
