package split

import (
	"fmt"

	"github.com/dgallion1/htmlsplit/internal/dom"
	"golang.org/x/net/html"
)

// Class names of the generated blocks, so stylesheets can target them.
const (
	InterlinkClass = "htmlsplit-interlinks"
	TOCClass       = "htmlsplit-toc"
)

// PartName returns the output filename of part i.
func PartName(i int) string {
	return fmt.Sprintf("%04d.html", i)
}

// addInterlinks appends a navigation block with links to the neighbouring
// parts as the last child of parent and returns it. A nil parent means the
// document has a single part; nothing is added.
func (s *Splitter) addInterlinks(parent *html.Node, i, total int) *html.Node {
	if parent == nil {
		return nil
	}
	s.log.Debug("adding interlinks", "part", i)

	div := dom.AppendElement(parent, "div", "class", InterlinkClass)
	ul := dom.AppendElement(div, "ul")

	if i > 0 {
		li := dom.AppendElement(ul, "li")
		a := dom.AppendElement(li, "a", "href", PartName(i-1), "rel", "prev")
		a.AppendChild(dom.Text("←"))
	}
	if i < total {
		li := dom.AppendElement(ul, "li")
		a := dom.AppendElement(li, "a", "href", PartName(i+1), "rel", "next")
		a.AppendChild(dom.Text("→"))
	}
	return div
}

// removeInterlinks drops a block created by addInterlinks.
func (s *Splitter) removeInterlinks(block *html.Node) {
	if block == nil {
		return
	}
	s.log.Debug("removing interlinks")
	dom.Detach(block)
}
