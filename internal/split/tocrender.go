package split

import (
	"fmt"
	"strings"

	"github.com/dgallion1/htmlsplit/internal/dom"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// TOCName is the output name of the table of contents.
const TOCName = "toc.html"

// DefaultTOCTitle is the heading of the generated table of contents.
const DefaultTOCTitle = "Table of Contents"

// tocEntryPolicy keeps inline formatting and drops links and block markup.
func tocEntryPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("abbr", "b", "bdi", "bdo", "cite", "code", "del", "dfn", "em",
		"i", "ins", "kbd", "mark", "q", "s", "samp", "small", "span", "strong",
		"sub", "sup", "time", "u", "var", "wbr")
	p.AllowAttrs("lang", "dir", "title").Globally()
	return p
}

// renderTOC builds the table of contents document. The live document is not
// touched: a copy is stripped down to its shell (everything outside the
// common parent of the split points) and the list is added there.
func (s *Splitter) renderTOC(doc *html.Node, points []*html.Node) (*html.Node, error) {
	s.log.Debug("generating table of contents", "sections", len(s.sections))

	var parent *html.Node
	if len(points) > 0 {
		parent = points[0].Parent
	} else if body := dom.FindElement(doc, atom.Body); body != nil {
		parent = body
	} else {
		parent = doc
	}

	shell := dom.Clone(doc)
	target := dom.Follow(shell, dom.PathOf(parent))
	if target == nil {
		return nil, fmt.Errorf("locate split point parent in document copy")
	}
	dom.RemoveChildren(target)

	box := dom.AppendElement(target, "div", "class", TOCClass)
	dom.AppendElement(box, "h1").AppendChild(dom.Text(s.opts.TOCTitle))
	list := dom.AppendElement(box, "ul")

	level := 1
	for _, sec := range s.sections {
		if sec.Level > s.opts.TOCDepth {
			s.log.Debug("section below toc depth", "title", sec.Title(), "level", sec.Level, "depth", s.opts.TOCDepth)
			continue
		}

		// Close lists: ul -> li -> ul.
		for ; level > sec.Level; level-- {
			s.log.Debug("closing toc level", "level", level)
			list = list.Parent.Parent
		}
		for ; level < sec.Level; level++ {
			s.log.Debug("opening toc level", "level", level+1)
			li := dom.AppendElement(list, "li")
			list = dom.AppendElement(li, "ul")
		}

		content, err := s.entryContent(sec)
		if err != nil {
			return nil, fmt.Errorf("toc entry %q: %w", sec.Anchor, err)
		}

		s.log.Debug("adding toc entry", "title", sec.Title(), "section_level", sec.Level, "level", level)
		a := dom.AppendElement(dom.AppendElement(list, "li"), "a", "href", sec.Href())
		for _, n := range content {
			a.AppendChild(n)
		}
	}

	return shell, nil
}

// entryContent returns fresh copies of the section content, sanitized when
// configured.
func (s *Splitter) entryContent(sec Section) ([]*html.Node, error) {
	nodes := make([]*html.Node, 0, len(sec.Content))
	for _, n := range sec.Content {
		nodes = append(nodes, dom.Clone(n))
	}
	if s.policy == nil {
		return nodes, nil
	}

	var buf strings.Builder
	for _, n := range nodes {
		if err := html.Render(&buf, n); err != nil {
			return nil, err
		}
	}
	clean := s.policy.Sanitize(buf.String())
	return html.ParseFragment(strings.NewReader(clean), dom.Element("a"))
}
