package split

import (
	"strings"

	"github.com/dgallion1/htmlsplit/internal/dom"
	"golang.org/x/net/html"
)

// Section is one heading collected for the table of contents.
type Section struct {
	Level   int          // 1..6, from the heading tag
	Anchor  string       // fragment identifier the ToC links to
	File    string       // part filename the heading ended up in
	Content []*html.Node // detached deep copy of the heading content
}

// Href is the ToC link target, file#anchor.
func (s Section) Href() string {
	return s.File + "#" + s.Anchor
}

// Title returns the plain text of the section content.
func (s Section) Title() string {
	var parts []string
	for _, n := range s.Content {
		parts = append(parts, dom.TextContent(n))
	}
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}

// collectSections records every linkable heading left in the currently sliced
// document as belonging to part.
func (s *Splitter) collectSections(doc *html.Node, part int) {
	var headings []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if dom.HeadingLevel(n) > 0 {
			headings = append(headings, n)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	log := s.log.With("part", part)
	log.Debug("collecting toc info", "headings", len(headings))

	file := PartName(part)
	for _, h := range headings {
		anchor, via := resolveAnchor(h)
		if anchor == "" {
			log.Debug("heading has no anchor, not linkable", "tag", h.Data, "text", dom.TextContent(h))
			continue
		}

		content, err := headingContent(h, via)
		if err != nil {
			log.Warn("skipping heading", "anchor", anchor, "error", err)
			continue
		}

		s.sections = append(s.sections, Section{
			Level:   dom.HeadingLevel(h),
			Anchor:  anchor,
			File:    file,
			Content: content,
		})
	}
}

// resolveAnchor finds the fragment identifier of a heading. In order of
// priority: its own id, a name on its first child element, a name on the
// previous element sibling, a name on the next element sibling. via is the
// child element that supplied the anchor, if any.
func resolveAnchor(h *html.Node) (anchor string, via *html.Node) {
	if id := dom.Attr(h, "id"); id != "" {
		return id, nil
	}
	if first := dom.FirstElementChild(h); first != nil {
		if name := dom.Attr(first, "name"); name != "" {
			return name, first
		}
	}
	if prev := dom.PrevElementSibling(h); prev != nil {
		if name := dom.Attr(prev, "name"); name != "" {
			return name, nil
		}
	}
	if next := dom.NextElementSibling(h); next != nil {
		if name := dom.Attr(next, "name"); name != "" {
			return name, nil
		}
	}
	return "", nil
}

// headingContent deep-copies the children of h. The anchor child via, when
// set, contributes only its text so the ToC link does not wrap another link.
func headingContent(h *html.Node, via *html.Node) ([]*html.Node, error) {
	if h.FirstChild == nil {
		return nil, errEmptyHeading
	}

	var out []*html.Node
	for c := h.FirstChild; c != nil; c = c.NextSibling {
		if c == via {
			if text := dom.TextContent(c); text != "" {
				out = append(out, dom.Text(text))
			}
			continue
		}
		out = append(out, dom.Clone(c))
	}

	for _, n := range out {
		if n.Type == html.ElementNode || strings.TrimSpace(dom.TextContent(n)) != "" {
			return out, nil
		}
	}
	return nil, errEmptyHeading
}
