package split

import (
	"sort"

	"github.com/antchfx/htmlquery"
	"github.com/antchfx/xpath"
	"golang.org/x/net/html"
)

// DefaultSelector selects every top-level heading.
const DefaultSelector = "//h1"

// Selector is a compiled split-point expression.
type Selector struct {
	expr     string
	compiled *xpath.Expr
}

// CompileSelector compiles an XPath expression. Compilation failures wrap
// ErrInvalidSelector.
func CompileSelector(expr string) (*Selector, error) {
	compiled, err := xpath.Compile(expr)
	if err != nil {
		return nil, &SelectorError{Expr: expr, Err: err}
	}
	return &Selector{expr: expr, compiled: compiled}, nil
}

// String returns the source expression.
func (s *Selector) String() string {
	return s.expr
}

// Select evaluates the selector against doc and returns the matched elements
// in document order, whatever order the expression produced them in. An
// expression yielding a number, string or boolean is not a node-set and is
// reported as ErrInvalidSelector; an empty node-set is a valid, empty result.
// Matches that are not elements (attributes, text, comments) cannot be split
// on; they are counted in dropped and left out.
func (s *Selector) Select(doc *html.Node) (matches []*html.Node, dropped int, err error) {
	res := s.compiled.Evaluate(htmlquery.CreateXPathNavigator(doc))
	iter, ok := res.(*xpath.NodeIterator)
	if !ok {
		return nil, 0, &SelectorError{Expr: s.expr}
	}

	seen := make(map[*html.Node]bool)
	for iter.MoveNext() {
		nav, ok := iter.Current().(*htmlquery.NodeNavigator)
		if !ok || nav.NodeType() != xpath.ElementNode {
			dropped++
			continue
		}
		n := nav.Current()
		if seen[n] {
			continue
		}
		seen[n] = true
		matches = append(matches, n)
	}

	if len(matches) > 1 {
		order := documentOrder(doc)
		sort.SliceStable(matches, func(i, j int) bool {
			return order[matches[i]] < order[matches[j]]
		})
	}
	return matches, dropped, nil
}

// documentOrder numbers every node of doc in pre-order.
func documentOrder(doc *html.Node) map[*html.Node]int {
	order := make(map[*html.Node]int)
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		order[n] = len(order)
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return order
}
