// Package split cuts an HTML document into parts at split points, optionally
// linking neighbouring parts and building a table of contents.
//
// Parts are produced by temporarily detaching everything outside the current
// range from the live tree, writing the document, and putting the detached
// nodes back. After Run returns the tree renders exactly as it did before.
package split

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
)

// Sink receives every generated document. Documents are only valid for the
// duration of the call: the tree is restored right after it returns.
type Sink interface {
	WritePart(name string, doc *html.Node) error
}

// Options controls a split run.
type Options struct {
	Selector    string // XPath expression selecting the split points
	Part        int    // only write this part; negative writes all
	Interlink   bool   // add prev/next navigation to each part
	TOCDepth    int    // deepest heading level in the ToC; 0 disables it
	TOCTitle    string
	SanitizeTOC bool // strip links and block markup from ToC entries
}

// DefaultOptions returns the settings used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Selector: DefaultSelector,
		Part:     -1,
		TOCDepth: 1,
		TOCTitle: DefaultTOCTitle,
	}
}

// Result summarizes a run.
type Result struct {
	Total    int       // number of split points; the document has Total+1 parts
	Written  []string  // names handed to the sink, in order
	Sections []Section // headings collected for the ToC
	Canceled bool      // ctx was done before every part was written
}

// Splitter runs the split loop over one document at a time.
type Splitter struct {
	opts   Options
	sink   Sink
	log    *slog.Logger
	policy *bluemonday.Policy

	store    nodeStore
	sections []Section
}

// New creates a Splitter writing to sink.
func New(opts Options, sink Sink, log *slog.Logger) *Splitter {
	if opts.Selector == "" {
		opts.Selector = DefaultSelector
	}
	if opts.TOCTitle == "" {
		opts.TOCTitle = DefaultTOCTitle
	}
	s := &Splitter{
		opts: opts,
		sink: sink,
		log:  log,
	}
	if opts.SanitizeTOC {
		s.policy = tocEntryPolicy()
	}
	s.store.log = log
	return s
}

// Run splits doc and hands every part to the sink. Cancellation is checked
// between parts only; a part that has started is always written and the tree
// restored before Run looks at ctx again. A canceled run is not an error.
func (s *Splitter) Run(ctx context.Context, doc *html.Node) (*Result, error) {
	sel, err := CompileSelector(s.opts.Selector)
	if err != nil {
		return nil, err
	}
	points, dropped, err := sel.Select(doc)
	if err != nil {
		return nil, err
	}
	if dropped > 0 {
		s.log.Warn("selector matched nodes that are not elements, ignoring them", "ignored", dropped, "selector", sel.String())
	}

	total := len(points)
	s.log.Info("found split points", "count", total, "selector", sel.String())
	checkSharedParent(s.log, points)

	if s.opts.Part > total {
		s.log.Warn("requested part does not exist", "part", s.opts.Part, "parts", total+1)
	}

	s.sections = nil
	defer s.store.release()

	res := &Result{Total: total}
	for i := 0; i <= total; i++ {
		if err := ctx.Err(); err != nil {
			s.log.Info("termination requested, stopping before part", "part", i)
			res.Canceled = true
			break
		}
		if s.opts.Part >= 0 && i != s.opts.Part {
			continue
		}

		name := PartName(i)
		if err := s.writePart(doc, points, i, name); err != nil {
			res.Sections = s.sections
			return res, err
		}
		res.Written = append(res.Written, name)
	}
	res.Sections = s.sections

	if s.opts.TOCDepth <= 0 || res.Canceled {
		return res, nil
	}
	if s.opts.Part >= 0 {
		s.log.Debug("single part requested, skipping table of contents")
		return res, nil
	}

	toc, err := s.renderTOC(doc, points)
	if err != nil {
		return res, err
	}
	if err := s.sink.WritePart(TOCName, toc); err != nil {
		return res, fmt.Errorf("write %s: %w", TOCName, err)
	}
	res.Written = append(res.Written, TOCName)
	return res, nil
}

// writePart isolates part i, writes it and restores the tree. The tree is
// restored even when the sink fails.
func (s *Splitter) writePart(doc *html.Node, points []*html.Node, i int, name string) error {
	if !s.store.empty() {
		return fmt.Errorf("part %d: detached node store not empty", i)
	}

	var start, end, parent *html.Node
	if i > 0 {
		start = points[i-1]
		parent = start.Parent
	}
	if i < len(points) {
		end = points[i]
		parent = end.Parent
	}

	s.store.slicePreceding(start)
	s.store.sliceFollowing(end)

	if s.opts.TOCDepth > 0 {
		s.collectSections(doc, i)
	}

	var links *html.Node
	if s.opts.Interlink {
		links = s.addInterlinks(parent, i, len(points))
	}

	s.log.Debug("writing part", "part", i, "name", name)
	werr := s.sink.WritePart(name, doc)

	s.removeInterlinks(links)
	s.store.reinsertPreceding(start)
	s.store.reinsertFollowing(parent)

	if werr != nil {
		return fmt.Errorf("write %s: %w", name, werr)
	}
	return nil
}

// checkSharedParent warns when split points do not share one parent. Parts
// are still produced, but their content is unlikely to be what was intended.
func checkSharedParent(log *slog.Logger, points []*html.Node) {
	if len(points) == 0 {
		return
	}
	parent := points[0].Parent
	for _, p := range points[1:] {
		if p.Parent != parent {
			log.Warn("split points do not share a common parent", "first", parent.Data, "other", p.Parent.Data)
			return
		}
	}
}
