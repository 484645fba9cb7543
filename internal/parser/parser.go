package parser

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dgallion1/htmlsplit/internal/dom"
	"golang.org/x/net/html"
	"golang.org/x/text/encoding/htmlindex"
)

// ErrParse marks input that could not be turned into a document.
var ErrParse = errors.New("document could not be parsed")

// Parser turns raw input into an HTML document tree. Non-HTML formats are
// converted into an equivalent html/head/body document with headings, so the
// splitter can treat every input the same way.
type Parser interface {
	Parse(r io.Reader, filename string) (*html.Node, error)
}

// Options apply to every parser returned by ForFile.
type Options struct {
	Encoding             string // charset label of text input; "" is UTF-8
	PDFFallbackPdftotext bool
}

// ForFile returns the parser for a filename. Markdown, text, CSV, PDF and
// DOCX files are converted by extension; anything else, including standard
// input (empty filename), is read as HTML.
func ForFile(filename string, opts Options) Parser {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".md", ".markdown":
		return &MarkdownParser{Encoding: opts.Encoding}
	case ".txt":
		return &TextParser{Encoding: opts.Encoding}
	case ".csv":
		return &CSVParser{Encoding: opts.Encoding}
	case ".pdf":
		return &PDFParser{FallbackPdftotext: opts.PDFFallbackPdftotext}
	case ".docx":
		return &DOCXParser{}
	default:
		return &HTMLParser{Encoding: opts.Encoding}
	}
}

// decode wraps r so that it yields UTF-8 when the input uses another charset.
func decode(r io.Reader, label string) (io.Reader, error) {
	if label == "" {
		return r, nil
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("%w: input encoding %q: %w", ErrParse, label, err)
	}
	return enc.NewDecoder().Reader(r), nil
}

// newDocument builds an empty html/head/title/body document for converted
// input and returns it with its body.
func newDocument(title string) (doc, body *html.Node) {
	doc = &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})
	root := dom.AppendElement(doc, "html")
	head := dom.AppendElement(root, "head")
	dom.AppendElement(head, "meta", "charset", "utf-8")
	if title != "" {
		dom.AppendElement(head, "title").AppendChild(dom.Text(title))
	}
	body = dom.AppendElement(root, "body")
	return doc, body
}

// appendHeading adds an hN element with an id to parent.
func appendHeading(parent *html.Node, level int, id, text string) {
	h := dom.AppendElement(parent, fmt.Sprintf("h%d", level), "id", id)
	h.AppendChild(dom.Text(text))
}

// appendParagraphs adds one <p> per blank-line separated paragraph of text.
func appendParagraphs(parent *html.Node, text string) {
	for _, para := range splitByParagraphs(text) {
		dom.AppendElement(parent, "p").AppendChild(dom.Text(para))
	}
}

// splitByParagraphs splits on blank lines.
func splitByParagraphs(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var result []string
	var current []string
	flush := func() {
		if len(current) > 0 {
			result = append(result, strings.Join(current, "\n"))
			current = current[:0]
		}
	}
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()
	return result
}

// titleFromFilename strips the directory and the given extensions.
func titleFromFilename(filename string, exts ...string) string {
	name := filepath.Base(filename)
	for _, ext := range exts {
		name = strings.TrimSuffix(name, ext)
	}
	return name
}
