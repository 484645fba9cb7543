package parser

import (
	"bytes"
	"fmt"
	"io"

	"github.com/yuin/goldmark"
	gmparser "github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"golang.org/x/net/html"
)

// MarkdownParser handles Markdown files using goldmark. Headings get
// generated ids so they can be linked from the table of contents.
type MarkdownParser struct {
	Encoding string
}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*html.Node, error) {
	r, err := decode(r, p.Encoding)
	if err != nil {
		return nil, err
	}
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New(
		goldmark.WithParserOptions(gmparser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
	)
	var buf bytes.Buffer
	if err := md.Convert(src, &buf); err != nil {
		return nil, fmt.Errorf("%w: convert markdown: %w", ErrParse, err)
	}

	doc, body := newDocument(titleFromFilename(filename, ".md", ".markdown"))
	nodes, err := html.ParseFragment(&buf, body)
	if err != nil {
		return nil, fmt.Errorf("%w: parse rendered markdown: %w", ErrParse, err)
	}
	for _, n := range nodes {
		body.AppendChild(n)
	}
	return doc, nil
}
