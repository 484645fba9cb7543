package parser

import (
	"io"

	"golang.org/x/net/html"
)

// TextParser handles plain text files. Every paragraph becomes a <p>.
type TextParser struct {
	Encoding string
}

func (p *TextParser) Parse(r io.Reader, filename string) (*html.Node, error) {
	r, err := decode(r, p.Encoding)
	if err != nil {
		return nil, err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	doc, body := newDocument(titleFromFilename(filename, ".txt"))
	appendParagraphs(body, string(data))
	return doc, nil
}
