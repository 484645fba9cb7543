package parser

import (
	"fmt"
	"io"

	"golang.org/x/net/html"
)

// HTMLParser handles HTML files.
type HTMLParser struct {
	Encoding string
}

func (p *HTMLParser) Parse(r io.Reader, filename string) (*html.Node, error) {
	r, err := decode(r, p.Encoding)
	if err != nil {
		return nil, err
	}
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%w: parse html: %w", ErrParse, err)
	}
	return doc, nil
}
