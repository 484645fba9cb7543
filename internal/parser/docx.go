package parser

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fumiama/go-docx"
	"golang.org/x/net/html"
)

// DOCXParser handles .docx files. Paragraphs with a heading style become
// hN elements, everything else a <p>.
type DOCXParser struct{}

func (p *DOCXParser) Parse(r io.Reader, filename string) (*html.Node, error) {
	// go-docx needs a ReadSeeker+size, so write to temp file.
	tmp, err := os.CreateTemp("", "htmlsplit-docx-*.docx")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	size, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("seek temp file: %w", err)
	}

	d, err := docx.Parse(tmp, size)
	tmp.Close()
	if err != nil {
		return nil, fmt.Errorf("%w: parse docx: %w", ErrParse, err)
	}

	doc, body := newDocument(titleFromFilename(filename, ".docx"))
	section := 0
	for _, item := range d.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		text := docxParagraphText(para)
		if text == "" {
			continue
		}

		if level := docxHeadingLevel(para); level > 0 {
			section++
			appendHeading(body, level, fmt.Sprintf("section-%d", section), text)
			continue
		}
		appendParagraphs(body, text)
	}

	return doc, nil
}

func docxHeadingLevel(para *docx.Paragraph) int {
	if para.Properties == nil || para.Properties.Style == nil {
		return 0
	}
	style := strings.ToLower(strings.ReplaceAll(para.Properties.Style.Val, " ", ""))
	if len(style) == len("heading1") && strings.HasPrefix(style, "heading") {
		if d := style[len(style)-1]; d >= '1' && d <= '6' {
			return int(d - '0')
		}
	}
	return 0
}

func docxParagraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}
