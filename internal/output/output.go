// Package output provides the destinations split documents are written to.
package output

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dgallion1/htmlsplit/internal/dom"
	"golang.org/x/net/html"
)

// DefaultSeparator is written between documents on a stream.
const DefaultSeparator = "<!-- HTMLSPLIT -->"

// ErrIO marks failures to create or write an output.
var ErrIO = errors.New("output i/o failure")

// DirSink writes every document to its own file in a directory.
type DirSink struct {
	dir string
	log *slog.Logger
}

// NewDirSink returns a sink writing into dir. The directory must exist.
func NewDirSink(dir string, log *slog.Logger) *DirSink {
	return &DirSink{dir: dir, log: log}
}

func (s *DirSink) WritePart(name string, doc *html.Node) error {
	path := filepath.Join(s.dir, name)
	s.log.Debug("writing file", "path", path)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	if err := dom.Render(f, doc); err != nil {
		f.Close()
		return fmt.Errorf("%w: render %s: %w", ErrIO, path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	return nil
}

// StreamSink writes all documents to one stream, with a separator line
// between consecutive documents.
type StreamSink struct {
	w         io.Writer
	separator string
	count     int
}

// NewStreamSink returns a sink writing to w. An empty separator selects
// DefaultSeparator.
func NewStreamSink(w io.Writer, separator string) *StreamSink {
	if separator == "" {
		separator = DefaultSeparator
	}
	return &StreamSink{w: w, separator: separator}
}

func (s *StreamSink) WritePart(name string, doc *html.Node) error {
	if s.count > 0 {
		if _, err := io.WriteString(s.w, s.separator+"\n"); err != nil {
			return fmt.Errorf("%w: separator: %w", ErrIO, err)
		}
	}
	if err := dom.Render(s.w, doc); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	if _, err := io.WriteString(s.w, "\n"); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	s.count++
	return nil
}

// Document is one rendered document kept by a MemorySink.
type Document struct {
	Name string `json:"name"`
	HTML string `json:"html"`
}

// MemorySink renders documents into memory, in write order.
type MemorySink struct {
	Documents []Document
}

func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

func (s *MemorySink) WritePart(name string, doc *html.Node) error {
	var buf strings.Builder
	if err := dom.Render(&buf, doc); err != nil {
		return err
	}
	s.Documents = append(s.Documents, Document{Name: name, HTML: buf.String()})
	return nil
}

// Get returns the document called name.
func (s *MemorySink) Get(name string) (Document, bool) {
	for _, d := range s.Documents {
		if d.Name == name {
			return d, true
		}
	}
	return Document{}, false
}
