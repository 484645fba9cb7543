package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dgallion1/htmlsplit/internal/output"
	"github.com/dgallion1/htmlsplit/internal/parser"
	"github.com/dgallion1/htmlsplit/internal/split"
	"github.com/go-chi/chi/v5/middleware"
)

type splitResponse struct {
	Total    int               `json:"total"`
	Parts    []output.Document `json:"parts"`
	TOC      *output.Document  `json:"toc,omitempty"`
	Sections []sectionInfo     `json:"sections"`
	Canceled bool              `json:"canceled,omitempty"`
}

type sectionInfo struct {
	Level  int    `json:"level"`
	Title  string `json:"title"`
	Href   string `json:"href"`
	Anchor string `json:"anchor"`
	File   string `json:"file"`
}

func (s *Server) handleSplit(w http.ResponseWriter, r *http.Request) {
	// Limit total request size.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return
	}

	opts, err := s.splitOptions(r)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	log := s.log.With("request_id", middleware.GetReqID(r.Context()), "filename", filename)

	doc, err := parser.ForFile(filename, s.cfg.ParserOptions()).Parse(bytes.NewReader(data), filename)
	if err != nil {
		log.Warn("parse failed", "error", err)
		jsonError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	sink := output.NewMemorySink()
	res, err := split.New(opts, sink, log).Run(r.Context(), doc)
	switch {
	case errors.Is(err, split.ErrInvalidSelector):
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	case err != nil:
		log.Error("split failed", "error", err)
		jsonError(w, "split failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	resp := splitResponse{
		Total:    res.Total,
		Parts:    []output.Document{},
		Sections: []sectionInfo{},
		Canceled: res.Canceled,
	}
	for _, d := range sink.Documents {
		if d.Name == split.TOCName {
			toc := d
			resp.TOC = &toc
			continue
		}
		resp.Parts = append(resp.Parts, d)
	}
	for _, sec := range res.Sections {
		resp.Sections = append(resp.Sections, sectionInfo{
			Level:  sec.Level,
			Title:  sec.Title(),
			Href:   sec.Href(),
			Anchor: sec.Anchor,
			File:   sec.File,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// splitOptions starts from the server configuration and applies the optional
// form overrides.
func (s *Server) splitOptions(r *http.Request) (split.Options, error) {
	opts := s.cfg.SplitOptions()

	if v := r.FormValue("xpath"); v != "" {
		opts.Selector = v
	}
	if v := r.FormValue("toc_title"); v != "" {
		opts.TOCTitle = v
	}
	if v := r.FormValue("toc_depth"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 || n > 6 {
			return opts, fmt.Errorf("toc_depth must be between 0 and 6, got %q", v)
		}
		opts.TOCDepth = n
	}
	if v := r.FormValue("part"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return opts, fmt.Errorf("part must be a non-negative integer, got %q", v)
		}
		opts.Part = n
	}
	if v := r.FormValue("interlink"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, fmt.Errorf("interlink must be a boolean, got %q", v)
		}
		opts.Interlink = b
	}
	if v := r.FormValue("sanitize_toc"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, fmt.Errorf("sanitize_toc must be a boolean, got %q", v)
		}
		opts.SanitizeTOC = b
	}
	return opts, nil
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	// Remove any path separators that might have survived.
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
