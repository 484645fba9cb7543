package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/dgallion1/htmlsplit/internal/output"
	"github.com/dgallion1/htmlsplit/internal/parser"
	"github.com/dgallion1/htmlsplit/internal/split"
	"golang.org/x/text/encoding/htmlindex"
	"gopkg.in/yaml.v3"
)

type Config struct {
	// Input and output
	Input         string `yaml:"input"`
	InputEncoding string `yaml:"input_encoding"`
	OutputDir     string `yaml:"output_dir"`
	Separator     string `yaml:"separator"`

	// Splitting
	Selector  string `yaml:"xpath"`
	Part      int    `yaml:"part"`
	Interlink bool   `yaml:"interlink"`

	// Table of contents
	TOCDepth    int    `yaml:"toc_depth"`
	TOCTitle    string `yaml:"toc_title"`
	SanitizeTOC bool   `yaml:"sanitize_toc"`

	// Logging
	Verbose  bool   `yaml:"verbose"`
	Quiet    bool   `yaml:"quiet"`
	LogLevel string `yaml:"log_level"`

	// HTTP service
	Port           string `yaml:"port"`
	APIKey         string `yaml:"api_key"`
	MaxUploadBytes int64  `yaml:"max_upload_bytes"`

	// PDF
	PDFFallbackPdftotext bool `yaml:"pdf_fallback_pdftotext"`
}

func Load() Config {
	cfg := Config{
		InputEncoding: os.Getenv("HTMLSPLIT_INPUT_ENCODING"),
		Separator:     envOr("HTMLSPLIT_SEPARATOR", output.DefaultSeparator),

		Selector:  envOr("HTMLSPLIT_XPATH", split.DefaultSelector),
		Part:      -1,
		Interlink: envBool("HTMLSPLIT_INTERLINK", false),

		TOCDepth:    envInt("HTMLSPLIT_TOC_DEPTH", 1),
		TOCTitle:    envOr("HTMLSPLIT_TOC_TITLE", split.DefaultTOCTitle),
		SanitizeTOC: envBool("HTMLSPLIT_SANITIZE_TOC", false),

		LogLevel: envOr("LOG_LEVEL", "info"),

		Port:   envOr("PORT", "8090"),
		APIKey: os.Getenv("HTMLSPLIT_API_KEY"),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),
	}

	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}

	return cfg
}

// LoadFile overlays the settings found in a YAML file onto c. Keys missing
// from the file keep their current value. A file that cannot be read is
// reported as output.ErrIO.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: read config: %w", output.ErrIO, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func (c Config) Validate() error {
	if c.Selector == "" {
		return fmt.Errorf("split xpath must not be empty")
	}
	if c.Separator == "" {
		return fmt.Errorf("stdout separator must not be empty")
	}
	if c.Part < -1 {
		return fmt.Errorf("part must be a non-negative index, got %d", c.Part)
	}
	if c.TOCDepth < 0 || c.TOCDepth > 6 {
		return fmt.Errorf("toc depth must be between 0 and 6, got %d", c.TOCDepth)
	}
	if c.InputEncoding != "" {
		if _, err := htmlindex.Get(c.InputEncoding); err != nil {
			return fmt.Errorf("unknown input encoding %q", c.InputEncoding)
		}
	}
	return nil
}

// ParserOptions returns the input conversion settings.
func (c Config) ParserOptions() parser.Options {
	return parser.Options{
		Encoding:             c.InputEncoding,
		PDFFallbackPdftotext: c.PDFFallbackPdftotext,
	}
}

// SplitOptions returns the splitter settings.
func (c Config) SplitOptions() split.Options {
	return split.Options{
		Selector:    c.Selector,
		Part:        c.Part,
		Interlink:   c.Interlink,
		TOCDepth:    c.TOCDepth,
		TOCTitle:    c.TOCTitle,
		SanitizeTOC: c.SanitizeTOC,
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
