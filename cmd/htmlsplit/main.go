// Command htmlsplit cuts an HTML document into parts at XPath split points.
//
// Usage:
//
//	htmlsplit -i book.html -o out/          # 0000.html, 0001.html, ... toc.html
//	htmlsplit -l -t 2 < book.html           # all parts on stdout, interlinked
//	htmlsplit -i notes.md -x '//h2' -p 3    # only part 3 of a Markdown file
package main

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/dgallion1/htmlsplit/internal/config"
	"github.com/dgallion1/htmlsplit/internal/output"
	"github.com/dgallion1/htmlsplit/internal/parser"
	"github.com/dgallion1/htmlsplit/internal/split"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

const (
	exitOK = iota
	exitUsage
	exitIO
	exitParse
	// exitMemory is reserved: the runtime aborts on allocation failure
	// before any handler runs.
	exitMemory
	exitInternal
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

type flags struct {
	verbose     bool
	showVersion bool
	quiet       bool
	interlink   bool
	sanitize    bool
	input       string
	outputDir   string
	xpath       string
	separator   string
	configPath  string
	encoding    string
	tocTitle    string
	part        int
	tocDepth    int
}

func newFlagSet(f *flags, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("htmlsplit", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.BoolVar(&f.verbose, "v", false, "verbose logging")
	fs.BoolVar(&f.showVersion, "V", false, "print version and copyright, then exit")
	fs.BoolVar(&f.quiet, "q", false, "do not print the startup banner")
	fs.BoolVar(&f.interlink, "l", false, "add prev/next links to every part")
	fs.StringVar(&f.input, "i", "", "input `file` (default: standard input)")
	fs.StringVar(&f.outputDir, "o", "", "output `directory` (default: standard output)")
	fs.StringVar(&f.xpath, "x", split.DefaultSelector, "XPath `expression` selecting the split points")
	fs.StringVar(&f.separator, "s", output.DefaultSeparator, "`separator` between documents on standard output")
	fs.IntVar(&f.part, "p", -1, "only write part `N`")
	fs.IntVar(&f.tocDepth, "t", 1, "table of contents `depth`; 0 disables it")

	fs.StringVar(&f.configPath, "c", "", "YAML config `file`")
	fs.StringVar(&f.encoding, "e", "", "input character `encoding` (default UTF-8)")
	fs.StringVar(&f.tocTitle, "T", split.DefaultTOCTitle, "table of contents `title`")
	fs.BoolVar(&f.sanitize, "S", false, "reduce table of contents entries to inline formatting")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "usage: htmlsplit [options]\n\n")
		fs.PrintDefaults()
	}
	return fs
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var f flags
	fs := newFlagSet(&f, stderr)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(stderr, "htmlsplit: unexpected argument %q\n", fs.Arg(0))
		fs.Usage()
		return exitUsage
	}

	if f.showVersion {
		fmt.Fprintf(stdout, "htmlsplit %s\nCopyright (c) the htmlsplit authors. Distributed under the MIT license.\n", version)
		return exitOK
	}

	cfg, err := buildConfig(fs, &f)
	if err != nil {
		fmt.Fprintf(stderr, "htmlsplit: %v\n", err)
		if errors.Is(err, output.ErrIO) {
			return exitIO
		}
		return exitUsage
	}

	if !cfg.Quiet {
		fmt.Fprintf(stderr, "htmlsplit %s: split HTML documents at XPath split points\n", version)
	}

	level := logLevel(cfg.LogLevel)
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewJSONHandler(stderr, &slog.HandlerOptions{Level: level}))

	if err := splitDocument(ctx, log, cfg, stdin, stdout); err != nil {
		log.Error("htmlsplit: fatal", "error", err)
		return exitCode(err)
	}
	return exitOK
}

// buildConfig layers environment defaults, the optional config file and the
// flags given on the command line, in that order.
func buildConfig(fs *flag.FlagSet, f *flags) (config.Config, error) {
	cfg := config.Load()
	if f.configPath != "" {
		if err := cfg.LoadFile(f.configPath); err != nil {
			return cfg, fmt.Errorf("load config: %w", err)
		}
	}

	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "v":
			cfg.Verbose = f.verbose
		case "q":
			cfg.Quiet = f.quiet
		case "l":
			cfg.Interlink = f.interlink
		case "S":
			cfg.SanitizeTOC = f.sanitize
		case "i":
			cfg.Input = f.input
		case "o":
			cfg.OutputDir = f.outputDir
		case "x":
			cfg.Selector = f.xpath
		case "s":
			cfg.Separator = f.separator
		case "e":
			cfg.InputEncoding = f.encoding
		case "T":
			cfg.TOCTitle = f.tocTitle
		case "p":
			cfg.Part = f.part
		case "t":
			cfg.TOCDepth = f.tocDepth
		}
	})

	return cfg, cfg.Validate()
}

func splitDocument(ctx context.Context, log *slog.Logger, cfg config.Config, stdin io.Reader, stdout io.Writer) error {
	data, err := readInput(cfg.Input, stdin)
	if err != nil {
		return err
	}

	doc, err := parser.ForFile(cfg.Input, cfg.ParserOptions()).Parse(bytes.NewReader(data), cfg.Input)
	if err != nil {
		return err
	}
	log.Debug("parsed input", "input", inputName(cfg.Input), "bytes", len(data))

	var sink split.Sink
	var buffered *bufio.Writer
	if cfg.OutputDir != "" {
		sink = output.NewDirSink(cfg.OutputDir, log)
	} else {
		buffered = bufio.NewWriter(stdout)
		sink = output.NewStreamSink(buffered, cfg.Separator)
	}

	res, err := split.New(cfg.SplitOptions(), sink, log).Run(ctx, doc)
	if buffered != nil {
		if ferr := buffered.Flush(); ferr != nil && err == nil {
			err = fmt.Errorf("%w: flush output: %w", output.ErrIO, ferr)
		}
	}
	if err != nil {
		return err
	}

	log.Info("split finished",
		"split_points", res.Total,
		"written", len(res.Written),
		"sections", len(res.Sections),
		"canceled", res.Canceled,
	)
	return nil
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	var data []byte
	var err error
	if path == "" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", output.ErrIO, inputName(path), err)
	}
	return data, nil
}

func inputName(path string) string {
	if path == "" {
		return "standard input"
	}
	return path
}

func logLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// exitCode maps an error class to the process exit status.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, split.ErrInvalidSelector):
		return exitUsage
	case errors.Is(err, parser.ErrParse):
		return exitParse
	case errors.Is(err, output.ErrIO):
		return exitIO
	default:
		return exitInternal
	}
}
