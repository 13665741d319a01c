// Command resumeparse extracts candidate fields from resume files and prints
// one JSON record per file. Nothing is stored.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/spf13/pflag"

	"alfredoptarigan/resume-parser/internal/config"
	"alfredoptarigan/resume-parser/internal/logger"
	"alfredoptarigan/resume-parser/internal/parser"
	"alfredoptarigan/resume-parser/internal/services"
)

type options struct {
	gazetteer       string
	headerWindow    int
	caseInsensitive bool
	unknownName     string
	ner             string
	names           []string
	timeout         time.Duration
	logLevel        string
}

// output is one line of the JSON stream.
type output struct {
	File   string         `json:"file"`
	Record *parser.Record `json:"record,omitempty"`
	Error  string         `json:"error,omitempty"`
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	var opts options

	fs := pflag.NewFlagSet("resumeparse", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVarP(&opts.gazetteer, "gazetteer", "g", "", "YAML file with skills and education_keywords")
	fs.IntVarP(&opts.headerWindow, "header-window", "w", 0, "Restrict name detection to the first N characters of page one (0 = whole text)")
	fs.Lookup("header-window").NoOptDefVal = strconv.Itoa(parser.DefaultHeaderWindow)
	fs.BoolVarP(&opts.caseInsensitive, "case-insensitive", "i", false, "Match skills ignoring case")
	fs.StringVar(&opts.unknownName, "unknown-name", "", "Name to report when none is found")
	fs.StringVar(&opts.ner, "ner", services.NERBackendProse, "Entity recognizer: prose, gemini or none")
	fs.StringSliceVar(&opts.names, "names", nil, "Recognize exactly these person names instead of running a model")
	fs.DurationVar(&opts.timeout, "timeout", 0, "Per-file extraction deadline (0 = none)")
	fs.StringVar(&opts.logLevel, "log-level", "warn", "Log level")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: resumeparse [flags] FILE...")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	logger.Init(logger.Config{Level: opts.logLevel, Format: "pretty", Output: stderr})

	ctx := context.Background()
	fields, err := buildFieldExtractor(ctx, opts)
	if err != nil {
		fmt.Fprintf(stderr, "resumeparse: %v\n", err)
		return 1
	}
	extractor := parser.NewTextExtractor(parser.WithTimeout(opts.timeout))

	enc := json.NewEncoder(stdout)
	failed := false
	for _, path := range fs.Args() {
		out := output{File: path}
		fileCtx := logger.WithContext(ctx, logger.With().Str("file", path).Logger())

		declared := parser.DeclaredTypeFromFilename(path)
		pages, err := extractor.ExtractPages(fileCtx, path, declared)
		if err != nil {
			failed = true
			out.Error = err.Error()
			fmt.Fprintf(stderr, "resumeparse: %v\n", err)
		} else {
			if !declared.Supported() {
				fmt.Fprintf(stderr, "resumeparse: %s: unsupported file type, no text extracted\n", path)
			}
			out.Record = fields.ParsePages(fileCtx, pages)
		}

		if err := enc.Encode(out); err != nil {
			fmt.Fprintf(stderr, "resumeparse: %v\n", err)
			return 1
		}
	}

	if failed {
		return 1
	}
	return 0
}

func buildFieldExtractor(ctx context.Context, opts options) (parser.FieldExtractor, error) {
	cfg := &config.Config{
		Parser: config.ParserConfig{
			GazetteerPath:         opts.gazetteer,
			HeaderWindow:          opts.headerWindow,
			CaseInsensitiveSkills: opts.caseInsensitive,
			UnknownName:           opts.unknownName,
			NERBackend:            opts.ner,
		},
	}

	if len(opts.names) == 0 {
		if opts.ner == services.NERBackendGemini {
			loaded := config.Load()
			cfg.Gemini = loaded.Gemini
		}
		return services.BuildFieldExtractor(ctx, cfg)
	}

	gazetteer := parser.DefaultGazetteer()
	if opts.gazetteer != "" {
		g, err := parser.LoadGazetteer(opts.gazetteer)
		if err != nil {
			return nil, err
		}
		gazetteer = g
	}
	return parser.NewFieldExtractor(parser.StaticRecognizer{Names: opts.names}, gazetteer, parser.Options{
		HeaderWindow:          opts.headerWindow,
		CaseInsensitiveSkills: opts.caseInsensitive,
		UnknownName:           opts.unknownName,
	}), nil
}
