// Command translate_docx translates the text of a Word document to
// Persian while preserving structure and inline formatting.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"doc-translator/internal/config"
	"doc-translator/internal/docx"
	"doc-translator/internal/logger"
	"doc-translator/internal/translator"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		output      = flag.String("out", "", "Output .docx path (required).")
		srcLang     = flag.String("src", "", "Source language code (auto, en, fr).")
		tgtLang     = flag.String("tgt", "", "Target language code (default fa).")
		fontFamily  = flag.String("font", "Vazirmatn", "Preferred Persian-capable font family.")
		cachePath   = flag.String("cache", "", "Path to SQLite cache for translations.")
		backend     = flag.String("backend", "", "Translation backend (google or llm).")
		simpleMode  = flag.Bool("simple", false, "Translate run by run instead of using paragraph markers.")
		noInline    = flag.Bool("no-preserve-inline", false, "Disable inline preservation (same as -simple).")
		skipURLs    = flag.Bool("skip-urls", true, "Protect URLs from translation.")
		skipNumeric = flag.Bool("skip-numeric", true, "Skip runs that are mostly numeric or symbols.")
		skipFields  = flag.Bool("skip-fields", true, "Skip field code paragraphs (TOC, PAGE, REF).")
		noHeaders   = flag.Bool("no-headers", false, "Do not translate headers.")
		noFooters   = flag.Bool("no-footers", false, "Do not translate footers.")
		noShapes    = flag.Bool("no-shapes", false, "Do not translate text boxes and shapes.")
		noAgg       = flag.Bool("no-agg", false, "Disable aggregation; translate each paragraph separately.")
		aggMaxChars = flag.Int("agg-max-chars", 0, "Max characters per aggregated request.")
		aggMaxItems = flag.Int("agg-max-items", 0, "Max paragraphs per aggregated request.")
		overwrite   = flag.Bool("overwrite", false, "Overwrite the output file if it exists.")
		logLevel    = flag.String("log-level", "info", "Logging level (debug, info, warn, error).")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] input.docx\n\nFlags:\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 || *output == "" {
		flag.Usage()
		return 2
	}
	inputPath := flag.Arg(0)

	logCfg := logger.DefaultConfig()
	logCfg.Level = logger.ParseLevel(*logLevel)
	if err := logger.Init(logCfg); err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize logger:", err)
		return 1
	}
	defer logger.Close()

	manager, err := config.NewManager("")
	if err != nil {
		logger.Error("failed to create config manager", err)
		return 1
	}
	if err := manager.Load(); err != nil {
		logger.Error("failed to load configuration", err)
		return 1
	}
	cfg := manager.GetConfig()
	if *srcLang != "" {
		cfg.SourceLang = *srcLang
	}
	if *tgtLang != "" {
		cfg.TargetLang = *tgtLang
	}
	if *cachePath != "" {
		cfg.CachePath = *cachePath
	}
	if *backend != "" {
		cfg.Backend = *backend
	}
	if *aggMaxChars > 0 {
		cfg.AggMaxChars = *aggMaxChars
	}
	if *aggMaxItems > 0 {
		cfg.AggMaxItems = *aggMaxItems
	}
	cfg.OpenAIAPIKey = manager.GetAPIKey()
	cfg.OpenAIBaseURL = manager.GetBaseURL()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := translator.New(ctx, cfg)
	if err != nil {
		logger.Error("failed to create translation backend", err)
		return 1
	}
	defer client.Close()

	opts := docx.DefaultOptions()
	opts.FontFamily = *fontFamily
	opts.SimpleMode = *simpleMode || *noInline
	opts.PreserveInline = !*noInline
	opts.SkipURLs = *skipURLs
	opts.SkipNumeric = *skipNumeric
	opts.Walk.SkipFields = *skipFields
	opts.Walk.IncludeHeaders = !*noHeaders
	opts.Walk.IncludeFooters = !*noFooters
	opts.Walk.IncludeShapes = !*noShapes
	opts.Aggregate = !*noAgg
	opts.AggMaxChars = cfg.AggMaxChars
	opts.AggMaxItems = cfg.AggMaxItems
	opts.Overwrite = *overwrite

	dt := docx.NewTranslator(client, opts)
	if err := dt.Translate(ctx, inputPath, *output); err != nil {
		logger.Error("translation failed", err)
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}

	fmt.Println("Translated DOCX saved to", *output)
	return 0
}
