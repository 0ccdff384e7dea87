// Command translate_pdf translates the text blocks of a PDF to
// Persian while preserving the page layout.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"doc-translator/internal/config"
	"doc-translator/internal/logger"
	"doc-translator/internal/pdf"
	"doc-translator/internal/translator"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		output        = flag.String("out", "", "Output PDF path (default: append _translated).")
		srcLang       = flag.String("src", "", "Source language code (auto, en, fr).")
		tgtLang       = flag.String("tgt", "", "Target language code (default fa).")
		fontPath      = flag.String("font", "fonts/Vazirmatn-Regular.ttf", "Path to a TTF font with Persian glyph coverage.")
		cachePath     = flag.String("cache", "", "Path to SQLite cache for translations.")
		backend       = flag.String("backend", "", "Translation backend (google or llm).")
		maxChars      = flag.Int("max-chars", 0, "Maximum characters per translation chunk.")
		minBlockChars = flag.Int("min-block-chars", 0, "Skip blocks shorter than this length.")
		skipSmall     = flag.Bool("skip-small", false, "Skip blocks that look like small schematic labels.")
		lineGap       = flag.Float64("line-gap", 0, "Line gap multiplier for translated paragraphs.")
		minFont       = flag.Float64("min-font", 0, "Minimum font size when fitting translated text.")
		maxFont       = flag.Float64("max-font", 0, "Maximum font size explored during fitting.")
		shrinkToFit   = flag.Bool("shrink-to-fit", false, "Keep shrinking font size instead of eliding.")
		debugLayout   = flag.Bool("debug-layout", false, "Overlay block rectangles and baselines.")
		dryRun        = flag.Bool("dry-run", false, "Translate blocks without writing a PDF.")
		dryRunPreview = flag.Int("dry-run-preview", 5, "How many block translations to print during dry-run.")
		overwrite     = flag.Bool("overwrite", false, "Overwrite the output file if it exists.")
		logLevel      = flag.String("log-level", "info", "Logging level (debug, info, warn, error).")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] input.pdf\n\nFlags:\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
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
	if *maxChars > 0 {
		cfg.MaxCharsPerChunk = *maxChars
	}
	if *minBlockChars > 0 {
		cfg.MinBlockChars = *minBlockChars
	}
	if *lineGap > 0 {
		cfg.LineGap = *lineGap
	}
	if *minFont > 0 {
		cfg.MinFontSize = *minFont
	}
	if *maxFont > 0 {
		cfg.MaxFontSize = *maxFont
	}
	if cfg.MaxFontSize < cfg.MinFontSize {
		cfg.MaxFontSize = cfg.MinFontSize
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

	pt := pdf.NewTranslator(client, pdf.Options{
		FontPath:        *fontPath,
		MinFontSize:     cfg.MinFontSize,
		MaxFontSize:     cfg.MaxFontSize,
		LineGap:         cfg.LineGap,
		ShrinkToFit:     *shrinkToFit || cfg.ShrinkToFit,
		MaxCharsPerPart: cfg.MaxCharsPerChunk,
		Filter: pdf.FilterOptions{
			MinBlockChars:   cfg.MinBlockChars,
			SkipSmallBlocks: *skipSmall || cfg.SkipSmallBlocks,
		},
		DebugLayout:   *debugLayout,
		DryRun:        *dryRun,
		DryRunPreview: *dryRunPreview,
		Overwrite:     *overwrite,
	})

	stats, err := pt.Translate(ctx, inputPath, *output)
	if err != nil {
		logger.Error("translation failed", err)
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}

	fmt.Printf("Blocks considered: %d | Blocks translated: %d\n", stats.BlocksConsidered, stats.BlocksTranslated)
	if *dryRun {
		if len(stats.Samples) == 0 {
			fmt.Println("Dry-run finished with no translated samples to display.")
			return 0
		}
		fmt.Println("=== Dry-run preview (source -> translated) ===")
		for _, sample := range stats.Samples {
			fmt.Println("---")
			fmt.Println(sample.Source)
			fmt.Println(">>>")
			fmt.Println(sample.Translated)
		}
	}
	return 0
}
