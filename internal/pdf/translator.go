package pdf

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/schollz/progressbar/v3"

	"doc-translator/internal/fonts"
	"doc-translator/internal/layout"
	"doc-translator/internal/logger"
	"doc-translator/internal/rtl"
	"doc-translator/internal/textutil"
	"doc-translator/internal/translator"
	"doc-translator/internal/types"
)

// Options controls one PDF translation run.
type Options struct {
	FontPath        string
	MinFontSize     float64
	MaxFontSize     float64
	LineGap         float64
	ShrinkToFit     bool
	MaxCharsPerPart int
	Filter          FilterOptions
	DebugLayout     bool
	DryRun          bool
	DryRunPreview   int
	Overwrite       bool
}

// Sample pairs a cleaned source block with its translation for the
// dry-run preview.
type Sample struct {
	Source     string
	Translated string
}

// Stats summarizes a run.
type Stats struct {
	BlocksConsidered int
	BlocksTranslated int
	Samples          []Sample
}

// Translator drives the PDF pipeline: extract, filter, translate, fit
// and redraw.
type Translator struct {
	client translator.Client
	opts   Options
}

// NewTranslator builds a PDF translator over a translation client.
func NewTranslator(client translator.Client, opts Options) *Translator {
	if opts.MaxFontSize < opts.MinFontSize {
		opts.MaxFontSize = opts.MinFontSize
	}
	if opts.DryRunPreview <= 0 {
		opts.DryRunPreview = 5
	}
	return &Translator{client: client, opts: opts}
}

// DefaultOutputPath derives the output name from the input by
// appending _translated before the extension.
func DefaultOutputPath(inputPath string) string {
	ext := filepath.Ext(inputPath)
	stem := strings.TrimSuffix(inputPath, ext)
	return stem + "_translated" + ext
}

// Translate processes inputPath and writes the translated document to
// outputPath. In dry-run mode nothing is written; translations are
// collected into Stats.Samples instead. An existing output is only
// replaced with Overwrite set.
func (t *Translator) Translate(ctx context.Context, inputPath, outputPath string) (*Stats, error) {
	if outputPath == "" {
		outputPath = DefaultOutputPath(inputPath)
	}
	if !t.opts.DryRun && !t.opts.Overwrite {
		if _, err := os.Stat(outputPath); err == nil {
			return nil, types.NewAppErrorWithDetails(
				types.ErrInvalidInput,
				"output file already exists",
				outputPath,
				nil,
			)
		}
	}

	extractor, err := NewExtractor(inputPath)
	if err != nil {
		return nil, err
	}
	defer extractor.Close()

	var renderer *Renderer
	var font *fonts.Resource
	if !t.opts.DryRun {
		font, err = fonts.Load(t.opts.FontPath)
		if err != nil {
			return nil, err
		}
		sourcePDF, err := os.ReadFile(inputPath)
		if err != nil {
			return nil, types.NewAppError(types.ErrExtract, "failed to read input PDF", err)
		}
		renderer = NewRenderer(sourcePDF, font, t.opts.DebugLayout)
	}

	stats := &Stats{}
	pageCount := extractor.PageCount()
	bar := progressbar.NewOptions(pageCount,
		progressbar.OptionSetDescription("Translating pages"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	for pageNum := 1; pageNum <= pageCount; pageNum++ {
		if err := ctx.Err(); err != nil {
			return nil, types.NewAppError(types.ErrTranslation, "translation cancelled", err)
		}

		pageW, pageH := extractor.PageDim(pageNum)
		if renderer != nil {
			renderer.StartPage(pageNum, pageW, pageH)
		}

		blocks, err := extractor.ExtractBlocks(pageNum)
		if err != nil {
			logger.Warn("skipping page with extraction failure",
				logger.Int("page", pageNum),
				logger.Err(err))
			bar.Add(1)
			continue
		}

		for _, block := range blocks {
			if !ShouldTranslate(block.Text, block.Rect, t.opts.Filter) {
				continue
			}
			stats.BlocksConsidered++

			if err := t.translateBlock(ctx, block, renderer, font, stats); err != nil {
				if appErr, ok := err.(*types.AppError); ok && appErr.Code == types.ErrTranslation {
					logger.Error("failed to translate block", err,
						logger.Int("page", block.Page),
						logger.Int("block", block.Index))
					continue
				}
				return nil, err
			}
		}
		bar.Add(1)
	}
	bar.Finish()

	logger.Info("translation pass finished",
		logger.Int("considered", stats.BlocksConsidered),
		logger.Int("translated", stats.BlocksTranslated))

	if t.opts.DryRun {
		return stats, nil
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return nil, types.NewAppError(types.ErrRender, "failed to create output directory", err)
	}
	if err := renderer.Save(outputPath); err != nil {
		return nil, err
	}
	if err := api.ValidateFile(outputPath, model.NewDefaultConfiguration()); err != nil {
		logger.Warn("output PDF failed validation", logger.Err(err))
	}
	return stats, nil
}

func (t *Translator) translateBlock(ctx context.Context, block Block, renderer *Renderer, font *fonts.Resource, stats *Stats) error {
	cleaned := textutil.CleanBlockText(block.Text)
	if cleaned == "" {
		return nil
	}

	chunks := textutil.ChunkText(cleaned, t.opts.MaxCharsPerPart)
	if len(chunks) == 0 {
		return nil
	}

	translations, err := t.client.TranslateBatch(ctx, chunks)
	if err != nil {
		return err
	}
	translated := strings.TrimSpace(textutil.JoinChunks(translations))
	if translated == "" {
		return nil
	}
	stats.BlocksTranslated++

	if t.opts.DryRun {
		if len(stats.Samples) < t.opts.DryRunPreview {
			stats.Samples = append(stats.Samples, Sample{Source: cleaned, Translated: translated})
		}
		return nil
	}

	result := layout.AutoFit(translated, block.Rect, layout.FitOptions{
		MinSize:     t.opts.MinFontSize,
		MaxSize:     t.opts.MaxFontSize,
		LineGap:     t.opts.LineGap,
		ShrinkToFit: t.opts.ShrinkToFit,
		Shape:       rtl.Shape,
	}, font.MeasureString)

	if len(result.Lines) == 0 {
		return nil
	}

	renderer.PaintBackground(block.Rect)
	renderer.DrawParagraph(block.Rect, result.Lines, result.Size, t.opts.LineGap)

	if result.Elided {
		logger.Info("elided translated block to fit",
			logger.Int("page", block.Page),
			logger.Int("block", block.Index))
	} else if result.Size <= t.opts.MinFontSize+0.1 {
		logger.Debug("block rendered at minimum font size",
			logger.Int("page", block.Page),
			logger.Int("block", block.Index),
			logger.String("size", fmt.Sprintf("%.2f", result.Size)))
	}
	return nil
}
