package docx

import (
	"context"
	"os"
	"strings"

	"github.com/schollz/progressbar/v3"

	"doc-translator/internal/logger"
	"doc-translator/internal/textutil"
	"doc-translator/internal/translator"
	"doc-translator/internal/types"
)

// Options controls one DOCX translation run.
type Options struct {
	FontFamily     string
	PreserveInline bool
	SimpleMode     bool
	SkipURLs       bool
	SkipNumeric    bool
	Walk           WalkOptions
	Aggregate      bool
	AggMaxChars    int
	AggMaxItems    int
	Overwrite      bool
}

// DefaultOptions enables inline preservation, all document regions and
// request aggregation.
func DefaultOptions() Options {
	return Options{
		PreserveInline: true,
		SkipURLs:       true,
		SkipNumeric:    true,
		Walk:           DefaultWalkOptions(),
		Aggregate:      true,
		AggMaxChars:    DefaultAggMaxChars,
		AggMaxItems:    DefaultAggMaxItems,
	}
}

// Translator drives the DOCX pipeline.
type Translator struct {
	client translator.Client
	opts   Options
}

// NewTranslator builds a DOCX translator over a translation client.
func NewTranslator(client translator.Client, opts Options) *Translator {
	return &Translator{client: client, opts: opts}
}

// Translate reads inputPath, translates its text units and writes the
// result to outputPath. Inline formatting is preserved through the
// run-marker protocol unless SimpleMode forces per-run translation.
func (t *Translator) Translate(ctx context.Context, inputPath, outputPath string) error {
	if !t.opts.Overwrite {
		if _, err := os.Stat(outputPath); err == nil {
			return types.NewAppErrorWithDetails(
				types.ErrInvalidInput,
				"output file already exists",
				outputPath,
				nil,
			)
		}
	}

	doc, err := Open(inputPath)
	if err != nil {
		return err
	}

	units := CollectUnits(doc, t.opts.Walk)
	if len(units) == 0 {
		logger.Info("no text units found to translate")
		return doc.Save(outputPath)
	}
	logger.Info("collected text units", logger.Int("count", len(units)))

	if t.opts.SimpleMode || !t.opts.PreserveInline {
		if err := t.translateSimple(ctx, units); err != nil {
			return err
		}
	} else {
		if err := t.translateWithMarkers(ctx, units); err != nil {
			return err
		}
	}

	return doc.Save(outputPath)
}

// translateSimple translates run by run. Formatting is trivially
// preserved because each run keeps its own properties; the price is
// worse translation quality across run boundaries.
func (t *Translator) translateSimple(ctx context.Context, units []Unit) error {
	type runRef struct {
		unit Unit
		run  int
	}
	var payloads []string
	var mapping []runRef

	for _, unit := range units {
		for i, run := range unit.Runs {
			text := RunText(run)
			if text == "" {
				continue
			}
			if t.opts.SkipURLs && textutil.IsURL(text) {
				continue
			}
			if t.opts.SkipNumeric && textutil.IsNumericHeavy(text, 0.5) {
				continue
			}
			if IsCodeStyleRun(run) {
				continue
			}
			mapping = append(mapping, runRef{unit: unit, run: i})
			payloads = append(payloads, text)
		}
	}

	var results []string
	if len(payloads) > 0 {
		var err error
		results, err = t.client.TranslateBatch(ctx, payloads)
		if err != nil {
			return err
		}
	}

	bar := progressbar.NewOptions(len(mapping),
		progressbar.OptionSetDescription("Apply runs"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionClearOnFinish(),
	)
	for i, ref := range mapping {
		SetRunText(ref.unit.Runs[ref.run], textutil.NormalizeParagraphText(results[i]))
		SetRunRTL(ref.unit.Runs[ref.run], t.opts.FontFamily)
		t.applyParagraphRTL(ref.unit)
		bar.Add(1)
	}
	bar.Finish()
	return nil
}

// translateWithMarkers encodes each paragraph with run markers,
// translates whole paragraphs (aggregated when enabled) and splits the
// translations back onto the runs. Paragraphs whose markers do not
// survive fall back to per-run translation individually.
func (t *Translator) translateWithMarkers(ctx context.Context, units []Unit) error {
	markOpts := MarkOptions{SkipURLs: t.opts.SkipURLs, SkipNumeric: t.opts.SkipNumeric}

	prepared := make([]MarkedUnit, len(units))
	indices := make([]int, len(units))
	var payloads []string
	for i, unit := range units {
		marked := BuildMarkedParagraph(unit, markOpts)
		prepared[i] = marked
		if strings.TrimSpace(marked.Combined) == "" {
			indices[i] = -1
			continue
		}
		indices[i] = len(payloads)
		payloads = append(payloads, marked.Combined)
	}

	var results []string
	if len(payloads) > 0 {
		var err error
		if t.opts.Aggregate {
			results, err = AggregateTranslate(ctx, t.client, payloads, AggregateOptions{
				MaxChars: t.opts.AggMaxChars,
				MaxItems: t.opts.AggMaxItems,
			})
		} else {
			results, err = t.client.TranslateBatch(ctx, payloads)
		}
		if err != nil {
			logger.Warn("batch translation failed, falling back to simple mode", logger.Err(err))
			return t.translateSimple(ctx, units)
		}
	}

	bar := progressbar.NewOptions(len(units),
		progressbar.OptionSetDescription("Apply paragraphs"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionClearOnFinish(),
	)
	for i, unit := range units {
		if indices[i] == -1 {
			t.applyParagraphRTL(unit)
			bar.Add(1)
			continue
		}

		translated := results[indices[i]]
		if !DistributeTranslated(prepared[i], translated, t.opts.FontFamily) {
			logger.Debug("markers lost in translation, per-run fallback",
				logger.String("location", unit.Location))
			if err := t.translateSimple(ctx, []Unit{unit}); err != nil {
				return err
			}
		}
		t.applyParagraphRTL(unit)
		bar.Add(1)
	}
	bar.Finish()
	return nil
}

// applyParagraphRTL sets paragraph direction everywhere except inside
// shapes, whose anchoring breaks under paragraph-level alignment.
func (t *Translator) applyParagraphRTL(unit Unit) {
	if unit.Context == ContextShape {
		return
	}
	SetParagraphRTL(unit.Para)
}
