package docx

import (
	"context"
	"fmt"
	"strings"

	"doc-translator/internal/logger"
	"doc-translator/internal/translator"
)

const (
	// DefaultAggMaxChars caps the character budget of one aggregated
	// request.
	DefaultAggMaxChars = 3800
	// DefaultAggMaxItems caps how many paragraphs one request packs.
	DefaultAggMaxItems = 32
	// aggItemOverhead approximates the marker cost per packed item.
	aggItemOverhead = 20
)

// AggregateOptions tunes request packing.
type AggregateOptions struct {
	MaxChars int
	MaxItems int
}

// AggregateTranslate translates many paragraph payloads by packing
// several into one request, wrapped in indexed paragraph markers so
// the combined translation can be split back. A pack whose markers do
// not survive translation is retried item by item; output order always
// matches input order.
func AggregateTranslate(ctx context.Context, client translator.Client, texts []string, opts AggregateOptions) ([]string, error) {
	if opts.MaxChars <= 0 {
		opts.MaxChars = DefaultAggMaxChars
	}
	if opts.MaxItems <= 0 {
		opts.MaxItems = DefaultAggMaxItems
	}

	outputs := make([]string, len(texts))
	idx := 0
	for idx < len(texts) {
		packMap, packed, next := packItems(texts, idx, opts)
		idx = next
		if len(packMap) == 0 {
			continue
		}

		aggregated := strings.Join(packed, "\n")
		translated, err := client.TranslateText(ctx, aggregated)
		if err != nil {
			if fallbackErr := translatePackIndividually(ctx, client, texts, packMap, outputs); fallbackErr != nil {
				return nil, fallbackErr
			}
			continue
		}

		if !splitPack(translated, packMap, outputs) {
			logger.Debug("aggregated pack lost its markers, retrying per item",
				logger.Int("items", len(packMap)))
			if fallbackErr := translatePackIndividually(ctx, client, texts, packMap, outputs); fallbackErr != nil {
				return nil, fallbackErr
			}
		}
	}

	return outputs, nil
}

// packItems gathers items into one pack starting at idx, respecting
// the character and item budgets. Empty items resolve to empty outputs
// without joining a pack.
func packItems(texts []string, idx int, opts AggregateOptions) (packMap []int, packed []string, next int) {
	currentLen := 0
	for idx < len(texts) && len(packMap) < opts.MaxItems {
		t := texts[idx]
		if t == "" {
			idx++
			continue
		}
		est := len([]rune(t)) + aggItemOverhead
		if len(packMap) > 0 && currentLen+est > opts.MaxChars {
			break
		}
		localI := len(packMap)
		packed = append(packed, fmt.Sprintf("%s%d%s%s%s%d%s", ParOpen, localI, ParOpen, t, ParClose, localI, ParClose))
		packMap = append(packMap, idx)
		currentLen += est
		idx++
	}
	return packMap, packed, idx
}

// splitPack extracts each packed item's translation by its paragraph
// marker pair, consuming the string left to right. Returns false when
// any pair is missing or inverted.
func splitPack(translated string, packMap []int, outputs []string) bool {
	remaining := translated
	for localI, globalI := range packMap {
		startTag := fmt.Sprintf("%s%d%s", ParOpen, localI, ParOpen)
		endTag := fmt.Sprintf("%s%d%s", ParClose, localI, ParClose)
		s := strings.Index(remaining, startTag)
		e := strings.Index(remaining, endTag)
		if s == -1 || e == -1 || e < s {
			return false
		}
		outputs[globalI] = remaining[s+len(startTag) : e]
		remaining = remaining[e+len(endTag):]
	}
	return true
}

func translatePackIndividually(ctx context.Context, client translator.Client, texts []string, packMap []int, outputs []string) error {
	batch := make([]string, len(packMap))
	for j, gi := range packMap {
		batch[j] = texts[gi]
	}
	individuals, err := client.TranslateBatch(ctx, batch)
	if err != nil {
		return err
	}
	for j, gi := range packMap {
		outputs[gi] = individuals[j]
	}
	return nil
}
