// Package pdf translates the text blocks of a PDF in place: blocks are
// extracted with their bounding rectangles, translated, refitted and
// drawn over the original page content.
package pdf

import (
	"fmt"
	"math"
	"strings"

	"doc-translator/internal/layout"
	"doc-translator/internal/textutil"
)

const (
	// roundStep quantizes rectangle coordinates for deduplication.
	roundStep = 0.5
	// DefaultSmallBlockArea is the area in square points below which a
	// block counts as a schematic label.
	DefaultSmallBlockArea = 144.0
	// DefaultMaxSymbolRatio rejects blocks dominated by symbols.
	DefaultMaxSymbolRatio = 0.65
)

// Block is one text block extracted from a PDF page. Rect uses
// top-left page coordinates.
type Block struct {
	Page  int
	Index int
	Rect  layout.Rect
	Text  string
}

// Identity is the deduplication key: the rectangle rounded to the
// nearest half point plus the normalized text. Extractors keep the
// first block per identity and drop the rest.
func (b Block) Identity() string {
	return fmt.Sprintf("%g|%g|%g|%g|%s",
		roundTo(b.Rect.X0), roundTo(b.Rect.Y0),
		roundTo(b.Rect.X1), roundTo(b.Rect.Y1),
		textutil.NormalizeBlockText(b.Text))
}

func roundTo(v float64) float64 {
	return math.Round(v/roundStep) * roundStep
}

// FilterOptions selects which blocks are worth translating.
type FilterOptions struct {
	MinBlockChars   int
	SkipSmallBlocks bool
	SmallBlockArea  float64
	MaxSymbolRatio  float64
}

// ShouldTranslate reports whether a block's text warrants translation.
// Blocks that clean to nothing, look like axis or figure labels, or
// fail the translatability heuristics are skipped. With SkipSmallBlocks
// set, tiny rectangles and single short tokens are skipped too.
func ShouldTranslate(text string, rect layout.Rect, opts FilterOptions) bool {
	cleaned := textutil.CleanBlockText(text)
	if cleaned == "" {
		return false
	}

	if opts.SkipSmallBlocks && isSmallBlock(cleaned, rect, opts) {
		return false
	}

	if textutil.IsProbablyLabel(cleaned) {
		return false
	}

	maxRatio := opts.MaxSymbolRatio
	if maxRatio <= 0 {
		maxRatio = DefaultMaxSymbolRatio
	}
	return textutil.IsProbablyTranslatable(cleaned, opts.MinBlockChars, maxRatio)
}

func isSmallBlock(text string, rect layout.Rect, opts FilterOptions) bool {
	area := opts.SmallBlockArea
	if area <= 0 {
		area = DefaultSmallBlockArea
	}
	if rect.Area() <= area {
		return true
	}
	tokens := strings.Fields(text)
	if len(tokens) == 0 {
		return true
	}
	shortLimit := opts.MinBlockChars
	if shortLimit < 3 {
		shortLimit = 3
	}
	if len(tokens) == 1 && len([]rune(tokens[0])) <= shortLimit {
		return true
	}
	return false
}
