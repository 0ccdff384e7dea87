package layout

import (
	"math"
	"strings"
)

// Ellipsis marks elided text on the final kept line.
const Ellipsis = "…"

// heightSlack absorbs floating-point noise when comparing a paragraph
// height against the rectangle height.
const heightSlack = 1e-3

// FitOptions controls AutoFit.
type FitOptions struct {
	MinSize     float64
	MaxSize     float64
	LineGap     float64
	ShrinkToFit bool
	Shape       ShapeFunc
}

// FitResult is a finalized layout: the chosen font size and the shaped
// lines ready for a left-to-right renderer. Elided is set when the text
// had to be truncated to fit.
type FitResult struct {
	Size   float64
	Lines  []string
	Elided bool
}

// AutoFit binary-searches the largest font size in
// [opts.MinSize, opts.MaxSize] whose wrapped layout fits rect, at a 0.2
// size resolution. When nothing fits it either keeps shrinking in 0.5
// steps down to MinSize (ShrinkToFit) or truncates at MinSize and
// appends an ellipsis, trimming characters until the shaped final line
// fits the width. The result is always renderable.
func AutoFit(text string, rect Rect, opts FitOptions, measure MeasureFunc) FitResult {
	shape := opts.Shape
	if shape == nil {
		shape = IdentityShape
	}

	if strings.TrimSpace(text) == "" {
		return FitResult{Size: math.Max(opts.MinSize, 0), Lines: []string{""}}
	}

	relayout := func(size float64) ([]string, float64) {
		lines := Wrap(text, size, rect.Width(), measure, shape)
		return lines, ParagraphHeight(len(lines), opts.LineGap, size)
	}

	low, high := opts.MinSize, opts.MaxSize
	bestSize := opts.MinSize
	var bestLines []string
	fits := false

	for high-low > 0.2 {
		trial := (low + high) / 2
		lines, height := relayout(trial)
		if height <= rect.Height()+heightSlack {
			fits = true
			bestSize = trial
			bestLines = lines
			low = trial + 0.1
		} else {
			high = trial - 0.1
		}
	}

	var height float64
	if !fits {
		// The search interval may close without ever trying MinSize.
		bestSize = opts.MinSize
		bestLines, height = relayout(bestSize)
	} else {
		height = ParagraphHeight(len(bestLines), opts.LineGap, bestSize)
	}

	if height <= rect.Height()+heightSlack {
		return FitResult{Size: bestSize, Lines: shapeAll(bestLines, shape)}
	}

	if opts.ShrinkToFit {
		size := bestSize
		for size > opts.MinSize+0.1 {
			size = math.Max(opts.MinSize, size-0.5)
			lines, h := relayout(size)
			if h <= rect.Height()+heightSlack {
				return FitResult{Size: size, Lines: shapeAll(lines, shape)}
			}
		}
		lines, h := relayout(opts.MinSize)
		if h <= rect.Height()+heightSlack {
			return FitResult{Size: opts.MinSize, Lines: shapeAll(lines, shape)}
		}
	}

	// Elision: keep as many minimum-size lines as the rectangle holds
	// and truncate the last of them.
	minLines, _ := relayout(opts.MinSize)
	lineAdvance := math.Max(opts.MinSize*opts.LineGap, opts.MinSize)
	maxLines := int(rect.Height() / lineAdvance)
	if maxLines < 1 {
		maxLines = 1
	}
	if maxLines > len(minLines) {
		maxLines = len(minLines)
	}
	trimmed := minLines[:maxLines]
	if len(trimmed) == 0 {
		trimmed = []string{""}
	}
	trimmed[len(trimmed)-1] = elideLine(trimmed[len(trimmed)-1], rect.Width(), opts.MinSize, measure, shape)
	return FitResult{Size: opts.MinSize, Lines: shapeAll(trimmed, shape), Elided: true}
}

// elideLine appends an ellipsis to a raw line and removes trailing
// characters one at a time, re-measuring the shaped candidate, until it
// fits maxWidth. Removing one character can, in rare shaping contexts,
// widen the shaped form; treated as an accepted heuristic limitation.
func elideLine(rawLine string, maxWidth, size float64, measure MeasureFunc, shape ShapeFunc) string {
	base := []rune(strings.TrimRight(rawLine, " \t"))
	suffix := " " + Ellipsis
	if len(base) == 0 {
		suffix = Ellipsis
	}
	candidate := strings.TrimSpace(string(base) + suffix)
	shaped := shape(candidate)
	for len(base) > 0 && measure(shaped, size) > maxWidth {
		base = base[:len(base)-1]
		if len(base) > 0 {
			candidate = strings.TrimRight(string(base), " \t") + suffix
		} else {
			candidate = Ellipsis
		}
		shaped = shape(candidate)
	}
	return candidate
}

func shapeAll(lines []string, shape ShapeFunc) []string {
	shaped := make([]string, len(lines))
	for i, line := range lines {
		shaped[i] = shape(line)
	}
	return shaped
}
