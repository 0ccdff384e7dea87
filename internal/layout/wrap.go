package layout

import (
	"regexp"
	"strings"
)

var segmentRe = regexp.MustCompile(`\S+\s*`)

// Wrap splits text into lines that render within maxWidth at the given
// font size. Paragraphs (newline-separated) wrap independently; an
// empty paragraph yields one empty line so blank-line structure
// survives. Whitespace-delimited segments are packed greedily; a
// segment too wide for an empty line is split at the longest character
// prefix whose shaped width fits. Wrapping always consumes input: when
// not even one character fits, the paragraph's remaining input is
// dropped rather than looping forever.
func Wrap(text string, size, maxWidth float64, measure MeasureFunc, shape ShapeFunc) []string {
	if shape == nil {
		shape = IdentityShape
	}
	paragraphs := strings.Split(text, "\n")
	// A trailing newline terminates the last paragraph, it does not
	// open an empty one.
	if n := len(paragraphs); n > 1 && paragraphs[n-1] == "" {
		paragraphs = paragraphs[:n-1]
	}

	var lines []string
	for _, paragraph := range paragraphs {
		if strings.TrimSpace(paragraph) == "" {
			lines = append(lines, "")
			continue
		}

		current := ""
		aborted := false
		for _, segment := range segmentRe.FindAllString(paragraph, -1) {
			remainder := segment
			for remainder != "" {
				candidate := current + remainder
				width := measure(shape(strings.TrimRight(candidate, " \t")), size)
				if width <= maxWidth {
					current = candidate
					remainder = ""
					continue
				}
				if current != "" {
					lines = append(lines, strings.TrimRight(current, " \t"))
					current = ""
					continue
				}
				part, rest := splitSegment(remainder, size, maxWidth, measure, shape)
				if part == "" {
					aborted = true
					break
				}
				lines = append(lines, strings.TrimRight(part, " \t"))
				remainder = rest
			}
			if aborted {
				break
			}
		}
		if current != "" {
			lines = append(lines, strings.TrimRight(current, " \t"))
		}
	}

	return lines
}

// splitSegment binary-searches the longest rune prefix of an
// unbreakable segment whose shaped width fits maxWidth. A single rune
// is always accepted so the caller makes progress.
func splitSegment(segment string, size, maxWidth float64, measure MeasureFunc, shape ShapeFunc) (string, string) {
	working := []rune(strings.TrimLeft(segment, " \t"))
	if len(working) == 0 {
		return "", ""
	}

	low, high := 1, len(working)
	best := 1
	for low <= high {
		mid := (low + high) / 2
		sample := strings.TrimRight(string(working[:mid]), " \t")
		if measure(shape(sample), size) <= maxWidth || mid == 1 {
			best = mid
			low = mid + 1
		} else {
			high = mid - 1
		}
	}

	part := strings.TrimRight(string(working[:best]), " \t")
	rest := strings.TrimLeft(string(working[best:]), " \t")
	return part, rest
}

// ParagraphHeight computes the total height of wrapped lines at a font
// size with the given line-gap multiplier.
func ParagraphHeight(lineCount int, lineGap, size float64) float64 {
	if lineCount <= 0 {
		return 0
	}
	return float64(lineCount) * size * lineGap
}
