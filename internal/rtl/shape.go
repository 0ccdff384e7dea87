// Package rtl converts logical-order right-to-left text into the
// visually-ordered, script-reshaped form that left-to-right glyph
// positioning APIs expect. Arabic-family letter joining comes from
// garabic; visual reordering follows the Unicode bidi algorithm.
package rtl

import (
	"strings"

	"github.com/abdullahdiaa/garabic"
	"golang.org/x/text/unicode/bidi"
)

// Shape resolves joining forms and display order for one logical-order
// string. Multi-line input is shaped line by line; newlines, including
// a trailing one, survive exactly as in the input. The operation is
// pure and cannot fail on well-formed Unicode text.
func Shape(text string) string {
	if text == "" {
		return ""
	}
	parts := strings.Split(text, "\n")
	for i, part := range parts {
		parts[i] = shapeLine(part)
	}
	return strings.Join(parts, "\n")
}

func shapeLine(line string) string {
	if line == "" {
		return ""
	}
	joined := garabic.Shape(line)
	return displayOrder(joined)
}

// displayOrder resolves the visual run order of a single line and
// reverses the rune order inside right-to-left runs, yielding a string
// whose byte order matches left-to-right rendering order.
func displayOrder(line string) string {
	var p bidi.Paragraph
	if _, err := p.SetString(line, bidi.DefaultDirection(bidi.RightToLeft)); err != nil {
		return line
	}
	ordering, err := p.Order()
	if err != nil {
		return line
	}

	var sb strings.Builder
	sb.Grow(len(line))
	for i := 0; i < ordering.NumRuns(); i++ {
		run := ordering.Run(i)
		s := run.String()
		if run.Direction() == bidi.RightToLeft {
			s = reverseRunes(s)
		}
		sb.WriteString(s)
	}
	return sb.String()
}

func reverseRunes(s string) string {
	runes := []rune(s)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return string(runes)
}
