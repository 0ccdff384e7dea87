// Package textutil provides text cleaning, chunking and translatability
// heuristics shared by the PDF and DOCX translation paths.
package textutil

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Invisible and control characters that leak out of PDF extraction and
// poison downstream comparisons and caching.
const (
	zwnj       = '\u200C' // zero width non-joiner
	rlm        = '\u200F' // right-to-left mark
	lre        = '\u202A' // left-to-right embedding
	popDirFmt  = '\u202C' // pop directional formatting
	softHyphen = '\u00AD'
	nbsp       = '\u00A0'
	bom        = '\uFEFF'
)

var multiSpaceRe = regexp.MustCompile(` {2,}`)

// CleanBlockText sanitizes text extracted from documents before any
// further processing. Newlines survive as structure; horizontal
// whitespace runs collapse; PDF artifacts, private-use glyphs and
// control/format characters are dropped; the result is NFKC-normalized
// so comparisons and cache keys are stable.
func CleanBlockText(text string) string {
	cleaned := strings.ReplaceAll(text, "\r\n", "\n")
	cleaned = strings.ReplaceAll(cleaned, "\r", "\n")

	var b strings.Builder
	b.Grow(len(cleaned))
	for _, r := range cleaned {
		switch r {
		case zwnj:
			b.WriteRune(' ') // make suppressed joins visible as separations
		case rlm, lre, popDirFmt, softHyphen, bom:
			// dropped
		case nbsp:
			b.WriteRune(' ')
		default:
			b.WriteRune(r)
		}
	}

	cleaned = norm.NFKC.String(b.String())

	var filtered strings.Builder
	filtered.Grow(len(cleaned))
	for _, r := range cleaned {
		if allowedRune(r) {
			filtered.WriteRune(r)
		}
	}

	cleaned = strings.ReplaceAll(filtered.String(), "\t", " ")
	lines := strings.Split(cleaned, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(multiSpaceRe.ReplaceAllString(line, " "))
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func allowedRune(r rune) bool {
	switch r {
	case '\n', '\r', '\t', ' ':
		return true
	}
	if r == '\uFFFD' {
		return false
	}
	// Private use areas show up when PDFs lack ToUnicode maps.
	if (r >= 0xE000 && r <= 0xF8FF) ||
		(r >= 0xF0000 && r <= 0xFFFFD) ||
		(r >= 0x100000 && r <= 0x10FFFD) {
		return false
	}
	// Drop control and format characters; keep combining marks (diacritics).
	if unicode.In(r, unicode.Cc, unicode.Cf) {
		return false
	}
	return true
}

// NormalizeBlockText lowercases and collapses all whitespace in cleaned
// text; this is the textual half of a block's dedup identity.
func NormalizeBlockText(text string) string {
	return strings.ToLower(strings.Join(strings.Fields(CleanBlockText(text)), " "))
}

// NormalizeParagraphText replaces embedded line breaks with spaces; a
// DOCX paragraph segment must not contain newlines.
func NormalizeParagraphText(text string) string {
	text = strings.ReplaceAll(text, "\r", " ")
	return strings.ReplaceAll(text, "\n", " ")
}
