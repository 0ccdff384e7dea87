package textutil

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	urlRe    = regexp.MustCompile(`(?i)\b(?:https?://|www\.)[\w\-.?,:/#%&=+~]+`)
	emailRe  = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	labelRe  = regexp.MustCompile(`^[A-Z]{1,3}\s*[-/]?\s*\d{1,4}[A-Z]?$`)
	figureRe = regexp.MustCompile(`(?i)^\s*(fig\.|figure|table|eq\.|equation)\b`)
)

// IsURL reports whether the text contains a URL or email address.
func IsURL(text string) bool {
	if text == "" {
		return false
	}
	return urlRe.MatchString(text) || emailRe.MatchString(text)
}

// SymbolRatio returns (symbols+digits)/(letters+digits+symbols) for the
// text, or 0 when it contains none of those categories.
func SymbolRatio(text string) float64 {
	var letters, digits, symbols int
	for _, r := range text {
		switch {
		case unicode.IsLetter(r):
			letters++
		case unicode.IsDigit(r) || unicode.IsNumber(r):
			digits++
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			symbols++
		}
	}
	total := letters + digits + symbols
	if total == 0 {
		return 0
	}
	return float64(symbols+digits) / float64(total)
}

// IsNumericHeavy reports whether more than threshold of the text's
// letter/digit/symbol characters are digits or symbols. Such runs carry
// no translatable prose and are skipped outright.
func IsNumericHeavy(text string, threshold float64) bool {
	if text == "" {
		return false
	}
	var letters, digits, symbols int
	for _, r := range text {
		switch {
		case unicode.IsLetter(r):
			letters++
		case unicode.IsDigit(r) || unicode.IsNumber(r):
			digits++
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			symbols++
		}
	}
	total := letters + digits + symbols
	if total == 0 {
		return false
	}
	return float64(digits+symbols)/float64(total) > threshold
}

// IsProbablyLabel detects short figure/table/schematic labels like
// "FIG-12" or "A 3" that should stay untranslated.
func IsProbablyLabel(text string) bool {
	condensed := CleanBlockText(text)
	if condensed == "" || len([]rune(condensed)) > 6 {
		return false
	}
	if labelRe.MatchString(condensed) {
		return true
	}
	alnum := 0
	for _, r := range condensed {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			alnum++
		}
	}
	return alnum <= 2
}

// IsProbablyTranslatable applies the general gate: enough characters,
// at least one letter, not a bare URL, not a figure-caption prefix, and
// not drowned in symbols and digits.
func IsProbablyTranslatable(text string, minimumChars int, maxSymbolRatio float64) bool {
	candidate := CleanBlockText(text)
	if len([]rune(candidate)) < minimumChars {
		return false
	}
	if strings.Contains(strings.ToLower(candidate), "http://") ||
		strings.Contains(strings.ToLower(candidate), "https://") {
		return false
	}
	hasLetter := false
	for _, r := range candidate {
		if unicode.IsLetter(r) {
			hasLetter = true
			break
		}
	}
	if !hasLetter {
		return false
	}
	if figureRe.MatchString(candidate) {
		return false
	}
	return SymbolRatio(candidate) <= maxSymbolRatio
}
