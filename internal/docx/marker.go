package docx

import (
	"fmt"
	"strings"

	"doc-translator/internal/textutil"
)

// Private-use marker characters carried through translation so a
// translated paragraph can be split back onto its original runs.
const (
	OpenMark     = "\uE010" // run start
	CloseMark    = "\uE011" // run end
	ProtectOpen  = "\uE020" // protected token start
	ProtectClose = "\uE021" // protected token end
	ParOpen      = "\uE030" // paragraph start, aggregation
	ParClose     = "\uE031" // paragraph end, aggregation
)

// MarkOptions controls which runs are wrapped, protected or skipped
// when building the marked payload.
type MarkOptions struct {
	SkipURLs    bool
	SkipNumeric bool
}

// MarkedUnit is a paragraph encoded for translation: run texts wrapped
// in indexed markers, code and URL runs replaced by protect tokens.
type MarkedUnit struct {
	Unit       Unit
	Combined   string
	RunIndices []int
	Protected  map[string]string
}

// BuildMarkedParagraph encodes a unit's runs into one marked string.
// Numeric-heavy runs are skipped entirely; code-style runs and URLs
// become protect tokens that survive translation verbatim. Wrapped
// runs carry their index in both the open and close marker so a
// reordering translation can still be unpicked.
func BuildMarkedParagraph(unit Unit, opts MarkOptions) MarkedUnit {
	marked := MarkedUnit{Unit: unit, Protected: make(map[string]string)}
	if len(unit.Runs) == 0 {
		return marked
	}

	var parts []string
	for idx, run := range unit.Runs {
		raw := RunText(run)
		if raw == "" {
			continue
		}
		if opts.SkipNumeric && textutil.IsNumericHeavy(raw, 0.5) {
			continue
		}
		if IsCodeStyleRun(run) {
			token := fmt.Sprintf("%sK%d%s", ProtectOpen, idx, ProtectClose)
			marked.Protected[token] = raw
			parts = append(parts, token)
			marked.RunIndices = append(marked.RunIndices, idx)
			continue
		}
		if opts.SkipURLs && textutil.IsURL(raw) {
			token := fmt.Sprintf("%sU%d%s", ProtectOpen, idx, ProtectClose)
			marked.Protected[token] = raw
			parts = append(parts, token)
			marked.RunIndices = append(marked.RunIndices, idx)
			continue
		}

		marked.RunIndices = append(marked.RunIndices, idx)
		parts = append(parts, fmt.Sprintf("%s%d%s", OpenMark, idx, OpenMark))
		parts = append(parts, raw)
		parts = append(parts, fmt.Sprintf("%s%d%s", CloseMark, idx, CloseMark))
	}

	marked.Combined = strings.Join(parts, "")
	return marked
}

// DistributeTranslated splits a translated marked string back onto the
// original runs. Protect tokens are substituted first; then each run's
// segment is located by its ordered marker pair, consuming the string
// left to right. Returns false without touching any run when a marker
// pair is missing or inverted, so the caller can fall back to per-run
// translation.
func DistributeTranslated(marked MarkedUnit, translated, fontFamily string) bool {
	restored := translated
	for token, original := range marked.Protected {
		restored = strings.ReplaceAll(restored, token, original)
	}

	segments := make(map[int]string, len(marked.RunIndices))
	remaining := restored
	for _, idx := range marked.RunIndices {
		startTag := fmt.Sprintf("%s%d%s", OpenMark, idx, OpenMark)
		endTag := fmt.Sprintf("%s%d%s", CloseMark, idx, CloseMark)
		if _, protectedRun := segmentIsProtected(marked, idx); protectedRun {
			continue
		}
		sPos := strings.Index(remaining, startTag)
		ePos := strings.Index(remaining, endTag)
		if sPos == -1 || ePos == -1 || ePos < sPos {
			return false
		}
		content := remaining[sPos+len(startTag) : ePos]
		segments[idx] = textutil.NormalizeParagraphText(content)
		remaining = remaining[ePos+len(endTag):]
	}

	// Protected runs keep their original content and direction.
	for _, idx := range marked.RunIndices {
		if _, protectedRun := segmentIsProtected(marked, idx); protectedRun {
			continue
		}
		SetRunText(marked.Unit.Runs[idx], segments[idx])
		SetRunRTL(marked.Unit.Runs[idx], fontFamily)
	}
	return true
}

// segmentIsProtected reports whether run idx was emitted as a protect
// token, returning its original text.
func segmentIsProtected(marked MarkedUnit, idx int) (string, bool) {
	for _, kind := range []string{"K", "U"} {
		token := fmt.Sprintf("%s%s%d%s", ProtectOpen, kind, idx, ProtectClose)
		if original, ok := marked.Protected[token]; ok {
			return original, true
		}
	}
	return "", false
}
