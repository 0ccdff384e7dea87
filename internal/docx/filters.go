package docx

import (
	"strings"

	"github.com/beevik/etree"
)

// fieldKeywords flag instruction text whose paragraph must not be
// touched: rewriting it would corrupt the field.
var fieldKeywords = []string{"TOC", "HYPERLINK", "PAGEREF", "PAGE", "REF", "SEQ"}

// monoFonts are font families that mark a run as code.
var monoFonts = map[string]struct{}{
	"Consolas":        {},
	"Courier New":     {},
	"Courier":         {},
	"Fira Code":       {},
	"Cascadia Code":   {},
	"Monaco":          {},
	"Menlo":           {},
	"Source Code Pro": {},
	"JetBrains Mono":  {},
}

// IsFieldCodeParagraph reports whether a w:p element carries a field
// code such as a table of contents or page reference.
func IsFieldCodeParagraph(p *etree.Element) bool {
	if len(p.FindElements(".//w:fldSimple")) > 0 {
		return true
	}
	for _, instr := range p.FindElements(".//w:instrText") {
		val := strings.ToUpper(instr.Text())
		for _, keyword := range fieldKeywords {
			if strings.Contains(val, keyword) {
				return true
			}
		}
	}
	return false
}

// IsCodeStyleRun reports whether a w:r element is formatted as code,
// either through a monospace font or a style named after code.
func IsCodeStyleRun(r *etree.Element) bool {
	rPr := r.SelectElement("w:rPr")
	if rPr == nil {
		return false
	}

	if rFonts := rPr.SelectElement("w:rFonts"); rFonts != nil {
		for _, attrKey := range []string{"w:ascii", "w:hAnsi", "w:cs"} {
			if attr := rFonts.SelectAttr(attrKey); attr != nil {
				if _, mono := monoFonts[attr.Value]; mono {
					return true
				}
			}
		}
	}

	if rStyle := rPr.SelectElement("w:rStyle"); rStyle != nil {
		if attr := rStyle.SelectAttr("w:val"); attr != nil {
			name := strings.ToLower(attr.Value)
			if strings.Contains(name, "code") || strings.Contains(name, "mono") {
				return true
			}
		}
	}
	return false
}
