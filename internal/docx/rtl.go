package docx

import "github.com/beevik/etree"

// SetParagraphRTL marks a w:p element as right-to-left and
// right-aligned. Paragraph properties must be the first child of the
// paragraph, so w:pPr is created there when missing.
func SetParagraphRTL(p *etree.Element) {
	pPr := p.SelectElement("w:pPr")
	if pPr == nil {
		pPr = etree.NewElement("w:pPr")
		p.InsertChildAt(0, pPr)
	}
	if pPr.SelectElement("w:bidi") == nil {
		pPr.CreateElement("w:bidi")
	}
	jc := pPr.SelectElement("w:jc")
	if jc == nil {
		jc = pPr.CreateElement("w:jc")
	}
	jc.RemoveAttr("w:val")
	jc.CreateAttr("w:val", "right")
}

// SetRunRTL marks a w:r element as right-to-left and optionally sets
// the complex-script font family on its run properties.
func SetRunRTL(r *etree.Element, fontFamily string) {
	rPr := r.SelectElement("w:rPr")
	if rPr == nil {
		rPr = etree.NewElement("w:rPr")
		r.InsertChildAt(0, rPr)
	}
	if rPr.SelectElement("w:rtl") == nil {
		rPr.CreateElement("w:rtl")
	}

	if fontFamily == "" {
		return
	}
	rFonts := rPr.SelectElement("w:rFonts")
	if rFonts == nil {
		rFonts = rPr.CreateElement("w:rFonts")
	}
	rFonts.RemoveAttr("w:cs")
	rFonts.CreateAttr("w:cs", fontFamily)
}
