package docx

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
)

// Unit is one translatable paragraph together with its runs. Context
// tells the driver where the paragraph came from; shape paragraphs do
// not take paragraph-level alignment.
type Unit struct {
	Location string
	Context  string
	Para     *etree.Element
	Runs     []*etree.Element
	Text     string
}

// Contexts a unit can originate from.
const (
	ContextBody   = "body"
	ContextTable  = "table"
	ContextHeader = "header"
	ContextFooter = "footer"
	ContextShape  = "shape"
)

// WalkOptions selects which document regions yield units.
type WalkOptions struct {
	IncludeHeaders bool
	IncludeFooters bool
	IncludeShapes  bool
	SkipFields     bool
}

// DefaultWalkOptions walks everything and skips field codes.
func DefaultWalkOptions() WalkOptions {
	return WalkOptions{
		IncludeHeaders: true,
		IncludeFooters: true,
		IncludeShapes:  true,
		SkipFields:     true,
	}
}

// CollectUnits walks all text parts of the document in order and
// returns the paragraphs worth translating: body and table text,
// headers, footers and text-box content. Empty paragraphs and field
// code paragraphs are left alone.
func CollectUnits(doc *Document, opts WalkOptions) []Unit {
	var units []Unit
	counters := make(map[string]int)

	for _, part := range doc.Parts() {
		root := part.Tree.Root()
		if root == nil {
			continue
		}
		partContext := contextForPart(part.Name)
		if partContext == ContextHeader && !opts.IncludeHeaders {
			continue
		}
		if partContext == ContextFooter && !opts.IncludeFooters {
			continue
		}

		for _, p := range root.FindElements("//w:p") {
			context := classifyParagraph(p, partContext)
			if context == ContextShape && !opts.IncludeShapes {
				continue
			}
			if opts.SkipFields && IsFieldCodeParagraph(p) {
				continue
			}

			runs := paragraphRuns(p, context)
			text := runsText(runs)
			if strings.TrimSpace(text) == "" {
				continue
			}

			counters[context]++
			units = append(units, Unit{
				Location: fmt.Sprintf("%s:p[%d]", context, counters[context]),
				Context:  context,
				Para:     p,
				Runs:     runs,
				Text:     text,
			})
		}
	}
	return units
}

func contextForPart(name string) string {
	base := name[strings.LastIndex(name, "/")+1:]
	switch {
	case strings.HasPrefix(base, "header"):
		return ContextHeader
	case strings.HasPrefix(base, "footer"):
		return ContextFooter
	default:
		return ContextBody
	}
}

// classifyParagraph refines the part context by ancestry: paragraphs
// inside w:txbxContent are shape text, paragraphs inside w:tc are
// table cells.
func classifyParagraph(p *etree.Element, partContext string) string {
	for parent := p.Parent(); parent != nil; parent = parent.Parent() {
		switch {
		case parent.Space == "w" && parent.Tag == "txbxContent":
			return ContextShape
		case parent.Space == "w" && parent.Tag == "tc" && partContext == ContextBody:
			return ContextTable
		}
	}
	return partContext
}

// paragraphRuns returns the runs whose text belongs to this paragraph.
// Direct children only, except for shape paragraphs whose runs can sit
// below intermediate wrappers. Using direct children keeps a body
// paragraph from swallowing the text of an embedded text box.
func paragraphRuns(p *etree.Element, context string) []*etree.Element {
	if context == ContextShape {
		return p.FindElements(".//w:r")
	}
	var runs []*etree.Element
	for _, child := range p.ChildElements() {
		if child.Space == "w" && child.Tag == "r" {
			runs = append(runs, child)
		}
	}
	return runs
}

// runTextElements returns the w:t children of a run. Only direct
// children carry the run's own text; anything deeper belongs to an
// embedded object such as a text box and must be left alone.
func runTextElements(r *etree.Element) []*etree.Element {
	var elems []*etree.Element
	for _, child := range r.ChildElements() {
		if child.Space == "w" && child.Tag == "t" {
			elems = append(elems, child)
		}
	}
	return elems
}

// RunText concatenates the w:t children of a run.
func RunText(r *etree.Element) string {
	var sb strings.Builder
	for _, t := range runTextElements(r) {
		sb.WriteString(t.Text())
	}
	return sb.String()
}

// SetRunText replaces the text of a run with a single w:t element,
// preserving significant leading or trailing spaces via xml:space.
// Nested content below the run, like text box paragraphs, is kept.
func SetRunText(r *etree.Element, value string) {
	for _, t := range runTextElements(r) {
		r.RemoveChild(t)
	}

	t := etree.NewElement("w:t")
	if value != "" && (strings.HasPrefix(value, " ") || strings.HasSuffix(value, " ")) {
		t.CreateAttr("xml:space", "preserve")
	}
	t.SetText(value)

	if rPr := r.SelectElement("w:rPr"); rPr != nil {
		idx := rPr.Index() + 1
		r.InsertChildAt(idx, t)
		return
	}
	r.AddChild(t)
}

func runsText(runs []*etree.Element) string {
	var sb strings.Builder
	for _, r := range runs {
		sb.WriteString(RunText(r))
	}
	return sb.String()
}
