package docx

import (
	"testing"

	"github.com/beevik/etree"
)

const walkerBodyXML = `<w:document><w:body>` +
	`<w:p><w:r><w:t>Body paragraph.</w:t></w:r>` +
	`<w:r><w:pict><v:shape><w:txbxContent>` +
	`<w:p><w:r><w:t>Box text.</w:t></w:r></w:p>` +
	`</w:txbxContent></v:shape></w:pict></w:r></w:p>` +
	`<w:tbl><w:tr><w:tc><w:p><w:r><w:t>Cell text.</w:t></w:r></w:p></w:tc></w:tr></w:tbl>` +
	`<w:p><w:r><w:instrText>PAGEREF _Toc1</w:instrText></w:r><w:r><w:t>Contents</w:t></w:r></w:p>` +
	`<w:p></w:p>` +
	`</w:body></w:document>`

const walkerHeaderXML = `<w:hdr><w:p><w:r><w:t>Running head</w:t></w:r></w:p></w:hdr>`

func testDocument(t *testing.T) *Document {
	t.Helper()
	body := etree.NewDocument()
	if err := body.ReadFromString(walkerBodyXML); err != nil {
		t.Fatalf("parse body: %v", err)
	}
	header := etree.NewDocument()
	if err := header.ReadFromString(walkerHeaderXML); err != nil {
		t.Fatalf("parse header: %v", err)
	}
	return &Document{parts: []*Part{
		{Name: "word/header1.xml", Tree: header},
		{Name: documentPart, Tree: body},
	}}
}

func TestCollectUnitsClassifiesContexts(t *testing.T) {
	doc := testDocument(t)
	units := CollectUnits(doc, DefaultWalkOptions())

	byContext := make(map[string][]Unit)
	for _, u := range units {
		byContext[u.Context] = append(byContext[u.Context], u)
	}

	if n := len(byContext[ContextBody]); n != 1 {
		t.Errorf("body units = %d, want 1", n)
	} else if got := byContext[ContextBody][0].Text; got != "Body paragraph." {
		t.Errorf("body text = %q", got)
	}
	if n := len(byContext[ContextShape]); n != 1 {
		t.Errorf("shape units = %d, want 1", n)
	} else if got := byContext[ContextShape][0].Text; got != "Box text." {
		t.Errorf("shape text = %q", got)
	}
	if n := len(byContext[ContextTable]); n != 1 {
		t.Errorf("table units = %d, want 1", n)
	} else if got := byContext[ContextTable][0].Text; got != "Cell text." {
		t.Errorf("table text = %q", got)
	}
	if n := len(byContext[ContextHeader]); n != 1 {
		t.Errorf("header units = %d, want 1", n)
	}
	// The TOC field paragraph and the empty paragraph yield nothing.
	if total := len(units); total != 4 {
		t.Errorf("units = %d, want 4", total)
	}
}

func TestCollectUnitsBodyDoesNotSwallowBoxText(t *testing.T) {
	doc := testDocument(t)
	units := CollectUnits(doc, DefaultWalkOptions())
	for _, u := range units {
		if u.Context == ContextBody && u.Text != "Body paragraph." {
			t.Errorf("body unit absorbed embedded text: %q", u.Text)
		}
	}
}

func TestCollectUnitsOptions(t *testing.T) {
	opts := DefaultWalkOptions()
	opts.IncludeShapes = false
	opts.IncludeHeaders = false

	units := CollectUnits(testDocument(t), opts)
	for _, u := range units {
		if u.Context == ContextShape || u.Context == ContextHeader {
			t.Errorf("excluded context %s still collected: %q", u.Context, u.Text)
		}
	}
}

func TestCollectUnitsKeepsFieldsWhenAsked(t *testing.T) {
	opts := DefaultWalkOptions()
	opts.SkipFields = false

	units := CollectUnits(testDocument(t), opts)
	found := false
	for _, u := range units {
		if u.Text == "Contents" {
			found = true
		}
	}
	if !found {
		t.Error("field paragraph missing with SkipFields disabled")
	}
}

func TestCollectUnitsLocations(t *testing.T) {
	units := CollectUnits(testDocument(t), DefaultWalkOptions())
	seen := make(map[string]bool)
	for _, u := range units {
		if u.Location == "" {
			t.Errorf("unit %q has empty location", u.Text)
		}
		if seen[u.Location] {
			t.Errorf("duplicate location %q", u.Location)
		}
		seen[u.Location] = true
	}
	if !seen["body:p[1]"] {
		t.Errorf("missing body:p[1], got %v", seen)
	}
}

func TestRunTextSkipsEmbeddedTextBox(t *testing.T) {
	tree := etree.NewDocument()
	err := tree.ReadFromString(`<w:r><w:t>lead </w:t>` +
		`<w:pict><v:shape><w:txbxContent><w:p><w:r><w:t>boxed</w:t></w:r></w:p></w:txbxContent></v:shape></w:pict>` +
		`</w:r>`)
	if err != nil {
		t.Fatalf("parse run: %v", err)
	}
	r := tree.Root()

	if got := RunText(r); got != "lead " {
		t.Errorf("RunText = %q, want only the run's own text", got)
	}

	SetRunText(r, "replaced")
	if got := RunText(r); got != "replaced" {
		t.Errorf("RunText after set = %q", got)
	}
	// The text box content below the run survives untouched.
	boxed := r.FindElements(".//w:txbxContent//w:t")
	if len(boxed) != 1 || boxed[0].Text() != "boxed" {
		t.Errorf("text box content damaged: %v", boxed)
	}
}

func TestSetRunTextPreservesSpace(t *testing.T) {
	tree := etree.NewDocument()
	if err := tree.ReadFromString(`<w:r><w:rPr><w:b/></w:rPr><w:t>old</w:t></w:r>`); err != nil {
		t.Fatalf("parse run: %v", err)
	}
	r := tree.Root()

	SetRunText(r, " padded ")
	if got := RunText(r); got != " padded " {
		t.Fatalf("RunText = %q", got)
	}
	tEl := r.SelectElement("w:t")
	if tEl == nil {
		t.Fatal("no w:t element")
	}
	if attr := tEl.SelectAttr("xml:space"); attr == nil || attr.Value != "preserve" {
		t.Error("xml:space=preserve missing on padded text")
	}
	// Run properties stay ahead of the text.
	children := r.ChildElements()
	if len(children) == 0 || children[0].Tag != "rPr" {
		t.Errorf("rPr displaced: first child = %v", children)
	}
}

func TestSetRunTextReplacesAllText(t *testing.T) {
	tree := etree.NewDocument()
	if err := tree.ReadFromString(`<w:r><w:t>one</w:t><w:t>two</w:t></w:r>`); err != nil {
		t.Fatalf("parse run: %v", err)
	}
	r := tree.Root()

	SetRunText(r, "replaced")
	if got := RunText(r); got != "replaced" {
		t.Errorf("RunText = %q", got)
	}
	if n := len(r.FindElements(".//w:t")); n != 1 {
		t.Errorf("w:t count = %d, want 1", n)
	}
}
