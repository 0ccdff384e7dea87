package pdf

import (
	"bytes"
	"io"
	"os"

	"codeberg.org/go-pdf/fpdf"
	"codeberg.org/go-pdf/fpdf/contrib/gofpdi"

	"doc-translator/internal/fonts"
	"doc-translator/internal/layout"
	"doc-translator/internal/logger"
	"doc-translator/internal/types"
)

const rendererFontFamily = "doc-translator"

// Renderer rebuilds a PDF page by page: each source page is imported
// as a template, then translated paragraphs are painted over it with a
// white background and right-aligned shaped text.
type Renderer struct {
	pdf      *fpdf.Fpdf
	importer *gofpdi.Importer
	source   io.ReadSeeker
	font     *fonts.Resource
	debug    bool
}

// NewRenderer creates a renderer over the original PDF bytes using a
// font with coverage for the target script. With debug set, block
// rectangles and line baselines are stroked for layout inspection.
func NewRenderer(sourcePDF []byte, font *fonts.Resource, debug bool) *Renderer {
	doc := fpdf.New("P", "pt", "", "")
	doc.SetAutoPageBreak(false, 0)
	doc.AddUTF8FontFromBytes(rendererFontFamily, "", font.Data)
	return &Renderer{
		pdf:      doc,
		importer: gofpdi.NewImporter(),
		source:   bytes.NewReader(sourcePDF),
		font:     font,
		debug:    debug,
	}
}

// StartPage imports the 1-based source page as the background of a new
// output page with the given dimensions.
func (r *Renderer) StartPage(pageNum int, width, height float64) {
	r.pdf.AddPageFormat("P", fpdf.SizeType{Wd: width, Ht: height})
	tpl := r.importer.ImportPageFromStream(r.pdf, &r.source, pageNum, "/MediaBox")
	r.importer.UseImportedTemplate(r.pdf, tpl, 0, 0, width, 0)
}

// PaintBackground covers a block's rectangle with white so the
// original text underneath is hidden.
func (r *Renderer) PaintBackground(rect layout.Rect) {
	r.pdf.SetFillColor(255, 255, 255)
	r.pdf.Rect(rect.X0, rect.Y0, rect.Width(), rect.Height(), "F")
}

// DrawParagraph draws already-shaped lines into rect, right-aligned,
// with the first baseline one font size below the rectangle top. Lines
// wider than the rectangle are pinned to its left edge.
func (r *Renderer) DrawParagraph(rect layout.Rect, lines []string, size, lineGap float64) {
	r.pdf.SetFont(rendererFontFamily, "", size)
	r.pdf.SetTextColor(0, 0, 0)

	lineAdvance := size * lineGap
	y := rect.Y0 + size
	for _, line := range lines {
		width := r.font.MeasureString(line, size)
		x := rect.X1 - width
		if x < rect.X0 {
			x = rect.X0
		}
		r.pdf.Text(x, y, line)
		if r.debug {
			r.pdf.SetDrawColor(191, 191, 191)
			r.pdf.SetLineWidth(0.3)
			r.pdf.Line(rect.X0, y, rect.X1, y)
		}
		y += lineAdvance
	}

	if r.debug {
		r.pdf.SetDrawColor(255, 0, 0)
		r.pdf.SetLineWidth(0.5)
		r.pdf.Rect(rect.X0, rect.Y0, rect.Width(), rect.Height(), "D")
	}
}

// Save writes the rebuilt document to path.
func (r *Renderer) Save(path string) error {
	if err := r.pdf.Error(); err != nil {
		return types.NewAppError(types.ErrRender, "PDF rendering failed", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return types.NewAppError(types.ErrRender, "failed to create output PDF", err)
	}
	defer file.Close()
	if err := r.pdf.Output(file); err != nil {
		return types.NewAppError(types.ErrRender, "failed to write output PDF", err)
	}
	logger.Info("translated PDF saved", logger.String("path", path))
	return nil
}
