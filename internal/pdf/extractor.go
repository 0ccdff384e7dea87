package pdf

import (
	"math"
	"os"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"doc-translator/internal/layout"
	"doc-translator/internal/logger"
	"doc-translator/internal/types"
)

const (
	// ascentRatio and descentRatio approximate a line box around a
	// text baseline when the font metrics are not available.
	ascentRatio  = 0.8
	descentRatio = 0.2
	// rowGapFactor times the font size is the largest vertical gap
	// between consecutive rows that still belong to one block.
	rowGapFactor = 1.8
	// defaultFontSize substitutes for rows reporting no size.
	defaultFontSize = 10.0
)

// Extractor reads text blocks from a PDF file. Rows of glyph runs are
// grouped into paragraph blocks by vertical proximity, converted to
// top-left page coordinates and deduplicated, first occurrence wins.
type Extractor struct {
	path     string
	file     *os.File
	reader   *pdf.Reader
	pageDims []pdfDim
}

type pdfDim struct {
	Width  float64
	Height float64
}

// NewExtractor opens the PDF and reads the per-page dimensions needed
// to flip extraction coordinates to a top-left origin.
func NewExtractor(path string) (*Extractor, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, types.NewAppErrorWithDetails(types.ErrFileNotFound, "input PDF not found", path, err)
		}
		return nil, types.NewAppError(types.ErrExtract, "cannot access input PDF", err)
	}

	dims, err := api.PageDimsFile(path)
	if err != nil {
		return nil, types.NewAppError(types.ErrExtract, "failed to read PDF page dimensions", err)
	}
	pageDims := make([]pdfDim, len(dims))
	for i, d := range dims {
		pageDims[i] = pdfDim{Width: d.Width, Height: d.Height}
	}

	file, reader, err := pdf.Open(path)
	if err != nil {
		return nil, types.NewAppError(types.ErrExtract, "failed to open PDF", err)
	}

	return &Extractor{path: path, file: file, reader: reader, pageDims: pageDims}, nil
}

// Close releases the underlying file handle.
func (e *Extractor) Close() error {
	if e.file == nil {
		return nil
	}
	err := e.file.Close()
	e.file = nil
	return err
}

// PageCount returns the number of pages in the document.
func (e *Extractor) PageCount() int {
	return e.reader.NumPage()
}

// PageDim returns the width and height of a 1-based page.
func (e *Extractor) PageDim(pageNum int) (w, h float64) {
	if pageNum >= 1 && pageNum <= len(e.pageDims) {
		return e.pageDims[pageNum-1].Width, e.pageDims[pageNum-1].Height
	}
	// US Letter fallback for malformed page trees.
	return 612, 792
}

// ExtractBlocks returns the unique text blocks of a 1-based page in
// top-left coordinates. Complex layouts can repeat identical runs, so
// blocks are deduplicated on their rounded rectangle plus normalized
// text.
func (e *Extractor) ExtractBlocks(pageNum int) ([]Block, error) {
	page := e.reader.Page(pageNum)
	if page.V.IsNull() {
		return nil, nil
	}

	rows, err := page.GetTextByRow()
	if err != nil {
		return nil, types.NewAppError(types.ErrExtract, "failed to extract page text", err)
	}

	_, pageH := e.PageDim(pageNum)

	lines := buildLines(rows)
	// Reading order: highest baseline first in bottom-origin terms.
	sort.SliceStable(lines, func(i, j int) bool {
		return lines[i].baseline > lines[j].baseline
	})

	var blocks []Block
	seen := make(map[string]struct{})
	index := 0
	for _, group := range groupLines(lines) {
		block, ok := makeBlock(group, pageNum, index, pageH)
		if !ok {
			continue
		}
		key := block.Identity()
		if _, dup := seen[key]; dup {
			logger.Debug("dropping duplicate block",
				logger.Int("page", pageNum),
				logger.Int("block", index))
			continue
		}
		seen[key] = struct{}{}
		blocks = append(blocks, block)
		index++
	}

	return blocks, nil
}

// textLine is one extracted row in bottom-origin coordinates.
type textLine struct {
	text     string
	x0, x1   float64
	baseline float64
	fontSize float64
}

func buildLines(rows pdf.Rows) []textLine {
	var lines []textLine
	for _, row := range rows {
		if row == nil || len(row.Content) == 0 {
			continue
		}

		var sb strings.Builder
		var x0, x1, baseline, sizeSum float64
		count := 0
		for _, t := range row.Content {
			if t.S == "" {
				continue
			}
			if count == 0 {
				x0 = t.X
				x1 = t.X + t.W
				baseline = t.Y
			} else {
				if t.X < x0 {
					x0 = t.X
				}
				if t.X+t.W > x1 {
					x1 = t.X + t.W
				}
			}
			sb.WriteString(t.S)
			sizeSum += t.FontSize
			count++
		}

		text := strings.TrimSpace(sb.String())
		if text == "" {
			continue
		}
		fontSize := sizeSum / float64(count)
		if fontSize <= 0 {
			fontSize = defaultFontSize
		}
		lines = append(lines, textLine{text: text, x0: x0, x1: x1, baseline: baseline, fontSize: fontSize})
	}
	return lines
}

// groupLines splits reading-ordered lines into blocks wherever the
// baseline gap exceeds rowGapFactor times the font size.
func groupLines(lines []textLine) [][]textLine {
	var groups [][]textLine
	var current []textLine
	for _, line := range lines {
		if len(current) > 0 {
			prev := current[len(current)-1]
			gap := prev.baseline - line.baseline
			limit := rowGapFactor * math.Max(prev.fontSize, line.fontSize)
			if gap > limit {
				groups = append(groups, current)
				current = nil
			}
		}
		current = append(current, line)
	}
	if len(current) > 0 {
		groups = append(groups, current)
	}
	return groups
}

func makeBlock(group []textLine, pageNum, index int, pageH float64) (Block, bool) {
	if len(group) == 0 {
		return Block{}, false
	}

	var parts []string
	x0, x1 := group[0].x0, group[0].x1
	top := group[0].baseline + ascentRatio*group[0].fontSize
	bottom := group[0].baseline - descentRatio*group[0].fontSize
	for _, line := range group {
		parts = append(parts, line.text)
		if line.x0 < x0 {
			x0 = line.x0
		}
		if line.x1 > x1 {
			x1 = line.x1
		}
		if t := line.baseline + ascentRatio*line.fontSize; t > top {
			top = t
		}
		if b := line.baseline - descentRatio*line.fontSize; b < bottom {
			bottom = b
		}
	}

	text := strings.TrimSpace(strings.Join(parts, "\n"))
	if text == "" {
		return Block{}, false
	}

	rect := layout.Rect{
		X0: x0,
		Y0: pageH - top,
		X1: x1,
		Y1: pageH - bottom,
	}
	return Block{Page: pageNum, Index: index, Rect: rect, Text: text}, true
}
