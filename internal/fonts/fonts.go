// Package fonts loads TTF font files and measures shaped strings using
// the font's glyph advances. Resources are cached per document session
// keyed by absolute path, so a font loads at most once per path.
package fonts

import (
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"doc-translator/internal/logger"
	"doc-translator/internal/types"
)

// Resource is a loaded font file. The raw bytes are kept for embedding
// into generated PDFs; the parsed sfnt drives width measurement.
type Resource struct {
	Path string
	Data []byte

	parsed *sfnt.Font

	mu  sync.Mutex
	buf sfnt.Buffer
}

// Load reads and parses a TTF file. A missing or unparsable font is
// fatal for the PDF path, so the error carries the font-load code.
func Load(path string) (*Resource, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, types.NewAppError(types.ErrFontLoad, "invalid font path", err)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, types.NewAppErrorWithDetails(types.ErrFontLoad, "font file not found", abs, err)
		}
		return nil, types.NewAppError(types.ErrFontLoad, "failed to read font file", err)
	}
	parsed, err := sfnt.Parse(data)
	if err != nil {
		return nil, types.NewAppErrorWithDetails(types.ErrFontLoad, "failed to parse font", abs, err)
	}
	logger.Debug("font loaded", logger.String("path", abs), logger.Int("bytes", len(data)))
	return &Resource{Path: abs, Data: data, parsed: parsed}, nil
}

// MeasureString returns the advance width of a shaped string at the
// given font size, in the same units as the size (points). Glyphs the
// font lacks contribute the font's notdef advance. The signature
// matches layout.MeasureFunc.
func (r *Resource) MeasureString(shaped string, size float64) float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	ppem := fixed.Int26_6(size * 64)
	var total fixed.Int26_6
	for _, ch := range shaped {
		gi, err := r.parsed.GlyphIndex(&r.buf, ch)
		if err != nil {
			continue
		}
		adv, err := r.parsed.GlyphAdvance(&r.buf, gi, ppem, font.HintingNone)
		if err != nil {
			continue
		}
		total += adv
	}
	return float64(total) / 64
}

// Cache is a per-document font cache. Adapted to concurrent use it
// holds a mutex around load-or-fetch so each path loads at most once.
type Cache struct {
	mu     sync.Mutex
	byPath map[string]*Resource
}

// NewCache creates an empty font cache scoped to one document session.
func NewCache() *Cache {
	return &Cache{byPath: make(map[string]*Resource)}
}

// Load returns the cached resource for path, loading it on first use.
func (c *Cache) Load(path string) (*Resource, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, types.NewAppError(types.ErrFontLoad, "invalid font path", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if res, ok := c.byPath[abs]; ok {
		return res, nil
	}
	res, err := Load(abs)
	if err != nil {
		return nil, err
	}
	c.byPath[abs] = res
	return res, nil
}

// Size returns the number of cached fonts.
func (c *Cache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.byPath)
}
