// Package layout implements the translated-text reflow engine: greedy
// line wrapping against a width budget and a binary-search font-size
// fit against a target rectangle, with shrink and elision fallbacks.
// The package is pure; text shaping and width measurement are injected
// so the search logic stays independently testable.
package layout

// Rect is a rectangle in page coordinates with the origin at the top
// left, so Y0 is the top edge.
type Rect struct {
	X0, Y0, X1, Y1 float64
}

// Width returns the horizontal extent of the rectangle.
func (r Rect) Width() float64 { return r.X1 - r.X0 }

// Height returns the vertical extent of the rectangle.
func (r Rect) Height() float64 { return r.Y1 - r.Y0 }

// Area returns the rectangle's area.
func (r Rect) Area() float64 { return r.Width() * r.Height() }

// MeasureFunc returns the rendered width of an already-shaped string at
// the given font size.
type MeasureFunc func(shaped string, size float64) float64

// ShapeFunc converts a logical-order string to its display form. The
// wrapper measures shaped candidates because joining changes widths.
type ShapeFunc func(text string) string

// IdentityShape is a ShapeFunc for text that needs no reshaping.
func IdentityShape(text string) string { return text }
