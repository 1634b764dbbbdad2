// Package layout renders a document into a measured box tree at a fixed
// page width and applies page-break adjustments to it. Everything here is
// pure geometry in PDF points with a top-left origin; no UI runtime is
// involved and identical inputs always produce identical trees.
package layout

// US Letter geometry in points (72 per inch).
const (
	PageWidth  = 612.0
	PageHeight = 792.0

	// Margin is the inset applied on the first page and at the left and
	// right page edges. Later pages get their top inset from the
	// pagination buffer.
	Margin = 40.0

	// PageBreakBuffer is the blank space inserted above an item pushed to
	// the next page.
	PageBreakBuffer = 24.0
)

// Rect is an axis-aligned rectangle. Y grows downward.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (r Rect) Left() float64   { return r.X }
func (r Rect) Right() float64  { return r.X + r.Width }
func (r Rect) Top() float64    { return r.Y }
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// MidY returns the vertical midpoint, the coordinate that decides which
// page owns the rectangle after slicing.
func (r Rect) MidY() float64 { return r.Y + r.Height/2 }

func (r Rect) IsEmpty() bool { return r.Width <= 0 || r.Height <= 0 }

// Translated returns a copy shifted by (dx, dy).
func (r Rect) Translated(dx, dy float64) Rect {
	r.X += dx
	r.Y += dy
	return r
}

// Intersects reports whether two rectangles overlap.
func (r Rect) Intersects(other Rect) bool {
	return r.Left() < other.Right() && r.Right() > other.Left() &&
		r.Top() < other.Bottom() && r.Bottom() > other.Top()
}

// Union returns the smallest rectangle containing both.
func (r Rect) Union(other Rect) Rect {
	if r.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return r
	}
	left := min(r.Left(), other.Left())
	top := min(r.Top(), other.Top())
	right := max(r.Right(), other.Right())
	bottom := max(r.Bottom(), other.Bottom())
	return Rect{X: left, Y: top, Width: right - left, Height: bottom - top}
}
