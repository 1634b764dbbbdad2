package layout

import "careerstealth/internal/template"

// BoxKind distinguishes the primitives the rasterizer knows how to draw.
type BoxKind int

const (
	BoxText BoxKind = iota
	BoxRule
	BoxHighlight
)

// ColorRole names a slot in the template's color theme. Boxes carry roles,
// not concrete colors, so the same tree can be drawn under any theme.
type ColorRole int

const (
	RoleBody ColorRole = iota
	RolePrimary
	RoleAccent
	RoleSubtle
	RoleHighlightBg
)

// Box is one positioned primitive: a single line of text, a horizontal
// rule, or a highlight background run.
type Box struct {
	Rect    Rect
	Kind    BoxKind
	Text    string
	Size    float64
	Bold    bool
	Font    template.FontFamily
	Color   ColorRole
	LinkURL string
}

// Item is the atomic unit of pagination: a heading, one entry header, one
// bullet line group. Items are never split across a page boundary; they
// are shifted whole or they overflow.
type Item struct {
	ID     string
	Column int
	Boxes  []Box
}

// Bounds returns the union of the item's box rectangles.
func (it *Item) Bounds() Rect {
	var b Rect
	for _, box := range it.Boxes {
		b = b.Union(box.Rect)
	}
	return b
}

// Translate shifts every box in the item by (dx, dy).
func (it *Item) Translate(dx, dy float64) {
	for i := range it.Boxes {
		it.Boxes[i].Rect = it.Boxes[i].Rect.Translated(dx, dy)
	}
}

// Tree is the fully measured render output: a continuous canvas of fixed
// width and content-determined height, later sliced into pages.
type Tree struct {
	Width  float64
	Height float64
	Items  []*Item
}

// Link is a hyperlink region in canvas coordinates.
type Link struct {
	URL  string
	Rect Rect
}

// Links collects every linked box in the tree. Call after pagination so
// the rectangles reflect final positions.
func (t *Tree) Links() []Link {
	var links []Link
	for _, it := range t.Items {
		for _, box := range it.Boxes {
			if box.LinkURL != "" {
				links = append(links, Link{URL: box.LinkURL, Rect: box.Rect})
			}
		}
	}
	return links
}

// recomputeHeight refreshes Height from item bounds.
func (t *Tree) recomputeHeight() {
	bottom := 0.0
	for _, it := range t.Items {
		if b := it.Bounds(); b.Bottom() > bottom {
			bottom = b.Bottom()
		}
	}
	t.Height = bottom + Margin
}

// PageCount returns the number of letter pages the tree slices into.
func (t *Tree) PageCount() int {
	if t.Height <= 0 {
		return 1
	}
	n := int(t.Height / PageHeight)
	if t.Height > float64(n)*PageHeight {
		n++
	}
	if n < 1 {
		n = 1
	}
	return n
}
