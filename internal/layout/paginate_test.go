package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeItem(id string, col int, y, height float64) *Item {
	return &Item{
		ID:     id,
		Column: col,
		Boxes: []Box{
			{Rect: Rect{X: Margin, Y: y, Width: 100, Height: height}, Kind: BoxText, Text: id},
		},
	}
}

func TestPaginateShiftsStraddlingItem(t *testing.T) {
	tree := &Tree{
		Width: PageWidth,
		Items: []*Item{
			makeItem("a", 0, 40, 100),
			makeItem("b", 0, 780, 30), // straddles the first boundary at 792
			makeItem("c", 0, 820, 30),
		},
	}

	Paginate(tree)

	b := tree.Items[1].Bounds()
	assert.Equal(t, PageHeight+PageBreakBuffer, b.Top())

	// Items after the push keep their relative distance.
	c := tree.Items[2].Bounds()
	assert.InDelta(t, 40.0, c.Top()-b.Top(), boundaryEpsilon)

	// No item straddles a boundary afterwards.
	for _, it := range tree.Items {
		bounds := it.Bounds()
		if bounds.Height <= 0 || bounds.Height > PageHeight-PageBreakBuffer {
			continue
		}
		pageIdx := int(bounds.Top() / PageHeight)
		boundary := float64(pageIdx+1) * PageHeight
		assert.LessOrEqual(t, bounds.Bottom(), boundary+boundaryEpsilon, "item %s", it.ID)
	}
}

func TestPaginateLeavesFlushItemAlone(t *testing.T) {
	// Ends exactly at the boundary: no dead space may be inserted.
	tree := &Tree{
		Width: PageWidth,
		Items: []*Item{
			makeItem("flush", 0, 692, 100), // bottom == 792
		},
	}

	Paginate(tree)

	assert.Equal(t, 692.0, tree.Items[0].Bounds().Top())
}

func TestPaginateIgnoresZeroHeightItems(t *testing.T) {
	tree := &Tree{
		Width: PageWidth,
		Items: []*Item{
			makeItem("marker", 0, PageHeight, 0),
		},
	}

	Paginate(tree)

	assert.Equal(t, PageHeight, tree.Items[0].Bounds().Top())
}

func TestPaginateLetsOversizedItemOverflow(t *testing.T) {
	tree := &Tree{
		Width: PageWidth,
		Items: []*Item{
			makeItem("huge", 0, 100, PageHeight+200),
		},
	}

	Paginate(tree)

	// Taller than any page: stays put and crosses the boundary.
	assert.Equal(t, 100.0, tree.Items[0].Bounds().Top())
}

func TestPaginateTreatsNearPageHeightItemAsOversized(t *testing.T) {
	// Height 780 exceeds PageHeight-PageBreakBuffer: a push would land it
	// at 792+24 and it would straddle the second boundary anyway, so it
	// stays put and overflows like any oversized item.
	tree := &Tree{
		Width: PageWidth,
		Items: []*Item{
			makeItem("tall", 0, 700, 780),
			makeItem("after", 0, 1500, 30),
		},
	}

	Paginate(tree)

	assert.Equal(t, 700.0, tree.Items[0].Bounds().Top())
	assert.Equal(t, 1500.0, tree.Items[1].Bounds().Top())
}

func TestPaginateColumnsAreIndependent(t *testing.T) {
	tree := &Tree{
		Width: PageWidth,
		Items: []*Item{
			makeItem("side", 0, 780, 30),
			makeItem("main", 1, 400, 30),
		},
	}

	Paginate(tree)

	assert.Equal(t, PageHeight+PageBreakBuffer, tree.Items[0].Bounds().Top())
	assert.Equal(t, 400.0, tree.Items[1].Bounds().Top())
}

func TestPaginateCascadesAcrossPages(t *testing.T) {
	// A shift on page one can push a later item into the second boundary.
	tree := &Tree{
		Width: PageWidth,
		Items: []*Item{
			makeItem("a", 0, 770, 60),
			makeItem("b", 0, 1540, 60),
		},
	}

	Paginate(tree)

	for _, it := range tree.Items {
		b := it.Bounds()
		pageIdx := int(b.Top() / PageHeight)
		boundary := float64(pageIdx+1) * PageHeight
		require.LessOrEqual(t, b.Bottom(), boundary+boundaryEpsilon, "item %s", it.ID)
	}
}

func TestPageCount(t *testing.T) {
	tests := []struct {
		name   string
		height float64
		want   int
	}{
		{"empty", 0, 1},
		{"under one page", 500, 1},
		{"exactly one page", PageHeight, 1},
		{"just over", PageHeight + 1, 2},
		{"three pages", PageHeight*2 + 50, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := &Tree{Height: tt.height}
			assert.Equal(t, tt.want, tree.PageCount())
		})
	}
}
