package layout

import "sort"

// boundaryEpsilon absorbs float error when testing whether an item ends
// exactly on a page boundary.
const boundaryEpsilon = 0.01

// Paginate walks each column of the tree once, top to bottom, pushing any
// atomic item that would straddle a page boundary down to the top of the
// next page plus PageBreakBuffer. Accumulated shift carries forward so the
// gaps between items below a push are preserved.
//
// Items whose bottom lands exactly on a boundary are left alone, as are
// zero-height items. A pushed item lands at boundary+PageBreakBuffer, so
// the tallest item a push can fit is PageHeight-PageBreakBuffer; anything
// taller cannot be placed on a single page and is left to overflow across
// the boundary.
func Paginate(tree *Tree) *Tree {
	byColumn := make(map[int][]*Item)
	for _, it := range tree.Items {
		byColumn[it.Column] = append(byColumn[it.Column], it)
	}

	for _, items := range byColumn {
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Bounds().Top() < items[j].Bounds().Top()
		})

		shift := 0.0
		for _, it := range items {
			if shift != 0 {
				it.Translate(0, shift)
			}
			b := it.Bounds()
			if b.Height <= 0 {
				continue
			}
			if b.Height > PageHeight-PageBreakBuffer {
				continue
			}
			pageIdx := int(b.Top() / PageHeight)
			boundary := float64(pageIdx+1) * PageHeight
			if b.Bottom() > boundary+boundaryEpsilon {
				delta := boundary - b.Top() + PageBreakBuffer
				it.Translate(0, delta)
				shift += delta
			}
		}
	}

	tree.recomputeHeight()
	return tree
}
