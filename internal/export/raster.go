package export

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"careerstealth/internal/errors"
	"careerstealth/internal/layout"
	"careerstealth/internal/template"
)

// highlightBg is the background used for keyword runs. Styling is
// background-only; text color and weight never change under highlighting.
var highlightBg = color.RGBA{R: 0xfe, G: 0xf0, B: 0x8a, A: 0xff}

func roleColor(theme template.ColorTheme, role layout.ColorRole) color.RGBA {
	switch role {
	case layout.RolePrimary:
		return theme.Primary
	case layout.RoleAccent:
		return theme.Accent
	case layout.RoleSubtle:
		return theme.Subtle
	case layout.RoleHighlightBg:
		return highlightBg
	default:
		return theme.Body
	}
}

// rasterize draws the whole paginated tree onto one tall RGBA canvas at
// the given oversampling scale. The canvas height covers pageCount full
// pages so the last page slices out with a white remainder instead of a
// short image.
func rasterize(tree *layout.Tree, theme template.ColorTheme, m *layout.Measurer, scale float64, pageCount int) (*image.RGBA, error) {
	width := int(math.Ceil(layout.PageWidth * scale))
	height := pageTopPx(scale, pageCount)
	if width <= 0 || height <= 0 {
		return nil, errors.NewExportError(errors.ErrCodeRasterFailed, "empty raster dimensions", nil)
	}

	canvas := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)

	for _, it := range tree.Items {
		for _, box := range it.Boxes {
			switch box.Kind {
			case layout.BoxHighlight:
				fillRect(canvas, box.Rect, scale, roleColor(theme, box.Color))
			case layout.BoxRule:
				fillRect(canvas, box.Rect, scale, roleColor(theme, box.Color))
			case layout.BoxText:
				if err := drawText(canvas, box, theme, m, scale); err != nil {
					return nil, err
				}
			}
		}
	}
	return canvas, nil
}

func fillRect(canvas *image.RGBA, r layout.Rect, scale float64, c color.RGBA) {
	px := image.Rect(
		int(math.Round(r.Left()*scale)),
		int(math.Round(r.Top()*scale)),
		int(math.Round(r.Right()*scale)),
		int(math.Round(r.Bottom()*scale)),
	)
	if px.Dy() < 1 {
		px.Max.Y = px.Min.Y + 1
	}
	draw.Draw(canvas, px, image.NewUniform(c), image.Point{}, draw.Over)
}

// drawText renders one measured line. The face is built at the scaled
// size from the same font bytes the layout measured with, so glyph
// positions agree with the box geometry up to rounding.
func drawText(canvas *image.RGBA, box layout.Box, theme template.ColorTheme, m *layout.Measurer, scale float64) error {
	face, err := m.Face(box.Font, box.Size*scale, box.Bold)
	if err != nil {
		return errors.NewExportError(errors.ErrCodeRasterFailed, "font face unavailable", err)
	}
	ascent, err := m.Ascent(box.Font, box.Size, box.Bold)
	if err != nil {
		return errors.NewExportError(errors.ErrCodeRasterFailed, "font metrics unavailable", err)
	}

	drawer := &font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(roleColor(theme, box.Color)),
		Face: face,
		Dot: fixed.Point26_6{
			X: fixed.Int26_6(math.Round(box.Rect.Left() * scale * 64)),
			Y: fixed.Int26_6(math.Round((box.Rect.Top() + ascent) * scale * 64)),
		},
	}
	drawer.DrawString(box.Text)
	return nil
}

// pageTopPx maps a page index to its pixel offset on the tall canvas.
// Rounding the scaled position, not multiplying a per-page pixel height,
// keeps slice origins within half a pixel of drawn content at
// non-integral scales.
func pageTopPx(scale float64, page int) int {
	return int(math.Round(float64(page) * layout.PageHeight * scale))
}

// slicePage returns the sub-image for the 0-based page index.
func slicePage(canvas *image.RGBA, scale float64, page int) *image.RGBA {
	rect := image.Rect(0, pageTopPx(scale, page), canvas.Bounds().Dx(), pageTopPx(scale, page+1))
	return canvas.SubImage(rect).(*image.RGBA)
}
