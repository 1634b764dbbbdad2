package export

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/jung-kurt/gofpdf"

	"careerstealth/internal/errors"
	"careerstealth/internal/layout"
)

// assemblePDF slices the raster canvas into letter pages and builds the
// final document: one full-bleed image per page plus an invisible link
// rectangle for each hyperlink region, converted back from canvas points.
func assemblePDF(canvas *image.RGBA, scale float64, pageCount int, links []PageLink) ([]byte, error) {
	pdf := gofpdf.New("P", "pt", "Letter", "")
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)

	opts := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}

	for page := 0; page < pageCount; page++ {
		var buf bytes.Buffer
		if err := png.Encode(&buf, slicePage(canvas, scale, page)); err != nil {
			return nil, errors.NewExportError(errors.ErrCodePDFAssembly,
				fmt.Sprintf("failed to encode page %d", page+1), err)
		}

		name := fmt.Sprintf("page-%d", page)
		pdf.RegisterImageOptionsReader(name, opts, &buf)
		pdf.AddPage()
		pdf.ImageOptions(name, 0, 0, layout.PageWidth, layout.PageHeight, false, opts, 0, "")

		for _, link := range links {
			if link.Page != page {
				continue
			}
			pdf.LinkString(link.Rect.X, link.Rect.Y, link.Rect.Width, link.Rect.Height, link.URL)
		}
	}

	if pdf.Err() {
		return nil, errors.NewExportError(errors.ErrCodePDFAssembly, "pdf generation failed", pdf.Error())
	}

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, errors.NewExportError(errors.ErrCodePDFAssembly, "failed to write pdf", err)
	}
	return out.Bytes(), nil
}
