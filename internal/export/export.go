// Package export turns a document into a downloadable artifact. The PDF
// path renders the document at the fixed page width, paginates it,
// rasterizes the whole tree once at an oversampling scale, slices the
// raster into US Letter pages and re-projects hyperlink regions onto
// their owning pages.
package export

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"sync/atomic"

	"careerstealth/internal/document"
	"careerstealth/internal/errors"
	"careerstealth/internal/highlight"
	"careerstealth/internal/layout"
	"careerstealth/internal/template"
)

// Options select the visual treatment for one export.
type Options struct {
	TemplateID string
	Spacing    layout.Spacing
	FontSize   float64
	Scale      float64  // raster oversampling factor, clamped to [1, 4]
	Keywords   []string // non-empty enables keyword highlighting
}

// DefaultScale is the raster oversampling used when none is configured.
const DefaultScale = 2.0

// PageLink is a hyperlink region in page-local points.
type PageLink struct {
	Page int         `json:"page"` // 0-based
	URL  string      `json:"url"`
	Rect layout.Rect `json:"rect"`
}

// Artifact is a completed export.
type Artifact struct {
	Filename  string
	Data      []byte
	PageCount int
	Links     []PageLink
}

// Exporter runs the PDF pipeline. A single exporter allows one export at
// a time; a second concurrent call fails fast instead of queueing.
type Exporter struct {
	renderer *layout.Renderer
	measurer *layout.Measurer
	logger   *errors.Logger
	busy     atomic.Bool
}

func New(logger *errors.Logger) *Exporter {
	m := layout.NewMeasurer()
	return &Exporter{
		renderer: layout.NewRenderer(m),
		measurer: m,
		logger:   logger,
	}
}

// ExportPDF produces the PDF artifact for the document. Any stage failure
// aborts the whole export; no partial artifact is ever returned.
func (e *Exporter) ExportPDF(ctx context.Context, doc *document.Document, opts Options) (*Artifact, error) {
	if !e.busy.CompareAndSwap(false, true) {
		return nil, errors.NewExportError(errors.ErrCodeExportInFlight, "an export is already running", nil)
	}
	defer e.busy.Store(false)

	tree, tpl, err := e.layOut(doc, opts)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.NewExportError(errors.ErrCodeRenderFailed, "export canceled", err)
	}

	pageCount := tree.PageCount()
	links := projectLinks(tree.Links())

	scale := opts.Scale
	if scale == 0 {
		scale = DefaultScale
	}
	if scale < 1 {
		scale = 1
	}
	if scale > 4 {
		scale = 4
	}

	canvas, err := rasterize(tree, tpl.Theme, e.measurer, scale, pageCount)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.NewExportError(errors.ErrCodeRasterFailed, "export canceled", err)
	}

	data, err := assemblePDF(canvas, scale, pageCount, links)
	if err != nil {
		return nil, err
	}

	if e.logger != nil {
		e.logger.Debug("export complete",
			"pages", pageCount,
			"links", len(links),
			"bytes", len(data),
		)
	}

	return &Artifact{
		Filename:  Filename(doc.FullName),
		Data:      data,
		PageCount: pageCount,
		Links:     links,
	}, nil
}

// layOut renders and paginates the document under the export options.
func (e *Exporter) layOut(doc *document.Document, opts Options) (*layout.Tree, template.Config, error) {
	id := opts.TemplateID
	if id == "" {
		id = template.Default
	}
	tpl, err := template.Get(id)
	if err != nil {
		return nil, template.Config{}, err
	}

	renderOpts := layout.Options{
		FontSize:  opts.FontSize,
		Spacing:   opts.Spacing,
		Decorator: highlight.NewDecorator(opts.Keywords),
	}
	tree, err := e.renderer.Render(doc, tpl, renderOpts)
	if err != nil {
		return nil, template.Config{}, err
	}
	return layout.Paginate(tree), tpl, nil
}

// projectLinks maps canvas-space link rectangles onto pages. A link
// belongs to the page containing its vertical midpoint; its rectangle is
// rebased to that page's local coordinates.
func projectLinks(links []layout.Link) []PageLink {
	out := make([]PageLink, 0, len(links))
	for _, l := range links {
		page := int(l.Rect.MidY() / layout.PageHeight)
		if page < 0 {
			page = 0
		}
		rect := l.Rect
		rect.Y -= float64(page) * layout.PageHeight
		out = append(out, PageLink{Page: page, URL: l.URL, Rect: rect})
	}
	return out
}

// IsInFlight reports whether err is the rejection returned when an
// export is already running.
func IsInFlight(err error) bool {
	var appErr *errors.AppError
	return stderrors.As(err, &appErr) && appErr.Code == errors.ErrCodeExportInFlight
}

// Filename derives the artifact name from the candidate's full name,
// collapsing whitespace runs to single underscores.
func Filename(fullName string) string {
	fields := strings.Fields(fullName)
	if len(fields) == 0 {
		return "Resume.pdf"
	}
	return fmt.Sprintf("%s_Resume.pdf", strings.Join(fields, "_"))
}
