package export

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"careerstealth/internal/document"
	"careerstealth/internal/layout"
)

func exportDoc(extraEntries int) *document.Document {
	doc := &document.Document{
		FullName:    "Jane Q. Public",
		Title:       "Platform Engineer",
		ContactInfo: "jane@example.com",
		SocialLinks: []document.SocialLink{
			{ID: "sl-1", Platform: "GitHub", URL: "https://github.com/janeq"},
			{ID: "sl-2", Platform: "LinkedIn", URL: "https://linkedin.com/in/janeq"},
		},
		Summary: "Engineer with eight years building data platforms.",
		Skills:  []string{"Go", "AWS", "Terraform", "Kubernetes"},
	}
	for i := 0; i < 2+extraEntries; i++ {
		doc.Experience = append(doc.Experience, document.ExperienceItem{
			ID:       fmt.Sprintf("exp-%d", i),
			Role:     "Senior Engineer",
			Company:  "Acme",
			Duration: "2020-2024",
			Points: []string{
				"Led the cloud migration program across four product teams and two regions.",
				"Cut continuous integration build times by forty percent through cache tuning.",
				"Mentored six engineers through promotion cycles.",
			},
		})
	}
	doc.Normalize()
	return doc
}

func TestFilename(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Jane Q. Public", "Jane_Q._Public_Resume.pdf"},
		{"collapses runs", "Jane   Q.   Public", "Jane_Q._Public_Resume.pdf"},
		{"leading and trailing space", "  Jane Public  ", "Jane_Public_Resume.pdf"},
		{"empty", "", "Resume.pdf"},
		{"only whitespace", "   ", "Resume.pdf"},
		{"tabs and newlines", "Jane\tQ.\nPublic", "Jane_Q._Public_Resume.pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Filename(tt.in))
		})
	}
}

func TestExportPDFProducesArtifact(t *testing.T) {
	e := New(nil)

	artifact, err := e.ExportPDF(context.Background(), exportDoc(0), Options{})
	require.NoError(t, err)

	assert.Equal(t, "Jane_Q._Public_Resume.pdf", artifact.Filename)
	assert.GreaterOrEqual(t, artifact.PageCount, 1)
	assert.True(t, bytes.HasPrefix(artifact.Data, []byte("%PDF")), "artifact is not a PDF")
	assert.Len(t, artifact.Links, 2)
}

func TestExportPDFMultiPageLinkProjection(t *testing.T) {
	e := New(nil)
	doc := exportDoc(12)
	doc.Projects = []document.ProjectItem{
		{ID: "p-1", Title: "careerstealth", Link: "https://example.com/project",
			Points: []string{"Rendering and pagination engine for resume export."}},
	}

	artifact, err := e.ExportPDF(context.Background(), doc, Options{})
	require.NoError(t, err)
	require.Greater(t, artifact.PageCount, 1, "document should span multiple pages")

	var projectLink *PageLink
	for i := range artifact.Links {
		if artifact.Links[i].URL == "https://example.com/project" {
			projectLink = &artifact.Links[i]
		}
	}
	require.NotNil(t, projectLink)

	// Page-local coordinates stay within the page box.
	assert.GreaterOrEqual(t, projectLink.Page, 0)
	assert.Less(t, projectLink.Page, artifact.PageCount)
	assert.GreaterOrEqual(t, projectLink.Rect.Y, 0.0)
	assert.LessOrEqual(t, projectLink.Rect.Bottom(), layout.PageHeight)
}

func TestExportPDFIsIdempotentWhenIdle(t *testing.T) {
	e := New(nil)
	doc := exportDoc(12)

	first, err := e.ExportPDF(context.Background(), doc, Options{})
	require.NoError(t, err)
	second, err := e.ExportPDF(context.Background(), doc, Options{})
	require.NoError(t, err)

	assert.Equal(t, first.PageCount, second.PageCount)
	assert.Equal(t, first.Links, second.Links)
	assert.Equal(t, first.Filename, second.Filename)
}

func TestExportPDFUnknownTemplateAborts(t *testing.T) {
	e := New(nil)

	artifact, err := e.ExportPDF(context.Background(), exportDoc(0), Options{TemplateID: "nope"})
	assert.Error(t, err)
	assert.Nil(t, artifact)

	// The guard is released on failure.
	_, err = e.ExportPDF(context.Background(), exportDoc(0), Options{})
	assert.NoError(t, err)
}

func TestExportPDFRejectsConcurrentExport(t *testing.T) {
	e := New(nil)
	require.True(t, e.busy.CompareAndSwap(false, true))

	var wg sync.WaitGroup
	wg.Add(1)
	var err error
	go func() {
		defer wg.Done()
		_, err = e.ExportPDF(context.Background(), exportDoc(0), Options{})
	}()
	wg.Wait()

	require.Error(t, err)
	e.busy.Store(false)
}

func TestExportPDFHighlightDoesNotChangeGeometry(t *testing.T) {
	e := New(nil)
	doc := exportDoc(4)

	plain, err := e.ExportPDF(context.Background(), doc, Options{})
	require.NoError(t, err)
	highlighted, err := e.ExportPDF(context.Background(), doc, Options{Keywords: []string{"AWS", "C++"}})
	require.NoError(t, err)

	assert.Equal(t, plain.PageCount, highlighted.PageCount)
	assert.Equal(t, plain.Links, highlighted.Links)
}

func TestPageSlicesStayAlignedAtFractionalScale(t *testing.T) {
	const scale = 1.3
	const pages = 4

	canvas := image.NewRGBA(image.Rect(0, 0, 10, pageTopPx(scale, pages)))

	for page := 0; page < pages; page++ {
		slice := slicePage(canvas, scale, page)

		// The slice origin never drifts more than half a pixel from the
		// position content was drawn at.
		drawn := float64(page) * layout.PageHeight * scale
		assert.LessOrEqual(t, math.Abs(float64(slice.Bounds().Min.Y)-drawn), 0.5,
			"page %d origin drifted from drawn content", page)
	}

	// Slices tile the canvas exactly: no gaps, no overlap.
	for page := 1; page < pages; page++ {
		assert.Equal(t, slicePage(canvas, scale, page-1).Bounds().Max.Y,
			slicePage(canvas, scale, page).Bounds().Min.Y)
	}
	assert.Equal(t, canvas.Bounds().Max.Y, slicePage(canvas, scale, pages-1).Bounds().Max.Y)
}

func TestExportLaTeXEscapesSpecials(t *testing.T) {
	doc := exportDoc(0)
	doc.FullName = "Jane & Co. 100% #1_{dev}"

	out := ExportLaTeX(doc)
	assert.Contains(t, out, `Jane \& Co. 100\% \#1\_\{dev\}`)
	assert.Contains(t, out, `\begin{document}`)
	assert.Contains(t, out, `\end{document}`)
}

func TestExportLaTeXCarriesGPAAndLinks(t *testing.T) {
	doc := exportDoc(0)
	doc.Education = []document.EducationItem{
		{ID: "edu-1", Degree: "BS Computer Science", School: "State University", Year: "2014", GPA: "3.9"},
		{ID: "edu-2", Degree: "MS Data Science", School: "Tech Institute", Year: "2016"},
	}
	doc.Certifications = []document.CertificationItem{
		{ID: "c-1", Name: "CKA", Issuer: "CNCF", Date: "2022", URL: "https://example.com/verify/cka"},
	}
	doc.Projects = []document.ProjectItem{
		{ID: "p-1", Title: "Pipelines", Link: "https://example.com/pipelines", Points: []string{"Built it."}},
	}

	out := ExportLaTeX(doc)
	assert.Contains(t, out, `\textbf{BS Computer Science}, State University (GPA: 3.9) \hfill 2014`)
	assert.Contains(t, out, `\textbf{MS Data Science}, Tech Institute \hfill 2016`)
	assert.Contains(t, out, `\url{https://example.com/verify/cka}`)
	assert.Contains(t, out, `\url{https://example.com/pipelines}`)
}

func TestEscapeLaTeX(t *testing.T) {
	assert.Equal(t, `\&\%\$\#\_\{\}`, EscapeLaTeX(`&%$#_{}`))
	assert.Equal(t, "plain text", EscapeLaTeX("plain text"))
}
