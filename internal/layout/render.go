package layout

import (
	"fmt"
	"strings"

	"careerstealth/internal/document"
	"careerstealth/internal/errors"
	"careerstealth/internal/template"
)

// Spacing selects the vertical rhythm of the rendered document.
type Spacing int

const (
	SpacingCompact Spacing = iota
	SpacingNormal
	SpacingOpen
)

func (s Spacing) String() string {
	switch s {
	case SpacingCompact:
		return "compact"
	case SpacingNormal:
		return "normal"
	case SpacingOpen:
		return "open"
	}
	return fmt.Sprintf("Spacing(%d)", int(s))
}

// ParseSpacing maps a config string to a Spacing value.
func ParseSpacing(s string) (Spacing, error) {
	switch s {
	case "compact":
		return SpacingCompact, nil
	case "normal", "":
		return SpacingNormal, nil
	case "open":
		return SpacingOpen, nil
	}
	return SpacingNormal, errors.NewValidationError(errors.ErrCodeInvalidRequest,
		fmt.Sprintf("unknown spacing %q", s), nil)
}

// gap between items in em units of the body size.
func (s Spacing) itemGap(fontSize float64) float64 {
	switch s {
	case SpacingCompact:
		return 0.25 * fontSize
	case SpacingOpen:
		return 1.0 * fontSize
	default:
		return 0.5 * fontSize
	}
}

// Span marks a half-open byte range of a line that should receive a
// highlight background.
type Span struct {
	Start int
	End   int
}

// Decorator inspects a rendered text line and returns the spans to put a
// background behind. Decorators may only add background runs; they cannot
// change text or metrics.
type Decorator func(line string) []Span

// Options are the per-render knobs on top of the template.
type Options struct {
	FontSize  float64 // body size in points; zero means DefaultFontSize
	Spacing   Spacing
	Decorator Decorator
}

// DefaultFontSize is the body size used when none is configured.
const DefaultFontSize = 10.5

// Renderer turns a document plus template into a measured box tree.
type Renderer struct {
	m *Measurer
}

func NewRenderer(m *Measurer) *Renderer {
	return &Renderer{m: m}
}

// flow is a cursor down one column of the canvas.
type flow struct {
	column int
	x      float64
	width  float64
	y      float64
}

type builder struct {
	r      *Renderer
	tpl    template.Config
	opts   Options
	tree   *Tree
	nextID int
}

// Render lays the document out at the fixed page width. The result is
// pre-pagination: callers run Paginate before slicing into pages.
func (r *Renderer) Render(doc *document.Document, tpl template.Config, opts Options) (*Tree, error) {
	if doc == nil {
		return nil, errors.NewRenderError(errors.ErrCodeRenderFailed, "nil document", nil)
	}
	if opts.FontSize <= 0 {
		opts.FontSize = DefaultFontSize
	}

	b := &builder{
		r:    r,
		tpl:  tpl,
		opts: opts,
		tree: &Tree{Width: PageWidth},
	}

	header := &flow{column: 0, x: Margin, width: PageWidth - 2*Margin, y: Margin}
	if err := b.renderHeader(doc, header); err != nil {
		return nil, err
	}
	bodyTop := header.y + b.sectionGap()

	var err error
	switch tpl.Layout {
	case template.LayoutSidebarLeft, template.LayoutSidebarRight:
		err = b.renderSidebarBody(doc, bodyTop)
	default:
		err = b.renderSingleColumnBody(doc, bodyTop)
	}
	if err != nil {
		return nil, err
	}

	b.tree.recomputeHeight()
	return b.tree, nil
}

func (b *builder) sectionGap() float64 {
	gap := 2.5 * b.opts.Spacing.itemGap(b.opts.FontSize)
	if b.tpl.Layout == template.LayoutDenseClassic {
		gap *= 0.7
	}
	return gap
}

func (b *builder) newItem(column int) *Item {
	b.nextID++
	it := &Item{ID: fmt.Sprintf("it-%04d", b.nextID), Column: column}
	b.tree.Items = append(b.tree.Items, it)
	return it
}

// addTextLines wraps text into the flow width and appends the lines as
// boxes on the given item, advancing the flow. The decorator, when set,
// contributes background runs behind the matched spans.
func (b *builder) addTextLines(it *Item, f *flow, text string, size float64, bold bool, font template.FontFamily, role ColorRole, linkURL string) error {
	lines, err := b.r.m.Wrap(text, font, size, bold, f.width)
	if err != nil {
		return errors.NewRenderError(errors.ErrCodeRenderFailed, "text measurement failed", err)
	}
	lineHeight, err := b.r.m.LineHeight(font, size, bold)
	if err != nil {
		return errors.NewRenderError(errors.ErrCodeRenderFailed, "line metrics failed", err)
	}

	for _, line := range lines {
		w, err := b.r.m.TextWidth(line, font, size, bold)
		if err != nil {
			return errors.NewRenderError(errors.ErrCodeRenderFailed, "text measurement failed", err)
		}
		rect := Rect{X: f.x, Y: f.y, Width: w, Height: lineHeight}

		if b.opts.Decorator != nil {
			for _, span := range b.opts.Decorator(line) {
				prefix, err := b.r.m.TextWidth(line[:span.Start], font, size, bold)
				if err != nil {
					return errors.NewRenderError(errors.ErrCodeRenderFailed, "text measurement failed", err)
				}
				matched, err := b.r.m.TextWidth(line[span.Start:span.End], font, size, bold)
				if err != nil {
					return errors.NewRenderError(errors.ErrCodeRenderFailed, "text measurement failed", err)
				}
				it.Boxes = append(it.Boxes, Box{
					Rect:  Rect{X: f.x + prefix, Y: f.y, Width: matched, Height: lineHeight},
					Kind:  BoxHighlight,
					Color: RoleHighlightBg,
				})
			}
		}

		it.Boxes = append(it.Boxes, Box{
			Rect:    rect,
			Kind:    BoxText,
			Text:    line,
			Size:    size,
			Bold:    bold,
			Font:    font,
			Color:   role,
			LinkURL: linkURL,
		})
		f.y += lineHeight
	}
	return nil
}

func (b *builder) renderHeader(doc *document.Document, f *flow) error {
	nameSize := b.opts.FontSize * 2.0
	if b.tpl.Layout == template.LayoutDenseClassic {
		nameSize = b.opts.FontSize * 1.7
	}

	it := b.newItem(f.column)
	if doc.FullName != "" {
		if err := b.addTextLines(it, f, doc.FullName, nameSize, true, b.tpl.Font, RolePrimary, ""); err != nil {
			return err
		}
	}
	if doc.Title != "" {
		if err := b.addTextLines(it, f, doc.Title, b.opts.FontSize*1.2, false, b.tpl.Font, RoleAccent, ""); err != nil {
			return err
		}
	}
	if doc.ContactInfo != "" {
		if err := b.addTextLines(it, f, doc.ContactInfo, b.opts.FontSize*0.9, false, b.tpl.Font, RoleSubtle, ""); err != nil {
			return err
		}
	}

	// Social links sit on one shared line where they fit, each its own
	// link region.
	if len(doc.SocialLinks) > 0 {
		size := b.opts.FontSize * 0.9
		lineHeight, err := b.r.m.LineHeight(b.tpl.Font, size, false)
		if err != nil {
			return errors.NewRenderError(errors.ErrCodeRenderFailed, "line metrics failed", err)
		}
		sepWidth, err := b.r.m.TextWidth("   ", b.tpl.Font, size, false)
		if err != nil {
			return errors.NewRenderError(errors.ErrCodeRenderFailed, "text measurement failed", err)
		}
		x := f.x
		for _, link := range doc.SocialLinks {
			label := link.Platform
			if label == "" {
				label = link.URL
			}
			w, err := b.r.m.TextWidth(label, b.tpl.Font, size, false)
			if err != nil {
				return errors.NewRenderError(errors.ErrCodeRenderFailed, "text measurement failed", err)
			}
			if x > f.x && x+w > f.x+f.width {
				x = f.x
				f.y += lineHeight
			}
			it.Boxes = append(it.Boxes, Box{
				Rect:    Rect{X: x, Y: f.y, Width: w, Height: lineHeight},
				Kind:    BoxText,
				Text:    label,
				Size:    size,
				Font:    b.tpl.Font,
				Color:   RoleAccent,
				LinkURL: link.URL,
			})
			x += w + sepWidth
		}
		f.y += lineHeight
	}
	return nil
}

func (b *builder) renderSectionHeading(f *flow, title string) error {
	it := b.newItem(f.column)
	size := b.opts.FontSize * 1.1
	if err := b.addTextLines(it, f, strings.ToUpper(title), size, true, b.tpl.Font, RolePrimary, ""); err != nil {
		return err
	}
	rule := Box{
		Rect:  Rect{X: f.x, Y: f.y + 1, Width: f.width, Height: 0.8},
		Kind:  BoxRule,
		Color: RoleAccent,
	}
	it.Boxes = append(it.Boxes, rule)
	f.y += 4
	return nil
}

func (b *builder) itemGap() float64 {
	return b.opts.Spacing.itemGap(b.opts.FontSize)
}

// renderBullet emits one bullet point as its own atomic item with a
// hanging indent.
func (b *builder) renderBullet(f *flow, text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	it := b.newItem(f.column)
	size := b.opts.FontSize
	bulletWidth, err := b.r.m.TextWidth("•  ", b.tpl.Font, size, false)
	if err != nil {
		return errors.NewRenderError(errors.ErrCodeRenderFailed, "text measurement failed", err)
	}
	lineHeight, err := b.r.m.LineHeight(b.tpl.Font, size, false)
	if err != nil {
		return errors.NewRenderError(errors.ErrCodeRenderFailed, "line metrics failed", err)
	}
	it.Boxes = append(it.Boxes, Box{
		Rect:  Rect{X: f.x, Y: f.y, Width: bulletWidth, Height: lineHeight},
		Kind:  BoxText,
		Text:  "•",
		Size:  size,
		Font:  b.tpl.Font,
		Color: RoleSubtle,
	})
	indented := &flow{column: f.column, x: f.x + bulletWidth, width: f.width - bulletWidth, y: f.y}
	if err := b.addTextLines(it, indented, text, size, false, b.tpl.Font, RoleBody, ""); err != nil {
		return err
	}
	f.y = indented.y + b.itemGap()*0.5
	return nil
}

func (b *builder) renderParagraph(f *flow, text string, role ColorRole) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	it := b.newItem(f.column)
	if err := b.addTextLines(it, f, text, b.opts.FontSize, false, b.tpl.Font, role, ""); err != nil {
		return err
	}
	f.y += b.itemGap() * 0.5
	return nil
}

func (b *builder) renderSkillList(f *flow, title string, skills []string) error {
	if len(skills) == 0 {
		return nil
	}
	if err := b.renderSectionHeading(f, title); err != nil {
		return err
	}
	if err := b.renderParagraph(f, strings.Join(skills, " · "), RoleBody); err != nil {
		return err
	}
	f.y += b.sectionGap() - b.itemGap()*0.5
	return nil
}

func (b *builder) renderExperienceSection(f *flow, title string, items []document.ExperienceItem) error {
	if len(items) == 0 {
		return nil
	}
	if err := b.renderSectionHeading(f, title); err != nil {
		return err
	}
	for i, entry := range items {
		it := b.newItem(f.column)
		head := entry.Role
		if entry.Company != "" {
			head += " — " + entry.Company
		}
		if head != "" {
			if err := b.addTextLines(it, f, head, b.opts.FontSize, true, b.tpl.Font, RoleBody, ""); err != nil {
				return err
			}
		}
		if entry.Duration != "" {
			if err := b.addTextLines(it, f, entry.Duration, b.opts.FontSize*0.9, false, b.tpl.Font, RoleSubtle, ""); err != nil {
				return err
			}
		}
		for _, point := range entry.Points {
			if err := b.renderBullet(f, point); err != nil {
				return err
			}
		}
		if i < len(items)-1 {
			f.y += b.itemGap()
		}
	}
	f.y += b.sectionGap()
	return nil
}

func (b *builder) renderEducationSection(f *flow, items []document.EducationItem) error {
	if len(items) == 0 {
		return nil
	}
	if err := b.renderSectionHeading(f, "Education"); err != nil {
		return err
	}
	for i, entry := range items {
		it := b.newItem(f.column)
		if entry.Degree != "" {
			if err := b.addTextLines(it, f, entry.Degree, b.opts.FontSize, true, b.tpl.Font, RoleBody, ""); err != nil {
				return err
			}
		}
		schoolLine := entry.School
		if entry.Year != "" {
			schoolLine = strings.TrimSpace(schoolLine + ", " + entry.Year)
			schoolLine = strings.TrimPrefix(schoolLine, ", ")
		}
		if schoolLine != "" {
			if err := b.addTextLines(it, f, schoolLine, b.opts.FontSize*0.9, false, b.tpl.Font, RoleSubtle, ""); err != nil {
				return err
			}
		}
		for _, extra := range []struct{ label, value string }{
			{"GPA", entry.GPA},
			{"Coursework", entry.Coursework},
			{"Honors", entry.Honors},
		} {
			if extra.value == "" {
				continue
			}
			if err := b.addTextLines(it, f, extra.label+": "+extra.value, b.opts.FontSize*0.9, false, b.tpl.Font, RoleBody, ""); err != nil {
				return err
			}
		}
		if i < len(items)-1 {
			f.y += b.itemGap()
		}
	}
	f.y += b.sectionGap()
	return nil
}

func (b *builder) renderProjectSection(f *flow, items []document.ProjectItem) error {
	if len(items) == 0 {
		return nil
	}
	if err := b.renderSectionHeading(f, "Projects"); err != nil {
		return err
	}
	for i, entry := range items {
		if entry.Title != "" {
			it := b.newItem(f.column)
			role := RoleBody
			if entry.Link != "" {
				role = RoleAccent
			}
			if err := b.addTextLines(it, f, entry.Title, b.opts.FontSize, true, b.tpl.Font, role, entry.Link); err != nil {
				return err
			}
		}
		for _, point := range entry.Points {
			if err := b.renderBullet(f, point); err != nil {
				return err
			}
		}
		if i < len(items)-1 {
			f.y += b.itemGap()
		}
	}
	f.y += b.sectionGap()
	return nil
}

func (b *builder) renderCertificationSection(f *flow, items []document.CertificationItem) error {
	if len(items) == 0 {
		return nil
	}
	if err := b.renderSectionHeading(f, "Certifications"); err != nil {
		return err
	}
	for i, entry := range items {
		it := b.newItem(f.column)
		role := RoleBody
		if entry.URL != "" {
			role = RoleAccent
		}
		if entry.Name != "" {
			if err := b.addTextLines(it, f, entry.Name, b.opts.FontSize, true, b.tpl.Font, role, entry.URL); err != nil {
				return err
			}
		}
		meta := entry.Issuer
		if entry.Date != "" {
			meta = strings.TrimSpace(meta + ", " + entry.Date)
			meta = strings.TrimPrefix(meta, ", ")
		}
		if meta != "" {
			if err := b.addTextLines(it, f, meta, b.opts.FontSize*0.9, false, b.tpl.Font, RoleSubtle, ""); err != nil {
				return err
			}
		}
		if i < len(items)-1 {
			f.y += b.itemGap()
		}
	}
	f.y += b.sectionGap()
	return nil
}

func (b *builder) renderSummary(f *flow, summary string) error {
	if strings.TrimSpace(summary) == "" {
		return nil
	}
	if err := b.renderSectionHeading(f, "Summary"); err != nil {
		return err
	}
	if err := b.renderParagraph(f, summary, RoleBody); err != nil {
		return err
	}
	f.y += b.sectionGap() - b.itemGap()*0.5
	return nil
}

func (b *builder) renderSingleColumnBody(doc *document.Document, top float64) error {
	f := &flow{column: 0, x: Margin, width: PageWidth - 2*Margin, y: top}

	if err := b.renderSummary(f, doc.Summary); err != nil {
		return err
	}
	if err := b.renderSkillList(f, "Skills", doc.Skills); err != nil {
		return err
	}
	if err := b.renderSkillList(f, "Soft Skills", doc.SoftSkills); err != nil {
		return err
	}
	if err := b.renderExperienceSection(f, "Experience", doc.Experience); err != nil {
		return err
	}
	if err := b.renderEducationSection(f, doc.Education); err != nil {
		return err
	}
	if err := b.renderProjectSection(f, doc.Projects); err != nil {
		return err
	}
	if err := b.renderCertificationSection(f, doc.Certifications); err != nil {
		return err
	}
	return b.renderExperienceSection(f, "Leadership & Activities", doc.Activities)
}

func (b *builder) renderSidebarBody(doc *document.Document, top float64) error {
	inner := PageWidth - 2*Margin
	gutter := 18.0
	sidebarWidth := inner*b.tpl.SidebarFraction - gutter/2
	mainWidth := inner - sidebarWidth - gutter

	sidebarX := Margin
	mainX := Margin + sidebarWidth + gutter
	if b.tpl.Layout == template.LayoutSidebarRight {
		mainX = Margin
		sidebarX = Margin + mainWidth + gutter
	}

	sidebar := &flow{column: 0, x: sidebarX, width: sidebarWidth, y: top}
	main := &flow{column: 1, x: mainX, width: mainWidth, y: top}

	if err := b.renderSkillList(sidebar, "Skills", doc.Skills); err != nil {
		return err
	}
	if err := b.renderSkillList(sidebar, "Soft Skills", doc.SoftSkills); err != nil {
		return err
	}
	if err := b.renderEducationSection(sidebar, doc.Education); err != nil {
		return err
	}
	if err := b.renderCertificationSection(sidebar, doc.Certifications); err != nil {
		return err
	}

	if err := b.renderSummary(main, doc.Summary); err != nil {
		return err
	}
	if err := b.renderExperienceSection(main, "Experience", doc.Experience); err != nil {
		return err
	}
	if err := b.renderProjectSection(main, doc.Projects); err != nil {
		return err
	}
	return b.renderExperienceSection(main, "Leadership & Activities", doc.Activities)
}
