package export

import (
	"fmt"
	"strings"

	"careerstealth/internal/document"
)

var latexEscaper = strings.NewReplacer(
	`&`, `\&`,
	`%`, `\%`,
	`$`, `\$`,
	`#`, `\#`,
	`_`, `\_`,
	`{`, `\{`,
	`}`, `\}`,
)

// EscapeLaTeX escapes the characters LaTeX treats as special in body text.
func EscapeLaTeX(s string) string {
	return latexEscaper.Replace(s)
}

// ExportLaTeX renders the document as a self-contained article source.
// This path is text-only; templates and pagination do not apply.
func ExportLaTeX(doc *document.Document) string {
	var b strings.Builder

	b.WriteString("\\documentclass[10pt]{article}\n")
	b.WriteString("\\usepackage[margin=0.6in]{geometry}\n")
	b.WriteString("\\usepackage{hyperref}\n")
	b.WriteString("\\pagestyle{empty}\n")
	b.WriteString("\\begin{document}\n\n")

	fmt.Fprintf(&b, "\\begin{center}\n{\\LARGE\\bfseries %s}\\\\[2pt]\n", EscapeLaTeX(doc.FullName))
	if doc.Title != "" {
		fmt.Fprintf(&b, "%s\\\\[2pt]\n", EscapeLaTeX(doc.Title))
	}
	if doc.ContactInfo != "" {
		fmt.Fprintf(&b, "{\\small %s}\\\\\n", EscapeLaTeX(doc.ContactInfo))
	}
	for _, link := range doc.SocialLinks {
		fmt.Fprintf(&b, "{\\small \\href{%s}{%s}}\\quad\n", link.URL, EscapeLaTeX(link.Platform))
	}
	b.WriteString("\\end{center}\n\n")

	if doc.Summary != "" {
		b.WriteString("\\section*{Summary}\n")
		b.WriteString(EscapeLaTeX(doc.Summary) + "\n\n")
	}
	if len(doc.Skills) > 0 {
		b.WriteString("\\section*{Skills}\n")
		escaped := make([]string, len(doc.Skills))
		for i, s := range doc.Skills {
			escaped[i] = EscapeLaTeX(s)
		}
		b.WriteString(strings.Join(escaped, " \\textbullet{} ") + "\n\n")
	}

	writeExperience := func(title string, items []document.ExperienceItem) {
		if len(items) == 0 {
			return
		}
		fmt.Fprintf(&b, "\\section*{%s}\n", title)
		for _, item := range items {
			fmt.Fprintf(&b, "\\textbf{%s} --- %s \\hfill %s\n",
				EscapeLaTeX(item.Role), EscapeLaTeX(item.Company), EscapeLaTeX(item.Duration))
			if len(item.Points) > 0 {
				b.WriteString("\\begin{itemize}\n")
				for _, p := range item.Points {
					b.WriteString("  \\item " + EscapeLaTeX(p) + "\n")
				}
				b.WriteString("\\end{itemize}\n")
			}
		}
		b.WriteString("\n")
	}

	writeExperience("Experience", doc.Experience)

	if len(doc.Education) > 0 {
		b.WriteString("\\section*{Education}\n")
		for _, e := range doc.Education {
			fmt.Fprintf(&b, "\\textbf{%s}, %s", EscapeLaTeX(e.Degree), EscapeLaTeX(e.School))
			if e.GPA != "" {
				fmt.Fprintf(&b, " (GPA: %s)", EscapeLaTeX(e.GPA))
			}
			fmt.Fprintf(&b, " \\hfill %s\\\\\n", EscapeLaTeX(e.Year))
		}
		b.WriteString("\n")
	}

	if len(doc.Projects) > 0 {
		b.WriteString("\\section*{Projects}\n")
		for _, p := range doc.Projects {
			fmt.Fprintf(&b, "\\textbf{%s}", EscapeLaTeX(p.Title))
			if p.Link != "" {
				fmt.Fprintf(&b, " \\hfill \\url{%s}", p.Link)
			}
			b.WriteString("\n")
			if len(p.Points) > 0 {
				b.WriteString("\\begin{itemize}\n")
				for _, pt := range p.Points {
					b.WriteString("  \\item " + EscapeLaTeX(pt) + "\n")
				}
				b.WriteString("\\end{itemize}\n")
			}
		}
		b.WriteString("\n")
	}

	if len(doc.Certifications) > 0 {
		b.WriteString("\\section*{Certifications}\n")
		for _, c := range doc.Certifications {
			fmt.Fprintf(&b, "%s, %s (%s)", EscapeLaTeX(c.Name), EscapeLaTeX(c.Issuer), EscapeLaTeX(c.Date))
			if c.URL != "" {
				fmt.Fprintf(&b, " \\hfill \\url{%s}", c.URL)
			}
			b.WriteString("\\\\\n")
		}
		b.WriteString("\n")
	}

	writeExperience("Leadership \\& Activities", doc.Activities)

	b.WriteString("\\end{document}\n")
	return b.String()
}
