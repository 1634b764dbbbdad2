package formatters

import (
	"encoding/json"
	"fmt"
	"strings"

	"careerstealth/internal/document"
	"careerstealth/internal/export"
	"careerstealth/internal/types"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	registry.RegisterFormatter("json", "any", &JSONFormatter{})
	registry.RegisterFormatter("text", "AnalysisResult", &AnalysisTextFormatter{})
	registry.RegisterFormatter("markdown", "AnalysisResult", &AnalysisMarkdownFormatter{})
	registry.RegisterFormatter("text", "RescoreResult", &RescoreTextFormatter{})
	registry.RegisterFormatter("markdown", "RescoreResult", &RescoreMarkdownFormatter{})
	registry.RegisterFormatter("text", "CoverLetterResult", &CoverLetterTextFormatter{})
	registry.RegisterFormatter("markdown", "CoverLetterResult", &CoverLetterMarkdownFormatter{})
	registry.RegisterFormatter("latex", "Document", &DocumentLaTeXFormatter{})

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	// Try specific formatter first
	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		// Fall back to generic formatter
		if formatter, exists := formatters["any"]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	return formats
}

func getDataType(data any) string {
	switch data.(type) {
	case types.AnalysisResult:
		return "AnalysisResult"
	case types.RescoreResult:
		return "RescoreResult"
	case types.CoverLetterResult:
		return "CoverLetterResult"
	case document.Document, *document.Document:
		return "Document"
	default:
		return "any"
	}
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData), nil
}

func (jf *JSONFormatter) SupportedType() string {
	return "any"
}

// AnalysisTextFormatter handles text formatting for analysis results
type AnalysisTextFormatter struct{}

func (atf *AnalysisTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.AnalysisResult)
	if !ok {
		return "", fmt.Errorf("expected AnalysisResult, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== RESUME ANALYSIS ===\n\n")
	output.WriteString(fmt.Sprintf("Match Score: %d/100\n\n", result.Score))

	if len(result.MissingKeywords) > 0 {
		output.WriteString("=== MISSING KEYWORDS ===\n")
		for _, keyword := range result.MissingKeywords {
			output.WriteString(fmt.Sprintf("- %s\n", keyword))
		}
		output.WriteString("\n")
	}

	output.WriteString("=== HIRING MANAGER TAKE ===\n")
	output.WriteString(result.ManagerCritique)
	output.WriteString("\n\n")

	output.WriteString("=== FIX STRATEGY ===\n")
	output.WriteString(result.FixStrategy)
	output.WriteString("\n")

	if len(result.InterviewPrep) > 0 {
		output.WriteString("\n=== INTERVIEW PREP ===\n\n")
		for i, q := range result.InterviewPrep {
			output.WriteString(fmt.Sprintf("%d. %s\n", i+1, q.Question))
			output.WriteString("   Why they ask: ")
			output.WriteString(q.Context)
			output.WriteString("\n")
			output.WriteString("   Strong answer: ")
			output.WriteString(q.IdealAnswer)
			output.WriteString("\n\n")
		}
	}

	return output.String(), nil
}

func (atf *AnalysisTextFormatter) SupportedType() string {
	return "AnalysisResult"
}

// AnalysisMarkdownFormatter handles markdown formatting for analysis results
type AnalysisMarkdownFormatter struct{}

func (amf *AnalysisMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.AnalysisResult)
	if !ok {
		return "", fmt.Errorf("expected AnalysisResult, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Resume Analysis\n\n")
	output.WriteString(fmt.Sprintf("**Match Score:** %d/100\n\n", result.Score))

	if len(result.MissingKeywords) > 0 {
		output.WriteString("## Missing Keywords\n\n")
		for _, keyword := range result.MissingKeywords {
			output.WriteString(fmt.Sprintf("- %s\n", keyword))
		}
		output.WriteString("\n")
	}

	output.WriteString("## Hiring Manager Take\n\n")
	output.WriteString(result.ManagerCritique)
	output.WriteString("\n\n")

	output.WriteString("## Fix Strategy\n\n")
	output.WriteString(result.FixStrategy)
	output.WriteString("\n")

	if len(result.InterviewPrep) > 0 {
		output.WriteString("\n## Interview Prep\n\n")
		for i, q := range result.InterviewPrep {
			output.WriteString(fmt.Sprintf("### %d. %s\n\n", i+1, q.Question))
			output.WriteString("**Why they ask:** ")
			output.WriteString(q.Context)
			output.WriteString("\n\n")
			output.WriteString("**Strong answer:** ")
			output.WriteString(q.IdealAnswer)
			output.WriteString("\n\n")
		}
	}

	return output.String(), nil
}

func (amf *AnalysisMarkdownFormatter) SupportedType() string {
	return "AnalysisResult"
}

// RescoreTextFormatter handles text formatting for rescore results
type RescoreTextFormatter struct{}

func (rtf *RescoreTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.RescoreResult)
	if !ok {
		return "", fmt.Errorf("expected RescoreResult, got %T", data)
	}

	var output strings.Builder
	output.WriteString("=== RESCORE ===\n\n")
	output.WriteString(fmt.Sprintf("Match Score: %d/100\n\n", result.Score))
	output.WriteString("Feedback:\n")
	output.WriteString(result.Feedback)
	output.WriteString("\n")
	return output.String(), nil
}

func (rtf *RescoreTextFormatter) SupportedType() string {
	return "RescoreResult"
}

// RescoreMarkdownFormatter handles markdown formatting for rescore results
type RescoreMarkdownFormatter struct{}

func (rmf *RescoreMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.RescoreResult)
	if !ok {
		return "", fmt.Errorf("expected RescoreResult, got %T", data)
	}

	var output strings.Builder
	output.WriteString("# Rescore\n\n")
	output.WriteString(fmt.Sprintf("**Match Score:** %d/100\n\n", result.Score))
	output.WriteString("## Feedback\n\n")
	output.WriteString(result.Feedback)
	output.WriteString("\n")
	return output.String(), nil
}

func (rmf *RescoreMarkdownFormatter) SupportedType() string {
	return "RescoreResult"
}

// CoverLetterTextFormatter emits the letter body as-is
type CoverLetterTextFormatter struct{}

func (clf *CoverLetterTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.CoverLetterResult)
	if !ok {
		return "", fmt.Errorf("expected CoverLetterResult, got %T", data)
	}
	return result.Text + "\n", nil
}

func (clf *CoverLetterTextFormatter) SupportedType() string {
	return "CoverLetterResult"
}

// CoverLetterMarkdownFormatter wraps the letter body with a heading
type CoverLetterMarkdownFormatter struct{}

func (clm *CoverLetterMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.CoverLetterResult)
	if !ok {
		return "", fmt.Errorf("expected CoverLetterResult, got %T", data)
	}

	var output strings.Builder
	output.WriteString("# Cover Letter\n\n")
	output.WriteString(result.Text)
	output.WriteString("\n")
	return output.String(), nil
}

func (clm *CoverLetterMarkdownFormatter) SupportedType() string {
	return "CoverLetterResult"
}

// DocumentLaTeXFormatter renders a document as a standalone LaTeX file
type DocumentLaTeXFormatter struct{}

func (dlf *DocumentLaTeXFormatter) Format(data any) (string, error) {
	switch doc := data.(type) {
	case document.Document:
		return export.ExportLaTeX(&doc), nil
	case *document.Document:
		return export.ExportLaTeX(doc), nil
	default:
		return "", fmt.Errorf("expected Document, got %T", data)
	}
}

func (dlf *DocumentLaTeXFormatter) SupportedType() string {
	return "Document"
}

// Global formatter registry
var GlobalRegistry = NewFormatterRegistry()
