package formatters

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"careerstealth/internal/document"
	"careerstealth/internal/types"
)

func analysisFixture() types.AnalysisResult {
	return types.AnalysisResult{
		Score:           64,
		MissingKeywords: []string{"kubernetes", "terraform"},
		ManagerCritique: "Readable but forgettable.",
		FixStrategy:     "Quantify the top three bullets.",
		InterviewPrep: []types.InterviewQuestion{
			{Question: "Tell me about an outage.", Context: "Tests ownership.", IdealAnswer: "Walk the timeline."},
		},
	}
}

func TestFormatAnalysisText(t *testing.T) {
	out, err := GlobalRegistry.Format(analysisFixture(), "text")
	require.NoError(t, err)
	assert.Contains(t, out, "Match Score: 64/100")
	assert.Contains(t, out, "- kubernetes")
	assert.Contains(t, out, "Readable but forgettable.")
	assert.Contains(t, out, "Tell me about an outage.")
}

func TestFormatAnalysisMarkdown(t *testing.T) {
	out, err := GlobalRegistry.Format(analysisFixture(), "markdown")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "# Resume Analysis"))
	assert.Contains(t, out, "**Match Score:** 64/100")
}

func TestFormatRescore(t *testing.T) {
	result := types.RescoreResult{Score: 81, Feedback: "The new summary carries it."}

	text, err := GlobalRegistry.Format(result, "text")
	require.NoError(t, err)
	assert.Contains(t, text, "Match Score: 81/100")

	md, err := GlobalRegistry.Format(result, "markdown")
	require.NoError(t, err)
	assert.Contains(t, md, "**Match Score:** 81/100")
}

func TestFormatDocumentLaTeX(t *testing.T) {
	doc := document.Document{FullName: "Jane & Co", Title: "Engineer"}
	doc.Normalize()

	out, err := GlobalRegistry.Format(doc, "latex")
	require.NoError(t, err)
	assert.Contains(t, out, `\documentclass`)
	assert.Contains(t, out, `Jane \& Co`)
}

func TestFormatFallsBackToJSON(t *testing.T) {
	out, err := GlobalRegistry.Format(map[string]int{"pages": 2}, "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"pages": 2`)
}

func TestFormatUnknownFormat(t *testing.T) {
	_, err := GlobalRegistry.Format(analysisFixture(), "yaml")
	assert.Error(t, err)
}
