package cli

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"careerstealth/internal/config"
	"careerstealth/internal/document"
	"careerstealth/internal/errors"
	"careerstealth/internal/types"
)

var cliTestLogger = errors.NewLogger(slog.LevelError)

func cliTestConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg := &config.Config{
		Export: config.ExportConfig{
			Template: "modern",
			Spacing:  "normal",
			FontSize: 10,
			Scale:    2.0,
		},
		Session: config.SessionConfig{
			Path:         filepath.Join(t.TempDir(), "session.db"),
			HistoryLimit: 10,
		},
	}
	return cfg
}

func commandWithContext(t *testing.T, cfg *config.Config) *cobra.Command {
	t.Helper()

	ctx := context.WithValue(context.Background(), configKey, cfg)
	ctx = context.WithValue(ctx, loggerKey, cliTestLogger)

	cmd := &cobra.Command{}
	cmd.SetContext(ctx)
	return cmd
}

func sessionDocFixture() document.Document {
	doc := document.Document{
		FullName:    "Jane Q. Public",
		Title:       "Platform Engineer",
		ContactInfo: "jane@example.com",
		Summary:     "Engineer with eight years building data platforms.",
		Skills:      []string{"Go", "Kubernetes"},
		Experience: []document.ExperienceItem{
			{
				ID:       "exp-1",
				Role:     "Senior Engineer",
				Company:  "Initech",
				Duration: "2019 - Present",
				Points:   []string{"Led the billing pipeline migration."},
			},
		},
	}
	doc.Normalize()
	return doc
}

func seedSession(t *testing.T, cfg *config.Config, jobDescription string) {
	t.Helper()

	ctrl, store, err := openSessionController(context.Background(), cfg, cliTestLogger)
	require.NoError(t, err)
	defer store.Close()

	ctrl.BeginAnalysis(types.AnalyzeInput{
		ResumeText:     "resume text",
		JobDescription: jobDescription,
	})
	ctrl.InstallResult(types.AnalysisResult{
		Score:            82,
		StructuredResume: sessionDocFixture(),
	})
	ctrl.SetZoom(1.5)
	require.NoError(t, ctrl.Save(context.Background()))
	_, err = ctrl.SaveToHistory(context.Background())
	require.NoError(t, err)
}

func resetExportFlags(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		exportTemplate = ""
		exportSpacing = ""
		exportFontSize = 0
		exportScale = 0
		exportKeywords = nil
		exportFormat = "pdf"
		exportOutput = ""
		exportWatch = false
	})
}

func TestSessionRoundTripThroughStore(t *testing.T) {
	cfg := cliTestConfig(t)
	seedSession(t, cfg, "Senior Platform Engineer - Initech")

	ctrl, store, err := openSessionController(context.Background(), cfg, cliTestLogger)
	require.NoError(t, err)
	defer store.Close()

	doc := ctrl.Document()
	require.NotNil(t, doc)
	assert.Equal(t, "Jane Q. Public", doc.FullName)
	assert.Equal(t, 1.5, ctrl.Session().View.Zoom)
}

func TestExportCommandUsesSavedSession(t *testing.T) {
	cfg := cliTestConfig(t)
	seedSession(t, cfg, "Senior Platform Engineer - Initech")

	resetExportFlags(t)
	outPath := filepath.Join(t.TempDir(), "out.pdf")
	exportFormat = "pdf"
	exportOutput = outPath

	cmd := commandWithContext(t, cfg)
	require.NoError(t, runExport(cmd, nil))

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	require.Greater(t, len(data), 4)
	assert.Equal(t, "%PDF", string(data[:4]))

	// The stored preview zoom survives the export untouched.
	ctrl, store, err := openSessionController(context.Background(), cfg, cliTestLogger)
	require.NoError(t, err)
	defer store.Close()
	assert.Equal(t, 1.5, ctrl.Session().View.Zoom)
}

func TestExportCommandWithoutSessionFails(t *testing.T) {
	cfg := cliTestConfig(t)

	resetExportFlags(t)
	cmd := commandWithContext(t, cfg)

	err := runExport(cmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no saved analysis")
}

func TestHistoryCommandListsEntries(t *testing.T) {
	cfg := cliTestConfig(t)
	seedSession(t, cfg, "Senior Platform Engineer - Initech\nWe need someone who ships.")

	var buf bytes.Buffer
	cmd := commandWithContext(t, cfg)
	cmd.SetOut(&buf)

	require.NoError(t, runHistory(cmd, nil))
	assert.Contains(t, buf.String(), "Initech")
	assert.Contains(t, buf.String(), "Senior Platform Engineer")
	assert.Contains(t, buf.String(), "82")
}

func TestSessionResetClearsSavedState(t *testing.T) {
	cfg := cliTestConfig(t)
	seedSession(t, cfg, "Senior Platform Engineer - Initech")

	var buf bytes.Buffer
	cmd := commandWithContext(t, cfg)
	cmd.SetOut(&buf)
	require.NoError(t, runSessionReset(cmd, nil))

	ctrl, store, err := openSessionController(context.Background(), cfg, cliTestLogger)
	require.NoError(t, err)
	defer store.Close()
	assert.Nil(t, ctrl.Document())

	// History outlives the reset.
	buf.Reset()
	require.NoError(t, runHistory(cmd, nil))
	assert.Contains(t, buf.String(), "Initech")
}

func TestImproveSessionModeRequiresSavedAnalysis(t *testing.T) {
	cfg := cliTestConfig(t)

	improveSummary = true
	t.Cleanup(func() { improveSummary = false })

	cmd := commandWithContext(t, cfg)
	err := runImprove(cmd, []string{"job.txt"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no saved analysis")
}

func TestSessionZoomRejectsNonPositive(t *testing.T) {
	cfg := cliTestConfig(t)
	cmd := commandWithContext(t, cfg)

	assert.Error(t, runSessionZoom(cmd, []string{"0"}))
	assert.Error(t, runSessionZoom(cmd, []string{"nope"}))
}

func TestImageMIMEType(t *testing.T) {
	assert.Equal(t, "image/png", imageMIMEType("face.PNG"))
	assert.Equal(t, "image/webp", imageMIMEType("face.webp"))
	assert.Equal(t, "image/jpeg", imageMIMEType("face.jpg"))
	assert.Equal(t, "image/jpeg", imageMIMEType("face"))
}
