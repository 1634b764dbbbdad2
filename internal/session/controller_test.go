package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"careerstealth/internal/document"
	"careerstealth/internal/export"
	"careerstealth/internal/types"
)

func newTestController(t *testing.T) *Controller {
	t.Helper()
	store := newTestStore(t)
	return NewController(store, export.New(storeTestLogger), 10, storeTestLogger)
}

func TestControllerInstallResultResetsInflight(t *testing.T) {
	c := newTestController(t)
	c.InstallResult(*resultFixture())

	key := PointField(document.SectionExperience, "exp-1", 0)
	require.NoError(t, c.BeginImprove(key))
	assert.True(t, c.ImproveInFlight(key))

	c.InstallResult(*resultFixture())
	assert.False(t, c.ImproveInFlight(key))
}

func TestControllerImproveLifecycle(t *testing.T) {
	c := newTestController(t)
	c.InstallResult(*resultFixture())

	key := PointField(document.SectionExperience, "exp-1", 1)
	require.NoError(t, c.BeginImprove(key))

	// Second request on the same field is rejected; another field is not.
	assert.Error(t, c.BeginImprove(key))
	other := PointField(document.SectionExperience, "exp-1", 0)
	require.NoError(t, c.BeginImprove(other))

	require.NoError(t, c.CompleteImprove(key, "Shipped the thing to 2M users"))
	assert.False(t, c.ImproveInFlight(key))
	assert.Equal(t, "Shipped the thing to 2M users", c.Document().Experience[0].Points[1])

	// The other field's request is still outstanding.
	assert.True(t, c.ImproveInFlight(other))
}

func TestControllerImproveSummary(t *testing.T) {
	c := newTestController(t)
	c.InstallResult(*resultFixture())

	key := SummaryField()
	require.NoError(t, c.BeginImprove(key))
	require.NoError(t, c.CompleteImprove(key, "Ships reliable systems at scale."))
	assert.Equal(t, "Ships reliable systems at scale.", c.Document().Summary)
}

func TestControllerDiscardsStaleImprovement(t *testing.T) {
	c := newTestController(t)
	c.InstallResult(*resultFixture())

	key := PointField(document.SectionExperience, "exp-1", 0)
	require.NoError(t, c.BeginImprove(key))

	// Item deleted while the request is in flight.
	require.NoError(t, c.Document().RemoveItem(document.SectionExperience, "exp-1"))

	require.NoError(t, c.CompleteImprove(key, "late response"))
	assert.False(t, c.ImproveInFlight(key))
	assert.Empty(t, c.Document().Experience)
}

func TestControllerAbortImproveReleasesField(t *testing.T) {
	c := newTestController(t)
	c.InstallResult(*resultFixture())

	key := PointField(document.SectionExperience, "exp-1", 0)
	require.NoError(t, c.BeginImprove(key))
	c.AbortImprove(key)

	assert.False(t, c.ImproveInFlight(key))
	require.NoError(t, c.BeginImprove(key))
}

func TestControllerExportNormalizesZoom(t *testing.T) {
	c := newTestController(t)
	c.InstallResult(*resultFixture())
	c.SetZoom(1.5)

	artifact, err := c.ExportPDF(context.Background(), export.Options{})
	require.NoError(t, err)
	assert.Greater(t, artifact.PageCount, 0)
	assert.Equal(t, 1.5, c.Session().View.Zoom)
}

func TestControllerExportZoomRestoredOnFailure(t *testing.T) {
	c := newTestController(t)
	c.InstallResult(*resultFixture())
	c.SetZoom(0.8)

	_, err := c.ExportPDF(context.Background(), export.Options{TemplateID: "no-such-template"})
	require.Error(t, err)
	assert.Equal(t, 0.8, c.Session().View.Zoom)
}

func TestControllerFailAnalysisKeepsDocumentOut(t *testing.T) {
	c := newTestController(t)
	c.BeginAnalysis(types.AnalyzeInput{ResumeText: "r", JobDescription: "jd"})
	c.FailAnalysis(assert.AnError)

	sess := c.Session()
	assert.Equal(t, StepFailed, sess.Step)
	assert.Nil(t, sess.Result)
}

func TestControllerLoadRestoresSavedSession(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := NewController(store, export.New(storeTestLogger), 10, storeTestLogger)
	first.InstallResult(*resultFixture())
	first.SetCoverLetter("Dear team,")
	require.NoError(t, first.Save(ctx))

	second := NewController(store, export.New(storeTestLogger), 10, storeTestLogger)
	require.NoError(t, second.Load(ctx))

	sess := second.Session()
	assert.Equal(t, StepResults, sess.Step)
	assert.Equal(t, "Dear team,", sess.CoverLetter)
	require.NotNil(t, sess.Result)
	assert.Equal(t, "Jane Q. Public", sess.Result.StructuredResume.FullName)
}

func TestControllerResetClearsSession(t *testing.T) {
	c := newTestController(t)
	c.InstallResult(*resultFixture())
	require.NoError(t, c.Save(context.Background()))

	require.NoError(t, c.Reset(context.Background()))

	sess := c.Session()
	assert.Equal(t, StepInput, sess.Step)
	assert.Nil(t, sess.Result)

	loaded, err := c.store.LoadSession(context.Background())
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestSaveToHistoryRequiresResult(t *testing.T) {
	c := newTestController(t)
	_, err := c.SaveToHistory(context.Background())
	assert.Error(t, err)

	c.InstallResult(*resultFixture())
	c.BeginAnalysis(types.AnalyzeInput{JobDescription: "Senior Gopher - Acme Corp"})
	c.session.Step = StepResults

	entry, err := c.SaveToHistory(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", entry.CompanyName)
	assert.Equal(t, "Senior Gopher", entry.Role)

	entries, err := c.store.LoadHistory(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entry.ID, entries[0].ID)
}
