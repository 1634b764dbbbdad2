package session

import (
	"context"
	"fmt"
	"sync"

	"careerstealth/internal/document"
	"careerstealth/internal/errors"
	"careerstealth/internal/export"
	"careerstealth/internal/types"
)

// fieldSummary addresses the summary paragraph, which lives outside the
// item-bearing sections.
const fieldSummary = document.Section("summary")

// FieldKey addresses one improvable text field of the document. For the
// summary, Section is "summary" and ItemID/Index are zero values. For a
// bullet point, Section/ItemID name the item and Index the point.
type FieldKey struct {
	Section document.Section
	ItemID  string
	Index   int
}

// SummaryField returns the key addressing the summary paragraph.
func SummaryField() FieldKey {
	return FieldKey{Section: fieldSummary}
}

// PointField returns the key addressing one bullet of an item.
func PointField(section document.Section, itemID string, index int) FieldKey {
	return FieldKey{Section: section, ItemID: itemID, Index: index}
}

// Controller owns the active session. It is the single writer of the
// document; all mutations and the load/save boundary go through it.
type Controller struct {
	mu       sync.Mutex
	session  *Session
	store    *Store
	exporter *export.Exporter
	logger   *errors.Logger

	inflight     map[FieldKey]bool
	historyLimit int
}

// NewController creates a controller over an empty session. Call Load to
// restore saved state.
func NewController(store *Store, exporter *export.Exporter, historyLimit int, logger *errors.Logger) *Controller {
	return &Controller{
		session:      NewSession(),
		store:        store,
		exporter:     exporter,
		logger:       logger,
		inflight:     make(map[FieldKey]bool),
		historyLimit: historyLimit,
	}
}

// Load restores the saved session if one exists. A missing or corrupt
// saved session leaves the fresh session in place.
func (c *Controller) Load(ctx context.Context) error {
	saved, err := c.store.LoadSession(ctx)
	if err != nil {
		return err
	}
	if saved == nil {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if saved.View.Zoom <= 0 {
		saved.View.Zoom = 1.0
	}
	c.session = saved
	c.logger.Debug("Restored saved session", "step", string(saved.Step))
	return nil
}

// Save persists the current session.
func (c *Controller) Save(ctx context.Context) error {
	c.mu.Lock()
	snapshot := c.snapshotLocked()
	c.mu.Unlock()
	return c.store.SaveSession(ctx, snapshot)
}

// Session returns a deep snapshot of the current session state.
func (c *Controller) Session() *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() *Session {
	out := *c.session
	if c.session.Result != nil {
		result := *c.session.Result
		result.StructuredResume = *c.session.Result.StructuredResume.Clone()
		out.Result = &result
	}
	return &out
}

// Document returns the live document, or nil before a result is
// installed. Callers mutate it only through controller methods.
func (c *Controller) Document() *document.Document {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session.Result == nil {
		return nil
	}
	return &c.session.Result.StructuredResume
}

// BeginAnalysis moves the session to the analyzing step, recording the
// input. Any previous result stays visible until a new one lands.
func (c *Controller) BeginAnalysis(input types.AnalyzeInput) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session.Input = input
	c.session.Step = StepAnalyzing
}

// InstallResult installs a completed analysis and moves to the results
// step. The previous document is discarded wholesale.
func (c *Controller) InstallResult(result types.AnalysisResult) {
	result.StructuredResume.Normalize()
	result.StructuredResume.EnsureItemIDs()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.session.Result = &result
	c.session.CoverLetter = ""
	c.session.Step = StepResults
	c.inflight = make(map[FieldKey]bool)
}

// FailAnalysis moves the session to the failed step without installing a
// partial result.
func (c *Controller) FailAnalysis(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session.Step = StepFailed
	c.logger.LogError(err, "Analysis failed; session moved to failed step")
}

// SetCoverLetter stores generated cover letter text on the session.
func (c *Controller) SetCoverLetter(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session.CoverLetter = text
}

// SetZoom updates the presentation zoom. Zoom never reaches the export
// pipeline.
func (c *Controller) SetZoom(zoom float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if zoom > 0 {
		c.session.View.Zoom = zoom
	}
}

// BeginImprove marks a field as having an outstanding improvement
// request. A field with a request already in flight is rejected; other
// fields are unaffected.
func (c *Controller) BeginImprove(key FieldKey) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session.Result == nil {
		return errors.NewValidationError(errors.ErrCodeInvalidDocument,
			"no document to improve", nil)
	}
	if c.inflight[key] {
		return errors.NewValidationError(errors.ErrCodeStaleImprovement,
			fmt.Sprintf("field %s/%s already has an improvement in flight", key.Section, key.ItemID), nil)
	}
	c.inflight[key] = true
	return nil
}

// CompleteImprove applies the rewritten text to the field and releases
// its in-flight mark. If the field was deleted while the request was
// outstanding, the response is discarded silently.
func (c *Controller) CompleteImprove(key FieldKey, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.inflight, key)

	if c.session.Result == nil {
		return nil
	}
	doc := &c.session.Result.StructuredResume

	if key.Section == fieldSummary {
		doc.Summary = text
		return nil
	}

	if !doc.HasItem(key.Section, key.ItemID) {
		c.logger.Debug("Discarding stale improvement for deleted item",
			"section", string(key.Section),
			"item_id", key.ItemID)
		return nil
	}
	if err := doc.SetPoint(key.Section, key.ItemID, key.Index, text); err != nil {
		// Point index no longer valid; same stale treatment as a
		// deleted item.
		c.logger.Debug("Discarding stale improvement for out-of-range point",
			"section", string(key.Section),
			"item_id", key.ItemID,
			"index", key.Index)
		return nil
	}
	return nil
}

// AbortImprove releases a field's in-flight mark after a failed request.
// Only the one field is affected.
func (c *Controller) AbortImprove(key FieldKey) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.inflight, key)
}

// ImproveInFlight reports whether the field currently has an outstanding
// improvement request.
func (c *Controller) ImproveInFlight(key FieldKey) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inflight[key]
}

// ExportPDF runs the export pipeline over the current document. The
// presentation zoom is normalized to 100% for the duration of the export
// and restored on every path.
func (c *Controller) ExportPDF(ctx context.Context, opts export.Options) (*export.Artifact, error) {
	c.mu.Lock()
	if c.session.Result == nil {
		c.mu.Unlock()
		return nil, errors.NewValidationError(errors.ErrCodeInvalidDocument,
			"no document to export", nil)
	}
	doc := c.session.Result.StructuredResume.Clone()
	savedZoom := c.session.View.Zoom
	c.session.View.Zoom = 1.0
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.session.View.Zoom = savedZoom
		c.mu.Unlock()
	}()

	return c.exporter.ExportPDF(ctx, doc, opts)
}

// SaveToHistory snapshots the current session into the append-only
// history list.
func (c *Controller) SaveToHistory(ctx context.Context) (HistoryEntry, error) {
	c.mu.Lock()
	if c.session.Result == nil {
		c.mu.Unlock()
		return HistoryEntry{}, errors.NewValidationError(errors.ErrCodeInvalidDocument,
			"no completed analysis to save", nil)
	}
	entry := NewHistoryEntry(c.snapshotLocked())
	c.mu.Unlock()

	if err := c.store.AppendHistory(ctx, entry, c.historyLimit); err != nil {
		return HistoryEntry{}, err
	}
	return entry, nil
}

// Reset discards the session and starts over at the input step. The
// persisted current session is cleared; history is kept.
func (c *Controller) Reset(ctx context.Context) error {
	c.mu.Lock()
	c.session = NewSession()
	c.inflight = make(map[FieldKey]bool)
	c.mu.Unlock()
	return c.store.ClearSession(ctx)
}
