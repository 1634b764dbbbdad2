package session

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"careerstealth/internal/types"
)

// Step is the coarse UI state of the session.
type Step string

const (
	StepInput     Step = "input"
	StepAnalyzing Step = "analyzing"
	StepResults   Step = "results"
	StepFailed    Step = "failed"
)

// View holds presentation state that survives a reload but never
// influences export geometry.
type View struct {
	Zoom float64 `json:"zoom"`
}

// Session is the complete current-session record: the analysis input,
// the result carrying the editable document, the generated cover letter
// and the UI step.
type Session struct {
	Step        Step                  `json:"step"`
	Input       types.AnalyzeInput    `json:"input"`
	Result      *types.AnalysisResult `json:"result,omitempty"`
	CoverLetter string                `json:"coverLetter,omitempty"`
	View        View                  `json:"view"`
}

// NewSession returns an empty session at the input step with the
// default zoom.
func NewSession() *Session {
	return &Session{
		Step: StepInput,
		View: View{Zoom: 1.0},
	}
}

// HistoryEntry is one saved analysis snapshot.
type HistoryEntry struct {
	ID          string               `json:"id"`
	Timestamp   time.Time            `json:"timestamp"`
	CompanyName string               `json:"companyName"`
	Role        string               `json:"role"`
	Input       types.AnalyzeInput   `json:"input"`
	Result      types.AnalysisResult `json:"result"`
	CoverLetter string               `json:"coverLetter,omitempty"`
}

// NewHistoryEntry snapshots the session for the history list, inferring
// the company and role labels from the job description.
func NewHistoryEntry(sess *Session) HistoryEntry {
	entry := HistoryEntry{
		ID:          uuid.NewString(),
		Timestamp:   time.Now().UTC(),
		Input:       sess.Input,
		CoverLetter: sess.CoverLetter,
	}
	if sess.Result != nil {
		entry.Result = *sess.Result
	}
	entry.CompanyName, entry.Role = InferCompanyRole(sess.Input.JobDescription)
	return entry
}

var (
	// Capitalization is the signal here, so no (?i).
	companyPattern = regexp.MustCompile(`\b(?:at|At|join|Join|about|About)\s+([A-Z][A-Za-z0-9&\-]*(?:\s+[A-Z][A-Za-z0-9&\-]*){0,2})`)
	rolePattern    = regexp.MustCompile(`(?i)\b(?:hiring|seeking|looking for)\s+(?:an?\s+)?([A-Za-z/+#.\- ]{3,60}?)(?:\s+(?:to|who|with|at)\b|[.,\n]|$)`)
)

// InferCompanyRole makes a best-effort guess at the company name and
// role title from free-form job description text. It only labels
// history entries, so wrong guesses are harmless; empty text yields
// generic labels.
func InferCompanyRole(jobDescription string) (company, role string) {
	company = "Unknown Company"
	role = "Unknown Role"

	text := strings.TrimSpace(jobDescription)
	if text == "" {
		return company, role
	}

	if m := companyPattern.FindStringSubmatch(text); m != nil {
		company = strings.TrimSpace(m[1])
	}
	if m := rolePattern.FindStringSubmatch(text); m != nil {
		role = strings.TrimSpace(m[1])
	}

	// First line often reads "Senior Widget Engineer - Acme Corp".
	if role == "Unknown Role" {
		firstLine := text
		if idx := strings.IndexByte(firstLine, '\n'); idx >= 0 {
			firstLine = firstLine[:idx]
		}
		firstLine = strings.TrimSpace(firstLine)
		if len(firstLine) > 0 && len(firstLine) <= 80 {
			if before, after, found := strings.Cut(firstLine, " - "); found {
				role = strings.TrimSpace(before)
				if company == "Unknown Company" {
					company = strings.TrimSpace(after)
				}
			} else {
				role = firstLine
			}
		}
	}

	return company, role
}
