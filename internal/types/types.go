// Package types defines the wire contracts shared between the AI
// collaborators, the HTTP API and the CLI.
package types

import "careerstealth/internal/document"

// ResumeFile carries raw resume bytes when the source is an uploaded
// document rather than pasted text.
type ResumeFile struct {
	Data     []byte `json:"data"`
	MIMEType string `json:"mimeType"`
	FileName string `json:"fileName"`
}

// AnalyzeInput represents the input for the full resume analysis
type AnalyzeInput struct {
	ResumeText     string      `json:"resumeText,omitempty"`
	ResumeFile     *ResumeFile `json:"resumeFile,omitempty"`
	JobDescription string      `json:"jobDescription"`
	Persona        string      `json:"persona,omitempty"`
}

// InterviewQuestion is one predicted interview question with guidance
type InterviewQuestion struct {
	Question    string `json:"question"`
	Context     string `json:"context"`
	IdealAnswer string `json:"idealAnswer"`
}

// AnalysisResult represents the full output of a resume analysis
type AnalysisResult struct {
	Score            int                 `json:"score"`
	MissingKeywords  []string            `json:"missingKeywords"`
	ManagerCritique  string              `json:"managerRoast"`
	FixStrategy      string              `json:"fixStrategy"`
	StructuredResume document.Document   `json:"structuredResume"`
	InterviewPrep    []InterviewQuestion `json:"interviewPrep"`
}

// RescoreInput represents the input for re-scoring an edited document
type RescoreInput struct {
	Resume         document.Document `json:"resume"`
	JobDescription string            `json:"jobDescription"`
}

// RescoreResult represents the quick score check on the current document
type RescoreResult struct {
	Score    int    `json:"score"`
	Feedback string `json:"feedback"`
}

// ImproveInput represents the input for a single-field rewrite
type ImproveInput struct {
	CurrentText    string `json:"currentText"`
	SectionType    string `json:"sectionType"` // "summary", "experience point", ...
	JobDescription string `json:"jobDescription"`
}

// ImproveResult carries the rewritten field text
type ImproveResult struct {
	Text string `json:"text"`
}

// CoverLetterInput represents the input for cover letter generation
type CoverLetterInput struct {
	Resume         document.Document `json:"resume"`
	JobDescription string            `json:"jobDescription"`
	Tone           string            `json:"tone,omitempty"`
}

// CoverLetterResult carries the generated cover letter body
type CoverLetterResult struct {
	Text string `json:"text"`
}

// LinkedInInput represents pasted LinkedIn profile text to convert into
// a structured document
type LinkedInInput struct {
	ProfileText string `json:"profileText"`
}

// HeadshotInput carries a profile photo for an appropriateness critique
type HeadshotInput struct {
	ImageData []byte `json:"imageData"`
	MIMEType  string `json:"mimeType,omitempty"`
	Persona   string `json:"persona,omitempty"`
}

// HeadshotResult carries the short critique text
type HeadshotResult struct {
	Text string `json:"text"`
}

// LearningResource is one entry of a skill-gap learning plan
type LearningResource struct {
	Skill    string `json:"skill"`
	Priority string `json:"priority"` // "high", "medium", "low"
	Plan     string `json:"plan"`
}

// LearningPlanInput represents the input for learning plan generation
type LearningPlanInput struct {
	MissingKeywords []string `json:"missingKeywords"`
	JobDescription  string   `json:"jobDescription"`
}

// LearningPlanResult represents the generated learning plan
type LearningPlanResult struct {
	Resources []LearningResource `json:"resources"`
}
