package ai

import (
	"context"

	"careerstealth/internal/types"
)

// AIProvider is the contract for AI backends. All generation methods
// return token usage; callers can ignore it if not needed.
type AIProvider interface {
	AnalyzeResume(ctx context.Context, input types.AnalyzeInput) (types.AnalysisResult, *TokenUsage, error)
	RescoreResume(ctx context.Context, input types.RescoreInput) (types.RescoreResult, *TokenUsage, error)
	ImproveSection(ctx context.Context, input types.ImproveInput) (types.ImproveResult, *TokenUsage, error)
	GenerateCoverLetter(ctx context.Context, input types.CoverLetterInput) (types.CoverLetterResult, *TokenUsage, error)
	ParseLinkedInProfile(ctx context.Context, input types.LinkedInInput) (types.AnalysisResult, *TokenUsage, error)
	GenerateLearningPlan(ctx context.Context, input types.LearningPlanInput) (types.LearningPlanResult, *TokenUsage, error)
	CritiqueHeadshot(ctx context.Context, input types.HeadshotInput) (types.HeadshotResult, *TokenUsage, error)
	GetModelInfo(ctx context.Context) *ModelInfo
	Close() error
}
