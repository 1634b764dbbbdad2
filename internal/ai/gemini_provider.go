package ai

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/big"
	"net"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/api/googleapi"
	"google.golang.org/genai"

	"careerstealth/internal/config"
	apperrors "careerstealth/internal/errors"
	"careerstealth/internal/types"
)

// GeminiProvider implements AIProvider for Google Gemini
type GeminiProvider struct {
	client         *genai.Client
	httpClient     *http.Client
	config         *config.OperationAIConfig
	operationType  string
	circuitBreaker *AICircuitBreaker
	modelBreaker   *ModelCircuitBreaker
	logger         *apperrors.Logger
}

// Ensure GeminiProvider implements AIProvider
var _ AIProvider = (*GeminiProvider)(nil)

// NewGeminiProvider creates a new Gemini provider instance for a specific operation
func NewGeminiProvider(cfg *config.OperationAIConfig, operationType string, logger *apperrors.Logger) (*GeminiProvider, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, apperrors.NewAIError(apperrors.ErrCodeAIServiceFailed,
			"Failed to create Gemini client", err)
	}

	return &GeminiProvider{
		client: client,
		httpClient: &http.Client{
			Timeout: *cfg.Timeout,
		},
		config:         cfg,
		operationType:  operationType,
		circuitBreaker: NewAICircuitBreaker(operationType, cfg, logger),
		modelBreaker:   NewModelCircuitBreaker(operationType, cfg, logger),
		logger:         logger,
	}, nil
}

// ModelInfo represents information about the AI model
type ModelInfo struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName,omitempty"`
	Version     string `json:"version,omitempty"`
	Available   bool   `json:"available"`
	Error       string `json:"error,omitempty"`
}

// GetModelInfo checks the readiness and availability of the configured model
func (g *GeminiProvider) GetModelInfo(ctx context.Context) *ModelInfo {
	modelInfo := &ModelInfo{
		Name:      g.config.Model,
		Available: false,
	}

	checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	model, err := g.modelBreaker.ExecuteModel(func() (*genai.Model, error) {
		return g.client.Models.Get(checkCtx, g.config.Model, &genai.GetModelConfig{})
	})
	if err != nil {
		modelInfo.Error = fmt.Sprintf("Failed to get model info: %v", err)
		g.logger.Warn("Model availability check failed",
			"model", g.config.Model,
			"provider", g.config.Provider,
			"error", err.Error())
		return modelInfo
	}

	modelInfo.Available = true
	if model.DisplayName != "" {
		modelInfo.DisplayName = model.DisplayName
	}
	if model.Version != "" {
		modelInfo.Version = model.Version
	}

	g.logger.Debug("Model availability check successful",
		"model", g.config.Model,
		"provider", g.config.Provider,
		"display_name", modelInfo.DisplayName,
		"version", modelInfo.Version)

	return modelInfo
}

// executeWithRetry executes an AI operation with retry logic and exponential backoff
func (g *GeminiProvider) executeWithRetry(ctx context.Context, operation string, fn func() (*genai.GenerateContentResponse, error)) (*genai.GenerateContentResponse, error) {
	var lastErr error

	for attempt := 0; attempt <= *g.config.MaxRetries; attempt++ {
		if attempt > 0 {
			g.logger.Warn("Retrying AI operation",
				"operation", operation,
				"attempt", attempt,
				"max_retries", *g.config.MaxRetries,
				"error", lastErr.Error())

			// Exponential backoff with jitter to prevent thundering herd
			baseDelay := time.Duration(math.Pow(2, float64(attempt-1))) * time.Second
			jitterMax := big.NewInt(int64(float64(baseDelay) * 0.1))
			jitterBig, _ := rand.Int(rand.Reader, jitterMax)
			jitter := time.Duration(jitterBig.Int64())
			backoff := min(baseDelay+jitter, 30*time.Second)

			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		result, err := fn()
		if err == nil {
			if attempt > 0 {
				g.logger.Info("AI operation succeeded after retry",
					"operation", operation,
					"successful_attempt", attempt+1)
			}
			return result, nil
		}

		lastErr = err

		if !g.isRetryableError(err) {
			g.logger.Debug("Error is not retryable, stopping retry attempts",
				"operation", operation,
				"error", err.Error())
			break
		}
	}

	g.logger.LogError(lastErr, "AI operation failed after all retry attempts",
		"operation", operation,
		"total_attempts", *g.config.MaxRetries+1)

	return nil, fmt.Errorf("operation '%s' failed after %d retries: %w", operation, *g.config.MaxRetries, lastErr)
}

// isRetryableError determines if an error should trigger a retry
func (g *GeminiProvider) isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
	}

	return false
}

// executeAIOperation is a generic helper to run AI operations with common tracing, circuit breaker, and parsing logic.
func executeAIOperation[Out any](
	g *GeminiProvider,
	ctx context.Context,
	operationName string,
	userPrompt string,
	systemPrompt string,
	genaiConfig *genai.GenerateContentConfig,
	spanAttributes ...attribute.KeyValue,
) (Out, *TokenUsage, error) {
	var output Out
	tracer := otel.Tracer("careerstealth.ai.gemini")
	ctx, span := tracer.Start(ctx, "gemini."+operationName)
	defer span.End()

	span.SetAttributes(
		attribute.String("ai.provider", "gemini"),
		attribute.String("ai.model", g.config.Model),
		attribute.Float64("ai.temperature", float64(*g.config.Temperature)),
	)
	span.SetAttributes(spanAttributes...)

	if *g.config.UseSystemPrompts && systemPrompt != "" {
		genaiConfig.SystemInstruction = genai.NewContentFromText(systemPrompt, genai.RoleUser)
	}

	result, err := g.circuitBreaker.Execute(func() (*genai.GenerateContentResponse, error) {
		return g.executeWithRetry(ctx, operationName, func() (*genai.GenerateContentResponse, error) {
			return g.client.Models.GenerateContent(ctx, g.config.Model, genai.Text(userPrompt), genaiConfig)
		})
	})

	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return output, nil, apperrors.NewAIError(apperrors.ErrCodeAIServiceFailed, "Failed to generate content for "+operationName, err)
	}

	if err := json.Unmarshal([]byte(result.Text()), &output); err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return output, nil, apperrors.NewAIError("AI_RESPONSE_PARSE_FAILED", "Failed to parse AI response for "+operationName, err)
	}

	tokenUsage := extractTokenUsage(result)
	if tokenUsage != nil {
		span.SetAttributes(
			attribute.Int64("ai.tokens.input", tokenUsage.InputTokens),
			attribute.Int64("ai.tokens.output", tokenUsage.OutputTokens),
			attribute.Int64("ai.tokens.total", tokenUsage.TotalTokens),
		)
	}

	span.SetAttributes(attribute.Bool("success", true))
	return output, tokenUsage, nil
}

// AnalyzeResume implements AIProvider for the full resume analysis
func (g *GeminiProvider) AnalyzeResume(ctx context.Context, input types.AnalyzeInput) (types.AnalysisResult, *TokenUsage, error) {
	resumeText := input.ResumeText
	if resumeText == "" && input.ResumeFile != nil {
		resumeText = string(input.ResumeFile.Data)
	}

	systemPrompt, userTemplate := g.prompts("analyze")
	if input.Persona != "" {
		systemPrompt = systemPrompt + "\n\nAdopt this reviewer persona: " + input.Persona
	}
	userPrompt := fmt.Sprintf(userTemplate, resumeText, input.JobDescription)

	output, tokenUsage, err := executeAIOperation[types.AnalysisResult](
		g,
		ctx,
		"analyze_resume",
		userPrompt,
		systemPrompt,
		g.buildAnalyzeSchema(),
		attribute.Int("input.resume_length", len(resumeText)),
		attribute.Int("input.job_length", len(input.JobDescription)),
	)
	if err != nil {
		return types.AnalysisResult{}, nil, err
	}

	// The model cannot mint stable identifiers; assign them here so the
	// extracted document is immediately editable.
	output.StructuredResume.EnsureItemIDs()
	output.StructuredResume.Normalize()

	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.SetAttributes(
			attribute.Int("analysis.score", output.Score),
			attribute.Int("analysis.missing_keywords", len(output.MissingKeywords)),
		)
	}

	return output, tokenUsage, nil
}

// RescoreResume implements AIProvider for re-scoring an edited document
func (g *GeminiProvider) RescoreResume(ctx context.Context, input types.RescoreInput) (types.RescoreResult, *TokenUsage, error) {
	resumeJSON, err := json.Marshal(input.Resume)
	if err != nil {
		return types.RescoreResult{}, nil, apperrors.NewInternalError(apperrors.ErrCodeInvalidRequest,
			"Failed to encode resume for rescore", err)
	}

	systemPrompt, userTemplate := g.prompts("rescore")
	userPrompt := fmt.Sprintf(userTemplate, string(resumeJSON), input.JobDescription)

	output, tokenUsage, err := executeAIOperation[types.RescoreResult](
		g,
		ctx,
		"rescore_resume",
		userPrompt,
		systemPrompt,
		g.buildRescoreSchema(),
		attribute.Int("input.job_length", len(input.JobDescription)),
	)
	if err != nil {
		return types.RescoreResult{}, nil, err
	}

	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.SetAttributes(attribute.Int("rescore.score", output.Score))
	}

	return output, tokenUsage, nil
}

// ImproveSection implements AIProvider for single-field rewrites
func (g *GeminiProvider) ImproveSection(ctx context.Context, input types.ImproveInput) (types.ImproveResult, *TokenUsage, error) {
	systemPrompt, userTemplate := g.prompts("improve")
	userPrompt := fmt.Sprintf(userTemplate, input.SectionType, input.CurrentText, input.JobDescription)

	output, tokenUsage, err := executeAIOperation[types.ImproveResult](
		g,
		ctx,
		"improve_section",
		userPrompt,
		systemPrompt,
		g.buildTextSchema(),
		attribute.String("input.section_type", input.SectionType),
		attribute.Int("input.text_length", len(input.CurrentText)),
	)
	if err != nil {
		return types.ImproveResult{}, nil, err
	}

	return output, tokenUsage, nil
}

// GenerateCoverLetter implements AIProvider for cover letter generation
func (g *GeminiProvider) GenerateCoverLetter(ctx context.Context, input types.CoverLetterInput) (types.CoverLetterResult, *TokenUsage, error) {
	resumeJSON, err := json.Marshal(input.Resume)
	if err != nil {
		return types.CoverLetterResult{}, nil, apperrors.NewInternalError(apperrors.ErrCodeInvalidRequest,
			"Failed to encode resume for cover letter", err)
	}

	tone := input.Tone
	if tone == "" {
		tone = "professional"
	}

	systemPrompt, userTemplate := g.prompts("coverLetter")
	userPrompt := fmt.Sprintf(userTemplate, tone, string(resumeJSON), input.JobDescription)

	output, tokenUsage, err := executeAIOperation[types.CoverLetterResult](
		g,
		ctx,
		"generate_cover_letter",
		userPrompt,
		systemPrompt,
		g.buildTextSchema(),
		attribute.String("input.tone", tone),
	)
	if err != nil {
		return types.CoverLetterResult{}, nil, err
	}

	return output, tokenUsage, nil
}

// ParseLinkedInProfile implements AIProvider for LinkedIn profile import
func (g *GeminiProvider) ParseLinkedInProfile(ctx context.Context, input types.LinkedInInput) (types.AnalysisResult, *TokenUsage, error) {
	systemPrompt, userTemplate := g.prompts("linkedin")
	userPrompt := fmt.Sprintf(userTemplate, input.ProfileText)

	output, tokenUsage, err := executeAIOperation[types.AnalysisResult](
		g,
		ctx,
		"parse_linkedin_profile",
		userPrompt,
		systemPrompt,
		g.buildLinkedInSchema(),
		attribute.Int("input.profile_length", len(input.ProfileText)),
	)
	if err != nil {
		return types.AnalysisResult{}, nil, err
	}

	output.StructuredResume.EnsureItemIDs()
	output.StructuredResume.Normalize()

	return output, tokenUsage, nil
}

// GenerateLearningPlan implements AIProvider for skill-gap learning plans
func (g *GeminiProvider) GenerateLearningPlan(ctx context.Context, input types.LearningPlanInput) (types.LearningPlanResult, *TokenUsage, error) {
	keywords, err := json.Marshal(input.MissingKeywords)
	if err != nil {
		return types.LearningPlanResult{}, nil, apperrors.NewInternalError(apperrors.ErrCodeInvalidRequest,
			"Failed to encode keywords for learning plan", err)
	}

	systemPrompt, userTemplate := g.prompts("learningPlan")
	userPrompt := fmt.Sprintf(userTemplate, string(keywords), input.JobDescription)

	output, tokenUsage, err := executeAIOperation[types.LearningPlanResult](
		g,
		ctx,
		"generate_learning_plan",
		userPrompt,
		systemPrompt,
		g.buildLearningPlanSchema(),
		attribute.Int("input.keyword_count", len(input.MissingKeywords)),
	)
	if err != nil {
		return types.LearningPlanResult{}, nil, err
	}

	return output, tokenUsage, nil
}

// CritiqueHeadshot implements AIProvider for the profile photo critique.
// The request is multimodal (prompt text plus an inline image part), so it
// builds its contents directly instead of going through the generic text
// helper.
func (g *GeminiProvider) CritiqueHeadshot(ctx context.Context, input types.HeadshotInput) (types.HeadshotResult, *TokenUsage, error) {
	if len(input.ImageData) == 0 {
		return types.HeadshotResult{}, nil, apperrors.NewValidationError(apperrors.ErrCodeInvalidRequest,
			"headshot image is empty", nil)
	}

	mimeType := input.MIMEType
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	persona := input.Persona
	if persona == "" {
		persona = "seasoned"
	}

	systemPrompt, userTemplate := g.prompts("headshot")
	userPrompt := fmt.Sprintf(userTemplate, persona)

	tracer := otel.Tracer("careerstealth.ai.gemini")
	ctx, span := tracer.Start(ctx, "gemini.critique_headshot")
	defer span.End()

	span.SetAttributes(
		attribute.String("ai.provider", "gemini"),
		attribute.String("ai.model", g.config.Model),
		attribute.String("input.mime_type", mimeType),
		attribute.Int("input.image_bytes", len(input.ImageData)),
	)

	genaiConfig := g.buildTextSchema()
	if *g.config.UseSystemPrompts && systemPrompt != "" {
		genaiConfig.SystemInstruction = genai.NewContentFromText(systemPrompt, genai.RoleUser)
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(userPrompt),
			genai.NewPartFromBytes(input.ImageData, mimeType),
		}, genai.RoleUser),
	}

	result, err := g.circuitBreaker.Execute(func() (*genai.GenerateContentResponse, error) {
		return g.executeWithRetry(ctx, "critique_headshot", func() (*genai.GenerateContentResponse, error) {
			return g.client.Models.GenerateContent(ctx, g.config.Model, contents, genaiConfig)
		})
	})
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return types.HeadshotResult{}, nil, apperrors.NewAIError(apperrors.ErrCodeAIServiceFailed,
			"Failed to generate content for critique_headshot", err)
	}

	var output types.HeadshotResult
	if err := json.Unmarshal([]byte(result.Text()), &output); err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return types.HeadshotResult{}, nil, apperrors.NewAIError("AI_RESPONSE_PARSE_FAILED",
			"Failed to parse AI response for critique_headshot", err)
	}

	span.SetAttributes(attribute.Bool("success", true))
	return output, extractTokenUsage(result), nil
}

// GetCircuitBreakerStats returns circuit breaker statistics
func (g *GeminiProvider) GetCircuitBreakerStats() map[string]any {
	stats := map[string]any{
		"ai_operations":    g.circuitBreaker.GetStats(),
		"model_operations": g.modelBreaker.GetModelStats(),
	}
	stats["overall_healthy"] = g.circuitBreaker.IsHealthy() && g.modelBreaker.IsModelHealthy()
	return stats
}

// Close implements AIProvider interface
func (g *GeminiProvider) Close() error {
	// Gemini client doesn't expose a Close in single-shot usage.
	return nil
}

// prompts resolves the system prompt and user template for an operation:
// config overrides win over built-in defaults.
func (g *GeminiProvider) prompts(operation string) (string, string) {
	defaults := DefaultPrompts[operation]
	system := defaults.System
	user := defaults.User

	// Only the provider's own operation carries overrides; helper
	// operations (linkedin, learningPlan, headshot) use defaults unless
	// this provider was built for them.
	if operation == g.operationType || g.operationType == "" {
		if g.config.Prompts.System != "" {
			system = g.config.Prompts.System
		}
		if g.config.Prompts.User != "" {
			user = g.config.Prompts.User
		}
	}
	return system, user
}

// TokenUsage represents token usage information from AI responses
type TokenUsage struct {
	InputTokens  int64
	OutputTokens int64
	TotalTokens  int64
}

// extractTokenUsage extracts token usage information from Gemini API response
func extractTokenUsage(result *genai.GenerateContentResponse) *TokenUsage {
	if result == nil || result.UsageMetadata == nil {
		return nil
	}

	usage := result.UsageMetadata
	return &TokenUsage{
		InputTokens:  int64(usage.PromptTokenCount),
		OutputTokens: int64(usage.CandidatesTokenCount),
		TotalTokens:  int64(usage.TotalTokenCount),
	}
}
