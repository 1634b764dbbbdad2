package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"careerstealth/internal/ai"
	"careerstealth/internal/config"
	"careerstealth/internal/observability"
	"careerstealth/internal/types"
)

// runAIOperation wires one AI call through service creation, metric
// tracking and span annotation. The handlers own request parsing and
// validation; this owns everything after.
func runAIOperation[Out any](
	ctx context.Context,
	s *Server,
	om *observability.ObservabilityManager,
	operation string,
	opConfig config.OperationAIConfig,
	call func(context.Context, ai.AIProvider) (Out, *ai.TokenUsage, error),
) (Out, error) {
	var result Out

	aiService, err := ai.NewService(&opConfig, operation, s.Logger)
	if err != nil {
		return result, err
	}

	metrics := om.GetMetrics()
	err = metrics.TrackAIOperationWithTokens(ctx, operation, func(ctx context.Context) *observability.AIOperationResult {
		output, tokenUsage, aiErr := call(ctx, aiService.Provider)
		result = output
		return &observability.AIOperationResult{
			Error:      aiErr,
			TokenUsage: (*observability.TokenUsage)(tokenUsage),
		}
	}, om)

	return result, err
}

// createAnalyzeHandler handles the full resume analysis endpoint
func (s *Server) createAnalyzeHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("careerstealth.api")
		ctx, span := tracer.Start(ctx, "api.analyze")
		defer span.End()

		var req AnalyzeRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		if strings.TrimSpace(req.ResumeText) == "" {
			err := fmt.Errorf("missing resume text")
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Missing resume text", "resumeText field is required", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.JobDescription) == "" {
			err := fmt.Errorf("missing job description")
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Missing job description", "jobDescription field is required", http.StatusBadRequest)
			return
		}

		if len(req.ResumeText) > int(s.MaxRequestSize/2) {
			err := fmt.Errorf("resume too large: %d chars", len(req.ResumeText))
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Resume too large", fmt.Sprintf("resumeText exceeds recommended size limit of %d characters", s.MaxRequestSize/2), http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.Int("request.resume_length", len(req.ResumeText)),
			attribute.Int("request.job_length", len(req.JobDescription)),
			attribute.String("operation", "analyze"),
		)

		input := types.AnalyzeInput{
			ResumeText:     req.ResumeText,
			JobDescription: req.JobDescription,
			Persona:        req.Persona,
		}

		metrics := om.GetMetrics()
		result, err := runAIOperation(ctx, s, om, "analyze", s.AppConfig.GetAnalyzeConfig(),
			func(ctx context.Context, p ai.AIProvider) (types.AnalysisResult, *ai.TokenUsage, error) {
				return p.AnalyzeResume(ctx, input)
			})
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "ai_processing"))
			metrics.RecordBusinessMetric(ctx, "resume_analyzed", false, om,
				attribute.String("error", err.Error()))
			writeErrorResponse(w, "Failed to analyze resume", err.Error(), http.StatusInternalServerError)
			return
		}

		metrics.RecordBusinessMetric(ctx, "resume_analyzed", true, om,
			attribute.Int("analysis.score", result.Score),
			attribute.Int("analysis.missing_keywords", len(result.MissingKeywords)))

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("analysis.score", result.Score),
		)

		writeJSONResponse(w, span, result)
	}
}

// createRescoreHandler handles the quick rescore endpoint
func (s *Server) createRescoreHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("careerstealth.api")
		ctx, span := tracer.Start(ctx, "api.rescore")
		defer span.End()

		var req RescoreRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		if strings.TrimSpace(req.JobDescription) == "" {
			err := fmt.Errorf("missing job description")
			span.RecordError(err)
			writeErrorResponse(w, "Missing job description", "jobDescription field is required", http.StatusBadRequest)
			return
		}
		req.Resume.Normalize()
		if err := req.Resume.Validate(); err != nil {
			span.RecordError(err)
			writeErrorResponse(w, "Invalid resume document", err.Error(), http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.Int("request.job_length", len(req.JobDescription)),
			attribute.String("operation", "rescore"),
		)

		input := types.RescoreInput{
			Resume:         req.Resume,
			JobDescription: req.JobDescription,
		}

		metrics := om.GetMetrics()
		result, err := runAIOperation(ctx, s, om, "rescore", s.AppConfig.GetRescoreConfig(),
			func(ctx context.Context, p ai.AIProvider) (types.RescoreResult, *ai.TokenUsage, error) {
				return p.RescoreResume(ctx, input)
			})
		if err != nil {
			span.RecordError(err)
			metrics.RecordBusinessMetric(ctx, "resume_rescored", false, om)
			writeErrorResponse(w, "Failed to rescore resume", err.Error(), http.StatusInternalServerError)
			return
		}

		metrics.RecordBusinessMetric(ctx, "resume_rescored", true, om,
			attribute.Int("rescore.score", result.Score))

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("rescore.score", result.Score),
		)

		writeJSONResponse(w, span, result)
	}
}

// createImproveHandler handles the single-field rewrite endpoint
func (s *Server) createImproveHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("careerstealth.api")
		ctx, span := tracer.Start(ctx, "api.improve")
		defer span.End()

		var req ImproveRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		if strings.TrimSpace(req.CurrentText) == "" {
			err := fmt.Errorf("missing current text")
			span.RecordError(err)
			writeErrorResponse(w, "Missing current text", "currentText field is required", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.JobDescription) == "" {
			err := fmt.Errorf("missing job description")
			span.RecordError(err)
			writeErrorResponse(w, "Missing job description", "jobDescription field is required", http.StatusBadRequest)
			return
		}
		if req.SectionType == "" {
			req.SectionType = "text"
		}

		span.SetAttributes(
			attribute.String("request.section_type", req.SectionType),
			attribute.Int("request.text_length", len(req.CurrentText)),
			attribute.String("operation", "improve"),
		)

		input := types.ImproveInput{
			CurrentText:    req.CurrentText,
			SectionType:    req.SectionType,
			JobDescription: req.JobDescription,
		}

		metrics := om.GetMetrics()
		result, err := runAIOperation(ctx, s, om, "improve", s.AppConfig.GetImproveConfig(),
			func(ctx context.Context, p ai.AIProvider) (types.ImproveResult, *ai.TokenUsage, error) {
				return p.ImproveSection(ctx, input)
			})
		if err != nil {
			span.RecordError(err)
			metrics.RecordBusinessMetric(ctx, "field_improved", false, om)
			writeErrorResponse(w, "Failed to improve text", err.Error(), http.StatusInternalServerError)
			return
		}

		metrics.RecordBusinessMetric(ctx, "field_improved", true, om,
			attribute.String("section_type", req.SectionType))

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("response.text_length", len(result.Text)),
		)

		writeJSONResponse(w, span, result)
	}
}

// createCoverLetterHandler handles the cover letter generation endpoint
func (s *Server) createCoverLetterHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("careerstealth.api")
		ctx, span := tracer.Start(ctx, "api.coverletter")
		defer span.End()

		var req CoverLetterRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		if strings.TrimSpace(req.JobDescription) == "" {
			err := fmt.Errorf("missing job description")
			span.RecordError(err)
			writeErrorResponse(w, "Missing job description", "jobDescription field is required", http.StatusBadRequest)
			return
		}
		req.Resume.Normalize()

		span.SetAttributes(
			attribute.String("request.tone", req.Tone),
			attribute.String("operation", "coverletter"),
		)

		input := types.CoverLetterInput{
			Resume:         req.Resume,
			JobDescription: req.JobDescription,
			Tone:           req.Tone,
		}

		metrics := om.GetMetrics()
		result, err := runAIOperation(ctx, s, om, "coverLetter", s.AppConfig.GetCoverLetterConfig(),
			func(ctx context.Context, p ai.AIProvider) (types.CoverLetterResult, *ai.TokenUsage, error) {
				return p.GenerateCoverLetter(ctx, input)
			})
		if err != nil {
			span.RecordError(err)
			metrics.RecordBusinessMetric(ctx, "cover_letter_generated", false, om)
			writeErrorResponse(w, "Failed to generate cover letter", err.Error(), http.StatusInternalServerError)
			return
		}

		metrics.RecordBusinessMetric(ctx, "cover_letter_generated", true, om)

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("response.text_length", len(result.Text)),
		)

		writeJSONResponse(w, span, result)
	}
}

// createRateLimitMiddleware adds observability to rate limiting
func (s *Server) createRateLimitMiddleware(om *observability.ObservabilityManager) func(http.HandlerFunc) http.HandlerFunc {
	originalMiddleware := s.rateLimitMiddleware()

	return func(next http.HandlerFunc) http.HandlerFunc {
		return originalMiddleware(func(w http.ResponseWriter, r *http.Request) {
			// Wrap the ResponseWriter to detect rate limit responses.
			wrapper := &responseWrapper{ResponseWriter: w, statusCode: 200}

			next(wrapper, r)

			if wrapper.statusCode == http.StatusTooManyRequests {
				metrics := om.GetMetrics()
				metrics.RecordBusinessMetric(r.Context(), "rate_limit_hit", true, om,
					attribute.String("endpoint", r.URL.Path),
					attribute.String("method", r.Method))
			}
		})
	}
}

// responseWrapper wraps http.ResponseWriter to capture status code
type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWrapper) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// writeJSONResponse encodes a success payload, recording encode failures
// on the span.
func writeJSONResponse(w http.ResponseWriter, span trace.Span, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		span.RecordError(err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}
