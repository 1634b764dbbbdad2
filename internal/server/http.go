package server

import (
	"time"

	"careerstealth/internal/config"
	"careerstealth/internal/document"
	apperrors "careerstealth/internal/errors"
	"careerstealth/internal/export"
)

// AnalyzeRequest is the request body for the analyze endpoint
type AnalyzeRequest struct {
	ResumeText     string `json:"resumeText"`
	JobDescription string `json:"jobDescription"`
	Persona        string `json:"persona,omitempty"`
}

// RescoreRequest is the request body for the rescore endpoint
type RescoreRequest struct {
	Resume         document.Document `json:"resume"`
	JobDescription string            `json:"jobDescription"`
}

// ImproveRequest is the request body for the improve endpoint
type ImproveRequest struct {
	CurrentText    string `json:"currentText"`
	SectionType    string `json:"sectionType"`
	JobDescription string `json:"jobDescription"`
}

// CoverLetterRequest is the request body for the cover letter endpoint
type CoverLetterRequest struct {
	Resume         document.Document `json:"resume"`
	JobDescription string            `json:"jobDescription"`
	Tone           string            `json:"tone,omitempty"`
}

// ExportRequest is the request body for the export endpoint
type ExportRequest struct {
	Resume   document.Document `json:"resume"`
	Template string            `json:"template,omitempty"`
	Spacing  string            `json:"spacing,omitempty"`
	FontSize float64           `json:"fontSize,omitempty"`
	Scale    float64           `json:"scale,omitempty"`
	Keywords []string          `json:"keywords,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Server holds configuration for the HTTP server
type Server struct {
	Host    string
	Port    string
	Version string

	// Full application configuration
	AppConfig *config.Config

	// API Authentication
	APIKeys map[string]bool

	// Timeout configurations
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// Request size limit
	MaxRequestSize int64

	// Rate limiting
	RateLimit   *config.RateLimitConfig
	RateLimiter *RateLimiter

	// PDF export pipeline, shared across requests. The exporter itself
	// rejects overlapping exports.
	Exporter *export.Exporter

	// Logger
	Logger *apperrors.Logger
}

// ServerConfig holds configuration for creating a Server instance
type ServerConfig struct {
	Host           string
	Port           string
	Version        string
	APIKeys        []string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxRequestSize int64
	RateLimit      *config.RateLimitConfig
}

// NewServer creates a new Server instance from a ServerConfig struct
func NewServer(appCfg *config.Config, cfg ServerConfig, logger *apperrors.Logger) *Server {
	// Convert API keys slice to map for O(1) lookup
	apiKeyMap := make(map[string]bool)
	for _, key := range cfg.APIKeys {
		if key != "" {
			apiKeyMap[key] = true
		}
	}

	var rateLimiter *RateLimiter
	if cfg.RateLimit != nil && cfg.RateLimit.Enabled {
		rateLimiter = NewRateLimiter(
			cfg.RateLimit.RequestsPerMin,
			cfg.RateLimit.Window,
			cfg.RateLimit.BurstCapacity,
			logger,
		)
	}

	return &Server{
		Host:           cfg.Host,
		Port:           cfg.Port,
		Version:        cfg.Version,
		AppConfig:      appCfg,
		APIKeys:        apiKeyMap,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxRequestSize: cfg.MaxRequestSize,
		RateLimit:      cfg.RateLimit,
		RateLimiter:    rateLimiter,
		Exporter:       export.New(logger),
		Logger:         logger,
	}
}
