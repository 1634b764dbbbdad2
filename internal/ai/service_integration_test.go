package ai

import (
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"careerstealth/internal/config"
	"careerstealth/internal/errors"
	"careerstealth/internal/types"
)

// Helper functions to create pointers for test values
func timePtr(d time.Duration) *time.Duration { return &d }
func intPtr(i int) *int                      { return &i }
func float32Ptr(f float32) *float32          { return &f }
func boolPtr(b bool) *bool                   { return &b }

var testLogger = errors.NewLogger(slog.LevelDebug)

// TestOperationSpecificConfigDerivation verifies that operation-specific
// configurations are correctly derived, with fallbacks to the global
// configuration.
func TestOperationSpecificConfigDerivation(t *testing.T) {
	testConfig := createTestConfigWithOverrides()

	testCases := []struct {
		name           string
		getConfig      func() config.OperationAIConfig
		expectedValues map[string]interface{}
		fallbackValues map[string]interface{}
	}{
		{
			name:      "AnalyzeConfigDerivation",
			getConfig: testConfig.GetAnalyzeConfig,
			expectedValues: map[string]interface{}{
				"Model":       "analyze-specific-model",
				"Timeout":     90 * time.Second,
				"Temperature": float32(0.3),
			},
			fallbackValues: map[string]interface{}{
				"APIKey":     "global-api-key",
				"MaxRetries": 5,
			},
		},
		{
			name:      "RescoreConfigDerivation",
			getConfig: testConfig.GetRescoreConfig,
			expectedValues: map[string]interface{}{
				"Model":      "rescore-specific-model",
				"MaxRetries": 1,
			},
			fallbackValues: map[string]interface{}{
				"Timeout": 60 * time.Second,
			},
		},
		{
			name:           "ImproveConfigDerivation",
			getConfig:      testConfig.GetImproveConfig,
			expectedValues: map[string]interface{}{
				// All values should fall back to global defaults
			},
			fallbackValues: map[string]interface{}{
				"Model":   "global-model",
				"Timeout": 60 * time.Second,
				"APIKey":  "global-api-key",
			},
		},
		{
			name:           "CoverLetterConfigDerivation",
			getConfig:      testConfig.GetCoverLetterConfig,
			expectedValues: map[string]interface{}{},
			fallbackValues: map[string]interface{}{
				"Model":  "global-model",
				"APIKey": "global-api-key",
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := tc.getConfig()
			assertConfigValues(t, cfg, tc.expectedValues, tc.fallbackValues)
			assertServiceCreation(t, cfg, tc.name)
		})
	}
}

// createTestConfigWithOverrides creates a test config with operation-specific overrides
func createTestConfigWithOverrides() *config.Config {
	return &config.Config{
		AI: config.AIConfig{
			Provider:         "gemini",
			Model:            "global-model",
			Timeout:          60 * time.Second,
			APIKey:           "global-api-key",
			MaxRetries:       5,
			Temperature:      0.9,
			UseSystemPrompts: true,

			Analyze: config.OperationAIConfig{
				Model:       "analyze-specific-model",
				Timeout:     timePtr(90 * time.Second),
				Temperature: float32Ptr(0.3),
				// APIKey and MaxRetries fall back to global values.
			},

			Rescore: config.OperationAIConfig{
				Model:      "rescore-specific-model",
				MaxRetries: intPtr(1),
			},

			Improve:     config.OperationAIConfig{},
			CoverLetter: config.OperationAIConfig{},
		},
	}
}

// assertConfigValues verifies that config values match expected and fallback values
func assertConfigValues(t *testing.T, cfg config.OperationAIConfig, expectedValues, fallbackValues map[string]interface{}) {
	t.Helper()

	for key, expected := range expectedValues {
		assertConfigValue(t, cfg, key, expected)
	}
	for key, expected := range fallbackValues {
		assertConfigValue(t, cfg, key, expected)
	}
}

// assertConfigValue checks a specific config value
func assertConfigValue(t *testing.T, cfg config.OperationAIConfig, key string, expected interface{}) {
	t.Helper()

	switch key {
	case "Model":
		if cfg.Model != expected.(string) {
			t.Errorf("Expected %s '%s', got '%s'", key, expected, cfg.Model)
		}
	case "Timeout":
		if *cfg.Timeout != expected.(time.Duration) {
			t.Errorf("Expected %s %v, got %v", key, expected, *cfg.Timeout)
		}
	case "Temperature":
		if *cfg.Temperature != expected.(float32) {
			t.Errorf("Expected %s %f, got %f", key, expected, *cfg.Temperature)
		}
	case "APIKey":
		if cfg.APIKey != expected.(string) {
			t.Errorf("Expected %s '%s', got '%s'", key, expected, cfg.APIKey)
		}
	case "MaxRetries":
		if *cfg.MaxRetries != expected.(int) {
			t.Errorf("Expected %s %d, got %d", key, expected, *cfg.MaxRetries)
		}
	}
}

// assertServiceCreation verifies that a service can be created with the derived config
func assertServiceCreation(t *testing.T, cfg config.OperationAIConfig, operation string) {
	t.Helper()

	_, err := NewService(&cfg, operation, testLogger)
	if err != nil {
		// A dummy API key can fail client creation; the point is that the
		// factory consumes the derived config without panicking.
		t.Logf("Received expected error when creating service with test key: %v", err)
	}
}

func TestCircuitBreakerIntegrationWithServices(t *testing.T) {
	testOpConfig := &config.OperationAIConfig{
		Provider:         "gemini",
		Model:            "test-model",
		Timeout:          timePtr(30 * time.Second),
		APIKey:           "test-key",
		MaxRetries:       intPtr(1),
		Temperature:      float32Ptr(0.5),
		UseSystemPrompts: boolPtr(true),
		CircuitBreaker: config.CircuitBreakerConfig{
			Enabled:          true,
			MaxRequests:      5,
			Interval:         30 * time.Second,
			Timeout:          45 * time.Second,
			MinRequests:      2,
			FailureThreshold: 0.8,
		},
	}

	service, err := NewService(testOpConfig, "analyze", testLogger)
	if err != nil {
		t.Fatalf("Failed to create service: %v", err)
	}

	if service.config.CircuitBreaker.MaxRequests != 5 {
		t.Errorf("Expected circuit breaker max requests 5, got %d", service.config.CircuitBreaker.MaxRequests)
	}
	if service.config.CircuitBreaker.FailureThreshold != 0.8 {
		t.Errorf("Expected circuit breaker failure threshold 0.8, got %f", service.config.CircuitBreaker.FailureThreshold)
	}

	if geminiProvider, ok := service.Provider.(*GeminiProvider); ok {
		stats := geminiProvider.GetCircuitBreakerStats()

		aiOpsStats, ok := stats["ai_operations"].(map[string]any)
		if !ok {
			t.Fatal("AI operations stats should exist and be a map")
		}
		if name, _ := aiOpsStats["name"].(string); name != "AI-analyze" {
			t.Errorf("Expected circuit breaker name 'AI-analyze', got '%s'", name)
		}

		modelOpsStats, ok := stats["model_operations"].(map[string]any)
		if !ok {
			t.Fatal("Model operations stats should exist and be a map")
		}
		if name, _ := modelOpsStats["name"].(string); name != "AI-Model-analyze" {
			t.Errorf("Expected model circuit breaker name 'AI-Model-analyze', got '%s'", name)
		}

		if overallHealthy, _ := stats["overall_healthy"].(bool); !overallHealthy {
			t.Error("Circuit breaker should be healthy initially")
		}
	} else {
		t.Fatal("Service provider is not of type *GeminiProvider")
	}
}

func TestCritiqueHeadshotRejectsEmptyImage(t *testing.T) {
	g := &GeminiProvider{
		config:        &config.OperationAIConfig{Model: "test-model"},
		operationType: "analyze",
	}

	_, _, err := g.CritiqueHeadshot(context.Background(), types.HeadshotInput{Persona: "gruff"})
	if err == nil {
		t.Fatal("Expected an error for an empty image")
	}
	if !strings.Contains(err.Error(), "image is empty") {
		t.Errorf("Expected empty-image validation error, got %v", err)
	}
}

func TestHeadshotPromptTakesPersona(t *testing.T) {
	p, ok := DefaultPrompts["headshot"]
	if !ok {
		t.Fatal("headshot prompts should be registered")
	}
	if !strings.Contains(p.User, "%s") {
		t.Error("headshot user template should carry a persona slot")
	}
}

func TestPromptResolutionPrefersConfigOverrides(t *testing.T) {
	cfg := &config.OperationAIConfig{
		Provider:    "gemini",
		Model:       "test-model",
		Temperature: float32Ptr(0.2),
		Prompts: config.PromptConfig{
			System: "custom system prompt",
		},
	}

	g := &GeminiProvider{config: cfg, operationType: "analyze"}

	system, user := g.prompts("analyze")
	if system != "custom system prompt" {
		t.Errorf("Expected config system prompt, got %q", system)
	}
	if user != DefaultPrompts["analyze"].User {
		t.Error("User template should fall back to the default")
	}

	// Helper operations ignore this provider's overrides.
	system, _ = g.prompts("learningPlan")
	if system != DefaultPrompts["learningPlan"].System {
		t.Error("Helper operation should use its own default system prompt")
	}
}
