package server

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"careerstealth/internal/config"
	"careerstealth/internal/document"
	"careerstealth/internal/errors"
	"careerstealth/internal/observability"
)

var serverTestLogger = errors.NewLogger(slog.LevelError)

func newTestServer(t *testing.T, apiKeys []string) *Server {
	t.Helper()

	appCfg := &config.Config{
		Export: config.ExportConfig{
			Template: "modern",
			Spacing:  "normal",
			FontSize: 10,
			Scale:    2.0,
		},
	}
	appCfg.App.MaxFileSize = 10 * 1024 * 1024

	return NewServer(appCfg, ServerConfig{
		Host:           "127.0.0.1",
		Port:           "8080",
		Version:        "test",
		APIKeys:        apiKeys,
		MaxRequestSize: 10 * 1024 * 1024,
	}, serverTestLogger)
}

func disabledObservability(t *testing.T, cfg *config.Config) *observability.ObservabilityManager {
	t.Helper()
	om, err := observability.NewObservabilityManager(observability.ObservabilityConfig{Enabled: false}, cfg)
	require.NoError(t, err)
	return om
}

func exportDocFixture() document.Document {
	doc := document.Document{
		FullName:    "Jane Q. Public",
		Title:       "Senior Software Engineer",
		ContactInfo: "jane@example.com | Portland, OR",
		Summary:     "Engineer with a decade of distributed systems work.",
		Skills:      []string{"Go", "Kubernetes", "PostgreSQL"},
		SocialLinks: []document.SocialLink{
			{ID: "sl-1", Platform: "GitHub", URL: "https://github.com/janeq"},
		},
		Experience: []document.ExperienceItem{
			{
				ID:       "exp-1",
				Role:     "Senior Software Engineer",
				Company:  "Initech",
				Duration: "2019 - Present",
				Points: []string{
					"Led migration of the billing pipeline to event sourcing.",
					"Cut p99 latency from 900ms to 120ms.",
				},
			},
		},
		Education: []document.EducationItem{
			{ID: "edu-1", Degree: "BS Computer Science", School: "State University", Year: "2014"},
		},
	}
	doc.Normalize()
	return doc
}

func postJSON(t *testing.T, handler http.HandlerFunc, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestTemplatesHandlerListsRegistry(t *testing.T) {
	s := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/templates", nil)
	rec := httptest.NewRecorder()
	s.templatesHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var templates []struct {
		ID     string `json:"id"`
		Name   string `json:"name"`
		Layout string `json:"layout"`
		Theme  string `json:"theme"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &templates))
	require.NotEmpty(t, templates)

	ids := make([]string, 0, len(templates))
	for _, tpl := range templates {
		ids = append(ids, tpl.ID)
		assert.NotEmpty(t, tpl.Name)
		assert.NotEmpty(t, tpl.Layout)
	}
	assert.Contains(t, ids, "modern")
}

func TestTemplatesHandlerRejectsPost(t *testing.T) {
	s := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/templates", nil)
	rec := httptest.NewRecorder()
	s.templatesHandler(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestExportHandlerProducesPDF(t *testing.T) {
	s := newTestServer(t, nil)
	om := disabledObservability(t, s.AppConfig)
	handler := s.createExportHandler(om)

	rec := postJSON(t, handler, "/api/v1/export", ExportRequest{
		Resume:   exportDocFixture(),
		Keywords: []string{"Go", "Kubernetes"},
	})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "Jane_Q._Public_Resume.pdf")

	pages, err := strconv.Atoi(rec.Header().Get("X-Page-Count"))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, pages, 1)

	body := rec.Body.Bytes()
	require.Greater(t, len(body), 4)
	assert.Equal(t, "%PDF", string(body[:4]))
}

func TestExportHandlerRejectsUnknownTemplate(t *testing.T) {
	s := newTestServer(t, nil)
	om := disabledObservability(t, s.AppConfig)
	handler := s.createExportHandler(om)

	rec := postJSON(t, handler, "/api/v1/export", ExportRequest{
		Resume:   exportDocFixture(),
		Template: "no-such-template",
	})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestExportHandlerRejectsInvalidSpacing(t *testing.T) {
	s := newTestServer(t, nil)
	om := disabledObservability(t, s.AppConfig)
	handler := s.createExportHandler(om)

	rec := postJSON(t, handler, "/api/v1/export", ExportRequest{
		Resume:  exportDocFixture(),
		Spacing: "cozy",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportHandlerRejectsDuplicateItemIDs(t *testing.T) {
	s := newTestServer(t, nil)
	om := disabledObservability(t, s.AppConfig)
	handler := s.createExportHandler(om)

	doc := exportDocFixture()
	doc.Experience = append(doc.Experience, document.ExperienceItem{
		ID: "exp-1", Role: "Duplicate", Company: "Initech", Points: []string{},
	})

	rec := postJSON(t, handler, "/api/v1/export", ExportRequest{Resume: doc})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportHandlerRejectsBadJSON(t *testing.T) {
	s := newTestServer(t, nil)
	om := disabledObservability(t, s.AppConfig)
	handler := s.createExportHandler(om)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/export", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthMiddleware(t *testing.T) {
	s := newTestServer(t, []string{"secret-key-12345"})

	var called bool
	next := func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}
	handler := s.authMiddleware(next)

	t.Run("missing key is rejected", func(t *testing.T) {
		called = false
		req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", nil)
		rec := httptest.NewRecorder()
		handler(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, called)
	})

	t.Run("invalid key is rejected", func(t *testing.T) {
		called = false
		req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", nil)
		req.Header.Set("X-API-Key", "wrong-key")
		rec := httptest.NewRecorder()
		handler(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, called)
	})

	t.Run("valid header key passes", func(t *testing.T) {
		called = false
		req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", nil)
		req.Header.Set("X-API-Key", "secret-key-12345")
		rec := httptest.NewRecorder()
		handler(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, called)
	})

	t.Run("bearer token passes", func(t *testing.T) {
		called = false
		req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", nil)
		req.Header.Set("Authorization", "Bearer secret-key-12345")
		rec := httptest.NewRecorder()
		handler(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, called)
	})
}

func TestAuthMiddlewareOpenWithoutKeys(t *testing.T) {
	s := newTestServer(t, nil)

	var called bool
	handler := s.authMiddleware(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, called)
}

func TestStatsHandlerIncludesExportConfig(t *testing.T) {
	s := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/statsz", nil)
	rec := httptest.NewRecorder()
	s.statsHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var stats map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, "careerstealth", stats["service"])

	exportCfg, ok := stats["export_config"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "modern", exportCfg["template"])
}

func TestHealthHandlerRejectsPost(t *testing.T) {
	s := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.healthHandler(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestParseJSONRequestRequiresContentType(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", bytes.NewReader([]byte(`{}`)))

	var out map[string]any
	err := parseJSONRequest(req, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "content-type")
}

func TestRateLimiterBurst(t *testing.T) {
	limiter := NewRateLimiter(60, time.Minute, 2, serverTestLogger)
	defer limiter.Close()

	assert.True(t, limiter.Allow("ip:10.0.0.1"))
	assert.True(t, limiter.Allow("ip:10.0.0.1"))
	assert.False(t, limiter.Allow("ip:10.0.0.1"))

	// Other keys have their own bucket
	assert.True(t, limiter.Allow("ip:10.0.0.2"))
}

func TestMaskAPIKey(t *testing.T) {
	assert.Equal(t, "****", maskAPIKey("short"))
	assert.Equal(t, "12345678****", maskAPIKey("1234567890abcdef"))
}

func TestGetClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.10:4312"
	assert.Equal(t, "192.0.2.10", getClientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.7, 192.0.2.10")
	assert.Equal(t, "203.0.113.7", getClientIP(req))
}
