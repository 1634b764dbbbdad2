package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.opentelemetry.io/otel/attribute"

	"careerstealth/internal/export"
	"careerstealth/internal/layout"
	"careerstealth/internal/observability"
	"careerstealth/internal/template"
)

// createExportHandler renders a posted document to a paginated PDF
func (s *Server) createExportHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("careerstealth.api")
		ctx, span := tracer.Start(ctx, "api.export")
		defer span.End()

		var req ExportRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		req.Resume.Normalize()
		if err := req.Resume.Validate(); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid resume document", err.Error(), http.StatusBadRequest)
			return
		}

		spacing, err := layout.ParseSpacing(req.Spacing)
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid spacing", err.Error(), http.StatusBadRequest)
			return
		}

		opts := export.Options{
			TemplateID: req.Template,
			Spacing:    spacing,
			FontSize:   req.FontSize,
			Scale:      req.Scale,
			Keywords:   req.Keywords,
		}
		if opts.TemplateID == "" {
			opts.TemplateID = s.AppConfig.Export.Template
		}
		if opts.FontSize == 0 {
			opts.FontSize = s.AppConfig.Export.FontSize
		}
		if opts.Scale == 0 {
			opts.Scale = s.AppConfig.Export.Scale
		}

		span.SetAttributes(
			attribute.String("export.template", opts.TemplateID),
			attribute.Float64("export.scale", opts.Scale),
			attribute.Int("export.keywords", len(opts.Keywords)),
			attribute.String("operation", "export"),
		)

		metrics := om.GetMetrics()
		var artifact *export.Artifact
		err = metrics.TrackExport(ctx, opts.TemplateID, func(ctx context.Context) (int, error) {
			a, exportErr := s.Exporter.ExportPDF(ctx, &req.Resume, opts)
			if exportErr != nil {
				return 0, exportErr
			}
			artifact = a
			return a.PageCount, nil
		}, om)
		if err != nil {
			span.RecordError(err)
			metrics.RecordBusinessMetric(ctx, "pdf_exported", false, om)
			status := http.StatusInternalServerError
			if export.IsInFlight(err) {
				status = http.StatusConflict
			}
			writeErrorResponse(w, "Failed to export PDF", err.Error(), status)
			return
		}

		metrics.RecordBusinessMetric(ctx, "pdf_exported", true, om,
			attribute.Int("export.pages", artifact.PageCount),
			attribute.Int("export.links", len(artifact.Links)))

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("export.pages", artifact.PageCount),
			attribute.Int("export.bytes", len(artifact.Data)),
		)

		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", artifact.Filename))
		w.Header().Set("X-Page-Count", fmt.Sprintf("%d", artifact.PageCount))
		if _, err := w.Write(artifact.Data); err != nil {
			span.RecordError(err)
		}
	}
}

// templatesHandler lists the template gallery
func (s *Server) templatesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	type templateInfo struct {
		ID     string `json:"id"`
		Name   string `json:"name"`
		Layout string `json:"layout"`
		Theme  string `json:"theme"`
	}

	configs := template.List()
	out := make([]templateInfo, 0, len(configs))
	for _, cfg := range configs {
		out = append(out, templateInfo{
			ID:     cfg.ID,
			Name:   cfg.Name,
			Layout: cfg.Layout.String(),
			Theme:  cfg.Theme.Name,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(out); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}
