package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"careerstealth/internal/config"
	"careerstealth/internal/document"
	"careerstealth/internal/errors"
	"careerstealth/internal/export"
	"careerstealth/internal/layout"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export [resume-json-file]",
	Short: "Export a structured resume to PDF",
	Long: `Export a structured resume (as produced by the analyze command) to a
paginated US Letter PDF. The document is rendered at a fixed page width,
split into pages and rasterized for pixel-faithful output, with
hyperlinks preserved as clickable regions.

With no argument, the saved working session (as created by the analyze
command) is exported instead; any stored preview zoom is ignored for the
export and restored afterwards.

With --watch the command keeps running and re-exports whenever the
resume file changes, which pairs well with hand-editing the JSON.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

var (
	exportTemplate string
	exportSpacing  string
	exportFontSize float64
	exportScale    float64
	exportKeywords []string
	exportFormat   string
	exportOutput   string
	exportWatch    bool
)

func init() {
	exportCmd.Flags().StringVarP(&exportTemplate, "template", "t", "", "Template ID (see the templates command)")
	exportCmd.Flags().StringVar(&exportSpacing, "spacing", "", "Line spacing: compact, normal, or open")
	exportCmd.Flags().Float64Var(&exportFontSize, "font-size", 0, "Base font size in points (default from config)")
	exportCmd.Flags().Float64Var(&exportScale, "scale", 0, "Raster oversampling factor, 1 to 4 (default from config)")
	exportCmd.Flags().StringSliceVar(&exportKeywords, "keywords", nil, "Keywords to highlight in the output")
	exportCmd.Flags().StringVar(&exportFormat, "format", "pdf", "Output format: pdf, latex, or json")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file path (default: derived from the candidate name)")
	exportCmd.Flags().BoolVarP(&exportWatch, "watch", "w", false, "Re-export whenever the resume file changes")
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := getConfigFromContext(cmd.Context())
	if err != nil {
		return err
	}
	logger, err := getLoggerFromContext(cmd.Context())
	if err != nil {
		return err
	}

	switch exportFormat {
	case "pdf", "latex", "json":
	default:
		return fmt.Errorf("unsupported export format '%s'. Supported formats: [pdf latex json]", exportFormat)
	}

	if len(args) == 0 {
		if exportWatch {
			return fmt.Errorf("--watch requires a resume file argument")
		}
		return exportFromSession(cmd.Context(), cfg, logger)
	}

	exporter := export.New(logger)
	resumePath := args[0]

	if err := exportOnce(cmd.Context(), exporter, cfg, logger, resumePath); err != nil {
		return err
	}

	if !exportWatch {
		return nil
	}
	return watchAndExport(cmd.Context(), exporter, cfg, logger, resumePath)
}

// exportFromSession exports the saved working session's document. The PDF
// path goes through the session controller so zoom normalization applies.
func exportFromSession(ctx context.Context, cfg *config.Config, logger *errors.Logger) error {
	ctrl, store, err := openSessionController(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	doc := ctrl.Document()
	if doc == nil {
		return fmt.Errorf("no saved analysis to export; run analyze first or pass a resume file")
	}

	switch exportFormat {
	case "latex":
		return writeExportOutput([]byte(export.ExportLaTeX(doc)), outputPathOr(doc.FullName, ".tex"), logger)
	case "json":
		out, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode resume: %w", err)
		}
		return writeExportOutput(out, outputPathOr(doc.FullName, ".json"), logger)
	}

	opts, err := buildExportOptions(cfg)
	if err != nil {
		return err
	}

	logger.Info("Starting PDF export from session",
		"template", opts.TemplateID,
		"scale", opts.Scale,
		"keywords", len(opts.Keywords))

	artifact, err := ctrl.ExportPDF(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to export PDF: %w", err)
	}
	return writeArtifact(artifact, logger)
}

// exportOnce runs one full export of the resume file.
func exportOnce(ctx context.Context, exporter *export.Exporter, cfg *config.Config, logger *errors.Logger, resumePath string) error {
	data, err := os.ReadFile(resumePath)
	if err != nil {
		return fmt.Errorf("failed to read resume file: %w", err)
	}

	var doc document.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse structured resume: %w", err)
	}
	doc.Normalize()
	if err := doc.Validate(); err != nil {
		return err
	}

	switch exportFormat {
	case "latex":
		return writeExportOutput([]byte(export.ExportLaTeX(&doc)), outputPathOr(doc.FullName, ".tex"), logger)
	case "json":
		out, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode resume: %w", err)
		}
		return writeExportOutput(out, outputPathOr(doc.FullName, ".json"), logger)
	}

	opts, err := buildExportOptions(cfg)
	if err != nil {
		return err
	}

	logger.Info("Starting PDF export",
		"template", opts.TemplateID,
		"scale", opts.Scale,
		"keywords", len(opts.Keywords))

	artifact, err := exporter.ExportPDF(ctx, &doc, opts)
	if err != nil {
		return fmt.Errorf("failed to export PDF: %w", err)
	}
	return writeArtifact(artifact, logger)
}

// buildExportOptions resolves the export flags against config defaults.
func buildExportOptions(cfg *config.Config) (export.Options, error) {
	spacing, err := layout.ParseSpacing(spacingOrDefault(cfg))
	if err != nil {
		return export.Options{}, err
	}

	opts := export.Options{
		TemplateID: exportTemplate,
		Spacing:    spacing,
		FontSize:   exportFontSize,
		Scale:      exportScale,
		Keywords:   exportKeywords,
	}
	if opts.TemplateID == "" {
		opts.TemplateID = cfg.Export.Template
	}
	if opts.FontSize == 0 {
		opts.FontSize = cfg.Export.FontSize
	}
	if opts.Scale == 0 {
		opts.Scale = cfg.Export.Scale
	}
	return opts, nil
}

// writeArtifact writes the exported PDF to the --output path or the
// artifact's own filename.
func writeArtifact(artifact *export.Artifact, logger *errors.Logger) error {
	outPath := exportOutput
	if outPath == "" {
		outPath = artifact.Filename
	}
	if err := os.WriteFile(outPath, artifact.Data, 0644); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}

	logger.Info("PDF export completed",
		"path", outPath,
		"pages", artifact.PageCount,
		"links", len(artifact.Links),
		"bytes", len(artifact.Data))
	return nil
}

// spacingOrDefault resolves the spacing flag against the config default.
func spacingOrDefault(cfg *config.Config) string {
	if exportSpacing != "" {
		return exportSpacing
	}
	return cfg.Export.Spacing
}

// outputPathOr derives an output path from the candidate name when no
// explicit --output was given.
func outputPathOr(fullName, ext string) string {
	if exportOutput != "" {
		return exportOutput
	}
	base := export.Filename(fullName)
	return base[:len(base)-len(".pdf")] + ext
}

func writeExportOutput(data []byte, path string, logger *errors.Logger) error {
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	logger.Info("Export completed", "path", path, "bytes", len(data))
	return nil
}

// watchAndExport re-exports the resume whenever its file changes. Editors
// tend to emit bursts of events per save, so changes are debounced.
func watchAndExport(ctx context.Context, exporter *export.Exporter, cfg *config.Config, logger *errors.Logger, resumePath string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() {
		if err := watcher.Close(); err != nil {
			logger.LogError(err, "Failed to close file watcher")
		}
	}()

	// Watch the directory: editors that write-and-rename replace the
	// file's inode, which a direct file watch would lose.
	dir := filepath.Dir(resumePath)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	target, err := filepath.Abs(resumePath)
	if err != nil {
		return fmt.Errorf("failed to resolve resume path: %w", err)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("Watching for changes", "path", resumePath)

	var debounce *time.Timer
	const debounceDelay = 300 * time.Millisecond
	runExport := func() {
		if err := exportOnce(ctx, exporter, cfg, logger, resumePath); err != nil {
			logger.LogError(err, "Re-export failed, still watching")
		}
	}

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil || abs != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(debounceDelay, runExport)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.LogError(err, "File watcher error")
		case sig := <-quit:
			logger.Info("Stopping watch", "signal", sig.String())
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
