package cli

import (
	"context"
	"fmt"

	"careerstealth/internal/ai"
	"careerstealth/internal/common"
	"careerstealth/internal/document"
	"careerstealth/internal/session"
	"careerstealth/internal/types"

	"github.com/spf13/cobra"
)

var improveCmd = &cobra.Command{
	Use:   "improve [field-text-file] [job-description-file]",
	Short: "Rewrite a single resume field for impact",
	Long: `Rewrite one resume field (a summary or a single bullet point) so it
better targets the job description.

With two arguments, the first is a file holding the current field text
and the second the job description file; the rewrite goes to the output.

With --summary or --item, the field comes from the saved working session
(as created by the analyze command), the rewrite is applied to it and the
session is saved. Only the job description file argument is needed then.`,
	Args: cobra.RangeArgs(1, 2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfigFromContext(cmd.Context())
		if err != nil {
			return err
		}
		if improveConfig.OutputFormat == "" {
			improveConfig.OutputFormat = cfg.App.DefaultFormat
		}
		return common.ValidateOutputFormat(improveConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runImprove,
}

var improveConfig common.CommandConfig
var (
	improveSectionType string
	improveSummary     bool
	improveItemID      string
	improveItemSection string
	improvePoint       int
)

func init() {
	improveCmd.Flags().StringVarP(&improveConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	improveCmd.Flags().StringVar(&improveConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
	improveCmd.Flags().StringVar(&improveSectionType, "section", "text", "Kind of field being rewritten: summary, experience point, project point")
	improveCmd.Flags().BoolVar(&improveSummary, "summary", false, "Rewrite the saved session's summary")
	improveCmd.Flags().StringVar(&improveItemID, "item", "", "Rewrite a bullet of this item in the saved session")
	improveCmd.Flags().StringVar(&improveItemSection, "item-section", "experience", "Section of the --item target: experience or activities")
	improveCmd.Flags().IntVar(&improvePoint, "point", 0, "Zero-based bullet index of the --item target")
}

func runImprove(cmd *cobra.Command, args []string) error {
	if improveSummary || improveItemID != "" {
		return runImproveSession(cmd, args)
	}
	if len(args) != 2 {
		return fmt.Errorf("expected [field-text-file] [job-description-file], or --summary/--item with a job description file")
	}

	cfg, err := getConfigFromContext(cmd.Context())
	if err != nil {
		return err
	}
	logger, err := getLoggerFromContext(cmd.Context())
	if err != nil {
		return err
	}

	improveAIConfig := cfg.GetImproveConfig()
	aiService, err := ai.NewService(&improveAIConfig, "improve", logger)
	if err != nil {
		return fmt.Errorf("failed to create AI service: %w", err)
	}

	createInput := func(contents []string) (types.ImproveInput, error) {
		if len(contents) != 2 {
			return types.ImproveInput{}, fmt.Errorf("expected 2 file paths, got %d", len(contents))
		}
		return types.ImproveInput{
			CurrentText:    contents[0],
			SectionType:    improveSectionType,
			JobDescription: contents[1],
		}, nil
	}

	logDetails := func(input types.ImproveInput, cfg common.CommandConfig) {
		logger.Info("Starting field rewrite",
			"section_type", input.SectionType,
			"field_chars", len(input.CurrentText),
			"output_format", cfg.OutputFormat)
	}

	improveOperation := func(ctx context.Context, input types.ImproveInput) (types.ImproveResult, *ai.TokenUsage, error) {
		return aiService.Provider.ImproveSection(ctx, input)
	}

	err = common.RunAICommand(
		cmd.Context(),
		logger,
		improveConfig,
		args,
		createInput,
		improveOperation,
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to rewrite field: %w", err)
	}
	logger.Info("Field rewrite completed successfully")
	return nil
}

// runImproveSession rewrites a field of the saved session document. The
// field is marked in flight for the duration of the request; a rewrite
// landing after its item was deleted is discarded by the controller.
func runImproveSession(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("session rewrites take one argument: the job description file")
	}
	if improveSummary && improveItemID != "" {
		return fmt.Errorf("--summary and --item are mutually exclusive")
	}

	cfg, err := getConfigFromContext(cmd.Context())
	if err != nil {
		return err
	}
	logger, err := getLoggerFromContext(cmd.Context())
	if err != nil {
		return err
	}

	ctrl, store, err := openSessionController(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	doc := ctrl.Document()
	if doc == nil {
		return fmt.Errorf("no saved analysis to improve; run analyze first")
	}

	var key session.FieldKey
	var currentText, sectionType string
	if improveSummary {
		key = session.SummaryField()
		currentText = doc.Summary
		sectionType = "summary"
	} else {
		sec := document.Section(improveItemSection)
		key = session.PointField(sec, improveItemID, improvePoint)
		currentText, err = doc.PointText(sec, improveItemID, improvePoint)
		if err != nil {
			return err
		}
		sectionType = "experience point"
	}

	contents, err := common.NewFileProcessor(logger).ValidateAndReadFiles(args[0])
	if err != nil {
		return err
	}

	improveAIConfig := cfg.GetImproveConfig()
	aiService, err := ai.NewService(&improveAIConfig, "improve", logger)
	if err != nil {
		return fmt.Errorf("failed to create AI service: %w", err)
	}

	if err := ctrl.BeginImprove(key); err != nil {
		return err
	}

	logger.Info("Starting session field rewrite",
		"section_type", sectionType,
		"item_id", key.ItemID,
		"field_chars", len(currentText))

	result, tokenUsage, err := aiService.Provider.ImproveSection(cmd.Context(), types.ImproveInput{
		CurrentText:    currentText,
		SectionType:    sectionType,
		JobDescription: contents[0],
	})
	if err != nil {
		ctrl.AbortImprove(key)
		return fmt.Errorf("failed to rewrite field: %w", err)
	}

	if tokenUsage != nil {
		logger.Info("AI token usage",
			"input_tokens", tokenUsage.InputTokens,
			"output_tokens", tokenUsage.OutputTokens,
			"total_tokens", tokenUsage.TotalTokens)
	}

	if err := ctrl.CompleteImprove(key, result.Text); err != nil {
		return err
	}
	if err := ctrl.Save(cmd.Context()); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), result.Text)
	logger.Info("Session field rewrite completed successfully")
	return nil
}
