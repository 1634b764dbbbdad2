package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"careerstealth/internal/ai"
	"careerstealth/internal/common"
	"careerstealth/internal/document"
	"careerstealth/internal/types"

	"github.com/spf13/cobra"
)

var rescoreCmd = &cobra.Command{
	Use:   "rescore [resume-json-file] [job-description-file]",
	Short: "Re-score an edited structured resume",
	Long: `Re-score an edited resume against the original job description.
The first argument is a structured resume in JSON form (as produced by
the analyze command), the second is the job description file. The result
is a fresh 0-100 score with short feedback.`,
	Args: cobra.ExactArgs(2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfigFromContext(cmd.Context())
		if err != nil {
			return err
		}
		if rescoreConfig.OutputFormat == "" {
			rescoreConfig.OutputFormat = cfg.App.DefaultFormat
		}
		return common.ValidateOutputFormat(rescoreConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runRescore,
}

var rescoreConfig common.CommandConfig

func init() {
	rescoreCmd.Flags().StringVarP(&rescoreConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	rescoreCmd.Flags().StringVar(&rescoreConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
}

func runRescore(cmd *cobra.Command, args []string) error {
	cfg, err := getConfigFromContext(cmd.Context())
	if err != nil {
		return err
	}
	logger, err := getLoggerFromContext(cmd.Context())
	if err != nil {
		return err
	}

	rescoreAIConfig := cfg.GetRescoreConfig()
	aiService, err := ai.NewService(&rescoreAIConfig, "rescore", logger)
	if err != nil {
		return fmt.Errorf("failed to create AI service: %w", err)
	}

	createInput := func(contents []string) (types.RescoreInput, error) {
		if len(contents) != 2 {
			return types.RescoreInput{}, fmt.Errorf("expected 2 file paths, got %d", len(contents))
		}
		var doc document.Document
		if err := json.Unmarshal([]byte(contents[0]), &doc); err != nil {
			return types.RescoreInput{}, fmt.Errorf("failed to parse structured resume: %w", err)
		}
		doc.Normalize()
		if err := doc.Validate(); err != nil {
			return types.RescoreInput{}, err
		}
		return types.RescoreInput{
			Resume:         doc,
			JobDescription: contents[1],
		}, nil
	}

	logDetails := func(input types.RescoreInput, cfg common.CommandConfig) {
		logger.Info("Starting resume rescore",
			"job_chars", len(input.JobDescription),
			"output_format", cfg.OutputFormat)
	}

	rescoreOperation := func(ctx context.Context, input types.RescoreInput) (types.RescoreResult, *ai.TokenUsage, error) {
		return aiService.Provider.RescoreResume(ctx, input)
	}

	err = common.RunAICommand(
		cmd.Context(),
		logger,
		rescoreConfig,
		args,
		createInput,
		rescoreOperation,
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to rescore resume: %w", err)
	}
	logger.Info("Resume rescore completed successfully")
	return nil
}
