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

var coverLetterCmd = &cobra.Command{
	Use:   "coverletter [resume-json-file] [job-description-file]",
	Short: "Generate a cover letter from a structured resume",
	Long: `Generate a cover letter grounded in a structured resume and a job
description. The first argument is a structured resume in JSON form (as
produced by the analyze command), the second the job description file.`,
	Args: cobra.ExactArgs(2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfigFromContext(cmd.Context())
		if err != nil {
			return err
		}
		if coverLetterConfig.OutputFormat == "" {
			coverLetterConfig.OutputFormat = cfg.App.DefaultFormat
		}
		return common.ValidateOutputFormat(coverLetterConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runCoverLetter,
}

var coverLetterConfig common.CommandConfig
var coverLetterTone string

func init() {
	coverLetterCmd.Flags().StringVarP(&coverLetterConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	coverLetterCmd.Flags().StringVar(&coverLetterConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
	coverLetterCmd.Flags().StringVar(&coverLetterTone, "tone", "", "Letter tone: professional, enthusiastic, or concise (default professional)")
}

func runCoverLetter(cmd *cobra.Command, args []string) error {
	cfg, err := getConfigFromContext(cmd.Context())
	if err != nil {
		return err
	}
	logger, err := getLoggerFromContext(cmd.Context())
	if err != nil {
		return err
	}

	coverLetterAIConfig := cfg.GetCoverLetterConfig()
	aiService, err := ai.NewService(&coverLetterAIConfig, "coverLetter", logger)
	if err != nil {
		return fmt.Errorf("failed to create AI service: %w", err)
	}

	createInput := func(contents []string) (types.CoverLetterInput, error) {
		if len(contents) != 2 {
			return types.CoverLetterInput{}, fmt.Errorf("expected 2 file paths, got %d", len(contents))
		}
		var doc document.Document
		if err := json.Unmarshal([]byte(contents[0]), &doc); err != nil {
			return types.CoverLetterInput{}, fmt.Errorf("failed to parse structured resume: %w", err)
		}
		doc.Normalize()
		if err := doc.Validate(); err != nil {
			return types.CoverLetterInput{}, err
		}
		return types.CoverLetterInput{
			Resume:         doc,
			JobDescription: contents[1],
			Tone:           coverLetterTone,
		}, nil
	}

	logDetails := func(input types.CoverLetterInput, cfg common.CommandConfig) {
		logger.Info("Starting cover letter generation",
			"tone", input.Tone,
			"job_chars", len(input.JobDescription),
			"output_format", cfg.OutputFormat)
	}

	coverLetterOperation := func(ctx context.Context, input types.CoverLetterInput) (types.CoverLetterResult, *ai.TokenUsage, error) {
		result, tokenUsage, err := aiService.Provider.GenerateCoverLetter(ctx, input)
		if err != nil {
			return result, tokenUsage, err
		}

		// Attach the letter to the working session when one exists, so
		// it is there after a restart. Persistence failures never fail
		// the generation itself.
		if ctrl, store, sessErr := openSessionController(ctx, cfg, logger); sessErr != nil {
			logger.LogError(sessErr, "Session store unavailable; cover letter not saved to session")
		} else {
			defer store.Close()
			if ctrl.Document() != nil {
				ctrl.SetCoverLetter(result.Text)
				if saveErr := ctrl.Save(ctx); saveErr != nil {
					logger.LogError(saveErr, "Failed to save session")
				}
			}
		}
		return result, tokenUsage, err
	}

	err = common.RunAICommand(
		cmd.Context(),
		logger,
		coverLetterConfig,
		args,
		createInput,
		coverLetterOperation,
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to generate cover letter: %w", err)
	}
	logger.Info("Cover letter generation completed successfully")
	return nil
}
