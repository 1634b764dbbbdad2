package cli

import (
	"context"
	"fmt"

	"careerstealth/internal/ai"
	"careerstealth/internal/common"
	"careerstealth/internal/types"

	"github.com/spf13/cobra"
)

var linkedinCmd = &cobra.Command{
	Use:   "linkedin [profile-text-file]",
	Short: "Convert pasted LinkedIn profile text into a structured resume",
	Long: `Convert pasted LinkedIn profile text into a structured resume.
Copy the profile page text into a file and pass its path. The output is
the same structured document the analyze command produces, ready for
editing, rescoring and export.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfigFromContext(cmd.Context())
		if err != nil {
			return err
		}
		if linkedinConfig.OutputFormat == "" {
			linkedinConfig.OutputFormat = cfg.App.DefaultFormat
		}
		return common.ValidateOutputFormat(linkedinConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runLinkedin,
}

var linkedinConfig common.CommandConfig

func init() {
	linkedinCmd.Flags().StringVarP(&linkedinConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	linkedinCmd.Flags().StringVar(&linkedinConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
}

func runLinkedin(cmd *cobra.Command, args []string) error {
	cfg, err := getConfigFromContext(cmd.Context())
	if err != nil {
		return err
	}
	logger, err := getLoggerFromContext(cmd.Context())
	if err != nil {
		return err
	}

	// LinkedIn parsing rides on the analyze operation settings
	analyzeAIConfig := cfg.GetAnalyzeConfig()
	aiService, err := ai.NewService(&analyzeAIConfig, "analyze", logger)
	if err != nil {
		return fmt.Errorf("failed to create AI service: %w", err)
	}

	createInput := func(contents []string) (types.LinkedInInput, error) {
		if len(contents) != 1 {
			return types.LinkedInInput{}, fmt.Errorf("expected 1 file path, got %d", len(contents))
		}
		return types.LinkedInInput{ProfileText: contents[0]}, nil
	}

	logDetails := func(input types.LinkedInInput, cfg common.CommandConfig) {
		logger.Info("Starting LinkedIn profile conversion",
			"profile_chars", len(input.ProfileText),
			"output_format", cfg.OutputFormat)
	}

	linkedinOperation := func(ctx context.Context, input types.LinkedInInput) (types.AnalysisResult, *ai.TokenUsage, error) {
		return aiService.Provider.ParseLinkedInProfile(ctx, input)
	}

	err = common.RunAICommand(
		cmd.Context(),
		logger,
		linkedinConfig,
		args,
		createInput,
		linkedinOperation,
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to convert LinkedIn profile: %w", err)
	}
	logger.Info("LinkedIn profile conversion completed successfully")
	return nil
}
