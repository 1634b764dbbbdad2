package cli

import (
	"context"
	"fmt"

	"careerstealth/internal/ai"
	"careerstealth/internal/common"
	"careerstealth/internal/types"

	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [resume-file] [job-description-file]",
	Short: "Analyze a resume against a job description",
	Long: `Analyze your resume against a specific job description using AI.
The command takes two arguments: the path to your resume file and the
path to the job description file.

The analysis includes:
- A 0-100 match score
- Keywords from the job description missing in the resume
- A blunt hiring-manager critique and a fix strategy
- A rewritten, structured version of the resume
- Predicted interview questions with guidance`,
	Args: cobra.ExactArgs(2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfigFromContext(cmd.Context())
		if err != nil {
			return err
		}
		// Apply default format if not specified
		if analyzeConfig.OutputFormat == "" {
			analyzeConfig.OutputFormat = cfg.App.DefaultFormat
		}
		// Validate format against supported formats
		return common.ValidateOutputFormat(analyzeConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runAnalyze,
}

var analyzeConfig common.CommandConfig
var analyzePersona string

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	analyzeCmd.Flags().StringVar(&analyzeConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
	analyzeCmd.Flags().StringVar(&analyzePersona, "persona", "", "Reviewer persona for the critique (e.g. \"skeptical staff engineer\")")

	// Add completion for format flag
	_ = analyzeCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg, err := getConfigFromContext(cmd.Context())
		if err != nil {
			return []string{}, cobra.ShellCompDirectiveError
		}
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := getConfigFromContext(cmd.Context())
	if err != nil {
		return err
	}
	logger, err := getLoggerFromContext(cmd.Context())
	if err != nil {
		return err
	}

	// Create AI service for analyze operation
	analyzeAIConfig := cfg.GetAnalyzeConfig()
	aiService, err := ai.NewService(&analyzeAIConfig, "analyze", logger)
	if err != nil {
		return fmt.Errorf("failed to create AI service: %w", err)
	}

	createInput := func(contents []string) (types.AnalyzeInput, error) {
		if len(contents) != 2 {
			return types.AnalyzeInput{}, fmt.Errorf("expected 2 file paths, got %d", len(contents))
		}
		return types.AnalyzeInput{
			ResumeText:     contents[0],
			JobDescription: contents[1],
			Persona:        analyzePersona,
		}, nil
	}

	logDetails := func(input types.AnalyzeInput, cfg common.CommandConfig) {
		logger.Info("Starting resume analysis",
			"resume_chars", len(input.ResumeText),
			"job_chars", len(input.JobDescription),
			"output_format", cfg.OutputFormat)
	}

	// The result becomes the working session and a history snapshot; a
	// broken store degrades to a one-shot analysis rather than failing.
	ctrl, store, sessErr := openSessionController(cmd.Context(), cfg, logger)
	if sessErr != nil {
		logger.LogError(sessErr, "Session store unavailable; this analysis will not be saved")
	} else {
		defer store.Close()
	}

	analyzeOperation := func(ctx context.Context, input types.AnalyzeInput) (types.AnalysisResult, *ai.TokenUsage, error) {
		if ctrl != nil {
			ctrl.BeginAnalysis(input)
		}
		result, tokenUsage, err := aiService.Provider.AnalyzeResume(ctx, input)
		if ctrl == nil {
			return result, tokenUsage, err
		}

		if err != nil {
			ctrl.FailAnalysis(err)
			if saveErr := ctrl.Save(ctx); saveErr != nil {
				logger.LogError(saveErr, "Failed to save session")
			}
			return result, tokenUsage, err
		}

		ctrl.InstallResult(result)
		if saveErr := ctrl.Save(ctx); saveErr != nil {
			logger.LogError(saveErr, "Failed to save session")
		}
		if entry, histErr := ctrl.SaveToHistory(ctx); histErr != nil {
			logger.LogError(histErr, "Failed to save analysis to history")
		} else {
			logger.Info("Analysis saved to history",
				"company", entry.CompanyName,
				"role", entry.Role)
		}
		return result, tokenUsage, err
	}

	err = common.RunAICommand(
		cmd.Context(),
		logger,
		analyzeConfig,
		args,
		createInput,
		analyzeOperation,
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to analyze resume: %w", err)
	}
	logger.Info("Resume analysis completed successfully")
	return nil
}
