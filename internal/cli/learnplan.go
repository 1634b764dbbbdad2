package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"careerstealth/internal/ai"
	"careerstealth/internal/common"
	"careerstealth/internal/types"

	"github.com/spf13/cobra"
)

var learnPlanCmd = &cobra.Command{
	Use:   "learnplan [analysis-json-file] [job-description-file]",
	Short: "Generate a learning plan for missing skills",
	Long: `Generate a prioritized learning plan for the keywords an analysis
found missing from the resume. The first argument is the analysis result
in JSON form (as produced by the analyze command with --format json),
the second the job description file.`,
	Args: cobra.ExactArgs(2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfigFromContext(cmd.Context())
		if err != nil {
			return err
		}
		if learnPlanConfig.OutputFormat == "" {
			learnPlanConfig.OutputFormat = cfg.App.DefaultFormat
		}
		return common.ValidateOutputFormat(learnPlanConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runLearnPlan,
}

var learnPlanConfig common.CommandConfig

func init() {
	learnPlanCmd.Flags().StringVarP(&learnPlanConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	learnPlanCmd.Flags().StringVar(&learnPlanConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
}

func runLearnPlan(cmd *cobra.Command, args []string) error {
	cfg, err := getConfigFromContext(cmd.Context())
	if err != nil {
		return err
	}
	logger, err := getLoggerFromContext(cmd.Context())
	if err != nil {
		return err
	}

	// Learning plans ride on the analyze operation settings
	analyzeAIConfig := cfg.GetAnalyzeConfig()
	aiService, err := ai.NewService(&analyzeAIConfig, "analyze", logger)
	if err != nil {
		return fmt.Errorf("failed to create AI service: %w", err)
	}

	createInput := func(contents []string) (types.LearningPlanInput, error) {
		if len(contents) != 2 {
			return types.LearningPlanInput{}, fmt.Errorf("expected 2 file paths, got %d", len(contents))
		}
		var analysis types.AnalysisResult
		if err := json.Unmarshal([]byte(contents[0]), &analysis); err != nil {
			return types.LearningPlanInput{}, fmt.Errorf("failed to parse analysis result: %w", err)
		}
		if len(analysis.MissingKeywords) == 0 {
			return types.LearningPlanInput{}, fmt.Errorf("analysis has no missing keywords, nothing to plan")
		}
		return types.LearningPlanInput{
			MissingKeywords: analysis.MissingKeywords,
			JobDescription:  contents[1],
		}, nil
	}

	logDetails := func(input types.LearningPlanInput, cfg common.CommandConfig) {
		logger.Info("Starting learning plan generation",
			"missing_keywords", len(input.MissingKeywords),
			"output_format", cfg.OutputFormat)
	}

	learnPlanOperation := func(ctx context.Context, input types.LearningPlanInput) (types.LearningPlanResult, *ai.TokenUsage, error) {
		return aiService.Provider.GenerateLearningPlan(ctx, input)
	}

	err = common.RunAICommand(
		cmd.Context(),
		logger,
		learnPlanConfig,
		args,
		createInput,
		learnPlanOperation,
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to generate learning plan: %w", err)
	}
	logger.Info("Learning plan generation completed successfully")
	return nil
}
