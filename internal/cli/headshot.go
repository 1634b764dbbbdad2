package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"careerstealth/internal/ai"
	"careerstealth/internal/types"

	"github.com/spf13/cobra"
)

var headshotCmd = &cobra.Command{
	Use:   "headshot [image-file]",
	Short: "Get a blunt critique of a profile headshot",
	Long: `Send a profile photo to the AI for a short, honest appropriateness
critique. JPEG, PNG and WebP images are supported; the persona flag sets
the reviewer's attitude.`,
	Args: cobra.ExactArgs(1),
	RunE: runHeadshot,
}

var (
	headshotPersona string
	headshotOutput  string
)

func init() {
	headshotCmd.Flags().StringVar(&headshotPersona, "persona", "", "Reviewer persona (e.g. \"no-nonsense startup\")")
	headshotCmd.Flags().StringVarP(&headshotOutput, "output", "o", "", "Output file path (default: stdout)")
}

func runHeadshot(cmd *cobra.Command, args []string) error {
	cfg, err := getConfigFromContext(cmd.Context())
	if err != nil {
		return err
	}
	logger, err := getLoggerFromContext(cmd.Context())
	if err != nil {
		return err
	}

	imageData, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read image file: %w", err)
	}

	// The critique rides on the analyze operation's model settings.
	headshotAIConfig := cfg.GetAnalyzeConfig()
	aiService, err := ai.NewService(&headshotAIConfig, "analyze", logger)
	if err != nil {
		return fmt.Errorf("failed to create AI service: %w", err)
	}

	logger.Info("Starting headshot critique",
		"image_bytes", len(imageData),
		"mime_type", imageMIMEType(args[0]))

	result, tokenUsage, err := aiService.Provider.CritiqueHeadshot(cmd.Context(), types.HeadshotInput{
		ImageData: imageData,
		MIMEType:  imageMIMEType(args[0]),
		Persona:   headshotPersona,
	})
	if err != nil {
		return fmt.Errorf("failed to critique headshot: %w", err)
	}

	if tokenUsage != nil {
		logger.Info("AI token usage",
			"input_tokens", tokenUsage.InputTokens,
			"output_tokens", tokenUsage.OutputTokens,
			"total_tokens", tokenUsage.TotalTokens)
	}

	if headshotOutput != "" {
		if err := os.WriteFile(headshotOutput, []byte(result.Text+"\n"), 0644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		logger.Info("Headshot critique written", "path", headshotOutput)
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), result.Text)
	return nil
}

// imageMIMEType resolves the MIME type from the file extension; unknown
// extensions fall back to JPEG, the common case for headshots.
func imageMIMEType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}
