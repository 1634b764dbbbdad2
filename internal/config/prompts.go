package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// loadPromptsFromFiles resolves file-based prompt overrides for every
// operation. A file override wins over an inline config string.
func (c *Config) loadPromptsFromFiles() error {
	ops := map[string]*OperationAIConfig{
		"analyze":     &c.AI.Analyze,
		"rescore":     &c.AI.Rescore,
		"improve":     &c.AI.Improve,
		"coverLetter": &c.AI.CoverLetter,
	}

	for name, op := range ops {
		if op.Prompts.SystemFile != "" {
			content, err := loadPromptFile(op.Prompts.SystemFile, name, "system")
			if err != nil {
				return err
			}
			op.Prompts.System = content
		}
		if op.Prompts.UserFile != "" {
			content, err := loadPromptFile(op.Prompts.UserFile, name, "user")
			if err != nil {
				return err
			}
			op.Prompts.User = content
		}
	}
	return nil
}

// loadPromptFile reads and validates one prompt file.
func loadPromptFile(path, operation, promptType string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s %s prompt file '%s': %w", operation, promptType, path, err)
	}

	content, err := os.ReadFile(absPath)
	if err != nil {
		return "", fmt.Errorf("failed to read %s %s prompt file '%s': %w", operation, promptType, absPath, err)
	}

	trimmed := strings.TrimSpace(string(content))
	if trimmed == "" {
		return "", fmt.Errorf("%s %s prompt file '%s' is empty", operation, promptType, absPath)
	}
	return trimmed, nil
}
