package config

import (
	"fmt"
	"os"
	"strings"
)

const maxPromptFileSize = 64 * 1024

// loadCustomPrompt reads the analysis instruction override from a file when
// one is configured. An inline customPrompt takes precedence over the file.
func (c *Config) loadCustomPrompt() error {
	if c.AI.CustomPrompt != "" || c.AI.CustomPromptFile == "" {
		return nil
	}

	info, err := os.Stat(c.AI.CustomPromptFile)
	if err != nil {
		return fmt.Errorf("prompt file %s: %w", c.AI.CustomPromptFile, err)
	}
	if info.IsDir() {
		return fmt.Errorf("prompt file %s is a directory", c.AI.CustomPromptFile)
	}
	if info.Size() > maxPromptFileSize {
		return fmt.Errorf("prompt file %s exceeds %d bytes", c.AI.CustomPromptFile, maxPromptFileSize)
	}

	content, err := os.ReadFile(c.AI.CustomPromptFile)
	if err != nil {
		return fmt.Errorf("failed to read prompt file %s: %w", c.AI.CustomPromptFile, err)
	}

	prompt := strings.TrimSpace(string(content))
	if prompt == "" {
		return fmt.Errorf("prompt file %s is empty", c.AI.CustomPromptFile)
	}

	c.AI.CustomPrompt = prompt
	return nil
}
