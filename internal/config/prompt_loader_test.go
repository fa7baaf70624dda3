package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writePromptFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prompt.txt")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write prompt file: %v", err)
	}
	return path
}

func TestLoadCustomPrompt(t *testing.T) {
	t.Run("no file configured is a no-op", func(t *testing.T) {
		cfg := &Config{}
		if err := cfg.loadCustomPrompt(); err != nil {
			t.Fatalf("loadCustomPrompt() error = %v", err)
		}
		if cfg.AI.CustomPrompt != "" {
			t.Errorf("expected empty prompt, got %q", cfg.AI.CustomPrompt)
		}
	})

	t.Run("reads and trims the file", func(t *testing.T) {
		path := writePromptFile(t, "\n  Rate this resume.  \n\n")

		cfg := &Config{}
		cfg.AI.CustomPromptFile = path
		if err := cfg.loadCustomPrompt(); err != nil {
			t.Fatalf("loadCustomPrompt() error = %v", err)
		}
		if cfg.AI.CustomPrompt != "Rate this resume." {
			t.Errorf("unexpected prompt: %q", cfg.AI.CustomPrompt)
		}
	})

	t.Run("inline prompt wins over file", func(t *testing.T) {
		path := writePromptFile(t, "from file")

		cfg := &Config{}
		cfg.AI.CustomPrompt = "inline"
		cfg.AI.CustomPromptFile = path
		if err := cfg.loadCustomPrompt(); err != nil {
			t.Fatalf("loadCustomPrompt() error = %v", err)
		}
		if cfg.AI.CustomPrompt != "inline" {
			t.Errorf("expected inline prompt to win, got %q", cfg.AI.CustomPrompt)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		cfg := &Config{}
		cfg.AI.CustomPromptFile = filepath.Join(t.TempDir(), "nope.txt")
		if err := cfg.loadCustomPrompt(); err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("directory instead of file", func(t *testing.T) {
		cfg := &Config{}
		cfg.AI.CustomPromptFile = t.TempDir()
		err := cfg.loadCustomPrompt()
		if err == nil {
			t.Fatal("expected error for directory")
		}
		if !strings.Contains(err.Error(), "is a directory") {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("oversize file", func(t *testing.T) {
		path := writePromptFile(t, strings.Repeat("x", maxPromptFileSize+1))

		cfg := &Config{}
		cfg.AI.CustomPromptFile = path
		err := cfg.loadCustomPrompt()
		if err == nil {
			t.Fatal("expected error for oversize file")
		}
		if !strings.Contains(err.Error(), "exceeds") {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("empty file", func(t *testing.T) {
		path := writePromptFile(t, "   \n\t  ")

		cfg := &Config{}
		cfg.AI.CustomPromptFile = path
		err := cfg.loadCustomPrompt()
		if err == nil {
			t.Fatal("expected error for empty file")
		}
		if !strings.Contains(err.Error(), "is empty") {
			t.Errorf("unexpected error: %v", err)
		}
	})
}
