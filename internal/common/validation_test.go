package common

import (
	"os"
	"path/filepath"
	"testing"

	apperrors "resumerank/internal/errors"
)

func TestValidateOutputFormat(t *testing.T) {
	supported := []string{"json", "text", "markdown"}

	tests := []struct {
		name        string
		format      string
		supported   []string
		expectError bool
	}{
		{name: "json allowed", format: "json", supported: supported},
		{name: "text allowed", format: "text", supported: supported},
		{name: "markdown allowed", format: "markdown", supported: supported},
		{name: "xml rejected", format: "xml", supported: supported, expectError: true},
		{name: "case sensitive", format: "JSON", supported: supported, expectError: true},
		{name: "empty format rejected", format: "", supported: supported, expectError: true},
		{name: "no restrictions allows anything", format: "xml", supported: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputFormat(tt.format, tt.supported)
			if tt.expectError && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.expectError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestFileProcessorReadBinaryFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "resume.pdf")
	content := []byte{0x25, 0x50, 0x44, 0x46, 0x00, 0x01}
	if err := os.WriteFile(path, content, 0600); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	fp := NewFileProcessor(nil)

	data, err := fp.ReadBinaryFile(path)
	if err != nil {
		t.Fatalf("ReadBinaryFile() error = %v", err)
	}
	if len(data) != len(content) {
		t.Errorf("expected %d bytes, got %d", len(content), len(data))
	}
}

func TestFileProcessorReadMissingFile(t *testing.T) {
	fp := NewFileProcessor(nil)

	_, err := fp.ReadFile(filepath.Join(t.TempDir(), "nope.txt"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}

	var appErr *apperrors.AppError
	if !apperrors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %T", err)
	}
}

func TestFileProcessorWriteFileCreatesDirs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "out.json")

	fp := NewFileProcessor(nil)
	if err := fp.WriteFile(path, `{"score": 82}`); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read back: %v", err)
	}
	if string(data) != `{"score": 82}` {
		t.Errorf("unexpected file content: %s", data)
	}
}
