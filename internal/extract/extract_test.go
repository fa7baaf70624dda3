package extract

import (
	"strings"
	"testing"

	apperrors "resumerank/internal/errors"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name        string
		filename    string
		contentType string
		want        Format
		wantErr     bool
	}{
		{
			name:     "pdf extension",
			filename: "resume.pdf",
			want:     FormatPDF,
		},
		{
			name:     "pdf extension uppercase",
			filename: "Resume.PDF",
			want:     FormatPDF,
		},
		{
			name:     "docx extension",
			filename: "resume.docx",
			want:     FormatDOCX,
		},
		{
			name:     "txt extension",
			filename: "resume.txt",
			want:     FormatText,
		},
		{
			name:        "extension wins over content type",
			filename:    "resume.pdf",
			contentType: "text/plain",
			want:        FormatPDF,
		},
		{
			name:        "content type fallback pdf",
			filename:    "resume",
			contentType: "application/pdf",
			want:        FormatPDF,
		},
		{
			name:        "content type fallback docx",
			filename:    "resume",
			contentType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
			want:        FormatDOCX,
		},
		{
			name:        "content type fallback text",
			filename:    "notes",
			contentType: "text/plain",
			want:        FormatText,
		},
		{
			name:        "unknown format",
			filename:    "resume.exe",
			contentType: "application/octet-stream",
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectFormat(tt.filename, tt.contentType)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("DetectFormat(%q, %q) expected error, got %v", tt.filename, tt.contentType, got)
				}
				var appErr *apperrors.AppError
				if !apperrors.As(err, &appErr) {
					t.Fatalf("expected AppError, got %T", err)
				}
				if appErr.Code != apperrors.ErrCodeUnsupportedInput {
					t.Errorf("expected code %s, got %s", apperrors.ErrCodeUnsupportedInput, appErr.Code)
				}
				return
			}
			if err != nil {
				t.Fatalf("DetectFormat(%q, %q) unexpected error: %v", tt.filename, tt.contentType, err)
			}
			if got != tt.want {
				t.Errorf("DetectFormat(%q, %q) = %v, want %v", tt.filename, tt.contentType, got, tt.want)
			}
		})
	}
}

func TestTextPlainPassthrough(t *testing.T) {
	e := NewExtractor(nil)
	input := "Senior Go developer with 8 years of experience."

	got, err := e.Text([]byte(input), FormatText)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != input {
		t.Errorf("expected passthrough, got %q", got)
	}
}

func TestTextEmptyDocumentIsValid(t *testing.T) {
	e := NewExtractor(nil)

	got, err := e.Text([]byte{}, FormatText)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}

func TestTextInvalidPDF(t *testing.T) {
	e := NewExtractor(nil)

	_, err := e.Text([]byte("this is not a pdf"), FormatPDF)
	if err == nil {
		t.Fatal("expected error for invalid PDF bytes")
	}
	var appErr *apperrors.AppError
	if !apperrors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %T", err)
	}
	if appErr.Code != apperrors.ErrCodeInvalidDocument {
		t.Errorf("expected code %s, got %s", apperrors.ErrCodeInvalidDocument, appErr.Code)
	}
	if !strings.Contains(appErr.Message, "PDF") {
		t.Errorf("expected message to mention PDF, got %q", appErr.Message)
	}
}

func TestTextInvalidDOCX(t *testing.T) {
	e := NewExtractor(nil)

	_, err := e.Text([]byte("this is not a zip archive"), FormatDOCX)
	if err == nil {
		t.Fatal("expected error for invalid DOCX bytes")
	}
	var appErr *apperrors.AppError
	if !apperrors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %T", err)
	}
	if appErr.Code != apperrors.ErrCodeInvalidDocument {
		t.Errorf("expected code %s, got %s", apperrors.ErrCodeInvalidDocument, appErr.Code)
	}
}

func TestTextUnknownFormat(t *testing.T) {
	e := NewExtractor(nil)

	_, err := e.Text([]byte("data"), Format("rtf"))
	if err == nil {
		t.Fatal("expected error for unknown format")
	}
}
