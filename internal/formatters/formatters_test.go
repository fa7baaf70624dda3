package formatters

import (
	"slices"
	"strings"
	"testing"

	"resumerank/internal/types"
)

func sampleResult() types.AnalysisResult {
	return types.AnalysisResult{
		Score:         82,
		Explanation:   "Strong backend match with Go and PostgreSQL.",
		MissingSkills: []string{"Kubernetes"},
		PresentSkills: []string{"Go", "PostgreSQL"},
	}
}

func TestJSONFormatter(t *testing.T) {
	output, err := GlobalRegistry.Format(sampleResult(), "json")
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	for _, want := range []string{`"score": 82`, `"missing_skills"`, `"present_skills"`, "Kubernetes"} {
		if !strings.Contains(output, want) {
			t.Errorf("JSON output missing %q:\n%s", want, output)
		}
	}
}

func TestTextFormatter(t *testing.T) {
	output, err := GlobalRegistry.Format(sampleResult(), "text")
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	if !strings.Contains(output, "Score: 82/100") {
		t.Errorf("text output missing score:\n%s", output)
	}
	if !strings.Contains(output, "- Kubernetes") {
		t.Errorf("text output missing skill bullet:\n%s", output)
	}
}

func TestTextFormatterEmptySkills(t *testing.T) {
	result := types.AnalysisResult{
		Score:         0,
		Explanation:   "AI analysis failed: service unavailable",
		MissingSkills: []string{},
		PresentSkills: []string{},
	}

	output, err := GlobalRegistry.Format(result, "text")
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if !strings.Contains(output, "None identified.") {
		t.Errorf("expected placeholder for empty skill lists:\n%s", output)
	}
}

func TestMarkdownFormatter(t *testing.T) {
	output, err := GlobalRegistry.Format(sampleResult(), "markdown")
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	if !strings.Contains(output, "# Resume Analysis") {
		t.Errorf("markdown output missing title:\n%s", output)
	}
	if !strings.Contains(output, "**Score:** 82/100") {
		t.Errorf("markdown output missing score:\n%s", output)
	}
	if !strings.Contains(output, "## Missing Skills") {
		t.Errorf("markdown output missing section:\n%s", output)
	}
}

func TestUnknownFormat(t *testing.T) {
	if _, err := GlobalRegistry.Format(sampleResult(), "yaml"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestGetSupportedFormats(t *testing.T) {
	formats := GlobalRegistry.GetSupportedFormats()
	for _, want := range []string{"json", "text", "markdown"} {
		if !slices.Contains(formats, want) {
			t.Errorf("expected %q in supported formats, got %v", want, formats)
		}
	}
}

func TestJSONFallbackForUnknownType(t *testing.T) {
	output, err := GlobalRegistry.Format(map[string]string{"key": "value"}, "json")
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if !strings.Contains(output, `"key": "value"`) {
		t.Errorf("unexpected JSON fallback output:\n%s", output)
	}
}
