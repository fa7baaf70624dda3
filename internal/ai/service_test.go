package ai

import (
	"context"
	"strings"
	"testing"

	"resumerank/internal/config"
	apperrors "resumerank/internal/errors"
	"resumerank/internal/types"
)

// stubProvider returns canned results for service-level tests.
type stubProvider struct {
	result types.AnalysisResult
	usage  *TokenUsage
	err    error

	lastInput types.AnalyzeResumeInput
}

func (s *stubProvider) AnalyzeResume(_ context.Context, input types.AnalyzeResumeInput) (types.AnalysisResult, *TokenUsage, error) {
	s.lastInput = input
	return s.result, s.usage, s.err
}

func (s *stubProvider) GetModelInfo(_ context.Context) *ModelInfo {
	return &ModelInfo{Name: "stub-model", Available: true}
}

func (s *stubProvider) GetCircuitBreakerStats() map[string]any {
	return map[string]any{"overall_healthy": true}
}

func (s *stubProvider) Close() error { return nil }

func testLogger(t *testing.T) *apperrors.Logger {
	t.Helper()
	logger, err := apperrors.New("error")
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}
	return logger
}

func TestNewServiceUnsupportedProvider(t *testing.T) {
	cfg := &config.AIConfig{
		Provider: "openai",
		Model:    "gpt-4",
	}

	_, err := NewService(cfg, testLogger(t))
	if err == nil {
		t.Fatal("expected error for unsupported provider")
	}
	if !strings.Contains(err.Error(), "openai") {
		t.Errorf("expected provider name in error, got %q", err.Error())
	}
}

func TestServiceAnalyzeResumePassthrough(t *testing.T) {
	stub := &stubProvider{
		result: types.AnalysisResult{
			Score:         82,
			Explanation:   "Strong match",
			MissingSkills: []string{"Kubernetes"},
			PresentSkills: []string{"Go"},
		},
		usage: &TokenUsage{InputTokens: 100, OutputTokens: 50, TotalTokens: 150},
	}
	svc := NewServiceWithProvider(stub, &config.AIConfig{Provider: "gemini"}, testLogger(t))

	input := types.AnalyzeResumeInput{
		ResumeText:     "Go developer",
		JobDescription: "Backend role",
	}
	result, usage, err := svc.AnalyzeResume(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Score != 82 {
		t.Errorf("expected score 82, got %v", result.Score)
	}
	if usage == nil || usage.TotalTokens != 150 {
		t.Errorf("unexpected token usage: %+v", usage)
	}
	if stub.lastInput != input {
		t.Errorf("provider received %+v, want %+v", stub.lastInput, input)
	}
}

func TestServiceAnalyzeResumeError(t *testing.T) {
	stub := &stubProvider{
		err: apperrors.NewAIError(apperrors.ErrCodeAIServiceFailed, "quota exceeded", nil),
	}
	svc := NewServiceWithProvider(stub, &config.AIConfig{Provider: "gemini"}, testLogger(t))

	_, _, err := svc.AnalyzeResume(context.Background(), types.AnalyzeResumeInput{})
	if err == nil {
		t.Fatal("expected error from provider")
	}
	var appErr *apperrors.AppError
	if !apperrors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %T", err)
	}
	if appErr.Code != apperrors.ErrCodeAIServiceFailed {
		t.Errorf("expected code %s, got %s", apperrors.ErrCodeAIServiceFailed, appErr.Code)
	}
}
