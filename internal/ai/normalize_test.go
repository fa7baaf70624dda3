package ai

import (
	"reflect"
	"testing"

	apperrors "resumerank/internal/errors"
	"resumerank/internal/types"
)

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "bare json untouched",
			input: `{"score": 82}`,
			want:  `{"score": 82}`,
		},
		{
			name:  "json fence",
			input: "```json\n{\"score\": 82}\n```",
			want:  `{"score": 82}`,
		},
		{
			name:  "plain fence",
			input: "```\n{\"score\": 82}\n```",
			want:  `{"score": 82}`,
		},
		{
			name:  "leading fence only",
			input: "```json\n{\"score\": 82}",
			want:  `{"score": 82}`,
		},
		{
			name:  "trailing fence only",
			input: "{\"score\": 82}\n```",
			want:  `{"score": 82}`,
		},
		{
			name:  "surrounding whitespace",
			input: "\n\n  ```json\n{\"score\": 82}\n```\n\n",
			want:  `{"score": 82}`,
		},
		{
			name:  "fence in the middle untouched",
			input: "{\"explanation\": \"use ``` for code\"}",
			want:  "{\"explanation\": \"use ``` for code\"}",
		},
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
		{
			name:  "only fences",
			input: "```json\n```",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StripCodeFences(tt.input)
			if got != tt.want {
				t.Errorf("StripCodeFences(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeReply(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    types.AnalysisResult
		wantErr bool
	}{
		{
			name:  "complete reply",
			input: `{"score": 82, "explanation": "Strong backend match; lacks Kubernetes.", "missing_skills": ["Kubernetes"], "present_skills": ["Go", "PostgreSQL"]}`,
			want: types.AnalysisResult{
				Score:         82,
				Explanation:   "Strong backend match; lacks Kubernetes.",
				MissingSkills: []string{"Kubernetes"},
				PresentSkills: []string{"Go", "PostgreSQL"},
			},
		},
		{
			name:  "missing fields get defaults",
			input: `{"explanation": "partial reply"}`,
			want: types.AnalysisResult{
				Score:         0,
				Explanation:   "partial reply",
				MissingSkills: []string{},
				PresentSkills: []string{},
			},
		},
		{
			name:  "null skills coerced to empty slices",
			input: `{"score": 50, "missing_skills": null, "present_skills": null}`,
			want: types.AnalysisResult{
				Score:         50,
				MissingSkills: []string{},
				PresentSkills: []string{},
			},
		},
		{
			name:  "unknown fields ignored",
			input: `{"score": 10, "confidence": 0.9}`,
			want: types.AnalysisResult{
				Score:         10,
				MissingSkills: []string{},
				PresentSkills: []string{},
			},
		},
		{
			name:    "not json",
			input:   "I could not analyze this resume.",
			wantErr: true,
		},
		{
			name:    "wrong-typed field rejects the whole reply",
			input:   `{"score": "eighty-two"}`,
			wantErr: true,
		},
		{
			name:    "json array instead of object",
			input:   `[1, 2, 3]`,
			wantErr: true,
		},
		{
			name:    "empty input",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeReply(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("NormalizeReply(%q) expected error, got %+v", tt.input, got)
				}
				var appErr *apperrors.AppError
				if !apperrors.As(err, &appErr) {
					t.Fatalf("expected AppError, got %T", err)
				}
				if appErr.Code != apperrors.ErrCodeAIReplyInvalid {
					t.Errorf("expected code %s, got %s", apperrors.ErrCodeAIReplyInvalid, appErr.Code)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizeReply(%q) unexpected error: %v", tt.input, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NormalizeReply(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeReplyRoundTripThroughFences(t *testing.T) {
	raw := "```json\n{\"score\": 82, \"explanation\": \"ok\", \"missing_skills\": [], \"present_skills\": [\"Go\"]}\n```"

	got, err := NormalizeReply(StripCodeFences(raw))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Score != 82 || got.Explanation != "ok" {
		t.Errorf("unexpected result: %+v", got)
	}
	if len(got.PresentSkills) != 1 || got.PresentSkills[0] != "Go" {
		t.Errorf("unexpected present skills: %v", got.PresentSkills)
	}
}
