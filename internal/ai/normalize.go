package ai

import (
	"encoding/json"
	"strings"

	"resumerank/internal/errors"
	"resumerank/internal/types"
)

// StripCodeFences removes a Markdown code fence wrapper from a model reply.
//
// Models frequently wrap JSON output in ```json ... ``` fences even when told
// not to. The stripping is deliberately shallow: only a leading ```json or
// ``` marker and a trailing ``` marker are removed, each followed by a
// whitespace trim. Fences in the middle of the text are left alone.
func StripCodeFences(raw string) string {
	text := strings.TrimSpace(raw)

	if strings.HasPrefix(text, "```json") {
		text = text[len("```json"):]
	} else if strings.HasPrefix(text, "```") {
		text = text[len("```"):]
	}
	text = strings.TrimSpace(text)

	if strings.HasSuffix(text, "```") {
		text = text[:len(text)-len("```")]
	}

	return strings.TrimSpace(text)
}

// NormalizeReply parses a cleaned model reply into an AnalysisResult.
//
// Fields absent from the reply keep their zero values; nil skill slices are
// coerced to empty slices so the JSON rendering is always an array. A reply
// that is not a JSON object, or carries a wrong-typed field, is rejected as
// a whole rather than salvaged field by field.
func NormalizeReply(cleaned string) (types.AnalysisResult, error) {
	var result types.AnalysisResult
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		return types.AnalysisResult{}, errors.NewAIError(errors.ErrCodeAIReplyInvalid,
			"model reply is not valid JSON", err)
	}

	result.Normalize()
	return result, nil
}
