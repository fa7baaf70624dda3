package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	apperrors "resumerank/internal/errors"
	"resumerank/internal/extract"
	"resumerank/internal/observability"
	"resumerank/internal/types"

	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// missingInputError is the error body for an upload without both required
// fields. Existing clients match on this exact string.
const missingInputError = "Missing resume file or job description text"

// createUploadHandler builds the resume analysis handler with observability
func (s *Server) createUploadHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("resumerank.api")
		ctx, span := tracer.Start(ctx, "api.upload")
		defer span.End()

		if r.Method != http.MethodPost {
			writeErrorResponse(w, "Method not allowed", "POST required", http.StatusMethodNotAllowed)
			return
		}

		resumeData, filename, contentType, jobDescription, ok := s.parseUploadRequest(w, r)
		if !ok {
			return
		}

		resumeText, ok := s.extractResumeText(ctx, w, om, span, resumeData, filename, contentType)
		if !ok {
			return
		}

		result := s.analyzeResume(ctx, om, span, types.AnalyzeResumeInput{
			ResumeText:     resumeText,
			JobDescription: jobDescription,
		})

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(result); err != nil {
			span.RecordError(err)
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		}
	}
}

// parseUploadRequest pulls the resume file and job description out of the
// multipart form. Both must be present and the job description non-empty;
// a violation gets the fixed 400 body.
func (s *Server) parseUploadRequest(w http.ResponseWriter, r *http.Request) ([]byte, string, string, string, bool) {
	// Keep small uploads in memory; larger ones spill to temp files
	if err := r.ParseMultipartForm(4 << 20); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeErrorResponse(w, "Upload too large", "", http.StatusRequestEntityTooLarge)
			return nil, "", "", "", false
		}
		writeErrorResponse(w, missingInputError, "", http.StatusBadRequest)
		return nil, "", "", "", false
	}

	file, header, err := r.FormFile("resume")
	if err != nil {
		writeErrorResponse(w, missingInputError, "", http.StatusBadRequest)
		return nil, "", "", "", false
	}
	defer func() {
		if err := file.Close(); err != nil {
			s.Logger.Warn("Failed to close uploaded file", "error", err.Error())
		}
	}()

	jobDescription := r.FormValue("jd_text")
	if strings.TrimSpace(jobDescription) == "" {
		writeErrorResponse(w, missingInputError, "", http.StatusBadRequest)
		return nil, "", "", "", false
	}

	data, err := io.ReadAll(file)
	if err != nil {
		writeErrorResponse(w, "Failed to read uploaded file", err.Error(), http.StatusInternalServerError)
		return nil, "", "", "", false
	}

	return data, header.Filename, header.Header.Get("Content-Type"), jobDescription, true
}

// extractResumeText converts the uploaded document into plain text. A
// document the extractor cannot parse is the caller's problem and comes
// back as a 500, not a degraded analysis.
func (s *Server) extractResumeText(ctx context.Context, w http.ResponseWriter, om *observability.ObservabilityManager, span oteltrace.Span, data []byte, filename, contentType string) (string, bool) {
	format, err := extract.DetectFormat(filename, contentType)
	if err != nil {
		s.Logger.LogError(err, "Unsupported resume upload",
			"filename", filename,
			"content_type", contentType)
		writeErrorResponse(w, err.Error(), "", http.StatusBadRequest)
		return "", false
	}

	start := time.Now()
	text, err := s.Extractor.Text(data, format)
	om.GetMetrics().RecordExtraction(ctx, string(format), time.Since(start), err == nil)

	if err != nil {
		s.Logger.LogError(err, "Failed to extract resume text",
			"filename", filename,
			"format", string(format))
		writeErrorResponse(w, extractionErrorBody(err), "", http.StatusInternalServerError)
		return "", false
	}

	span.SetAttributes(
		attribute.String("upload.format", string(format)),
		attribute.Int("upload.size_bytes", len(data)),
		attribute.Int("upload.text_length", len(text)),
	)

	return text, true
}

// analyzeResume runs the AI analysis and collapses any failure into the
// degraded result shape. Callers always get HTTP 200 with a result body
// once extraction has succeeded.
func (s *Server) analyzeResume(ctx context.Context, om *observability.ObservabilityManager, span oteltrace.Span, input types.AnalyzeResumeInput) types.AnalysisResult {
	metrics := om.GetMetrics()

	var result types.AnalysisResult
	err := metrics.TrackAIOperationWithTokens(ctx, "analyze_resume", func(ctx context.Context) *observability.AIOperationResult {
		output, tokenUsage, aiErr := s.AIService.AnalyzeResume(ctx, input)
		result = output
		return &observability.AIOperationResult{
			Error:      aiErr,
			TokenUsage: (*observability.TokenUsage)(tokenUsage),
		}
	})

	if err != nil {
		s.Logger.LogError(err, "Resume analysis failed, returning degraded result")
		metrics.RecordBusinessMetric(ctx, "degraded_result", true,
			attribute.String("error", errorCode(err)))
		span.SetAttributes(
			attribute.Bool("success", false),
			attribute.Bool("degraded", true),
		)
		return types.DegradedResult(err)
	}

	metrics.RecordBusinessMetric(ctx, "resume_analyzed", true,
		attribute.Float64("score", result.Score),
		attribute.Int("missing_skills", len(result.MissingSkills)),
		attribute.Int("present_skills", len(result.PresentSkills)))

	span.SetAttributes(
		attribute.Bool("success", true),
		attribute.Float64("score", result.Score),
	)

	return result
}

// healthHandler reports liveness. The body is fixed; clients poll it
// verbatim, so it carries no model or breaker detail (see /stats).
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write([]byte(`{"status":"OK"}` + "\n")); err != nil {
		log.Printf("Failed to write health response: %v", err)
	}
}

// statsHandler provides server statistics including model availability,
// breaker state, and rate limit info
func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]any{
		"service": "resumerank",
		"version": s.Version,
		"server": map[string]any{
			"max_upload_size_bytes": s.MaxUploadSize,
		},
	}

	if s.AIService != nil {
		response["model"] = s.AIService.GetModelInfo(r.Context())
		response["circuit_breakers"] = s.AIService.Provider.GetCircuitBreakerStats()
	}

	if s.RateLimiter != nil {
		response["rate_limiting"] = s.RateLimiter.GetStats()
	} else {
		response["rate_limiting"] = map[string]any{
			"enabled": false,
		}
	}

	if s.RateLimit != nil {
		response["rate_limit_config"] = map[string]any{
			"enabled":          s.RateLimit.Enabled,
			"requests_per_min": s.RateLimit.RequestsPerMin,
			"burst_capacity":   s.RateLimit.BurstCapacity,
			"by_ip":            s.RateLimit.ByIP,
			"by_api_key":       s.RateLimit.ByAPIKey,
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("Failed to encode stats response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// staticHandler serves the frontend entry page
func (s *Server) staticHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if r.URL.Path == "/" {
		http.ServeFile(w, r, filepath.Join(s.StaticDir, "index.html"))
		return
	}

	http.NotFound(w, r)
}

// extractionErrorBody renders the error string put in the response body for
// a failed extraction.
func extractionErrorBody(err error) string {
	var appErr *apperrors.AppError
	if apperrors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}

// errorCode returns a stable error code for metric labels.
func errorCode(err error) string {
	var appErr *apperrors.AppError
	if apperrors.As(err, &appErr) {
		return appErr.Code
	}
	return "UNKNOWN"
}

// writeErrorResponse writes a standardized error response
func writeErrorResponse(w http.ResponseWriter, error, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := ErrorResponse{
		Error:   error,
		Message: message,
	}

	err := json.NewEncoder(w).Encode(response)
	if err != nil {
		log.Printf("Failed to encode error response: %v", err)
		http.Error(w, "Failed to encode error response", http.StatusInternalServerError)
	}
}
