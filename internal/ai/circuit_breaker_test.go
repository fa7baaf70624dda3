package ai

import (
	"errors"
	"testing"
	"time"

	"resumerank/internal/config"

	"google.golang.org/genai"
)

func TestCircuitBreakerConfigurationMapping(t *testing.T) {
	customConfig := &config.CircuitBreakerConfig{
		Enabled:          true,
		MaxRequests:      10,
		Interval:         120 * time.Second,
		Timeout:          90 * time.Second,
		MinRequests:      5,
		FailureThreshold: 0.8,
	}

	cb := NewAICircuitBreaker(customConfig, nil)
	if cb == nil {
		t.Fatal("Circuit breaker should not be nil")
	}

	stats := cb.GetStats()
	if stats == nil {
		t.Fatal("Circuit breaker stats should not be nil")
	}

	name, ok := stats["name"].(string)
	if !ok {
		t.Fatal("Circuit breaker name not found")
	}
	if name != "AI-analyze" {
		t.Errorf("Expected circuit breaker name 'AI-analyze', got '%s'", name)
	}

	state, ok := stats["state"].(string)
	if !ok {
		t.Fatal("Circuit breaker state not found")
	}
	if state != "closed" {
		t.Errorf("Expected initial state 'closed', got '%s'", state)
	}

	if !cb.IsHealthy() {
		t.Error("Circuit breaker should be healthy initially")
	}
}

func TestCircuitBreakerDisabled(t *testing.T) {
	disabledConfig := &config.CircuitBreakerConfig{
		Enabled: false,
	}

	cb := NewAICircuitBreaker(disabledConfig, nil)
	if cb != nil {
		t.Fatal("Circuit breaker should be nil when disabled")
	}

	// A nil breaker must still pass calls through
	want := &genai.GenerateContentResponse{}
	got, err := cb.Execute(func() (*genai.GenerateContentResponse, error) {
		return want, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != want {
		t.Error("nil breaker should pass the result through unchanged")
	}

	wantErr := errors.New("upstream down")
	_, err = cb.Execute(func() (*genai.GenerateContentResponse, error) {
		return nil, wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Errorf("expected passthrough error, got %v", err)
	}

	if !cb.IsHealthy() {
		t.Error("nil breaker should report healthy")
	}

	stats := cb.GetStats()
	if enabled, _ := stats["enabled"].(bool); enabled {
		t.Error("nil breaker stats should report enabled=false")
	}
}

func TestModelCircuitBreakerDisabled(t *testing.T) {
	cb := NewModelCircuitBreaker(&config.CircuitBreakerConfig{Enabled: false}, nil)
	if cb != nil {
		t.Fatal("Model circuit breaker should be nil when disabled")
	}

	want := &genai.Model{Name: "gemini-2.5-pro"}
	got, err := cb.ExecuteModel(func() (*genai.Model, error) {
		return want, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != want {
		t.Error("nil breaker should pass the model through unchanged")
	}

	if !cb.IsModelHealthy() {
		t.Error("nil model breaker should report healthy")
	}
}
