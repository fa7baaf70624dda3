package server

import (
	"time"

	"resumerank/internal/ai"
	"resumerank/internal/config"
	resumerankErrors "resumerank/internal/errors"
	"resumerank/internal/extract"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Server holds configuration for the HTTP server
type Server struct {
	Host    string
	Port    string
	Version string

	// Full application configuration
	AppConfig *config.Config

	// Analysis pipeline dependencies, injected at construction
	AIService *ai.Service
	Extractor *extract.Extractor

	// TLS Configuration
	TLSConfig config.TLSConfig

	// Certificate hot reload
	CertReloader *CertReloader

	// API Authentication
	APIKeys map[string]bool

	// Timeout configurations
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// Upload size limit
	MaxUploadSize int64

	// Directory holding the frontend entry page
	StaticDir string

	// Rate limiting
	RateLimit   *config.RateLimitConfig
	RateLimiter *RateLimiter

	// Logger
	Logger *resumerankErrors.Logger
}

// ServerConfig holds configuration for creating a Server instance
type ServerConfig struct {
	Host          string
	Port          string
	Version       string
	TLSConfig     config.TLSConfig
	APIKeys       []string
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
	IdleTimeout   time.Duration
	MaxUploadSize int64
	StaticDir     string
	RateLimit     *config.RateLimitConfig
}

// NewServer creates a new Server instance from a ServerConfig struct.
// The AI service and extractor are passed in rather than built here so
// tests can substitute stub implementations.
func NewServer(appCfg *config.Config, cfg ServerConfig, aiService *ai.Service, extractor *extract.Extractor, logger *resumerankErrors.Logger) *Server {
	// Convert API keys slice to map for O(1) lookup
	apiKeyMap := make(map[string]bool)
	for _, key := range cfg.APIKeys {
		if key != "" {
			apiKeyMap[key] = true
		}
	}

	var rateLimiter *RateLimiter
	if cfg.RateLimit != nil && cfg.RateLimit.Enabled {
		rateLimiter = NewRateLimiter(
			cfg.RateLimit.RequestsPerMin,
			cfg.RateLimit.BurstCapacity,
			logger,
		)
	}

	return &Server{
		Host:          cfg.Host,
		Port:          cfg.Port,
		Version:       cfg.Version,
		AppConfig:     appCfg,
		AIService:     aiService,
		Extractor:     extractor,
		TLSConfig:     cfg.TLSConfig,
		APIKeys:       apiKeyMap,
		ReadTimeout:   cfg.ReadTimeout,
		WriteTimeout:  cfg.WriteTimeout,
		IdleTimeout:   cfg.IdleTimeout,
		MaxUploadSize: cfg.MaxUploadSize,
		StaticDir:     cfg.StaticDir,
		RateLimit:     cfg.RateLimit,
		RateLimiter:   rateLimiter,
		Logger:        logger,
	}
}
