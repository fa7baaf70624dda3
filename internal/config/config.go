package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"resumerank/internal/errors"

	"github.com/spf13/viper"
)

// Config holds all application configuration
//
// API key precedence order:
// 1. Vault (if configured) - highest priority
// 2. Config file values
// 3. Environment variables (RESUMERANK_AI_APIKEY, GOOGLE_API_KEY)
type Config struct {
	AI            AIConfig            `mapstructure:"ai"`
	Server        ServerConfig        `mapstructure:"server"`
	App           AppConfig           `mapstructure:"app"`
	Vault         VaultConfig         `mapstructure:"vault"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// AIConfig holds analysis model configuration
type AIConfig struct {
	Provider    string        `mapstructure:"provider"`
	Model       string        `mapstructure:"model"`
	APIKey      string        `mapstructure:"apiKey"`
	Timeout     time.Duration `mapstructure:"timeout"`
	MaxRetries  int           `mapstructure:"maxRetries"`
	Temperature float32       `mapstructure:"temperature"`

	// Hard character cutoffs applied before the prompt is sent. Content
	// beyond the cutoff is silently dropped.
	ResumeMaxChars int `mapstructure:"resumeMaxChars"`
	JobMaxChars    int `mapstructure:"jobMaxChars"`

	// Optional override for the built-in analysis instruction
	CustomPrompt     string `mapstructure:"customPrompt"`
	CustomPromptFile string `mapstructure:"customPromptFile"`

	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuitBreaker"`
}

// CircuitBreakerConfig represents circuit breaker configuration
type CircuitBreakerConfig struct {
	Enabled          bool          `mapstructure:"enabled"`
	MaxRequests      uint32        `mapstructure:"maxRequests"`      // Max requests allowed when half-open
	Interval         time.Duration `mapstructure:"interval"`         // Interval to clear counts
	Timeout          time.Duration `mapstructure:"timeout"`          // Timeout for half-open to open
	MinRequests      uint32        `mapstructure:"minRequests"`      // Minimum requests before tripping
	FailureThreshold float64       `mapstructure:"failureThreshold"` // Failure ratio threshold (0.0-1.0)
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"readTimeout"`
	WriteTimeout time.Duration `mapstructure:"writeTimeout"`
	IdleTimeout  time.Duration `mapstructure:"idleTimeout"`

	// Maximum size of an /upload request body. Zero disables the limit.
	MaxUploadSize int64 `mapstructure:"maxUploadSize"`

	// Directory holding the frontend entry page served at /
	StaticDir string `mapstructure:"staticDir"`

	TLS TLSConfig `mapstructure:"tls"`

	// Optional API keys for authenticating /upload; empty disables auth
	APIKeys []string `mapstructure:"apiKeys"`

	RateLimit RateLimitConfig `mapstructure:"rateLimit"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled        bool `mapstructure:"enabled"`
	RequestsPerMin int  `mapstructure:"requestsPerMin"`
	BurstCapacity  int  `mapstructure:"burstCapacity"`
	ByIP           bool `mapstructure:"byIP"`
	ByAPIKey       bool `mapstructure:"byAPIKey"`
}

// AppConfig holds general application configuration
type AppConfig struct {
	LogLevel         string   `mapstructure:"logLevel"`
	DefaultFormat    string   `mapstructure:"defaultFormat"`
	SupportedFormats []string `mapstructure:"supportedFormats"`
}

// ObservabilityConfig holds observability configuration
type ObservabilityConfig struct {
	Enabled        bool             `mapstructure:"enabled"`
	ServiceName    string           `mapstructure:"serviceName"`
	ServiceVersion string           `mapstructure:"serviceVersion"`
	ConsoleOutput  bool             `mapstructure:"consoleOutput"`
	PrettyPrint    bool             `mapstructure:"prettyPrint"`
	SampleRate     float64          `mapstructure:"sampleRate"`
	MetricInterval time.Duration    `mapstructure:"metricInterval"`
	Prometheus     PrometheusConfig `mapstructure:"prometheus"`
	OTLP           OTLPConfig       `mapstructure:"otlp"`
}

// PrometheusConfig holds Prometheus exporter configuration
type PrometheusConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
	Port     string `mapstructure:"port"`
}

// OTLPConfig holds OTLP exporter configuration
type OTLPConfig struct {
	Enabled  bool              `mapstructure:"enabled"`
	Endpoint string            `mapstructure:"endpoint"`
	Insecure bool              `mapstructure:"insecure"`
	Headers  map[string]string `mapstructure:"headers"`
}

// LoadConfig loads configuration from defaults, an optional config file,
// and environment variables, in that precedence order.
func LoadConfig() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("RESUMERANK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/resumerank/")
	v.AddConfigPath("$HOME/.resumerank")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.applyFallbacks()

	if err := config.loadCustomPrompt(); err != nil {
		return nil, fmt.Errorf("failed to load custom prompt: %w", err)
	}

	if err := config.resolveVaultSecrets(); err != nil {
		return nil, fmt.Errorf("failed to resolve Vault secrets: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// applyFallbacks applies environment variable fallbacks that viper's
// automatic binding does not cover.
func (c *Config) applyFallbacks() {
	// Legacy credential variable used by earlier deployments
	if c.AI.APIKey == "" {
		c.AI.APIKey = os.Getenv("GOOGLE_API_KEY")
	}

	// Hosting platforms inject the listen port as PORT
	if port := os.Getenv("PORT"); port != "" {
		c.Server.Port = port
	}

	if len(c.Server.APIKeys) == 0 {
		if apiKeysEnv := os.Getenv("RESUMERANK_SERVER_APIKEYS"); apiKeysEnv != "" {
			c.Server.APIKeys = strings.Split(apiKeysEnv, ",")
			for i, key := range c.Server.APIKeys {
				c.Server.APIKeys[i] = strings.TrimSpace(key)
			}
		}
	}

	if c.Server.TLS.Mode == "mutual" && c.Server.TLS.ClientAuthPolicy == "" {
		c.Server.TLS.ClientAuthPolicy = "require"
	}
	if c.Server.TLS.MinVersion == "" && c.Server.TLS.Mode != "disabled" {
		c.Server.TLS.MinVersion = "1.2"
	}

	if c.App.LogLevel == "debug" && !c.Observability.ConsoleOutput {
		c.Observability.ConsoleOutput = true
	}
}

// Validate checks if the configuration is structurally valid.
// A missing API key is not rejected here; the credential problem
// surfaces when the first analysis call fails.
func (c *Config) Validate() error {
	if c.AI.Provider == "" {
		return errors.NewConfigError(errors.ErrCodeInvalidConfig, "AI provider is required", nil)
	}
	if c.AI.Model == "" {
		return errors.NewConfigError(errors.ErrCodeInvalidConfig, "AI model is required", nil)
	}
	if c.AI.Timeout <= 0 {
		return errors.NewConfigError(errors.ErrCodeInvalidConfig, "AI timeout must be positive", nil)
	}
	if c.AI.MaxRetries < 0 {
		return errors.NewConfigError(errors.ErrCodeInvalidConfig, "AI maxRetries must not be negative", nil)
	}
	if c.AI.ResumeMaxChars <= 0 || c.AI.JobMaxChars <= 0 {
		return errors.NewConfigError(errors.ErrCodeInvalidConfig, "prompt truncation limits must be positive", nil)
	}

	if c.Server.Port == "" {
		return errors.NewConfigError(errors.ErrCodeInvalidConfig, "server port is required", nil)
	}

	switch c.App.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("invalid log level: %s", c.App.LogLevel), nil)
	}

	validFormats := make(map[string]bool)
	for _, format := range c.App.SupportedFormats {
		validFormats[format] = true
	}
	if !validFormats[c.App.DefaultFormat] {
		return errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("invalid default format: %s", c.App.DefaultFormat), nil)
	}

	if err := c.ValidateTLSConfig(); err != nil {
		return fmt.Errorf("TLS configuration error: %w", err)
	}

	return nil
}
