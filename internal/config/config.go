// Package config provides configuration loading and validation for the CLI, the
// HTTP server and the queue worker.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Defaults applied by MergeWithDefaults and Default
const (
	DefaultPort              = 8080
	DefaultLogLevel          = "info"
	DefaultLogFormat         = "text"
	DefaultCacheTTL          = "15m"
	DefaultRequestQueue      = "analysis_requests"
	DefaultStatusExchange    = "session_updates"
	DefaultWorkerConcurrency = 4
	DefaultS3Region          = "auto"
)

// Config represents the configuration that can be loaded from a JSON file and
// overridden from the environment. All fields are optional; missing values use
// defaults or must be provided via CLI flags.
type Config struct {
	// Inputs
	Job          string `json:"job,omitempty"`           // Path to job posting document
	JobURL       string `json:"job_url,omitempty"`       // URL to fetch job posting from
	Profile      string `json:"profile,omitempty"`       // Path to user profile JSON
	TaxonomyPath string `json:"taxonomy_path,omitempty"` // Replaces the built-in skill taxonomy

	// Storage
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
	SQLitePath  string `json:"sqlite_path,omitempty"`  // Local history database, used when DatabaseURL is empty
	RedisURL    string `json:"redis_url,omitempty"`    // Second cache tier
	CacheTTL    string `json:"cache_ttl,omitempty"`    // Go duration, e.g. "15m"

	// Server
	Port        int      `json:"port,omitempty"`
	CORSOrigins []string `json:"cors_origins,omitempty"`

	// Queue worker
	RabbitMQURL       string `json:"rabbitmq_url,omitempty"`
	RequestQueue      string `json:"request_queue,omitempty"`
	StatusExchange    string `json:"status_exchange,omitempty"`
	WorkerConcurrency int    `json:"worker_concurrency,omitempty"`

	// Object storage (S3 or an S3-compatible service such as R2)
	S3Bucket    string `json:"s3_bucket,omitempty"`
	S3Endpoint  string `json:"s3_endpoint,omitempty"`
	S3Region    string `json:"s3_region,omitempty"`
	S3AccessKey string `json:"s3_access_key,omitempty"`
	S3SecretKey string `json:"s3_secret_key,omitempty"`

	// Behavior
	UseBrowser bool   `json:"use_browser,omitempty"` // Use headless browser for SPA sites
	Verbose    bool   `json:"verbose,omitempty"`     // Print detailed debug information
	LogLevel   string `json:"log_level,omitempty"`   // debug, info, warn, error
	LogFormat  string `json:"log_format,omitempty"`  // text or json
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		Port:              DefaultPort,
		LogLevel:          DefaultLogLevel,
		LogFormat:         DefaultLogFormat,
		CacheTTL:          DefaultCacheTTL,
		RequestQueue:      DefaultRequestQueue,
		StatusExchange:    DefaultStatusExchange,
		WorkerConcurrency: DefaultWorkerConcurrency,
		S3Region:          DefaultS3Region,
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Load reads the optional config file, applies environment overrides and fills
// the remaining gaps from Default. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		loaded, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	cfg.ApplyEnv()
	merged := cfg.MergeWithDefaults(Default())
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	if c.Job != "" && c.JobURL != "" {
		return fmt.Errorf("config error: 'job' and 'job_url' are mutually exclusive")
	}

	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}
	if c.WorkerConcurrency < 0 {
		return fmt.Errorf("config error: 'worker_concurrency' must be non-negative")
	}
	if c.CacheTTL != "" {
		if d, err := time.ParseDuration(c.CacheTTL); err != nil || d < 0 {
			return fmt.Errorf("config error: 'cache_ttl' is not a valid duration: %q", c.CacheTTL)
		}
	}

	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("config error: unknown 'log_level' %q", c.LogLevel)
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		return fmt.Errorf("config error: unknown 'log_format' %q", c.LogFormat)
	}

	if c.Job != "" {
		if _, err := os.Stat(c.Job); os.IsNotExist(err) {
			return fmt.Errorf("config error: job file not found: %s", c.Job)
		}
	}
	if c.Profile != "" {
		if _, err := os.Stat(c.Profile); os.IsNotExist(err) {
			return fmt.Errorf("config error: profile file not found: %s", c.Profile)
		}
	}
	if c.TaxonomyPath != "" {
		if _, err := os.Stat(c.TaxonomyPath); os.IsNotExist(err) {
			return fmt.Errorf("config error: taxonomy file not found: %s", c.TaxonomyPath)
		}
	}

	return nil
}

// CacheDuration returns CacheTTL parsed, or the default when unset or invalid
func (c *Config) CacheDuration() time.Duration {
	if d, err := time.ParseDuration(c.CacheTTL); err == nil {
		return d
	}
	d, _ := time.ParseDuration(DefaultCacheTTL)
	return d
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	for _, f := range []struct {
		dst *string
		src string
	}{
		{&result.Job, defaults.Job},
		{&result.JobURL, defaults.JobURL},
		{&result.Profile, defaults.Profile},
		{&result.TaxonomyPath, defaults.TaxonomyPath},
		{&result.DatabaseURL, defaults.DatabaseURL},
		{&result.SQLitePath, defaults.SQLitePath},
		{&result.RedisURL, defaults.RedisURL},
		{&result.CacheTTL, defaults.CacheTTL},
		{&result.RabbitMQURL, defaults.RabbitMQURL},
		{&result.RequestQueue, defaults.RequestQueue},
		{&result.StatusExchange, defaults.StatusExchange},
		{&result.S3Bucket, defaults.S3Bucket},
		{&result.S3Endpoint, defaults.S3Endpoint},
		{&result.S3Region, defaults.S3Region},
		{&result.S3AccessKey, defaults.S3AccessKey},
		{&result.S3SecretKey, defaults.S3SecretKey},
		{&result.LogLevel, defaults.LogLevel},
		{&result.LogFormat, defaults.LogFormat},
	} {
		if *f.dst == "" {
			*f.dst = f.src
		}
	}

	// Int fields: use default if zero
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.WorkerConcurrency == 0 {
		result.WorkerConcurrency = defaults.WorkerConcurrency
	}

	if len(result.CORSOrigins) == 0 {
		result.CORSOrigins = defaults.CORSOrigins
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
