package types

import "time"

// HTTPConfig holds shared HTTP settings used by components that call remote services.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout. Zero leaves the transport default.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "writing-desk/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`

	// MaxRetries bounds retries on HTTP 429 (default 3). Submission never retries.
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// CitationConfig holds settings for the bibliography sync engine.
type CitationConfig struct {
	// SyncDelay is the debounce delay before a sync runs (default 500ms).
	SyncDelay time.Duration `json:"sync_delay" yaml:"sync_delay"`
}

// FallbackPolicy decides what the scorer does when the classifier fails.
type FallbackPolicy string

const (
	// FallbackSimulate produces a simulated report.
	FallbackSimulate FallbackPolicy = "simulate"

	// FallbackFail returns the classifier error to the caller.
	FallbackFail FallbackPolicy = "fail"
)

// ClassifierConfig holds settings for the originality scorer.
type ClassifierConfig struct {
	HTTPConfig `yaml:",inline"`

	// Endpoint is the text-classification service URL. Empty disables the
	// remote path entirely.
	Endpoint string `json:"endpoint" yaml:"endpoint"`

	// APIKey is sent as the x-api-key header.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Fallback selects the policy on classifier failure (default simulate).
	Fallback FallbackPolicy `json:"fallback" yaml:"fallback"`

	// BreakerThreshold is the number of consecutive failures that open the
	// circuit (default 3).
	BreakerThreshold int `json:"breaker_threshold" yaml:"breaker_threshold"`

	// BreakerCooldown is how long the circuit stays open (default 30s).
	BreakerCooldown time.Duration `json:"breaker_cooldown" yaml:"breaker_cooldown"`
}

// AssignmentConfig holds settings for assignment-code validation.
type AssignmentConfig struct {
	HTTPConfig `yaml:",inline"`

	// Endpoint is the validation service URL.
	Endpoint string `json:"endpoint" yaml:"endpoint"`

	// Delay is the debounce delay between keystrokes and validation (default 500ms).
	Delay time.Duration `json:"delay" yaml:"delay"`

	// MinLength is the shortest code sent for validation (default 3).
	MinLength int `json:"min_length" yaml:"min_length"`
}

// SubmissionConfig holds settings for the submission service.
type SubmissionConfig struct {
	HTTPConfig `yaml:",inline"`

	// Endpoint is the submission service URL.
	Endpoint string `json:"endpoint" yaml:"endpoint"`

	// Token is an optional bearer token.
	Token string `json:"token,omitempty" yaml:"token,omitempty"`
}

// LibraryConfig holds settings for source metadata lookup.
type LibraryConfig struct {
	HTTPConfig `yaml:",inline"`

	// Endpoint is the OpenAlex works API (default https://api.openalex.org/works).
	Endpoint string `json:"endpoint" yaml:"endpoint"`

	// Email is sent as the mailto parameter for the OpenAlex polite pool.
	Email string `json:"email,omitempty" yaml:"email,omitempty"`
}

// StoreConfig holds settings for the local sqlite store.
type StoreConfig struct {
	// Dir contains writer.db (default "data").
	Dir string `json:"dir" yaml:"dir"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error (default info).
	Level string `json:"level" yaml:"level"`

	// Development switches to the human-readable console encoder.
	Development bool `json:"development" yaml:"development"`
}

// WriterConfig groups all component configurations.
type WriterConfig struct {
	Citation   CitationConfig   `json:"citation" yaml:"citation"`
	Classifier ClassifierConfig `json:"classifier" yaml:"classifier"`
	Assignment AssignmentConfig `json:"assignment" yaml:"assignment"`
	Submission SubmissionConfig `json:"submission" yaml:"submission"`
	Library    LibraryConfig    `json:"library" yaml:"library"`
	Store      StoreConfig      `json:"store" yaml:"store"`
	Logging    LoggingConfig    `json:"logging" yaml:"logging"`
}

const defaultUserAgent = "writing-desk/0.1"

// DefaultConfig returns a WriterConfig with every default applied.
func DefaultConfig() WriterConfig {
	return WriterConfig{
		Citation: CitationConfig{SyncDelay: 500 * time.Millisecond},
		Classifier: ClassifierConfig{
			HTTPConfig:       HTTPConfig{Timeout: 30 * time.Second, UserAgent: defaultUserAgent, MaxRetries: 3},
			Fallback:         FallbackSimulate,
			BreakerThreshold: 3,
			BreakerCooldown:  30 * time.Second,
		},
		Assignment: AssignmentConfig{
			HTTPConfig: HTTPConfig{Timeout: 10 * time.Second, UserAgent: defaultUserAgent, MaxRetries: 3},
			Delay:      500 * time.Millisecond,
			MinLength:  3,
		},
		Submission: SubmissionConfig{
			HTTPConfig: HTTPConfig{Timeout: 30 * time.Second, UserAgent: defaultUserAgent},
		},
		Library: LibraryConfig{
			HTTPConfig: HTTPConfig{Timeout: 15 * time.Second, UserAgent: defaultUserAgent, MaxRetries: 3},
			Endpoint:   "https://api.openalex.org/works",
		},
		Store:   StoreConfig{Dir: "data"},
		Logging: LoggingConfig{Level: "info"},
	}
}
