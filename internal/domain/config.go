package domain

// Config mirrors ~/.clarify/config.yaml.
type Config struct {
	ConfigFormatVersion string            `yaml:"config_format_version"`
	Preferences         Preferences       `yaml:"preferences"`
	Service             ServiceSettings   `yaml:"service"`
	RateLimit           RateLimitSettings `yaml:"rate_limit"`
	History             HistorySettings   `yaml:"history"`
}

// Preferences captures user level toggles.
type Preferences struct {
	DefaultLevel string `yaml:"default_level"`
	RenderMode   string `yaml:"render_mode"`
	Theme        string `yaml:"theme"`
}

// ServiceSettings configures the remote explanation endpoint.
type ServiceSettings struct {
	Endpoint       string `yaml:"endpoint"`
	AuthEnvVar     string `yaml:"auth_env_var"`
	TimeoutSeconds int    `yaml:"timeout"`
	MaxAttempts    int    `yaml:"max_attempts"`
}

// RateLimitSettings controls the client-side request pacing.
type RateLimitSettings struct {
	MaxRequests     int  `yaml:"max_requests"`
	WindowSeconds   int  `yaml:"window_seconds"`
	AdaptiveBackoff bool `yaml:"adaptive_backoff"`
	BaseDelayMS     int  `yaml:"base_delay_ms"`
	MaxDelayMS      int  `yaml:"max_delay_ms"`
}

// HistorySettings controls local history persistence.
type HistorySettings struct {
	Store      string `yaml:"store"`
	MaxEntries int    `yaml:"max_entries"`
	RetainDays int    `yaml:"retain_days"`
}
