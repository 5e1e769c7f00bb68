// Package config defines service configuration structures and loading.
//
// Conventions follow the rest of the repository: defaults come from New,
// Load layers an optional YAML file and FELLOWTRACK_-prefixed environment
// variables on top, and external errors are wrapped with this package's
// sentinels.
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// Storage selects the repository backend: "memory" or "mysql".
	Storage string `koanf:"storage"`

	// MySQLDSN is the DSN used when Storage is "mysql".
	MySQLDSN string `koanf:"mysql_dsn"`

	// CheckInLookback is the check-in window, in weeks, fed to the collector.
	CheckInLookback int `koanf:"check_in_lookback"`

	// AssessmentLookback is how many prior assessments inform the trend.
	AssessmentLookback int `koanf:"assessment_lookback"`

	// WorkerCount sets the number of assessment workers.
	WorkerCount int `koanf:"worker_count"`

	// QueueSize bounds the in-memory assessment job queue.
	QueueSize int `koanf:"queue_size"`

	// SchedulerEnabled turns the periodic assessment runner on.
	SchedulerEnabled bool `koanf:"scheduler_enabled"`

	// SchedulerIntervalMinutes is the cadence of the periodic runner.
	SchedulerIntervalMinutes int `koanf:"scheduler_interval_minutes"`

	// ProgramStart is the cohort start date (2006-01-02). The scheduler
	// derives the current program week from it. Empty means weeks are
	// counted from process start.
	ProgramStart string `koanf:"program_start"`

	// DrafterBaseURL is the endpoint of the text-generation collaborator.
	DrafterBaseURL string `koanf:"drafter_base_url"`

	// DrafterAPIKey authenticates against the text-generation collaborator.
	DrafterAPIKey string `koanf:"drafter_api_key"`

	// DrafterModel names the generation model to request.
	DrafterModel string `koanf:"drafter_model"`

	// DrafterTimeoutSeconds bounds a single draft request.
	DrafterTimeoutSeconds int `koanf:"drafter_timeout_seconds"`

	// SlackWebhookURL receives escalation notifications when set.
	SlackWebhookURL string `koanf:"slack_webhook_url"`

	// NotificationsEnabled gates outbound Slack notifications.
	NotificationsEnabled bool `koanf:"notifications_enabled"`

	// SeedFile points at a YAML fixture loaded into the store at startup.
	SeedFile string `koanf:"seed_file"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:                 "info",
		Addr:                     ":8090",
		Storage:                  "memory",
		CheckInLookback:          3,
		AssessmentLookback:       2,
		WorkerCount:              4,
		QueueSize:                1024,
		SchedulerEnabled:         false,
		SchedulerIntervalMinutes: 1440,
		DrafterBaseURL:           "https://api.anthropic.com",
		DrafterModel:             "claude-sonnet-4-20250514",
		DrafterTimeoutSeconds:    45,
		NotificationsEnabled:     false,
	}
}
