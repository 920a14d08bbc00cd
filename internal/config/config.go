package config

import "time"

// Config is the root configuration for a digestd instance.
type Config struct {
	Instance  InstanceConfig  `yaml:"instance"`
	API       APIConfig       `yaml:"api"`
	Database  DatabaseConfig  `yaml:"database"`
	Sources   SourcesConfig   `yaml:"sources"`
	Schedule  ScheduleConfig  `yaml:"schedule"`
	Digest    DigestConfig    `yaml:"digest"`
	Delivery  DeliveryConfig  `yaml:"delivery"`
	Translate TranslateConfig `yaml:"translate"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// InstanceConfig identifies this digestd process.
type InstanceConfig struct {
	ID string `yaml:"id"`
}

// APIConfig holds upstream calendar provider settings.
type APIConfig struct {
	BaseURL    string        `yaml:"base_url"`
	APIKey     string        `yaml:"api_key"`
	Timeout    time.Duration `yaml:"timeout"`
	MaxRetries int           `yaml:"max_retries"`
}

// DatabaseConfig holds the Postgres connection for tenants and task markers.
type DatabaseConfig struct {
	Postgres DBConfig `yaml:"postgres"`
}

// DBConfig holds a single database connection.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// SourcesConfig holds source adapter settings.
type SourcesConfig struct {
	TargetCountry   string        `yaml:"target_country"`    // Country filter for macro events (e.g., "US")
	QuoteBatchSize  int           `yaml:"quote_batch_size"`  // Symbols per quote lookup
	QuoteBatchDelay time.Duration `yaml:"quote_batch_delay"` // Pause between quote batches
}

// ScheduleConfig holds the polling scheduler settings.
type ScheduleConfig struct {
	PollInterval time.Duration `yaml:"poll_interval"`
	Timezone     string        `yaml:"timezone"` // Display timezone (IANA name)
	Tasks        []TaskConfig  `yaml:"tasks"`
}

// TaskConfig defines one daily trigger window.
type TaskConfig struct {
	Kind      string        `yaml:"kind"`      // Task kind, unique
	At        string        `yaml:"at"`        // Local fire time, "HH:MM"
	Tolerance time.Duration `yaml:"tolerance"` // Window width past At
}

// DigestConfig holds rendering settings.
type DigestConfig struct {
	SectionLimit int `yaml:"section_limit"`  // Max rendered chars per section
	DayStartHour int `yaml:"day_start_hour"` // Local hour anchoring the display window
}

// DeliveryConfig holds delivery collaborator settings.
type DeliveryConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig holds Telegram Bot API settings.
type TelegramConfig struct {
	APIURL   string        `yaml:"api_url"`
	BotToken string        `yaml:"bot_token"`
	Timeout  time.Duration `yaml:"timeout"`
}

// TranslateConfig holds the external translation collaborator settings.
// An empty URL disables the collaborator; the static table still applies.
type TranslateConfig struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

// MetricsConfig holds the health/metrics HTTP server settings.
type MetricsConfig struct {
	Port int    `yaml:"port"`
	Path string `yaml:"path"`
}
