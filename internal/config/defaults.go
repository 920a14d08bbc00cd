package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultBaseURL         = "https://financialmodelingprep.com/api/v3"
	DefaultAPITimeout      = 10 * time.Second
	DefaultMaxRetries      = 3
	DefaultDBPort          = 5432
	DefaultDBSSLMode       = "prefer"
	DefaultMaxConns        = 10
	DefaultMinConns        = 2
	DefaultTargetCountry   = "US"
	DefaultQuoteBatchSize  = 50
	DefaultQuoteBatchDelay = 100 * time.Millisecond
	DefaultPollInterval    = time.Minute
	DefaultTimezone        = "Asia/Shanghai"
	DefaultTolerance       = 5 * time.Minute
	DefaultSectionLimit    = 3500
	DefaultDayStartHour    = 8
	DefaultTelegramAPIURL  = "https://api.telegram.org"
	DefaultDeliveryTimeout = 15 * time.Second
	DefaultMetricsPort     = 9090
	DefaultMetricsPath     = "/metrics"
)

func (c *Config) applyDefaults() {
	// API defaults
	if c.API.BaseURL == "" {
		c.API.BaseURL = DefaultBaseURL
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = DefaultAPITimeout
	}
	if c.API.MaxRetries == 0 {
		c.API.MaxRetries = DefaultMaxRetries
	}

	// Database defaults
	applyDBDefaults(&c.Database.Postgres)

	// Sources defaults
	if c.Sources.TargetCountry == "" {
		c.Sources.TargetCountry = DefaultTargetCountry
	}
	if c.Sources.QuoteBatchSize == 0 {
		c.Sources.QuoteBatchSize = DefaultQuoteBatchSize
	}
	if c.Sources.QuoteBatchDelay == 0 {
		c.Sources.QuoteBatchDelay = DefaultQuoteBatchDelay
	}

	// Schedule defaults
	if c.Schedule.PollInterval == 0 {
		c.Schedule.PollInterval = DefaultPollInterval
	}
	if c.Schedule.Timezone == "" {
		c.Schedule.Timezone = DefaultTimezone
	}
	for i := range c.Schedule.Tasks {
		if c.Schedule.Tasks[i].Tolerance == 0 {
			c.Schedule.Tasks[i].Tolerance = DefaultTolerance
		}
	}

	// Digest defaults
	if c.Digest.SectionLimit == 0 {
		c.Digest.SectionLimit = DefaultSectionLimit
	}
	if c.Digest.DayStartHour == 0 {
		c.Digest.DayStartHour = DefaultDayStartHour
	}

	// Delivery defaults
	if c.Delivery.Telegram.APIURL == "" {
		c.Delivery.Telegram.APIURL = DefaultTelegramAPIURL
	}
	if c.Delivery.Telegram.Timeout == 0 {
		c.Delivery.Telegram.Timeout = DefaultDeliveryTimeout
	}

	// Translate defaults
	if c.Translate.Timeout == 0 {
		c.Translate.Timeout = DefaultAPITimeout
	}

	// Metrics defaults
	if c.Metrics.Port == 0 {
		c.Metrics.Port = DefaultMetricsPort
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}
}

func applyDBDefaults(db *DBConfig) {
	if db.Port == 0 {
		db.Port = DefaultDBPort
	}
	if db.SSLMode == "" {
		db.SSLMode = DefaultDBSSLMode
	}
	if db.MaxConns == 0 {
		db.MaxConns = DefaultMaxConns
	}
	if db.MinConns == 0 {
		db.MinConns = DefaultMinConns
	}
}
