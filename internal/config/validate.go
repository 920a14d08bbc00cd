package config

import (
	"errors"
	"fmt"
	"time"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if c.Instance.ID == "" {
		return errors.New("instance.id is required")
	}

	if c.API.APIKey == "" {
		return errors.New("api.api_key is required")
	}

	if err := c.Database.Postgres.validate("database.postgres"); err != nil {
		return err
	}

	if c.Sources.QuoteBatchSize < 1 {
		return errors.New("sources.quote_batch_size must be >= 1")
	}

	if _, err := time.LoadLocation(c.Schedule.Timezone); err != nil {
		return fmt.Errorf("schedule.timezone %q is not a valid IANA zone: %w", c.Schedule.Timezone, err)
	}
	if len(c.Schedule.Tasks) == 0 {
		return errors.New("schedule.tasks must define at least one task")
	}
	seen := make(map[string]bool, len(c.Schedule.Tasks))
	for _, task := range c.Schedule.Tasks {
		if task.Kind == "" {
			return errors.New("schedule.tasks[].kind is required")
		}
		if seen[task.Kind] {
			return fmt.Errorf("schedule.tasks kind %q defined twice", task.Kind)
		}
		seen[task.Kind] = true
		fire, err := time.Parse("15:04", task.At)
		if err != nil {
			return fmt.Errorf("schedule.tasks[%s].at %q must be HH:MM: %w", task.Kind, task.At, err)
		}
		if task.Tolerance <= 0 {
			return fmt.Errorf("schedule.tasks[%s].tolerance must be > 0", task.Kind)
		}
		// The trigger window is checked against the current calendar day,
		// so a window crossing local midnight would never finish firing.
		sinceMidnight := time.Duration(fire.Hour())*time.Hour + time.Duration(fire.Minute())*time.Minute
		if sinceMidnight+task.Tolerance > 24*time.Hour {
			return fmt.Errorf("schedule.tasks[%s]: at %s plus tolerance %s crosses midnight", task.Kind, task.At, task.Tolerance)
		}
	}

	if c.Digest.SectionLimit < 1 {
		return errors.New("digest.section_limit must be >= 1")
	}
	if c.Digest.DayStartHour < 0 || c.Digest.DayStartHour > 23 {
		return fmt.Errorf("digest.day_start_hour must be between 0 and 23, got %d", c.Digest.DayStartHour)
	}

	if c.Delivery.Telegram.BotToken == "" {
		return errors.New("delivery.telegram.bot_token is required")
	}

	if c.Metrics.Port < 1 || c.Metrics.Port > 65535 {
		return fmt.Errorf("metrics.port must be between 1 and 65535, got %d", c.Metrics.Port)
	}

	return nil
}

func (db *DBConfig) validate(prefix string) error {
	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.Password == "" {
		return fmt.Errorf("%s.password is required", prefix)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, db.MinConns, db.MaxConns)
	}
	return nil
}
