package config

import (
	"fmt"
	"time"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if c.Auth.Enabled() && len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}
	if len(c.Kafka.BrokerList()) == 0 {
		return fmt.Errorf("kafka.brokers must list at least one broker")
	}
	if c.Kafka.RetryAttempts < 1 || c.Kafka.RetryBackoff < 0 {
		return fmt.Errorf("kafka: retry_attempts must be positive and retry_backoff non-negative")
	}
	if err := c.Dispatch.validate(); err != nil {
		return fmt.Errorf("dispatch: %w", err)
	}
	if err := c.IDGen.validate(); err != nil {
		return fmt.Errorf("idgen: %w", err)
	}
	return nil
}

func (d *DispatchConfig) validate() error {
	if d.LimitTotal <= 0 {
		return fmt.Errorf("limit_user_device_total must be > 0 (got %d)", d.LimitTotal)
	}
	if d.PerDayEnabled && d.LimitPerDay <= 0 {
		return fmt.Errorf("limit_user_device_per_day must be > 0 (got %d)", d.LimitPerDay)
	}
	if d.UsagePerDayExpireDays <= 0 || d.UsageTotalExpireDays <= 0 {
		return fmt.Errorf("usage expiry days must be > 0 (got %d, %d)", d.UsagePerDayExpireDays, d.UsageTotalExpireDays)
	}
	loc, err := time.LoadLocation(d.TimeZone)
	if err != nil {
		return fmt.Errorf("time_zone: %w", err)
	}
	d.Location = loc
	return nil
}

func (g *IDGenConfig) validate() error {
	if g.PaddingLength < 1 || g.PaddingLength > 32 {
		return fmt.Errorf("padding_length must be in 1..32 (got %d)", g.PaddingLength)
	}
	if g.PoolCreateBatchSize <= 0 || g.PoolAsyncBatchSize <= 0 {
		return fmt.Errorf("pool batch sizes must be > 0 (got %d, %d)", g.PoolCreateBatchSize, g.PoolAsyncBatchSize)
	}
	if g.RandomBufferPercent < 0 {
		return fmt.Errorf("random_buffer_percent must be >= 0 (got %d)", g.RandomBufferPercent)
	}
	loc, err := time.LoadLocation(g.TimeZone)
	if err != nil {
		return fmt.Errorf("time_zone: %w", err)
	}
	g.Location = loc
	return nil
}
