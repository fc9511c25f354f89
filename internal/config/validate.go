package config

import (
	"fmt"
	"strings"
	"time"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535 (got %d)", c.Server.Port)
	}

	if len(c.Catalog.Suites) == 0 {
		return fmt.Errorf("catalog.suites must not be empty")
	}
	for _, suite := range c.Catalog.Suites {
		if strings.TrimSpace(suite) == "" {
			return fmt.Errorf("catalog.suites must not contain blank names")
		}
	}

	if c.Catalog.SyncInterval < time.Minute {
		return fmt.Errorf("catalog.sync_interval must be at least 1m (got %v)", c.Catalog.SyncInterval)
	}

	if c.Telegram.PollTimeout <= 0 {
		return fmt.Errorf("telegram.poll_timeout must be > 0 (got %d)", c.Telegram.PollTimeout)
	}

	return nil
}
