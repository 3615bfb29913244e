package config

import (
	"errors"
	"fmt"

	"github.com/robfig/cron/v3"
)

type SnapshotConfig struct {
	// Path is the YAML or JSON seed file the snapshot is loaded from.
	Path string

	// RefreshCron reloads Path on a schedule, e.g. "@every 30s". Empty
	// disables reloading.
	RefreshCron string

	// AdminToken guards the snapshot admin endpoint. Empty disables it.
	AdminToken string
}

func (c *SnapshotConfig) Key() string {
	return SNAPSHOT_CONFIG_KEY
}

func (c *SnapshotConfig) Load() error {
	c.Path = getEnvOrDefault("SNAPSHOT_PATH", "./data/snapshot.yaml")
	c.RefreshCron = getEnvOrDefault("SNAPSHOT_REFRESH_CRON", "@every 30s")
	c.AdminToken = getEnvOrDefault("ADMIN_TOKEN", "")
	return c.Validate()
}

func (c *SnapshotConfig) Validate() error {
	if c.RefreshCron != "" && c.Path == "" {
		return errors.New("snapshot refresh needs SNAPSHOT_PATH")
	}
	if c.RefreshCron != "" {
		if _, err := cron.ParseStandard(c.RefreshCron); err != nil {
			return fmt.Errorf("invalid SNAPSHOT_REFRESH_CRON %q: %w", c.RefreshCron, err)
		}
	}
	return nil
}
