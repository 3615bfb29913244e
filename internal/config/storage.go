package config

import "errors"

type StorageConfig struct {
	// DBPath is the BoltDB file the last accepted snapshot is kept in.
	DBPath string

	// Enabled controls whether snapshots are persisted at all.
	// Default: true
	Enabled bool
}

func (c *StorageConfig) Key() string {
	return STORAGE_CONFIG_KEY
}

func (c *StorageConfig) Load() error {
	var err error
	c.DBPath = getEnvOrDefault("STORAGE_DB_PATH", "./data/fundswap.db")
	if c.Enabled, err = getEnvBool("STORAGE_ENABLED", true); err != nil {
		return err
	}
	return c.Validate()
}

func (c *StorageConfig) Validate() error {
	if c.Enabled && c.DBPath == "" {
		return errors.New("storage enabled without STORAGE_DB_PATH")
	}
	return nil
}
