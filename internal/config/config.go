package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

type ServerEnv = string

var (
	DevEnv     ServerEnv = "dev"
	StagingEnv ServerEnv = "staging"
	ProdEnv    ServerEnv = "prod"
)

const (
	GENERAL_CONFIG_KEY  = "general-config"
	SNAPSHOT_CONFIG_KEY = "snapshot-config"
	STORAGE_CONFIG_KEY  = "storage-config"
	QUOTE_CONFIG_KEY    = "quote-config"
)

// Config is one environment-driven concern. Load reads the environment and
// validates the result.
type Config interface {
	Key() string
	Load() error
	Validate() error
}

// LoadAll loads every config in order and stops at the first failure.
func LoadAll(configs ...Config) error {
	for _, c := range configs {
		if err := c.Load(); err != nil {
			return fmt.Errorf("%s: %w", c.Key(), err)
		}
	}
	return nil
}

type GeneralConfig struct {
	HTTPPort string
	HTTPHost string
	Env      string
	LogLevel string

	// Per client IP: sustained requests per second and burst size.
	RateLimit int
	RateBurst int
}

func (gc *GeneralConfig) Key() string {
	return GENERAL_CONFIG_KEY
}

func (gc *GeneralConfig) Load() error {
	gc.HTTPPort = getEnvOrDefault("HTTP_PORT", "8080")
	gc.HTTPHost = getEnvOrDefault("HTTP_HOST", "localhost")
	gc.Env = getEnvOrDefault("ENV", DevEnv)
	gc.LogLevel = getEnvOrDefault("LOG_LEVEL", "INFO")

	rate, err := getEnvUint("RATE_LIMIT_RPS", 10, 31)
	if err != nil {
		return err
	}
	burst, err := getEnvUint("RATE_LIMIT_BURST", 20, 31)
	if err != nil {
		return err
	}
	gc.RateLimit = int(rate)
	gc.RateBurst = int(burst)
	return gc.Validate()
}

func (gc *GeneralConfig) Validate() error {
	if gc.HTTPPort == "" || gc.HTTPHost == "" || gc.Env == "" {
		return errors.New("invalid server config")
	}
	if gc.RateLimit <= 0 || gc.RateBurst <= 0 {
		return errors.New("rate limit and burst must be positive")
	}
	return nil
}

func (gc *GeneralConfig) Addr() string {
	return gc.HTTPHost + ":" + gc.HTTPPort
}

func getEnvOrDefault(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return strings.TrimSpace(v)
	}
	return def
}

func getEnvBool(key string, def bool) (bool, error) {
	raw, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return def, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}

func getEnvUint(key string, def uint64, bits int) (uint64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return def, nil
	}
	v, err := strconv.ParseUint(strings.TrimSpace(raw), 10, bits)
	if err != nil {
		return def, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}
