// Package config loads environment-backed application configuration with
// explicit defaults, required keys and managed directories.
package config

import (
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/ilfrich/go-basic-utils/logging"
)

// Options configures a BasicConfig instance.
type Options struct {
	// Defaults maps config keys to fallback values used when the
	// environment does not provide the key.
	Defaults map[string]string

	// DirectoryKeys lists keys whose values are directories that should
	// exist. Missing directories are created during New.
	DirectoryKeys []string

	// Required lists keys that must be present in the environment. A
	// missing required key fails New.
	Required []string

	// EnvFile is the dotenv file loaded before resolving keys. Defaults
	// to ".env". A missing file is not an error.
	EnvFile string

	// Logger receives config events. Defaults to a named library logger.
	Logger *zap.Logger
}

// BasicConfig resolves configuration values from the environment with
// defaults and caches every resolved key.
type BasicConfig struct {
	values map[string]string
	logger *zap.Logger
	mu     sync.RWMutex
}

// New loads the env file, resolves all default keys against the environment
// and verifies required keys and managed directories.
func New(opts Options) (*BasicConfig, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.New("config")
	}

	// Missing env files are expected in production, where the environment
	// is provided by the process manager.
	if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
		logger.Warn("Failed to load env file", zap.String("file", envFile), zap.Error(err))
	}

	cfg := &BasicConfig{
		values: make(map[string]string),
		logger: logger,
	}

	for key, fallback := range opts.Defaults {
		val, ok := os.LookupEnv(key)
		if !ok {
			cfg.values[key] = fallback
			continue
		}
		cfg.values[key] = val
	}

	for _, key := range opts.Required {
		if _, ok := os.LookupEnv(key); !ok {
			return nil, fmt.Errorf("missing required environment variable %s", key)
		}
	}

	for _, key := range opts.DirectoryKeys {
		if err := cfg.ensureDirectory(key); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// ensureDirectory creates the directory configured under key, if any.
func (c *BasicConfig) ensureDirectory(key string) error {
	dir := c.Get(key, "")
	if dir == "" {
		return nil
	}
	info, err := os.Stat(dir)
	if err == nil && info.IsDir() {
		return nil
	}
	c.logger.Info("Creating configured directory", zap.String("key", key), zap.String("dir", dir))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", key, err)
	}
	return nil
}

// Get returns the value for key, consulting the cache first and falling back
// to a fresh environment read, which is then cached. The fallback is
// returned when neither source provides the key.
func (c *BasicConfig) Get(key, fallback string) string {
	c.mu.RLock()
	if val, ok := c.values[key]; ok {
		c.mu.RUnlock()
		return val
	}
	c.mu.RUnlock()

	val, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}

	c.mu.Lock()
	c.values[key] = val
	c.mu.Unlock()
	return val
}

// GetString is an alias for Get.
func (c *BasicConfig) GetString(key, fallback string) string {
	return c.Get(key, fallback)
}

// GetInt returns the value for key parsed as an integer.
func (c *BasicConfig) GetInt(key string, fallback int) int {
	val := c.Get(key, "")
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		c.logger.Warn("Invalid integer config value",
			zap.String("key", key), zap.String("value", val))
		return fallback
	}
	return parsed
}

// GetFloat returns the value for key parsed as a float.
func (c *BasicConfig) GetFloat(key string, fallback float64) float64 {
	val := c.Get(key, "")
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(val, 64)
	if err != nil {
		c.logger.Warn("Invalid float config value",
			zap.String("key", key), zap.String("value", val))
		return fallback
	}
	return parsed
}

// GetBool returns the value for key parsed as a boolean.
func (c *BasicConfig) GetBool(key string, fallback bool) bool {
	val := c.Get(key, "")
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		c.logger.Warn("Invalid boolean config value",
			zap.String("key", key), zap.String("value", val))
		return fallback
	}
	return parsed
}

// GetDuration returns the value for key parsed as a time.Duration.
func (c *BasicConfig) GetDuration(key string, fallback time.Duration) time.Duration {
	val := c.Get(key, "")
	if val == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(val)
	if err != nil {
		c.logger.Warn("Invalid duration config value",
			zap.String("key", key), zap.String("value", val))
		return fallback
	}
	return parsed
}

// Keys returns all currently cached config keys.
func (c *BasicConfig) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys := make([]string, 0, len(c.values))
	for key := range c.values {
		keys = append(keys, key)
	}
	return keys
}
