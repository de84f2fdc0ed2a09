package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFile overlays a flat YAML document of key/value pairs onto the config.
// Environment values keep precedence: a key already resolved from the
// environment or the defaults map is not replaced, the file only fills keys
// that are still unset.
func (c *BasicConfig) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	overlay := make(map[string]string)
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for key, val := range overlay {
		if _, ok := c.values[key]; ok {
			continue
		}
		if env, ok := os.LookupEnv(key); ok {
			c.values[key] = env
			continue
		}
		c.values[key] = val
	}
	return nil
}
