package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// configFile is the name of the config file inside configDir.
const configFile = "config.toml"

// Config holds the optional user configuration read from
// ~/.config/flowviz/config.toml. All fields default to their zero
// value, so a missing file means stock behavior.
//
// Example:
//
//	[render]
//	vertical = true
//	formats = "svg,png"
//
//	[cache]
//	redis_addr = "localhost:6379"
type Config struct {
	Render RenderConfig `toml:"render"`
	Cache  CacheConfig  `toml:"cache"`
}

// RenderConfig sets default render options. Flags override these.
type RenderConfig struct {
	// Vertical ranks tasks top to bottom by default.
	Vertical bool `toml:"vertical"`
	// Curvy routes edges as splines by default.
	Curvy bool `toml:"curvy"`
	// Formats is the default --format value (comma-separated).
	Formats string `toml:"formats"`
}

// CacheConfig selects and locates the cache backend.
type CacheConfig struct {
	// Disabled turns caching off entirely.
	Disabled bool `toml:"disabled"`
	// Dir overrides the XDG cache directory for the file backend.
	Dir string `toml:"dir"`
	// RedisAddr switches to the Redis backend (host:port).
	RedisAddr string `toml:"redis_addr"`
}

// loadConfig reads the config file if it exists. A missing file is not
// an error; a malformed one is.
func loadConfig() (Config, error) {
	dir, err := configDir()
	if err != nil {
		return Config{}, nil
	}
	return loadConfigFile(filepath.Join(dir, configFile))
}

// loadConfigFile reads and decodes a single config file.
func loadConfigFile(path string) (Config, error) {
	var cfg Config
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}
