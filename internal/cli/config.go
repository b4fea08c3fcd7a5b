package cli

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// appName is the application name used for directories and display.
const appName = "phylotime"

// Config is the optional TOML configuration loaded from
// ~/.config/phylotime/config.toml. Flags override config values; config
// values override defaults.
type Config struct {
	Cache CacheConfig `toml:"cache"`
	Store StoreConfig `toml:"store"`
	Serve ServeConfig `toml:"serve"`
}

// CacheConfig selects and parameterizes the result cache backend.
type CacheConfig struct {
	// Backend is one of "file", "redis", or "none".
	Backend string `toml:"backend"`

	// Dir overrides the file cache directory (default ~/.cache/phylotime).
	Dir string `toml:"dir"`

	// RedisAddr is the "host:port" of the Redis server.
	RedisAddr string `toml:"redis_addr"`
}

// StoreConfig parameterizes the check archive.
type StoreConfig struct {
	MongoURI string `toml:"mongo_uri"`
	Database string `toml:"database"`
}

// ServeConfig parameterizes the HTTP server.
type ServeConfig struct {
	Addr string `toml:"addr"`
}

// defaultConfig returns the configuration used when no file exists.
func defaultConfig() Config {
	return Config{
		Cache: CacheConfig{Backend: "file", RedisAddr: "localhost:6379"},
		Store: StoreConfig{MongoURI: "mongodb://localhost:27017", Database: appName},
		Serve: ServeConfig{Addr: ":8080"},
	}
}

// configPath returns the config file location using the XDG convention.
func configPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// loadConfig reads the config file at path, or the default location when
// path is empty. A missing file is not an error: defaults apply.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()

	if path == "" {
		p, err := configPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// cacheDir returns the cache directory using XDG standard (~/.cache/phylotime/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
