// Package config loads and saves the application configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	appName    = "marquee"
	envPrefix  = "MARQUEE"
	configName = "config"
	configType = "yaml"
)

// Config holds all application configuration
type Config struct {
	OMDb    OMDbConfig    `mapstructure:"omdb"`
	Search  SearchConfig  `mapstructure:"search"`
	Storage StorageConfig `mapstructure:"storage"`
	Logging LoggingConfig `mapstructure:"logging"`

	path string // File the configuration was read from or will be saved to
}

// OMDbConfig holds catalog API configuration
type OMDbConfig struct {
	APIKey        string        `mapstructure:"api_key"`
	BaseURL       string        `mapstructure:"base_url"`
	DefaultSearch string        `mapstructure:"default_search"` // Term searched when the query is empty
	Timeout       time.Duration `mapstructure:"timeout"`
}

// SearchConfig holds search and pagination behaviour
type SearchConfig struct {
	MaxQueryLength    int           `mapstructure:"max_query_length"`
	Debounce          time.Duration `mapstructure:"debounce"`
	PrefetchThreshold int           `mapstructure:"prefetch_threshold"` // Rows from the end that trigger the next page
	DefaultType       string        `mapstructure:"default_type"`       // movie, series, episode or empty
}

// StorageConfig holds favorites persistence configuration
type StorageConfig struct {
	Backend string `mapstructure:"backend"` // "bolt" or "file"
	Path    string `mapstructure:"path"`    // Directory; empty keeps favorites in memory
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File       string `mapstructure:"file"`
	Level      string `mapstructure:"level"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		OMDb: OMDbConfig{
			BaseURL:       "https://www.omdbapi.com/",
			DefaultSearch: "movie",
			Timeout:       30 * time.Second,
		},
		Search: SearchConfig{
			MaxQueryLength:    200,
			Debounce:          400 * time.Millisecond,
			PrefetchThreshold: 5,
			DefaultType:       "movie",
		},
		Storage: StorageConfig{
			Backend: "bolt",
			Path:    defaultDataPath(),
		},
		Logging: LoggingConfig{
			File:       filepath.Join(defaultDataPath(), appName+".log"),
			Level:      "INFO",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// defaultDataPath returns the default data directory for the current OS
func defaultDataPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), appName)
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", appName)
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), appName)
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", appName)
	}
}

// newViper returns a viper instance with defaults and env overrides set
func newViper(defaults *Config) *viper.Viper {
	v := viper.New()
	v.SetConfigType(configType)

	// Defaults make every key visible to AutomaticEnv
	for key, value := range keyValues(defaults) {
		v.SetDefault(key, value)
	}

	// Environment variable overrides: MARQUEE_OMDB_API_KEY etc.
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// keyValues flattens cfg into snake_case viper keys
func keyValues(cfg *Config) map[string]any {
	return map[string]any{
		"omdb.api_key":              cfg.OMDb.APIKey,
		"omdb.base_url":             cfg.OMDb.BaseURL,
		"omdb.default_search":       cfg.OMDb.DefaultSearch,
		"omdb.timeout":              cfg.OMDb.Timeout.String(),
		"search.max_query_length":   cfg.Search.MaxQueryLength,
		"search.debounce":           cfg.Search.Debounce.String(),
		"search.prefetch_threshold": cfg.Search.PrefetchThreshold,
		"search.default_type":       cfg.Search.DefaultType,
		"storage.backend":           cfg.Storage.Backend,
		"storage.path":              cfg.Storage.Path,
		"logging.file":              cfg.Logging.File,
		"logging.level":             cfg.Logging.Level,
		"logging.max_size_mb":       cfg.Logging.MaxSizeMB,
		"logging.max_backups":       cfg.Logging.MaxBackups,
	}
}

// LoadConfig loads configuration from file and environment.
// An empty path searches the default config directory and the working directory.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	v := newViper(cfg)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configName)
		v.AddConfigPath(defaultConfigPath())
		v.AddConfigPath(".")
	}

	// Read config file if it exists
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	cfg.path = v.ConfigFileUsed()
	if cfg.path == "" {
		cfg.path = path
	}
	cfg.Storage.Path = expandHome(cfg.Storage.Path)
	cfg.Logging.File = expandHome(cfg.Logging.File)
	return cfg, nil
}

// SaveConfig saves the configuration to the file it was loaded from,
// or to the default location
func SaveConfig(cfg *Config) error {
	configFile := cfg.Path()
	if err := os.MkdirAll(filepath.Dir(configFile), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigType(configType)
	// Set fields individually to ensure correct key names (snake_case)
	for key, value := range keyValues(cfg) {
		v.Set(key, value)
	}

	if err := v.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	cfg.path = configFile
	return nil
}

// Path returns the config file location
func (c *Config) Path() string {
	if c.path != "" {
		return c.path
	}
	return filepath.Join(defaultConfigPath(), configName+"."+configType)
}

// IsConfigured returns true if an API key is set
func (c *Config) IsConfigured() bool {
	return strings.TrimSpace(c.OMDb.APIKey) != ""
}

// expandHome expands a leading ~ in path
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
