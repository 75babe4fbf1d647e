package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/viper"

	"github.com/keroda/watchdeck/internal/log"
)

// Config holds all application configuration
type Config struct {
	Catalog CatalogConfig `mapstructure:"catalog"`
	Backend BackendConfig `mapstructure:"backend"`
	Session SessionConfig `mapstructure:"session"`
	UI      UIConfig      `mapstructure:"ui"`
	Logging log.Config    `mapstructure:"logging"`
}

// CatalogConfig holds catalog API (TMDB) configuration
type CatalogConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
}

// BackendConfig holds the library backend configuration
type BackendConfig struct {
	URL    string `mapstructure:"url"`     // PostgREST base URL
	APIKey string `mapstructure:"api_key"` // anon/service key sent as apikey header
}

// SessionConfig holds the resolved user identity. The auth flow that
// produces the token is external; we only persist its result.
type SessionConfig struct {
	UserID      string `mapstructure:"user_id"`
	AccessToken string `mapstructure:"access_token"`
	Email       string `mapstructure:"email"`
}

// SignedIn reports whether a user identity is resolved.
func (s SessionConfig) SignedIn() bool {
	return s.UserID != "" && s.AccessToken != ""
}

// UIConfig holds UI preferences
type UIConfig struct {
	PosterBase      string `mapstructure:"poster_base"` // image URL prefix
	ShowWatchStatus bool   `mapstructure:"show_watch_status"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Catalog: CatalogConfig{
			BaseURL: "https://api.themoviedb.org/3",
		},
		UI: UIConfig{
			PosterBase:      "https://image.tmdb.org/t/p/w342",
			ShowWatchStatus: true,
		},
		Logging: log.Config{
			File:  defaultLogPath(),
			Level: "INFO",
		},
	}
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "watchdeck", "watchdeck.log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "watchdeck", "watchdeck.log")
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "watchdeck")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "watchdeck")
	}
}

// defaultCachePath returns the default cache directory for the current OS
func defaultCachePath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "watchdeck", "cache")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "watchdeck", "cache")
	}
}

// LoadConfig loads configuration from file and environment
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(defaultConfigPath())
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("WATCHDECK")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the current configuration to file
func SaveConfig(cfg *Config) error {
	configPath := defaultConfigPath()
	if err := os.MkdirAll(configPath, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Set fields individually to keep snake_case key names
	viper.Set("catalog.base_url", cfg.Catalog.BaseURL)
	viper.Set("catalog.api_key", cfg.Catalog.APIKey)

	viper.Set("backend.url", cfg.Backend.URL)
	viper.Set("backend.api_key", cfg.Backend.APIKey)

	viper.Set("session.user_id", cfg.Session.UserID)
	viper.Set("session.access_token", cfg.Session.AccessToken)
	viper.Set("session.email", cfg.Session.Email)

	viper.Set("ui.poster_base", cfg.UI.PosterBase)
	viper.Set("ui.show_watch_status", cfg.UI.ShowWatchStatus)

	viper.Set("logging.file", cfg.Logging.File)
	viper.Set("logging.level", cfg.Logging.Level)

	configFile := filepath.Join(configPath, "config.yaml")
	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ClearSession removes the persisted identity while preserving the
// rest of the configuration.
func ClearSession(cfg *Config) error {
	cfg.Session = SessionConfig{}
	return SaveConfig(cfg)
}

// IsConfigured returns true if the catalog key and backend URL are set
func (c *Config) IsConfigured() bool {
	return c.Catalog.APIKey != "" && c.Backend.URL != ""
}

// GetCachePath returns the cache directory path
func GetCachePath() string {
	return defaultCachePath()
}
