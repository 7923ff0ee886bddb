package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config is the persistent feedbox configuration.
type Config struct {
	// DataDir holds the favorites database and logs. Empty means ~/.feedbox.
	DataDir string `json:"data_dir,omitempty"`

	API       APIConfig       `json:"api"`
	Favorites FavoritesConfig `json:"favorites"`
	UI        UIConfig        `json:"ui"`
	Log       LogConfig       `json:"log"`
	Update    UpdateConfig    `json:"update"`

	path string
}

// APIConfig points at the aggregation backend.
type APIConfig struct {
	BaseURL        string `json:"base_url"`
	TimeoutSeconds int    `json:"timeout_seconds"` // 0 = no client timeout
}

// FavoritesConfig selects where favorite article IDs are kept.
type FavoritesConfig struct {
	Backend string `json:"backend"`        // "sqlite", "bolt", "file", "memory"
	Path    string `json:"path,omitempty"` // default derived from DataDir
}

// UIConfig holds display preferences.
type UIConfig struct {
	TimeFormat   string `json:"time_format"` // Go layout for article times
	RelativeTime bool   `json:"relative_time"`
}

// LogConfig controls the file logger.
type LogConfig struct {
	Level string `json:"level"` // debug, info, warn, error
}

// UpdateConfig throttles the backend update trigger.
type UpdateConfig struct {
	CooldownSeconds int `json:"cooldown_seconds"` // 0 disables the throttle
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:        "http://localhost:8080",
			TimeoutSeconds: 30,
		},
		Favorites: FavoritesConfig{
			Backend: "sqlite",
		},
		UI: UIConfig{
			TimeFormat:   "15:04",
			RelativeTime: true,
		},
		Log: LogConfig{
			Level: "info",
		},
		Update: UpdateConfig{
			CooldownSeconds: 5,
		},
	}
}

// DefaultPath returns ~/.feedbox/config.json.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".feedbox", "config.json")
}

// Load reads the config at path (DefaultPath when empty). A missing file
// yields defaults; so does a file that is not valid JSON. Environment
// overrides are applied last.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if jerr := json.Unmarshal(data, cfg); jerr != nil {
			cfg = DefaultConfig()
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg.path = path
	cfg.ApplyEnv()
	return cfg, nil
}

// ApplyEnv overrides fields from FEEDBOX_* environment variables.
func (c *Config) ApplyEnv() {
	if v := strings.TrimSpace(os.Getenv("FEEDBOX_API_URL")); v != "" {
		c.API.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("FEEDBOX_FAVORITES_BACKEND")); v != "" {
		c.Favorites.Backend = v
	}
	if v := strings.TrimSpace(os.Getenv("FEEDBOX_LOG_LEVEL")); v != "" {
		c.Log.Level = v
	}
	if v := strings.TrimSpace(os.Getenv("FEEDBOX_DATA_DIR")); v != "" {
		c.DataDir = v
	}
}

// Save writes the config back to the path it was loaded from.
func (c *Config) Save() error {
	path := c.path
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}

// ResolvedDataDir returns DataDir, defaulting to ~/.feedbox.
func (c *Config) ResolvedDataDir() string {
	if c.DataDir != "" {
		return c.DataDir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".feedbox")
}

// FavoritesPath returns the storage location for the configured backend.
func (c *Config) FavoritesPath() string {
	if c.Favorites.Path != "" {
		return c.Favorites.Path
	}
	dir := c.ResolvedDataDir()
	switch c.Favorites.Backend {
	case "bolt":
		return filepath.Join(dir, "favorites.bolt")
	case "file":
		return filepath.Join(dir, "favorites.json")
	case "memory":
		return ""
	default:
		return filepath.Join(dir, "feedbox.db")
	}
}

// Timeout returns the API client timeout.
func (c *Config) Timeout() time.Duration {
	if c.API.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}

// UpdateCooldown returns the minimum gap between update triggers.
func (c *Config) UpdateCooldown() time.Duration {
	if c.Update.CooldownSeconds <= 0 {
		return 0
	}
	return time.Duration(c.Update.CooldownSeconds) * time.Second
}

// EventLogPath returns the JSONL event log location.
func (c *Config) EventLogPath() string {
	return filepath.Join(c.ResolvedDataDir(), "events.jsonl")
}
