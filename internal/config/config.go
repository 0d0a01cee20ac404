package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Store drivers
const (
	DriverSQLite = "sqlite"
	DriverBadger = "badger"
	DriverMemory = "memory"
)

// Environment overrides
const (
	EnvHome       = "SHIFTLOG_HOME"
	EnvStore      = "SHIFTLOG_STORE"
	EnvDebounceMS = "SHIFTLOG_DEBOUNCE_MS"
	EnvLogLevel   = "SHIFTLOG_LOG_LEVEL"
)

// FileName is the config file inside the home directory.
const FileName = "config.yaml"

// Config represents the shiftlog configuration.
type Config struct {
	Home          string      `yaml:"-"`
	Store         StoreConfig `yaml:"store"`
	Keys          KeyConfig   `yaml:"keys"`
	Backups       int         `yaml:"backups"`     // ring capacity
	DebounceMS    int         `yaml:"debounce_ms"` // persist window
	DictionaryCap int         `yaml:"dictionary_cap"`
	LogLevel      string      `yaml:"log_level"`
}

// StoreConfig selects the key-value backend.
type StoreConfig struct {
	Driver string `yaml:"driver"`         // sqlite, badger or memory
	Path   string `yaml:"path,omitempty"` // relative paths resolve against Home
}

// KeyConfig names the storage keys.
type KeyConfig struct {
	Data     string `yaml:"data"`
	Settings string `yaml:"settings"`
	Backups  string `yaml:"backups"`
}

// Default returns the configuration used when no file exists.
func Default(home string) *Config {
	return &Config{
		Home:  home,
		Store: StoreConfig{Driver: DriverSQLite},
		Keys: KeyConfig{
			Data:     "shift_manager_data_v2",
			Settings: "shift_manager_settings_v2",
			Backups:  "shift_manager_backups_v1",
		},
		Backups:       5,
		DebounceMS:    150,
		DictionaryCap: 200,
		LogLevel:      "warn",
	}
}

// DefaultHome returns $SHIFTLOG_HOME, or ~/.shiftlog.
func DefaultHome() (string, error) {
	if home := os.Getenv(EnvHome); home != "" {
		return home, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".shiftlog"), nil
}

// LoadConfig reads config.yaml from dir, fills unset fields with defaults,
// and applies environment overrides. A missing file is not an error.
func LoadConfig(dir string) (*Config, error) {
	cfg := Default(dir)

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		var file Config
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
		cfg.merge(&file)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveConfig writes config.yaml to dir.
func SaveConfig(dir string, cfg *Config) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

func (c *Config) merge(f *Config) {
	if f.Store.Driver != "" {
		c.Store.Driver = f.Store.Driver
	}
	if f.Store.Path != "" {
		c.Store.Path = f.Store.Path
	}
	if f.Keys.Data != "" {
		c.Keys.Data = f.Keys.Data
	}
	if f.Keys.Settings != "" {
		c.Keys.Settings = f.Keys.Settings
	}
	if f.Keys.Backups != "" {
		c.Keys.Backups = f.Keys.Backups
	}
	if f.Backups > 0 {
		c.Backups = f.Backups
	}
	if f.DebounceMS > 0 {
		c.DebounceMS = f.DebounceMS
	}
	if f.DictionaryCap > 0 {
		c.DictionaryCap = f.DictionaryCap
	}
	if f.LogLevel != "" {
		c.LogLevel = f.LogLevel
	}
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvStore); v != "" {
		c.Store.Driver = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvDebounceMS); v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil || ms <= 0 {
			return fmt.Errorf("invalid %s %q: must be a positive integer", EnvDebounceMS, v)
		}
		c.DebounceMS = ms
	}
	return nil
}

// Validate checks the driver and key names.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverSQLite, DriverBadger, DriverMemory:
	default:
		return fmt.Errorf("unknown store driver %q (want sqlite, badger or memory)", c.Store.Driver)
	}
	keys := map[string]bool{}
	for _, k := range []string{c.Keys.Data, c.Keys.Settings, c.Keys.Backups} {
		if strings.TrimSpace(k) == "" {
			return fmt.Errorf("storage keys must not be empty")
		}
		if keys[k] {
			return fmt.Errorf("storage key %q is used twice", k)
		}
		keys[k] = true
	}
	return nil
}

// StorePath resolves the store location. Empty means the driver default
// inside Home.
func (c *Config) StorePath() string {
	p := c.Store.Path
	if p == "" {
		switch c.Store.Driver {
		case DriverBadger:
			p = "badger"
		default:
			p = "shiftlog.db"
		}
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Home, p)
}

// DebounceWindow returns the persist window as a duration.
func (c *Config) DebounceWindow() time.Duration {
	return time.Duration(c.DebounceMS) * time.Millisecond
}
