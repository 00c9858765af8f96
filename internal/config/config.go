// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for lawchat.
//
// Configuration lives in TOML with sensible defaults, environment
// variable overrides, and validation.
//
// Locations (in order of precedence):
//   - LAWCHAT_* environment variables
//   - ~/.lawchat/config.toml
//   - Built-in defaults
package config

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/lawchat-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete lawchat configuration.
type Config struct {
	Version string `toml:"version"`

	// Backend configuration
	Backend BackendConfig `toml:"backend"`

	// UI configuration
	UI UIConfig `toml:"ui"`

	// Log configuration
	Log LogConfig `toml:"log"`

	// Mirror (local durability) configuration
	Mirror MirrorConfig `toml:"mirror"`
}

// BackendConfig points the client at the LawGPT backend.
type BackendConfig struct {
	// URL is the backend base URL
	URL string `toml:"url"`
	// TimeoutSecs bounds persistence requests
	TimeoutSecs int `toml:"timeout_secs"`
	// ChatTimeoutSecs bounds completion requests, which run a model
	ChatTimeoutSecs int `toml:"chat_timeout_secs"`
	// ChatIntervalMS is the minimum spacing between completion calls
	ChatIntervalMS int `toml:"chat_interval_ms"`
}

// UIConfig contains renderer preferences.
type UIConfig struct {
	// Theme is "dark" or "light"
	Theme string `toml:"theme"`
	// SidebarWidth in columns
	SidebarWidth int `toml:"sidebar_width"`
	// LawRail toggles the related-law side panel
	LawRail bool `toml:"law_rail"`
	// Markdown renders assistant answers through glamour
	Markdown bool `toml:"markdown"`
}

// LogConfig controls the zerolog sink.
type LogConfig struct {
	// Level is one of trace, debug, info, warn, error
	Level string `toml:"level"`
	// Path overrides the default log file location (empty = default)
	Path string `toml:"path"`
}

// MirrorConfig controls the local durable mirror.
type MirrorConfig struct {
	// Enabled toggles mirroring entirely
	Enabled bool `toml:"enabled"`
	// Path overrides the default mirror database location (empty = default)
	Path string `toml:"path"`
}

// =============================================================================
// DEFAULTS AND PATHS
// =============================================================================

// Default returns the built-in default configuration.
func Default() *Config {
	return &Config{
		Version: "1",
		Backend: BackendConfig{
			URL:             "http://127.0.0.1:5000",
			TimeoutSecs:     15,
			ChatTimeoutSecs: 120,
			ChatIntervalMS:  1000,
		},
		UI: UIConfig{
			Theme:        "dark",
			SidebarWidth: 32,
			LawRail:      true,
			Markdown:     true,
		},
		Log: LogConfig{
			Level: "info",
		},
		Mirror: MirrorConfig{
			Enabled: true,
		},
	}
}

// ConfigDir returns the lawchat configuration directory (~/.lawchat).
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".lawchat"), nil
}

// EnsureConfigDir creates the configuration directory if needed.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0700)
}

// ConfigPath returns the TOML config file path.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// LogPath returns the effective log file path.
func (c *Config) LogPath() (string, error) {
	if c.Log.Path != "" {
		return c.Log.Path, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "lawchat.log"), nil
}

// MirrorPath returns the effective mirror database path.
func (c *Config) MirrorPath() (string, error) {
	if c.Mirror.Path != "" {
		return c.Mirror.Path, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "mirror.db"), nil
}

// =============================================================================
// LOADING AND SAVING
// =============================================================================

// Load reads the config file, fills defaults, applies env overrides, and
// validates. A missing file yields the defaults.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath loads configuration from a specific file path.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// Defaults only.
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.fillDefaults()
	cfg.ApplyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration atomically to the default path.
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveToPath(cfg, path)
}

// SaveToPath writes the configuration atomically to a specific path.
func SaveToPath(cfg *Config, path string) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return util.AtomicWriteFile(path, buf.Bytes(), 0600)
}

// fillDefaults replaces zero values with defaults so a sparse config
// file still yields a complete configuration.
func (c *Config) fillDefaults() {
	def := Default()
	if c.Version == "" {
		c.Version = def.Version
	}
	if c.Backend.URL == "" {
		c.Backend.URL = def.Backend.URL
	}
	if c.Backend.TimeoutSecs <= 0 {
		c.Backend.TimeoutSecs = def.Backend.TimeoutSecs
	}
	if c.Backend.ChatTimeoutSecs <= 0 {
		c.Backend.ChatTimeoutSecs = def.Backend.ChatTimeoutSecs
	}
	if c.Backend.ChatIntervalMS <= 0 {
		c.Backend.ChatIntervalMS = def.Backend.ChatIntervalMS
	}
	if c.UI.Theme == "" {
		c.UI.Theme = def.UI.Theme
	}
	if c.UI.SidebarWidth <= 0 {
		c.UI.SidebarWidth = def.UI.SidebarWidth
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies LAWCHAT_* environment variables on top of
// the loaded configuration.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("LAWCHAT_BACKEND_URL"); v != "" {
		c.Backend.URL = v
	}
	if v := os.Getenv("LAWCHAT_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("LAWCHAT_THEME"); v != "" {
		c.UI.Theme = v
	}
	if v := os.Getenv("LAWCHAT_MIRROR"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Mirror.Enabled = b
		}
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError describes one invalid configuration field.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return "config: " + e.Field + ": " + e.Message
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if u, err := url.Parse(c.Backend.URL); err != nil || u.Scheme == "" || u.Host == "" {
		return ValidationError{Field: "backend.url", Message: "must be an absolute http(s) URL"}
	}
	switch c.UI.Theme {
	case "dark", "light":
	default:
		return ValidationError{Field: "ui.theme", Message: "must be \"dark\" or \"light\""}
	}
	switch c.Log.Level {
	case "trace", "debug", "info", "warn", "error":
	default:
		return ValidationError{Field: "log.level", Message: "must be one of trace, debug, info, warn, error"}
	}
	return nil
}

// =============================================================================
// KEYED ACCESS (config get/set)
// =============================================================================

// Keys lists the settable configuration keys.
func Keys() []string {
	return []string{
		"backend.url",
		"backend.timeout_secs",
		"backend.chat_timeout_secs",
		"backend.chat_interval_ms",
		"ui.theme",
		"ui.sidebar_width",
		"ui.law_rail",
		"ui.markdown",
		"log.level",
		"log.path",
		"mirror.enabled",
		"mirror.path",
	}
}

// Get returns the value of a dotted key as a string.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "backend.url":
		return c.Backend.URL, nil
	case "backend.timeout_secs":
		return strconv.Itoa(c.Backend.TimeoutSecs), nil
	case "backend.chat_timeout_secs":
		return strconv.Itoa(c.Backend.ChatTimeoutSecs), nil
	case "backend.chat_interval_ms":
		return strconv.Itoa(c.Backend.ChatIntervalMS), nil
	case "ui.theme":
		return c.UI.Theme, nil
	case "ui.sidebar_width":
		return strconv.Itoa(c.UI.SidebarWidth), nil
	case "ui.law_rail":
		return strconv.FormatBool(c.UI.LawRail), nil
	case "ui.markdown":
		return strconv.FormatBool(c.UI.Markdown), nil
	case "log.level":
		return c.Log.Level, nil
	case "log.path":
		return c.Log.Path, nil
	case "mirror.enabled":
		return strconv.FormatBool(c.Mirror.Enabled), nil
	case "mirror.path":
		return c.Mirror.Path, nil
	default:
		return "", fmt.Errorf("unknown config key: %s", key)
	}
}

// Set assigns a dotted key from a string value and re-validates.
func (c *Config) Set(key, value string) error {
	parseInt := func() (int, error) {
		n, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("%s: expected an integer, got %q", key, value)
		}
		return n, nil
	}
	parseBool := func() (bool, error) {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return false, fmt.Errorf("%s: expected a boolean, got %q", key, value)
		}
		return b, nil
	}

	switch key {
	case "backend.url":
		c.Backend.URL = value
	case "backend.timeout_secs":
		n, err := parseInt()
		if err != nil {
			return err
		}
		c.Backend.TimeoutSecs = n
	case "backend.chat_timeout_secs":
		n, err := parseInt()
		if err != nil {
			return err
		}
		c.Backend.ChatTimeoutSecs = n
	case "backend.chat_interval_ms":
		n, err := parseInt()
		if err != nil {
			return err
		}
		c.Backend.ChatIntervalMS = n
	case "ui.theme":
		c.UI.Theme = strings.ToLower(value)
	case "ui.sidebar_width":
		n, err := parseInt()
		if err != nil {
			return err
		}
		c.UI.SidebarWidth = n
	case "ui.law_rail":
		b, err := parseBool()
		if err != nil {
			return err
		}
		c.UI.LawRail = b
	case "ui.markdown":
		b, err := parseBool()
		if err != nil {
			return err
		}
		c.UI.Markdown = b
	case "log.level":
		c.Log.Level = strings.ToLower(value)
	case "log.path":
		c.Log.Path = value
	case "mirror.enabled":
		b, err := parseBool()
		if err != nil {
			return err
		}
		c.Mirror.Enabled = b
	case "mirror.path":
		c.Mirror.Path = value
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}

	return c.Validate()
}

// =============================================================================
// GLOBAL SINGLETON
// =============================================================================

var (
	globalMu     sync.RWMutex
	globalConfig *Config
)

// Global returns the process-wide configuration, loading it on first use.
// Load failures fall back to defaults so the client always starts.
func Global() *Config {
	globalMu.RLock()
	if globalConfig != nil {
		defer globalMu.RUnlock()
		return globalConfig
	}
	globalMu.RUnlock()

	globalMu.Lock()
	defer globalMu.Unlock()
	if globalConfig == nil {
		cfg, err := Load()
		if err != nil {
			cfg = Default()
		}
		globalConfig = cfg
	}
	return globalConfig
}

// SetGlobal replaces the process-wide configuration.
func SetGlobal(cfg *Config) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting clears the singleton so tests can reload.
func ResetGlobalForTesting() {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalConfig = nil
}
