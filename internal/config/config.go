// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for ragdash.
//
// Supports TOML configuration with sensible defaults and environment
// variable overrides.
//
// Configuration file locations (in order of precedence):
//   - path passed on the command line (--config)
//   - ~/.ragdash/config.toml
//   - Built-in defaults
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/YatinKande/aws-docs-rag-bot/internal/model"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete ragdash configuration.
type Config struct {
	// Backend connection
	Backend BackendConfig `toml:"backend"`

	// Chat defaults
	Chat ChatConfig `toml:"chat"`

	// Knowledge base / ingestion settings
	Knowledge KnowledgeConfig `toml:"knowledge"`

	// Logging settings
	Log LogConfig `toml:"log"`
}

// BackendConfig contains gateway connection settings.
type BackendConfig struct {
	// BaseURL is the backend API base, including the version prefix.
	BaseURL string `toml:"base_url"`
	// TimeoutSecs bounds a single request. A chat call that exceeds it
	// resolves as a failure instead of leaving the view pending forever.
	TimeoutSecs int `toml:"timeout_secs"`
	// MaxRetries is the retry budget for transient failures on idempotent
	// requests.
	MaxRetries int `toml:"max_retries"`
	// RequestsPerSec caps the client-side request rate (0 = unlimited).
	RequestsPerSec float64 `toml:"requests_per_sec"`
}

// ChatConfig contains conversation defaults.
type ChatConfig struct {
	// DefaultFilter is the retrieval-source filter at startup: auto, docs, api.
	DefaultFilter string `toml:"default_filter"`
	// DefaultEngine is the storage engine preselected for docs queries.
	DefaultEngine string `toml:"default_engine"`
}

// KnowledgeConfig contains ingestion-view settings.
type KnowledgeConfig struct {
	// PollSecs is the document-status poll interval.
	PollSecs int `toml:"poll_secs"`
	// DropDir, when set, is watched for new files; a file appearing there
	// becomes the current upload selection.
	DropDir string `toml:"drop_dir"`
}

// LogConfig contains file logging settings.
type LogConfig struct {
	// Path is the log file location (empty = ~/.ragdash/ragdash.log).
	Path string `toml:"path"`
	// Level is the minimum level written: debug, info, warn, error.
	Level string `toml:"level"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Backend: BackendConfig{
			BaseURL:        "http://localhost:8000/api/v1",
			TimeoutSecs:    60,
			MaxRetries:     3,
			RequestsPerSec: 10,
		},
		Chat: ChatConfig{
			DefaultFilter: string(model.FilterAuto),
			DefaultEngine: string(model.EngineFAISS),
		},
		Knowledge: KnowledgeConfig{
			PollSecs: 5,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// ConfigDir returns the ragdash configuration directory (~/.ragdash).
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".ragdash"
	}
	return filepath.Join(home, ".ragdash")
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// DefaultLogPath returns the default log file location.
func DefaultLogPath() string {
	return filepath.Join(ConfigDir(), "ragdash.log")
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads configuration from the given path, falling back to defaults
// when the file does not exist, then applies environment overrides and
// validates the result. An empty path means the default location.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = DefaultPath()
	}

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides applies RAGDASH_* environment variables on top of the
// file values.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("RAGDASH_BACKEND_URL"); v != "" {
		c.Backend.BaseURL = v
	}
	if v := os.Getenv("RAGDASH_TIMEOUT_SECS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Backend.TimeoutSecs = n
		}
	}
	if v := os.Getenv("RAGDASH_POLL_SECS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Knowledge.PollSecs = n
		}
	}
	if v := os.Getenv("RAGDASH_DROP_DIR"); v != "" {
		c.Knowledge.DropDir = v
	}
	if v := os.Getenv("RAGDASH_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// Validate checks the configuration and clamps out-of-range values where a
// sensible bound exists.
func (c *Config) Validate() error {
	if _, err := url.ParseRequestURI(c.Backend.BaseURL); err != nil {
		return fmt.Errorf("invalid backend base_url %q: %w", c.Backend.BaseURL, err)
	}

	if c.Backend.TimeoutSecs <= 0 {
		c.Backend.TimeoutSecs = 60
	}
	if c.Backend.MaxRetries < 0 {
		c.Backend.MaxRetries = 0
	}
	if c.Knowledge.PollSecs <= 0 {
		c.Knowledge.PollSecs = 5
	}

	switch model.SourceFilter(c.Chat.DefaultFilter) {
	case model.FilterAuto, model.FilterDocs, model.FilterAPI:
	default:
		return fmt.Errorf("invalid default_filter %q (want auto, docs, or api)", c.Chat.DefaultFilter)
	}

	valid := false
	for _, e := range model.Engines {
		if string(e) == c.Chat.DefaultEngine {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("invalid default_engine %q", c.Chat.DefaultEngine)
	}

	return nil
}

// Timeout returns the request timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Backend.TimeoutSecs) * time.Second
}

// PollInterval returns the document poll interval as a duration.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Knowledge.PollSecs) * time.Second
}

// LogPath returns the configured log path or the default.
func (c *Config) LogPath() string {
	if c.Log.Path != "" {
		return c.Log.Path
	}
	return DefaultLogPath()
}

// =============================================================================
// GLOBAL CONFIG
// =============================================================================

var (
	globalMu  sync.RWMutex
	globalCfg *Config
)

// Global returns the process-wide configuration, initializing it with
// defaults on first access.
func Global() *Config {
	globalMu.RLock()
	if globalCfg != nil {
		defer globalMu.RUnlock()
		return globalCfg
	}
	globalMu.RUnlock()

	globalMu.Lock()
	defer globalMu.Unlock()
	if globalCfg == nil {
		globalCfg = DefaultConfig()
	}
	return globalCfg
}

// SetGlobal replaces the process-wide configuration.
func SetGlobal(cfg *Config) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalCfg = cfg
}

// ResetGlobalForTesting clears the global config so each test starts clean.
func ResetGlobalForTesting() {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalCfg = nil
}
