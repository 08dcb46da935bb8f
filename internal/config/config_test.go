// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Backend.BaseURL != "http://localhost:8000/api/v1" {
		t.Errorf("BaseURL = %q", cfg.Backend.BaseURL)
	}
	if cfg.Knowledge.PollSecs != 5 {
		t.Errorf("PollSecs = %d, want 5", cfg.Knowledge.PollSecs)
	}
	if cfg.Chat.DefaultFilter != "auto" {
		t.Errorf("DefaultFilter = %q, want 'auto'", cfg.Chat.DefaultFilter)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Backend.TimeoutSecs != 60 {
		t.Errorf("TimeoutSecs = %d, want 60", cfg.Backend.TimeoutSecs)
	}
}

func TestLoad_FileOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[backend]
base_url = "http://10.0.0.2:9000/api/v1"
timeout_secs = 30

[knowledge]
poll_secs = 2

[chat]
default_filter = "docs"
default_engine = "qdrant"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Backend.BaseURL != "http://10.0.0.2:9000/api/v1" {
		t.Errorf("BaseURL = %q", cfg.Backend.BaseURL)
	}
	if cfg.Timeout() != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", cfg.Timeout())
	}
	if cfg.PollInterval() != 2*time.Second {
		t.Errorf("PollInterval = %v, want 2s", cfg.PollInterval())
	}
	if cfg.Chat.DefaultEngine != "qdrant" {
		t.Errorf("DefaultEngine = %q", cfg.Chat.DefaultEngine)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("RAGDASH_BACKEND_URL", "http://env:8000/api/v1")
	t.Setenv("RAGDASH_POLL_SECS", "7")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Backend.BaseURL != "http://env:8000/api/v1" {
		t.Errorf("BaseURL = %q, env override not applied", cfg.Backend.BaseURL)
	}
	if cfg.Knowledge.PollSecs != 7 {
		t.Errorf("PollSecs = %d, want 7", cfg.Knowledge.PollSecs)
	}
}

func TestValidate_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad url", func(c *Config) { c.Backend.BaseURL = "not a url" }},
		{"bad filter", func(c *Config) { c.Chat.DefaultFilter = "hybrid" }},
		{"bad engine", func(c *Config) { c.Chat.DefaultEngine = "pinecone" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestValidate_ClampsOutOfRange(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Backend.TimeoutSecs = -1
	cfg.Knowledge.PollSecs = 0

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cfg.Backend.TimeoutSecs != 60 {
		t.Errorf("TimeoutSecs = %d, want clamped to 60", cfg.Backend.TimeoutSecs)
	}
	if cfg.Knowledge.PollSecs != 5 {
		t.Errorf("PollSecs = %d, want clamped to 5", cfg.Knowledge.PollSecs)
	}
}

// TestConfig_ConcurrentAccess verifies Global/SetGlobal are race-free.
// Run with: go test -race ./internal/config/
func TestConfig_ConcurrentAccess(t *testing.T) {
	ResetGlobalForTesting()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			SetGlobal(DefaultConfig())
		}()
		go func() {
			defer wg.Done()
			if Global() == nil {
				t.Error("Global() returned nil")
			}
		}()
	}
	wg.Wait()
}
