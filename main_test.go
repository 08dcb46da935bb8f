// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"testing"

	"github.com/YatinKande/aws-docs-rag-bot/internal/config"
)

func TestApplyBackendOverride(t *testing.T) {
	cfg := config.DefaultConfig()
	if err := applyBackendOverride(cfg, "http://10.0.0.5:8000/"); err != nil {
		t.Fatalf("override rejected: %v", err)
	}
	if cfg.Backend.BaseURL != "http://10.0.0.5:8000" {
		t.Errorf("base URL = %q, want trailing slash trimmed", cfg.Backend.BaseURL)
	}
}

func TestApplyBackendOverrideEmptyKeepsConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	want := cfg.Backend.BaseURL
	if err := applyBackendOverride(cfg, ""); err != nil {
		t.Fatalf("empty override should be a no-op: %v", err)
	}
	if cfg.Backend.BaseURL != want {
		t.Errorf("base URL = %q, want %q", cfg.Backend.BaseURL, want)
	}
}

func TestApplyBackendOverrideRejectsMalformedURL(t *testing.T) {
	cfg := config.DefaultConfig()
	if err := applyBackendOverride(cfg, "not a url"); err == nil {
		t.Error("malformed override should fail validation")
	}
}
