// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "testing"

func TestNewTheme(t *testing.T) {
	theme := NewTheme()
	if theme == nil {
		t.Fatal("NewTheme returned nil")
	}
}

func TestSourceBadgeSelection(t *testing.T) {
	theme := NewTheme()

	tests := []string{"docs", "api", "hybrid", "none", ""}
	for _, source := range tests {
		// Must return a usable style for every tag, known or not.
		style := theme.SourceBadge(source)
		_ = style.Render("badge")
	}
}

func TestStatusStyleSelection(t *testing.T) {
	theme := NewTheme()

	for _, s := range []string{"completed", "processing", "queued", "failed", "unknown"} {
		_ = theme.DocStatus(s).Render(s)
	}
	for _, s := range []string{"active", "invalid", "expired", "unknown"} {
		_ = theme.ConnStatus(s).Render(s)
	}
}
