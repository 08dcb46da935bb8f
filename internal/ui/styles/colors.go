// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the ragdash TUI.
// All colors use Lip Gloss AdaptiveColor for automatic light/dark detection.
package styles

import "github.com/charmbracelet/lipgloss"

// =============================================================================
// PRIMARY ACCENT COLORS
// =============================================================================

// Indigo - Primary brand accent, selected tabs, user highlights
var Indigo = lipgloss.AdaptiveColor{Light: "#4F46E5", Dark: "#818CF8"}

// Cyan - Info, assistant accents
var Cyan = lipgloss.AdaptiveColor{Light: "#0891B2", Dark: "#22D3EE"}

// Emerald - Success states, active connections, completed ingestion
var Emerald = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#34D399"}

// =============================================================================
// SEMANTIC COLORS
// =============================================================================

// Rose - Errors, failed ingestion, invalid credentials
var Rose = lipgloss.AdaptiveColor{Light: "#E11D48", Dark: "#FB7185"}

// Amber - Warnings, processing states, live-API provenance
var Amber = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#FBBF24"}

// Blue - Document provenance badges
var Blue = lipgloss.AdaptiveColor{Light: "#2563EB", Dark: "#60A5FA"}

// Purple - Hybrid provenance badges
var Purple = lipgloss.AdaptiveColor{Light: "#7C3AED", Dark: "#A78BFA"}

// =============================================================================
// SURFACE COLORS
// =============================================================================

// Surface - Main background
var Surface = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#1E1E2E"}

// SurfaceDim - Slightly darker/lighter surface for headers and footers
var SurfaceDim = lipgloss.AdaptiveColor{Light: "#F5F5F5", Dark: "#181825"}

// =============================================================================
// TEXT COLORS
// =============================================================================

// Text - Primary text
var Text = lipgloss.AdaptiveColor{Light: "#1E293B", Dark: "#CDD6F4"}

// TextDim - Secondary text
var TextDim = lipgloss.AdaptiveColor{Light: "#64748B", Dark: "#9399B2"}

// TextMuted - Tertiary text, timestamps, hints
var TextMuted = lipgloss.AdaptiveColor{Light: "#94A3B8", Dark: "#6C7086"}

// Border - Panel and table borders
var Border = lipgloss.AdaptiveColor{Light: "#E2E8F0", Dark: "#313244"}
