// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes chat transcripts to disk in Markdown or JSON.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/YatinKande/aws-docs-rag-bot/internal/config"
	"github.com/YatinKande/aws-docs-rag-bot/internal/model"
)

// =============================================================================
// EXPORT INTERFACE
// =============================================================================

// Format selects the transcript output format.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

// Exporter converts a conversation to an output format.
type Exporter interface {
	// Export renders the transcript to the target format.
	Export(conv *model.Conversation) ([]byte, error)

	// FileExtension returns the output extension including the dot.
	FileExtension() string
}

// Options configures export behavior.
type Options struct {
	// OutputDir is where transcript files are written.
	// Default: <config dir>/exports.
	OutputDir string

	// IncludeTimestamps includes per-turn timestamps.
	IncludeTimestamps bool
}

// DefaultOptions returns the default export options.
func DefaultOptions() *Options {
	return &Options{
		OutputDir:         filepath.Join(config.ConfigDir(), "exports"),
		IncludeTimestamps: true,
	}
}

// =============================================================================
// EXPORT FUNCTIONS
// =============================================================================

// Transcript writes the conversation in the given format using default
// options and returns the output path.
func Transcript(conv *model.Conversation, format Format) (string, error) {
	var exporter Exporter
	switch format {
	case FormatJSON:
		exporter = NewJSONExporter(nil)
	default:
		exporter = NewMarkdownExporter(nil)
	}
	return ToFile(conv, exporter, nil)
}

// ToFile exports a conversation to a file and returns the output path.
func ToFile(conv *model.Conversation, exporter Exporter, opts *Options) (string, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	content, err := exporter.Export(conv)
	if err != nil {
		return "", fmt.Errorf("export failed: %w", err)
	}

	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("transcript_%s%s", timestamp, exporter.FileExtension())

	outputPath := filepath.Join(opts.OutputDir, filename)
	if err := os.WriteFile(outputPath, content, 0o644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}

	return outputPath, nil
}
