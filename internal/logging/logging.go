// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging provides the file-backed structured logger for ragdash.
//
// The TUI owns stdout and stderr, so all diagnostics go to a rotating JSON
// log file. This is where the "log and keep the last-known-good list" failure
// paths report: poll failures, credential-list load failures, and anything
// else the user is deliberately not shown.
package logging

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// =============================================================================
// LOGGER CONSTRUCTION
// =============================================================================

// New creates a file-only logger writing rotated JSON lines to path.
// Nothing is ever written to stdout; that belongs to the renderer.
func New(path, level string) *zap.Logger {
	rotator := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     14, // days
		Compress:   true,
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(rotator),
		parseLevel(level),
	)

	return zap.New(core, zap.AddCaller())
}

// parseLevel maps a config level string to a zap level, defaulting to info.
func parseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zap.DebugLevel
	case "warn":
		return zap.WarnLevel
	case "error":
		return zap.ErrorLevel
	default:
		return zap.InfoLevel
	}
}

// =============================================================================
// GLOBAL LOGGER
// =============================================================================

var (
	globalMu sync.RWMutex
	global   = zap.NewNop()
)

// Init installs the process-wide logger. Called once from main; until then
// (and in tests) the global logger is a no-op.
func Init(path, level string) *zap.Logger {
	l := New(path, level)
	SetGlobal(l)
	return l
}

// SetGlobal replaces the process-wide logger.
func SetGlobal(l *zap.Logger) {
	globalMu.Lock()
	defer globalMu.Unlock()
	global = l
}

// L returns the process-wide logger.
func L() *zap.Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return global
}
