// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging builds the zap logger for the commander TUI.
//
// The TUI owns the terminal, so logs go to a rotating file (lumberjack) rather
// than stderr. The level can be changed while running.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// =============================================================================
// OPTIONS
// =============================================================================

// Options configure New.
type Options struct {
	// Level is debug, info, warn or error. Empty means info.
	Level string

	// File is the log file path. Empty disables logging.
	File string

	// Format is "json" or "console". Empty means json.
	Format string

	// Rotation settings passed to lumberjack
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// =============================================================================
// LOGGER
// =============================================================================

// Logger pairs a zap logger with its adjustable level and closer.
type Logger struct {
	*zap.Logger

	level  zap.AtomicLevel
	closer io.Closer
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{Logger: zap.NewNop(), level: zap.NewAtomicLevel()}
}

// New builds a file logger from opts. An empty File yields Nop.
func New(opts Options) (*Logger, error) {
	if strings.TrimSpace(opts.File) == "" {
		return Nop(), nil
	}

	lvl, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	rotator := &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
		MaxAge:     opts.MaxAgeDays,
		Compress:   opts.Compress,
	}

	return newWithWriter(zapcore.AddSync(rotator), rotator, lvl, opts.Format), nil
}

// NewWriter builds a logger writing to w. Used by tests and plain mode.
func NewWriter(w io.Writer, level, format string) (*Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return newWithWriter(zapcore.AddSync(w), nil, lvl, format), nil
}

func newWithWriter(ws zapcore.WriteSyncer, closer io.Closer, lvl zapcore.Level, format string) *Logger {
	atomic := zap.NewAtomicLevelAt(lvl)

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	var encoder zapcore.Encoder
	if strings.EqualFold(format, "console") {
		encoder = zapcore.NewConsoleEncoder(encoderCfg)
	} else {
		encoder = zapcore.NewJSONEncoder(encoderCfg)
	}

	core := zapcore.NewCore(encoder, ws, atomic)
	return &Logger{
		Logger: zap.New(core, zap.AddCaller()),
		level:  atomic,
		closer: closer,
	}
}

// SetLevel changes the level at runtime.
func (l *Logger) SetLevel(level string) error {
	lvl, err := ParseLevel(level)
	if err != nil {
		return err
	}
	l.level.SetLevel(lvl)
	return nil
}

// Level returns the current level.
func (l *Logger) Level() zapcore.Level {
	return l.level.Level()
}

// Close flushes buffered entries and closes the log file.
func (l *Logger) Close() error {
	_ = l.Logger.Sync()
	if l.closer != nil {
		return l.closer.Close()
	}
	return nil
}

// ParseLevel maps a config level name to a zap level. Empty means info.
func ParseLevel(level string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "", "info":
		return zap.InfoLevel, nil
	case "debug":
		return zap.DebugLevel, nil
	case "warn", "warning":
		return zap.WarnLevel, nil
	case "error":
		return zap.ErrorLevel, nil
	default:
		return zap.InfoLevel, fmt.Errorf("unknown log level %q", level)
	}
}
