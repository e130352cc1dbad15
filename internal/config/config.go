// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/commander-tui/internal/commands"
	"github.com/jeranaias/commander-tui/internal/logging"
	"github.com/jeranaias/commander-tui/internal/match"
	"github.com/jeranaias/commander-tui/internal/ui/styles"
	"github.com/jeranaias/commander-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete commander configuration.
type Config struct {
	// Commander controls matching and execution
	Commander CommanderConfig `toml:"commander"`

	// View controls how the palette is drawn
	View ViewConfig `toml:"view"`

	// Log controls the log file
	Log LogConfig `toml:"log"`
}

// CommanderConfig contains registry and session settings.
type CommanderConfig struct {
	// CaseSensitive matches command names case-sensitively
	CaseSensitive bool `toml:"case_sensitive"`
	// MatchPolicy is "prefix" or "fuzzy"
	MatchPolicy string `toml:"match_policy"`
	// PrefixBoost ranks names starting with the token higher (fuzzy only)
	PrefixBoost bool `toml:"prefix_boost"`
	// ExactMatch requires an exact name or an explicit selection to execute
	ExactMatch bool `toml:"exact_match"`
	// CloseOnSuccess closes the palette after a successful command
	CloseOnSuccess bool `toml:"close_on_success"`
	// Tokenizer is "fields" or "shell"
	Tokenizer string `toml:"tokenizer"`
	// HistorySize is the number of executed lines kept for this session
	HistorySize int `toml:"history_size"`
}

// ViewConfig contains palette rendering settings.
type ViewConfig struct {
	// MaxRows caps the suggestion list (0 = no cap)
	MaxRows int `toml:"max_rows"`
	// InputOnTop draws the input line above the suggestions
	InputOnTop bool `toml:"input_on_top"`
	// HighlightSymbol marks the selected suggestion
	HighlightSymbol string `toml:"highlight_symbol"`
	// Prompt is drawn before the input
	Prompt string `toml:"prompt"`
	// ShowHint shows the key hint line
	ShowHint bool `toml:"show_hint"`
	// Border draws a box around the palette
	Border bool `toml:"border"`
	// Theme is "auto", "dark" or "light"
	Theme string `toml:"theme"`
	// Spinner names the job spinner: dots, line, progress, pulse
	Spinner string `toml:"spinner"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is debug, info, warn or error
	Level string `toml:"level"`
	// File is the log path (empty = ~/.commander/commander.log, "-" = off)
	File string `toml:"file"`
	// Format is json or console
	Format string `toml:"format"`
	// MaxSizeMB rotates the file after this size
	MaxSizeMB int `toml:"max_size_mb"`
	// MaxBackups is the number of rotated files kept
	MaxBackups int `toml:"max_backups"`
	// MaxAgeDays removes rotated files older than this
	MaxAgeDays int `toml:"max_age_days"`
	// Compress gzips rotated files
	Compress bool `toml:"compress"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Commander: CommanderConfig{
			CaseSensitive:  false,
			MatchPolicy:    match.PolicyPrefix.String(),
			PrefixBoost:    true,
			ExactMatch:     false,
			CloseOnSuccess: true,
			Tokenizer:      "fields",
			HistorySize:    commands.DefaultHistorySize,
		},
		View: ViewConfig{
			MaxRows:         8,
			InputOnTop:      false,
			HighlightSymbol: "> ",
			Prompt:          ":",
			ShowHint:        true,
			Border:          true,
			Theme:           styles.ModeAuto.String(),
			Spinner:         "line",
		},
		Log: LogConfig{
			Level:      "info",
			Format:     "json",
			MaxSizeMB:  20,
			MaxBackups: 5,
			MaxAgeDays: 14,
			Compress:   true,
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// HomeEnv overrides the configuration directory.
const HomeEnv = "COMMANDER_HOME"

// ConfigDir returns the commander configuration directory path.
func ConfigDir() (string, error) {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".commander"), nil
}

// ConfigPath returns the path to the TOML config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// =============================================================================
// LOAD / SAVE
// =============================================================================

// Load reads path over the defaults, applies environment overrides and
// validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}

	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault is Load, except that a missing file yields the defaults.
// An empty path means ConfigPath().
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		p, err := ConfigPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		cfg := Default()
		cfg.ApplyEnvOverrides()
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid config: %w", err)
		}
		return cfg, nil
	}
	return Load(path)
}

// Save writes cfg to path as TOML, atomically.
func Save(path string, cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("refusing to save invalid config: %w", err)
	}

	err := util.ReplaceFile(path, 0o644, func(w io.Writer) error {
		io.WriteString(w, "# commander configuration file\n")
		io.WriteString(w, "# Reloaded automatically while the TUI is running\n\n")
		if err := toml.NewEncoder(w).Encode(cfg); err != nil {
			return fmt.Errorf("failed to encode config: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies COMMANDER_* environment variables.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("COMMANDER_MATCH"); v != "" {
		c.Commander.MatchPolicy = v
	}
	if v := os.Getenv("COMMANDER_THEME"); v != "" {
		c.View.Theme = v
	}
	if v := os.Getenv("COMMANDER_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("COMMANDER_LOG_FILE"); v != "" {
		c.Log.File = v
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if _, err := match.ParsePolicy(c.Commander.MatchPolicy); err != nil {
		errs = append(errs, ValidationError{Field: "commander.match_policy", Message: err.Error()})
	}
	if _, ok := commands.TokenizerByName(c.Commander.Tokenizer); !ok {
		errs = append(errs, ValidationError{
			Field:   "commander.tokenizer",
			Message: fmt.Sprintf("invalid tokenizer '%s', must be one of: fields, shell", c.Commander.Tokenizer),
		})
	}
	if c.Commander.HistorySize < 0 || c.Commander.HistorySize > 10000 {
		errs = append(errs, ValidationError{Field: "commander.history_size", Message: "must be between 0 and 10000"})
	}

	if c.View.MaxRows < 0 || c.View.MaxRows > 100 {
		errs = append(errs, ValidationError{Field: "view.max_rows", Message: "must be between 0 and 100"})
	}
	if _, err := styles.ParseMode(c.View.Theme); err != nil {
		errs = append(errs, ValidationError{Field: "view.theme", Message: err.Error()})
	}
	if sp := strings.ToLower(c.View.Spinner); sp != "" && !slices.Contains(styles.SpinnerNames(), sp) {
		errs = append(errs, ValidationError{
			Field:   "view.spinner",
			Message: fmt.Sprintf("invalid spinner '%s', must be one of: %s", c.View.Spinner, strings.Join(styles.SpinnerNames(), ", ")),
		})
	}

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, ValidationError{Field: "log.level", Message: err.Error()})
	}
	if f := strings.ToLower(c.Log.Format); f != "" && f != "json" && f != "console" {
		errs = append(errs, ValidationError{
			Field:   "log.format",
			Message: fmt.Sprintf("invalid format '%s', must be one of: json, console", c.Log.Format),
		})
	}
	if c.Log.MaxSizeMB < 0 || c.Log.MaxBackups < 0 || c.Log.MaxAgeDays < 0 {
		errs = append(errs, ValidationError{Field: "log", Message: "rotation settings must not be negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// DERIVED SETTINGS
// =============================================================================

// Policy returns the parsed match policy. Call after Validate.
func (c *Config) Policy() match.Policy {
	p, _ := match.ParsePolicy(c.Commander.MatchPolicy)
	return p
}

// Tokenizer returns the configured tokenizer. Call after Validate.
func (c *Config) Tokenizer() commands.Tokenizer {
	t, ok := commands.TokenizerByName(c.Commander.Tokenizer)
	if !ok {
		return commands.Fields
	}
	return t
}

// ThemeMode returns the parsed theme mode. Call after Validate.
func (c *Config) ThemeMode() styles.Mode {
	m, _ := styles.ParseMode(c.View.Theme)
	return m
}

// LogOptions resolves the log settings into logging.Options.
// File "-" disables logging; an empty file uses the config directory.
func (c *Config) LogOptions() logging.Options {
	file := c.Log.File
	switch file {
	case "-":
		file = ""
	case "":
		if dir, err := ConfigDir(); err == nil {
			file = filepath.Join(dir, "commander.log")
		}
	}
	return logging.Options{
		Level:      c.Log.Level,
		File:       file,
		Format:     c.Log.Format,
		MaxSizeMB:  c.Log.MaxSizeMB,
		MaxBackups: c.Log.MaxBackups,
		MaxAgeDays: c.Log.MaxAgeDays,
		Compress:   c.Log.Compress,
	}
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a value by its TOML key path (e.g., "view.max_rows").
func (c *Config) Get(key string) (any, error) {
	field, err := c.lookup(key)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// Set parses value for the field at key and stores it. The config is
// validated afterwards and the change is undone if it is invalid.
func (c *Config) Set(key, value string) error {
	field, err := c.lookup(key)
	if err != nil {
		return err
	}

	old := reflect.New(field.Type()).Elem()
	old.Set(field)

	if err := setFieldValue(field, value); err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	if err := c.Validate(); err != nil {
		field.Set(old)
		return err
	}
	return nil
}

// lookup walks TOML tags to the addressed leaf field.
func (c *Config) lookup(key string) (reflect.Value, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(key)), ".")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return reflect.Value{}, fmt.Errorf("invalid key %q (want section.name)", key)
	}

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		field, ok := fieldByTag(v, part)
		if !ok {
			return reflect.Value{}, fmt.Errorf("unknown key: %s", strings.Join(parts[:i+1], "."))
		}
		v = field
	}
	if v.Kind() == reflect.Struct {
		return reflect.Value{}, fmt.Errorf("key %q is a section", key)
	}
	return v, nil
}

func fieldByTag(v reflect.Value, tag string) (reflect.Value, bool) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		if t.Field(i).Tag.Get("toml") == tag {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}

func setFieldValue(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("expected true or false, got %q", value)
		}
		field.SetBool(b)
	case reflect.Int:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("expected an integer, got %q", value)
		}
		field.SetInt(int64(n))
	default:
		return fmt.Errorf("unsupported field type %s", field.Kind())
	}
	return nil
}

// Keys returns every settable key, sorted.
func Keys() []string {
	var keys []string
	t := reflect.TypeOf(Config{})
	for i := 0; i < t.NumField(); i++ {
		section := t.Field(i)
		st := section.Type
		for j := 0; j < st.NumField(); j++ {
			keys = append(keys, section.Tag.Get("toml")+"."+st.Field(j).Tag.Get("toml"))
		}
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a copy of the config.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// String renders the config as TOML.
func (c *Config) String() string {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Sprintf("<config: %v>", err)
	}
	return buf.String()
}
