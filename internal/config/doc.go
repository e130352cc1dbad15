// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config loads and saves the command palette configuration.
//
// # Configuration Precedence
//
// Settings are resolved in this order (highest first):
//   - Environment variables (COMMANDER_*)
//   - ~/.commander/config.toml (or $COMMANDER_HOME/config.toml)
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.LoadOrDefault("")
//	if err != nil {
//	    return err
//	}
//	policy := cfg.Policy()
//
// Values can be read and written by key, as the ":set" command does:
//
//	_ = cfg.Set("view.max_rows", "12")
//	v, _ := cfg.Get("commander.match_policy")
//
// Watcher reloads the file while the TUI runs and reports each attempt on
// its Events channel.
package config
