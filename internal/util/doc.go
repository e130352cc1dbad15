// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared by the view and config layers.
//
// String helpers measure text in terminal cells (via go-runewidth), so wide
// characters never overflow a palette row. ReplaceFile swaps the config file
// in with one rename, which the config watcher sees as a single event.
//
//	row := util.TruncateWidth(name, 20)
//	err := util.ReplaceFile(path, 0o644, func(w io.Writer) error { ... })
package util
