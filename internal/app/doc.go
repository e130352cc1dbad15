// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package app is the demo host for the command line.
//
// Model is a bubbletea program with an output pane, a status bar and a
// palette.Bar. Commands receive a *Session: they print through it, queue
// background work with Defer and ask to exit with Quit. The model drains the
// session after every ExecutedMsg.
//
// Builtins returns the stock commands (quit, echo, set, get, write, count,
// sleep, jobs, theme, help, history, clear).
package app
