// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
)

// =============================================================================
// JOB SPINNERS
// =============================================================================

// DefaultSpinner is used for unknown or empty names.
const DefaultSpinner = "line"

// SpinnerConfig is a named frame sequence for the running-jobs indicator.
type SpinnerConfig struct {
	Frames []string
	FPS    int
}

// spinners is keyed by the view.spinner config value. Frames are ASCII.
var spinners = map[string]SpinnerConfig{
	"line":     {Frames: []string{"|", "/", "-", "\\"}, FPS: 10},
	"dots":     {Frames: []string{".  ", ".. ", "...", " ..", "  .", "   "}, FPS: 6},
	"pulse":    {Frames: []string{"( )", "(.)", "(o)", "(O)", "(o)", "(.)"}, FPS: 8},
	"progress": {Frames: []string{"[    ]", "[=   ]", "[==  ]", "[=== ]", "[====]", "[ ===]", "[  ==]", "[   =]"}, FPS: 4},
}

// Interval is the time each frame stays on screen.
func (s SpinnerConfig) Interval() time.Duration {
	if s.FPS <= 0 {
		return time.Second
	}
	return time.Second / time.Duration(s.FPS)
}

// Spinner converts the config to a bubbles spinner.
func (s SpinnerConfig) Spinner() spinner.Spinner {
	return spinner.Spinner{Frames: s.Frames, FPS: s.Interval()}
}

// SpinnerByName looks name up case-insensitively, falling back to
// DefaultSpinner.
func SpinnerByName(name string) SpinnerConfig {
	if s, ok := spinners[strings.ToLower(name)]; ok {
		return s
	}
	return spinners[DefaultSpinner]
}

// SpinnerNames lists the accepted view.spinner values, sorted.
func SpinnerNames() []string {
	names := make([]string, 0, len(spinners))
	for name := range spinners {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
