// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"strings"
	"unicode"

	"github.com/mattn/go-shellwords"
)

// =============================================================================
// TOKENIZERS
// =============================================================================

// Tokenizer splits the argument portion of the input into tokens.
// It must be deterministic and must not fail: input that cannot be
// tokenized strictly (an unclosed quote while the user is still typing)
// still has to produce something.
type Tokenizer func(input string) []string

// Fields splits on runs of whitespace.
func Fields(input string) []string {
	return strings.Fields(input)
}

// ShellWords splits like a POSIX shell, honouring single quotes, double
// quotes and backslash escapes. Environment variables and backticks are not
// expanded. Input with unbalanced quotes falls back to Fields.
func ShellWords(input string) []string {
	p := shellwords.NewParser()
	p.ParseEnv = false
	p.ParseBacktick = false

	words, err := p.Parse(input)
	if err != nil {
		return Fields(input)
	}
	return words
}

// TokenizerByName returns the tokenizer for a config value: "fields"
// (default) or "shell".
func TokenizerByName(name string) (Tokenizer, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "fields", "whitespace":
		return Fields, true
	case "shell", "shellwords":
		return ShellWords, true
	default:
		return nil, false
	}
}

// =============================================================================
// COMMAND LINE SPLITTING
// =============================================================================

// splitCommand splits input at the first run of whitespace into the command
// token and the raw remainder. Leading whitespace is ignored.
// e.g., "  ech hello world" -> ("ech", "hello world")
func splitCommand(input string) (token, rest string) {
	input = strings.TrimLeftFunc(input, unicode.IsSpace)
	end := strings.IndexFunc(input, unicode.IsSpace)
	if end == -1 {
		return input, ""
	}
	return input[:end], strings.TrimLeftFunc(input[end:], unicode.IsSpace)
}
