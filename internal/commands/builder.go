// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"errors"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/jeranaias/commander-tui/internal/match"
)

// =============================================================================
// BUILDER
// =============================================================================

// Builder collects commands and settings for a Commander.
//
// Defaults: case-sensitive names, prefix matching, whitespace tokenizer,
// close on successful execute, best-match resolution, DefaultHistorySize.
type Builder[Ctx any] struct {
	entries        []Entry[Ctx]
	caseSensitive  bool
	policy         match.Policy
	prefixBoost    bool
	matcher        match.Matcher
	tokenizer      Tokenizer
	closeOnSuccess bool
	exactMatch     bool
	historySize    int
	logger         *zap.Logger
}

// NewBuilder creates a builder with default settings.
func NewBuilder[Ctx any]() *Builder[Ctx] {
	return &Builder[Ctx]{
		caseSensitive:  true,
		policy:         match.PolicyPrefix,
		prefixBoost:    true,
		tokenizer:      Fields,
		closeOnSuccess: true,
		historySize:    DefaultHistorySize,
	}
}

// WithCommand registers a command. Build fails if two commands share a name.
func (b *Builder[Ctx]) WithCommand(entry Entry[Ctx]) *Builder[Ctx] {
	b.entries = append(b.entries, entry)
	return b
}

// WithCommands registers several commands in order.
func (b *Builder[Ctx]) WithCommands(entries ...Entry[Ctx]) *Builder[Ctx] {
	b.entries = append(b.entries, entries...)
	return b
}

// WithCaseSensitive selects whether names are matched case-sensitively.
// In case-insensitive mode stored keys and lookup keys are case folded.
func (b *Builder[Ctx]) WithCaseSensitive(caseSensitive bool) *Builder[Ctx] {
	b.caseSensitive = caseSensitive
	return b
}

// WithMatchPolicy selects prefix or fuzzy suggestion matching.
func (b *Builder[Ctx]) WithMatchPolicy(policy match.Policy) *Builder[Ctx] {
	b.policy = policy
	return b
}

// WithPrefixBoost enables the prefix bonus of the fuzzy policy.
func (b *Builder[Ctx]) WithPrefixBoost(boost bool) *Builder[Ctx] {
	b.prefixBoost = boost
	return b
}

// WithMatcher installs a custom matcher. It overrides WithMatchPolicy.
func (b *Builder[Ctx]) WithMatcher(m match.Matcher) *Builder[Ctx] {
	b.matcher = m
	return b
}

// WithTokenizer selects how argument tokens are split.
func (b *Builder[Ctx]) WithTokenizer(t Tokenizer) *Builder[Ctx] {
	if t != nil {
		b.tokenizer = t
	}
	return b
}

// WithCloseOnSuccess selects whether a successful Execute deactivates the
// session. When false the overlay stays open with an empty buffer.
func (b *Builder[Ctx]) WithCloseOnSuccess(enabled bool) *Builder[Ctx] {
	b.closeOnSuccess = enabled
	return b
}

// WithExactMatch requires the command token (or an explicit selection) to
// name a command exactly. When false, an inexact token resolves to the
// top-ranked suggestion.
func (b *Builder[Ctx]) WithExactMatch(exact bool) *Builder[Ctx] {
	b.exactMatch = exact
	return b
}

// WithHistorySize sets how many executed inputs the session remembers.
// Zero disables history.
func (b *Builder[Ctx]) WithHistorySize(n int) *Builder[Ctx] {
	if n < 0 {
		n = 0
	}
	b.historySize = n
	return b
}

// WithLogger sets the logger. A nil logger disables logging.
func (b *Builder[Ctx]) WithLogger(logger *zap.Logger) *Builder[Ctx] {
	b.logger = logger
	return b
}

// Build validates the registered commands and returns the Commander.
//
// Empty names, names containing whitespace and duplicate names (after case
// folding when case-insensitive) are rejected; every problem is reported in
// the joined error.
func (b *Builder[Ctx]) Build() (*Commander[Ctx], error) {
	logger := b.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Commander[Ctx]{
		entries:        make(map[string]Entry[Ctx], len(b.entries)),
		names:          make([]string, 0, len(b.entries)),
		caseSensitive:  b.caseSensitive,
		closeOnSuccess: b.closeOnSuccess,
		exactMatch:     b.exactMatch,
		tokenize:       b.tokenizer,
		matcher:        b.matcher,
		selected:       -1,
		history:        newHistory(b.historySize),
		log:            logger.Named("commander"),
	}
	if c.matcher == nil {
		c.matcher = match.New(b.policy, b.caseSensitive, b.prefixBoost)
	}

	var errs []error
	for _, entry := range b.entries {
		name := entry.Name()
		if err := checkName(name); err != nil {
			errs = append(errs, err)
			continue
		}

		key := c.key(name)
		if existing, ok := c.entries[key]; ok {
			errs = append(errs, &DuplicateCommandError{Name: name, Existing: existing.Name()})
			continue
		}

		c.entries[key] = entry
		c.names = append(c.names, name)
	}

	if err := errors.Join(errs...); err != nil {
		c.log.Warn("commander build rejected", zap.Error(err))
		return nil, err
	}

	c.log.Debug("commander built",
		zap.Int("commands", len(c.names)),
		zap.Bool("case_sensitive", c.caseSensitive),
		zap.Bool("exact_match", c.exactMatch),
	)
	return c, nil
}

// checkName rejects names that cannot be typed as a single token.
func checkName(name string) error {
	if name == "" {
		return &InvalidNameError{Name: name, Reason: "name is empty"}
	}
	if strings.IndexFunc(name, unicode.IsSpace) >= 0 {
		return &InvalidNameError{Name: name, Reason: "name contains whitespace"}
	}
	return nil
}

// foldKey case folds a name for case-insensitive lookup, with the rule the
// matchers use.
func foldKey(name string) string {
	return match.Fold(name)
}
