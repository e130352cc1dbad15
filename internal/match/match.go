// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package match

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

// =============================================================================
// RESULT & MATCHER
// =============================================================================

// Result is one ranked candidate.
type Result struct {
	// Name is the candidate exactly as it was registered
	Name string

	// Index is the candidate's position in the input name list
	Index int

	// Score for ranking (higher = better match, 0 when unscored)
	Score int

	// Positions are the rune indexes of Name that matched the token
	Positions []int
}

// Matcher ranks names against a typed token.
//
// Implementations must be a total function of (token, names): the same
// arguments always produce the same ranking.
type Matcher interface {
	Rank(token string, names []string) []Result
}

// Names extracts the candidate names from ranked results.
func Names(results []Result) []string {
	if len(results) == 0 {
		return nil
	}
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Name
	}
	return out
}

// all returns every name, unscored, in input order.
func all(names []string) []Result {
	out := make([]Result, len(names))
	for i, name := range names {
		out[i] = Result{Name: name, Index: i}
	}
	return out
}

// =============================================================================
// POLICY
// =============================================================================

// Policy selects a matching algorithm.
type Policy int

const (
	PolicyPrefix Policy = iota // Names starting with the token
	PolicyFuzzy                // Subsequence scoring
)

// String returns the config spelling of the policy.
func (p Policy) String() string {
	switch p {
	case PolicyPrefix:
		return "prefix"
	case PolicyFuzzy:
		return "fuzzy"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// ParsePolicy parses "prefix" or "fuzzy" (case-insensitive).
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "prefix", "":
		return PolicyPrefix, nil
	case "fuzzy":
		return PolicyFuzzy, nil
	default:
		return PolicyPrefix, fmt.Errorf("unknown match policy %q (expected prefix or fuzzy)", s)
	}
}

// New builds the matcher for a policy.
// prefixBoost only affects the fuzzy policy.
func New(policy Policy, caseSensitive, prefixBoost bool) Matcher {
	if policy == PolicyFuzzy {
		return NewFuzzy(caseSensitive, prefixBoost)
	}
	return NewPrefix(caseSensitive)
}

// =============================================================================
// CASE FOLDING
// =============================================================================

// Fold case folds s with full Unicode folding (ß folds to "ss", final ς to
// σ). Matchers and case-insensitive registries must agree on this rule or a
// name can resolve without ever being suggested.
func Fold(s string) string {
	var f folded
	f.load(s, false)
	return string(f.runes)
}

// folded holds a string as runes, optionally case folded, with every folded
// rune mapped back to the rune of the original it came from. Folding can
// lengthen a string, so positions are reported through src.
type folded struct {
	runes []rune // folded text (the original when case-sensitive)
	src   []int  // rune index in orig for each entry of runes
	orig  []rune

	caser cases.Caser
	init  bool
}

// load replaces the buffer contents with s.
func (f *folded) load(s string, caseSensitive bool) {
	f.runes, f.src, f.orig = f.runes[:0], f.src[:0], f.orig[:0]
	for _, r := range s {
		i := len(f.orig)
		f.orig = append(f.orig, r)
		if caseSensitive {
			f.runes = append(f.runes, r)
			f.src = append(f.src, i)
			continue
		}
		if r < utf8.RuneSelf {
			if 'A' <= r && r <= 'Z' {
				r += 'a' - 'A'
			}
			f.runes = append(f.runes, r)
			f.src = append(f.src, i)
			continue
		}
		if !f.init {
			f.caser = cases.Fold()
			f.init = true
		}
		for _, fr := range f.caser.String(string(r)) {
			f.runes = append(f.runes, fr)
			f.src = append(f.src, i)
		}
	}
}

// startsRune reports whether folded rune pos is the first one produced by
// its original rune.
func (f *folded) startsRune(pos int) bool {
	return pos == 0 || f.src[pos-1] != f.src[pos]
}

// positions maps folded indexes to original rune indexes, dropping repeats.
func (f *folded) positions(idx []int) []int {
	out := make([]int, 0, len(idx))
	for _, i := range idx {
		p := f.src[i]
		if n := len(out); n > 0 && out[n-1] == p {
			continue
		}
		out = append(out, p)
	}
	return out
}

func hasRunePrefix(s, prefix []rune) bool {
	if len(prefix) > len(s) {
		return false
	}
	for i := range prefix {
		if s[i] != prefix[i] {
			return false
		}
	}
	return true
}
