// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package match

import (
	"sort"
	"unicode"
)

// =============================================================================
// FUZZY RANK
// =============================================================================

// Score weights. A match always earns matchBase; the rest are bonuses.
const (
	matchBase        = 1
	consecutiveBonus = 5
	startBonus       = 10
	boundaryBonus    = 7
	exactCaseBonus   = 2
	prefixBonus      = 15
)

// Fuzzy ranks names by subsequence score.
//
// Matching rules:
//   - Each token rune must appear in order in the name
//   - Consecutive matches get bonus points
//   - Matches at word boundaries get bonus points
//   - A match at the start of the name gets bonus points
//   - Exact-case matches get bonus points (case-insensitive mode only)
//   - With PrefixBoost, names that start with the token get bonus points
//   - Longer names are penalised slightly
//
// Examples:
//   - "qt" matches "quit" (start + non-consecutive)
//   - "wq" matches "write-quit" (start + word boundary)
//   - "xyz" does not match "quit"
type Fuzzy struct {
	CaseSensitive bool
	PrefixBoost   bool

	// scratch buffers reused between calls
	token folded
	name  folded
}

// NewFuzzy creates a fuzzy matcher.
func NewFuzzy(caseSensitive, prefixBoost bool) *Fuzzy {
	return &Fuzzy{CaseSensitive: caseSensitive, PrefixBoost: prefixBoost}
}

// Rank implements Matcher.
func (f *Fuzzy) Rank(token string, names []string) []Result {
	if token == "" {
		return all(names)
	}

	f.token.load(token, f.CaseSensitive)

	var out []Result
	for i, name := range names {
		score, positions, ok := f.score(name)
		if !ok {
			continue
		}
		out = append(out, Result{
			Name:      name,
			Index:     i,
			Score:     score,
			Positions: positions,
		})
	}

	// Stable: equal scores keep registration order.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})

	return out
}

// score expects f.token to be loaded. Indexes walk the folded runes;
// boundaries, case and positions are judged on the original runes.
func (f *Fuzzy) score(name string) (int, []int, bool) {
	f.name.load(name, f.CaseSensitive)
	tok, nm := &f.token, &f.name

	if len(tok.runes) > len(nm.runes) {
		return 0, nil, false
	}

	matched := make([]int, 0, len(tok.runes))
	score := 0
	tokenPos := 0
	lastMatch := -1

	for namePos := 0; namePos < len(nm.runes) && tokenPos < len(tok.runes); namePos++ {
		if nm.runes[namePos] != tok.runes[tokenPos] {
			continue
		}

		s := matchBase
		if lastMatch >= 0 && lastMatch == namePos-1 {
			s += consecutiveBonus
		}
		if namePos == 0 {
			s += startBonus
		}
		if nm.startsRune(namePos) && isWordBoundary(nm.orig, nm.src[namePos]) {
			s += boundaryBonus
		}
		if !f.CaseSensitive && nm.orig[nm.src[namePos]] == tok.orig[tok.src[tokenPos]] {
			s += exactCaseBonus
		}

		score += s
		lastMatch = namePos
		matched = append(matched, namePos)
		tokenPos++
	}

	if tokenPos != len(tok.runes) {
		return 0, nil, false
	}

	if f.PrefixBoost && hasRunePrefix(nm.runes, tok.runes) {
		score += prefixBonus
	}

	// Shorter names are better matches
	score -= len(nm.runes) / 4

	return score, nm.positions(matched), true
}

// isWordBoundary reports whether pos starts a word: the first rune, a rune
// after a separator, or an upper-case rune after a lower-case one.
func isWordBoundary(runes []rune, pos int) bool {
	if pos == 0 {
		return true
	}
	if pos >= len(runes) {
		return false
	}

	prev := runes[pos-1]
	switch prev {
	case ' ', '/', '-', '_', ':', '.':
		return true
	}

	return unicode.IsLower(prev) && unicode.IsUpper(runes[pos])
}
