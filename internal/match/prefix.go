// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package match

// =============================================================================
// PREFIX FILTER
// =============================================================================

// Prefix keeps the names that start with the token, in registration order.
type Prefix struct {
	CaseSensitive bool

	token folded
	name  folded
}

// NewPrefix creates a prefix matcher.
func NewPrefix(caseSensitive bool) *Prefix {
	return &Prefix{CaseSensitive: caseSensitive}
}

// Rank implements Matcher.
func (p *Prefix) Rank(token string, names []string) []Result {
	if token == "" {
		return all(names)
	}

	p.token.load(token, p.CaseSensitive)

	var out []Result
	for i, name := range names {
		p.name.load(name, p.CaseSensitive)
		if !hasRunePrefix(p.name.runes, p.token.runes) {
			continue
		}

		idx := make([]int, len(p.token.runes))
		for j := range idx {
			idx[j] = j
		}
		out = append(out, Result{
			Name:      name,
			Index:     i,
			Score:     len(p.token.runes),
			Positions: p.name.positions(idx),
		})
	}
	return out
}
