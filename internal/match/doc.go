// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package match ranks registered command names against the command token the
// user is typing.
//
// Two policies are provided:
//
//   - Prefix: names that start with the token, in registration order
//   - Fuzzy: subsequence scoring, best score first, ties in registration order
//
// Both policies return every name, unscored and in registration order, when
// the token is empty.
//
// # Usage
//
//	m := match.New(match.PolicyFuzzy, false, true)
//	for _, r := range m.Rank("qt", []string{"quit", "query", "echo"}) {
//	    fmt.Println(r.Name, r.Score, r.Positions)
//	}
//
// Matchers keep a scratch buffer between calls and are not safe for
// concurrent use.
package match
