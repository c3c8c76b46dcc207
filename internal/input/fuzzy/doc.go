// Package fuzzy ranks candidate names against a misspelled query.
//
// It backs the "did you mean" hints attached to unknown key names and
// missing methods. Two strategies are combined:
//
//   - Subsequence matching, where every query rune appears in order in the
//     candidate. Consecutive runs, prefix hits and short candidates score
//     higher, so "pgup" ranks "pageup" first.
//   - Edit distance, which catches transpositions and dropped letters
//     ("spcae" for "space") that a subsequence match cannot see.
//
// Matching is case-insensitive and rune-aware.
//
//	fuzzy.Suggest("entr", []string{"enter", "end", "escape"}, 2)
//	// ["enter", "end"]
package fuzzy
