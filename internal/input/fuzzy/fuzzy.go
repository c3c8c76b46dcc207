package fuzzy

import (
	"slices"
	"strings"
)

// Result is a scored candidate.
type Result struct {
	Text  string
	Score int
}

// Options tunes ranking.
type Options struct {
	// MaxDistance is the largest edit distance still considered a match.
	// Zero disables the edit distance fallback.
	MaxDistance int

	// MinScore drops results scoring below it.
	MinScore int
}

// DefaultOptions returns the options used by Suggest.
func DefaultOptions() Options {
	return Options{MaxDistance: 2, MinScore: 1}
}

// Rank scores every candidate against query and returns the matches,
// best first. Ties keep candidate order.
func Rank(query string, candidates []string, opts Options) []Result {
	q := []rune(strings.ToLower(query))
	if len(q) == 0 {
		return nil
	}

	var results []Result
	for _, c := range candidates {
		score, ok := Score(q, []rune(strings.ToLower(c)), opts.MaxDistance)
		if !ok || score < opts.MinScore {
			continue
		}
		results = append(results, Result{Text: c, Score: score})
	}

	slices.SortStableFunc(results, func(a, b Result) int {
		return b.Score - a.Score
	})
	return results
}

// Suggest returns up to limit candidates resembling query. An exact
// (case-insensitive) match is never suggested.
func Suggest(query string, candidates []string, limit int) []string {
	if limit <= 0 {
		return nil
	}
	var out []string
	for _, r := range Rank(query, candidates, DefaultOptions()) {
		if strings.EqualFold(r.Text, query) {
			continue
		}
		out = append(out, r.Text)
		if len(out) == limit {
			break
		}
	}
	return out
}
