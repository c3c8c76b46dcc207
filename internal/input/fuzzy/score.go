package fuzzy

// Score rates text against query, both already lowercased. Subsequence
// matches always outrank edit distance matches.
func Score(query, text []rune, maxDistance int) (int, bool) {
	if matches := subsequence(query, text); matches != nil {
		return scoreMatches(query, text, matches), true
	}
	if maxDistance <= 0 {
		return 0, false
	}
	d := distance(query, text)
	if d > maxDistance {
		return 0, false
	}
	// Stay below the subsequence floor of 100.
	return 50 - d*10, true
}

// subsequence returns the index in text of each query rune, matched
// greedily left to right, or nil when query is not a subsequence.
func subsequence(query, text []rune) []int {
	matches := make([]int, 0, len(query))
	j := 0
	for i := 0; i < len(text) && j < len(query); i++ {
		if text[i] == query[j] {
			matches = append(matches, i)
			j++
		}
	}
	if j < len(query) {
		return nil
	}
	return matches
}

func scoreMatches(query, text []rune, matches []int) int {
	score := 100

	for i := 1; i < len(matches); i++ {
		if matches[i] == matches[i-1]+1 {
			score += 20
		}
	}

	if matches[0] == 0 {
		score += 25
		if matches[len(matches)-1] == len(query)-1 {
			score += 50
		}
	} else {
		score -= matches[0]
	}

	gap := matches[len(matches)-1] - matches[0] - len(matches) + 1
	score -= gap * 2

	if len(text) < 20 {
		score += 20 - len(text)
	}
	return max(score, 100)
}

// distance is the Levenshtein distance between a and b.
func distance(a, b []rune) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
