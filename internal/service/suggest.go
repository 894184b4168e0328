package service

import (
	"sort"
	"strings"

	"github.com/loomkit/loom/internal/catalog"
)

// maxEditDistance bounds how dissimilar a Levenshtein fallback suggestion
// may be.
const maxEditDistance = 2

// suggest returns up to limit component names resembling the unknown input:
// case-insensitive prefix matches first, then substring matches over names
// and aliases, then close Levenshtein matches. Deterministic for a fixed
// catalog.
func suggest(store *catalog.Store, input string, limit int) []string {
	if limit <= 0 {
		return nil
	}
	q := strings.ToLower(strings.TrimSpace(input))
	if q == "" {
		return nil
	}

	type candidate struct {
		name string
		rank int // 0=prefix, 1=substring, 2=edit distance
		dist int
	}

	var candidates []candidate
	for _, rec := range store.List(0) {
		lower := strings.ToLower(rec.Name)
		switch {
		case strings.HasPrefix(lower, q):
			candidates = append(candidates, candidate{rec.Name, 0, 0})
			continue
		case strings.Contains(lower, q):
			candidates = append(candidates, candidate{rec.Name, 1, 0})
			continue
		}

		matched := false
		for _, alias := range rec.Aliases {
			if strings.Contains(strings.ToLower(alias), q) {
				candidates = append(candidates, candidate{rec.Name, 1, 0})
				matched = true
				break
			}
		}
		if matched {
			continue
		}

		if d := levenshtein(q, lower); d <= maxEditDistance {
			candidates = append(candidates, candidate{rec.Name, 2, d})
		}
	}

	sort.SliceStable(candidates, func(a, b int) bool {
		if candidates[a].rank != candidates[b].rank {
			return candidates[a].rank < candidates[b].rank
		}
		if candidates[a].dist != candidates[b].dist {
			return candidates[a].dist < candidates[b].dist
		}
		return candidates[a].name < candidates[b].name
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	names := make([]string, len(candidates))
	for i, c := range candidates {
		names[i] = c.name
	}
	return names
}

// levenshtein computes the edit distance between two strings with the
// standard two-row dynamic program.
func levenshtein(a, b string) int {
	if a == b {
		return 0
	}
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min3(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
