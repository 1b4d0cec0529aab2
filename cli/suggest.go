package main

import (
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// findClosestMatch finds the closest matching string using fuzzy search
func findClosestMatch(target string, candidates []string) string {
	if len(candidates) == 0 {
		return ""
	}

	// Use fuzzy ranking to find best match
	ranks := fuzzy.RankFindFold(target, candidates)
	if len(ranks) > 0 {
		// Return the best match (lowest distance)
		sort.Sort(ranks)
		return ranks[0].Target
	}

	return ""
}
