package report

import "strings"

// complexityKeywords are matched case-sensitively as plain substrings,
// so "SUBCASE" counts as a CASE while "join" does not count as a JOIN.
var complexityKeywords = []string{"JOIN", "CASE", "CURSOR", "WHILE", "TRIGGER"}

// ComplexityScore sums the non-overlapping occurrences of each keyword in a
// procedure definition. An empty (or unavailable) definition scores 0.
func ComplexityScore(definition string) int {
	if definition == "" {
		return 0
	}
	score := 0
	for _, kw := range complexityKeywords {
		score += strings.Count(definition, kw)
	}
	return score
}
