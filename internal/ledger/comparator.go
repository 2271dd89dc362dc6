package ledger

import (
	"strings"
)

// DefaultOverlapRatio is the fraction of expected terms that must appear
// in the actual outcome for the two to count as matching.
const DefaultOverlapRatio = 0.5

// OverlapComparator matches outcomes by case-insensitive word overlap:
// the ratio of expected terms found in the actual text must exceed the
// threshold. A coarse lexical heuristic; swap in a structured comparator
// where outcomes are machine-readable.
type OverlapComparator struct {
	threshold float64
}

// NewOverlapComparator creates a comparator with the given overlap
// threshold. Non-positive thresholds use the default.
func NewOverlapComparator(threshold float64) *OverlapComparator {
	if threshold <= 0 {
		threshold = DefaultOverlapRatio
	}
	return &OverlapComparator{threshold: threshold}
}

// Matches reports whether more than the threshold fraction of expected
// terms occur in the actual outcome. An empty expectation never matches.
func (c *OverlapComparator) Matches(actual, expected string) bool {
	expectedTerms := strings.Fields(strings.ToLower(expected))
	if len(expectedTerms) == 0 {
		return false
	}

	actualTerms := make(map[string]bool)
	for _, term := range strings.Fields(strings.ToLower(actual)) {
		actualTerms[term] = true
	}

	overlap := 0
	seen := make(map[string]bool, len(expectedTerms))
	total := 0
	for _, term := range expectedTerms {
		if seen[term] {
			continue
		}
		seen[term] = true
		total++
		if actualTerms[term] {
			overlap++
		}
	}

	return float64(overlap)/float64(total) > c.threshold
}
