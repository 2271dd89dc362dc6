package ports

// Comparator decides whether an observed experimental outcome matches an
// expected outcome. Result verification is heuristic; keeping it behind
// this interface lets callers substitute structured or model-backed
// comparison without touching the evaluator.
type Comparator interface {
	Matches(actual, expected string) bool
}
