package ports

// Scorer computes approximate string similarity on a 0–100 scale.
// Implementations must be symmetric, return 100 for identical strings, and
// behave as a legitimate edit/token-similarity metric; the resolver's
// accept/reject thresholds are calibrated against a weighted-ratio scorer.
// Inputs are pre-normalized by the caller (lowercase ASCII, single spaces).
type Scorer interface {
	Score(a, b string) float64
}

// ScorerFunc adapts a plain function to the Scorer interface.
type ScorerFunc func(a, b string) float64

func (f ScorerFunc) Score(a, b string) float64 { return f(a, b) }
