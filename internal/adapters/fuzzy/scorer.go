// Package fuzzy implements the ports.Scorer interface using
// github.com/paul-mannino/go-fuzzywuzzy, a Go port of the fuzzywuzzy
// weighted-ratio metric.
package fuzzy

import (
	fuzzywuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"github.com/corey/menuqa/internal/ports"
)

// NewWRatioScorer returns a scorer backed by the weighted ratio: a token-aware
// edit-distance composite that is symmetric, scores in [0,100], and returns
// 100 for identical strings. Inputs are expected to be pre-normalized.
func NewWRatioScorer() ports.Scorer {
	return ports.ScorerFunc(func(a, b string) float64 {
		return float64(fuzzywuzzy.WRatio(a, b))
	})
}
