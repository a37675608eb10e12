package resolve

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corey/menuqa/internal/adapters/fuzzy"
	"github.com/corey/menuqa/internal/ports"
)

func newTestResolver() (*Resolver, *Index) {
	return NewResolver(fuzzy.NewWRatioScorer(), 0), BuildIndex(fixtureTables())
}

func TestResolveItem_ExactMatch(t *testing.T) {
	r, idx := newTestResolver()

	res := r.ResolveItem(idx, "acai elixir")
	require.True(t, res.OK)
	assert.Equal(t, ReasonExact, res.Reason)
	assert.Equal(t, 10, res.ResolvedID)
	assert.Equal(t, "Acai Elixir", res.ResolvedDisplay)
	assert.Empty(t, res.Candidates)
}

func TestResolveItem_ExactMatchTitleVariant(t *testing.T) {
	r, idx := newTestResolver()

	res := r.ResolveItem(idx, "Bowls - Nutty Bowl")
	require.True(t, res.OK)
	assert.Equal(t, ReasonExact, res.Reason)
	assert.Equal(t, 1, res.ResolvedID)
}

func TestResolveItem_EmptyQuery(t *testing.T) {
	r, idx := newTestResolver()

	for _, q := range []string{"", "   ", "?!...", "---"} {
		res := r.ResolveItem(idx, q)
		assert.False(t, res.OK)
		assert.Equal(t, ReasonEmptyQuery, res.Reason, "query %q", q)
		assert.Empty(t, res.Candidates)
	}
}

func TestResolveItem_AmbiguousExact(t *testing.T) {
	tables := fixtureTables()
	tables.Items[20] = &ports.MenuItem{ID: 20, Name: "Detox Tea", Title: "Detox Tea"}
	tables.Items[21] = &ports.MenuItem{ID: 21, Name: "DETOX-TEA", Title: "DETOX-TEA"}
	r := NewResolver(fuzzy.NewWRatioScorer(), 0)
	idx := BuildIndex(tables)

	res := r.ResolveItem(idx, "detox tea")
	require.False(t, res.OK)
	assert.Equal(t, ReasonAmbiguousExact, res.Reason)
	require.Len(t, res.Candidates, 2)
	assert.Equal(t, 20, res.Candidates[0].ID)
	assert.Equal(t, 21, res.Candidates[1].ID)
	for _, c := range res.Candidates {
		assert.Equal(t, 100.0, c.Score)
	}
}

func TestResolveItem_GenericBowlIsAmbiguous(t *testing.T) {
	r, idx := newTestResolver()

	res := r.ResolveItem(idx, "bowl")
	require.False(t, res.OK)
	assert.Contains(t, []Reason{ReasonFuzzyAmbiguous, ReasonFuzzyLowConfidence}, res.Reason)
	assert.GreaterOrEqual(t, len(res.Candidates), 2)
}

func TestResolveItem_FuzzyGoGreen(t *testing.T) {
	r, idx := newTestResolver()

	res := r.ResolveItem(idx, "go green smoothie")
	if res.OK {
		assert.Equal(t, 11, res.ResolvedID)
	} else {
		require.NotEmpty(t, res.Candidates)
		assert.Equal(t, "go green", strings.ToLower(res.Candidates[0].Display))
	}
}

func TestResolveItem_Garbage(t *testing.T) {
	r, idx := newTestResolver()

	res := r.ResolveItem(idx, "definitely not a real item")
	assert.False(t, res.OK)
}

func TestResolveCategory_Exact(t *testing.T) {
	r, idx := newTestResolver()

	res := r.ResolveCategory(idx, "Smoothies")
	require.True(t, res.OK)
	assert.Equal(t, ReasonExact, res.Reason)
	assert.Equal(t, 101, res.ResolvedID)
}

func TestResolveDiscount_NumericID(t *testing.T) {
	r, idx := newTestResolver()

	res := r.ResolveDiscount(idx, " 501 ")
	require.True(t, res.OK)
	assert.Equal(t, ReasonID, res.Reason)
	assert.Equal(t, 501, res.ResolvedID)
	assert.Equal(t, "501", res.ResolvedDisplay) // nameless falls back to id
	assert.Empty(t, res.Candidates)
}

func TestResolveDiscount_UnknownNumericIDFallsThrough(t *testing.T) {
	r, idx := newTestResolver()

	res := r.ResolveDiscount(idx, "999")
	assert.False(t, res.OK)
	assert.NotEqual(t, ReasonID, res.Reason)
}

func TestResolveDiscount_StripsTrailingSuffixTokens(t *testing.T) {
	r, idx := newTestResolver()

	for _, q := range []string{
		"bogo any smoothie discount",
		"bogo any smoothie deal",
		"BOGO Any Smoothie promo",
	} {
		res := r.ResolveDiscount(idx, q)
		require.True(t, res.OK, "query %q reason=%s", q, res.Reason)
		assert.Equal(t, 500, res.ResolvedID)
		assert.Equal(t, q, res.Query)
	}
}

func TestResolveDiscount_SuffixOnlyQueryFallsBackToOriginal(t *testing.T) {
	r, idx := newTestResolver()

	res := r.ResolveDiscount(idx, "discount")
	assert.False(t, res.OK)
	assert.NotEqual(t, ReasonEmptyQuery, res.Reason)
}

func TestResolveDiscount_NoChoicesWhenAllNameless(t *testing.T) {
	tables := fixtureTables()
	tables.Discounts = map[int]*ports.Discount{501: {ID: 501}}
	r := NewResolver(fuzzy.NewWRatioScorer(), 0)
	idx := BuildIndex(tables)

	res := r.ResolveDiscount(idx, "happy hour")
	require.False(t, res.OK)
	assert.Equal(t, ReasonNoChoices, res.Reason)
}

// tableScorer returns a fixed score per choice string, for exercising the
// accept/reject policy at exact threshold boundaries.
func tableScorer(scores map[string]float64) ports.Scorer {
	return ports.ScorerFunc(func(_, choice string) float64 {
		return scores[choice]
	})
}

func policyTables() ports.Tables {
	return ports.Tables{Items: map[int]*ports.MenuItem{
		1: {ID: 1, Name: "Alpha", Title: "Alpha"},
		2: {ID: 2, Name: "Beta", Title: "Beta"},
	}}
}

func TestAcceptPolicy_ClearWinnerAccepted(t *testing.T) {
	idx := BuildIndex(policyTables())
	r := NewResolver(tableScorer(map[string]float64{"alpha": 92, "beta": 85}), 0)

	res := r.ResolveItem(idx, "zzz")
	require.True(t, res.OK)
	assert.Equal(t, ReasonFuzzyAccept, res.Reason)
	assert.Equal(t, 1, res.ResolvedID)
	// Candidate list stays attached on success for traceability.
	assert.Len(t, res.Candidates, 2)
}

func TestAcceptPolicy_NarrowGapRejected(t *testing.T) {
	idx := BuildIndex(policyTables())
	r := NewResolver(tableScorer(map[string]float64{"alpha": 92, "beta": 89}), 0)

	res := r.ResolveItem(idx, "zzz")
	require.False(t, res.OK)
	assert.Equal(t, ReasonFuzzyAmbiguous, res.Reason)
}

func TestAcceptPolicy_ExactGapAccepted(t *testing.T) {
	idx := BuildIndex(policyTables())
	r := NewResolver(tableScorer(map[string]float64{"alpha": 95, "beta": 90}), 0)

	res := r.ResolveItem(idx, "zzz")
	require.True(t, res.OK)
	assert.Equal(t, 1, res.ResolvedID)
}

func TestAcceptPolicy_BelowAcceptAboveAmbiguous(t *testing.T) {
	idx := BuildIndex(policyTables())
	r := NewResolver(tableScorer(map[string]float64{"alpha": 85, "beta": 40}), 0)

	res := r.ResolveItem(idx, "zzz")
	require.False(t, res.OK)
	assert.Equal(t, ReasonFuzzyAmbiguous, res.Reason)
}

func TestAcceptPolicy_LowConfidence(t *testing.T) {
	idx := BuildIndex(policyTables())
	r := NewResolver(tableScorer(map[string]float64{"alpha": 70, "beta": 40}), 0)

	res := r.ResolveItem(idx, "zzz")
	require.False(t, res.OK)
	assert.Equal(t, ReasonFuzzyLowConfidence, res.Reason)
}

func TestAcceptPolicy_SingleCandidateAccepted(t *testing.T) {
	tables := ports.Tables{Items: map[int]*ports.MenuItem{1: {ID: 1, Name: "Alpha", Title: "Alpha"}}}
	idx := BuildIndex(tables)
	r := NewResolver(tableScorer(map[string]float64{"alpha": 91}), 0)

	res := r.ResolveItem(idx, "zzz")
	require.True(t, res.OK)
	assert.Equal(t, ReasonFuzzyAccept, res.Reason)
}

func TestConsolidation_KeepsBestVariantPerEntity(t *testing.T) {
	tables := ports.Tables{Items: map[int]*ports.MenuItem{
		1: {ID: 1, Name: "Nutty Bowl", Title: "Bowls - Nutty Bowl"},
	}}
	idx := BuildIndex(tables)
	r := NewResolver(tableScorer(map[string]float64{
		"nutty bowl":       95,
		"bowls nutty bowl": 60,
	}), 0)

	res := r.ResolveItem(idx, "zzz")
	require.True(t, res.OK)
	require.Len(t, res.Candidates, 1)
	assert.Equal(t, 95.0, res.Candidates[0].Score)
}

func TestResolve_TopKTruncation(t *testing.T) {
	items := make(map[int]*ports.MenuItem)
	for i := 1; i <= 12; i++ {
		name := fmt.Sprintf("Berry Mix %d", i)
		items[i] = &ports.MenuItem{ID: i, Name: name, Title: name}
	}
	idx := BuildIndex(ports.Tables{Items: items})
	r := NewResolver(fuzzy.NewWRatioScorer(), 3)

	res := r.ResolveItem(idx, "berry")
	assert.False(t, res.OK)
	assert.LessOrEqual(t, len(res.Candidates), 3)
}

func TestResolve_Dispatch(t *testing.T) {
	r, idx := newTestResolver()

	assert.Equal(t, KindCategory, r.Resolve(idx, KindCategory, "bowls").Kind)
	assert.Equal(t, KindDiscount, r.Resolve(idx, KindDiscount, "happy hour").Kind)
	assert.Equal(t, KindItem, r.Resolve(idx, KindItem, "acai elixir").Kind)
}
