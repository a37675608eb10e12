package resolve

import (
	"sort"
	"strconv"
	"strings"

	"github.com/corey/menuqa/internal/domain/textnorm"
	"github.com/corey/menuqa/internal/ports"
)

// Accept/reject thresholds for the fuzzy stage. A clear winner (high absolute
// score, clear margin over the runner-up) is auto-accepted; anything else is
// surfaced to the caller as a clarification question rather than silently
// picking a possibly-wrong entity. Tools depend on these exact values.
const (
	AcceptThreshold    = 90.0
	AmbiguousThreshold = 80.0
	AcceptGap          = 5.0
)

// DefaultTopK is the candidate list size used when none is configured.
const DefaultTopK = 5

// Reason explains why a resolution attempt succeeded or failed a particular
// way. Reasons are diagnostic: tools translate them into user-facing error
// codes and never show them directly.
type Reason string

const (
	ReasonID                 Reason = "id"          // discount direct id lookup
	ReasonExact              Reason = "exact"       // unique exact-map hit
	ReasonFuzzyAccept        Reason = "fuzzy_accept"
	ReasonEmptyQuery         Reason = "empty_query"
	ReasonNoChoices          Reason = "no_choices"  // fuzzy pool empty for this kind
	ReasonNoMatch            Reason = "no_match"    // fuzzy stage produced nothing
	ReasonAmbiguousExact     Reason = "ambiguous_exact"
	ReasonFuzzyAmbiguous     Reason = "fuzzy_ambiguous"
	ReasonFuzzyLowConfidence Reason = "fuzzy_low_confidence"
)

// Candidate is a scored, displayable suggestion offered when resolution
// cannot uniquely commit.
type Candidate struct {
	Kind    EntityKind `json:"entity_type"`
	ID      int        `json:"entity_id"`
	Display string     `json:"display"`
	Score   float64    `json:"score"`
}

// Result is the outcome of one resolution attempt.
type Result struct {
	OK              bool        `json:"ok"`
	Kind            EntityKind  `json:"entity_type"`
	Query           string      `json:"query"`
	ResolvedID      int         `json:"resolved_id,omitempty"`
	ResolvedDisplay string      `json:"resolved_display,omitempty"`
	Candidates      []Candidate `json:"candidates,omitempty"`
	Reason          Reason      `json:"reason"`
}

// discountSuffixTokens are generic trailing words stripped from discount
// queries before matching ("bogo any smoothie discount" -> "bogo any smoothie").
var discountSuffixTokens = map[string]bool{
	"discount":  true,
	"deal":      true,
	"offer":     true,
	"promo":     true,
	"promotion": true,
}

// Resolver runs the resolution algorithm against an Index. It holds no
// mutable state; concurrent calls against the same Index are safe.
type Resolver struct {
	scorer ports.Scorer
	topK   int
}

// NewResolver creates a Resolver using the given similarity scorer.
// topK <= 0 selects DefaultTopK.
func NewResolver(scorer ports.Scorer, topK int) *Resolver {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &Resolver{scorer: scorer, topK: topK}
}

// ResolveItem maps a free-text phrase to a single menu item.
func (r *Resolver) ResolveItem(idx *Index, query string) Result {
	return r.resolve(idx, KindItem, query, idx.itemsByName, idx.itemChoices, idx.displayItem)
}

// ResolveCategory maps a free-text phrase to a single category.
func (r *Resolver) ResolveCategory(idx *Index, query string) Result {
	return r.resolve(idx, KindCategory, query, idx.categoriesByName, idx.categoryChoices, idx.displayCategory)
}

// ResolveDiscount maps a phrase or numeric id to a single discount.
// A purely numeric query is treated as a direct id lookup, bypassing all
// text matching. Text queries are pre-stripped of trailing generic suffix
// tokens before matching.
func (r *Resolver) ResolveDiscount(idx *Index, query string) Result {
	trimmed := strings.TrimSpace(query)
	if isDigits(trimmed) {
		id, err := strconv.Atoi(trimmed)
		if err == nil {
			if _, ok := idx.Discounts[id]; ok {
				return Result{
					OK:              true,
					Kind:            KindDiscount,
					Query:           query,
					ResolvedID:      id,
					ResolvedDisplay: idx.displayDiscount(id),
					Reason:          ReasonID,
				}
			}
		}
	}

	matchQuery := stripDiscountSuffix(trimmed)
	if matchQuery == "" {
		matchQuery = trimmed
	}

	res := r.resolve(idx, KindDiscount, matchQuery, idx.discountsByName, idx.discountChoices, idx.displayDiscount)
	res.Query = query
	return res
}

// Resolve dispatches on kind; unknown kinds resolve as items.
func (r *Resolver) Resolve(idx *Index, kind EntityKind, query string) Result {
	switch kind {
	case KindCategory:
		return r.ResolveCategory(idx, query)
	case KindDiscount:
		return r.ResolveDiscount(idx, query)
	default:
		return r.ResolveItem(idx, query)
	}
}

// resolve is the shared exact-then-fuzzy procedure.
func (r *Resolver) resolve(
	idx *Index,
	kind EntityKind,
	query string,
	exact map[string][]int,
	choices map[string]string,
	display func(int) string,
) Result {
	normQ := textnorm.Normalize(query)
	if normQ == "" {
		return Result{Kind: kind, Query: query, Reason: ReasonEmptyQuery}
	}

	// Exact stage.
	if ids, ok := exact[normQ]; ok && len(ids) > 0 {
		if len(ids) == 1 {
			return Result{
				OK:              true,
				Kind:            kind,
				Query:           query,
				ResolvedID:      ids[0],
				ResolvedDisplay: display(ids[0]),
				Reason:          ReasonExact,
			}
		}
		// True name collision: every colliding id is a full-score candidate.
		limit := len(ids)
		if limit > r.topK {
			limit = r.topK
		}
		cands := make([]Candidate, 0, limit)
		for _, id := range ids[:limit] {
			cands = append(cands, Candidate{Kind: kind, ID: id, Display: display(id), Score: 100})
		}
		return Result{Kind: kind, Query: query, Candidates: cands, Reason: ReasonAmbiguousExact}
	}

	// Fuzzy stage.
	if len(choices) == 0 {
		return Result{Kind: kind, Query: query, Reason: ReasonNoChoices}
	}

	raw := r.scoreChoices(normQ, choices)
	consolidated := consolidate(kind, raw, display, r.topK)
	if len(consolidated) == 0 {
		return Result{Kind: kind, Query: query, Candidates: nil, Reason: ReasonNoMatch}
	}

	best := consolidated[0]
	if best.Score >= AcceptThreshold {
		if len(consolidated) == 1 || best.Score-consolidated[1].Score >= AcceptGap {
			return Result{
				OK:              true,
				Kind:            kind,
				Query:           query,
				ResolvedID:      best.ID,
				ResolvedDisplay: best.Display,
				Candidates:      consolidated, // kept for traceability
				Reason:          ReasonFuzzyAccept,
			}
		}
	}

	reason := ReasonFuzzyLowConfidence
	if best.Score >= AmbiguousThreshold {
		reason = ReasonFuzzyAmbiguous
	}
	return Result{Kind: kind, Query: query, Candidates: consolidated, Reason: reason}
}

// scoredChoice pairs a fuzzy-pool key with its similarity score.
type scoredChoice struct {
	key   string
	score float64
}

// scoreChoices scores the query against every pool entry and returns the top
// raw matches, at least 3x topK so consolidation doesn't shrink the list too
// much. Ties break on key order so pool iteration order never affects the
// outcome.
func (r *Resolver) scoreChoices(normQ string, choices map[string]string) []scoredChoice {
	scored := make([]scoredChoice, 0, len(choices))
	for key, val := range choices {
		scored = append(scored, scoredChoice{key: key, score: r.scorer.Score(normQ, val)})
	}
	sort.Slice(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		return scored[i].key < scored[j].key
	})
	limit := r.topK * 3
	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}

// consolidate collapses multiple pool entries belonging to the same entity
// (different name variants) into its single best-scoring match, sorted by
// score descending, truncated to topK. Ties break on id ascending.
func consolidate(kind EntityKind, raw []scoredChoice, display func(int) string, topK int) []Candidate {
	bestByID := make(map[int]float64)
	for _, sc := range raw {
		idStr, _, found := strings.Cut(sc.key, "|")
		if !found {
			continue
		}
		id, err := strconv.Atoi(idStr)
		if err != nil {
			continue
		}
		if prev, ok := bestByID[id]; !ok || sc.score > prev {
			bestByID[id] = sc.score
		}
	}

	out := make([]Candidate, 0, len(bestByID))
	for id, score := range bestByID {
		out = append(out, Candidate{Kind: kind, ID: id, Display: display(id), Score: score})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].ID < out[j].ID
	})
	if len(out) > topK {
		out = out[:topK]
	}
	return out
}

// stripDiscountSuffix normalizes a discount query and drops trailing generic
// tokens (discount/deal/offer/promo/promotion). Returns "" when nothing
// remains.
func stripDiscountSuffix(q string) string {
	parts := strings.Fields(textnorm.Normalize(q))
	for len(parts) > 0 && discountSuffixTokens[parts[len(parts)-1]] {
		parts = parts[:len(parts)-1]
	}
	return strings.Join(parts, " ")
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
