package router

import (
	"regexp"
	"strings"

	"github.com/corey/menuqa/internal/domain/textnorm"
)

// categoryVocab is the closed set of category words the rule router
// recognizes. Anything else reaches the category tool only via the LLM path.
var categoryVocab = []string{
	"salads", "bowls", "smoothies", "drinks", "kids", "sides", "snacks", "desserts",
}

// channelVocab lists ordering-channel mentions, multi-word forms included.
var channelVocab = []string{
	"ubereats", "uber eats", "doordash", "door dash", "grubhub",
	"in store", "instore", "pickup", "delivery",
}

var stopwords = map[string]bool{
	"the": true, "a": true, "an": true, "of": true, "for": true, "to": true,
	"does": true, "do": true, "have": true, "has": true, "is": true,
	"are": true, "it": true, "with": true, "in": true, "on": true,
	"and": true, "same": true, "all": true,
}

// leadingTemplates are question scaffolds stripped before the remainder is
// treated as an item phrase. They match already-normalized text.
var leadingTemplates = []*regexp.Regexp{
	regexp.MustCompile(`^what is the price (?:of|for) `),
	regexp.MustCompile(`^what(?: is| s) the cost of `),
	regexp.MustCompile(`^how much (?:is|does) `),
	regexp.MustCompile(`^price of `),
	regexp.MustCompile(`^calories (?:for|of) `),
	regexp.MustCompile(`^how many calories (?:does|is in) `),
}

var (
	trailingChannelPhrases = regexp.MustCompile(`\b(?:same in all channels|across channels|in all channels)\b`)
	trailingFillerWords    = regexp.MustCompile(`\b(?:have|today)\b$`)

	bogoPhrase        = regexp.MustCompile(`\bbogo\b(?:\s+\w+){0,6}`)
	nameThenDiscount  = regexp.MustCompile(`\b([\w ]{2,50})\s+discount\b`)
	discountThenName  = regexp.MustCompile(`\bdiscount\s+([\w ]{2,50})\b`)
	leadingArticle    = regexp.MustCompile(`^(?:a|the)\s+`)
	discountEndTokens = regexp.MustCompile(`\b(?:discount|deal|offer|promo|promotion)\b`)
)

// Rules is the deterministic router: a fixed-priority keyword scan over the
// normalized question. It never fails; questions matching no rule come back
// as unknown.
func Rules(question string) Route {
	q := strings.TrimSpace(question)
	if q == "" {
		return Route{Intent: IntentUnknown}
	}

	t := textnorm.Normalize(q)
	portion := textnorm.ExtractPortionToken(t)
	category := extractCategoryToken(t)
	channel := ExtractChannelToken(t)

	// Coupon questions force discount details even without a named discount;
	// the chat layer asks which discount is meant.
	if containsToken(t, "coupon") || containsToken(t, "coupons") {
		return ParseLenient(Route{Intent: IntentDiscountDetails})
	}

	if containsAny(t, "all channels", "same in all channels", "different channels", "across channels", "channel price") {
		return ParseLenient(Route{
			Intent:  IntentChannelCompare,
			Item:    ExtractItemPhrase(q),
			Portion: portion,
		})
	}

	if containsAny(t, "calories", "kcal", "nutrition") {
		return ParseLenient(Route{
			Intent: IntentGetCalories,
			Item:   ExtractItemPhrase(q),
		})
	}

	if containsAny(t, "price", "how much", "cost") || strings.Contains(q, "$") {
		return ParseLenient(Route{
			Intent:  IntentGetPrice,
			Item:    ExtractItemPhrase(q),
			Portion: portion,
			Channel: channel,
		})
	}

	if category != "" && (containsToken(t, "which") || containsToken(t, "what") ||
		containsToken(t, "show") || containsToken(t, "list")) {
		return ParseLenient(Route{Intent: IntentListCategoryItems, Category: category})
	}

	if strings.Contains(t, "discount") {
		if containsAny(t, "available", "today", "current", "active") {
			return ParseLenient(Route{Intent: IntentListDiscounts})
		}
		if containsAny(t, "trigger", "eligible", "apply", "bogo", "buy one get one") &&
			containsAny(t, "discount", "deal", "offer") {
			return ParseLenient(Route{
				Intent:   IntentDiscountTriggers,
				Discount: ExtractDiscountPhrase(q),
			})
		}
		if containsAny(t, "coupon", "details", "terms", "conditions") &&
			containsAny(t, "discount", "deal", "offer") {
			return ParseLenient(Route{
				Intent:   IntentDiscountDetails,
				Discount: ExtractDiscountPhrase(q),
			})
		}
	}

	return Route{Intent: IntentUnknown}
}

func containsAny(t string, phrases ...string) bool {
	for _, p := range phrases {
		if strings.Contains(t, p) {
			return true
		}
	}
	return false
}

func containsToken(t, token string) bool {
	for _, tok := range strings.Fields(t) {
		if tok == token {
			return true
		}
	}
	return false
}

func extractCategoryToken(t string) string {
	for _, cat := range categoryVocab {
		if containsToken(t, cat) {
			return cat
		}
	}
	return ""
}

// ExtractChannelToken finds the first channel mention and returns it
// collapsed to a single token ("uber eats" -> "ubereats").
func ExtractChannelToken(text string) string {
	t := textnorm.Normalize(text)
	for _, ch := range channelVocab {
		norm := textnorm.Normalize(ch)
		if norm != "" && strings.Contains(t, norm) {
			return strings.ReplaceAll(norm, " ", "")
		}
	}
	return ""
}

// ExtractItemPhrase pulls the probable item name out of a question: leading
// question scaffolds, portion words, channel mentions, and stopwords are
// removed and whatever remains is the phrase. Empty when nothing remains.
func ExtractItemPhrase(question string) string {
	t := textnorm.Normalize(question)
	if t == "" {
		return ""
	}

	for _, re := range leadingTemplates {
		t = strings.TrimSpace(re.ReplaceAllString(t, ""))
	}

	t = strings.TrimSpace(trailingChannelPhrases.ReplaceAllString(t, " "))
	t = textnorm.Normalize(t)
	t = strings.TrimSpace(trailingFillerWords.ReplaceAllString(t, ""))

	if ch := ExtractChannelToken(t); ch != "" {
		for _, form := range channelVocab {
			t = strings.ReplaceAll(t, textnorm.Normalize(form), " ")
		}
		t = textnorm.Normalize(t)
	}

	portion := textnorm.ExtractPortionToken(t)
	var words []string
	for _, w := range strings.Fields(t) {
		if stopwords[w] {
			continue
		}
		if portion != "" && textnorm.NormalizePortion(w) == portion {
			continue
		}
		words = append(words, w)
	}
	return strings.Join(words, " ")
}

// nameFiller are question-scaffold tokens trimmed off the front of a
// captured discount name. The capture is greedy and often drags the whole
// question lead-in along with it.
var nameFiller = map[string]bool{
	"what": true, "which": true, "are": true, "is": true, "do": true,
	"does": true, "you": true, "have": true, "any": true, "the": true,
	"a": true, "an": true, "of": true, "for": true, "about": true,
	"tell": true, "me": true, "on": true, "terms": true, "details": true,
	"conditions": true, "items": true, "trigger": true, "triggers": true,
}

// ExtractDiscountPhrase pulls a discount name out of a question. Three
// shapes are tried in order: "bogo ..." (up to six following words),
// "<name> discount", "discount <name>". The captured phrase is trimmed of
// leading question scaffolding and trailing generic tokens.
func ExtractDiscountPhrase(question string) string {
	t := textnorm.Normalize(question)
	if t == "" {
		return ""
	}

	if m := bogoPhrase.FindString(t); m != "" {
		return trimDiscountName(m)
	}

	if m := nameThenDiscount.FindStringSubmatch(t); m != nil {
		return trimDiscountName(leadingArticle.ReplaceAllString(strings.TrimSpace(m[1]), ""))
	}

	if m := discountThenName.FindStringSubmatch(t); m != nil {
		return trimDiscountName(leadingArticle.ReplaceAllString(strings.TrimSpace(m[1]), ""))
	}

	return ""
}

func trimDiscountName(phrase string) string {
	parts := strings.Fields(phrase)
	for len(parts) > 0 && nameFiller[parts[0]] {
		parts = parts[1:]
	}
	for len(parts) > 0 && discountEndTokens.MatchString(parts[len(parts)-1]) {
		parts = parts[:len(parts)-1]
	}
	return strings.Join(parts, " ")
}

var genericDiscountTokens = map[string]bool{
	"bogo": true, "discount": true, "deal": true, "offer": true,
	"promo": true, "promotion": true,
}

// SanitizeDiscountQuery post-processes an extracted discount slot before it
// reaches the resolver. Coupon questions with no specific discount return ""
// so the chat layer asks for one. A generic token ("bogo", "deal") is
// expanded from the surrounding question when that yields a longer phrase.
func SanitizeDiscountQuery(question, discount string) string {
	qNorm := textnorm.Normalize(question)
	dNorm := textnorm.Normalize(discount)

	if (containsToken(qNorm, "coupon") || containsToken(qNorm, "coupons")) &&
		(dNorm == "" || dNorm == "coupon" || dNorm == "coupons") {
		return ""
	}
	if dNorm == "" {
		return ""
	}
	if !genericDiscountTokens[dNorm] {
		return strings.TrimSpace(discount)
	}

	start := strings.Index(" "+qNorm+" ", " "+dNorm+" ")
	if start < 0 {
		return strings.TrimSpace(discount)
	}
	tail := strings.TrimSpace(qNorm[start:])

	// Cut at the next end token after the generic token itself.
	rest := tail[len(dNorm):]
	if loc := discountEndTokens.FindStringIndex(rest); loc != nil {
		tail = strings.TrimSpace(tail[:len(dNorm)+loc[0]])
	}

	parts := strings.Fields(tail)
	for len(parts) > 0 && discountEndTokens.MatchString(parts[len(parts)-1]) {
		parts = parts[:len(parts)-1]
	}
	expanded := strings.Join(parts, " ")
	if expanded != "" && expanded != dNorm {
		return expanded
	}
	return strings.TrimSpace(discount)
}
