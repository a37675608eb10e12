// Package router turns a user question into a routing decision: an intent
// plus the entity slots the intent needs. Two producers exist, a
// deterministic rule scan and an LLM classifier; both emit the same Route
// shape but validate it differently.
package router

import (
	"fmt"
	"strings"
)

// Intent is the routing decision vocabulary. Tool dispatch keys off it.
type Intent string

const (
	IntentGetPrice          Intent = "get_price"
	IntentGetCalories       Intent = "get_calories"
	IntentListCategoryItems Intent = "list_category_items"
	IntentListDiscounts     Intent = "list_discounts"
	IntentDiscountDetails   Intent = "discount_details"
	IntentDiscountTriggers  Intent = "discount_triggers"
	IntentChannelCompare    Intent = "compare_price_across_channels"
	IntentUnknown           Intent = "unknown"
)

var validIntents = map[Intent]bool{
	IntentGetPrice:          true,
	IntentGetCalories:       true,
	IntentListCategoryItems: true,
	IntentListDiscounts:     true,
	IntentDiscountDetails:   true,
	IntentDiscountTriggers:  true,
	IntentChannelCompare:    true,
	IntentUnknown:           true,
}

// Route is a routing decision. Slot fields are empty when not applicable or
// not extracted; whether empty slots are acceptable depends on the parse
// mode.
type Route struct {
	Intent   Intent `json:"intent"`
	Item     string `json:"item,omitempty"`
	Portion  string `json:"portion,omitempty"`
	Category string `json:"category,omitempty"`
	Discount string `json:"discount,omitempty"`
	Channel  string `json:"channel,omitempty"`
}

// ParseLenient normalizes a route without rejecting it: fields are trimmed
// and an unrecognized intent collapses to unknown. The rule router goes
// through this path so incomplete slots reach the chat layer, which asks a
// clarifying question instead of erroring.
func ParseLenient(r Route) Route {
	r = trimmed(r)
	if !validIntents[r.Intent] {
		r.Intent = IntentUnknown
	}
	return r
}

// ParseStrict validates a route fail-closed: unrecognized intents and
// incoherent slot combinations are errors. The LLM classifier goes through
// this path so a malformed model response falls back to the rule router
// rather than reaching dispatch.
func ParseStrict(r Route) (Route, error) {
	r = trimmed(r)
	if !validIntents[r.Intent] {
		return Route{}, fmt.Errorf("unknown intent %q", r.Intent)
	}

	switch r.Intent {
	case IntentGetPrice, IntentGetCalories, IntentChannelCompare:
		if r.Item == "" {
			return Route{}, fmt.Errorf("intent %q requires an item", r.Intent)
		}
	case IntentListCategoryItems:
		if r.Category == "" {
			return Route{}, fmt.Errorf("intent %q requires a category", r.Intent)
		}
	case IntentDiscountDetails, IntentDiscountTriggers:
		if r.Discount == "" {
			return Route{}, fmt.Errorf("intent %q requires a discount", r.Intent)
		}
	}
	return r, nil
}

func trimmed(r Route) Route {
	r.Intent = Intent(strings.TrimSpace(string(r.Intent)))
	r.Item = strings.TrimSpace(r.Item)
	r.Portion = strings.TrimSpace(r.Portion)
	r.Category = strings.TrimSpace(r.Category)
	r.Discount = strings.TrimSpace(r.Discount)
	r.Channel = strings.TrimSpace(r.Channel)
	return r
}
