// Package tools implements the operation-specific consumers of the resolver:
// price lookup, calorie lookup, category listing, and discount queries.
// Each tool is a pure function of (index, query, modifiers); the only state
// held is the resolver itself.
package tools

import (
	"github.com/corey/menuqa/internal/domain/resolve"
	"github.com/corey/menuqa/internal/ports"
)

// Code is a tool-facing error code, the only error vocabulary surfaced
// beyond this package. Resolver reason codes are diagnostic and never shown
// to the end user.
type Code string

const (
	CodeAmbiguous       Code = "AMBIGUOUS"       // multiple plausible matches, user must disambiguate
	CodeNotFound        Code = "NOT_FOUND"       // no plausible match; low-confidence suggestions may follow
	CodeInvalidArgument Code = "INVALID_ARGUMENT" // a supplied modifier is nonsensical or unavailable
	CodeIncompleteData  Code = "INCOMPLETE_DATA" // entity resolved but the required field is absent
	CodeUnsupported     Code = "UNSUPPORTED"     // feature categorically unimplemented
)

// Error carries a tool error code plus a user-presentable message.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

// PortionOption is one available portion with its price, offered when a
// portion-priced item needs disambiguation.
type PortionOption struct {
	Portion string  `json:"portion"`
	Price   float64 `json:"price"`
}

// Meta carries diagnostic context for tracing. Nothing in here is shown to
// the end user.
type Meta struct {
	ResolveReason     resolve.Reason `json:"resolve_reason,omitempty"`
	Query             string         `json:"query,omitempty"`
	ResolvedID        int            `json:"resolved_id,omitempty"`
	ResolvedName      string         `json:"resolved_name,omitempty"`
	AvailablePortions []string       `json:"available_portions,omitempty"`
	PortionNormalized string         `json:"portion_normalized,omitempty"`
	ChannelRequested  string         `json:"channel_requested,omitempty"`
	PathFallback      bool           `json:"path_fallback,omitempty"` // category resolved via raw category-path match
}

// Result is the outcome of one tool invocation. On success Data holds the
// tool-specific payload; on failure Err is set and Candidates/Portions carry
// material for a clarification question.
type Result struct {
	OK         bool                `json:"ok"`
	Tool       string              `json:"tool"`
	Data       any                 `json:"data,omitempty"`
	Err        *Error              `json:"error,omitempty"`
	Candidates []resolve.Candidate `json:"candidates,omitempty"`
	Portions   []PortionOption     `json:"portion_options,omitempty"`
	Meta       Meta                `json:"meta,omitempty"`
}

// PriceData is the payload of a successful price lookup.
type PriceData struct {
	ItemID       int      `json:"item_id"`
	ItemName     string   `json:"item_name"`
	ItemTitle    string   `json:"item_title"`
	Portion      string   `json:"portion,omitempty"`
	Price        float64  `json:"price"`
	CategoryPath []string `json:"category_path,omitempty"`
}

// CaloriesData is the payload of a successful calorie lookup.
type CaloriesData struct {
	ItemID       int                  `json:"item_id"`
	ItemName     string               `json:"item_name"`
	Calories     int                  `json:"calories"`
	Source       ports.CaloriesSource `json:"source"`
	CategoryPath []string             `json:"category_path,omitempty"`
}

// CategoryItem is one listed item in a category listing.
type CategoryItem struct {
	ItemID int    `json:"item_id"`
	Name   string `json:"name"`
	Title  string `json:"title"`
}

// CategoryData is the payload of a successful category listing.
type CategoryData struct {
	Category string         `json:"category"`
	Count    int            `json:"count"`
	Items    []CategoryItem `json:"items"`
}

// DiscountSummary is one row of the discount listing.
type DiscountSummary struct {
	DiscountID int    `json:"discount_id"`
	Name       string `json:"name,omitempty"`
	HasCoupon  *bool  `json:"has_coupon,omitempty"` // nil when the payload carries no coupon field
}

// DiscountListData is the payload of the discount listing.
type DiscountListData struct {
	Count     int               `json:"count"`
	Discounts []DiscountSummary `json:"discounts"`
}

// DiscountDetailsData is the payload of a discount details lookup: the
// fixed allow-list of fields extracted from the opaque payload.
type DiscountDetailsData struct {
	DiscountID       int            `json:"discount_id"`
	Name             string         `json:"name,omitempty"`
	Fields           map[string]any `json:"fields,omitempty"`
	FieldsExtracted  []string       `json:"fields_extracted"`
	TargetItemsCount int            `json:"target_items_count,omitempty"`
}

// TriggerItem is one menu item that triggers a discount.
type TriggerItem struct {
	ItemID int    `json:"item_id"`
	Name   string `json:"name"`
}

// TriggersData is the payload of a discount triggers lookup. On a failed
// join (INCOMPLETE_DATA) it still carries the unmapped raw join keys for
// diagnostics.
type TriggersData struct {
	DiscountID   int           `json:"discount_id"`
	DiscountName string        `json:"discount_name,omitempty"`
	Items        []TriggerItem `json:"trigger_items,omitempty"`
	Count        int           `json:"count"`
	ItemGroupIDs []int         `json:"item_group_ids,omitempty"`
	PathKeys     []string      `json:"menu_item_path_keys,omitempty"`
}
