package tools

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/corey/menuqa/internal/domain/resolve"
	"github.com/corey/menuqa/internal/domain/textnorm"
	"github.com/corey/menuqa/internal/ports"
)

// Tool names, used by the reply formatter.
const (
	ToolItemPrice        = "get_item_price"
	ToolItemCalories     = "get_item_calories"
	ToolCategoryItems    = "list_items_by_category"
	ToolListDiscounts    = "list_discounts"
	ToolDiscountDetails  = "discount_details"
	ToolDiscountTriggers = "discount_triggers"
	ToolChannelCompare   = "compare_price_across_channels"
)

// detailFields is the allow-list of payload fields the details tool extracts
// from a discount's opaque payload.
var detailFields = []string{
	"typeId", "categoryId", "amount", "couponCode",
	"maximumUsages", "discountMaxAmount", "autoApply",
}

// Tools bundles the entity query operations around a shared resolver.
type Tools struct {
	resolver *resolve.Resolver
}

// New creates the tool set.
func New(r *resolve.Resolver) *Tools {
	return &Tools{resolver: r}
}

// resolveFailure translates a resolver failure into a tool error result.
// AMBIGUOUS is reserved for true collisions and high-confidence ambiguity
// (two or more candidates at or above the accept threshold); every other
// failure is NOT_FOUND with the candidates offered as suggestions.
func resolveFailure(rr resolve.Result, tool, query string) *Result {
	if rr.OK {
		return nil
	}

	ambiguous := rr.Reason == resolve.ReasonAmbiguousExact
	if rr.Reason == resolve.ReasonFuzzyAmbiguous {
		high := 0
		for _, c := range rr.Candidates {
			if c.Score >= resolve.AcceptThreshold {
				high++
			}
		}
		ambiguous = high >= 2
	}

	code := CodeNotFound
	msg := fmt.Sprintf("I couldn't find '%s'. Did you mean one of these?", query)
	if ambiguous {
		code = CodeAmbiguous
		msg = fmt.Sprintf("I found multiple matches for '%s'. Which one did you mean?", query)
	}
	return &Result{
		Tool:       tool,
		Err:        &Error{Code: code, Message: msg},
		Candidates: rr.Candidates,
		Meta:       Meta{ResolveReason: rr.Reason, Query: query},
	}
}

// joinHuman renders "a", "a and b", "a, b, and c".
func joinHuman(parts []string) string {
	out := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	switch len(out) {
	case 0:
		return ""
	case 1:
		return out[0]
	case 2:
		return out[0] + " and " + out[1]
	default:
		return strings.Join(out[:len(out)-1], ", ") + ", and " + out[len(out)-1]
	}
}

func portionOptions(item *ports.MenuItem) ([]PortionOption, []string) {
	var opts []PortionOption
	var labels []string
	for _, p := range item.Prices {
		if p.Portion == "" {
			continue
		}
		opts = append(opts, PortionOption{Portion: p.Portion, Price: p.Amount})
		labels = append(labels, p.Portion)
	}
	return opts, labels
}

// ItemPrice looks up the price of an item, disambiguating portions.
// channel is advisory only; the dataset carries no channel-specific pricing
// and a non-empty channel is merely recorded in the result meta.
func (t *Tools) ItemPrice(idx *resolve.Index, itemQuery, portion, channel string) Result {
	rr := t.resolver.ResolveItem(idx, itemQuery)
	if fail := resolveFailure(rr, ToolItemPrice, itemQuery); fail != nil {
		return *fail
	}
	item := idx.Items[rr.ResolvedID]

	meta := Meta{
		ResolveReason:    rr.Reason,
		ResolvedID:       item.ID,
		ResolvedName:     item.Name,
		ChannelRequested: channel,
	}

	if len(item.Prices) == 0 {
		return Result{
			Tool: ToolItemPrice,
			Err:  &Error{Code: CodeIncompleteData, Message: "No price data found for this item."},
			Meta: meta,
		}
	}

	if len(item.Prices) == 1 {
		p := item.Prices[0]
		return Result{
			OK:   true,
			Tool: ToolItemPrice,
			Data: PriceData{
				ItemID:       item.ID,
				ItemName:     item.Name,
				ItemTitle:    item.Title,
				Portion:      p.Portion,
				Price:        p.Amount,
				CategoryPath: item.CategoryPath,
			},
			Meta: meta,
		}
	}

	// Portion-priced item.
	opts, labels := portionOptions(item)
	meta.AvailablePortions = labels
	portionMsg := fmt.Sprintf("%s is available in %s. Which portion do you want?", item.Name, joinHuman(labels))

	if portion == "" {
		return Result{
			Tool:     ToolItemPrice,
			Err:      &Error{Code: CodeAmbiguous, Message: portionMsg},
			Portions: opts,
			Meta:     meta,
		}
	}

	req := textnorm.NormalizePortion(portion)
	if req == "" {
		return Result{
			Tool:     ToolItemPrice,
			Err:      &Error{Code: CodeInvalidArgument, Message: portionMsg},
			Portions: opts,
			Meta:     meta,
		}
	}
	meta.PortionNormalized = req

	for _, p := range item.Prices {
		if textnorm.NormalizePortion(p.Portion) == req {
			return Result{
				OK:   true,
				Tool: ToolItemPrice,
				Data: PriceData{
					ItemID:       item.ID,
					ItemName:     item.Name,
					ItemTitle:    item.Title,
					Portion:      p.Portion,
					Price:        p.Amount,
					CategoryPath: item.CategoryPath,
				},
				Meta: meta,
			}
		}
	}

	return Result{
		Tool:     ToolItemPrice,
		Err:      &Error{Code: CodeInvalidArgument, Message: portionMsg},
		Portions: opts,
		Meta:     meta,
	}
}

// ItemCalories looks up an item's calories with its provenance tag.
func (t *Tools) ItemCalories(idx *resolve.Index, itemQuery string) Result {
	rr := t.resolver.ResolveItem(idx, itemQuery)
	if fail := resolveFailure(rr, ToolItemCalories, itemQuery); fail != nil {
		return *fail
	}
	item := idx.Items[rr.ResolvedID]
	meta := Meta{ResolveReason: rr.Reason, ResolvedID: item.ID, ResolvedName: item.Name}

	if item.Calories == nil {
		return Result{
			Tool: ToolItemCalories,
			Err:  &Error{Code: CodeIncompleteData, Message: "Calories not available for this item."},
			Meta: meta,
		}
	}

	source := item.CaloriesFrom
	if source == "" {
		source = ports.CaloriesStructured
	}
	return Result{
		OK:   true,
		Tool: ToolItemCalories,
		Data: CaloriesData{
			ItemID:       item.ID,
			ItemName:     item.Name,
			Calories:     *item.Calories,
			Source:       source,
			CategoryPath: item.CategoryPath,
		},
		Meta: meta,
	}
}

// ItemsByCategory lists items under a category. The category name goes
// through the resolver first; if that fails, items whose category path
// contains the raw query (normalized compare) are matched directly before
// the resolver's error is surfaced.
func (t *Tools) ItemsByCategory(idx *resolve.Index, categoryQuery string) Result {
	rr := t.resolver.ResolveCategory(idx, categoryQuery)

	if !rr.OK {
		normQ := textnorm.Normalize(categoryQuery)
		var hits []*ports.MenuItem
		for _, it := range idx.Items {
			if pathContains(it.CategoryPath, normQ) {
				hits = append(hits, it)
			}
		}
		if len(hits) > 0 {
			return Result{
				OK:   true,
				Tool: ToolCategoryItems,
				Data: CategoryData{
					Category: categoryQuery,
					Count:    len(hits),
					Items:    categoryItems(hits),
				},
				Meta: Meta{ResolveReason: rr.Reason, PathFallback: true},
			}
		}
		if fail := resolveFailure(rr, ToolCategoryItems, categoryQuery); fail != nil {
			return *fail
		}
	}

	title := idx.Categories[rr.ResolvedID].Title
	normTitle := textnorm.Normalize(title)
	var matching []*ports.MenuItem
	for _, it := range idx.Items {
		if pathContains(it.CategoryPath, normTitle) || textnorm.Normalize(it.Title) == normTitle {
			matching = append(matching, it)
		}
	}

	return Result{
		OK:   true,
		Tool: ToolCategoryItems,
		Data: CategoryData{
			Category: title,
			Count:    len(matching),
			Items:    categoryItems(matching),
		},
		Meta: Meta{ResolveReason: rr.Reason, ResolvedID: rr.ResolvedID, ResolvedName: title},
	}
}

func pathContains(path []string, norm string) bool {
	for _, p := range path {
		if textnorm.Normalize(p) == norm {
			return true
		}
	}
	return false
}

// categoryItems converts and sorts items case-insensitively by name.
func categoryItems(items []*ports.MenuItem) []CategoryItem {
	out := make([]CategoryItem, 0, len(items))
	for _, it := range items {
		out = append(out, CategoryItem{ItemID: it.ID, Name: it.Name, Title: it.Title})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := strings.ToLower(out[i].Name), strings.ToLower(out[j].Name)
		if a != b {
			return a < b
		}
		return out[i].ItemID < out[j].ItemID
	})
	return out
}

// ListDiscounts lists every discount with a best-effort coupon flag pulled
// from the opaque payload.
func (t *Tools) ListDiscounts(idx *resolve.Index) Result {
	out := make([]DiscountSummary, 0, len(idx.Discounts))
	for _, d := range idx.Discounts {
		row := DiscountSummary{DiscountID: d.ID, Name: d.Name}
		if coupon, ok := d.Raw["couponCode"]; ok {
			has := strings.TrimSpace(fmt.Sprint(coupon)) != ""
			row.HasCoupon = &has
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].DiscountID < out[j].DiscountID
	})
	return Result{
		OK:   true,
		Tool: ToolListDiscounts,
		Data: DiscountListData{Count: len(out), Discounts: out},
	}
}

// DiscountDetails resolves a discount by id or name and extracts the fixed
// allow-list of fields from its opaque payload.
func (t *Tools) DiscountDetails(idx *resolve.Index, discountQuery string) Result {
	rr := t.resolver.ResolveDiscount(idx, discountQuery)
	if fail := resolveFailure(rr, ToolDiscountDetails, discountQuery); fail != nil {
		return *fail
	}
	d := idx.Discounts[rr.ResolvedID]

	data := DiscountDetailsData{
		DiscountID: d.ID,
		Name:       d.Name,
		Fields:     map[string]any{},
	}
	for _, k := range detailFields {
		if v, ok := d.Raw[k]; ok {
			data.Fields[k] = v
			data.FieldsExtracted = append(data.FieldsExtracted, k)
		}
	}
	if targets, ok := d.Raw["targetItems"].([]any); ok {
		data.TargetItemsCount = len(targets)
		data.FieldsExtracted = append(data.FieldsExtracted, "targetItems")
	}

	return Result{
		OK:   true,
		Tool: ToolDiscountDetails,
		Data: data,
		Meta: Meta{ResolveReason: rr.Reason, ResolvedID: d.ID, ResolvedName: d.Name},
	}
}

// DiscountTriggers resolves a discount and joins its target-item list (by
// opaque path key) against the item table. A join that maps to zero items is
// INCOMPLETE_DATA, with the unmapped raw keys kept for diagnostics.
func (t *Tools) DiscountTriggers(idx *resolve.Index, discountQuery string) Result {
	rr := t.resolver.ResolveDiscount(idx, discountQuery)
	if fail := resolveFailure(rr, ToolDiscountTriggers, discountQuery); fail != nil {
		return *fail
	}
	d := idx.Discounts[rr.ResolvedID]

	byPathKey := make(map[string]*ports.MenuItem)
	for _, it := range idx.Items {
		if it.PathKey != "" {
			byPathKey[it.PathKey] = it
		}
	}

	var pathKeys []string
	groupIDs := map[int]bool{}
	if targets, ok := d.Raw["targetItems"].([]any); ok {
		for _, target := range targets {
			entry, ok := target.(map[string]any)
			if !ok {
				continue
			}
			if key, ok := entry["menuItemPathKey"].(string); ok && strings.TrimSpace(key) != "" {
				pathKeys = append(pathKeys, strings.TrimSpace(key))
			}
			if details, ok := entry["discountDetails"].(map[string]any); ok {
				if gid, ok := asInt(details["itemGroupId"]); ok {
					groupIDs[gid] = true
				}
			}
		}
	}

	var items []TriggerItem
	for _, key := range pathKeys {
		if it, ok := byPathKey[key]; ok {
			items = append(items, TriggerItem{ItemID: it.ID, Name: it.Name})
		}
	}
	sort.Slice(items, func(i, j int) bool {
		a, b := strings.ToLower(items[i].Name), strings.ToLower(items[j].Name)
		if a != b {
			return a < b
		}
		return items[i].ItemID < items[j].ItemID
	})

	sortedGroups := make([]int, 0, len(groupIDs))
	for gid := range groupIDs {
		sortedGroups = append(sortedGroups, gid)
	}
	sort.Ints(sortedGroups)

	if len(items) == 0 {
		return Result{
			Tool: ToolDiscountTriggers,
			Err: &Error{
				Code:    CodeIncompleteData,
				Message: "Could not map discount targets to menu items with the available dataset fields.",
			},
			Data: TriggersData{
				DiscountID:   d.ID,
				DiscountName: d.Name,
				ItemGroupIDs: sortedGroups,
				PathKeys:     pathKeys,
			},
			Meta: Meta{ResolveReason: rr.Reason, ResolvedID: d.ID},
		}
	}

	return Result{
		OK:   true,
		Tool: ToolDiscountTriggers,
		Data: TriggersData{
			DiscountID:   d.ID,
			DiscountName: d.Name,
			Items:        items,
			Count:        len(items),
			ItemGroupIDs: sortedGroups,
		},
		Meta: Meta{ResolveReason: rr.Reason, ResolvedID: d.ID},
	}
}

// ComparePriceAcrossChannels always reports UNSUPPORTED: the dataset model
// carries no channel-specific pricing, and saying so beats guessing.
func (t *Tools) ComparePriceAcrossChannels(idx *resolve.Index, itemQuery, portion string) Result {
	return Result{
		Tool: ToolChannelCompare,
		Err: &Error{
			Code:    CodeUnsupported,
			Message: "This dataset does not include channel-specific pricing overrides.",
		},
	}
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	case string:
		out, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, false
		}
		return out, true
	default:
		return 0, false
	}
}
