package dataset

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/corey/menuqa/internal/ports"
)

// Node types observed in the vendor format. Everything else (modifier
// groups, menu roots) is skipped during normalization.
const (
	itemTypeSellable = 1
	itemTypeCategory = 6
)

var caloriesRE = regexp.MustCompile(`(?i)\b(\d{2,4})\s*calories?\b`)

// BuildTables flattens the raw dataset into the entity tables. Nodes with
// missing ids or titles are dropped rather than guessed at; a later node
// with the same id wins, matching the traversal order.
func BuildTables(data map[string]any) (ports.Tables, error) {
	tables := ports.Tables{
		Items:      map[int]*ports.MenuItem{},
		Categories: map[int]*ports.Category{},
		Discounts:  extractDiscounts(data),
	}

	roots, err := MenuRoots(data)
	if err != nil {
		return ports.Tables{}, err
	}

	for _, root := range roots {
		walkNodes(root, func(ctx NodeContext) {
			nodeType, _ := asInt(ctx.Node["itemType"])
			id, hasID := asInt(ctx.Node["itemMasterId"])
			if !hasID {
				return
			}

			switch nodeType {
			case itemTypeCategory:
				title := bestTitle(ctx.Node)
				if title == "" {
					return
				}
				tables.Categories[id] = &ports.Category{
					ID:    id,
					Title: title,
					Path:  append(categoryTitles(ctx.Ancestors), title),
				}

			case itemTypeSellable:
				title := bestTitle(ctx.Node)
				if title == "" {
					return
				}
				calories, source := extractCalories(ctx.Node)
				pathKey, _ := ctx.Node["itemPathKey"].(string)
				tables.Items[id] = &ports.MenuItem{
					ID:           id,
					PathKey:      pathKey,
					Title:        title,
					Name:         bestName(ctx.Node, title),
					CategoryPath: categoryTitles(ctx.Ancestors),
					Prices:       extractPrices(ctx.Node),
					Calories:     calories,
					CaloriesFrom: source,
					Description:  bestDescription(ctx.Node),
					DiscountIDs:  extractDiscountIDs(ctx.Node),
				}
			}
		})
	}

	return tables, nil
}

// bestTitle prefers the node's own title, then the display-attribute title
// variants in a fixed order.
func bestTitle(node map[string]any) string {
	if t, ok := node["title"].(string); ok && strings.TrimSpace(t) != "" {
		return strings.TrimSpace(t)
	}
	if da, ok := node["displayAttribute"].(map[string]any); ok {
		for _, key := range []string{"itemTitle", "screenTitle", "checkTitle", "kitchenTitle", "title"} {
			if v, ok := da[key].(string); ok && strings.TrimSpace(v) != "" {
				return strings.TrimSpace(v)
			}
		}
	}
	return ""
}

func bestName(node map[string]any, fallback string) string {
	if da, ok := node["displayAttribute"].(map[string]any); ok {
		if v, ok := da["itemTitle"].(string); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return fallback
}

func bestDescription(node map[string]any) string {
	if da, ok := node["displayAttribute"].(map[string]any); ok {
		if v, ok := da["description"].(string); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	for _, key := range []string{"description", "desc"} {
		if v, ok := node[key].(string); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// extractPrices returns the item's prices: a direct numeric price field
// wins, otherwise the priceAttribute.prices list is read entry by entry.
// Nil means no pricing found.
func extractPrices(node map[string]any) []ports.Price {
	for _, key := range []string{"price", "basePrice", "unitPrice"} {
		if v, ok := node[key].(float64); ok {
			return []ports.Price{{Amount: v}}
		}
	}

	pa, ok := node["priceAttribute"].(map[string]any)
	if !ok {
		return nil
	}
	entries, ok := pa["prices"].([]any)
	if !ok {
		return nil
	}

	var out []ports.Price
	for _, e := range entries {
		entry, ok := e.(map[string]any)
		if !ok {
			continue
		}
		amount, ok := entry["price"].(float64)
		if !ok {
			continue
		}
		label := firstString(entry, "portionTypeId", "portion", "label")
		out = append(out, ports.Price{Portion: portionLabel(label), Amount: amount})
	}
	return out
}

// portionLabel canonicalizes common portion abbreviations to display form
// and title-cases anything else that arrived all-lowercase.
func portionLabel(label string) string {
	s := strings.TrimSpace(label)
	if s == "" {
		return ""
	}
	switch strings.ToLower(s) {
	case "sm", "small":
		return "Small"
	case "md", "med", "medium":
		return "Medium"
	case "lg", "large":
		return "Large"
	}
	if s == strings.ToLower(s) {
		return strings.ToUpper(s[:1]) + s[1:]
	}
	return s
}

// extractCalories reads structured nutrition info first, then falls back to
// parsing "NNN calories" out of the description.
func extractCalories(node map[string]any) (*int, ports.CaloriesSource) {
	if ni, ok := node["nutritionInfo"].(map[string]any); ok {
		if c, ok := asInt(ni["calories"]); ok {
			return &c, ports.CaloriesStructured
		}
	}

	if m := caloriesRE.FindStringSubmatch(bestDescription(node)); m != nil {
		c, err := strconv.Atoi(m[1])
		if err == nil {
			return &c, ports.CaloriesParsed
		}
	}
	return nil, ports.CaloriesMissing
}

func extractDiscountIDs(node map[string]any) []int {
	entries, ok := node["applicableDiscounts"].([]any)
	if !ok {
		return nil
	}
	seen := map[int]bool{}
	var out []int
	for _, e := range entries {
		entry, ok := e.(map[string]any)
		if !ok {
			continue
		}
		id, ok := asInt(entry["discountId"])
		if !ok {
			id, ok = asInt(entry["id"])
		}
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// extractDiscounts finds the discount table. Primary location is
// value.discounts keyed by id; top-level "discounts" as an object or array
// is the fallback. The raw payload is kept verbatim for the details tool.
func extractDiscounts(data map[string]any) map[int]*ports.Discount {
	if value, ok := data["value"].(map[string]any); ok {
		if table, ok := value["discounts"].(map[string]any); ok {
			return discountsFromObject(table)
		}
	}

	switch d := data["discounts"].(type) {
	case map[string]any:
		return discountsFromObject(d)
	case []any:
		out := map[int]*ports.Discount{}
		for _, e := range d {
			payload, ok := e.(map[string]any)
			if !ok {
				continue
			}
			id, ok := asInt(payload["id"])
			if !ok {
				id, ok = asInt(payload["discountId"])
			}
			if !ok {
				continue
			}
			out[id] = discountRecord(id, payload)
		}
		return out
	}
	return map[int]*ports.Discount{}
}

func discountsFromObject(table map[string]any) map[int]*ports.Discount {
	out := map[int]*ports.Discount{}
	for key, v := range table {
		payload, ok := v.(map[string]any)
		if !ok {
			continue
		}
		id, ok := asInt(key)
		if !ok {
			if id, ok = asInt(payload["id"]); !ok {
				continue
			}
		}
		out[id] = discountRecord(id, payload)
	}
	return out
}

func discountRecord(id int, payload map[string]any) *ports.Discount {
	name, _ := payload["checkTitle"].(string)
	return &ports.Discount{ID: id, Name: strings.TrimSpace(name), Raw: payload}
}

// categoryTitles collects the titles of category-typed ancestors, root
// first.
func categoryTitles(ancestors []map[string]any) []string {
	var out []string
	for _, a := range ancestors {
		if t, ok := asInt(a["itemType"]); !ok || t != itemTypeCategory {
			continue
		}
		if title := bestTitle(a); title != "" {
			out = append(out, title)
		}
	}
	return out
}

func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		switch v := m[k].(type) {
		case string:
			if strings.TrimSpace(v) != "" {
				return v
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}

// asInt coerces JSON-decoded numbers and digit strings to int.
func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
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

func sortedKeys(set map[int]bool) []int {
	out := make([]int, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}
