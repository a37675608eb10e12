// Package inspect flattens the entity tables into diff-stable row views for
// data quality checks and export. Every function sorts its output with a
// full tie-break chain so two runs over the same dataset produce identical
// rows.
package inspect

import (
	"fmt"
	"sort"
	"strings"

	"github.com/corey/menuqa/internal/ports"
)

// ItemRow is one menu item flattened for inspection.
type ItemRow struct {
	ItemID         int      `json:"item_id"`
	Name           string   `json:"name"`
	Title          string   `json:"title"`
	CategoryPath   string   `json:"category_path"`
	CategoryLeaf   string   `json:"category_leaf"`
	PathKey        string   `json:"item_path_key"`
	NumPrices      int      `json:"num_prices"`
	HasPortions    bool     `json:"has_portions"`
	Portions       string   `json:"portions"`
	MinPrice       *float64 `json:"min_price"`
	MaxPrice       *float64 `json:"max_price"`
	Calories       *int     `json:"calories"`
	CaloriesSource string   `json:"calories_source"`
	NumDiscounts   int      `json:"num_applicable_discounts"`
	DiscountIDs    string   `json:"applicable_discount_ids"`
	HasDescription bool     `json:"has_description"`
}

// PriceRow is one (item, price entry) pair.
type PriceRow struct {
	ItemID       int     `json:"item_id"`
	Name         string  `json:"name"`
	Portion      string  `json:"portion"`
	Price        float64 `json:"price"`
	CategoryPath string  `json:"category_path"`
	PathKey      string  `json:"item_path_key"`
}

// CategoryRow is one category with its leaf item count.
type CategoryRow struct {
	CategoryID      int    `json:"category_id"`
	Title           string `json:"title"`
	CategoryPath    string `json:"category_path"`
	Leaf            string `json:"leaf"`
	ItemCountByLeaf int    `json:"item_count_by_leaf"`
}

// DiscountRow is one discount with its payload shape summarized.
type DiscountRow struct {
	DiscountID    int    `json:"discount_id"`
	Name          string `json:"name"`
	RawKeys       string `json:"raw_keys"`
	HasCouponHint bool   `json:"has_coupon_hint"`
}

// Summary carries dataset coverage counts.
type Summary struct {
	NumItems              int `json:"num_items"`
	NumCategories         int `json:"num_categories"`
	NumDiscounts          int `json:"num_discounts"`
	ItemsWithPrices       int `json:"items_with_prices"`
	ItemsWithPortions     int `json:"items_with_portions"`
	CaloriesStructured    int `json:"calories_structured"`
	CaloriesParsed        int `json:"calories_parsed"`
	CaloriesMissingOrNull int `json:"calories_missing_or_null"`
}

func joinPath(parts []string) string {
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " > ")
}

func commaInts(values []int) string {
	strs := make([]string, len(values))
	for i, v := range values {
		strs[i] = fmt.Sprintf("%d", v)
	}
	return strings.Join(strs, ", ")
}

// ItemRows flattens the item table, sorted by category path, name, id.
func ItemRows(t ports.Tables) []ItemRow {
	rows := make([]ItemRow, 0, len(t.Items))
	for _, item := range t.Items {
		var portions []string
		seen := map[string]bool{}
		var minP, maxP *float64
		for _, p := range item.Prices {
			if p.Portion != "" && !seen[p.Portion] {
				seen[p.Portion] = true
				portions = append(portions, p.Portion)
			}
			v := p.Amount
			if minP == nil || v < *minP {
				minP = &v
			}
			if maxP == nil || v > *maxP {
				maxP = &v
			}
		}
		sort.Slice(portions, func(i, j int) bool {
			return strings.ToLower(portions[i]) < strings.ToLower(portions[j])
		})

		discIDs := append([]int(nil), item.DiscountIDs...)
		sort.Ints(discIDs)

		leaf := ""
		if len(item.CategoryPath) > 0 {
			leaf = item.CategoryPath[len(item.CategoryPath)-1]
		}

		rows = append(rows, ItemRow{
			ItemID:         item.ID,
			Name:           item.Name,
			Title:          item.Title,
			CategoryPath:   joinPath(item.CategoryPath),
			CategoryLeaf:   leaf,
			PathKey:        item.PathKey,
			NumPrices:      len(item.Prices),
			HasPortions:    len(portions) > 0,
			Portions:       strings.Join(portions, ", "),
			MinPrice:       minP,
			MaxPrice:       maxP,
			Calories:       item.Calories,
			CaloriesSource: string(item.CaloriesFrom),
			NumDiscounts:   len(discIDs),
			DiscountIDs:    commaInts(discIDs),
			HasDescription: strings.TrimSpace(item.Description) != "",
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if x, y := strings.ToLower(a.CategoryPath), strings.ToLower(b.CategoryPath); x != y {
			return x < y
		}
		if x, y := strings.ToLower(a.Name), strings.ToLower(b.Name); x != y {
			return x < y
		}
		return a.ItemID < b.ItemID
	})
	return rows
}

// PriceRows expands every price entry into its own row, sorted by name,
// portion, id.
func PriceRows(t ports.Tables) []PriceRow {
	var rows []PriceRow
	for _, item := range t.Items {
		path := joinPath(item.CategoryPath)
		for _, p := range item.Prices {
			rows = append(rows, PriceRow{
				ItemID:       item.ID,
				Name:         item.Name,
				Portion:      p.Portion,
				Price:        p.Amount,
				CategoryPath: path,
				PathKey:      item.PathKey,
			})
		}
	}

	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if x, y := strings.ToLower(a.Name), strings.ToLower(b.Name); x != y {
			return x < y
		}
		if x, y := strings.ToLower(a.Portion), strings.ToLower(b.Portion); x != y {
			return x < y
		}
		return a.ItemID < b.ItemID
	})
	return rows
}

// CategoryRows flattens the category table with per-leaf item counts.
func CategoryRows(t ports.Tables) []CategoryRow {
	leafCounts := map[string]int{}
	for _, item := range t.Items {
		if len(item.CategoryPath) > 0 {
			leafCounts[item.CategoryPath[len(item.CategoryPath)-1]]++
		}
	}

	rows := make([]CategoryRow, 0, len(t.Categories))
	for _, cat := range t.Categories {
		path := joinPath(cat.Path)
		if path == "" {
			path = cat.Title
		}
		rows = append(rows, CategoryRow{
			CategoryID:      cat.ID,
			Title:           cat.Title,
			CategoryPath:    path,
			Leaf:            cat.Title,
			ItemCountByLeaf: leafCounts[cat.Title],
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if x, y := strings.ToLower(a.CategoryPath), strings.ToLower(b.CategoryPath); x != y {
			return x < y
		}
		if x, y := strings.ToLower(a.Title), strings.ToLower(b.Title); x != y {
			return x < y
		}
		return a.CategoryID < b.CategoryID
	})
	return rows
}

// DiscountRows flattens the discount table. HasCouponHint is true when any
// payload key mentions a coupon.
func DiscountRows(t ports.Tables) []DiscountRow {
	rows := make([]DiscountRow, 0, len(t.Discounts))
	for _, disc := range t.Discounts {
		keys := make([]string, 0, len(disc.Raw))
		hint := false
		for k := range disc.Raw {
			keys = append(keys, k)
			if strings.Contains(strings.ToLower(k), "coupon") {
				hint = true
			}
		}
		sort.Strings(keys)

		rows = append(rows, DiscountRow{
			DiscountID:    disc.ID,
			Name:          disc.Name,
			RawKeys:       strings.Join(keys, ", "),
			HasCouponHint: hint,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if x, y := strings.ToLower(a.Name), strings.ToLower(b.Name); x != y {
			return x < y
		}
		return a.DiscountID < b.DiscountID
	})
	return rows
}

// Summarize computes dataset coverage counts. Items whose calories carry an
// unknown source tag count as missing for coverage purposes.
func Summarize(t ports.Tables) Summary {
	s := Summary{
		NumItems:      len(t.Items),
		NumCategories: len(t.Categories),
		NumDiscounts:  len(t.Discounts),
	}
	for _, item := range t.Items {
		if len(item.Prices) > 0 {
			s.ItemsWithPrices++
		}
		for _, p := range item.Prices {
			if p.Portion != "" {
				s.ItemsWithPortions++
				break
			}
		}
		switch {
		case item.Calories == nil:
			s.CaloriesMissingOrNull++
		case item.CaloriesFrom == ports.CaloriesStructured:
			s.CaloriesStructured++
		case item.CaloriesFrom == ports.CaloriesParsed:
			s.CaloriesParsed++
		default:
			s.CaloriesMissingOrNull++
		}
	}
	return s
}
