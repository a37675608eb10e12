// Package export writes the inspection views to disk as CSV, JSONL, and a
// summary JSON. Output is deterministic: row order comes from the inspect
// package and column order is fixed here.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/corey/menuqa/internal/domain/inspect"
	"github.com/corey/menuqa/internal/ports"
)

// All writes every view into dir, creating it if needed.
func All(dir string, t ports.Tables) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create export dir %s: %w", dir, err)
	}

	items := inspect.ItemRows(t)
	prices := inspect.PriceRows(t)
	categories := inspect.CategoryRows(t)
	discounts := inspect.DiscountRows(t)

	steps := []struct {
		name string
		fn   func() error
	}{
		{"items.csv", func() error { return writeCSV(filepath.Join(dir, "items.csv"), itemHeader, itemRecords(items)) }},
		{"prices.csv", func() error {
			return writeCSV(filepath.Join(dir, "prices.csv"), priceHeader, priceRecords(prices))
		}},
		{"categories.csv", func() error {
			return writeCSV(filepath.Join(dir, "categories.csv"), categoryHeader, categoryRecords(categories))
		}},
		{"discounts.csv", func() error {
			return writeCSV(filepath.Join(dir, "discounts.csv"), discountHeader, discountRecords(discounts))
		}},
		{"items.jsonl", func() error { return writeJSONL(filepath.Join(dir, "items.jsonl"), items) }},
		{"prices.jsonl", func() error { return writeJSONL(filepath.Join(dir, "prices.jsonl"), prices) }},
		{"categories.jsonl", func() error { return writeJSONL(filepath.Join(dir, "categories.jsonl"), categories) }},
		{"discounts.jsonl", func() error { return writeJSONL(filepath.Join(dir, "discounts.jsonl"), discounts) }},
		{"summary.json", func() error { return writeJSON(filepath.Join(dir, "summary.json"), inspect.Summarize(t)) }},
	}
	for _, step := range steps {
		if err := step.fn(); err != nil {
			return fmt.Errorf("export %s: %w", step.name, err)
		}
	}
	return nil
}

var (
	itemHeader = []string{
		"item_id", "name", "title", "category_path", "category_leaf",
		"item_path_key", "num_prices", "has_portions", "portions",
		"min_price", "max_price", "calories", "calories_source",
		"num_applicable_discounts", "applicable_discount_ids", "has_description",
	}
	priceHeader    = []string{"item_id", "name", "portion", "price", "category_path", "item_path_key"}
	categoryHeader = []string{"category_id", "title", "category_path", "leaf", "item_count_by_leaf"}
	discountHeader = []string{"discount_id", "name", "raw_keys", "has_coupon_hint"}
)

func itemRecords(rows []inspect.ItemRow) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = []string{
			strconv.Itoa(r.ItemID), r.Name, r.Title, r.CategoryPath, r.CategoryLeaf,
			r.PathKey, strconv.Itoa(r.NumPrices), strconv.FormatBool(r.HasPortions), r.Portions,
			optFloat(r.MinPrice), optFloat(r.MaxPrice), optInt(r.Calories), r.CaloriesSource,
			strconv.Itoa(r.NumDiscounts), r.DiscountIDs, strconv.FormatBool(r.HasDescription),
		}
	}
	return out
}

func priceRecords(rows []inspect.PriceRow) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = []string{
			strconv.Itoa(r.ItemID), r.Name, r.Portion,
			strconv.FormatFloat(r.Price, 'f', -1, 64), r.CategoryPath, r.PathKey,
		}
	}
	return out
}

func categoryRecords(rows []inspect.CategoryRow) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = []string{
			strconv.Itoa(r.CategoryID), r.Title, r.CategoryPath, r.Leaf,
			strconv.Itoa(r.ItemCountByLeaf),
		}
	}
	return out
}

func discountRecords(rows []inspect.DiscountRow) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = []string{
			strconv.Itoa(r.DiscountID), r.Name, r.RawKeys, strconv.FormatBool(r.HasCouponHint),
		}
	}
	return out
}

func optFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func optInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func writeCSV(path string, header []string, records [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	if err := w.WriteAll(records); err != nil {
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}

func writeJSONL[T any](path string, rows []T) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	for _, row := range rows {
		if err := enc.Encode(row); err != nil {
			return err
		}
	}
	return f.Close()
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
