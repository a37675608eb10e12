// Package ports defines the shared record types and interfaces (contracts)
// that adapters must implement. These are the boundaries of the hexagonal
// architecture. Domain logic depends only on these types, never on concrete
// implementations.
package ports

// Price is a single price entry for a menu item. Portion is empty for
// single-priced items. An item with more than one price carries a portion
// label on every entry; single-price items never mix with portioned ones.
type Price struct {
	Portion string  `json:"portion,omitempty"` // e.g. "Small", "Large"
	Amount  float64 `json:"price"`
}

// CaloriesSource tags where an item's calorie value came from.
type CaloriesSource string

const (
	CaloriesStructured CaloriesSource = "structured" // from a nutrition field
	CaloriesParsed     CaloriesSource = "parsed"     // regex-parsed from description text
	CaloriesMissing    CaloriesSource = "missing"
)

// MenuItem is a flat, normalized sellable item record.
// Name and Title are always non-empty; ID is unique across the item table.
type MenuItem struct {
	ID           int            `json:"item_id"`
	PathKey      string         `json:"item_path_key,omitempty"` // opaque join key against discount targets
	Title        string         `json:"title"`                   // raw node label
	Name         string         `json:"name"`                    // display label, falls back to Title
	CategoryPath []string       `json:"category_path,omitempty"` // category titles from root to parent
	Prices       []Price        `json:"prices,omitempty"`
	Calories     *int           `json:"calories,omitempty"`
	CaloriesFrom CaloriesSource `json:"calories_source,omitempty"`
	Description  string         `json:"description,omitempty"`
	DiscountIDs  []int          `json:"applicable_discount_ids,omitempty"`
}

// Category is a flat category record. ID is unique.
type Category struct {
	ID    int      `json:"category_id"`
	Title string   `json:"title"`
	Path  []string `json:"category_path,omitempty"` // root to self
}

// Discount is a flat discount record. Name may be empty; nameless discounts
// are only reachable by direct id lookup. Raw is the opaque source payload,
// passed through unmodified for tool-specific field extraction.
type Discount struct {
	ID   int            `json:"discount_id"`
	Name string         `json:"name,omitempty"`
	Raw  map[string]any `json:"raw,omitempty"`
}

// Tables bundles the three flat entity tables produced by dataset
// normalization and consumed by the index builder.
type Tables struct {
	Items      map[int]*MenuItem
	Categories map[int]*Category
	Discounts  map[int]*Discount
}
