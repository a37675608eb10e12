// Package resolve maps free-text phrases to menu entities. It owns the
// name-based lookup index and the resolution algorithm that reconciles exact
// lookups, fuzzy matching, score thresholds, and tie-breaking into a single
// deterministic contract.
package resolve

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/corey/menuqa/internal/domain/textnorm"
	"github.com/corey/menuqa/internal/ports"
)

// EntityKind tags which entity table a query is resolved against.
type EntityKind string

const (
	KindItem     EntityKind = "item"
	KindCategory EntityKind = "category"
	KindDiscount EntityKind = "discount"
)

// Index holds the entity tables plus the derived lookup structures used for
// resolution. It is built once per dataset load and never mutated in place;
// a reload produces a wholly new Index that replaces the old one.
type Index struct {
	Items      map[int]*ports.MenuItem
	Categories map[int]*ports.Category
	Discounts  map[int]*ports.Discount

	// normalized full name -> entity ids (collisions possible)
	itemsByName      map[string][]int
	categoriesByName map[string][]int
	discountsByName  map[string][]int

	// "{id}|{variant}" -> normalized name, the fuzzy candidate pool
	itemChoices     map[string]string
	categoryChoices map[string]string
	discountChoices map[string]string
}

// BuildIndex derives the exact-match and fuzzy-match lookup structures from
// the flat entity tables. The build is a pure, order-independent fold: the
// output is fully determined by the input tables.
//
// Items register two name variants (name, title), categories their title,
// discounts their name when present. Discounts without a name appear in
// neither map and are only reachable by direct id lookup.
func BuildIndex(t ports.Tables) *Index {
	idx := &Index{
		Items:      t.Items,
		Categories: t.Categories,
		Discounts:  t.Discounts,

		itemsByName:      make(map[string][]int),
		categoriesByName: make(map[string][]int),
		discountsByName:  make(map[string][]int),

		itemChoices:     make(map[string]string),
		categoryChoices: make(map[string]string),
		discountChoices: make(map[string]string),
	}
	if idx.Items == nil {
		idx.Items = map[int]*ports.MenuItem{}
	}
	if idx.Categories == nil {
		idx.Categories = map[int]*ports.Category{}
	}
	if idx.Discounts == nil {
		idx.Discounts = map[int]*ports.Discount{}
	}

	for id, item := range idx.Items {
		for _, v := range []struct{ variant, raw string }{
			{"name", item.Name},
			{"title", item.Title},
		} {
			norm := textnorm.Normalize(v.raw)
			appendExact(idx.itemsByName, norm, id)
			addChoice(idx.itemChoices, id, v.variant, norm)
		}
	}

	for id, cat := range idx.Categories {
		norm := textnorm.Normalize(cat.Title)
		appendExact(idx.categoriesByName, norm, id)
		addChoice(idx.categoryChoices, id, "title", norm)
	}

	for id, disc := range idx.Discounts {
		if disc.Name == "" {
			continue
		}
		norm := textnorm.Normalize(disc.Name)
		appendExact(idx.discountsByName, norm, id)
		addChoice(idx.discountChoices, id, "name", norm)
	}

	// Collision lists are sorted so results never depend on map iteration
	// order.
	for _, m := range []map[string][]int{idx.itemsByName, idx.categoriesByName, idx.discountsByName} {
		for _, ids := range m {
			sort.Ints(ids)
		}
	}

	return idx
}

// appendExact adds id to the collision list for key, skipping empty keys and
// duplicate ids (two variants of the same entity can normalize identically).
func appendExact(m map[string][]int, key string, id int) {
	if key == "" {
		return
	}
	for _, existing := range m[key] {
		if existing == id {
			return
		}
	}
	m[key] = append(m[key], id)
}

func addChoice(m map[string]string, id int, variant, norm string) {
	if norm == "" {
		return
	}
	m[fmt.Sprintf("%d|%s", id, variant)] = norm
}

// displayItem returns the display string for an item id.
func (idx *Index) displayItem(id int) string {
	if it, ok := idx.Items[id]; ok {
		return it.Name
	}
	return strconv.Itoa(id)
}

func (idx *Index) displayCategory(id int) string {
	if c, ok := idx.Categories[id]; ok {
		return c.Title
	}
	return strconv.Itoa(id)
}

func (idx *Index) displayDiscount(id int) string {
	if d, ok := idx.Discounts[id]; ok && d.Name != "" {
		return d.Name
	}
	return strconv.Itoa(id)
}
