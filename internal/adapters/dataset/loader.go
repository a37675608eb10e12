// Package dataset loads the raw menu dataset JSON and flattens its nested
// node tree into the entity tables the domain works with. All structural
// assumptions about the vendor format live here; nothing above this package
// touches raw JSON.
package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// Load reads and decodes the dataset file into a generic JSON object.
func Load(path string) (map[string]any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", path, err)
	}
	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse dataset %s: %w", path, err)
	}
	return data, nil
}

// MenuRoots locates the top-level menu tree nodes. The expected shape is
// {"value": {"children": [...], ...}}; failing that, any top-level object
// carrying "children" or "itemMasterId" is accepted as a root.
func MenuRoots(data map[string]any) ([]map[string]any, error) {
	if value, ok := data["value"].(map[string]any); ok {
		if _, has := value["children"]; has {
			return []map[string]any{value}, nil
		}
		if _, has := value["itemMasterId"]; has {
			return []map[string]any{value}, nil
		}
	}

	if _, ok := data["children"].([]any); ok {
		return []map[string]any{data}, nil
	}

	// Sorted keys keep root order stable across loads.
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var roots []map[string]any
	for _, k := range keys {
		node, ok := data[k].(map[string]any)
		if !ok {
			continue
		}
		if _, has := node["children"]; has {
			roots = append(roots, node)
			continue
		}
		if _, has := node["itemMasterId"]; has {
			roots = append(roots, node)
		}
	}
	if len(roots) == 0 {
		return nil, fmt.Errorf(`no menu root found, expected {"value": {"children": [...]}}`)
	}
	return roots, nil
}
