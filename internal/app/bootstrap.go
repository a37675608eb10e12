// Package app wires the adapters and domain logic into the question
// answering service: bootstrap, routing chain, tool dispatch, reply
// formatting, and dataset hot reload.
package app

import (
	"fmt"

	"github.com/corey/menuqa/internal/adapters/dataset"
	"github.com/corey/menuqa/internal/domain/resolve"
	"github.com/corey/menuqa/internal/ports"
)

// LoadSummary carries bootstrap counts for logging and the ingest command.
type LoadSummary struct {
	TotalItems        int      `json:"total_items"`
	TotalCategories   int      `json:"total_categories"`
	TotalDiscounts    int      `json:"total_discounts"`
	HasChannelPricing bool     `json:"has_channel_pricing"`
	Notes             []string `json:"notes,omitempty"`
}

// LoadTables loads and normalizes the dataset file. All-or-nothing: any
// failure, including a dataset that normalizes to zero items, returns an
// error and no tables.
func LoadTables(path string) (ports.Tables, error) {
	data, err := dataset.Load(path)
	if err != nil {
		return ports.Tables{}, err
	}
	tables, err := dataset.BuildTables(data)
	if err != nil {
		return ports.Tables{}, err
	}
	if len(tables.Items) == 0 {
		return ports.Tables{}, fmt.Errorf("no menu items found in %s after normalization", path)
	}
	return tables, nil
}

// LoadIndex loads the dataset and builds the resolution index.
func LoadIndex(path string) (*resolve.Index, error) {
	tables, err := LoadTables(path)
	if err != nil {
		return nil, err
	}
	return resolve.BuildIndex(tables), nil
}

// LoadIndexWithSummary is LoadIndex plus the bootstrap summary.
func LoadIndexWithSummary(path string) (*resolve.Index, LoadSummary, error) {
	idx, err := LoadIndex(path)
	if err != nil {
		return nil, LoadSummary{}, err
	}
	return idx, summarize(idx), nil
}

func summarize(idx *resolve.Index) LoadSummary {
	// The normalizer does not model per-channel price overrides; none have
	// been observed in this dataset family.
	return LoadSummary{
		TotalItems:      len(idx.Items),
		TotalCategories: len(idx.Categories),
		TotalDiscounts:  len(idx.Discounts),
		Notes:           []string{"no channel-specific price overrides detected in dataset"},
	}
}
