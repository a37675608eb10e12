package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/corey/menuqa/internal/adapters/dataset"
)

var ingestJSON bool

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Load the dataset and report traversal and normalization counts",
	RunE:  runIngest,
}

func init() {
	ingestCmd.Flags().BoolVar(&ingestJSON, "json", false, "emit the report as JSON")
}

type ingestReport struct {
	Traversal  dataset.TraversalSummary `json:"traversal"`
	Items      int                      `json:"items"`
	Categories int                      `json:"categories"`
	Discounts  int                      `json:"discounts"`
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	data, err := dataset.Load(cfg.DatasetPath)
	if err != nil {
		return err
	}
	traversal, err := dataset.Summarize(data)
	if err != nil {
		return err
	}
	tables, err := dataset.BuildTables(data)
	if err != nil {
		return err
	}

	report := ingestReport{
		Traversal:  traversal,
		Items:      len(tables.Items),
		Categories: len(tables.Categories),
		Discounts:  len(tables.Discounts),
	}

	if ingestJSON {
		out, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	fmt.Printf("Dataset: %s\n", cfg.DatasetPath)
	fmt.Printf("  roots: %d  nodes: %d  with children: %d  leaves: %d  item types: %v\n",
		traversal.Roots, traversal.TotalNodes, traversal.NodesWithChildren,
		traversal.LeafNodes, traversal.DistinctItemTypes)
	fmt.Printf("  items: %d  categories: %d  discounts: %d\n",
		report.Items, report.Categories, report.Discounts)
	return nil
}
