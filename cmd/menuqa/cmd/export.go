package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/corey/menuqa/internal/adapters/export"
	"github.com/corey/menuqa/internal/app"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the entity tables as CSV, JSONL, and a summary",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output directory (overrides config)")
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if exportOut != "" {
		cfg.ExportDir = exportOut
	}

	tables, err := app.LoadTables(cfg.DatasetPath)
	if err != nil {
		return err
	}
	if err := export.All(cfg.ExportDir, tables); err != nil {
		return err
	}

	fmt.Printf("Exported %d items, %d categories, %d discounts to %s\n",
		len(tables.Items), len(tables.Categories), len(tables.Discounts), cfg.ExportDir)
	return nil
}
