package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/corey/menuqa/internal/app"
	"github.com/corey/menuqa/internal/domain/inspect"
)

var inspectJSON bool

var inspectCmd = &cobra.Command{
	Use:       "inspect [items|prices|categories|discounts|summary]",
	Short:     "Print flattened entity tables for data quality checks",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"items", "prices", "categories", "discounts", "summary"},
	RunE:      runInspect,
}

func init() {
	inspectCmd.Flags().BoolVar(&inspectJSON, "json", false, "emit rows as JSON")
}

func runInspect(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	tables, err := app.LoadTables(cfg.DatasetPath)
	if err != nil {
		return err
	}

	view := "summary"
	if len(args) == 1 {
		view = args[0]
	}

	switch view {
	case "items":
		rows := inspect.ItemRows(tables)
		if inspectJSON {
			return printJSON(rows)
		}
		w := newTab()
		fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tPRICES\tPORTIONS\tCALORIES\tDISCOUNTS")
		for _, r := range rows {
			fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\t%s\t%d\n",
				r.ItemID, r.Name, r.CategoryPath, r.NumPrices, r.Portions,
				optIntStr(r.Calories), r.NumDiscounts)
		}
		return w.Flush()

	case "prices":
		rows := inspect.PriceRows(tables)
		if inspectJSON {
			return printJSON(rows)
		}
		w := newTab()
		fmt.Fprintln(w, "ID\tNAME\tPORTION\tPRICE\tCATEGORY")
		for _, r := range rows {
			fmt.Fprintf(w, "%d\t%s\t%s\t%.2f\t%s\n", r.ItemID, r.Name, r.Portion, r.Price, r.CategoryPath)
		}
		return w.Flush()

	case "categories":
		rows := inspect.CategoryRows(tables)
		if inspectJSON {
			return printJSON(rows)
		}
		w := newTab()
		fmt.Fprintln(w, "ID\tTITLE\tPATH\tITEMS")
		for _, r := range rows {
			fmt.Fprintf(w, "%d\t%s\t%s\t%d\n", r.CategoryID, r.Title, r.CategoryPath, r.ItemCountByLeaf)
		}
		return w.Flush()

	case "discounts":
		rows := inspect.DiscountRows(tables)
		if inspectJSON {
			return printJSON(rows)
		}
		w := newTab()
		fmt.Fprintln(w, "ID\tNAME\tCOUPON?\tRAW KEYS")
		for _, r := range rows {
			fmt.Fprintf(w, "%d\t%s\t%t\t%s\n", r.DiscountID, r.Name, r.HasCouponHint, r.RawKeys)
		}
		return w.Flush()

	case "summary":
		return printJSON(inspect.Summarize(tables))

	default:
		return fmt.Errorf("unknown view %q", view)
	}
}

func newTab() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func optIntStr(v *int) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *v)
}
