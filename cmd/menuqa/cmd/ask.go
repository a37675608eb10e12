package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/corey/menuqa/internal/app"
)

var askJSON bool

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer a single question",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askJSON, "json", false, "emit the full answer object as JSON")
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg.Debug)
	defer logger.Sync()

	a, _, err := app.New(cfg, logger)
	if err != nil {
		return err
	}

	question := strings.Join(args, " ")
	ans := a.Ask(cmd.Context(), question, nil)

	if askJSON {
		out, err := json.MarshalIndent(struct {
			Answer string            `json:"answer"`
			Route  app.RouteDecision `json:"route"`
		}{ans.Text, ans.Route}, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	fmt.Println(ans.Text)
	if cfg.Debug {
		fmt.Printf("[router=%s reason=%s intent=%s]\n",
			ans.Route.Source, ans.Route.Reason, ans.Route.Route.Intent)
	}
	return nil
}
