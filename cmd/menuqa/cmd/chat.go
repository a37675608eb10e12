package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/corey/menuqa/internal/adapters/watch"
	"github.com/corey/menuqa/internal/app"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive question loop",
	Long:  "Reads questions from stdin until EOF, 'exit', or 'quit'. Follow-ups like \"and how many calories?\" reuse the last resolved item.",
	RunE:  runChat,
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg.Debug)
	defer logger.Sync()

	a, summary, err := app.New(cfg, logger)
	if err != nil {
		return err
	}
	defer a.Stop()

	if cfg.Watch {
		w, err := watch.NewWatcher()
		if err != nil {
			return err
		}
		if err := a.StartWatch(w); err != nil {
			return err
		}
	}

	fmt.Printf("Loaded %d items, %d categories, %d discounts. Ask away (exit to quit).\n",
		summary.TotalItems, summary.TotalCategories, summary.TotalDiscounts)

	sess := app.NewSession()
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			break
		}

		ans := a.Ask(cmd.Context(), line, sess)
		fmt.Println(ans.Text)
		if cfg.Debug {
			fmt.Printf("[router=%s reason=%s intent=%s]\n",
				ans.Route.Source, ans.Route.Reason, ans.Route.Route.Intent)
		}
	}
	return scanner.Err()
}
