package cmd

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/corey/menuqa/internal/adapters/watch"
	"github.com/corey/menuqa/internal/adapters/web"
	"github.com/corey/menuqa/internal/app"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the question answering API over HTTP",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.HTTPAddr = serveAddr
	}
	logger := newServeLogger(cfg.Debug)
	defer logger.Sync()

	a, _, err := app.New(cfg, logger)
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
		logger.Info("watching dataset for changes", zap.String("path", cfg.DatasetPath))
	}

	srv := web.NewServer(a, logger)
	if err := srv.Start(cfg.HTTPAddr); err != nil {
		return err
	}
	defer srv.Stop()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	logger.Info("shutting down")
	return nil
}
