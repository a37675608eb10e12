package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/corey/menuqa/internal/config"
)

var (
	cfgFile     string
	datasetFlag string
	debugFlag   bool
)

var rootCmd = &cobra.Command{
	Use:   "menuqa",
	Short: "menuqa — menu question answering over a dataset export",
	Long:  "Answers price, calorie, category, and discount questions against a vendor menu dataset, with deterministic routing and optional LLM classification.",
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ./menuqa.yaml)")
	rootCmd.PersistentFlags().StringVar(&datasetFlag, "dataset", "", "dataset JSON file (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "verbose routing and resolution traces")

	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(exportCmd)
}

// loadConfig resolves config file, environment, and flag overrides.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return config.Config{}, err
	}
	if datasetFlag != "" {
		cfg.DatasetPath = datasetFlag
	}
	if debugFlag {
		cfg.Debug = true
	}
	return cfg, nil
}

// newLogger is silent unless --debug; one-shot commands should not spray
// structured logs over their own output.
func newLogger(debug bool) *zap.Logger {
	if !debug {
		return zap.NewNop()
	}
	l, err := zap.NewDevelopment()
	if err != nil {
		fmt.Println("logger init failed, continuing without logs:", err)
		return zap.NewNop()
	}
	return l
}

// newServeLogger always logs; the serve command runs unattended.
func newServeLogger(debug bool) *zap.Logger {
	if debug {
		return newLogger(true)
	}
	l, err := zap.NewProduction()
	if err != nil {
		return zap.NewNop()
	}
	return l
}
