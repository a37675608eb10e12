// Package config loads runtime configuration from an optional YAML file,
// MENUQA_* environment variables, and flag bindings, in ascending priority.
// The loaded Config is threaded explicitly into constructors; nothing below
// this package reads the environment.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is the full runtime configuration.
type Config struct {
	DatasetPath string `mapstructure:"dataset"`
	TopK        int    `mapstructure:"top_k"`
	ExportDir   string `mapstructure:"export_dir"`
	HTTPAddr    string `mapstructure:"http_addr"`
	Watch       bool   `mapstructure:"watch"`
	Debug       bool   `mapstructure:"debug"`

	OpenAI OpenAI `mapstructure:"openai"`
}

// OpenAI configures the optional LLM router. An empty APIKey disables it;
// the rule router then handles everything.
type OpenAI struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// Load reads configuration. cfgFile may be empty, in which case menuqa.yaml
// in the working directory is tried and silently skipped when absent.
func Load(cfgFile string) (Config, error) {
	v := viper.New()
	v.SetDefault("dataset", "data/dataset.json")
	v.SetDefault("top_k", 5)
	v.SetDefault("export_dir", "out")
	v.SetDefault("http_addr", ":8080")
	v.SetDefault("watch", false)
	v.SetDefault("debug", false)
	v.SetDefault("openai.model", "")

	v.SetEnvPrefix("MENUQA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	} else {
		v.SetConfigName("menuqa")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}
