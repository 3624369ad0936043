package cmd

import (
	"log"

	"github.com/dike950121/upwork-radar/internal/upwork"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "upwork-radar"
)

type Config struct {
	Search    *upwork.SearchParams `mapstructure:"search"`
	UserAgent string               `mapstructure:"user-agent"`
	TokenFile string               `mapstructure:"token-file"`
	Monitor   *MonitorConfig       `mapstructure:"monitor"`
	Database  *DatabaseConfig      `mapstructure:"database"`
	Webhooks  *WebhooksConfig      `mapstructure:"webhooks"`
	AI        *AIConfig            `mapstructure:"ai"`
}

type MonitorConfig struct {
	IntervalMinutes int `mapstructure:"interval-minutes"`
}

type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

type WebhooksConfig struct {
	Destinations map[string]string `mapstructure:"destinations"`
	DefaultURL   string            `mapstructure:"default-url"`
}

type AIConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Provider string        `mapstructure:"provider"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "upwork-radar monitors freelance job postings, scores them and matches them against your profiles",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("token-file", "UPWORK_TOKEN_FILE"); err != nil {
		log.Fatalf("binding UPWORK_TOKEN_FILE environment variable: %v", err)
	}
	if err := viper.BindEnv("ai.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is upwork-radar.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// Config is needed only for the commands that talk to the marketplace
	// or the store. The score command reads one only when asked to.
	switch {
	case runCmd.CalledAs() != "":
	case matchCmd.CalledAs() != "":
	case profilesCmd.CalledAs() != "", profilesAddCmd.CalledAs() != "", profilesDeleteCmd.CalledAs() != "":
	case cfgFile != "":
	default:
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	// We can't proceed if the config file parsed with error.
	if err := viper.ReadInConfig(); err != nil {
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}
