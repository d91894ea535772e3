package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/hireloop/screener/internal/ai/gemini"
	"github.com/hireloop/screener/internal/secrets"
)

const (
	app = "screener"

	apiKeyEnvVar = "GEMINI_API_KEY"
)

type Config struct {
	Role   string        `mapstructure:"role"`
	Gemini *GeminiConfig `mapstructure:"gemini"`
	Server *ServerConfig `mapstructure:"server"`
}

type GeminiConfig struct {
	APIKey       string `mapstructure:"api-key"`
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

type ServerConfig struct {
	Listen string `mapstructure:"listen"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "screener runs a three-step LLM screening workflow over candidate applications",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is screener.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// A local .env may carry GEMINI_API_KEY; absence is fine.
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// All keys have defaults, so a missing config file is not an error
	// unless one was requested explicitly.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, err
	}

	if config.Gemini == nil {
		config.Gemini = &GeminiConfig{}
	}

	if config.Server == nil {
		config.Server = &ServerConfig{}
	}

	if config.Server.Listen == "" {
		config.Server.Listen = ":8080"
	}

	return config, nil
}

// newClassifier resolves the API credential and builds the Gemini classifier.
// Credential resolution happens here, at composition time; the core packages
// never read the environment.
func newClassifier(ctx context.Context, cfg *GeminiConfig, logger *zap.Logger) (*gemini.Classifier, error) {
	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: cfg.APIKey,
		File:  cfg.APIKeyFile,
		Env:   apiKeyEnvVar,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set gemini.api-key-file or %s)", err, apiKeyEnvVar)
	}

	return gemini.New(ctx, gemini.Config{
		APIKey:       apiKey,
		Model:        cfg.Model,
		MaxRetries:   cfg.MaxRetries,
		MaxLogLength: cfg.MaxLogLength,
	}, logger)
}
