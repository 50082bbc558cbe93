package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	WordPress struct {
		BaseURL           string  `mapstructure:"base_url"`
		Username          string  `mapstructure:"username"`
		AppPassword       string  `mapstructure:"app_password"`
		DefaultCategoryID int     `mapstructure:"default_category_id"`
		RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	} `mapstructure:"wordpress"`

	Ollama struct {
		BaseURL string `mapstructure:"base_url"`
		Model   string `mapstructure:"model"`
	} `mapstructure:"ollama"`

	Matcher struct {
		EmbeddingModel string  `mapstructure:"embedding_model"`
		Threshold      float64 `mapstructure:"threshold"`
	} `mapstructure:"matcher"`

	Log struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`
}

// LoadConfig reads configuration from an optional .env file, an optional
// config.yaml in the working directory, and the process environment.
// Environment variables win over the file.
func LoadConfig() (*Config, error) {
	// Same credential flow as the upstream WordPress tooling: a .env file
	// next to the binary is the common deployment.
	_ = godotenv.Load()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()
	viper.BindEnv("wordpress.base_url", "WORDPRESS_URL")
	viper.BindEnv("wordpress.username", "WORDPRESS_USERNAME")
	viper.BindEnv("wordpress.app_password", "WORDPRESS_PASSWORD")
	viper.BindEnv("wordpress.default_category_id", "WORDPRESS_DEFAULT_CATEGORY_ID")
	viper.BindEnv("wordpress.requests_per_second", "WORDPRESS_REQUESTS_PER_SECOND")
	viper.BindEnv("ollama.base_url", "OLLAMA_BASE_URL")
	viper.BindEnv("ollama.model", "OLLAMA_MODEL")
	viper.BindEnv("matcher.embedding_model", "EMBEDDING_MODEL")
	viper.BindEnv("matcher.threshold", "MATCH_THRESHOLD")
	viper.BindEnv("log.level", "LOG_LEVEL")

	viper.SetDefault("wordpress.default_category_id", 1)
	viper.SetDefault("wordpress.requests_per_second", 5.0)
	viper.SetDefault("ollama.base_url", "http://localhost:11434")
	viper.SetDefault("ollama.model", "llama3:latest")
	viper.SetDefault("matcher.embedding_model", "nomic-embed-text")
	viper.SetDefault("matcher.threshold", 0.70)
	viper.SetDefault("log.level", "info")

	if err := viper.ReadInConfig(); err != nil {
		// Config file is optional; env vars alone are a valid setup.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate reports missing required settings before any network call is
// made. The message names every missing variable so a single run of the
// tool is enough to fix the environment.
func (c *Config) Validate() error {
	var missing []string
	if c.WordPress.BaseURL == "" {
		missing = append(missing, "WORDPRESS_URL")
	}
	if c.WordPress.Username == "" {
		missing = append(missing, "WORDPRESS_USERNAME")
	}
	if c.WordPress.AppPassword == "" {
		missing = append(missing, "WORDPRESS_PASSWORD")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required settings: %s", strings.Join(missing, ", "))
	}
	if c.Matcher.Threshold <= 0 || c.Matcher.Threshold > 1 {
		return fmt.Errorf("matcher threshold must be in (0, 1], got %v", c.Matcher.Threshold)
	}
	return nil
}
