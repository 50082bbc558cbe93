package app

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"wpcat/internal/config"
	"wpcat/internal/services"
	"wpcat/internal/store/wordpress"
	"wpcat/pkg/categorizer"
)

// App wires configuration into the clients and services the commands
// use. Constructed once at startup; nothing here reads ambient state.
type App struct {
	Config *config.Config

	WordPress *wordpress.Client
	Suggester *services.OllamaSuggester
	Embedder  services.EmbeddingProvider
	Matcher   categorizer.Matcher

	CategorizeService *services.CategorizeService
}

func NewApp(cfg *config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Log.Level, err)
	}
	log.SetLevel(level)

	wp := wordpress.NewClient(
		cfg.WordPress.BaseURL,
		cfg.WordPress.Username,
		cfg.WordPress.AppPassword,
		cfg.WordPress.DefaultCategoryID,
		cfg.WordPress.RequestsPerSecond,
	)

	suggester := services.NewOllamaSuggester(cfg.Ollama.BaseURL, cfg.Ollama.Model, nil)
	embedder := services.NewOllamaEmbedder(cfg.Ollama.BaseURL, cfg.Matcher.EmbeddingModel)
	matcher := categorizer.NewEmbeddingMatcher(embedder, cfg.Matcher.Threshold)

	return &App{
		Config:            cfg,
		WordPress:         wp,
		Suggester:         suggester,
		Embedder:          embedder,
		Matcher:           matcher,
		CategorizeService: services.NewCategorizeService(wp, wp, suggester, matcher),
	}, nil
}
