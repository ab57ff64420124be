package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ErrMissingSearchCredential is returned by Validate when the configured
// search provider needs an API key and none is set.
var ErrMissingSearchCredential = errors.New("TAVILY_API_KEY missing from environment variables or .env")

const (
	SearchProviderTavily = "tavily"
	SearchProviderArxiv  = "arxiv"

	GeneratorGemini   = "gemini"
	GeneratorGoogleAI = "googleai"
	GeneratorOpenAI   = "openai"

	EmbeddingGoogle  = "google"
	EmbeddingOpenAI  = "openai"
	EmbeddingHashing = "hashing"
)

type Config struct {
	TavilyApiKey      string
	SearchProvider    string
	GoogleApiKey      string
	OpenAIApiKey      string
	GeneratorProvider string
	GenerationModel   string
	Temperature       float64
	SummaryMaxTokens  int
	EmbeddingProvider string
	EmbeddingModel    string
	ConflictThreshold float64
	Port              string
}

// Load reads the process environment once. Call godotenv.Load before it if a
// .env file should be honoured.
func Load() *Config {
	cfg := &Config{
		TavilyApiKey:      getEnv("TAVILY_API_KEY", ""),
		SearchProvider:    strings.ToLower(getEnv("SEARCH_PROVIDER", SearchProviderTavily)),
		GoogleApiKey:      getEnv("GOOGLE_API_KEY", getEnv("GEMINI_API_KEY", "")),
		OpenAIApiKey:      getEnv("OPENAI_API_KEY", ""),
		GeneratorProvider: strings.ToLower(getEnv("GENERATOR_PROVIDER", "")),
		GenerationModel:   getEnv("GENERATION_MODEL", ""),
		Temperature:       getEnvAsFloat("TEMPERATURE", 0.3),
		SummaryMaxTokens:  getEnvAsInt("SUMMARY_MAX_TOKENS", 150),
		EmbeddingProvider: strings.ToLower(getEnv("EMBEDDING_PROVIDER", "")),
		EmbeddingModel:    getEnv("EMBEDDING_MODEL", ""),
		ConflictThreshold: getEnvAsFloat("CONFLICT_THRESHOLD", 0.35),
		Port:              getEnv("PORT", "8081"),
	}

	if cfg.GeneratorProvider == "" {
		switch {
		case cfg.OpenAIApiKey != "":
			cfg.GeneratorProvider = GeneratorOpenAI
		default:
			cfg.GeneratorProvider = GeneratorGemini
		}
	}
	if cfg.GenerationModel == "" {
		if cfg.GeneratorProvider == GeneratorOpenAI {
			cfg.GenerationModel = "gpt-4o-mini"
		} else {
			cfg.GenerationModel = "gemini-2.5-flash"
		}
	}

	if cfg.EmbeddingProvider == "" {
		switch {
		case cfg.GoogleApiKey != "":
			cfg.EmbeddingProvider = EmbeddingGoogle
		case cfg.OpenAIApiKey != "":
			cfg.EmbeddingProvider = EmbeddingOpenAI
		default:
			cfg.EmbeddingProvider = EmbeddingHashing
		}
	}
	if cfg.EmbeddingModel == "" {
		if cfg.EmbeddingProvider == EmbeddingOpenAI {
			cfg.EmbeddingModel = "text-embedding-3-small"
		} else {
			cfg.EmbeddingModel = "gemini-embedding-001"
		}
	}

	return cfg
}

// Validate fails fast on settings that would make every search fail.
func (c *Config) Validate() error {
	switch c.SearchProvider {
	case SearchProviderTavily:
		if c.TavilyApiKey == "" {
			return ErrMissingSearchCredential
		}
	case SearchProviderArxiv:
	default:
		return fmt.Errorf("unknown search provider %q", c.SearchProvider)
	}
	return nil
}

// GeneratorApiKey returns the credential for the configured text generator,
// or "" when summaries should fall back to excerpts.
func (c *Config) GeneratorApiKey() string {
	if c.GeneratorProvider == GeneratorOpenAI {
		return c.OpenAIApiKey
	}
	return c.GoogleApiKey
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}
