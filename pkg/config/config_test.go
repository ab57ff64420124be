package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"TAVILY_API_KEY", "SEARCH_PROVIDER", "GOOGLE_API_KEY", "GEMINI_API_KEY", "OPENAI_API_KEY",
		"GENERATOR_PROVIDER", "GENERATION_MODEL", "TEMPERATURE", "SUMMARY_MAX_TOKENS",
		"EMBEDDING_PROVIDER", "EMBEDDING_MODEL", "CONFLICT_THRESHOLD", "PORT",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()

	assert.Equal(t, SearchProviderTavily, cfg.SearchProvider)
	assert.Equal(t, GeneratorGemini, cfg.GeneratorProvider)
	assert.Equal(t, "gemini-2.5-flash", cfg.GenerationModel)
	assert.Equal(t, EmbeddingHashing, cfg.EmbeddingProvider)
	assert.Equal(t, 0.3, cfg.Temperature)
	assert.Equal(t, 150, cfg.SummaryMaxTokens)
	assert.Equal(t, 0.35, cfg.ConflictThreshold)
	assert.Equal(t, "8081", cfg.Port)
	assert.Empty(t, cfg.GeneratorApiKey())
}

func TestLoadPicksProvidersFromKeys(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("CONFLICT_THRESHOLD", "0.5")
	t.Setenv("SUMMARY_MAX_TOKENS", "not-a-number")

	cfg := Load()

	assert.Equal(t, GeneratorOpenAI, cfg.GeneratorProvider)
	assert.Equal(t, "gpt-4o-mini", cfg.GenerationModel)
	assert.Equal(t, EmbeddingOpenAI, cfg.EmbeddingProvider)
	assert.Equal(t, "text-embedding-3-small", cfg.EmbeddingModel)
	assert.Equal(t, 0.5, cfg.ConflictThreshold)
	assert.Equal(t, 150, cfg.SummaryMaxTokens)
	assert.Equal(t, "sk-test", cfg.GeneratorApiKey())
}

func TestLoadGeminiKeyAlias(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "g-key")

	cfg := Load()

	assert.Equal(t, "g-key", cfg.GoogleApiKey)
	assert.Equal(t, EmbeddingGoogle, cfg.EmbeddingProvider)
	assert.Equal(t, "gemini-embedding-001", cfg.EmbeddingModel)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr error
		anyErr  bool
	}{
		{name: "tavily without key", cfg: Config{SearchProvider: SearchProviderTavily}, wantErr: ErrMissingSearchCredential},
		{name: "tavily with key", cfg: Config{SearchProvider: SearchProviderTavily, TavilyApiKey: "tvly"}},
		{name: "arxiv", cfg: Config{SearchProvider: SearchProviderArxiv}},
		{name: "unknown", cfg: Config{SearchProvider: "bing"}, anyErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			switch {
			case tt.wantErr != nil:
				assert.True(t, errors.Is(err, tt.wantErr))
			case tt.anyErr:
				assert.Error(t, err)
			default:
				assert.NoError(t, err)
			}
		})
	}
}
