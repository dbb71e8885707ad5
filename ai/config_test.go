package ai

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
	assert.Equal(t, "http://localhost:11434/v1", cfg.RerankHost)
	assert.NotEmpty(t, cfg.EmbeddingModel)
	assert.NotEmpty(t, cfg.RerankModel)
	assert.Equal(t, 15*time.Second, cfg.EmbedTimeout)
	assert.Equal(t, 15*time.Second, cfg.RerankTimeout)
	require.NoError(t, cfg.Validate())
}

func TestNewConfig_Options(t *testing.T) {
	cfg := NewConfig(
		WithEmbeddingHost("http://embed.local:9100"),
		WithRerankHost("http://rerank.local:1234"),
		WithEmbeddingModel("all-MiniLM-L6-v2"),
		WithRerankModel("gemma-3-4b-it-qat"),
		WithModelVersion("all-MiniLM-L6-v2"),
		WithEmbedTimeout(3*time.Second),
		WithRerankTimeout(5*time.Second),
	)

	require.NoError(t, cfg.Validate())
	assert.Equal(t, "http://embed.local:9100/v1", cfg.EmbeddingHost)
	assert.Equal(t, "http://rerank.local:1234/v1", cfg.RerankHost)
	assert.Equal(t, "all-MiniLM-L6-v2", cfg.EmbeddingModel)
	assert.Equal(t, "gemma-3-4b-it-qat", cfg.RerankModel)
	assert.Equal(t, 3*time.Second, cfg.EmbedTimeout)
	assert.Equal(t, 5*time.Second, cfg.RerankTimeout)
}

func TestWithHost_SetsBoth(t *testing.T) {
	cfg := NewConfig(WithHost("http://localhost:1234"))

	cfg.Normalize()
	assert.Equal(t, "http://localhost:1234/v1", cfg.EmbeddingHost)
	assert.Equal(t, "http://localhost:1234/v1", cfg.RerankHost)
}

func TestNormalize(t *testing.T) {
	t.Run("adds v1 suffix", func(t *testing.T) {
		cfg := &Config{EmbeddingHost: "http://localhost:11434", RerankHost: "http://localhost:1234/"}
		cfg.Normalize()
		assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
		assert.Equal(t, "http://localhost:1234/v1", cfg.RerankHost)
	})

	t.Run("keeps existing v1 suffix", func(t *testing.T) {
		cfg := &Config{EmbeddingHost: "http://localhost:11434/v1"}
		cfg.Normalize()
		assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
	})

	t.Run("model version defaults to embedding model", func(t *testing.T) {
		cfg := &Config{EmbeddingModel: "all-MiniLM-L6-v2"}
		cfg.Normalize()
		assert.Equal(t, "all-MiniLM-L6-v2", cfg.ModelVersion)
	})

	t.Run("explicit model version wins", func(t *testing.T) {
		cfg := &Config{EmbeddingModel: "all-MiniLM-L6-v2", ModelVersion: "minilm-2024-09"}
		cfg.Normalize()
		assert.Equal(t, "minilm-2024-09", cfg.ModelVersion)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty embedding host", func(c *Config) { c.EmbeddingHost = "" }},
		{"empty rerank host", func(c *Config) { c.RerankHost = "" }},
		{"empty embedding model", func(c *Config) { c.EmbeddingModel = "" }},
		{"empty rerank model", func(c *Config) { c.RerankModel = "" }},
		{"zero embed timeout", func(c *Config) { c.EmbedTimeout = 0 }},
		{"zero rerank timeout", func(c *Config) { c.RerankTimeout = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
