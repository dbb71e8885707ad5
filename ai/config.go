// Copyright 2025 Tablemap Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ai

import (
	"errors"
	"strings"
	"time"
)

// Config holds configuration for AI service providers.
type Config struct {
	// EmbeddingHost is the base URL for the embedding service API.
	// Example: "http://localhost:11434/v1" for local OpenAI-compatible server
	EmbeddingHost string

	// RerankHost is the base URL for the re-ranking LLM service API.
	// Example: "http://127.0.0.1:1234/v1" for LM Studio
	RerankHost string

	// EmbeddingModel is the model identifier to use for text embeddings.
	// Example: "all-MiniLM-L6-v2", "text-embedding-3-small"
	EmbeddingModel string

	// RerankModel is the model identifier to use for re-ranking.
	// Example: "gemma-3-4b-it-qat", "gpt-4o-mini"
	RerankModel string

	// ModelVersion tags stored embeddings and filters index loads.
	// Defaults to EmbeddingModel; embeddings produced by different model
	// versions never mix within one index generation.
	ModelVersion string

	// EmbedTimeout bounds a single query-embedding call.
	// Default: 15s
	EmbedTimeout time.Duration

	// RerankTimeout bounds a single re-ranking call.
	// Default: 15s
	RerankTimeout time.Duration
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithEmbeddingHost sets the embedding service host URL.
func WithEmbeddingHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
	}
}

// WithRerankHost sets the re-ranking service host URL.
func WithRerankHost(host string) ConfigOption {
	return func(c *Config) {
		c.RerankHost = host
	}
}

// WithHost sets both embedding and re-ranking hosts to the same URL.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
		c.RerankHost = host
	}
}

// WithEmbeddingModel sets the embedding model identifier.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// WithRerankModel sets the re-ranking model identifier.
func WithRerankModel(model string) ConfigOption {
	return func(c *Config) {
		c.RerankModel = model
	}
}

// WithModelVersion overrides the embedding model version tag.
func WithModelVersion(version string) ConfigOption {
	return func(c *Config) {
		c.ModelVersion = version
	}
}

// WithEmbedTimeout sets the per-call query-embedding timeout.
func WithEmbedTimeout(timeout time.Duration) ConfigOption {
	return func(c *Config) {
		c.EmbedTimeout = timeout
	}
}

// WithRerankTimeout sets the per-call re-ranking timeout.
func WithRerankTimeout(timeout time.Duration) ConfigOption {
	return func(c *Config) {
		c.RerankTimeout = timeout
	}
}

// DefaultConfig returns a Config with sensible defaults for local
// OpenAI-compatible services. By default, both services use the same host.
func DefaultConfig() *Config {
	defaultHost := "http://localhost:11434/v1"
	return &Config{
		EmbeddingHost:  defaultHost,
		RerankHost:     defaultHost,
		EmbeddingModel: "all-minilm",
		RerankModel:    "qwen2.5:3b",
		EmbedTimeout:   15 * time.Second,
		RerankTimeout:  15 * time.Second,
	}
}

// NewConfig creates a Config with the default values and applies the provided
// options. This is the recommended way to create a Config with custom settings.
//
// Example:
//
//	cfg := NewConfig(
//	    WithHost("http://localhost:11434/v1"),
//	    WithEmbeddingModel("text-embedding-3-small"),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
// It automatically adds the /v1 suffix to hosts if missing, which is required
// by most OpenAI-compatible APIs (Ollama, LocalAI, LM Studio, vLLM, etc),
// and defaults the model version to the embedding model name.
func (c *Config) Normalize() {
	if c.EmbeddingHost != "" && !strings.HasSuffix(c.EmbeddingHost, "/v1") {
		c.EmbeddingHost = strings.TrimSuffix(c.EmbeddingHost, "/") + "/v1"
	}
	if c.RerankHost != "" && !strings.HasSuffix(c.RerankHost, "/v1") {
		c.RerankHost = strings.TrimSuffix(c.RerankHost, "/") + "/v1"
	}
	if c.ModelVersion == "" {
		c.ModelVersion = c.EmbeddingModel
	}
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if c.EmbeddingHost == "" {
		return errors.New("ai config: EmbeddingHost is required")
	}
	if c.RerankHost == "" {
		return errors.New("ai config: RerankHost is required")
	}
	if c.EmbeddingModel == "" {
		return errors.New("ai config: EmbeddingModel is required")
	}
	if c.RerankModel == "" {
		return errors.New("ai config: RerankModel is required")
	}
	if c.EmbedTimeout <= 0 {
		return errors.New("ai config: EmbedTimeout must be positive")
	}
	if c.RerankTimeout <= 0 {
		return errors.New("ai config: RerankTimeout must be positive")
	}
	return nil
}
