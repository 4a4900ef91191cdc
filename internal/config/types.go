package config

import (
	"fmt"
	"time"

	"github.com/instylab/tasksync/internal/logging"
)

// Config is the root configuration for tasksync.
type Config struct {
	Anthropic  AnthropicConfig  `koanf:"anthropic"`
	Notion     NotionConfig     `koanf:"notion"`
	Embeddings EmbeddingsConfig `koanf:"embeddings"`
	Reconcile  ReconcileConfig  `koanf:"reconcile"`
	Logging    logging.Config   `koanf:"logging"`
	Timezone   string           `koanf:"timezone"`
}

// AnthropicConfig configures the task extraction LLM.
type AnthropicConfig struct {
	APIKey    string `koanf:"api_key"`
	Model     string `koanf:"model"`
	BaseURL   string `koanf:"base_url"`
	MaxTokens int    `koanf:"max_tokens"`
	Timeout   int    `koanf:"timeout"` // seconds
}

// NotionConfig configures the record store.
type NotionConfig struct {
	APIKey     string `koanf:"api_key"`
	DatabaseID string `koanf:"database_id"`
	BaseURL    string `koanf:"base_url"`
	Version    string `koanf:"version"`
	Timeout    int    `koanf:"timeout"` // seconds
}

// EmbeddingsConfig configures the embedding provider.
type EmbeddingsConfig struct {
	BaseURL string `koanf:"base_url"`
	Model   string `koanf:"model"`
	APIKey  string `koanf:"api_key"`
}

// ReconcileConfig configures the reconciliation engine.
type ReconcileConfig struct {
	// Threshold is the minimum cosine similarity for a candidate task
	// to update an existing record instead of creating a new one.
	Threshold float64 `koanf:"threshold"`
}

// Validate checks that required settings are present and sane.
func (c *Config) Validate() error {
	if c.Anthropic.APIKey == "" {
		return fmt.Errorf("anthropic.api_key is required (ANTHROPIC_API_KEY)")
	}
	if c.Notion.APIKey == "" {
		return fmt.Errorf("notion.api_key is required (NOTION_API_KEY)")
	}
	if c.Notion.DatabaseID == "" {
		return fmt.Errorf("notion.database_id is required (NOTION_DATABASE_ID)")
	}
	if c.Embeddings.APIKey == "" {
		return fmt.Errorf("embeddings.api_key is required (EMBEDDINGS_API_KEY)")
	}
	if c.Reconcile.Threshold <= 0 || c.Reconcile.Threshold > 1 {
		return fmt.Errorf("reconcile.threshold must be in (0, 1], got %v", c.Reconcile.Threshold)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return c.Logging.Validate()
}

// Location returns the configured timezone. Validate must have passed.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
