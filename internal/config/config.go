// Package config reads service settings from the environment, optionally
// seeded from a .env file in the working directory.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	ProviderOpenAI  = "openai"
	ProviderBedrock = "bedrock"

	defaultGenerationTimeout = 2 * time.Minute
	defaultBedrockRegion     = "us-east-1"
	defaultBedrockModel      = "mistral.mistral-large-2402-v1:0"
)

// Config holds every setting the server reads at startup.
type Config struct {
	LLMProvider       string
	Model             string
	OpenAIAPIKey      string
	BedrockRegion     string
	DBPath            string
	GenerationTimeout time.Duration
	ZoteroAPIKey      string
	ZoteroLibraryID   string
}

// Load reads .env files (if present) and then the process environment.
// Variables already set in the environment win over .env values.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if _, err := os.Stat(f); err == nil {
			if err := godotenv.Load(f); err != nil {
				return nil, fmt.Errorf("failed to load %s: %w", f, err)
			}
		}
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		LLMProvider:     strings.ToLower(strings.TrimSpace(os.Getenv("ASSESSA_LLM_PROVIDER"))),
		Model:           os.Getenv("ASSESSA_MODEL"),
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		BedrockRegion:   os.Getenv("AWS_MODEL_REGION"),
		DBPath:          os.Getenv("ASSESSA_DB_PATH"),
		ZoteroAPIKey:    os.Getenv("ZOTERO_API_KEY"),
		ZoteroLibraryID: os.Getenv("ZOTERO_LIBRARY_ID"),
	}

	if cfg.LLMProvider == "" {
		cfg.LLMProvider = ProviderOpenAI
	}
	switch cfg.LLMProvider {
	case ProviderOpenAI:
	case ProviderBedrock:
		if cfg.BedrockRegion == "" {
			cfg.BedrockRegion = defaultBedrockRegion
		}
		if cfg.Model == "" {
			cfg.Model = defaultBedrockModel
		}
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s", cfg.LLMProvider)
	}

	cfg.GenerationTimeout = defaultGenerationTimeout
	if raw := os.Getenv("ASSESSA_GENERATION_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid ASSESSA_GENERATION_TIMEOUT %q: %w", raw, err)
		}
		cfg.GenerationTimeout = d
	}

	if cfg.DBPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		cfg.DBPath = filepath.Join(homeDir, ".assessa-mcp", "assessa.db")
	}

	return cfg, nil
}
