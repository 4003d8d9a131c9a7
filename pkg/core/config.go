// Package core provides the NoteVault assistant client: configuration,
// provider wiring, and the record/query/auto operations.
package core

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/notevault/notevault-go/pkg/memory"
)

// Config is the complete configuration for an Assistant.
type Config struct {
	// LLM configures the language model provider.
	LLM LLMConfig `json:"llm"`

	// Embedder configures the embedding provider.
	Embedder EmbedderConfig `json:"embedder"`

	// Index configures the semantic index backend.
	Index IndexConfig `json:"index"`

	// Store configures the append-only log store.
	Store StoreConfig `json:"store"`
}

// LLMConfig configures the language model provider.
//
// Supported providers: openai, deepseek, ollama.
type LLMConfig struct {
	// Provider is the provider name.
	Provider string `json:"provider"`

	// APIKey is the provider API key.
	APIKey string `json:"api_key"`

	// Model is the model name, e.g. "gpt-4.1-mini".
	Model string `json:"model"`

	// BaseURL overrides the provider endpoint (optional).
	BaseURL string `json:"base_url,omitempty"`
}

// EmbedderConfig configures the embedding provider.
//
// Supported providers: openai.
type EmbedderConfig struct {
	// Provider is the provider name.
	Provider string `json:"provider"`

	// APIKey is the provider API key.
	APIKey string `json:"api_key"`

	// Model is the embedding model name, e.g. "text-embedding-3-small".
	Model string `json:"model"`

	// BaseURL overrides the provider endpoint (optional).
	BaseURL string `json:"base_url,omitempty"`

	// Dimensions is the embedding vector dimension.
	Dimensions int `json:"dimensions,omitempty"`
}

// IndexConfig configures the semantic index backend.
//
// Supported providers: chromem (persistent embedded vector store),
// sqlite (local database with in-memory similarity).
type IndexConfig struct {
	// Provider is the backend name.
	Provider string `json:"provider"`

	// Path is the persistence location: a directory for chromem, a
	// database file for sqlite.
	Path string `json:"path"`

	// Collection is the collection or table name (optional).
	Collection string `json:"collection,omitempty"`
}

// StoreConfig configures the append-only log store.
type StoreConfig struct {
	// Path is the JSONL log file path.
	Path string `json:"path"`

	// SkipCorrupt makes read passes skip undecodable lines with a warning
	// instead of stopping at the first one.
	SkipCorrupt bool `json:"skip_corrupt,omitempty"`
}

// LoadConfigFromEnv loads configuration from environment variables,
// loading a .env file first if one is found (searching upward from the
// working directory).
//
// Recognized variables:
//   - LLM_PROVIDER, LLM_API_KEY, LLM_MODEL, LLM_BASE_URL
//   - EMBEDDING_PROVIDER, EMBEDDING_API_KEY, EMBEDDING_MODEL,
//     EMBEDDING_BASE_URL, EMBEDDING_DIMS
//   - INDEX_PROVIDER (chromem|sqlite), INDEX_PATH, INDEX_COLLECTION
//   - MEMORIES_PATH, MEMORIES_SKIP_CORRUPT
func LoadConfigFromEnv() (*Config, error) {
	if envPath, found := FindEnvFile(); found {
		_ = godotenv.Load(envPath)
	} else {
		_ = godotenv.Load()
	}

	llmProvider := getEnvOrDefault("LLM_PROVIDER", "openai")
	llmAPIKey := os.Getenv("LLM_API_KEY")
	if llmAPIKey == "" {
		llmAPIKey = os.Getenv("OPENAI_API_KEY")
	}

	var defaultModel string
	switch llmProvider {
	case "deepseek":
		defaultModel = "deepseek-chat"
	case "ollama":
		defaultModel = "llama3.1"
	default:
		defaultModel = "gpt-4.1-mini"
	}

	embedderAPIKey := os.Getenv("EMBEDDING_API_KEY")
	if embedderAPIKey == "" {
		embedderAPIKey = llmAPIKey
	}
	dims, _ := strconv.Atoi(getEnvOrDefault("EMBEDDING_DIMS", "1536"))

	indexProvider := getEnvOrDefault("INDEX_PROVIDER", "chromem")
	var defaultIndexPath string
	switch indexProvider {
	case "sqlite":
		defaultIndexPath = filepath.Join("data", "memories.db")
	default:
		defaultIndexPath = filepath.Join("data", "chroma")
	}

	return &Config{
		LLM: LLMConfig{
			Provider: llmProvider,
			APIKey:   llmAPIKey,
			Model:    getEnvOrDefault("LLM_MODEL", defaultModel),
			BaseURL:  os.Getenv("LLM_BASE_URL"),
		},
		Embedder: EmbedderConfig{
			Provider:   getEnvOrDefault("EMBEDDING_PROVIDER", "openai"),
			APIKey:     embedderAPIKey,
			Model:      getEnvOrDefault("EMBEDDING_MODEL", "text-embedding-3-small"),
			BaseURL:    os.Getenv("EMBEDDING_BASE_URL"),
			Dimensions: dims,
		},
		Index: IndexConfig{
			Provider:   indexProvider,
			Path:       getEnvOrDefault("INDEX_PATH", defaultIndexPath),
			Collection: os.Getenv("INDEX_COLLECTION"),
		},
		Store: StoreConfig{
			Path:        getEnvOrDefault("MEMORIES_PATH", filepath.Join("data", "memories.jsonl")),
			SkipCorrupt: os.Getenv("MEMORIES_SKIP_CORRUPT") == "true",
		},
	}, nil
}

// LoadConfigFromJSON loads configuration from a JSON file.
func LoadConfigFromJSON(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, memory.NewPipelineError("LoadConfigFromJSON", err)
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, memory.NewPipelineError("LoadConfigFromJSON", err)
	}
	return &config, nil
}

// Validate checks that the required fields are set.
func (c *Config) Validate() error {
	if c.LLM.Provider == "" {
		return memory.NewPipelineError("Validate", memory.ErrInvalidInput)
	}
	if c.Embedder.Provider == "" {
		return memory.NewPipelineError("Validate", memory.ErrInvalidInput)
	}
	if c.Index.Provider == "" {
		return memory.NewPipelineError("Validate", memory.ErrInvalidInput)
	}
	if c.Store.Path == "" {
		return memory.NewPipelineError("Validate", memory.ErrInvalidInput)
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// FindEnvFile searches the current directory and up to five parents for a
// .env or .env.example file.
func FindEnvFile() (string, bool) {
	dir, _ := os.Getwd()
	for i := 0; i < 5; i++ {
		for _, name := range []string{".env", ".env.example"} {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, true
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false
}
