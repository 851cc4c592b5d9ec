package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration
type Config struct {
	Embedding EmbeddingConfig `yaml:"embedding"`
	Chat      ChatConfig      `yaml:"chat"`
	Chunker   ChunkerConfig   `yaml:"chunker,omitempty"`
	Search    SearchConfig    `yaml:"search,omitempty"`
	Ingest    IngestConfig    `yaml:"ingest,omitempty"`
	Database  DatabaseConfig  `yaml:"database,omitempty"`

	// Library is the document library root. Set from the -library flag
	// or the current working directory, never from the config file.
	Library string `yaml:"-"`
}

// EmbeddingConfig holds embedding service configuration
type EmbeddingConfig struct {
	Provider   string `yaml:"provider"` // "openai" | "volcengine"
	APIKey     string `yaml:"api_key,omitempty"`
	Endpoint   string `yaml:"endpoint,omitempty"`
	Model      string `yaml:"model,omitempty"`
	Dimensions int    `yaml:"dimensions,omitempty"`
	BatchSize  int    `yaml:"batch_size,omitempty"`
}

// ChatConfig holds chat-completion service configuration.
// Temperature is a pointer so an explicit 0 survives defaulting.
type ChatConfig struct {
	Provider        string   `yaml:"provider,omitempty"` // "openai" | "volcengine"
	APIKey          string   `yaml:"api_key,omitempty"`
	Endpoint        string   `yaml:"endpoint,omitempty"`
	Model           string   `yaml:"model,omitempty"`
	Temperature     *float64 `yaml:"temperature,omitempty"`
	MaxTokens       int      `yaml:"max_tokens,omitempty"`
	MaxContextChars int      `yaml:"max_context_chars,omitempty"` // prompt context budget
	SystemPrompt    string   `yaml:"system_prompt,omitempty"`
}

// ChunkerConfig holds text splitting parameters.
// Overlap is a pointer so an explicit 0 survives defaulting.
type ChunkerConfig struct {
	ChunkSize  int      `yaml:"chunk_size,omitempty"`
	Overlap    *int     `yaml:"overlap,omitempty"`
	Separators []string `yaml:"separators,omitempty"`
}

// SearchConfig holds retrieval configuration
type SearchConfig struct {
	DefaultTopK   int     `yaml:"default_top_k,omitempty"`
	VectorWeight  float32 `yaml:"vector_weight,omitempty"`
	KeywordWeight float32 `yaml:"keyword_weight,omitempty"`
	MinScore      float32 `yaml:"min_score,omitempty"`
}

// IngestConfig holds ingestion configuration
type IngestConfig struct {
	Exclude []string `yaml:"exclude,omitempty"` // doublestar glob patterns
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	// Path to the SQLite database file.
	// If empty, a per-library path under ~/.docchat/data is used.
	Path string `yaml:"path,omitempty"`
}

// Load loads configuration from the default config file
// Default location: ~/.docchat/config/docchat.yaml
func Load() (*Config, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	return LoadFromFile(filepath.Join(homeDir, ".docchat", "config", "docchat.yaml"))
}

// LoadFromFile loads configuration from a specific file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			homeDir, _ := os.UserHomeDir()
			return nil, &ConfigNotFoundError{
				RequestedPath: path,
				DefaultPath:   filepath.Join(homeDir, ".docchat", "config", "docchat.yaml"),
			}
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyDefaults()
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// ConfigNotFoundError is returned when the config file is not found
type ConfigNotFoundError struct {
	RequestedPath string
	DefaultPath   string
}

func (e *ConfigNotFoundError) Error() string {
	return fmt.Sprintf("config file not found at: %s\n\nDefault location: %s\n\nYou can:\n"+
		"  1. Create the config file at the default location\n"+
		"  2. Specify a custom path with -config flag\n"+
		"  3. Run 'docchat ingest' once to create a template config",
		e.RequestedPath, e.DefaultPath)
}

// IsConfigNotFound checks whether err is a ConfigNotFoundError
func IsConfigNotFound(err error) bool {
	_, ok := err.(*ConfigNotFoundError)
	return ok
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	if c.Embedding.Provider == "" {
		c.Embedding.Provider = "openai"
	}
	if c.Embedding.Model == "" {
		switch c.Embedding.Provider {
		case "openai":
			c.Embedding.Model = "text-embedding-3-small"
		case "volcengine":
			c.Embedding.Model = "doubao-embedding-vision-250615"
		}
	}
	if c.Embedding.Dimensions == 0 {
		if c.Embedding.Provider == "volcengine" {
			c.Embedding.Dimensions = 2048
		} else {
			c.Embedding.Dimensions = 1536
		}
	}
	if c.Embedding.BatchSize == 0 {
		c.Embedding.BatchSize = 10
	}

	if c.Chat.Provider == "" {
		c.Chat.Provider = c.Embedding.Provider
	}
	if c.Chat.Model == "" {
		switch c.Chat.Provider {
		case "openai":
			c.Chat.Model = "gpt-4o-mini"
		case "volcengine":
			c.Chat.Model = "doubao-1-5-pro-32k-250115"
		}
	}
	if c.Chat.Temperature == nil {
		t := 0.2
		c.Chat.Temperature = &t
	}
	if c.Chat.MaxTokens == 0 {
		c.Chat.MaxTokens = 1024
	}
	if c.Chat.MaxContextChars == 0 {
		c.Chat.MaxContextChars = 6000
	}

	if c.Chunker.ChunkSize == 0 {
		c.Chunker.ChunkSize = 512
	}
	if c.Chunker.Overlap == nil {
		o := 64
		c.Chunker.Overlap = &o
	}

	if c.Search.DefaultTopK == 0 {
		c.Search.DefaultTopK = 3
	}
	if c.Search.VectorWeight == 0 && c.Search.KeywordWeight == 0 {
		c.Search.VectorWeight = 0.7
		c.Search.KeywordWeight = 0.3
	}

	if c.Database.Path != "" {
		c.Database.Path = expandPath(c.Database.Path)
	}
}

// applyEnv fills credentials from the environment when the config file
// does not carry them. DOCCHAT_API_KEY wins over OPENAI_API_KEY.
func (c *Config) applyEnv() {
	key := os.Getenv("DOCCHAT_API_KEY")
	if key == "" {
		key = os.Getenv("OPENAI_API_KEY")
	}
	if key == "" {
		return
	}
	if c.Embedding.APIKey == "" {
		c.Embedding.APIKey = key
	}
	if c.Chat.APIKey == "" {
		c.Chat.APIKey = key
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Embedding.Provider {
	case "openai", "volcengine":
	default:
		return fmt.Errorf("unsupported embedding provider: %s", c.Embedding.Provider)
	}
	if c.Embedding.APIKey == "" {
		return fmt.Errorf("embedding api_key is required (set embedding.api_key or DOCCHAT_API_KEY)")
	}
	if c.Embedding.Dimensions <= 0 {
		return fmt.Errorf("embedding dimensions must be positive, got: %d", c.Embedding.Dimensions)
	}
	if c.Embedding.BatchSize <= 0 || c.Embedding.BatchSize > 100 {
		return fmt.Errorf("embedding batch_size must be between 1 and 100, got: %d", c.Embedding.BatchSize)
	}

	switch c.Chat.Provider {
	case "openai", "volcengine":
	default:
		return fmt.Errorf("unsupported chat provider: %s", c.Chat.Provider)
	}
	if c.Chat.APIKey == "" {
		return fmt.Errorf("chat api_key is required (set chat.api_key or DOCCHAT_API_KEY)")
	}

	if c.Chunker.Overlap != nil {
		if overlap := *c.Chunker.Overlap; overlap < 0 || overlap >= c.Chunker.ChunkSize {
			return fmt.Errorf("chunker overlap (%d) must be between 0 and chunk_size (%d)",
				overlap, c.Chunker.ChunkSize)
		}
	}
	if c.Search.DefaultTopK <= 0 {
		return fmt.Errorf("search default_top_k must be positive, got: %d", c.Search.DefaultTopK)
	}
	return nil
}

// expandPath expands ~ and $HOME to the user's home directory
func expandPath(path string) string {
	if strings.HasPrefix(path, "$HOME/") || path == "$HOME" {
		homeDir := os.Getenv("HOME")
		if homeDir == "" {
			var err error
			homeDir, err = os.UserHomeDir()
			if err != nil {
				return path
			}
		}
		if path == "$HOME" {
			return homeDir
		}
		return filepath.Join(homeDir, path[6:])
	}

	if strings.HasPrefix(path, "~/") || path == "~" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		if path == "~" {
			return homeDir
		}
		return filepath.Join(homeDir, path[2:])
	}

	return path
}

const defaultConfigTemplate = `# docchat configuration
#
# Copy and edit this file for your environment.
# Default location: $HOME/.docchat/config/docchat.yaml
#
# API keys may be left empty here and provided through the
# DOCCHAT_API_KEY (or OPENAI_API_KEY) environment variable,
# optionally via a .env file in the working directory.

embedding:
  # Provider: "openai" or "volcengine"
  provider: openai
  # api_key: your-api-key
  model: text-embedding-3-small
  dimensions: 1536
  batch_size: 10

chat:
  provider: openai
  # api_key: your-api-key
  model: gpt-4o-mini
  temperature: 0.2
  max_tokens: 1024
  max_context_chars: 6000

chunker:
  chunk_size: 512
  overlap: 64

search:
  default_top_k: 3
  vector_weight: 0.7
  keyword_weight: 0.3
`

// WriteDefaultTemplate creates a default configuration file if it does not exist.
// It returns true if a file was created, false if it already existed.
func WriteDefaultTemplate(path string) (bool, error) {
	if path == "" {
		return false, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("failed to stat config file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return false, fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultConfigTemplate), 0644); err != nil {
		return false, fmt.Errorf("failed to write config template: %w", err)
	}
	return true, nil
}
