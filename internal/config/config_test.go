package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "docchat.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFromFileDefaults(t *testing.T) {
	path := writeConfig(t, `
embedding:
  provider: openai
  api_key: k1
chat:
  api_key: k2
`)

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile() error: %v", err)
	}

	if cfg.Embedding.Model != "text-embedding-3-small" {
		t.Errorf("embedding model = %q", cfg.Embedding.Model)
	}
	if cfg.Embedding.Dimensions != 1536 {
		t.Errorf("dimensions = %d, want 1536", cfg.Embedding.Dimensions)
	}
	if cfg.Chat.Provider != "openai" {
		t.Errorf("chat provider = %q, want openai (inherited)", cfg.Chat.Provider)
	}
	if cfg.Chunker.ChunkSize != 512 || cfg.Chunker.Overlap == nil || *cfg.Chunker.Overlap != 64 {
		t.Errorf("chunker defaults = %d/%v", cfg.Chunker.ChunkSize, cfg.Chunker.Overlap)
	}
	if cfg.Chat.Temperature == nil || *cfg.Chat.Temperature != 0.2 {
		t.Errorf("temperature default = %v, want 0.2", cfg.Chat.Temperature)
	}
	if cfg.Search.DefaultTopK != 3 {
		t.Errorf("default_top_k = %d, want 3", cfg.Search.DefaultTopK)
	}
	if cfg.Search.VectorWeight != 0.7 || cfg.Search.KeywordWeight != 0.3 {
		t.Errorf("weights = %v/%v", cfg.Search.VectorWeight, cfg.Search.KeywordWeight)
	}
	if cfg.Chat.MaxContextChars != 6000 {
		t.Errorf("max_context_chars = %d, want 6000", cfg.Chat.MaxContextChars)
	}
}

func TestLoadFromFileExplicitZeros(t *testing.T) {
	path := writeConfig(t, `
embedding:
  provider: openai
  api_key: k1
chat:
  api_key: k2
  temperature: 0
chunker:
  overlap: 0
`)

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile() error: %v", err)
	}
	if cfg.Chunker.Overlap == nil || *cfg.Chunker.Overlap != 0 {
		t.Errorf("overlap = %v, want explicit 0", cfg.Chunker.Overlap)
	}
	if cfg.Chat.Temperature == nil || *cfg.Chat.Temperature != 0 {
		t.Errorf("temperature = %v, want explicit 0", cfg.Chat.Temperature)
	}
}

func TestLoadFromFileEnvKey(t *testing.T) {
	t.Setenv("DOCCHAT_API_KEY", "env-key")
	path := writeConfig(t, `
embedding:
  provider: openai
`)

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile() error: %v", err)
	}
	if cfg.Embedding.APIKey != "env-key" {
		t.Errorf("embedding api key = %q, want env-key", cfg.Embedding.APIKey)
	}
	if cfg.Chat.APIKey != "env-key" {
		t.Errorf("chat api key = %q, want env-key", cfg.Chat.APIKey)
	}
}

func TestLoadFromFileOpenAIKeyFallback(t *testing.T) {
	t.Setenv("DOCCHAT_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "openai-key")
	path := writeConfig(t, `
embedding:
  provider: openai
`)

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile() error: %v", err)
	}
	if cfg.Embedding.APIKey != "openai-key" {
		t.Errorf("embedding api key = %q, want openai-key", cfg.Embedding.APIKey)
	}
}

func TestLoadFromFileMissingKey(t *testing.T) {
	t.Setenv("DOCCHAT_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")
	path := writeConfig(t, `
embedding:
  provider: openai
`)

	if _, err := LoadFromFile(path); err == nil {
		t.Error("expected error when no api key is available")
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	t.Setenv("DOCCHAT_API_KEY", "k")
	tests := []struct {
		name    string
		content string
	}{
		{
			name: "bad provider",
			content: `
embedding:
  provider: cohere
`,
		},
		{
			name: "overlap too large",
			content: `
embedding:
  provider: openai
chunker:
  chunk_size: 10
  overlap: 20
`,
		},
		{
			name: "negative overlap",
			content: `
embedding:
  provider: openai
chunker:
  overlap: -1
`,
		},
		{
			name: "batch size out of range",
			content: `
embedding:
  provider: openai
  batch_size: 500
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.content)
			if _, err := LoadFromFile(path); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLoadFromFileNotFound(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected error")
	}
	if !IsConfigNotFound(err) {
		t.Errorf("expected ConfigNotFoundError, got %T", err)
	}
}

func TestWriteDefaultTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "docchat.yaml")

	created, err := WriteDefaultTemplate(path)
	if err != nil {
		t.Fatalf("WriteDefaultTemplate() error: %v", err)
	}
	if !created {
		t.Error("expected template to be created")
	}

	// Second call must not clobber the file.
	created, err = WriteDefaultTemplate(path)
	if err != nil {
		t.Fatalf("WriteDefaultTemplate() second call error: %v", err)
	}
	if created {
		t.Error("template should not be rewritten when present")
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	if got := expandPath("~/data/docchat.db"); got != filepath.Join(home, "data", "docchat.db") {
		t.Errorf("expandPath(~/...) = %q", got)
	}
	if got := expandPath("/abs/path.db"); got != "/abs/path.db" {
		t.Errorf("expandPath(abs) = %q", got)
	}
}
