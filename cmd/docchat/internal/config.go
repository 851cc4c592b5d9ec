package internal

import (
	"fmt"
	"os"

	"github.com/DreamCats/docchat/internal/config"
)

// LoadConfig 从指定路径读取并解析 YAML 配置文件。
// 路径为空时使用默认位置 ~/.docchat/config/docchat.yaml。
func LoadConfig(configPath string) (*config.Config, error) {
	if configPath != "" {
		return config.LoadFromFile(configPath)
	}
	return config.Load()
}

// PrintConfigExample 向 stderr 打印一份完整的 YAML 配置示例。
func PrintConfigExample() {
	homeDir, _ := os.UserHomeDir()
	configPath := fmt.Sprintf("%s/.docchat/config/docchat.yaml", homeDir)

	fmt.Fprintf(os.Stderr, `Create a configuration file at %s:

# Embedding service configuration (required)
embedding:
  # Provider: "openai" | "volcengine"
  provider: openai

  # api_key can be left empty to use DOCCHAT_API_KEY or OPENAI_API_KEY
  api_key: your-api-key
  model: text-embedding-3-small
  dimensions: 1536
  batch_size: 16

# Chat completion configuration
chat:
  # Defaults to the embedding provider and key when omitted
  model: gpt-4o-mini
  temperature: 0.2
  max_tokens: 1024
  max_context_chars: 6000

# Text splitting
chunker:
  chunk_size: 512
  overlap: 64

# Retrieval
search:
  default_top_k: 3
  vector_weight: 0.7
  keyword_weight: 0.3

# Ingestion excludes (doublestar globs)
ingest:
  exclude:
    - "**/drafts/**"

Usage:
  1. Create the config file (docchat ingest offers to write a template)
  2. Navigate to your document library: cd /path/to/docs
  3. Run: docchat ingest
  4. Chat: docchat chat
`, configPath)
}
