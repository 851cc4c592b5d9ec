package answer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/DreamCats/docchat/internal/config"
	"github.com/DreamCats/docchat/internal/retrieval"
)

const (
	openAIChatEndpoint     = "https://api.openai.com/v1/chat/completions"
	volcEngineChatEndpoint = "https://ark.cn-beijing.volces.com/api/v3/chat/completions"

	defaultMaxContextChars = 6000
)

// Generator produces grounded answers from retrieved chunks using a
// chat-completion API.
type Generator struct {
	cfg         *config.ChatConfig
	client      *http.Client
	endpoint    string
	model       string
	temperature float64
}

// NewGenerator creates an answer generator for the configured provider.
func NewGenerator(cfg *config.ChatConfig) (*Generator, error) {
	if cfg == nil {
		return nil, fmt.Errorf("chat config is required")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("chat.api_key is required (or set DOCCHAT_API_KEY)")
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		switch cfg.Provider {
		case "volcengine":
			endpoint = volcEngineChatEndpoint
		case "openai", "":
			endpoint = openAIChatEndpoint
		default:
			return nil, fmt.Errorf("unsupported chat provider: %s", cfg.Provider)
		}
	}

	model := cfg.Model
	if model == "" {
		if cfg.Provider == "volcengine" {
			model = "doubao-1-5-pro-32k-250115"
		} else {
			model = "gpt-4o-mini"
		}
	}

	temperature := 0.2
	if cfg.Temperature != nil {
		temperature = *cfg.Temperature
	}

	return &Generator{
		cfg: cfg,
		client: &http.Client{
			Timeout: 120 * time.Second,
		},
		endpoint:    endpoint,
		model:       model,
		temperature: temperature,
	}, nil
}

// Answer holds a generated answer and the chunks it was grounded on.
type Answer struct {
	Text    string
	Sources []retrieval.Result
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Generate answers the question using the retrieved passages as the
// only context. The passage budget is cfg.MaxContextChars.
func (g *Generator) Generate(ctx context.Context, question string, results []retrieval.Result) (*Answer, error) {
	if strings.TrimSpace(question) == "" {
		return nil, fmt.Errorf("question is empty")
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("no context passages to answer from")
	}

	maxChars := g.cfg.MaxContextChars
	if maxChars <= 0 {
		maxChars = defaultMaxContextChars
	}

	systemPrompt := g.cfg.SystemPrompt
	if systemPrompt == "" {
		systemPrompt = defaultSystemPrompt
	}

	reqBody := chatRequest{
		Model: g.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: buildPrompt(question, results, maxChars)},
		},
		Temperature: g.temperature,
		MaxTokens:   g.cfg.MaxTokens,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", g.endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+g.cfg.APIKey)

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("chat API returned status %d: %s", resp.StatusCode, string(body))
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if chatResp.Error != nil {
		return nil, fmt.Errorf("chat API error: %s", chatResp.Error.Message)
	}
	if len(chatResp.Choices) == 0 {
		return nil, fmt.Errorf("chat API returned no choices")
	}

	text := strings.TrimSpace(chatResp.Choices[0].Message.Content)
	if text == "" {
		return nil, fmt.Errorf("chat API returned empty content")
	}

	return &Answer{Text: text, Sources: results}, nil
}
