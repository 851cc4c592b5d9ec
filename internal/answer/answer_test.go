package answer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DreamCats/docchat/internal/config"
	"github.com/DreamCats/docchat/internal/retrieval"
	"github.com/DreamCats/docchat/internal/store"
)

func floatPtr(v float64) *float64 { return &v }

func makeResults(contents ...string) []retrieval.Result {
	results := make([]retrieval.Result, len(contents))
	for i, c := range contents {
		results[i] = retrieval.Result{
			Chunk: &store.Chunk{
				ID:         string(rune('a' + i)),
				DocumentID: "doc:test",
				Content:    c,
			},
			Document: &store.Document{
				ID:    "doc:test",
				Path:  "/tmp/manual.pdf",
				Title: "manual",
			},
		}
	}
	return results
}

func TestBuildPromptNumbersPassages(t *testing.T) {
	prompt := buildPrompt("what is X?", makeResults("first passage", "second passage"), 1000)

	if !strings.Contains(prompt, "[1] (manual.pdf)") {
		t.Errorf("missing first passage header: %s", prompt)
	}
	if !strings.Contains(prompt, "[2] (manual.pdf)") {
		t.Errorf("missing second passage header: %s", prompt)
	}
	if !strings.Contains(prompt, "first passage") || !strings.Contains(prompt, "second passage") {
		t.Errorf("missing passage text: %s", prompt)
	}
	if !strings.HasSuffix(prompt, "Question: what is X?") {
		t.Errorf("question should come last: %s", prompt)
	}
}

func TestBuildPromptBudget(t *testing.T) {
	long := strings.Repeat("x", 100)
	prompt := buildPrompt("q", makeResults(long, long, long), 150)

	// First passage fits whole, second is truncated to the remaining
	// 50 characters, third is dropped.
	if !strings.Contains(prompt, "[1]") || !strings.Contains(prompt, "[2]") {
		t.Errorf("expected two passages: %s", prompt)
	}
	if strings.Contains(prompt, "[3]") {
		t.Errorf("third passage should be dropped: %s", prompt)
	}
	if total := strings.Count(prompt, "x"); total != 150 {
		t.Errorf("expected exactly 150 context characters, got %d", total)
	}
}

func TestBuildPromptPageInSource(t *testing.T) {
	results := makeResults("content")
	results[0].Chunk.Page = 4
	prompt := buildPrompt("q", results, 1000)

	if !strings.Contains(prompt, "(manual.pdf, page 4)") {
		t.Errorf("expected page in source label: %s", prompt)
	}
}

func TestGenerate(t *testing.T) {
	var gotReq chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("unexpected auth header: %s", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": "X is a thing."}, "finish_reason": "stop"},
			},
		})
	}))
	defer server.Close()

	gen, err := NewGenerator(&config.ChatConfig{
		Provider:    "openai",
		APIKey:      "test-key",
		Endpoint:    server.URL,
		Model:       "test-model",
		Temperature: floatPtr(0.2),
		MaxTokens:   256,
	})
	if err != nil {
		t.Fatalf("NewGenerator failed: %v", err)
	}

	ans, err := gen.Generate(context.Background(), "what is X?", makeResults("X is a thing used for Y."))
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if ans.Text != "X is a thing." {
		t.Errorf("unexpected answer: %s", ans.Text)
	}
	if len(ans.Sources) != 1 {
		t.Errorf("expected 1 source, got %d", len(ans.Sources))
	}

	if gotReq.Model != "test-model" {
		t.Errorf("unexpected model: %s", gotReq.Model)
	}
	if len(gotReq.Messages) != 2 || gotReq.Messages[0].Role != "system" {
		t.Errorf("expected system + user messages, got %+v", gotReq.Messages)
	}
	if !strings.Contains(gotReq.Messages[1].Content, "X is a thing used for Y.") {
		t.Errorf("context passage missing from prompt: %s", gotReq.Messages[1].Content)
	}
}

func TestGenerateAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": {"message": "rate limited"}}`))
	}))
	defer server.Close()

	gen, err := NewGenerator(&config.ChatConfig{
		Provider: "openai",
		APIKey:   "test-key",
		Endpoint: server.URL,
	})
	if err != nil {
		t.Fatalf("NewGenerator failed: %v", err)
	}

	_, err = gen.Generate(context.Background(), "q", makeResults("ctx"))
	if err == nil {
		t.Fatal("expected error for 429 response")
	}
	if !strings.Contains(err.Error(), "429") {
		t.Errorf("error should mention status code: %v", err)
	}
}

func TestGenerateValidation(t *testing.T) {
	gen, err := NewGenerator(&config.ChatConfig{Provider: "openai", APIKey: "k"})
	if err != nil {
		t.Fatalf("NewGenerator failed: %v", err)
	}

	if _, err := gen.Generate(context.Background(), "  ", makeResults("ctx")); err == nil {
		t.Error("expected error for blank question")
	}
	if _, err := gen.Generate(context.Background(), "q", nil); err == nil {
		t.Error("expected error for empty results")
	}
}

func TestNewGeneratorRequiresKey(t *testing.T) {
	if _, err := NewGenerator(&config.ChatConfig{Provider: "openai"}); err == nil {
		t.Error("expected error for missing api key")
	}
}

func TestNewGeneratorTemperature(t *testing.T) {
	gen, err := NewGenerator(&config.ChatConfig{Provider: "openai", APIKey: "k"})
	if err != nil {
		t.Fatalf("NewGenerator failed: %v", err)
	}
	if gen.temperature != 0.2 {
		t.Errorf("default temperature = %v, want 0.2", gen.temperature)
	}

	gen, err = NewGenerator(&config.ChatConfig{
		Provider:    "openai",
		APIKey:      "k",
		Temperature: floatPtr(0),
	})
	if err != nil {
		t.Fatalf("NewGenerator failed: %v", err)
	}
	if gen.temperature != 0 {
		t.Errorf("explicit temperature 0 = %v, want 0", gen.temperature)
	}
}

func TestGenerateSendsZeroTemperature(t *testing.T) {
	var gotReq chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": "ok"}, "finish_reason": "stop"},
			},
		})
	}))
	defer server.Close()

	gen, err := NewGenerator(&config.ChatConfig{
		Provider:    "openai",
		APIKey:      "k",
		Endpoint:    server.URL,
		Temperature: floatPtr(0),
	})
	if err != nil {
		t.Fatalf("NewGenerator failed: %v", err)
	}

	if _, err := gen.Generate(context.Background(), "q", makeResults("ctx")); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if gotReq.Temperature != 0 {
		t.Errorf("request temperature = %v, want 0", gotReq.Temperature)
	}
}

func TestNewGeneratorDefaults(t *testing.T) {
	gen, err := NewGenerator(&config.ChatConfig{Provider: "volcengine", APIKey: "k"})
	if err != nil {
		t.Fatalf("NewGenerator failed: %v", err)
	}
	if gen.endpoint != volcEngineChatEndpoint {
		t.Errorf("unexpected endpoint: %s", gen.endpoint)
	}
	if gen.model != "doubao-1-5-pro-32k-250115" {
		t.Errorf("unexpected model: %s", gen.model)
	}
}
