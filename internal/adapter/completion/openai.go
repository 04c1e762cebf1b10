// Package completion calls an OpenAI-compatible chat completions endpoint
// to generate candidate axis-label words.
package completion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"viz/internal/domain"
)

// OpenAICompleter generates descriptive-characteristic words for a word set
// via a chat completions call.
type OpenAICompleter struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []chatChoice `json:"choices"`
	Error   *apiError    `json:"error,omitempty"`
}

type chatChoice struct {
	Message chatMessage `json:"message"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// NewOpenAICompleter reads the API key from the named environment variable
// and targets the given base URL (default https://api.openai.com/v1).
func NewOpenAICompleter(apiKeyEnv, model, baseURL string) (*OpenAICompleter, error) {
	apiKey := os.Getenv(apiKeyEnv)
	if apiKey == "" {
		return nil, fmt.Errorf("%w: environment variable %s is empty", domain.ErrNoAPIKey, apiKeyEnv)
	}
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}

	return &OpenAICompleter{
		apiKey:  apiKey,
		model:   model,
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}, nil
}

// Complete asks the model for count new descriptive words for the word set,
// distinct from the existing candidates. A response that cannot be parsed
// into words yields an empty slice rather than an error; the caller treats
// that call as contributing nothing.
func (c *OpenAICompleter) Complete(ctx context.Context, words, existing []string, count int) ([]string, error) {
	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: buildUserPrompt(words, existing, count)},
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		// Unparseable body counts as an empty contribution, by contract.
		return nil, nil
	}

	if chatResp.Error != nil {
		return nil, fmt.Errorf("API error: %s", chatResp.Error.Message)
	}

	if len(chatResp.Choices) == 0 {
		return nil, nil
	}

	return ParseWordList(chatResp.Choices[0].Message.Content), nil
}

// ModelName returns the completion model name.
func (c *OpenAICompleter) ModelName() string {
	return c.model
}

const systemPrompt = `You name semantic dimensions. Given a set of words, you propose single descriptive adjectives or short characteristic words that could describe how those words differ from each other. Respond with one word per line, nothing else: no numbering, no explanations, no punctuation.`

func buildUserPrompt(words, existing []string, count int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Word set: %s\n\n", strings.Join(words, ", "))
	if len(existing) > 0 {
		fmt.Fprintf(&b, "Already proposed (do not repeat any of these): %s\n\n", strings.Join(existing, ", "))
	}
	fmt.Fprintf(&b, "Propose %d new descriptive characteristic words.", count)
	return b.String()
}

// ParseWordList extracts candidate words from a model response. It accepts
// newline- or comma-separated output, strips list numbering, bullets and
// quotes, and drops multi-word entries. Anything unextractable simply
// yields fewer words.
func ParseWordList(content string) []string {
	var out []string
	fields := strings.FieldsFunc(content, func(r rune) bool {
		return r == '\n' || r == ','
	})
	for _, f := range fields {
		w := strings.TrimSpace(f)
		w = strings.TrimLeft(w, "-*•0123456789.) ")
		w = strings.Trim(w, `"'`)
		w = strings.TrimSpace(w)
		if w == "" || strings.ContainsAny(w, " \t") {
			continue
		}
		out = append(out, w)
	}
	return out
}

// MockCompleter returns a fixed word list on every call. Useful for tests
// and offline demo runs.
type MockCompleter struct {
	Words []string
}

func NewMockCompleter(words []string) *MockCompleter {
	return &MockCompleter{Words: words}
}

func (m *MockCompleter) Complete(_ context.Context, _, _ []string, count int) ([]string, error) {
	if count < len(m.Words) {
		return append([]string(nil), m.Words[:count]...), nil
	}
	return append([]string(nil), m.Words...), nil
}

func (m *MockCompleter) ModelName() string {
	return "mock"
}
