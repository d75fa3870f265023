package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// maxHistoryMessages caps the conversation window forwarded to the model.
	maxHistoryMessages = 12

	defaultTemperature = 0.8
	defaultContextSize = 4096
)

// OllamaConfig configures the Ollama-compatible chat client.
type OllamaConfig struct {
	BaseURL string
	Model   string
	// Timeout bounds the whole call; the chat must fail fast rather than
	// hang while the user waits.
	Timeout    time.Duration
	HTTPClient *http.Client
}

// OllamaClient talks to an Ollama-compatible /api/chat endpoint.
type OllamaClient struct {
	baseURL string
	model   string
	timeout time.Duration
	client  *http.Client
}

// NewOllamaClient validates the configuration and builds the client.
func NewOllamaClient(cfg OllamaConfig) (*OllamaClient, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("ai: base URL is required")
	}
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, errors.New("ai: default model is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 25 * time.Second
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{}
	}
	return &OllamaClient{
		baseURL: baseURL,
		model:   strings.TrimSpace(cfg.Model),
		timeout: timeout,
		client:  client,
	}, nil
}

type ollamaChatRequest struct {
	Model    string            `json:"model"`
	Messages []Message         `json:"messages"`
	Stream   bool              `json:"stream"`
	Options  ollamaChatOptions `json:"options"`
}

type ollamaChatOptions struct {
	Temperature float64 `json:"temperature"`
	NumCtx      int     `json:"num_ctx"`
}

type ollamaChatResponse struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
}

// Chat sends the trailing window of the conversation and returns the model's
// reply content.
func (c *OllamaClient) Chat(ctx context.Context, messages []Message, opts ChatOptions) (string, error) {
	if len(messages) == 0 {
		return "", errors.New("ai: no messages to send")
	}
	if len(messages) > maxHistoryMessages {
		messages = messages[len(messages)-maxHistoryMessages:]
	}

	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = c.model
	}

	payload, err := json.Marshal(ollamaChatRequest{
		Model:    model,
		Messages: messages,
		Stream:   false,
		Options:  ollamaChatOptions{Temperature: defaultTemperature, NumCtx: defaultContextSize},
	})
	if err != nil {
		return "", fmt.Errorf("ai: encode request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("ai: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("ai: chat call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("ai: chat call: status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var decoded ollamaChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("ai: decode response: %w", err)
	}
	if strings.TrimSpace(decoded.Message.Content) == "" {
		return "", ErrEmptyCompletion
	}
	return decoded.Message.Content, nil
}
