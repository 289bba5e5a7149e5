// Package llm generates answers from an OpenAI-compatible chat API.
// Ollama exposes the same API under /v1, which is the default provider.
package llm

import (
	"context"
	"fmt"

	"github.com/liliang-cn/docassist/internal/config"
	openai "github.com/sashabaranov/go-openai"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one chat turn sent to the model
type Message struct {
	Role    string
	Content string
}

// Client generates a completion for a conversation
type Client interface {
	Generate(ctx context.Context, messages []Message) (string, error)
}

type openAIClient struct {
	client *openai.Client
	model  string
}

// NewClient builds a client for the configured provider
func NewClient(cfg config.LLMConfig) (Client, error) {
	apiKey := cfg.APIKey
	switch cfg.Provider {
	case "ollama":
		if apiKey == "" {
			// Ollama ignores the key but the header must be well formed
			apiKey = "ollama"
		}
	case "openai":
		if apiKey == "" {
			return nil, fmt.Errorf("openai provider selected but llm.api_key not set")
		}
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.Provider)
	}

	clientCfg := openai.DefaultConfig(apiKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &openAIClient{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
	}, nil
}

func (c *openAIClient) Generate(ctx context.Context, messages []Message) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: make([]openai.ChatCompletionMessage, len(messages)),
	}
	for i, msg := range messages {
		req.Messages[i] = openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		}
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}
