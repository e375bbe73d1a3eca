// Package llm provides the chat-completion client the practice loop calls
// when the gate passes a message through. The gate core never imports this
// package; it is a collaborator behind the PASS_TO_LLM action.
package llm

import "context"

// Message is one turn in the conversation sent to the model.
type Message struct {
	Role    string `json:"role"` // system, user, assistant
	Content string `json:"content"`
}

// ChatRequest contains the parameters for one completion.
type ChatRequest struct {
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature,omitempty"`
	TopP        float64   `json:"top_p,omitempty"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

// ChatResponse is the model's reply.
type ChatResponse struct {
	Content string `json:"content"`
	Model   string `json:"model"`
	Usage   Usage  `json:"usage"`
}

// Usage tracks token consumption for cost reporting.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Client represents any chat-completion provider.
type Client interface {
	// Chat sends the conversation and returns a single reply.
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)

	// Model returns the model identifier.
	Model() string
}

// Config holds provider settings.
type Config struct {
	Provider    string  `yaml:"provider"` // openai, mock
	Model       string  `yaml:"model"`
	APIKey      string  `yaml:"api_key"`
	BaseURL     string  `yaml:"base_url"`
	Timeout     int     `yaml:"timeout_seconds"`
	MaxRetries  int     `yaml:"max_retries"`
	Temperature float64 `yaml:"temperature"`
	TopP        float64 `yaml:"top_p"`
	MaxTokens   int     `yaml:"max_tokens"`
}
