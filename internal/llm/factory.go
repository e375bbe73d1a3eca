package llm

import (
	"fmt"
	"strings"

	"github.com/Pratyay-Mondal/tinder-practice-nlp/internal/logging"
)

// NewClient builds a client for the configured provider.
func NewClient(config Config, logger logging.Logger) (Client, error) {
	switch strings.ToLower(strings.TrimSpace(config.Provider)) {
	case "", "openai":
		return NewOpenAIClient(config, logger), nil
	case "mock":
		return &MockClient{ModelName: config.Model}, nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", config.Provider)
	}
}
