package llm

import (
	"fmt"
	"strings"
	"time"

	"github.com/invoicedesk/invoicedesk/types"
)

// NewProvider is a factory function that returns an instance of an
// llm.Provider based on the provided LLM configuration.
func NewProvider(config *types.LLMConfig) (Provider, error) {
	if config == nil {
		return nil, fmt.Errorf("LLM configuration cannot be nil")
	}

	provider := strings.ToLower(strings.TrimSpace(config.Provider))
	switch provider {
	case "openai":
		if config.APIKey == "" {
			return nil, fmt.Errorf("OpenAI provider selected but API key is missing")
		}
		timeout := 60 * time.Second
		if config.RequestTimeoutSeconds > 0 {
			timeout = time.Duration(config.RequestTimeoutSeconds) * time.Second
		}
		return NewOpenAIProvider(config.APIKey, config.ModelName, timeout, config.Debug), nil
	case "":
		return nil, fmt.Errorf("no LLM provider specified in configuration")
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", config.Provider)
	}
}
