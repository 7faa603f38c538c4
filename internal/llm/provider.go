package llm

import (
	"context"

	"github.com/avolkov/podtrace/internal/model"
)

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Generate produces text from a system prompt and a user prompt
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// GenerateRequest contains the input for one generation call
type GenerateRequest struct {
	// System is the system instruction
	System string

	// Prompt is the user prompt
	Prompt string

	// Temperature controls sampling. The script draft uses a high value,
	// the analysis calls use 0.
	Temperature float32

	// MaxTokens limits the response length
	MaxTokens int

	// Model overrides the configured model (provider-specific)
	Model string
}

// GenerateResponse contains the provider's output
type GenerateResponse struct {
	// Text is the generated text
	Text string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", "gemini"
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for hosted providers
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// MaxTokens for response generation when the request doesn't set one
	MaxTokens int

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:  "",
		Model:     "",
		Timeout:   120,
		MaxTokens: 8000,
	}
}

// ConfigFromModel converts model.LLMConfig to llm.Config
func ConfigFromModel(mc model.LLMConfig) Config {
	cfg := DefaultConfig()
	cfg.Provider = mc.Provider
	cfg.Model = mc.Model
	cfg.APIKey = mc.APIKey
	cfg.BaseURL = mc.BaseURL
	if mc.Timeout > 0 {
		cfg.Timeout = mc.Timeout
	}
	cfg.HTTPProxy = mc.HTTPProxy
	cfg.HTTPSProxy = mc.HTTPSProxy
	cfg.NoProxy = mc.NoProxy
	return cfg
}
