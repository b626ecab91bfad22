package llm

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config selects and configures the provider used by `dataset narrate`.
type Config struct {
	// Provider is "anthropic", "openai", "gemini", "openrouter" or "mock".
	Provider string

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig

	// Timeout bounds one Generate call including retries.
	Timeout time.Duration
}

type AnthropicConfig struct {
	APIKey string
	Model  string
}

type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type OpenRouterConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig picks small, cheap models; narratives are short.
func DefaultConfig() Config {
	return Config{
		Provider:   "anthropic",
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenAI:     OpenAIConfig{Model: "gpt-4o-mini"},
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		OpenRouter: OpenRouterConfig{Model: "google/gemini-2.0-flash-exp"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2,
		},
		Timeout: 45 * time.Second,
	}
}

// envBindings lists the HOROSCOPE_* variables ConfigFromEnv reads.
func (c *Config) envBindings() map[string]*string {
	return map[string]*string{
		"HOROSCOPE_LLM_PROVIDER":       &c.Provider,
		"HOROSCOPE_ANTHROPIC_API_KEY":  &c.Anthropic.APIKey,
		"HOROSCOPE_ANTHROPIC_MODEL":    &c.Anthropic.Model,
		"HOROSCOPE_OPENAI_API_KEY":     &c.OpenAI.APIKey,
		"HOROSCOPE_OPENAI_MODEL":       &c.OpenAI.Model,
		"HOROSCOPE_OPENAI_BASE_URL":    &c.OpenAI.BaseURL,
		"HOROSCOPE_GEMINI_API_KEY":     &c.Gemini.APIKey,
		"HOROSCOPE_GEMINI_MODEL":       &c.Gemini.Model,
		"HOROSCOPE_OPENROUTER_API_KEY": &c.OpenRouter.APIKey,
		"HOROSCOPE_OPENROUTER_MODEL":   &c.OpenRouter.Model,
	}
}

// ConfigFromEnv overlays HOROSCOPE_* variables on DefaultConfig. Unset or
// empty variables keep the default.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	for name, field := range cfg.envBindings() {
		if v := os.Getenv(name); v != "" {
			*field = v
		}
	}
	return cfg
}

// DiscoverConfig falls back to the vendors' own key variables, checked in
// the order Gemini, OpenAI, Anthropic, OpenRouter.
func DiscoverConfig() (Config, bool) {
	cfg := DefaultConfig()
	candidates := []struct {
		env      string
		provider string
		key      *string
	}{
		{"GEMINI_API_KEY", "gemini", &cfg.Gemini.APIKey},
		{"OPENAI_API_KEY", "openai", &cfg.OpenAI.APIKey},
		{"ANTHROPIC_API_KEY", "anthropic", &cfg.Anthropic.APIKey},
		{"OPENROUTER_API_KEY", "openrouter", &cfg.OpenRouter.APIKey},
	}
	for _, c := range candidates {
		if k := os.Getenv(c.env); k != "" {
			cfg.Provider = c.provider
			*c.key = k
			return cfg, true
		}
	}
	return Config{}, false
}

// ResolveConfig uses HOROSCOPE_* settings when they configure a usable
// provider, else DiscoverConfig.
func ResolveConfig() (Config, error) {
	cfg := ConfigFromEnv()
	err := cfg.Validate()
	if err == nil {
		return cfg, nil
	}
	if os.Getenv("HOROSCOPE_LLM_PROVIDER") != "" {
		return Config{}, err
	}
	if found, ok := DiscoverConfig(); ok {
		return found, nil
	}
	return Config{}, fmt.Errorf("no LLM provider configured: set HOROSCOPE_LLM_PROVIDER and its API key, or one of GEMINI_API_KEY, OPENAI_API_KEY, ANTHROPIC_API_KEY, OPENROUTER_API_KEY")
}

// Validate checks that the selected provider has an API key.
func (c Config) Validate() error {
	var key string
	switch c.Provider {
	case "anthropic":
		key = c.Anthropic.APIKey
	case "openai":
		key = c.OpenAI.APIKey
	case "gemini":
		key = c.Gemini.APIKey
	case "openrouter":
		key = c.OpenRouter.APIKey
	case "mock":
		return nil
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if key == "" {
		return fmt.Errorf("HOROSCOPE_%s_API_KEY is required for the %s provider", strings.ToUpper(c.Provider), c.Provider)
	}
	return nil
}
