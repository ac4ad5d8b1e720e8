package askai

import (
	"fmt"
	"strings"
)

// SupportedProviders lists the provider names accepted by NewProvider.
var SupportedProviders = []string{"openai", "gemini", "claude-cli"}

// ProviderConfig carries the settings needed to construct any provider.
// Fields that a given provider does not use are ignored.
type ProviderConfig struct {
	// Name selects the provider: openai, gemini, or claude-cli
	Name string

	// APIKey authenticates against hosted APIs
	APIKey string

	// BaseURL overrides the endpoint for OpenAI-compatible servers
	BaseURL string

	// TimeoutSeconds bounds each request (0 = provider default)
	TimeoutSeconds int

	// MaxInputBytes truncates oversized prompts (0 = provider default)
	MaxInputBytes int
}

func (c ProviderConfig) base() BaseProvider {
	base := DefaultBaseProvider()
	if c.TimeoutSeconds > 0 {
		base.TimeoutSeconds = c.TimeoutSeconds
	}
	if c.MaxInputBytes > 0 {
		base.MaxInputBytes = c.MaxInputBytes
	}
	return base
}

// NewProvider constructs the provider named in the config.
func NewProvider(cfg ProviderConfig) (p Provider, err error) {
	switch cfg.Name {
	case "openai":
		p = NewOpenAIProvider(OpenAIProviderArgs{
			BaseProvider: cfg.base(),
			APIKey:       cfg.APIKey,
			BaseURL:      cfg.BaseURL,
		})
	case "gemini":
		p = NewGeminiProvider(cfg.base(), cfg.APIKey)
	case "claude-cli":
		p = NewClaudeCLIProvider(ClaudeCLIProviderArgs{
			BaseProvider: cfg.base(),
		})
	default:
		err = fmt.Errorf("%w: %q (supported: %s)",
			ErrProviderNotFound, cfg.Name, strings.Join(SupportedProviders, ", "))
	}
	return p, err
}
