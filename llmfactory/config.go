package llmfactory

import (
	"github.com/effective-security/x/configloader"
)

// Config describes the configured chat providers.
// The first provider is the default.
type Config struct {
	Providers []*ProviderConfig `json:"providers" yaml:"providers"`
}

// ProviderConfig for a single chat provider.
type ProviderConfig struct {
	// Name is the unique name of the provider entry.
	Name string `json:"name" yaml:"name"`
	// Provider selects the implementation: OPENAI|ANTHROPIC.
	Provider string `json:"provider" yaml:"provider"`
	// Token is the API key; supports ${ENV} expansion.
	Token string `json:"token,omitempty" yaml:"token,omitempty"`
	// DefaultModel is the model used when a call does not override it.
	DefaultModel string `json:"default_model,omitempty" yaml:"default_model,omitempty"`
	// BaseURL overrides the provider endpoint.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
}

// LoadConfig from file
func LoadConfig(file string) (*Config, error) {
	cfg := new(Config)
	if file == "" {
		return cfg, nil
	}

	err := configloader.UnmarshalAndExpand(file, cfg)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}
