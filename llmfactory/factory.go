package llmfactory

import (
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/xlog"

	"github.com/bridgekit-ai/toolbridge/pkg/chat"
	"github.com/bridgekit-ai/toolbridge/pkg/chat/anthropic"
	"github.com/bridgekit-ai/toolbridge/pkg/chat/openai"
)

var logger = xlog.NewPackageLogger("github.com/bridgekit-ai/toolbridge", "llmfactory")

// Factory constructs chat completers from configuration.
type Factory interface {
	// DefaultCompleter returns the completer for the first configured provider.
	DefaultCompleter() (chat.Completer, error)
	// CompleterByName returns the completer for the named provider entry.
	CompleterByName(name string) (chat.Completer, error)
}

// Load returns a factory from the config at the given location.
func Load(location string) (Factory, error) {
	cfg, err := LoadConfig(location)
	if err != nil {
		return nil, err
	}
	return New(cfg), nil
}

type factory struct {
	cfg *Config

	byName map[string]chat.Completer
	lock   sync.Mutex
}

// New creates a new chat completer factory.
func New(cfg *Config) Factory {
	return &factory{
		cfg:    cfg,
		byName: make(map[string]chat.Completer),
	}
}

// NewCompleter constructs a completer from a single provider entry.
func NewCompleter(cfg *ProviderConfig) (chat.Completer, error) {
	switch strings.ToUpper(cfg.Provider) {
	case "", string(chat.ProviderOpenAI):
		var opts []openai.Option
		if cfg.Token != "" {
			opts = append(opts, openai.WithToken(cfg.Token))
		}
		if cfg.DefaultModel != "" {
			opts = append(opts, openai.WithModel(cfg.DefaultModel))
		}
		if cfg.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
		}
		return openai.New(opts...)
	case string(chat.ProviderAnthropic):
		var opts []anthropic.Option
		if cfg.Token != "" {
			opts = append(opts, anthropic.WithToken(cfg.Token))
		}
		if cfg.DefaultModel != "" {
			opts = append(opts, anthropic.WithModel(cfg.DefaultModel))
		}
		if cfg.BaseURL != "" {
			opts = append(opts, anthropic.WithBaseURL(cfg.BaseURL))
		}
		return anthropic.New(opts...)
	default:
		return nil, errors.Errorf("unsupported provider: %s", cfg.Provider)
	}
}

// DefaultCompleter returns the completer for the first configured provider.
func (f *factory) DefaultCompleter() (chat.Completer, error) {
	if len(f.cfg.Providers) == 0 {
		return nil, errors.New("no providers configured")
	}
	return f.CompleterByName(f.cfg.Providers[0].Name)
}

// CompleterByName returns the completer for the named provider entry,
// constructing and caching it on first use.
func (f *factory) CompleterByName(name string) (chat.Completer, error) {
	f.lock.Lock()
	defer f.lock.Unlock()

	if c, ok := f.byName[name]; ok {
		return c, nil
	}

	for _, p := range f.cfg.Providers {
		if p.Name == name {
			c, err := NewCompleter(p)
			if err != nil {
				return nil, errors.WithMessagef(err, "failed to create provider %q", name)
			}
			logger.KV(xlog.INFO,
				"status", "provider_created",
				"name", p.Name,
				"provider", p.Provider,
				"model", p.DefaultModel,
			)
			f.byName[name] = c
			return c, nil
		}
	}
	return nil, errors.Errorf("provider not found: %s", name)
}
