package anthropic

import "os"

const (
	// TokenEnvVarName is the environment variable the API key is read from.
	TokenEnvVarName = "ANTHROPIC_API_KEY" //nolint:gosec

	// DefaultMaxTokens bounds a completion when no limit is requested;
	// the Messages API requires an explicit value.
	DefaultMaxTokens = 4096
)

// Options hold the configuration for the Anthropic completer.
type Options struct {
	Token   string
	Model   string
	BaseURL string
}

func defaultOptions() *Options {
	return &Options{
		Token: os.Getenv(TokenEnvVarName),
	}
}

// Option is a functional option for the Anthropic completer.
type Option func(*Options)

// WithToken passes the Anthropic API token to the client. If not set, the
// token is read from the ANTHROPIC_API_KEY environment variable.
func WithToken(token string) Option {
	return func(opts *Options) {
		opts.Token = token
	}
}

// WithModel passes the default model to the client.
func WithModel(model string) Option {
	return func(opts *Options) {
		opts.Model = model
	}
}

// WithBaseURL passes a custom API endpoint to the client.
func WithBaseURL(baseURL string) Option {
	return func(opts *Options) {
		opts.BaseURL = baseURL
	}
}
