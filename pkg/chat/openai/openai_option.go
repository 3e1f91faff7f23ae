package openai

import "os"

const (
	// TokenEnvVarName is the environment variable the API key is read from.
	TokenEnvVarName = "OPENAI_API_KEY" //nolint:gosec

	// DefaultModel is used when no model is configured.
	DefaultModel = "gpt-4o-mini"
)

// Options hold the configuration for the OpenAI completer.
type Options struct {
	Token        string
	Model        string
	BaseURL      string
	Organization string
}

func defaultOptions() *Options {
	return &Options{
		Token: os.Getenv(TokenEnvVarName),
		Model: DefaultModel,
	}
}

// Option is a functional option for the OpenAI completer.
type Option func(*Options)

// WithToken passes the OpenAI API token to the client. If not set, the token
// is read from the OPENAI_API_KEY environment variable.
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

// WithOrganization specifies which organization's quota and billing
// should be used when making API requests.
func WithOrganization(organization string) Option {
	return func(opts *Options) {
		opts.Organization = organization
	}
}
