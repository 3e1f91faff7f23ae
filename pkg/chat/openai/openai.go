// Package openai implements the chat.Completer capability over the
// official OpenAI Go SDK.
package openai

import (
	"context"

	"github.com/cockroachdb/errors"
	openaisdk "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/bridgekit-ai/toolbridge/pkg/chat"
)

var (
	ErrEmptyResponse = errors.New("openai: no response")
	ErrMissingToken  = errors.New("openai: missing API key, set it in the OPENAI_API_KEY environment variable")
)

// Client is an OpenAI-backed chat completer.
type Client struct {
	client  openaisdk.Client
	options *Options
}

var _ chat.Completer = (*Client)(nil)

// New returns a new OpenAI chat completer.
// If no token is provided via options, the API key is read from the
// OPENAI_API_KEY environment variable by the SDK.
func New(opts ...Option) (*Client, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}
	if options.Token == "" {
		return nil, errors.WithStack(ErrMissingToken)
	}
	if options.Model == "" {
		return nil, errors.New("openai: model is required")
	}

	sdkOpts := []option.RequestOption{
		option.WithAPIKey(options.Token),
		option.WithMaxRetries(2),
	}
	if options.BaseURL != "" {
		sdkOpts = append(sdkOpts, option.WithBaseURL(options.BaseURL))
	}
	if options.Organization != "" {
		sdkOpts = append(sdkOpts, option.WithOrganization(options.Organization))
	}

	return &Client{
		client:  openaisdk.NewClient(sdkOpts...),
		options: options,
	}, nil
}

// GetProviderType implements the Completer interface.
func (c *Client) GetProviderType() chat.ProviderType {
	return chat.ProviderOpenAI
}

// Complete implements the Completer interface.
func (c *Client) Complete(ctx context.Context, messages []chat.Message, options ...chat.CallOption) (string, error) {
	opts := chat.ApplyOptions(options...)

	model := c.options.Model
	if opts.Model != "" {
		model = opts.Model
	}

	sdkMsgs := make([]openaisdk.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case chat.RoleSystem:
			sdkMsgs = append(sdkMsgs, openaisdk.SystemMessage(m.Content))
		case chat.RoleUser:
			sdkMsgs = append(sdkMsgs, openaisdk.UserMessage(m.Content))
		case chat.RoleAssistant:
			sdkMsgs = append(sdkMsgs, openaisdk.AssistantMessage(m.Content))
		default:
			return "", errors.Errorf("openai: role %q not supported", m.Role)
		}
	}

	params := openaisdk.ChatCompletionNewParams{
		Model:    openaisdk.ChatModel(model),
		Messages: sdkMsgs,
	}
	if opts.TemperatureSet {
		params.Temperature = openaisdk.Float(opts.Temperature)
	}
	if opts.MaxTokens > 0 {
		params.MaxCompletionTokens = openaisdk.Int(int64(opts.MaxTokens))
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", errors.Wrap(err, "openai: failed to create chat completion")
	}
	if len(resp.Choices) == 0 {
		return "", errors.WithStack(ErrEmptyResponse)
	}
	return resp.Choices[0].Message.Content, nil
}
