// Package anthropic implements the chat.Completer capability over the
// official Anthropic Go SDK.
package anthropic

import (
	"context"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/cockroachdb/errors"

	"github.com/bridgekit-ai/toolbridge/pkg/chat"
)

var (
	ErrEmptyResponse = errors.New("anthropic: no response")
	ErrMissingToken  = errors.New("anthropic: missing API key, set it in the ANTHROPIC_API_KEY environment variable")
)

// Client is an Anthropic-backed chat completer.
type Client struct {
	client  *anthropic.Client
	options *Options
}

var _ chat.Completer = (*Client)(nil)

// New returns a new Anthropic chat completer.
func New(opts ...Option) (*Client, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}
	if options.Token == "" {
		return nil, errors.WithStack(ErrMissingToken)
	}
	if options.Model == "" {
		return nil, errors.New("anthropic: model is required")
	}

	sdkOpts := []option.RequestOption{
		option.WithAPIKey(options.Token),
		option.WithMaxRetries(2),
	}
	if options.BaseURL != "" {
		sdkOpts = append(sdkOpts, option.WithBaseURL(options.BaseURL))
	}

	client := anthropic.NewClient(sdkOpts...)
	return &Client{
		client:  &client,
		options: options,
	}, nil
}

// GetProviderType implements the Completer interface.
func (c *Client) GetProviderType() chat.ProviderType {
	return chat.ProviderAnthropic
}

// Complete implements the Completer interface.
//
// System messages are lifted out of the sequence and sent through the
// dedicated system prompt parameter, as the Messages API requires
// user/assistant alternation in the message list.
func (c *Client) Complete(ctx context.Context, messages []chat.Message, options ...chat.CallOption) (string, error) {
	opts := chat.ApplyOptions(options...)

	model := c.options.Model
	if opts.Model != "" {
		model = opts.Model
	}
	maxTokens := int64(DefaultMaxTokens)
	if opts.MaxTokens > 0 {
		maxTokens = int64(opts.MaxTokens)
	}

	var systemPrompt strings.Builder
	sdkMsgs := make([]anthropic.MessageParam, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case chat.RoleSystem:
			if systemPrompt.Len() > 0 {
				systemPrompt.WriteString("\n\n")
			}
			systemPrompt.WriteString(m.Content)
		case chat.RoleUser:
			sdkMsgs = append(sdkMsgs, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		case chat.RoleAssistant:
			sdkMsgs = append(sdkMsgs, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
		default:
			return "", errors.Errorf("anthropic: role %q not supported", m.Role)
		}
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		Messages:  sdkMsgs,
		MaxTokens: maxTokens,
	}
	if systemPrompt.Len() > 0 {
		params.System = []anthropic.TextBlockParam{
			{
				Type: "text",
				Text: systemPrompt.String(),
			},
		}
	}
	if opts.TemperatureSet {
		params.Temperature = anthropic.Float(opts.Temperature)
	}
	if len(opts.StopWords) > 0 {
		params.StopSequences = opts.StopWords
	}

	result, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", errors.Wrap(err, "anthropic: failed to create message")
	}

	var text strings.Builder
	for _, block := range result.Content {
		if tb, ok := block.AsAny().(anthropic.TextBlock); ok {
			text.WriteString(tb.Text)
		}
	}
	if text.Len() == 0 {
		return "", errors.WithStack(ErrEmptyResponse)
	}
	return text.String(), nil
}
