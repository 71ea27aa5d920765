package strategy

import (
	"context"
	"errors"
	"fmt"

	"customer-offers/internal/resilience/retry"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// DefaultClaudeModel is used when CLAUDE_MODEL is not set.
var DefaultClaudeModel = string(anthropic.ModelClaudeSonnet4_5_20250929)

// ClaudeCompleter implements Completer with Anthropic's Messages API.
type ClaudeCompleter struct {
	client    anthropic.Client
	model     string
	maxTokens int64
}

// NewClaudeCompleter creates a completer for the given model.
// SDK-level retries are disabled; LLMStrategy retries with its own policy.
func NewClaudeCompleter(apiKey, model string, opts ...option.RequestOption) *ClaudeCompleter {
	if model == "" {
		model = DefaultClaudeModel
	}
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey), option.WithMaxRetries(0)}, opts...)
	return &ClaudeCompleter{
		client:    anthropic.NewClient(opts...),
		model:     model,
		maxTokens: 512,
	}
}

func (c *ClaudeCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: c.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			return "", retry.FromResponse(apiErr.StatusCode, apiErr.Response, err)
		}
		return "", fmt.Errorf("claude api error: %w", err)
	}

	if len(message.Content) == 0 {
		return "", fmt.Errorf("claude api returned empty response")
	}
	textBlock, ok := message.Content[0].AsAny().(anthropic.TextBlock)
	if !ok {
		return "", fmt.Errorf("claude api returned unexpected response type")
	}
	return textBlock.Text, nil
}
