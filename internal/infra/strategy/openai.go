package strategy

import (
	"context"
	"errors"
	"fmt"

	"customer-offers/internal/resilience/retry"

	"github.com/sashabaranov/go-openai"
)

// DefaultOpenAIModel is used when OPENAI_MODEL is not set.
const DefaultOpenAIModel = openai.GPT4oMini

// OpenAICompleter implements Completer with the OpenAI chat completions API.
type OpenAICompleter struct {
	client *openai.Client
	model  string
}

// NewOpenAICompleter creates a completer using the public OpenAI endpoint.
func NewOpenAICompleter(apiKey, model string) *OpenAICompleter {
	return NewOpenAICompleterWithConfig(openai.DefaultConfig(apiKey), model)
}

// NewOpenAICompleterWithConfig creates a completer from a client config,
// which allows pointing it at a compatible endpoint.
func NewOpenAICompleterWithConfig(cfg openai.ClientConfig, model string) *OpenAICompleter {
	if model == "" {
		model = DefaultOpenAIModel
	}
	return &OpenAICompleter{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

func (o *OpenAICompleter) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return "", &retry.StatusError{Code: apiErr.HTTPStatusCode, Err: err}
		}
		var reqErr *openai.RequestError
		if errors.As(err, &reqErr) {
			return "", &retry.StatusError{Code: reqErr.HTTPStatusCode, Err: err}
		}
		return "", fmt.Errorf("openai api error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai api returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
