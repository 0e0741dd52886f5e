package checker

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicAPI runs analysis prompts through the Anthropic Messages API
// instead of the claude CLI. Used when an API key is configured; the reply
// text still goes through the same recovery chain, since the model may fence
// or preface its JSON either way.
type AnthropicAPI struct {
	api   *anthropic.Client
	model anthropic.Model
}

// NewAnthropicAPI creates an API-backed analyzer with the given key and model.
func NewAnthropicAPI(apiKey, model string) *AnthropicAPI {
	opts := []option.RequestOption{}
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	}
	client := anthropic.NewClient(opts...)
	return &AnthropicAPI{
		api:   &client,
		model: anthropic.Model(model),
	}
}

// Analyze sends the prompt as a single user message and returns the first
// text block of the reply.
func (a *AnthropicAPI) Analyze(ctx context.Context, prompt string) (string, error) {
	msg, err := a.api.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     a.model,
		MaxTokens: 4096,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic API call: %w", err)
	}

	for _, block := range msg.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("no text content in API response")
}
