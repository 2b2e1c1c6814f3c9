package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

// OpenAI wraps the chat completion endpoint as a plain prompt-in, text-out
// backend.
type OpenAI struct {
	client *openai.Client
	model  string
}

func NewOpenAI(apiKey, model string) *OpenAI {
	if model == "" {
		model = openai.GPT4
	}

	return &OpenAI{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

// Complete sends the prompt and returns the generated text, bounded by
// maxTokens of output.
func (o *OpenAI) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	resp, err := o.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: o.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			MaxTokens:   maxTokens,
			Temperature: 0.7,
		})
	if err != nil {
		return "", fmt.Errorf("failed to fetch completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("completion returned no choices")
	}

	return resp.Choices[len(resp.Choices)-1].Message.Content, nil
}
