package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const defaultOpenAIModel = "gpt-4o-mini"

// openaiNarrator talks to the OpenAI chat completions API or any
// compatible endpoint set through baseURL.
type openaiNarrator struct {
	model       string
	temperature float64
	client      openai.Client
}

func newOpenAINarrator(apiKey, baseURL, model string, temperature float64) (*openaiNarrator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: openai", ErrMissingAPIKey)
	}
	if model == "" {
		model = defaultOpenAIModel
	}

	options := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(1),
	}
	if baseURL != "" {
		options = append(options, option.WithBaseURL(baseURL))
	}

	return &openaiNarrator{
		model:       model,
		temperature: temperature,
		client:      openai.NewClient(options...),
	}, nil
}

func (o *openaiNarrator) Narrate(ctx context.Context, prompt string) (string, error) {
	body := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(o.temperature),
	}

	response, err := o.client.Chat.Completions.New(ctx, body)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(response.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}

	return response.Choices[0].Message.Content, nil
}
