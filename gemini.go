package main

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.0-flash"

type geminiNarrator struct {
	apiKey      string
	model       string
	temperature float32
}

func newGeminiNarrator(apiKey, model string, temperature float64) (*geminiNarrator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: gemini", ErrMissingAPIKey)
	}
	if model == "" {
		model = defaultGeminiModel
	}
	return &geminiNarrator{
		apiKey:      apiKey,
		model:       model,
		temperature: float32(temperature),
	}, nil
}

func (g *geminiNarrator) Narrate(ctx context.Context, prompt string) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  g.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", fmt.Errorf("creating Gemini client: %w", err)
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(prompt),
		}, genai.RoleUser),
	}

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(g.temperature),
	}

	resp, err := client.Models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		return "", fmt.Errorf("generating content: %w", err)
	}

	return resp.Text(), nil
}
