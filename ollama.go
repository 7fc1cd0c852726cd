package main

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/ollama/ollama/api"
)

const (
	defaultOllamaURL   = "http://localhost:11434"
	defaultOllamaModel = "llama3.1"

	// Rough chars-per-token ratio used to size the context window.
	charsPerToken = 4
	minOllamaCtx  = 4096
)

type ollamaNarrator struct {
	model       string
	temperature float64
	client      *api.Client
}

type headerTransport struct {
	headers map[string]string
	rt      http.RoundTripper
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	for k, v := range t.headers {
		if r.Header.Get(k) == "" {
			r.Header.Set(k, v)
		}
	}
	return t.rt.RoundTrip(r)
}

// newOllamaNarrator connects to a local or hosted Ollama server. The API
// key is optional and only sent when set.
func newOllamaNarrator(apiKey, baseURL, model string, temperature float64) (*ollamaNarrator, error) {
	if baseURL == "" {
		baseURL = defaultOllamaURL
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama base url: %w", err)
	}
	if model == "" {
		model = defaultOllamaModel
	}

	httpClient := http.DefaultClient
	if apiKey != "" {
		httpClient = &http.Client{
			Transport: &headerTransport{
				headers: map[string]string{"Authorization": "Bearer " + apiKey},
				rt:      http.DefaultTransport,
			},
		}
	}

	return &ollamaNarrator{
		model:       model,
		temperature: temperature,
		client:      api.NewClient(u, httpClient),
	}, nil
}

func (o *ollamaNarrator) Narrate(ctx context.Context, prompt string) (string, error) {
	stream := false
	req := &api.ChatRequest{
		Model: o.model,
		Messages: []api.Message{
			{Role: "user", Content: prompt},
		},
		Stream:  &stream,
		Options: map[string]any{"temperature": o.temperature},
	}

	if tokens := len(prompt)/charsPerToken + 1024; tokens > minOllamaCtx {
		req.Options["num_ctx"] = tokens
	}

	var content string
	if err := o.client.Chat(ctx, req, func(cr api.ChatResponse) error {
		content += cr.Message.Content
		return nil
	}); err != nil {
		return "", fmt.Errorf("ollama chat: %w", err)
	}

	return content, nil
}
