package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// narrativeErrorMarker prefixes every narrative that failed to generate.
const narrativeErrorMarker = "Error"

// Narrator turns a prompt into free text using a text-generation service.
type Narrator interface {
	Narrate(ctx context.Context, prompt string) (string, error)
}

// requestNarrative asks n for a forensic opinion on r. Failures are
// returned as text starting with narrativeErrorMarker.
func requestNarrative(ctx context.Context, n Narrator, now time.Time, r *AnalysisResult) string {
	prompt := buildPrompt(now, r)

	start := time.Now()
	text, err := n.Narrate(ctx, prompt)
	if err != nil {
		log.Warn("narrative request failed", "file", r.FileName, "err", err)
		return fmt.Sprintf("%s analyzing with AI: %v", narrativeErrorMarker, err)
	}
	log.Debug("narrative generated", "file", r.FileName, "chars", len(text), "took", time.Since(start))

	return text
}

func isNarrativeError(text string) bool {
	return strings.HasPrefix(text, narrativeErrorMarker)
}

// newNarrator builds the narrator selected by cfg.Provider.
func newNarrator(cfg Config) (Narrator, error) {
	var (
		n   Narrator
		err error
	)
	switch cfg.Provider {
	case ProviderGemini:
		n, err = newGeminiNarrator(cfg.APIKey, cfg.Model, cfg.Temperature)
	case ProviderOpenAI:
		n, err = newOpenAINarrator(cfg.APIKey, cfg.BaseURL, cfg.Model, cfg.Temperature)
	case ProviderOllama:
		n, err = newOllamaNarrator(cfg.APIKey, cfg.BaseURL, cfg.Model, cfg.Temperature)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}
	if err != nil {
		return nil, err
	}
	return n, nil
}
