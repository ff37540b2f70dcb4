// Package ai gives the virtual teacher an optional LLM voice. The model only
// rephrases narration that the exercise already decided on.
package ai

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// DefaultSystemPrompt keeps the rephrasing short, kind and faithful.
const DefaultSystemPrompt = "You are a warm primary school teacher talking to a child of six to eight. " +
	"Rephrase the sentence you are given in the same language, in at most two short sentences. " +
	"Keep every number exactly as written and do not add any new question or hint."

// Provider is a chat model backend.
type Provider interface {
	CompleteWithSystem(ctx context.Context, model string, systemPrompt string, prompt string) (string, error)
}

// Voice rephrases narration through a provider.
type Voice struct {
	Provider     Provider
	Model        string
	SystemPrompt string
	Timeout      time.Duration
}

// Rephrase returns the provider's version of text. Callers fall back to text
// on error.
func (v *Voice) Rephrase(ctx context.Context, lang string, text string) (string, error) {
	if v == nil || v.Provider == nil {
		return "", fmt.Errorf("rephrase: no provider")
	}
	timeout := v.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	system := v.SystemPrompt
	if system == "" {
		system = DefaultSystemPrompt
	}
	prompt := fmt.Sprintf("Language: %s\nSentence: %s", lang, text)
	out, err := v.Provider.CompleteWithSystem(ctx, v.Model, system, prompt)
	if err != nil {
		return "", fmt.Errorf("rephrase: %w", err)
	}
	out = strings.Trim(strings.TrimSpace(out), "\"")
	if out == "" {
		return "", fmt.Errorf("rephrase: empty completion")
	}
	return out, nil
}
