package ai

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type fakeProvider struct {
	system, prompt string
	out            string
	err            error
}

func (f *fakeProvider) CompleteWithSystem(ctx context.Context, model, system, prompt string) (string, error) {
	f.system, f.prompt = system, prompt
	return f.out, f.err
}

func TestVoiceRephrase(t *testing.T) {
	p := &fakeProvider{out: `  "Combien de billes rouges vois-tu ?" `}
	v := &Voice{Provider: p, Model: "m"}
	got, err := v.Rephrase(context.Background(), "fr", "Combien y a-t-il de billes rouges ?")
	if err != nil {
		t.Fatalf("Rephrase: %v", err)
	}
	if got != "Combien de billes rouges vois-tu ?" {
		t.Fatalf("unexpected rephrasing %q", got)
	}
	if p.system != DefaultSystemPrompt {
		t.Fatalf("expected default system prompt, got %q", p.system)
	}
	if !strings.Contains(p.prompt, "Language: fr") || !strings.Contains(p.prompt, "billes rouges") {
		t.Fatalf("unexpected prompt %q", p.prompt)
	}
}

func TestVoiceRephraseErrors(t *testing.T) {
	var nilVoice *Voice
	if _, err := nilVoice.Rephrase(context.Background(), "fr", "x"); err == nil {
		t.Fatal("nil voice should fail")
	}
	boom := errors.New("boom")
	v := &Voice{Provider: &fakeProvider{err: boom}}
	if _, err := v.Rephrase(context.Background(), "fr", "x"); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped provider error, got %v", err)
	}
	v = &Voice{Provider: &fakeProvider{out: "   "}}
	if _, err := v.Rephrase(context.Background(), "fr", "x"); err == nil {
		t.Fatal("empty completion should fail")
	}
}
