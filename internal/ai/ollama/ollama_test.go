package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kiliankoe/calculecrit/internal/ai"
)

// Client is what the narrator voice is built on.
var _ ai.Provider = (*Client)(nil)

func TestCompleteWithSystem(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var body struct {
			Model    string              `json:"model"`
			Stream   bool                `json:"stream"`
			Messages []map[string]string `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode: %v", err)
		}
		if body.Model != "llama3.2" || body.Stream || len(body.Messages) != 1 {
			t.Errorf("unexpected request %+v", body)
		}
		_, _ = w.Write([]byte(`{"message":{"content":"  Super !\n"}}`))
	}))
	defer srv.Close()

	got, err := New(srv.URL).CompleteWithSystem(context.Background(), "", "", "prompt")
	if err != nil {
		t.Fatalf("CompleteWithSystem: %v", err)
	}
	if got != "Super !" {
		t.Fatalf("unexpected completion %q", got)
	}
}

func TestCompleteStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()
	if _, err := New(srv.URL).CompleteWithSystem(context.Background(), "m", "", "p"); err == nil {
		t.Fatal("expected error on 500")
	}
}
