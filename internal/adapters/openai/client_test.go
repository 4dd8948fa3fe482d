package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return NewClient(Config{APIKey: "test-key", BaseURL: ts.URL, Model: "gpt-4"}, zerolog.Nop())
}

func TestComplete(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path: got %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("auth header: got %q", got)
		}

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Model != "gpt-4" {
			t.Errorf("model: got %q", req.Model)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" || req.Messages[1].Role != "user" {
			t.Errorf("messages: got %+v", req.Messages)
		}

		fmt.Fprint(w, `{"choices": [{"message": {"role": "assistant", "content": "here is your playlist"}}]}`)
	})

	got, err := client.Complete(context.Background(), "you are an assistant", "make a playlist")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "here is your playlist" {
		t.Errorf("content: got %q", got)
	}
}

func TestComplete_APIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error": {"message": "invalid api key"}}`)
	})

	_, err := client.Complete(context.Background(), "s", "p")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "invalid api key") {
		t.Errorf("error should carry the service message: %v", err)
	}
}

func TestComplete_EmptyChoices(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"choices": []}`)
	})

	if _, err := client.Complete(context.Background(), "s", "p"); err == nil {
		t.Fatal("expected error for empty choices")
	}
}

func TestComplete_BlankContent(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"choices": [{"message": {"role": "assistant", "content": "   "}}]}`)
	})

	if _, err := client.Complete(context.Background(), "s", "p"); err == nil {
		t.Fatal("expected error for blank content")
	}
}

func TestNewClient_Defaults(t *testing.T) {
	client := NewClient(Config{APIKey: "k"}, zerolog.Nop())

	if client.baseURL != defaultBaseURL {
		t.Errorf("base url: got %q", client.baseURL)
	}
	if client.model != defaultModel {
		t.Errorf("model: got %q", client.model)
	}
}
