package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestStreamEnding(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			t.Errorf("Expected POST request, got %s", r.Method)
		}
		if r.URL.Path != "/chat/completions" {
			t.Errorf("Expected /chat/completions, got %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-token" {
			t.Errorf("Expected Bearer test-token, got %s", r.Header.Get("Authorization"))
		}

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("Failed to decode request: %v", err)
			return
		}
		if req.Model != "test-model" || !req.Stream || req.MaxTokens != 50 {
			t.Errorf("Unexpected request: %+v", req)
		}
		if !strings.Contains(req.Messages[1].Content, `Original movie: "Titanic"`) {
			t.Errorf("Unexpected user message: %s", req.Messages[1].Content)
		}

		w.Header().Set("Content-Type", "text/event-stream")
		for _, part := range []string{"The ", "", "Door\n", "Holds"} {
			fmt.Fprintf(w, "data: {\"choices\":[{\"delta\":{\"content\":%q}}]}\n\n", part)
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer server.Close()

	s := NewLLMService(server.URL+"/", "test-token", "test-model")

	var parts []string
	err := s.StreamEnding(context.Background(), CompletionRequest{
		Kind:       CompletionTitle,
		MovieTitle: "Titanic",
		Prompt:     "Jack fits on the door",
	}, func(delta string) error {
		parts = append(parts, delta)
		return nil
	})
	if err != nil {
		t.Fatalf("StreamEnding failed: %v", err)
	}

	expected := []string{"The ", "Door\n", "Holds"}
	if strings.Join(parts, "|") != strings.Join(expected, "|") {
		t.Errorf("Expected %q, got %q", expected, parts)
	}
}

func TestStreamEndingValidation(t *testing.T) {
	s := NewLLMService("http://127.0.0.1:0", "", "m")
	err := s.StreamEnding(context.Background(), CompletionRequest{Kind: "poem", MovieTitle: "x", Prompt: "y"}, nil)
	if !errors.Is(err, ErrInvalidCompletion) {
		t.Errorf("Expected ErrInvalidCompletion, got %v", err)
	}
}

func TestStreamEndingUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"bad key"}`))
	}))
	defer server.Close()

	s := NewLLMService(server.URL, "wrong", "m")
	err := s.StreamEnding(context.Background(), CompletionRequest{
		Kind: CompletionContent, MovieTitle: "Up", Prompt: "the house lands",
	}, func(string) error { return nil })
	if err == nil || !strings.Contains(err.Error(), "401") {
		t.Errorf("Expected 401 error, got %v", err)
	}
}
