package services

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const endingSystemPrompt = `You are a creative assistant specializing in generating alternate movie endings. Be imaginative, surprising, and engaging. The user will provide the original movie title and a prompt for the alternate ending. Avoid using words like "instead", "alternate", "ending", "movie", "Our story", "Our movie", etc. keep it strictly to the story of what would have happened in the movie if the original ending was different, and instead the prompt happened. Only output the title or the content of the alternate ending, nothing else, never return both. Don't use quotes in your response, stick to a maximum of 100 characters for titles and 150 words for the content.`

var ErrInvalidCompletion = errors.New("must provide type, movieTitle, and prompt")

type CompletionKind string

const (
	CompletionTitle   CompletionKind = "title"
	CompletionContent CompletionKind = "content"
)

type CompletionRequest struct {
	Kind       CompletionKind
	MovieTitle string
	Prompt     string
}

func (r CompletionRequest) Validate() error {
	if (r.Kind != CompletionTitle && r.Kind != CompletionContent) || r.MovieTitle == "" || r.Prompt == "" {
		return ErrInvalidCompletion
	}
	return nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
	Stream      bool          `json:"stream"`
}

// ChatChunk is one streamed chat completion event.
type ChatChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

// LLMService streams chat completions from an OpenAI-compatible endpoint.
type LLMService struct {
	baseURL    string
	token      string
	model      string
	httpClient *http.Client
}

func NewLLMService(baseURL, token, model string) *LLMService {
	return &LLMService{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		model:      model,
		httpClient: &http.Client{},
	}
}

func (s *LLMService) buildRequest(req CompletionRequest) chatRequest {
	task := "Write a detailed and engaging alternate ending based on this prompt."
	maxTokens := 500
	if req.Kind == CompletionTitle {
		task = "Generate a catchy and intriguing title for this alternate ending."
		maxTokens = 50
	}

	return chatRequest{
		Model: s.model,
		Messages: []chatMessage{
			{Role: "system", Content: endingSystemPrompt},
			{Role: "user", Content: fmt.Sprintf(`Original movie: "%s". Alternate ending prompt: "%s". %s`, req.MovieTitle, req.Prompt, task)},
		},
		Temperature: 1.0,
		MaxTokens:   maxTokens,
		Stream:      true,
	}
}

// StreamEnding asks the model for an ending title or body and calls onDelta for every
// non-empty piece of text as it arrives. It returns when the stream ends, ctx is
// cancelled, or onDelta fails.
func (s *LLMService) StreamEnding(ctx context.Context, req CompletionRequest, onDelta func(string) error) error {
	if err := req.Validate(); err != nil {
		return err
	}

	payload, err := json.Marshal(s.buildRequest(req))
	if err != nil {
		return err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")
	if s.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("completion request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("completion request failed: %d %s", resp.StatusCode, string(body))
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		data, ok := strings.CutPrefix(line, "data:")
		if !ok {
			continue
		}
		data = strings.TrimSpace(data)
		if data == "[DONE]" {
			return nil
		}

		var chunk ChatChunk
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			return fmt.Errorf("decode completion chunk: %w", err)
		}
		if len(chunk.Choices) == 0 || chunk.Choices[0].Delta.Content == "" {
			continue
		}
		if err := onDelta(chunk.Choices[0].Delta.Content); err != nil {
			return err
		}
	}
	return scanner.Err()
}
