package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"plottwisters/internal/services"
	"strings"

	"github.com/gin-gonic/gin"
)

// newlineMarker stands in for "\n" inside SSE data; the editor script turns it back.
const newlineMarker = "␣"

// EndingStreamer is implemented by services.LLMService.
type EndingStreamer interface {
	StreamEnding(ctx context.Context, req services.CompletionRequest, onDelta func(string) error) error
}

type CompletionHandler struct {
	llm EndingStreamer
}

func NewCompletionHandler(llm EndingStreamer) *CompletionHandler {
	return &CompletionHandler{llm: llm}
}

// Stream relays a generated ending title or body as server-sent events:
// "message" per chunk, "error" if generation fails, and a final "done".
func (h *CompletionHandler) Stream(c *gin.Context) {
	req := services.CompletionRequest{
		Kind:       services.CompletionKind(c.Query("type")),
		MovieTitle: strings.TrimSpace(c.Query("movieTitle")),
		Prompt:     strings.TrimSpace(c.Query("prompt")),
	}
	if err := req.Validate(); err != nil {
		JSONError(c, http.StatusBadRequest, err.Error())
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	err := h.llm.StreamEnding(c.Request.Context(), req, func(delta string) error {
		c.SSEvent("message", strings.ReplaceAll(delta, "\n", newlineMarker))
		c.Writer.Flush()
		return nil
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("Completion stream failed (%s for %q): %v", req.Kind, req.MovieTitle, err)
		c.SSEvent("error", "An error occurred")
	}
	c.SSEvent("done", "")
	c.Writer.Flush()
}
