package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/donaldgifford/cardsmith/internal/generator"
	"github.com/donaldgifford/cardsmith/pkg/profile"
)

const (
	streamPath        = "/api/v1/generate/stream"
	heartbeatInterval = 15 * time.Second
)

// SSE event names.
const (
	EventStart    = "start"
	EventProgress = "progress"
	EventResult   = "result"
	EventError    = "error"
)

// StreamEvent is the payload of start, progress and error events.
type StreamEvent struct {
	StreamID string  `json:"stream_id"`
	Progress float64 `json:"progress"`
	Error    string  `json:"error,omitempty"`
}

// StreamResult is the payload of the final result event.
type StreamResult struct {
	StreamID string `json:"stream_id"`
	GenerateResponseBody
}

// sseWriter serializes events onto a streaming response. The heartbeat
// goroutine and the progress callback write concurrently.
type sseWriter struct {
	mu     sync.Mutex
	resp   *echo.Response
	closed bool
}

func (w *sseWriter) event(name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s event: %w", name, err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	if _, err := fmt.Fprintf(w.resp, "event: %s\ndata: %s\n\n", name, data); err != nil {
		return fmt.Errorf("writing %s event: %w", name, err)
	}
	w.resp.Flush()
	return nil
}

func (w *sseWriter) heartbeat() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if _, err := fmt.Fprint(w.resp, ": heartbeat\n\n"); err == nil {
		w.resp.Flush()
	}
}

func (w *sseWriter) close() {
	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()
}

// Stream handles POST /api/v1/generate/stream. The card is generated with
// progress reporting and delivered as server-sent events: one start event,
// zero or more progress events, then a single result or error event.
func (h *GenerateHandler) Stream(c echo.Context) error {
	var body GenerateRequestBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}
	if strings.TrimSpace(body.ProductName) == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "product_name is required"})
	}

	ctx := c.Request().Context()
	req := body.toDomain(h.defaults)
	streamID := uuid.NewString()

	resp := c.Response()
	resp.Header().Set(echo.HeaderContentType, "text/event-stream")
	resp.Header().Set(echo.HeaderCacheControl, "no-cache")
	resp.Header().Set(echo.HeaderConnection, "keep-alive")
	resp.Header().Set("X-Accel-Buffering", "no")
	resp.WriteHeader(http.StatusOK)

	w := &sseWriter{resp: resp}
	defer w.close()

	if err := w.event(EventStart, StreamEvent{StreamID: streamID}); err != nil {
		h.log.Warn("stream start failed", "stream_id", streamID, "error", err)
		return nil
	}

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		ticker := time.NewTicker(heartbeatInterval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				w.heartbeat()
			}
		}
	}()

	progress := func(fraction float64) error {
		return w.event(EventProgress, StreamEvent{StreamID: streamID, Progress: fraction})
	}

	card, err := h.gen.Generate(ctx, req, progress)
	if errors.Is(err, generator.ErrCancelled) {
		h.log.Info("stream cancelled by client", "stream_id", streamID)
		return nil
	}
	if err != nil {
		if werr := w.event(EventError, StreamEvent{StreamID: streamID, Error: err.Error()}); werr != nil {
			h.log.Warn("stream error event failed", "stream_id", streamID, "error", werr)
		}
		return nil
	}

	result := StreamResult{StreamID: streamID}
	result.Card = card
	result.Platform = profile.Resolve(req.Platform).Code
	result.Language = string(req.Language)
	result.GenerationID = h.history.Record(ctx, body.UserID, req, card)

	if err := w.event(EventResult, result); err != nil {
		h.log.Warn("stream result event failed", "stream_id", streamID, "error", err)
	}
	return nil
}

// RegisterStreamRoutes registers the SSE generation endpoint on the echo
// server. Streaming responses bypass Huma.
func RegisterStreamRoutes(e *echo.Echo, h *GenerateHandler) {
	e.POST(streamPath, h.Stream)
}
