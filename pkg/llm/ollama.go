package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"net"
	"net/http"
	"strings"
	"sync/atomic"
	"time"
)

const (
	defaultOllamaTimeout = 120 * time.Second
	maxStreamLineSize    = 1 << 20
	maxErrorBodySize     = 64 << 10
)

// OllamaBackend implements Backend using the Ollama /api/generate endpoint.
type OllamaBackend struct {
	endpoint string
	model    string
	client   *http.Client
	timeout  time.Duration
}

// OllamaOption configures the OllamaBackend.
type OllamaOption func(*OllamaBackend)

// WithOllamaHTTPClient overrides the default HTTP client.
func WithOllamaHTTPClient(c *http.Client) OllamaOption {
	return func(b *OllamaBackend) {
		b.client = c
	}
}

// WithOllamaTimeout sets the default per-call timeout used when a request
// does not carry its own.
func WithOllamaTimeout(d time.Duration) OllamaOption {
	return func(b *OllamaBackend) {
		if d > 0 {
			b.timeout = d
		}
	}
}

// NewOllamaBackend creates a new Ollama LLM backend.
func NewOllamaBackend(endpoint, model string, opts ...OllamaOption) *OllamaBackend {
	b := &OllamaBackend{
		endpoint: strings.TrimRight(endpoint, "/"),
		model:    model,
		// Per-call deadlines come from the request context so that
		// streamed bodies are not cut by a client-wide timeout.
		client:  &http.Client{},
		timeout: defaultOllamaTimeout,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Name returns the backend name.
func (*OllamaBackend) Name() string {
	return "ollama"
}

// Endpoint returns the base URL of the Ollama service.
func (b *OllamaBackend) Endpoint() string {
	return b.endpoint
}

type ollamaRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	System  string        `json:"system,omitempty"`
	Stream  bool          `json:"stream"`
	Options ollamaOptions `json:"options"`
	Stop    []string      `json:"stop,omitempty"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type ollamaResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
	Error    string `json:"error,omitempty"`
}

// Generate calls the Ollama /api/generate endpoint with stream=false.
func (b *OllamaBackend) Generate(
	ctx context.Context,
	req GenerateRequest,
) (GenerateResponse, error) {
	callCtx, cancel := b.withTimeout(ctx, req.Timeout)
	defer cancel()

	resp, err := b.post(callCtx, req, false)
	if err != nil {
		return GenerateResponse{}, classify(ctx, callCtx, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return GenerateResponse{}, classify(ctx, callCtx, fmt.Errorf("reading response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		return GenerateResponse{}, &BackendError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(respBody)),
		}
	}

	var ollamaResp ollamaResponse
	if err := json.Unmarshal(respBody, &ollamaResp); err != nil {
		return GenerateResponse{}, fmt.Errorf("parsing ollama response: %w", err)
	}
	if ollamaResp.Error != "" {
		return GenerateResponse{}, &BackendError{StatusCode: resp.StatusCode, Body: ollamaResp.Error}
	}

	return GenerateResponse{
		Content: ollamaResp.Response,
		Model:   ollamaResp.Model,
	}, nil
}

// GenerateStream calls /api/generate with stream=true and yields each
// NDJSON "response" fragment until the final object reports done.
func (b *OllamaBackend) GenerateStream(
	ctx context.Context,
	req GenerateRequest,
) iter.Seq2[string, error] {
	var used atomic.Bool

	return func(yield func(string, error) bool) {
		if used.Swap(true) {
			yield("", ErrStreamConsumed)
			return
		}

		callCtx, cancel := b.withTimeout(ctx, req.Timeout)
		defer cancel()

		resp, err := b.post(callCtx, req, true)
		if err != nil {
			yield("", classify(ctx, callCtx, err))
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
			yield("", &BackendError{
				StatusCode: resp.StatusCode,
				Body:       strings.TrimSpace(string(body)),
			})
			return
		}

		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64<<10), maxStreamLineSize)
		for scanner.Scan() {
			line := bytes.TrimSpace(scanner.Bytes())
			if len(line) == 0 {
				continue
			}

			var chunk ollamaResponse
			if err := json.Unmarshal(line, &chunk); err != nil {
				continue
			}
			if chunk.Error != "" {
				yield("", &BackendError{StatusCode: resp.StatusCode, Body: chunk.Error})
				return
			}
			if chunk.Response != "" && !yield(chunk.Response, nil) {
				return
			}
			if chunk.Done {
				return
			}
		}

		if err := scanner.Err(); err != nil {
			yield("", classify(ctx, callCtx, fmt.Errorf("reading stream: %w", err)))
			return
		}

		// The body ended without the final done object.
		yield("", fmt.Errorf("calling ollama: %w: stream ended before done: %w",
			ErrBackendUnavailable, io.ErrUnexpectedEOF))
	}
}

func (b *OllamaBackend) post(
	ctx context.Context,
	req GenerateRequest,
	stream bool,
) (*http.Response, error) {
	body, err := json.Marshal(ollamaRequest{
		Model:  b.model,
		Prompt: req.Prompt,
		System: req.System,
		Stream: stream,
		Options: ollamaOptions{
			Temperature: req.Temperature,
			NumPredict:  req.MaxTokens,
		},
		Stop: req.Stop,
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		b.endpoint+"/api/generate",
		bytes.NewReader(body),
	)
	if err != nil {
		return nil, fmt.Errorf("creating HTTP request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	if stream {
		httpReq.Header.Set("Accept", "application/x-ndjson")
	}

	return b.client.Do(httpReq)
}

func (b *OllamaBackend) withTimeout(
	ctx context.Context,
	d time.Duration,
) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = b.timeout
	}
	return context.WithTimeout(ctx, d)
}

// classify maps a transport failure onto the error taxonomy. Caller
// cancellation wins over everything else.
func classify(parent, call context.Context, err error) error {
	if parentErr := parent.Err(); parentErr != nil {
		return fmt.Errorf("calling ollama: %w", parentErr)
	}

	var netErr net.Error
	if errors.Is(call.Err(), context.DeadlineExceeded) ||
		(errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("calling ollama: %w: %w", ErrTimeout, err)
	}

	return fmt.Errorf("calling ollama: %w: %w", ErrBackendUnavailable, err)
}
