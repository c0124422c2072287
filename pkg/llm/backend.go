// Package llm provides the completion client used to talk to a locally
// hosted LLM service, abstracted behind interfaces for testability.
package llm

import (
	"context"
	"iter"
	"time"
)

// GenerateRequest defines the input for an LLM completion call.
type GenerateRequest struct {
	Prompt      string
	System      string
	Temperature float64
	MaxTokens   int
	Stop        []string

	// Timeout bounds a single call. Zero means the backend default.
	Timeout time.Duration
}

// GenerateResponse holds the result of a blocking completion call.
type GenerateResponse struct {
	Content string
	Model   string
}

// Backend defines the interface for LLM text completion.
type Backend interface {
	// Generate performs one blocking request/response round-trip.
	Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, error)

	// GenerateStream returns a lazy, single-use sequence of text fragments.
	// The request is sent on first iteration; stopping early closes the
	// connection. Errors are yielded as the last element.
	GenerateStream(ctx context.Context, req GenerateRequest) iter.Seq2[string, error]

	Name() string
}
