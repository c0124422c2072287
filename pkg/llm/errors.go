package llm

import (
	"errors"
	"fmt"
)

var (
	// ErrBackendUnavailable is returned when the LLM service cannot be reached.
	ErrBackendUnavailable = errors.New("llm backend unavailable")

	// ErrBackend matches any *BackendError.
	ErrBackend = errors.New("llm backend error")

	// ErrTimeout is returned when a call exceeds its allotted time.
	ErrTimeout = errors.New("llm call timed out")

	// ErrStreamConsumed is yielded when a stream is iterated a second time.
	ErrStreamConsumed = errors.New("llm stream already consumed")
)

// BackendError is returned when the service is reachable but reports a
// failure, either as a non-success HTTP status or inside a stream.
type BackendError struct {
	StatusCode int
	Body       string
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("ollama error (status %d): %s", e.StatusCode, e.Body)
}

// Is reports ErrBackend as a match so callers can test the class.
func (*BackendError) Is(target error) bool {
	return target == ErrBackend
}

// IsConnectivity reports whether err means the backend could not be reached
// or did not answer in time.
func IsConnectivity(err error) bool {
	return errors.Is(err, ErrBackendUnavailable) || errors.Is(err, ErrTimeout)
}
