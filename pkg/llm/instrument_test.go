package llm_test

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"testing"

	ptestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/cardsmith/internal/metrics"
	"github.com/donaldgifford/cardsmith/pkg/llm"
	"github.com/donaldgifford/cardsmith/pkg/llm/mocks"
)

func TestErrorKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: "none"},
		{name: "timeout", err: fmt.Errorf("calling ollama: %w", llm.ErrTimeout), want: "timeout"},
		{name: "unavailable", err: fmt.Errorf("x: %w", llm.ErrBackendUnavailable), want: "unavailable"},
		{name: "backend", err: &llm.BackendError{StatusCode: 500, Body: "boom"}, want: "backend"},
		{name: "canceled", err: fmt.Errorf("x: %w", context.Canceled), want: "canceled"},
		{name: "other", err: errors.New("parse"), want: "other"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, llm.ErrorKind(tt.err))
		})
	}
}

func TestInstrumentedBackend_GenerateRecordsErrors(t *testing.T) {
	t.Parallel()

	inner := mocks.NewMockBackend(t)
	inner.EXPECT().Name().Return("instrument-test")
	inner.EXPECT().
		Generate(mock.Anything, mock.Anything).
		Return(llm.GenerateResponse{}, fmt.Errorf("dial: %w", llm.ErrBackendUnavailable)).
		Once()

	counter := metrics.BackendErrorsTotal.WithLabelValues("instrument-test", "unavailable")
	before := ptestutil.ToFloat64(counter)

	b := llm.NewInstrumentedBackend(inner)
	_, err := b.Generate(context.Background(), llm.GenerateRequest{Prompt: "p"})
	require.ErrorIs(t, err, llm.ErrBackendUnavailable)

	assert.InDelta(t, 1, ptestutil.ToFloat64(counter)-before, 0.1)
}

func TestInstrumentedBackend_StreamPassesThrough(t *testing.T) {
	t.Parallel()

	streamErr := &llm.BackendError{StatusCode: 200, Body: "crashed"}
	var seq iter.Seq2[string, error] = func(yield func(string, error) bool) {
		if !yield("a", nil) {
			return
		}
		yield("", streamErr)
	}

	inner := mocks.NewMockBackend(t)
	inner.EXPECT().Name().Return("instrument-stream")
	inner.EXPECT().GenerateStream(mock.Anything, mock.Anything).Return(seq).Once()

	b := llm.NewInstrumentedBackend(inner)

	var (
		chunks  []string
		lastErr error
	)
	for chunk, err := range b.GenerateStream(context.Background(), llm.GenerateRequest{}) {
		if err != nil {
			lastErr = err
			continue
		}
		chunks = append(chunks, chunk)
	}

	assert.Equal(t, []string{"a"}, chunks)
	require.ErrorIs(t, lastErr, llm.ErrBackend)
	assert.InDelta(t, 1,
		ptestutil.ToFloat64(metrics.BackendErrorsTotal.WithLabelValues("instrument-stream", "backend")),
		0.1,
	)
}
