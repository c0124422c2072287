package llm_test

import (
	"context"
	"iter"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/cardsmith/pkg/llm"
	"github.com/donaldgifford/cardsmith/pkg/llm/mocks"
)

func seqOf(chunks ...string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for _, c := range chunks {
			if !yield(c, nil) {
				return
			}
		}
	}
}

func TestRateLimitedBackend_DailyLimit(t *testing.T) {
	t.Parallel()

	inner := mocks.NewMockBackend(t)
	inner.EXPECT().
		Generate(mock.Anything, mock.Anything).
		Return(llm.GenerateResponse{Content: "ok"}, nil).
		Times(2)

	rl := llm.NewRateLimitedBackend(inner, 100, 10, llm.WithDailyLimit(2))
	assert.Equal(t, int64(2), rl.Remaining())

	for range 2 {
		_, err := rl.Generate(context.Background(), llm.GenerateRequest{Prompt: "p"})
		require.NoError(t, err)
	}
	assert.Equal(t, int64(0), rl.Remaining())

	_, err := rl.Generate(context.Background(), llm.GenerateRequest{Prompt: "p"})
	require.ErrorIs(t, err, llm.ErrDailyLimitReached)
}

func TestRateLimitedBackend_WindowResets(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	inner := mocks.NewMockBackend(t)
	inner.EXPECT().
		Generate(mock.Anything, mock.Anything).
		Return(llm.GenerateResponse{}, nil).
		Times(2)

	rl := llm.NewRateLimitedBackend(inner, 0, 1,
		llm.WithDailyLimit(1),
		llm.WithRateLimitNowFunc(clock),
	)

	_, err := rl.Generate(context.Background(), llm.GenerateRequest{})
	require.NoError(t, err)
	_, err = rl.Generate(context.Background(), llm.GenerateRequest{})
	require.ErrorIs(t, err, llm.ErrDailyLimitReached)

	now = now.Add(25 * time.Hour)
	_, err = rl.Generate(context.Background(), llm.GenerateRequest{})
	require.NoError(t, err)
}

func TestRateLimitedBackend_Unlimited(t *testing.T) {
	t.Parallel()

	inner := mocks.NewMockBackend(t)
	rl := llm.NewRateLimitedBackend(inner, 0, 0)
	assert.Equal(t, int64(-1), rl.Remaining())
}

func TestRateLimitedBackend_CanceledWait(t *testing.T) {
	t.Parallel()

	inner := mocks.NewMockBackend(t)
	rl := llm.NewRateLimitedBackend(inner, 0.001, 1)

	// Drain the only token.
	inner.EXPECT().Generate(mock.Anything, mock.Anything).Return(llm.GenerateResponse{}, nil).Once()
	_, err := rl.Generate(context.Background(), llm.GenerateRequest{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = rl.Generate(ctx, llm.GenerateRequest{})
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, llm.IsConnectivity(err))
}

func TestRateLimitedBackend_GenerateStream(t *testing.T) {
	t.Parallel()

	inner := mocks.NewMockBackend(t)
	inner.EXPECT().
		GenerateStream(mock.Anything, mock.Anything).
		Return(seqOf("a", "b"))
	inner.EXPECT().Name().Return("ollama")

	rl := llm.NewRateLimitedBackend(inner, 100, 1, llm.WithDailyLimit(5))
	assert.Equal(t, "ollama", rl.Name())

	var got []string
	for chunk, err := range rl.GenerateStream(context.Background(), llm.GenerateRequest{}) {
		require.NoError(t, err)
		got = append(got, chunk)
	}
	assert.Equal(t, []string{"a", "b"}, got)
	assert.Equal(t, int64(4), rl.Remaining())
}
