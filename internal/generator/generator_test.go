package generator_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/cardsmith/internal/cache"
	"github.com/donaldgifford/cardsmith/internal/generator"
	"github.com/donaldgifford/cardsmith/pkg/llm"
	"github.com/donaldgifford/cardsmith/pkg/llm/mocks"
	"github.com/donaldgifford/cardsmith/pkg/prompt"
	domain "github.com/donaldgifford/cardsmith/pkg/types"
)

const validMouseJSON = `{"title":"Wireless Mouse M185","short_description":"A quiet, reliable wireless mouse.","bullets":["Silent clicks","12-month battery life","2.4GHz connection"]}`

func mouseRequest() domain.GenerationRequest {
	return domain.GenerationRequest{
		ProductName: "Wireless Mouse M185",
		Features:    "2.4GHz, silent clicks, 12-month battery",
		Platform:    "ozon",
		Tone:        domain.ToneNeutral,
		Length:      domain.LengthMedium,
		Language:    domain.LanguageEN,
	}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newService(
	backend llm.Backend,
	c *cache.Cache,
	opts ...generator.Option,
) *generator.Service {
	opts = append([]generator.Option{
		generator.WithLogger(quietLogger()),
		generator.WithRetryDelay(0),
	}, opts...)
	return generator.New(backend, c, opts...)
}

func respond(content string) llm.GenerateResponse {
	return llm.GenerateResponse{Content: content, Model: "qwen"}
}

func chunks(parts ...string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for _, p := range parts {
			if !yield(p, nil) {
				return
			}
		}
	}
}

type progressLog struct {
	mu     sync.Mutex
	values []float64
}

func (p *progressLog) record(v float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.values = append(p.values, v)
	return nil
}

func (p *progressLog) snapshot() []float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]float64(nil), p.values...)
}

func TestGenerate_ValidModelOutput(t *testing.T) {
	t.Parallel()

	backend := mocks.NewMockBackend(t)
	backend.EXPECT().
		Generate(mock.Anything, mock.MatchedBy(func(r llm.GenerateRequest) bool {
			return r.System == prompt.SystemPrompt &&
				r.Temperature == 0.6 &&
				r.MaxTokens == 800 &&
				len(r.Stop) == 1 && r.Stop[0] == "\n\n"
		})).
		Return(respond(validMouseJSON), nil).
		Once()

	svc := newService(backend, cache.New(time.Minute, 8))
	card, err := svc.Generate(context.Background(), mouseRequest(), nil)

	require.NoError(t, err)
	assert.Equal(t, domain.ProductCard{
		Title:            "Wireless Mouse M185",
		ShortDescription: "A quiet, reliable wireless mouse.",
		Bullets:          []string{"Silent clicks", "12-month battery life", "2.4GHz connection"},
	}, card)
}

func TestGenerate_TrailingCommaRecoveredAndPadded(t *testing.T) {
	t.Parallel()

	backend := mocks.NewMockBackend(t)
	backend.EXPECT().
		Generate(mock.Anything, mock.Anything).
		Return(respond(`Sure! Here's your card: {"title": "Mouse", "short_description": "Nice mouse.", "bullets": ["a","b"],}`), nil).
		Once()

	card, err := newService(backend, nil).Generate(context.Background(), mouseRequest(), nil)

	require.NoError(t, err)
	assert.Equal(t, "Mouse", card.Title)
	assert.Equal(t, "Nice mouse.", card.ShortDescription)
	assert.Equal(t, []string{"a", "b", "a"}, card.Bullets)
}

func TestGenerate_BackendAlwaysUnavailable(t *testing.T) {
	t.Parallel()

	backend := mocks.NewMockBackend(t)
	backend.EXPECT().
		Generate(mock.Anything, mock.Anything).
		Return(llm.GenerateResponse{}, fmt.Errorf("calling ollama: %w", llm.ErrBackendUnavailable)).
		Once()

	card, err := newService(backend, nil).Generate(context.Background(), mouseRequest(), nil)

	require.NoError(t, err)
	assert.Equal(t, "Wireless Mouse M185", card.Title)
	assert.Equal(t, []string{"2.4GHz", "silent clicks", "12-month battery"}, card.Bullets)
	assert.NotEmpty(t, card.ShortDescription)
}

func TestGenerate_BackendFailuresDegrade(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
	}{
		{name: "timeout", err: fmt.Errorf("calling ollama: %w", llm.ErrTimeout)},
		{name: "backend error", err: &llm.BackendError{StatusCode: 500, Body: "model not found"}},
		{name: "unexpected", err: errors.New("parsing ollama response: EOF")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			backend := mocks.NewMockBackend(t)
			backend.EXPECT().Generate(mock.Anything, mock.Anything).Return(llm.GenerateResponse{}, tt.err).Once()

			req := mouseRequest()
			req.Features = ""
			card, err := newService(backend, nil).Generate(context.Background(), req, nil)

			require.NoError(t, err)
			assert.Equal(t, "Wireless Mouse M185", card.Title)
			assert.Equal(t, "Wireless Mouse M185", card.ShortDescription)
			assert.Empty(t, card.Bullets)
		})
	}
}

func TestGenerate_BracketedProductNameDegradesToNonEmptyCard(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		productName string
		wantTitle   string
	}{
		{name: "whole name in brackets", productName: "<Mouse>", wantTitle: "<Mouse>"},
		{name: "bracketed spec", productName: "Cable <USB-C> 2m", wantTitle: "Cable <USB-C> 2m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			backend := mocks.NewMockBackend(t)
			backend.EXPECT().
				Generate(mock.Anything, mock.Anything).
				Return(llm.GenerateResponse{}, fmt.Errorf("calling ollama: %w", llm.ErrBackendUnavailable)).
				Once()

			req := mouseRequest()
			req.ProductName = tt.productName
			req.Features = ""
			card, err := newService(backend, nil).Generate(context.Background(), req, nil)

			require.NoError(t, err)
			assert.Equal(t, tt.wantTitle, card.Title)
			assert.Equal(t, tt.wantTitle, card.ShortDescription)
		})
	}
}

func TestGenerate_RepairPass(t *testing.T) {
	t.Parallel()

	backend := mocks.NewMockBackend(t)
	backend.EXPECT().
		Generate(mock.Anything, mock.MatchedBy(func(r llm.GenerateRequest) bool {
			return r.System == prompt.SystemPrompt
		})).
		Return(respond("Here is a lovely mouse with silent clicks."), nil).
		Once()
	backend.EXPECT().
		Generate(mock.Anything, mock.MatchedBy(func(r llm.GenerateRequest) bool {
			return r.System == prompt.RepairSystemPrompt &&
				r.Temperature == 0.2 &&
				r.Prompt == prompt.BuildRepair("Here is a lovely mouse with silent clicks.")
		})).
		Return(respond(validMouseJSON), nil).
		Once()

	card, err := newService(backend, nil).Generate(context.Background(), mouseRequest(), nil)

	require.NoError(t, err)
	assert.Equal(t, "Wireless Mouse M185", card.Title)
	assert.Len(t, card.Bullets, 3)
}

func TestGenerate_RepairBudgetExhausted(t *testing.T) {
	t.Parallel()

	backend := mocks.NewMockBackend(t)
	backend.EXPECT().
		Generate(mock.Anything, mock.Anything).
		Return(respond("no json here"), nil).
		Times(3)

	card, err := newService(backend, nil, generator.WithMaxRetries(2)).
		Generate(context.Background(), mouseRequest(), nil)

	require.NoError(t, err)
	assert.Equal(t, "Wireless Mouse M185", card.Title)
	assert.Equal(t, "no json here", card.ShortDescription)
	assert.Equal(t, []string{"2.4GHz", "silent clicks", "12-month battery"}, card.Bullets)
}

func TestGenerate_ZeroRetries(t *testing.T) {
	t.Parallel()

	backend := mocks.NewMockBackend(t)
	backend.EXPECT().Generate(mock.Anything, mock.Anything).Return(respond(""), nil).Once()

	_, err := newService(backend, nil, generator.WithMaxRetries(0)).
		Generate(context.Background(), mouseRequest(), nil)
	require.NoError(t, err)
}

func TestGenerate_CachedRequestSkipsBackend(t *testing.T) {
	t.Parallel()

	backend := mocks.NewMockBackend(t)
	backend.EXPECT().Generate(mock.Anything, mock.Anything).Return(respond(validMouseJSON), nil).Once()

	c := cache.New(time.Minute, 8)
	svc := newService(backend, c)

	first, err := svc.Generate(context.Background(), mouseRequest(), nil)
	require.NoError(t, err)

	req := mouseRequest()
	req.ProductName = "  wireless MOUSE m185 "
	progress := &progressLog{}
	second, err := svc.Generate(context.Background(), req, progress.record)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Empty(t, progress.snapshot(), "cache hits report no progress")
	assert.Equal(t, 1, c.Len())
}

func TestGenerate_InvalidRequest(t *testing.T) {
	t.Parallel()

	negative := -0.5
	zero := 0

	tests := []struct {
		name string
		req  domain.GenerationRequest
	}{
		{name: "empty product name", req: domain.GenerationRequest{ProductName: "   "}},
		{name: "temperature out of range", req: domain.GenerationRequest{ProductName: "x", Temperature: &negative}},
		{name: "non-positive max tokens", req: domain.GenerationRequest{ProductName: "x", MaxTokens: &zero}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			backend := mocks.NewMockBackend(t)
			_, err := newService(backend, nil).Generate(context.Background(), tt.req, nil)
			require.ErrorIs(t, err, generator.ErrInvalidRequest)
		})
	}
}

func TestGenerate_RequestOverrides(t *testing.T) {
	t.Parallel()

	temp := 0.1
	tokens := 64

	backend := mocks.NewMockBackend(t)
	backend.EXPECT().
		Generate(mock.Anything, mock.MatchedBy(func(r llm.GenerateRequest) bool {
			return r.Temperature == 0.1 && r.MaxTokens == 64 && r.Timeout == 5*time.Second
		})).
		Return(respond(validMouseJSON), nil).
		Once()

	req := mouseRequest()
	req.Temperature = &temp
	req.MaxTokens = &tokens

	_, err := newService(backend, nil, generator.WithTimeout(5*time.Second)).
		Generate(context.Background(), req, nil)
	require.NoError(t, err)
}

func TestGenerate_CancelledDuringCall(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	backend := mocks.NewMockBackend(t)
	backend.EXPECT().
		Generate(mock.Anything, mock.Anything).
		RunAndReturn(func(ctx context.Context, _ llm.GenerateRequest) (llm.GenerateResponse, error) {
			cancel()
			return llm.GenerateResponse{}, fmt.Errorf("calling ollama: %w", ctx.Err())
		}).
		Once()

	c := cache.New(time.Minute, 8)
	_, err := newService(backend, c).Generate(ctx, mouseRequest(), nil)

	require.ErrorIs(t, err, generator.ErrCancelled)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, c.Len(), "cancelled generations are not cached")
}

func TestGenerate_CancelledBeforeStart(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	backend := mocks.NewMockBackend(t)
	_, err := newService(backend, nil).Generate(ctx, mouseRequest(), nil)
	require.ErrorIs(t, err, generator.ErrCancelled)
}

func TestGenerate_CancelledDuringRepairDelay(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	backend := mocks.NewMockBackend(t)
	backend.EXPECT().
		Generate(mock.Anything, mock.Anything).
		RunAndReturn(func(context.Context, llm.GenerateRequest) (llm.GenerateResponse, error) {
			go func() {
				time.Sleep(20 * time.Millisecond)
				cancel()
			}()
			return respond("garbage"), nil
		}).
		Once()

	_, err := newService(backend, nil, generator.WithRetryDelay(time.Minute)).
		Generate(ctx, mouseRequest(), nil)
	require.ErrorIs(t, err, generator.ErrCancelled)
}

func TestGenerate_StreamingProgress(t *testing.T) {
	t.Parallel()

	backend := mocks.NewMockBackend(t)
	backend.EXPECT().
		GenerateStream(mock.Anything, mock.Anything).
		Return(chunks(
			`{"title":"Wireless Mouse M185",`,
			`"short_description":"A quiet, reliable wireless mouse.",`,
			`"bullets":["Silent clicks","12-month battery life","2.4GHz connection"]}`,
		)).
		Once()

	progress := &progressLog{}
	card, err := newService(backend, nil).Generate(context.Background(), mouseRequest(), progress.record)
	require.NoError(t, err)
	assert.Equal(t, "Wireless Mouse M185", card.Title)

	values := progress.snapshot()
	require.NotEmpty(t, values)
	assert.InDelta(t, 1.0, values[len(values)-1], 0)

	ones := 0
	for i, v := range values {
		if v == 1.0 {
			ones++
		} else {
			assert.LessOrEqual(t, v, 0.95)
		}
		if i > 0 {
			assert.GreaterOrEqual(t, v, values[i-1], "progress must not decrease")
		}
	}
	assert.Equal(t, 1, ones, "1.0 is reported exactly once")
}

func TestGenerate_StreamingRepairReportsRepairProgress(t *testing.T) {
	t.Parallel()

	backend := mocks.NewMockBackend(t)
	backend.EXPECT().GenerateStream(mock.Anything, mock.Anything).Return(chunks("not", " json")).Once()
	backend.EXPECT().Generate(mock.Anything, mock.Anything).Return(respond(validMouseJSON), nil).Once()

	progress := &progressLog{}
	_, err := newService(backend, nil).Generate(context.Background(), mouseRequest(), progress.record)
	require.NoError(t, err)

	values := progress.snapshot()
	require.GreaterOrEqual(t, len(values), 2)
	assert.InDelta(t, 0.96, values[len(values)-2], 1e-9)
	assert.InDelta(t, 1.0, values[len(values)-1], 0)
}

func TestGenerate_ProgressFailuresIgnored(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		fn   generator.ProgressFunc
	}{
		{name: "error", fn: func(float64) error { return errors.New("message not modified") }},
		{name: "panic", fn: func(float64) error { panic("boom") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			backend := mocks.NewMockBackend(t)
			backend.EXPECT().GenerateStream(mock.Anything, mock.Anything).Return(chunks(validMouseJSON)).Once()

			card, err := newService(backend, nil).Generate(context.Background(), mouseRequest(), tt.fn)
			require.NoError(t, err)
			assert.Equal(t, "Wireless Mouse M185", card.Title)
		})
	}
}

func TestGenerate_NoProgressAfterCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var stream iter.Seq2[string, error] = func(yield func(string, error) bool) {
		if !yield(`{"title":`, nil) {
			return
		}
		cancel()
		if !yield(`"x"`, nil) {
			return
		}
		yield("", fmt.Errorf("reading stream: %w", context.Canceled))
	}

	backend := mocks.NewMockBackend(t)
	backend.EXPECT().GenerateStream(mock.Anything, mock.Anything).Return(stream).Once()

	progress := &progressLog{}
	_, err := newService(backend, nil).Generate(ctx, mouseRequest(), progress.record)

	require.ErrorIs(t, err, generator.ErrCancelled)
	assert.Len(t, progress.snapshot(), 1, "only the pre-cancel chunk is reported")
}

func TestGenerate_StreamErrorDegrades(t *testing.T) {
	t.Parallel()

	var stream iter.Seq2[string, error] = func(yield func(string, error) bool) {
		yield("", fmt.Errorf("calling ollama: %w", llm.ErrBackendUnavailable))
	}

	backend := mocks.NewMockBackend(t)
	backend.EXPECT().GenerateStream(mock.Anything, mock.Anything).Return(stream).Once()

	progress := &progressLog{}
	card, err := newService(backend, nil).Generate(context.Background(), mouseRequest(), progress.record)

	require.NoError(t, err)
	assert.Equal(t, "Wireless Mouse M185", card.Title)
	assert.Equal(t, []float64{1}, progress.snapshot())
}

func TestGenerate_TruncatedStreamDegrades(t *testing.T) {
	t.Parallel()

	var stream iter.Seq2[string, error] = func(yield func(string, error) bool) {
		if !yield(`{"title":"Mou`, nil) {
			return
		}
		yield("", fmt.Errorf("calling ollama: %w: stream ended before done: %w",
			llm.ErrBackendUnavailable, io.ErrUnexpectedEOF))
	}

	backend := mocks.NewMockBackend(t)
	backend.EXPECT().GenerateStream(mock.Anything, mock.Anything).Return(stream).Once()

	progress := &progressLog{}
	card, err := newService(backend, nil).Generate(context.Background(), mouseRequest(), progress.record)

	require.NoError(t, err)
	assert.Equal(t, "Wireless Mouse M185", card.Title)
	assert.Equal(t, []string{"2.4GHz", "silent clicks", "12-month battery"}, card.Bullets)
}
