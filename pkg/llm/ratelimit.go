package llm

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// ErrDailyLimitReached is returned when the daily call budget is exhausted.
var ErrDailyLimitReached = errors.New("daily LLM call limit reached")

// RateLimitedBackend throttles calls to an inner Backend with a token
// bucket and an optional rolling 24-hour call budget.
type RateLimitedBackend struct {
	inner    Backend
	limiter  *rate.Limiter
	daily    atomic.Int64
	maxDaily int64
	resetAt  time.Time
	mu       sync.Mutex
	nowFunc  func() time.Time
}

// RateLimitOption configures the RateLimitedBackend.
type RateLimitOption func(*RateLimitedBackend)

// WithDailyLimit caps the number of calls per rolling 24-hour window.
// Zero disables the cap.
func WithDailyLimit(n int64) RateLimitOption {
	return func(r *RateLimitedBackend) {
		r.maxDaily = n
	}
}

// WithRateLimitNowFunc overrides the time function for testing.
func WithRateLimitNowFunc(f func() time.Time) RateLimitOption {
	return func(r *RateLimitedBackend) {
		r.nowFunc = f
	}
}

// NewRateLimitedBackend wraps inner with a limiter allowing perSecond
// calls with the given burst. A non-positive perSecond means unlimited.
func NewRateLimitedBackend(
	inner Backend,
	perSecond float64,
	burst int,
	opts ...RateLimitOption,
) *RateLimitedBackend {
	limit := rate.Limit(perSecond)
	if perSecond <= 0 {
		limit = rate.Inf
	}
	if burst < 1 {
		burst = 1
	}
	r := &RateLimitedBackend{
		inner:   inner,
		limiter: rate.NewLimiter(limit, burst),
		nowFunc: time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.resetAt = r.nowFunc().Add(24 * time.Hour)
	return r
}

// Name returns the inner backend name.
func (r *RateLimitedBackend) Name() string {
	return r.inner.Name()
}

// Generate waits for a token and delegates to the inner backend.
func (r *RateLimitedBackend) Generate(
	ctx context.Context,
	req GenerateRequest,
) (GenerateResponse, error) {
	if err := r.wait(ctx); err != nil {
		return GenerateResponse{}, err
	}
	return r.inner.Generate(ctx, req)
}

// GenerateStream waits for a token when iteration starts and then
// yields the inner stream.
func (r *RateLimitedBackend) GenerateStream(
	ctx context.Context,
	req GenerateRequest,
) iter.Seq2[string, error] {
	inner := r.inner.GenerateStream(ctx, req)
	return func(yield func(string, error) bool) {
		if err := r.wait(ctx); err != nil {
			yield("", err)
			return
		}
		for chunk, err := range inner {
			if !yield(chunk, err) {
				return
			}
		}
	}
}

// Remaining returns the calls left in the current window, or -1 when no
// daily cap is configured.
func (r *RateLimitedBackend) Remaining() int64 {
	if r.maxDaily <= 0 {
		return -1
	}
	return max(r.maxDaily-r.daily.Load(), 0)
}

func (r *RateLimitedBackend) wait(ctx context.Context) error {
	r.checkDailyReset()

	if r.maxDaily > 0 && r.daily.Load() >= r.maxDaily {
		return fmt.Errorf("%w (%d/%d)", ErrDailyLimitReached, r.daily.Load(), r.maxDaily)
	}

	if err := r.limiter.Wait(ctx); err != nil {
		// Surface caller cancellation as-is so it is not mistaken for
		// a backend outage.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("rate limiter wait: %w", ctxErr)
		}
		return fmt.Errorf("rate limiter wait: %w: %w", ErrBackendUnavailable, err)
	}

	r.daily.Add(1)
	return nil
}

func (r *RateLimitedBackend) checkDailyReset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.nowFunc()
	if now.After(r.resetAt) {
		r.daily.Store(0)
		r.resetAt = now.Add(24 * time.Hour)
	}
}
