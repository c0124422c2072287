package generator

import (
	"context"
	"log/slog"

	"github.com/donaldgifford/cardsmith/pkg/profile"
	domain "github.com/donaldgifford/cardsmith/pkg/types"
)

const (
	// streamProgressCap keeps streamed progress below the values reserved
	// for repair and completion.
	streamProgressCap = 0.95
	repairProgress    = 0.96

	charsPerBullet = 48
	framingChars   = 64
)

// expectedChars estimates the length of a complete answer for p.
func expectedChars(p domain.PlatformProfile, length domain.LengthPreset) int {
	return p.TitleMax +
		profile.EffectiveDescriptionLimit(p, length) +
		p.BulletsMax*charsPerBullet +
		framingChars
}

// progressReporter forwards monotonic progress values to a ProgressFunc.
// It is used from a single goroutine.
type progressReporter struct {
	ctx      context.Context
	fn       ProgressFunc
	log      *slog.Logger
	expected int
	got      int
	last     float64
	done     bool
}

func newProgressReporter(
	ctx context.Context,
	fn ProgressFunc,
	log *slog.Logger,
	expected int,
) *progressReporter {
	return &progressReporter{
		ctx:      ctx,
		fn:       fn,
		log:      log,
		expected: max(expected, 1),
	}
}

func (r *progressReporter) enabled() bool {
	return r != nil && r.fn != nil
}

// received accounts for n more characters of streamed output.
func (r *progressReporter) received(n int) {
	if !r.enabled() {
		return
	}
	r.got += n
	r.report(min(streamProgressCap, float64(r.got)/float64(r.expected)))
}

// report sends v if it advances past the last value sent.
func (r *progressReporter) report(v float64) {
	if !r.enabled() || r.done || v <= r.last || r.ctx.Err() != nil {
		return
	}
	r.last = v
	r.invoke(v)
}

// finish sends the terminal 1.0 once.
func (r *progressReporter) finish() {
	if !r.enabled() || r.done || r.ctx.Err() != nil {
		return
	}
	r.done = true
	r.last = 1
	r.invoke(1)
}

func (r *progressReporter) invoke(v float64) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Warn("progress callback panicked", "panic", rec, "progress", v)
		}
	}()
	if err := r.fn(v); err != nil {
		r.log.Debug("progress callback failed", "error", err, "progress", v)
	}
}
