package generator

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/donaldgifford/cardsmith/pkg/profile"
	domain "github.com/donaldgifford/cardsmith/pkg/types"
)

func TestNext(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		current    state
		valid      bool
		attempts   int
		maxRetries int
		want       state
	}{
		{name: "initial always extracts", current: stateInitial, want: stateExtracted},
		{name: "valid extraction is final", current: stateExtracted, valid: true, maxRetries: 2, want: stateFinal},
		{name: "invalid with budget repairs", current: stateExtracted, attempts: 1, maxRetries: 2, want: stateRepairing},
		{name: "invalid without budget is final", current: stateExtracted, attempts: 2, maxRetries: 2, want: stateFinal},
		{name: "zero budget never repairs", current: stateExtracted, maxRetries: 0, want: stateFinal},
		{name: "repairing extracts again", current: stateRepairing, want: stateExtracted},
		{name: "final stays final", current: stateFinal, want: stateFinal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := next(tt.current, tt.valid, tt.attempts, tt.maxRetries)
			assert.Equal(t, tt.want, got, "got %s", got)
		})
	}
}

func TestLoopResultOutcome(t *testing.T) {
	t.Parallel()

	assert.Equal(t, OutcomeModel, loopResult{valid: true}.outcome())
	assert.Equal(t, OutcomeRepaired, loopResult{valid: true, repairs: 1}.outcome())
	assert.Equal(t, OutcomeDegraded, loopResult{valid: false}.outcome())
	assert.Equal(t, OutcomeDegraded, loopResult{backendErr: errors.New("x")}.outcome())
}

func TestExpectedChars(t *testing.T) {
	t.Parallel()

	ozon := profile.Resolve("ozon")
	assert.Equal(t, 70+300+6*48+64, expectedChars(ozon, domain.LengthMedium))
	assert.Equal(t, 70+150+6*48+64, expectedChars(ozon, domain.LengthShort))
}

func TestProgressReporter_Monotonic(t *testing.T) {
	t.Parallel()

	var got []float64
	r := newProgressReporter(context.Background(), func(v float64) error {
		got = append(got, v)
		return nil
	}, nil, 100)

	r.received(50)
	r.report(0.3)
	r.received(200)
	r.received(10)
	r.report(repairProgress)
	r.finish()
	r.finish()
	r.report(0.99)

	assert.Equal(t, []float64{0.5, streamProgressCap, repairProgress, 1}, got)
}

func TestProgressReporter_Disabled(t *testing.T) {
	t.Parallel()

	var r *progressReporter
	assert.False(t, r.enabled())
	r.received(10)
	r.finish()

	r = newProgressReporter(context.Background(), nil, nil, 0)
	assert.False(t, r.enabled())
	r.finish()
}
