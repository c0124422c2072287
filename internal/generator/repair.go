package generator

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/donaldgifford/cardsmith/internal/metrics"
	"github.com/donaldgifford/cardsmith/pkg/extract"
	"github.com/donaldgifford/cardsmith/pkg/llm"
	"github.com/donaldgifford/cardsmith/pkg/prompt"
	domain "github.com/donaldgifford/cardsmith/pkg/types"
)

// state is a step of the repair loop.
type state int

const (
	stateInitial state = iota
	stateExtracted
	stateRepairing
	stateFinal
)

func (s state) String() string {
	switch s {
	case stateInitial:
		return "initial"
	case stateExtracted:
		return "extracted"
	case stateRepairing:
		return "repairing"
	case stateFinal:
		return "final"
	default:
		return "unknown"
	}
}

// next is the transition function of the repair loop. attempts counts the
// repair passes already made.
func next(current state, valid bool, attempts, maxRetries int) state {
	switch current {
	case stateInitial, stateRepairing:
		return stateExtracted
	case stateExtracted:
		if valid || attempts >= maxRetries {
			return stateFinal
		}
		return stateRepairing
	default:
		return stateFinal
	}
}

type loopResult struct {
	fields   extract.Fields
	strategy string
	valid    bool
	repairs  int

	// backendErr is set when an LLM call failed and the loop gave up.
	backendErr error
}

func (r loopResult) outcome() string {
	switch {
	case r.backendErr != nil || !r.valid:
		return OutcomeDegraded
	case r.repairs > 0:
		return OutcomeRepaired
	default:
		return OutcomeModel
	}
}

// runRepairLoop calls the model, extracts, and issues repair passes while
// the extraction is invalid and budget remains. It only returns an error
// when ctx is done; LLM failures end the loop with empty fields.
func (s *Service) runRepairLoop(
	ctx context.Context,
	req domain.GenerationRequest,
	p domain.PlatformProfile,
	reporter *progressReporter,
) (loopResult, error) {
	var (
		res   loopResult
		raw   string
		err   error
		state = stateInitial
	)

	promptText, err := prompt.Build(req)
	if err != nil {
		s.log.Error("building prompt failed, synthesizing card", "error", err)
		return loopResult{backendErr: err, fields: extract.Fields{Bullets: []string{}}}, nil
	}

	for state != stateFinal {
		switch state {
		case stateInitial:
			raw, err = s.complete(ctx, s.primaryRequest(req, promptText), reporter)

		case stateRepairing:
			if err = sleep(ctx, s.retryDelay); err != nil {
				return res, err
			}
			res.repairs++
			metrics.RepairAttemptsTotal.Inc()
			reporter.report(repairProgress)
			s.log.Info("retrying generation with repair",
				"attempt", res.repairs,
				"platform", p.Code,
			)
			raw, err = s.complete(ctx, s.repairRequest(req, raw), nil)

		case stateExtracted:
			extracted := extract.Extract(raw)
			res.fields = extracted.Fields
			res.strategy = extracted.Strategy
			res.valid = extracted.Fields.Validate() == nil
			metrics.ExtractionStrategyTotal.WithLabelValues(extracted.Strategy).Inc()
			s.log.Debug("model output extracted",
				"strategy", extracted.Strategy,
				"valid", res.valid,
				"attempt", res.repairs,
			)
		}

		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return res, ctxErr
			}
			s.log.Warn("llm call failed, synthesizing card from request",
				"error", err,
				"kind", llm.ErrorKind(err),
				"repairs", res.repairs,
			)
			return loopResult{
				fields:     extract.Fields{Bullets: []string{}},
				repairs:    res.repairs,
				backendErr: err,
			}, nil
		}

		state = next(state, res.valid, res.repairs, s.maxRetries)
	}

	if !res.valid {
		s.log.Warn("model output still invalid after repairs, using best-effort extraction",
			"repairs", res.repairs,
			"strategy", res.strategy,
		)
	}
	return res, nil
}

// complete performs one LLM call. The call is streamed when progress is
// being reported.
func (s *Service) complete(
	ctx context.Context,
	req llm.GenerateRequest,
	reporter *progressReporter,
) (string, error) {
	if !reporter.enabled() {
		resp, err := s.backend.Generate(ctx, req)
		return resp.Content, err
	}

	var b strings.Builder
	for chunk, err := range s.backend.GenerateStream(ctx, req) {
		if err != nil {
			return b.String(), err
		}
		b.WriteString(chunk)
		reporter.received(utf8.RuneCountInString(chunk))
	}
	return b.String(), nil
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
