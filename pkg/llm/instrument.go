package llm

import (
	"context"
	"errors"
	"iter"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/donaldgifford/cardsmith/internal/metrics"
)

const instrumentationName = "github.com/donaldgifford/cardsmith/pkg/llm"

// InstrumentedBackend records a span, Prometheus metrics and an OTel call
// counter around every call to the inner Backend.
type InstrumentedBackend struct {
	inner  Backend
	tracer trace.Tracer
	calls  metric.Int64Counter
}

// NewInstrumentedBackend wraps inner using the global tracer and meter
// providers.
func NewInstrumentedBackend(inner Backend) *InstrumentedBackend {
	calls, err := otel.Meter(instrumentationName).Int64Counter(
		"cardsmith.llm.calls",
		metric.WithDescription("LLM backend calls by mode and outcome."),
	)
	if err != nil {
		otel.Handle(err)
	}
	return &InstrumentedBackend{
		inner:  inner,
		tracer: otel.Tracer(instrumentationName),
		calls:  calls,
	}
}

// Name returns the inner backend name.
func (b *InstrumentedBackend) Name() string {
	return b.inner.Name()
}

// Generate delegates to the inner backend inside an "llm.generate" span.
func (b *InstrumentedBackend) Generate(
	ctx context.Context,
	req GenerateRequest,
) (GenerateResponse, error) {
	ctx, span := b.start(ctx, "llm.generate", req)
	defer span.End()

	start := time.Now()
	resp, err := b.inner.Generate(ctx, req)
	b.finish(ctx, span, "blocking", start, err)
	if err == nil {
		span.SetAttributes(
			attribute.String("llm.model", resp.Model),
			attribute.Int("llm.response_chars", len([]rune(resp.Content))),
		)
	}
	return resp, err
}

// GenerateStream delegates to the inner stream inside an "llm.stream"
// span that ends when iteration stops.
func (b *InstrumentedBackend) GenerateStream(
	ctx context.Context,
	req GenerateRequest,
) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		ctx, span := b.start(ctx, "llm.stream", req)
		defer span.End()

		start := time.Now()
		var (
			streamErr error
			chunks    int
		)
		defer func() {
			span.SetAttributes(attribute.Int("llm.chunks", chunks))
			b.finish(ctx, span, "stream", start, streamErr)
		}()

		for chunk, err := range b.inner.GenerateStream(ctx, req) {
			if err != nil {
				streamErr = err
			} else {
				chunks++
			}
			if !yield(chunk, err) {
				return
			}
		}
	}
}

func (b *InstrumentedBackend) start(
	ctx context.Context,
	name string,
	req GenerateRequest,
) (context.Context, trace.Span) {
	return b.tracer.Start(ctx, name, trace.WithAttributes(
		attribute.String("llm.backend", b.inner.Name()),
		attribute.Float64("llm.temperature", req.Temperature),
		attribute.Int("llm.max_tokens", req.MaxTokens),
		attribute.Int("llm.prompt_chars", len([]rune(req.Prompt))),
	))
}

func (b *InstrumentedBackend) finish(
	ctx context.Context,
	span trace.Span,
	mode string,
	start time.Time,
	err error,
) {
	name := b.inner.Name()
	metrics.BackendCallDuration.WithLabelValues(name, mode).Observe(time.Since(start).Seconds())

	outcome := "ok"
	if err != nil {
		outcome = ErrorKind(err)
		metrics.BackendErrorsTotal.WithLabelValues(name, outcome).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	if b.calls != nil {
		b.calls.Add(ctx, 1, metric.WithAttributes(
			attribute.String("mode", mode),
			attribute.String("outcome", outcome),
		))
	}
}

// ErrorKind classifies err into a short label for metrics and logs.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrBackendUnavailable):
		return "unavailable"
	case errors.Is(err, ErrBackend):
		return "backend"
	default:
		return "other"
	}
}
