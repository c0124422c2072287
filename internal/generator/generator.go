// Package generator orchestrates product card generation: cache lookup,
// prompting, the repair loop, constraint enforcement and progress
// notification.
package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/donaldgifford/cardsmith/internal/cache"
	"github.com/donaldgifford/cardsmith/internal/metrics"
	"github.com/donaldgifford/cardsmith/pkg/enforce"
	"github.com/donaldgifford/cardsmith/pkg/llm"
	"github.com/donaldgifford/cardsmith/pkg/logger"
	"github.com/donaldgifford/cardsmith/pkg/profile"
	"github.com/donaldgifford/cardsmith/pkg/prompt"
	domain "github.com/donaldgifford/cardsmith/pkg/types"
)

// Errors returned to callers. Backend failures are never surfaced: the
// pipeline degrades to a card synthesized from the request instead.
var (
	ErrInvalidRequest = errors.New("invalid generation request")
	ErrCancelled      = errors.New("generation cancelled")
)

const (
	defaultTemperature = 0.6
	defaultMaxTokens   = 800
	defaultMaxRetries  = 2
	defaultRetryDelay  = time.Second
	defaultTimeout     = 120 * time.Second

	repairTemperature = 0.2
	maxTemperature    = 2.0
)

// Outcome labels for generations_total.
const (
	OutcomeCached   = "cached"
	OutcomeModel    = "model"
	OutcomeRepaired = "repaired"
	OutcomeDegraded = "degraded"
)

// ProgressFunc receives completion fractions in [0, 1]. Returned errors and
// panics are logged and otherwise ignored.
type ProgressFunc func(fraction float64) error

// Generator produces product cards.
type Generator interface {
	Generate(ctx context.Context, req domain.GenerationRequest, progress ProgressFunc) (domain.ProductCard, error)
}

// Service is the default Generator backed by an LLM.
type Service struct {
	backend llm.Backend
	cache   *cache.Cache
	log     *slog.Logger
	tracer  trace.Tracer

	temperature float64
	maxTokens   int
	maxRetries  int
	retryDelay  time.Duration
	timeout     time.Duration
	stop        []string
}

// Option configures the Service.
type Option func(*Service)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		s.log = l
	}
}

// WithTemperature sets the default sampling temperature.
func WithTemperature(t float64) Option {
	return func(s *Service) {
		s.temperature = t
	}
}

// WithMaxTokens sets the default generation token budget.
func WithMaxTokens(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxTokens = n
		}
	}
}

// WithMaxRetries sets how many repair passes may follow the primary call.
func WithMaxRetries(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.maxRetries = n
		}
	}
}

// WithRetryDelay sets the pause before each repair pass.
func WithRetryDelay(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.retryDelay = d
		}
	}
}

// WithTimeout sets the per-call LLM timeout.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithStop sets the stop sequences sent with every call.
func WithStop(stop []string) Option {
	return func(s *Service) {
		s.stop = stop
	}
}

// New creates a Service. A nil cache disables memoization.
func New(backend llm.Backend, c *cache.Cache, opts ...Option) *Service {
	s := &Service{
		backend:     backend,
		cache:       c,
		log:         logger.Discard(),
		tracer:      otel.Tracer("github.com/donaldgifford/cardsmith/internal/generator"),
		temperature: defaultTemperature,
		maxTokens:   defaultMaxTokens,
		maxRetries:  defaultMaxRetries,
		retryDelay:  defaultRetryDelay,
		timeout:     defaultTimeout,
		stop:        []string{"\n\n"},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generate returns a card for req. Only ErrInvalidRequest and ErrCancelled
// are returned; any LLM failure yields a card synthesized from the request.
// progress may be nil; when set, the primary call is streamed and progress
// ends with exactly one 1.0 on success.
func (s *Service) Generate(
	ctx context.Context,
	req domain.GenerationRequest,
	progress ProgressFunc,
) (domain.ProductCard, error) {
	if err := validate(req); err != nil {
		return domain.ProductCard{}, err
	}
	if err := ctx.Err(); err != nil {
		return domain.ProductCard{}, cancelled(err)
	}

	p := profile.Resolve(req.Platform)
	key := cache.Key(req)

	if s.cache != nil {
		if card, ok := s.cache.Get(key); ok {
			metrics.GenerationsTotal.WithLabelValues(p.Code, OutcomeCached).Inc()
			s.log.Debug("card served from cache", "platform", p.Code, "product", req.ProductName)
			return card, nil
		}
	}

	ctx, span := s.tracer.Start(ctx, "generator.generate", trace.WithAttributes(
		attribute.String("card.platform", p.Code),
		attribute.String("card.language", string(req.Language)),
		attribute.Bool("card.streaming", progress != nil),
	))
	defer span.End()

	start := time.Now()
	reporter := newProgressReporter(ctx, progress, s.log, expectedChars(p, req.Length))

	result, err := s.runRepairLoop(ctx, req, p, reporter)
	if err != nil {
		span.SetStatus(codes.Error, "cancelled")
		return domain.ProductCard{}, cancelled(err)
	}

	card := enforce.Enforce(p, result.fields, req)
	if err := ctx.Err(); err != nil {
		span.SetStatus(codes.Error, "cancelled")
		return domain.ProductCard{}, cancelled(err)
	}

	if s.cache != nil {
		s.cache.Put(key, card)
	}

	outcome := result.outcome()
	metrics.GenerationsTotal.WithLabelValues(p.Code, outcome).Inc()
	metrics.GenerationDuration.Observe(time.Since(start).Seconds())
	span.SetAttributes(
		attribute.String("card.outcome", outcome),
		attribute.Int("card.repairs", result.repairs),
		attribute.String("card.strategy", result.strategy),
	)
	s.log.Info("card generated",
		"platform", p.Code,
		"outcome", outcome,
		"repairs", result.repairs,
		"strategy", result.strategy,
		"duration", time.Since(start),
	)

	reporter.finish()
	return card.Clone(), nil
}

func (s *Service) primaryRequest(req domain.GenerationRequest, promptText string) llm.GenerateRequest {
	temperature := s.temperature
	if req.Temperature != nil {
		temperature = *req.Temperature
	}
	return llm.GenerateRequest{
		Prompt:      promptText,
		System:      prompt.SystemPrompt,
		Temperature: temperature,
		MaxTokens:   s.tokens(req),
		Stop:        s.stop,
		Timeout:     s.timeout,
	}
}

func (s *Service) repairRequest(req domain.GenerationRequest, previousRaw string) llm.GenerateRequest {
	return llm.GenerateRequest{
		Prompt:      prompt.BuildRepair(previousRaw),
		System:      prompt.RepairSystemPrompt,
		Temperature: repairTemperature,
		MaxTokens:   s.tokens(req),
		Stop:        s.stop,
		Timeout:     s.timeout,
	}
}

func (s *Service) tokens(req domain.GenerationRequest) int {
	if req.MaxTokens != nil {
		return *req.MaxTokens
	}
	return s.maxTokens
}

func validate(req domain.GenerationRequest) error {
	if strings.TrimSpace(req.ProductName) == "" {
		return fmt.Errorf("product name is required: %w", ErrInvalidRequest)
	}
	if t := req.Temperature; t != nil && (*t < 0 || *t > maxTemperature) {
		return fmt.Errorf("temperature %.2f outside [0, %.1f]: %w", *t, maxTemperature, ErrInvalidRequest)
	}
	if n := req.MaxTokens; n != nil && *n <= 0 {
		return fmt.Errorf("max tokens must be positive, got %d: %w", *n, ErrInvalidRequest)
	}
	return nil
}

func cancelled(err error) error {
	return fmt.Errorf("%w: %w", ErrCancelled, err)
}

var _ Generator = (*Service)(nil)
