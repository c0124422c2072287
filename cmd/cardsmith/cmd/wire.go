package cmd

import (
	"context"
	"iter"
	"log/slog"
	"net/http"
	"os"
	"sync/atomic"

	"github.com/donaldgifford/cardsmith/internal/cache"
	"github.com/donaldgifford/cardsmith/internal/config"
	"github.com/donaldgifford/cardsmith/internal/generator"
	"github.com/donaldgifford/cardsmith/internal/telemetry"
	"github.com/donaldgifford/cardsmith/pkg/llm"
)

// newBackend builds the Ollama backend wrapped with rate limiting and
// instrumentation.
func newBackend(cfg *config.Config) llm.Backend {
	var backend llm.Backend = llm.NewOllamaBackend(
		cfg.LLM.Ollama.Endpoint,
		cfg.LLM.Ollama.Model,
		llm.WithOllamaHTTPClient(&http.Client{
			Transport: telemetry.HTTPTransport(http.DefaultTransport),
		}),
		llm.WithOllamaTimeout(cfg.LLM.Timeout),
	)

	rl := cfg.LLM.RateLimit
	if rl.PerSecond > 0 || rl.DailyLimit > 0 {
		backend = llm.NewRateLimitedBackend(backend, rl.PerSecond, rl.Burst,
			llm.WithDailyLimit(rl.DailyLimit),
		)
	}

	return llm.NewInstrumentedBackend(backend)
}

// newGenerator builds the generation service and its result cache.
func newGenerator(cfg *config.Config, backend llm.Backend, log *slog.Logger) (*generator.Service, *cache.Cache) {
	c := cache.New(cfg.Generation.CacheTTL, cfg.Generation.CacheSize)
	gen := generator.New(backend, c,
		generator.WithLogger(log),
		generator.WithTemperature(*cfg.LLM.Temperature),
		generator.WithMaxTokens(cfg.LLM.MaxTokens),
		generator.WithMaxRetries(*cfg.Generation.MaxRetries),
		generator.WithRetryDelay(cfg.Generation.RetryDelay),
		generator.WithTimeout(cfg.LLM.Timeout),
		generator.WithStop(cfg.LLM.Stop),
	)
	return gen, c
}

// connectivityWatch records whether any call failed because the backend
// could not be reached. The generator hides such failures behind a
// degraded card, so the CLI uses this to print a hint.
type connectivityWatch struct {
	llm.Backend
	failed atomic.Bool
}

func (w *connectivityWatch) Generate(ctx context.Context, req llm.GenerateRequest) (llm.GenerateResponse, error) {
	resp, err := w.Backend.Generate(ctx, req)
	w.observe(err)
	return resp, err
}

func (w *connectivityWatch) GenerateStream(ctx context.Context, req llm.GenerateRequest) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for chunk, err := range w.Backend.GenerateStream(ctx, req) {
			w.observe(err)
			if !yield(chunk, err) {
				return
			}
		}
	}
}

func (w *connectivityWatch) observe(err error) {
	if err != nil && llm.IsConnectivity(err) {
		w.failed.Store(true)
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
