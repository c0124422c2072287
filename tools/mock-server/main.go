// Package main implements a mock Ollama server for local development.
// It answers /api/generate with a canned product card from a JSON fixture,
// either as one JSON object or as an NDJSON stream, so cardsmith can be run
// without a model.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"
)

// Response modes.
const (
	modeJSON    = "json"    // the fixture as strict JSON
	modeProse   = "prose"   // the fixture wrapped in chatter and a code fence
	modeGarbage = "garbage" // no JSON at all; exercises the repair and fallback paths
)

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	System string `json:"system"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Model     string    `json:"model"`
	CreatedAt time.Time `json:"created_at"`
	Response  string    `json:"response"`
	Done      bool      `json:"done"`
}

type server struct {
	log        *slog.Logger
	card       string
	mode       string
	chunkSize  int
	chunkDelay time.Duration
}

func main() {
	port := flag.Int("port", 11435, "port to listen on")
	fixtureFile := flag.String("fixture", "tools/mock-server/testdata/card.json", "path to card fixture")
	mode := flag.String("mode", modeJSON, "response mode: json, prose, garbage")
	chunkSize := flag.Int("chunk-size", 12, "characters per streamed fragment")
	chunkDelay := flag.Duration("chunk-delay", 30*time.Millisecond, "pause between streamed fragments")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	card, err := loadFixture(*fixtureFile)
	if err != nil {
		logger.Error("failed to load fixture", "path", *fixtureFile, "error", err)
		os.Exit(1)
	}

	s := &server{
		log:        logger,
		card:       card,
		mode:       *mode,
		chunkSize:  max(*chunkSize, 1),
		chunkDelay: *chunkDelay,
	}

	addr := fmt.Sprintf(":%d", *port)
	logger.Info("starting mock Ollama server", "addr", addr, "mode", s.mode)

	srv := &http.Server{
		Addr:        addr,
		Handler:     requestLogger(logger, s.routes()),
		ReadTimeout: 10 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

// loadFixture reads a card fixture and returns it as compact JSON.
func loadFixture(path string) (string, error) {
	data, err := os.ReadFile(path) //nolint:gosec // fixture path from trusted CLI flag
	if err != nil {
		return "", fmt.Errorf("reading fixture: %w", err)
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		return "", fmt.Errorf("parsing fixture: %w", err)
	}
	return buf.String(), nil
}

func (s *server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/generate", s.generateHandler)
	mux.HandleFunc("GET /api/tags", s.tagsHandler)
	return mux
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("request", "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

// answer returns the model text for a request. Repair calls always get the
// strict fixture so the repair loop can succeed in every mode.
func (s *server) answer(req *generateRequest) string {
	if strings.Contains(req.System, "strict JSON") && strings.Contains(req.Prompt, "Convert the following text") {
		return s.card
	}
	switch s.mode {
	case modeProse:
		return "Sure! Here is your product card:\n```json\n" + s.card + "\n```\nLet me know if you need changes."
	case modeGarbage:
		return "I am not able to produce a card for this product right now."
	default:
		return s.card
	}
}

func (s *server) generateHandler(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
		json.NewEncoder(w).Encode(map[string]string{"error": "invalid request body"})
		return
	}

	text := s.answer(&req)
	s.log.Info("generate", "model", req.Model, "stream", req.Stream, "chars", len(text))

	if !req.Stream {
		w.Header().Set("Content-Type", "application/json")
		//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
		json.NewEncoder(w).Encode(generateResponse{
			Model:     req.Model,
			CreatedAt: time.Now().UTC(),
			Response:  text,
			Done:      true,
		})
		return
	}

	w.Header().Set("Content-Type", "application/x-ndjson")
	flusher, _ := w.(http.Flusher)
	enc := json.NewEncoder(w)
	for _, chunk := range chunks(text, s.chunkSize) {
		select {
		case <-r.Context().Done():
			return
		case <-time.After(s.chunkDelay):
		}
		if err := enc.Encode(generateResponse{Model: req.Model, CreatedAt: time.Now().UTC(), Response: chunk}); err != nil {
			return
		}
		if flusher != nil {
			flusher.Flush()
		}
	}
	//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
	enc.Encode(generateResponse{Model: req.Model, CreatedAt: time.Now().UTC(), Done: true})
}

func (*server) tagsHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
	json.NewEncoder(w).Encode(map[string]any{
		"models": []map[string]string{{"name": "phi3:mini", "model": "phi3:mini"}},
	})
}

// chunks splits s into fragments of at most n runes.
func chunks(s string, n int) []string {
	r := []rune(s)
	out := make([]string, 0, len(r)/n+1)
	for len(r) > 0 {
		end := min(n, len(r))
		out = append(out, string(r[:end]))
		r = r[end:]
	}
	return out
}
