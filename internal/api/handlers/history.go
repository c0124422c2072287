package handlers

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/donaldgifford/cardsmith/internal/metrics"
	"github.com/donaldgifford/cardsmith/pkg/logger"
	"github.com/donaldgifford/cardsmith/pkg/profile"
	domain "github.com/donaldgifford/cardsmith/pkg/types"
)

const (
	anonymousUser       = "anonymous"
	historyWriteTimeout = 5 * time.Second
)

// HistoryWriter persists generated cards.
type HistoryWriter interface {
	AddGeneration(ctx context.Context, g *domain.Generation) error
	PruneHistory(ctx context.Context, userID string, keep int) (int64, error)
}

// HistoryRecorder writes generations to history on a best-effort basis:
// failures are logged and counted but never fail the request.
type HistoryRecorder struct {
	w    HistoryWriter
	keep int
	log  *slog.Logger
}

// NewHistoryRecorder creates a HistoryRecorder that keeps at most
// keepPerUser records per user (0 keeps everything).
func NewHistoryRecorder(w HistoryWriter, keepPerUser int, log *slog.Logger) *HistoryRecorder {
	if log == nil {
		log = logger.Discard()
	}
	return &HistoryRecorder{w: w, keep: keepPerUser, log: log}
}

// Record stores card and returns the new generation ID, or 0 when the
// write failed. It runs even if ctx was cancelled after generation.
func (r *HistoryRecorder) Record(
	ctx context.Context,
	userID string,
	req domain.GenerationRequest,
	card domain.ProductCard,
) int64 {
	if r == nil {
		return 0
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), historyWriteTimeout)
	defer cancel()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		userID = anonymousUser
	}

	g := &domain.Generation{
		UserID:           userID,
		Platform:         profile.Resolve(req.Platform).Code,
		Language:         string(req.Language),
		ProductName:      strings.TrimSpace(req.ProductName),
		Features:         strings.TrimSpace(req.Features),
		Title:            card.Title,
		ShortDescription: card.ShortDescription,
		Bullets:          card.Bullets,
	}
	if err := r.w.AddGeneration(ctx, g); err != nil {
		metrics.HistoryWritesTotal.WithLabelValues("error").Inc()
		r.log.Warn("history write failed", "user_id", userID, "error", err)
		return 0
	}
	metrics.HistoryWritesTotal.WithLabelValues("ok").Inc()

	if r.keep > 0 {
		if n, err := r.w.PruneHistory(ctx, userID, r.keep); err != nil {
			r.log.Warn("history prune failed", "user_id", userID, "error", err)
		} else if n > 0 {
			metrics.HistoryPrunedTotal.Add(float64(n))
		}
	}

	return g.ID
}
