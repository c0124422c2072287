package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/cardsmith/internal/cache"
	domain "github.com/donaldgifford/cardsmith/pkg/types"
)

const defaultTopUsers = 10

// StatsStore provides history aggregates.
type StatsStore interface {
	StatsOverview(ctx context.Context) (*domain.HistoryOverview, error)
	PerUserCounts(ctx context.Context, limit int) ([]domain.UserCount, error)
}

// CacheStatser reports result cache statistics.
type CacheStatser interface {
	Stats() cache.Stats
}

// StatsHandler serves usage statistics.
type StatsHandler struct {
	store StatsStore
	cache CacheStatser
}

// NewStatsHandler creates a new StatsHandler. c may be nil when caching is
// disabled.
func NewStatsHandler(s StatsStore, c CacheStatser) *StatsHandler {
	return &StatsHandler{store: s, cache: c}
}

// StatsInput is the input for the stats endpoint.
type StatsInput struct {
	Top int `query:"top" doc:"Number of most active users (default 10)" minimum:"0" maximum:"100"`
}

// StatsOutput is the response for the stats endpoint.
type StatsOutput struct {
	Body struct {
		Overview domain.HistoryOverview `json:"overview"`
		TopUsers []domain.UserCount     `json:"top_users"`
		Cache    *cache.Stats           `json:"cache,omitempty"`
	}
}

// Stats returns history totals, the most active users and cache counters.
func (h *StatsHandler) Stats(ctx context.Context, input *StatsInput) (*StatsOutput, error) {
	overview, err := h.store.StatsOverview(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to get stats overview: " + err.Error())
	}

	top := input.Top
	if top <= 0 {
		top = defaultTopUsers
	}
	users, err := h.store.PerUserCounts(ctx, top)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to get per-user counts: " + err.Error())
	}
	if users == nil {
		users = []domain.UserCount{}
	}

	resp := &StatsOutput{}
	resp.Body.Overview = *overview
	resp.Body.TopUsers = users
	if h.cache != nil {
		s := h.cache.Stats()
		resp.Body.Cache = &s
	}
	return resp, nil
}

// RegisterStatsRoutes registers the stats endpoint with the Huma API.
func RegisterStatsRoutes(api huma.API, h *StatsHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "get-stats",
		Method:      http.MethodGet,
		Path:        "/api/v1/stats",
		Summary:     "Get usage statistics",
		Description: "Returns total generations, distinct users, the most active users and cache counters.",
		Tags:        []string{"stats"},
	}, h.Stats)
}
