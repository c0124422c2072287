package client

import (
	"context"
	"strconv"

	"github.com/donaldgifford/cardsmith/pkg/profile"
	domain "github.com/donaldgifford/cardsmith/pkg/types"
)

// ListProfiles returns the supported platform profiles.
func (c *Client) ListProfiles(ctx context.Context) ([]domain.PlatformProfile, error) {
	var profiles []domain.PlatformProfile
	if err := c.get(ctx, "/api/v1/profiles", &profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}

// ListPresets returns the category presets.
func (c *Client) ListPresets(ctx context.Context) ([]profile.Preset, error) {
	var presets []profile.Preset
	if err := c.get(ctx, "/api/v1/presets", &presets); err != nil {
		return nil, err
	}
	return presets, nil
}

// CacheStats mirrors the server's result cache counters.
type CacheStats struct {
	Entries   int    `json:"entries"`
	Hits      uint64 `json:"hits"`
	Misses    uint64 `json:"misses"`
	Evictions uint64 `json:"evictions"`
}

// StatsResponse is the server's usage statistics.
type StatsResponse struct {
	Overview domain.HistoryOverview `json:"overview"`
	TopUsers []domain.UserCount     `json:"top_users"`
	Cache    *CacheStats            `json:"cache,omitempty"`
}

// Stats returns usage statistics with up to top most active users.
func (c *Client) Stats(ctx context.Context, top int) (*StatsResponse, error) {
	path := "/api/v1/stats"
	if top > 0 {
		path += "?top=" + strconv.Itoa(top)
	}

	var resp StatsResponse
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
