package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	domain "github.com/donaldgifford/cardsmith/pkg/types"
)

// GenerationsResponse wraps a paginated history response.
type GenerationsResponse struct {
	Generations []domain.Generation `json:"generations"`
	Total       int                 `json:"total"`
	Limit       int                 `json:"limit"`
	Offset      int                 `json:"offset"`
}

// ListGenerationsParams defines query parameters for history queries.
type ListGenerationsParams struct {
	UserID   string
	Platform string
	Limit    int
	Offset   int
}

// ListGenerations returns history matching the given parameters.
func (c *Client) ListGenerations(
	ctx context.Context,
	params *ListGenerationsParams,
) (*GenerationsResponse, error) {
	q := url.Values{}
	if params.UserID != "" {
		q.Set("user_id", params.UserID)
	}
	if params.Platform != "" {
		q.Set("platform", params.Platform)
	}
	if params.Limit > 0 {
		q.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.Offset > 0 {
		q.Set("offset", strconv.Itoa(params.Offset))
	}

	path := "/api/v1/generations"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var resp GenerationsResponse
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetGeneration returns a single generation by ID.
func (c *Client) GetGeneration(ctx context.Context, id int64) (*domain.Generation, error) {
	var g domain.Generation
	if err := c.get(ctx, fmt.Sprintf("/api/v1/generations/%d", id), &g); err != nil {
		return nil, err
	}
	return &g, nil
}

// ExportGeneration downloads a generation rendered as txt or csv.
func (c *Client) ExportGeneration(ctx context.Context, id int64, format string) ([]byte, error) {
	path := fmt.Sprintf("/api/v1/generations/%d/export", id)
	if format != "" {
		path += "?format=" + url.QueryEscape(format)
	}

	resp, err := c.send(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading export: %w", err)
	}
	return data, nil
}
