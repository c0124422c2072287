package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/donaldgifford/cardsmith/pkg/types"
)

func TestClient_ConnectionRefused(t *testing.T) {
	t.Parallel()

	c := New("http://127.0.0.1:1") // nothing listening
	_, err := c.ListProfiles(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API server not running")
}

func TestClient_HTTPError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal"}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.ListProfiles(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API error (HTTP 500)")
	assert.False(t, IsNotFound(err))
}

func TestClient_NotFound(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := New(srv.URL).GetGeneration(context.Background(), 5)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestClient_Generate(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/generate", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var params GenerateParams
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&params))
		assert.Equal(t, "Mouse", params.ProductName)
		assert.Equal(t, "wb", params.Platform)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(GenerateResult{
			Card:         domain.ProductCard{Title: "Wireless mouse", Bullets: []string{"Silent"}},
			GenerationID: 11,
			Platform:     "wb",
			Language:     "ru",
		})
	}))
	defer srv.Close()

	result, err := New(srv.URL).Generate(context.Background(), &GenerateParams{
		ProductName: "Mouse",
		Platform:    "wb",
	})
	require.NoError(t, err)
	assert.Equal(t, "Wireless mouse", result.Card.Title)
	assert.Equal(t, int64(11), result.GenerationID)
}

func TestClient_GenerateStream(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/generate/stream", r.URL.Path)
		assert.Equal(t, "text/event-stream", r.Header.Get("Accept"))

		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "event: start\ndata: {\"stream_id\":\"s\",\"progress\":0}\n\n")
		fmt.Fprint(w, ": heartbeat\n\n")
		fmt.Fprint(w, "event: progress\ndata: {\"stream_id\":\"s\",\"progress\":0.4}\n\n")
		fmt.Fprint(w, "event: progress\ndata: {\"stream_id\":\"s\",\"progress\":1}\n\n")
		fmt.Fprint(w, "event: result\ndata: {\"stream_id\":\"s\",\"card\":{\"title\":\"Vase\",\"short_description\":\"\",\"bullets\":[]},\"platform\":\"etsy\",\"language\":\"en\"}\n\n")
	}))
	defer srv.Close()

	var seen []float64
	result, err := New(srv.URL).GenerateStream(context.Background(),
		&GenerateParams{ProductName: "Vase"},
		func(f float64) { seen = append(seen, f) },
	)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.4, 1}, seen)
	assert.Equal(t, "Vase", result.Card.Title)
	assert.Equal(t, "etsy", result.Platform)
}

func TestClient_GenerateStream_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "error event",
			body:    "event: start\ndata: {}\n\nevent: error\ndata: {\"error\":\"invalid generation request\"}\n\n",
			wantErr: "generation failed: invalid generation request",
		},
		{
			name:    "no result",
			body:    "event: start\ndata: {}\n\n",
			wantErr: ErrStreamIncomplete.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "text/event-stream")
				fmt.Fprint(w, tt.body)
			}))
			defer srv.Close()

			_, err := New(srv.URL).GenerateStream(context.Background(), &GenerateParams{ProductName: "x"}, nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestClient_ListGenerations(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/generations", r.URL.Path)
		assert.Equal(t, "u-1", r.URL.Query().Get("user_id"))
		assert.Equal(t, "ozon", r.URL.Query().Get("platform"))
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		assert.Empty(t, r.URL.Query().Get("offset"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(GenerationsResponse{
			Generations: []domain.Generation{{ID: 3, Title: "Mouse"}},
			Total:       1,
			Limit:       5,
		})
	}))
	defer srv.Close()

	resp, err := New(srv.URL).ListGenerations(context.Background(), &ListGenerationsParams{
		UserID:   "u-1",
		Platform: "ozon",
		Limit:    5,
	})
	require.NoError(t, err)
	require.Len(t, resp.Generations, 1)
	assert.Equal(t, int64(3), resp.Generations[0].ID)
	assert.Equal(t, 1, resp.Total)
}

func TestClient_ExportGeneration(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/generations/7/export", r.URL.Path)
		assert.Equal(t, "csv", r.URL.Query().Get("format"))
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte("platform,product_name\nozon,Mouse\n"))
	}))
	defer srv.Close()

	data, err := New(srv.URL).ExportGeneration(context.Background(), 7, "csv")
	require.NoError(t, err)
	assert.Equal(t, "platform,product_name\nozon,Mouse\n", string(data))
}

func TestClient_Stats(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/stats", r.URL.Path)
		assert.Equal(t, "3", r.URL.Query().Get("top"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"overview":{"total_generations":4,"users":2},"top_users":[{"user_id":"a","count":3}],"cache":{"entries":1,"hits":2}}`))
	}))
	defer srv.Close()

	stats, err := New(srv.URL).Stats(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Overview.TotalGenerations)
	require.Len(t, stats.TopUsers, 1)
	require.NotNil(t, stats.Cache)
	assert.Equal(t, uint64(2), stats.Cache.Hits)
}

func TestClient_WithHTTPClient(t *testing.T) {
	t.Parallel()

	hc := &http.Client{}
	c := New("http://example.test/", WithHTTPClient(hc))
	assert.Same(t, hc, c.httpClient)
	assert.Equal(t, "http://example.test", c.baseURL)
}
