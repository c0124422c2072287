package handlers_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/cardsmith/internal/api/handlers"
	"github.com/donaldgifford/cardsmith/internal/generator"
	genMocks "github.com/donaldgifford/cardsmith/internal/generator/mocks"
	storeMocks "github.com/donaldgifford/cardsmith/internal/store/mocks"
	"github.com/donaldgifford/cardsmith/pkg/logger"
	domain "github.com/donaldgifford/cardsmith/pkg/types"
)

func sampleCard() domain.ProductCard {
	return domain.ProductCard{
		Title:            "Logitech M185 Wireless Mouse",
		ShortDescription: "Compact wireless mouse with a 12-month battery.",
		Bullets:          []string{"2.4 GHz receiver", "Silent clicks", "12-month battery"},
	}
}

func TestGenerate_Success(t *testing.T) {
	t.Parallel()

	mg := genMocks.NewMockGenerator(t)
	mg.EXPECT().Generate(
		mock.Anything,
		mock.MatchedBy(func(r domain.GenerationRequest) bool {
			return r.ProductName == "Logitech M185" &&
				r.Platform == "wb" &&
				r.Tone == domain.ToneNeutral &&
				r.Length == domain.LengthMedium &&
				r.Language == domain.LanguageRU
		}),
		mock.Anything,
	).Return(sampleCard(), nil).Once()

	h := handlers.NewGenerateHandler(mg)
	_, api := humatest.New(t)
	handlers.RegisterGenerateRoutes(api, h)

	resp := api.Post("/api/v1/generate", map[string]any{
		"product_name": "Logitech M185",
		"platform":     "wb",
	})
	require.Equal(t, http.StatusOK, resp.Code)
	body := resp.Body.String()
	assert.Contains(t, body, `"title":"Logitech M185 Wireless Mouse"`)
	assert.Contains(t, body, `"platform":"wb"`)
	assert.Contains(t, body, `"language":"ru"`)
	assert.NotContains(t, body, "generation_id")
}

func TestGenerate_AppliesConfiguredDefaults(t *testing.T) {
	t.Parallel()

	mg := genMocks.NewMockGenerator(t)
	mg.EXPECT().Generate(
		mock.Anything,
		mock.MatchedBy(func(r domain.GenerationRequest) bool {
			return r.Language == domain.LanguageEN && r.Platform == "etsy" && r.Tone == domain.ToneExpert
		}),
		mock.Anything,
	).Return(sampleCard(), nil).Once()

	h := handlers.NewGenerateHandler(mg,
		handlers.WithDefaults(handlers.RequestDefaults{Language: domain.LanguageEN, Platform: "etsy"}),
		handlers.WithLogger(logger.Discard()),
	)
	_, api := humatest.New(t)
	handlers.RegisterGenerateRoutes(api, h)

	resp := api.Post("/api/v1/generate", map[string]any{
		"product_name": "Ceramic vase",
		"tone":         "expert",
	})
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"platform":"etsy"`)
}

func TestGenerate_RecordsHistory(t *testing.T) {
	t.Parallel()

	mg := genMocks.NewMockGenerator(t)
	mg.EXPECT().Generate(mock.Anything, mock.Anything, mock.Anything).Return(sampleCard(), nil).Once()

	ms := storeMocks.NewMockStore(t)
	ms.EXPECT().AddGeneration(
		mock.Anything,
		mock.MatchedBy(func(g *domain.Generation) bool {
			return g.UserID == "u-1" &&
				g.Platform == "ozon" &&
				g.Language == "en" &&
				g.ProductName == "Mouse" &&
				g.Title == "Logitech M185 Wireless Mouse" &&
				len(g.Bullets) == 3
		}),
	).Run(func(_ context.Context, g *domain.Generation) {
		g.ID = 42
	}).Return(nil).Once()
	ms.EXPECT().PruneHistory(mock.Anything, "u-1", 50).Return(int64(1), nil).Once()

	h := handlers.NewGenerateHandler(mg,
		handlers.WithHistory(handlers.NewHistoryRecorder(ms, 50, nil)),
	)
	_, api := humatest.New(t)
	handlers.RegisterGenerateRoutes(api, h)

	resp := api.Post("/api/v1/generate", map[string]any{
		"product_name": "Mouse",
		"platform":     "OZON",
		"language":     "en",
		"user_id":      "u-1",
	})
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"generation_id":42`)
}

func TestGenerate_HistoryFailureStillReturnsCard(t *testing.T) {
	t.Parallel()

	mg := genMocks.NewMockGenerator(t)
	mg.EXPECT().Generate(mock.Anything, mock.Anything, mock.Anything).Return(sampleCard(), nil).Once()

	ms := storeMocks.NewMockStore(t)
	ms.EXPECT().AddGeneration(
		mock.Anything,
		mock.MatchedBy(func(g *domain.Generation) bool { return g.UserID == "anonymous" }),
	).Return(errors.New("disk full")).Once()

	h := handlers.NewGenerateHandler(mg,
		handlers.WithHistory(handlers.NewHistoryRecorder(ms, 50, nil)),
	)
	_, api := humatest.New(t)
	handlers.RegisterGenerateRoutes(api, h)

	resp := api.Post("/api/v1/generate", map[string]any{"product_name": "Mouse"})
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "Logitech M185 Wireless Mouse")
	assert.NotContains(t, resp.Body.String(), "generation_id")
}

func TestGenerate_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{
			name:     "invalid request",
			err:      fmt.Errorf("%w: product name is required", generator.ErrInvalidRequest),
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name:     "cancelled",
			err:      fmt.Errorf("%w: context canceled", generator.ErrCancelled),
			wantCode: 499,
		},
		{
			name:     "unexpected",
			err:      errors.New("boom"),
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mg := genMocks.NewMockGenerator(t)
			mg.EXPECT().Generate(mock.Anything, mock.Anything, mock.Anything).
				Return(domain.ProductCard{}, tt.err).Once()

			h := handlers.NewGenerateHandler(mg)
			_, api := humatest.New(t)
			handlers.RegisterGenerateRoutes(api, h)

			resp := api.Post("/api/v1/generate", map[string]any{"product_name": "   x"})
			assert.Equal(t, tt.wantCode, resp.Code)
		})
	}
}

func TestGenerate_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body map[string]any
	}{
		{name: "missing product name", body: map[string]any{"platform": "ozon"}},
		{name: "empty product name", body: map[string]any{"product_name": ""}},
		{name: "unknown tone", body: map[string]any{"product_name": "Mug", "tone": "angry"}},
		{name: "unknown language", body: map[string]any{"product_name": "Mug", "language": "de"}},
		{name: "temperature out of range", body: map[string]any{"product_name": "Mug", "temperature": 3.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mg := genMocks.NewMockGenerator(t)
			h := handlers.NewGenerateHandler(mg)
			_, api := humatest.New(t)
			handlers.RegisterGenerateRoutes(api, h)

			resp := api.Post("/api/v1/generate", tt.body)
			assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
		})
	}
}
