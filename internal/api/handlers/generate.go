package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/cardsmith/internal/generator"
	"github.com/donaldgifford/cardsmith/pkg/logger"
	"github.com/donaldgifford/cardsmith/pkg/profile"
	domain "github.com/donaldgifford/cardsmith/pkg/types"
)

// statusClientClosedRequest is returned when the caller went away before
// the card was ready.
const statusClientClosedRequest = 499

// RequestDefaults fills fields a caller left empty.
type RequestDefaults struct {
	Language domain.Language
	Platform string
}

// GenerateRequestBody is the JSON payload accepted by the generate endpoints.
type GenerateRequestBody struct {
	ProductName string   `json:"product_name"          minLength:"1" maxLength:"300" doc:"Product name"                          example:"Logitech M185 wireless mouse"`
	Features    string   `json:"features,omitempty"    maxLength:"2000"              doc:"Comma separated features and specs"`
	Audience    string   `json:"audience,omitempty"    maxLength:"300"               doc:"Target audience"`
	Platform    string   `json:"platform,omitempty"                                  doc:"Marketplace code (ozon, wb, etsy, shopify)" example:"ozon"`
	Category    string   `json:"category,omitempty"                                  doc:"Category preset code"                  example:"electronics"`
	Tone        string   `json:"tone,omitempty"        enum:"selling,concise,expert,neutral," doc:"Writing tone (default neutral)"`
	Length      string   `json:"length,omitempty"      enum:"short,medium,long,"    doc:"Description length (default medium)"`
	Language    string   `json:"language,omitempty"    enum:"ru,en,"                doc:"Content language"`
	UserID      string   `json:"user_id,omitempty"     maxLength:"128"               doc:"History owner (default anonymous)"`
	Temperature *float64 `json:"temperature,omitempty" minimum:"0" maximum:"2"      doc:"Sampling temperature override"`
	MaxTokens   *int     `json:"max_tokens,omitempty"  minimum:"1" maximum:"8192"   doc:"Generation token budget override"`
}

func (b *GenerateRequestBody) toDomain(d RequestDefaults) domain.GenerationRequest {
	req := domain.GenerationRequest{
		ProductName: b.ProductName,
		Features:    b.Features,
		Audience:    b.Audience,
		Platform:    b.Platform,
		Category:    b.Category,
		Tone:        domain.Tone(b.Tone),
		Length:      domain.LengthPreset(b.Length),
		Language:    domain.Language(b.Language),
		Temperature: b.Temperature,
		MaxTokens:   b.MaxTokens,
	}
	return req.WithDefaults(d.Language, d.Platform)
}

// GenerateInput is the input for POST /api/v1/generate.
type GenerateInput struct {
	Body GenerateRequestBody
}

// GenerateResponseBody carries a generated card.
type GenerateResponseBody struct {
	Card         domain.ProductCard `json:"card"`
	GenerationID int64              `json:"generation_id,omitempty" doc:"History record ID, absent when history is disabled or the write failed"`
	Platform     string             `json:"platform"                example:"ozon"`
	Language     string             `json:"language"                example:"ru"`
}

// GenerateOutput is the response for POST /api/v1/generate.
type GenerateOutput struct {
	Body GenerateResponseBody
}

// GenerateHandler serves card generation.
type GenerateHandler struct {
	gen      generator.Generator
	history  *HistoryRecorder
	defaults RequestDefaults
	log      *slog.Logger
}

// GenerateOption configures a GenerateHandler.
type GenerateOption func(*GenerateHandler)

// WithHistory records every generated card through r.
func WithHistory(r *HistoryRecorder) GenerateOption {
	return func(h *GenerateHandler) {
		h.history = r
	}
}

// WithDefaults sets the language and platform used when a request omits them.
func WithDefaults(d RequestDefaults) GenerateOption {
	return func(h *GenerateHandler) {
		h.defaults = d
	}
}

// WithLogger sets the handler logger.
func WithLogger(l *slog.Logger) GenerateOption {
	return func(h *GenerateHandler) {
		if l != nil {
			h.log = l
		}
	}
}

// NewGenerateHandler creates a new GenerateHandler.
func NewGenerateHandler(gen generator.Generator, opts ...GenerateOption) *GenerateHandler {
	h := &GenerateHandler{
		gen:      gen,
		defaults: RequestDefaults{Language: domain.LanguageRU},
		log:      logger.Discard(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Generate produces a card and records it to history.
func (h *GenerateHandler) Generate(
	ctx context.Context,
	input *GenerateInput,
) (*GenerateOutput, error) {
	req := input.Body.toDomain(h.defaults)

	card, err := h.gen.Generate(ctx, req, nil)
	if err != nil {
		return nil, generateError(err)
	}

	resp := &GenerateOutput{}
	resp.Body.Card = card
	resp.Body.Platform = profile.Resolve(req.Platform).Code
	resp.Body.Language = string(req.Language)
	resp.Body.GenerationID = h.history.Record(ctx, input.Body.UserID, req, card)
	return resp, nil
}

func generateError(err error) error {
	switch {
	case errors.Is(err, generator.ErrInvalidRequest):
		return huma.Error422UnprocessableEntity(err.Error())
	case errors.Is(err, generator.ErrCancelled):
		return huma.NewError(statusClientClosedRequest, "generation cancelled")
	default:
		return huma.Error500InternalServerError("generation failed: " + err.Error())
	}
}

// RegisterGenerateRoutes registers the generation endpoint with the Huma API.
func RegisterGenerateRoutes(api huma.API, h *GenerateHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "generate-card",
		Method:      http.MethodPost,
		Path:        "/api/v1/generate",
		Summary:     "Generate a product card",
		Description: "Generates a title, short description and bullets for a product. " +
			"Falls back to a card built from the input when the model is unavailable.",
		Tags:   []string{"generate"},
		Errors: []int{http.StatusUnprocessableEntity},
	}, h.Generate)
}
