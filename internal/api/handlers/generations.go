package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/cardsmith/internal/export"
	"github.com/donaldgifford/cardsmith/internal/store"
	domain "github.com/donaldgifford/cardsmith/pkg/types"
)

// HistoryReader reads stored generations.
type HistoryReader interface {
	GetGeneration(ctx context.Context, id int64) (*domain.Generation, error)
	ListGenerations(ctx context.Context, q *store.HistoryQuery) ([]domain.Generation, int, error)
}

// GenerationsHandler serves generation history.
type GenerationsHandler struct {
	store HistoryReader
}

// NewGenerationsHandler creates a new GenerationsHandler.
func NewGenerationsHandler(s HistoryReader) *GenerationsHandler {
	return &GenerationsHandler{store: s}
}

// --- Input/Output types ---

// ListGenerationsInput is the input for listing history.
type ListGenerationsInput struct {
	UserID   string `query:"user_id"  doc:"Filter by user"`
	Platform string `query:"platform" doc:"Filter by marketplace code"`
	Limit    int    `query:"limit"    doc:"Number of results (default 10)" minimum:"0" maximum:"100"`
	Offset   int    `query:"offset"   doc:"Pagination offset"             minimum:"0"`
}

// ListGenerationsOutput is the response for listing history.
type ListGenerationsOutput struct {
	Body struct {
		Generations []domain.Generation `json:"generations"`
		Total       int                 `json:"total"`
		Limit       int                 `json:"limit"`
		Offset      int                 `json:"offset"`
	}
}

// GetGenerationInput is the input for getting a single generation.
type GetGenerationInput struct {
	ID int64 `path:"id" doc:"Generation ID" minimum:"1"`
}

// GetGenerationOutput is the response for getting a single generation.
type GetGenerationOutput struct {
	Body domain.Generation
}

// ExportGenerationInput is the input for exporting a generation.
type ExportGenerationInput struct {
	ID     int64  `path:"id"      doc:"Generation ID"                     minimum:"1"`
	Format string `query:"format" doc:"Export format (default txt)" enum:"txt,csv," default:"txt"`
}

// ExportGenerationOutput is a downloadable card file.
type ExportGenerationOutput struct {
	ContentType        string `header:"Content-Type"`
	ContentDisposition string `header:"Content-Disposition"`
	Body               []byte
}

// --- Handlers ---

// List returns history newest first with optional filters.
func (h *GenerationsHandler) List(
	ctx context.Context,
	input *ListGenerationsInput,
) (*ListGenerationsOutput, error) {
	q := &store.HistoryQuery{
		Limit:  store.NormalizeLimit(input.Limit),
		Offset: input.Offset,
	}
	if input.UserID != "" {
		q.UserID = &input.UserID
	}
	if input.Platform != "" {
		q.Platform = &input.Platform
	}

	gens, total, err := h.store.ListGenerations(ctx, q)
	if err != nil {
		return nil, huma.Error500InternalServerError("history query failed: " + err.Error())
	}
	if gens == nil {
		gens = []domain.Generation{}
	}

	resp := &ListGenerationsOutput{}
	resp.Body.Generations = gens
	resp.Body.Total = total
	resp.Body.Limit = q.Limit
	resp.Body.Offset = q.Offset
	return resp, nil
}

// Get returns a single generation by ID.
func (h *GenerationsHandler) Get(
	ctx context.Context,
	input *GetGenerationInput,
) (*GetGenerationOutput, error) {
	g, err := h.lookup(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &GetGenerationOutput{Body: *g}, nil
}

// Export renders a generation as a txt or csv attachment.
func (h *GenerationsHandler) Export(
	ctx context.Context,
	input *ExportGenerationInput,
) (*ExportGenerationOutput, error) {
	format, err := export.ParseFormat(input.Format)
	if err != nil {
		return nil, huma.Error400BadRequest(err.Error())
	}

	g, err := h.lookup(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	data, err := export.Render(g, format)
	if err != nil {
		return nil, huma.Error500InternalServerError("rendering export: " + err.Error())
	}

	return &ExportGenerationOutput{
		ContentType:        format.ContentType(),
		ContentDisposition: `attachment; filename="` + export.Filename(g.ID, format) + `"`,
		Body:               data,
	}, nil
}

func (h *GenerationsHandler) lookup(ctx context.Context, id int64) (*domain.Generation, error) {
	g, err := h.store.GetGeneration(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, huma.Error404NotFound("generation not found")
	}
	if err != nil {
		return nil, huma.Error500InternalServerError("loading generation: " + err.Error())
	}
	return g, nil
}

// RegisterGenerationRoutes registers history endpoints with the Huma API.
func RegisterGenerationRoutes(api huma.API, h *GenerationsHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "list-generations",
		Method:      http.MethodGet,
		Path:        "/api/v1/generations",
		Summary:     "List generations",
		Description: "Returns generation history newest first, optionally filtered by user and platform.",
		Tags:        []string{"history"},
	}, h.List)

	huma.Register(api, huma.Operation{
		OperationID: "get-generation",
		Method:      http.MethodGet,
		Path:        "/api/v1/generations/{id}",
		Summary:     "Get a generation by ID",
		Tags:        []string{"history"},
		Errors:      []int{http.StatusNotFound},
	}, h.Get)

	huma.Register(api, huma.Operation{
		OperationID: "export-generation",
		Method:      http.MethodGet,
		Path:        "/api/v1/generations/{id}/export",
		Summary:     "Export a generation",
		Description: "Downloads a generation as a labelled text file or a single-row CSV.",
		Tags:        []string{"history"},
		Errors:      []int{http.StatusBadRequest, http.StatusNotFound},
	}, h.Export)
}
