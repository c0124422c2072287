package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/cardsmith/pkg/profile"
	domain "github.com/donaldgifford/cardsmith/pkg/types"
)

// ListProfilesOutput lists the supported marketplaces.
type ListProfilesOutput struct {
	Body []domain.PlatformProfile
}

// ListPresetsOutput lists the category presets.
type ListPresetsOutput struct {
	Body []profile.Preset
}

// ListProfiles returns every platform profile in display order.
func ListProfiles(_ context.Context, _ *struct{}) (*ListProfilesOutput, error) {
	return &ListProfilesOutput{Body: profile.Profiles()}, nil
}

// ListPresets returns every category preset.
func ListPresets(_ context.Context, _ *struct{}) (*ListPresetsOutput, error) {
	return &ListPresetsOutput{Body: profile.Presets()}, nil
}

// RegisterCatalogRoutes registers the profile and preset endpoints.
func RegisterCatalogRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-profiles",
		Method:      http.MethodGet,
		Path:        "/api/v1/profiles",
		Summary:     "List platform profiles",
		Description: "Returns the marketplaces and their title, description and bullet limits.",
		Tags:        []string{"catalog"},
	}, ListProfiles)

	huma.Register(api, huma.Operation{
		OperationID: "list-presets",
		Method:      http.MethodGet,
		Path:        "/api/v1/presets",
		Summary:     "List category presets",
		Tags:        []string{"catalog"},
	}, ListPresets)
}
