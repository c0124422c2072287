// Package handlers implements the HTTP API of cardsmith: card generation
// (JSON and Server-Sent Events), generation history and export, the
// platform and category catalogs, stats and health probes.
package handlers

// ErrorResponse is the error body of the non-huma (echo) endpoints.
type ErrorResponse struct {
	Error string `json:"error" example:"product_name is required"`
}

// StatusResponse is a generic status response body.
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}
