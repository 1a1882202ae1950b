// Package dto defines request and response shapes for the v1 API.
package dto

// IDResponse returns a created entity id.
type IDResponse struct {
	ID string `json:"id"`
}

// SuccessResponse is a generic success envelope.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
