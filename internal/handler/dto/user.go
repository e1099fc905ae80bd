// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"time"

	"github.com/userhub/userhub/internal/model"
)

// CreateUserRequest represents the request body for creating a user.
type CreateUserRequest struct {
	Name  string             `json:"name"`
	About string             `json:"about,omitempty"`
	Docs  []model.DocPayload `json:"docs,omitempty"`
}

// UpdateUserRequest represents the request body for a partial user update.
// Absent fields leave the current value untouched.
type UpdateUserRequest struct {
	Name  *string `json:"name,omitempty"`
	About *string `json:"about,omitempty"`
}

// APIKeyCreateRequest represents the request body for minting an API key.
type APIKeyCreateRequest struct {
	Name   string   `json:"name,omitempty"`
	Scopes []string `json:"scopes,omitempty"`
}

// APIKeyCreateResponse carries a freshly minted key.
// The plaintext key is shown once and never stored.
type APIKeyCreateResponse struct {
	ID        string    `json:"id"`
	Key       string    `json:"key"`
	Name      string    `json:"name,omitempty"`
	KeyPrefix string    `json:"key_prefix"`
	Scopes    []string  `json:"scopes"`
	CreatedAt time.Time `json:"created_at"`
}

// DocListResponse is the envelope for a user's docs.
type DocListResponse struct {
	Items []model.Doc `json:"items"`
}

// ErrorDetail carries a machine-readable code and a human message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}
