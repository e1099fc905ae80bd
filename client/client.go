// Package client provides the Go SDK for the userhub API.
//
// The Users manager validates inputs and delegates every call to an
// injected APIClient. It holds no state of its own: no caching, no
// retries, no mutation tracking. Failures from the collaborator are
// surfaced to the caller unchanged.
package client

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Common SDK errors.
var (
	// ErrInvalidUserID indicates a user ID is not a canonical v4 UUID.
	// It is returned synchronously, before any network interaction.
	ErrInvalidUserID = errors.New("invalid user ID: must be a v4 UUID")
)

// APIClient is the injected collaborator performing the actual network
// calls. Transport, authentication, and retry policy live behind this
// interface; the Users manager treats it as an opaque capability.
type APIClient interface {
	GetUser(ctx context.Context, id string) (*User, error)
	CreateUser(ctx context.Context, req CreateUserRequest) (*CreatedResponse, error)
	ListUsers(ctx context.Context, limit, offset int) (*ListResponse, error)
	DeleteUser(ctx context.Context, id string) error
	UpdateUser(ctx context.Context, id string, req UpdateUserRequest) (*UpdatedResponse, error)
}

// User represents a directory user as returned by the API.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	About     string    `json:"about"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DocPayload is the prepared representation of a document attached to a
// user at creation time. Fields carry the raw document dictionary; any
// schema validation happens server-side.
type DocPayload struct {
	Fields map[string]any `json:"fields"`
}

// PrepareDoc wraps a raw document into its prepared representation.
func PrepareDoc(fields map[string]any) DocPayload {
	if fields == nil {
		fields = map[string]any{}
	}
	return DocPayload{Fields: fields}
}

// CreateUserRequest is the normalized payload for a create call.
type CreateUserRequest struct {
	Name  string       `json:"name"`
	About string       `json:"about,omitempty"`
	Docs  []DocPayload `json:"docs,omitempty"`
}

// UpdateUserRequest is the partial-update payload. Nil fields are
// omitted from the wire body and leave the current value untouched.
type UpdateUserRequest struct {
	Name  *string `json:"name,omitempty"`
	About *string `json:"about,omitempty"`
}

// CreatedResponse acknowledges a successful create.
type CreatedResponse struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

// UpdatedResponse acknowledges a successful update.
type UpdatedResponse struct {
	ID        string    `json:"id"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListResponse is the envelope for a user listing. Limit and Offset
// echo back the pagination bounds the query ran with.
type ListResponse struct {
	Items  []User `json:"items"`
	Limit  int    `json:"limit"`
	Offset int    `json:"offset"`
}

// APIError is a failure reported by the remote API. It is returned by
// the HTTP collaborator and propagated unmodified by the Users manager.
type APIError struct {
	StatusCode int    // HTTP status
	Code       string // machine-readable code, e.g. USER_NOT_FOUND
	Message    string // human-readable message
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d (%s): %s", e.StatusCode, e.Code, e.Message)
}
