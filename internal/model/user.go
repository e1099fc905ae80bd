// Package model defines domain entities for the application.
package model

import "time"

// User represents a directory user.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	About     string    `json:"about"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Doc represents a document attached to a user.
type Doc struct {
	ID        string         `json:"id"`
	UserID    string         `json:"user_id"`
	Title     string         `json:"title,omitempty"`
	Content   string         `json:"content,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// DocPayload is the prepared document representation sent with a create
// request. Fields are passed through as-is; schema validation happens
// server-side when the doc is persisted.
type DocPayload struct {
	Fields map[string]any `json:"fields"`
}

// NewDocPayload wraps a raw document into its prepared representation.
func NewDocPayload(fields map[string]any) DocPayload {
	if fields == nil {
		fields = map[string]any{}
	}
	return DocPayload{Fields: fields}
}

// Title extracts the doc title from the prepared fields, if present.
func (p DocPayload) Title() string {
	if t, ok := p.Fields["title"].(string); ok {
		return t
	}
	return ""
}

// Content extracts the doc content from the prepared fields, if present.
func (p DocPayload) Content() string {
	if c, ok := p.Fields["content"].(string); ok {
		return c
	}
	return ""
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

// ListResponse is the envelope for a user listing. Limit and Offset echo
// back the pagination bounds the query ran with.
type ListResponse struct {
	Items  []User `json:"items"`
	Limit  int    `json:"limit"`
	Offset int    `json:"offset"`
}
