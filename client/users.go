package client

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// usersCore validates inputs and translates calls into the normalized
// shape the collaborator expects. It never interprets results.
type usersCore struct {
	api APIClient
}

// fetchByID validates the ID and delegates retrieval.
func (c usersCore) fetchByID(ctx context.Context, id string) (*User, error) {
	if err := validateUserID(id); err != nil {
		return nil, err
	}
	return c.api.GetUser(ctx, id)
}

// createRecord wraps each raw doc into its prepared representation and
// delegates creation.
func (c usersCore) createRecord(ctx context.Context, name, about string, docs []map[string]any) (*CreatedResponse, error) {
	prepared := make([]DocPayload, 0, len(docs))
	for _, doc := range docs {
		prepared = append(prepared, PrepareDoc(doc))
	}

	return c.api.CreateUser(ctx, CreateUserRequest{
		Name:  name,
		About: about,
		Docs:  prepared,
	})
}

// listRecords delegates directly. Limit and offset are forwarded
// unchecked; the server clamps them.
func (c usersCore) listRecords(ctx context.Context, limit, offset int) (*ListResponse, error) {
	return c.api.ListUsers(ctx, limit, offset)
}

// deleteByID validates the ID and delegates deletion.
func (c usersCore) deleteByID(ctx context.Context, id string) error {
	if err := validateUserID(id); err != nil {
		return err
	}
	return c.api.DeleteUser(ctx, id)
}

// updateByID validates the ID and delegates a partial update carrying
// only the supplied fields.
func (c usersCore) updateByID(ctx context.Context, id string, name, about *string) (*UpdatedResponse, error) {
	if err := validateUserID(id); err != nil {
		return nil, err
	}
	return c.api.UpdateUser(ctx, id, UpdateUserRequest{
		Name:  name,
		About: about,
	})
}

// validateUserID rejects anything that is not a canonical hyphenated
// v4 UUID. The returned error wraps ErrInvalidUserID and names the
// offending value.
func validateUserID(id string) error {
	if len(id) != 36 {
		return fmt.Errorf("%w: %q", ErrInvalidUserID, id)
	}
	parsed, err := uuid.Parse(id)
	if err != nil || parsed.Version() != 4 {
		return fmt.Errorf("%w: %q", ErrInvalidUserID, id)
	}
	return nil
}

// DefaultListLimit is the page size used when ListParams omits one.
const DefaultListLimit = 100

// CreateParams holds the arguments for Users.Create.
type CreateParams struct {
	Name  string
	About string
	// Docs are raw document dictionaries; each is wrapped into its
	// prepared representation before delegation. Nil means none.
	Docs []map[string]any
}

// ListParams holds the arguments for Users.List.
// A nil ListParams means limit=100, offset=0.
type ListParams struct {
	// Limit is the page size. Zero means DefaultListLimit.
	Limit int
	// Offset is the number of records to skip. Defaults to zero.
	Offset int
}

// UpdateParams holds the arguments for Users.Update.
// Nil Name/About fields are left untouched by the server.
type UpdateParams struct {
	ID    string
	Name  *string
	About *string
}

// Users is the user resource manager. It wraps the validation core
// with an ergonomic calling convention and unwraps single-purpose
// envelopes. It is stateless and safe for concurrent use.
type Users struct {
	core usersCore
}

// NewUsers creates a Users manager delegating to the given collaborator.
func NewUsers(api APIClient) *Users {
	return &Users{core: usersCore{api: api}}
}

// Get retrieves a user by ID.
// Returns ErrInvalidUserID for a malformed ID without touching the API.
func (u *Users) Get(ctx context.Context, id string) (*User, error) {
	return u.core.fetchByID(ctx, id)
}

// Create creates a user with optional attached docs and returns the
// collaborator's acknowledgement as-is.
func (u *Users) Create(ctx context.Context, params CreateParams) (*CreatedResponse, error) {
	return u.core.createRecord(ctx, params.Name, params.About, params.Docs)
}

// List returns a page of users. Only the items are surfaced; the
// envelope's pagination metadata is discarded.
func (u *Users) List(ctx context.Context, params *ListParams) ([]User, error) {
	limit := DefaultListLimit
	offset := 0
	if params != nil {
		if params.Limit != 0 {
			limit = params.Limit
		}
		offset = params.Offset
	}

	envelope, err := u.core.listRecords(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	return envelope.Items, nil
}

// Delete removes a user. It resolves with no value on success
// regardless of what the collaborator's response carried.
func (u *Users) Delete(ctx context.Context, id string) error {
	return u.core.deleteByID(ctx, id)
}

// Update applies a partial update and returns the collaborator's
// acknowledgement as-is.
func (u *Users) Update(ctx context.Context, params UpdateParams) (*UpdatedResponse, error) {
	return u.core.updateByID(ctx, params.ID, params.Name, params.About)
}
