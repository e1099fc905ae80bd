package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/userhub/userhub/internal/handler/dto"
	"github.com/userhub/userhub/internal/model"
	"github.com/userhub/userhub/internal/service"
)

// UserService defines the service operations the user handlers need.
type UserService interface {
	CreateUser(ctx context.Context, input service.CreateUserInput) (*model.CreatedResponse, error)
	GetUser(ctx context.Context, id string) (*model.User, error)
	ListUsers(ctx context.Context, limit, offset int) (*model.ListResponse, error)
	UpdateUser(ctx context.Context, input service.UpdateUserInput) (*model.UpdatedResponse, error)
	DeleteUser(ctx context.Context, id string) error
	ListDocs(ctx context.Context, userID string) ([]model.Doc, error)
}

// UserHandler handles HTTP requests for user operations.
type UserHandler struct {
	svc    UserService
	logger *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(svc UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		svc:    svc,
		logger: logger,
	}
}

// Create handles POST /api/v1/users.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	input := service.CreateUserInput{
		Name:  req.Name,
		About: req.About,
		Docs:  req.Docs,
	}

	created, err := h.svc.CreateUser(r.Context(), input)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("user_created",
		"user_id", created.ID,
		"doc_count", len(req.Docs),
	)

	writeJSON(w, http.StatusCreated, created)
}

// Get handles GET /api/v1/users/{id}.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.userID(w, r)
	if !ok {
		return
	}

	user, err := h.svc.GetUser(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// List handles GET /api/v1/users.
// Malformed limit/offset values are ignored and the service's defaults
// apply; pagination bounds are never a reason to reject a listing.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	limit := 0
	if l := query.Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil {
			limit = parsed
		}
	}

	offset := 0
	if o := query.Get("offset"); o != "" {
		if parsed, err := strconv.Atoi(o); err == nil {
			offset = parsed
		}
	}

	result, err := h.svc.ListUsers(r.Context(), limit, offset)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Update handles PATCH /api/v1/users/{id}.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req dto.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	input := service.UpdateUserInput{
		ID:    id,
		Name:  req.Name,
		About: req.About,
	}

	updated, err := h.svc.UpdateUser(r.Context(), input)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("user_updated",
		"user_id", id,
		"name_changed", req.Name != nil,
		"about_changed", req.About != nil,
	)

	writeJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/v1/users/{id}.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.userID(w, r)
	if !ok {
		return
	}

	if err := h.svc.DeleteUser(r.Context(), id); err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("user_deleted", "user_id", id)

	w.WriteHeader(http.StatusNoContent)
}

// ListDocs handles GET /api/v1/users/{id}/docs.
func (h *UserHandler) ListDocs(w http.ResponseWriter, r *http.Request) {
	id, ok := h.userID(w, r)
	if !ok {
		return
	}

	docs, err := h.svc.ListDocs(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.DocListResponse{Items: docs})
}

// userID extracts and validates the {id} path parameter.
func (h *UserHandler) userID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "MISSING_ID", "User ID is required")
		return "", false
	}

	parsed, err := uuid.Parse(id)
	if err != nil || parsed.Version() != 4 {
		writeError(w, http.StatusBadRequest, "INVALID_USER_ID", "User ID must be a v4 UUID")
		return "", false
	}

	return id, true
}

// handleServiceError maps service errors to HTTP responses.
func (h *UserHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
	case errors.Is(err, service.ErrNameRequired):
		writeError(w, http.StatusBadRequest, "NAME_REQUIRED", "Name is required")
	case errors.Is(err, service.ErrNameTooLong):
		writeError(w, http.StatusBadRequest, "NAME_TOO_LONG", "Name exceeds maximum length")
	case errors.Is(err, service.ErrAboutTooLong):
		writeError(w, http.StatusBadRequest, "ABOUT_TOO_LONG", "About exceeds maximum length")
	case errors.Is(err, service.ErrNoFields):
		writeError(w, http.StatusBadRequest, "NO_FIELDS", "At least one field must be supplied")
	default:
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
