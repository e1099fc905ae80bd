package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/userhub/userhub/internal/handler/dto"
	"github.com/userhub/userhub/internal/model"
	"github.com/userhub/userhub/internal/service"
)

// fakeUserService records calls and returns canned results.
type fakeUserService struct {
	createInput  *service.CreateUserInput
	updateInput  *service.UpdateUserInput
	listLimit    int
	listOffset   int
	getID        string
	deleteID     string
	user         *model.User
	created      *model.CreatedResponse
	updated      *model.UpdatedResponse
	listResponse *model.ListResponse
	docs         []model.Doc
	err          error
}

func (f *fakeUserService) CreateUser(ctx context.Context, input service.CreateUserInput) (*model.CreatedResponse, error) {
	f.createInput = &input
	return f.created, f.err
}

func (f *fakeUserService) GetUser(ctx context.Context, id string) (*model.User, error) {
	f.getID = id
	return f.user, f.err
}

func (f *fakeUserService) ListUsers(ctx context.Context, limit, offset int) (*model.ListResponse, error) {
	f.listLimit = limit
	f.listOffset = offset
	return f.listResponse, f.err
}

func (f *fakeUserService) UpdateUser(ctx context.Context, input service.UpdateUserInput) (*model.UpdatedResponse, error) {
	f.updateInput = &input
	return f.updated, f.err
}

func (f *fakeUserService) DeleteUser(ctx context.Context, id string) error {
	f.deleteID = id
	return f.err
}

func (f *fakeUserService) ListDocs(ctx context.Context, userID string) ([]model.Doc, error) {
	return f.docs, f.err
}

func newUserTestRouter(svc UserService) *chi.Mux {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewUserHandler(svc, logger)

	r := chi.NewRouter()
	r.Route("/api/v1/users", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Get)
		r.Patch("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
		r.Get("/{id}/docs", h.ListDocs)
	})
	return r
}

func TestUserHandler_Create(t *testing.T) {
	fake := &fakeUserService{
		created: &model.CreatedResponse{ID: validID(), CreatedAt: time.Now().UTC()},
	}
	router := newUserTestRouter(fake)

	body := `{"name":"Ada","about":"mathematician","docs":[{"fields":{"title":"d1"}}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	if fake.createInput == nil {
		t.Fatal("service was not invoked")
	}
	if fake.createInput.Name != "Ada" {
		t.Errorf("name: got %q, want %q", fake.createInput.Name, "Ada")
	}
	if len(fake.createInput.Docs) != 1 {
		t.Fatalf("expected 1 doc, got %d", len(fake.createInput.Docs))
	}
	if fake.createInput.Docs[0].Title() != "d1" {
		t.Errorf("doc title: got %q, want %q", fake.createInput.Docs[0].Title(), "d1")
	}
}

func TestUserHandler_Create_InvalidJSON(t *testing.T) {
	fake := &fakeUserService{}
	router := newUserTestRouter(fake)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users", bytes.NewBufferString("{"))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rec.Code)
	}
	if fake.createInput != nil {
		t.Error("service should not be invoked on invalid JSON")
	}
}

func TestUserHandler_Get(t *testing.T) {
	id := validID()
	fake := &fakeUserService{
		user: &model.User{ID: id, Name: "Ada"},
	}
	router := newUserTestRouter(fake)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/"+id, nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var user model.User
	if err := json.NewDecoder(rec.Body).Decode(&user); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if user.ID != id {
		t.Errorf("ID: got %q, want %q", user.ID, id)
	}
	if fake.getID != id {
		t.Errorf("service called with %q, want %q", fake.getID, id)
	}
}

func TestUserHandler_Get_InvalidID(t *testing.T) {
	fake := &fakeUserService{}
	router := newUserTestRouter(fake)

	tests := []struct {
		name string
		id   string
	}{
		{"not a uuid", "not-a-uuid"},
		{"v1 uuid", "a6341c68-71a8-11ee-b962-0242ac120002"},
		{"truncated", "9b1deb4d-3b7d-4bad-9bdd"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/users/"+tt.id, nil)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected status 400, got %d", rec.Code)
			}

			var response dto.ErrorResponse
			if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if response.Error.Code != "INVALID_USER_ID" {
				t.Errorf("error code: got %q, want INVALID_USER_ID", response.Error.Code)
			}
			if fake.getID != "" {
				t.Error("service should not be invoked for invalid IDs")
			}
		})
	}
}

func TestUserHandler_Get_NotFound(t *testing.T) {
	fake := &fakeUserService{err: service.ErrUserNotFound}
	router := newUserTestRouter(fake)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/"+validID(), nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rec.Code)
	}
}

func TestUserHandler_List_ForwardsPagination(t *testing.T) {
	fake := &fakeUserService{
		listResponse: &model.ListResponse{Items: []model.User{}, Limit: 25, Offset: 50},
	}
	router := newUserTestRouter(fake)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users?limit=25&offset=50", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if fake.listLimit != 25 || fake.listOffset != 50 {
		t.Errorf("pagination: got limit=%d offset=%d, want 25/50", fake.listLimit, fake.listOffset)
	}

	var envelope model.ListResponse
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if envelope.Limit != 25 || envelope.Offset != 50 {
		t.Errorf("envelope bounds: got limit=%d offset=%d", envelope.Limit, envelope.Offset)
	}
}

func TestUserHandler_List_MalformedBoundsIgnored(t *testing.T) {
	fake := &fakeUserService{
		listResponse: &model.ListResponse{Items: []model.User{}, Limit: 100, Offset: 0},
	}
	router := newUserTestRouter(fake)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users?limit=abc&offset=xyz", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 for malformed bounds, got %d", rec.Code)
	}
	// Unparseable values are dropped; the service sees zero values and
	// applies its defaults.
	if fake.listLimit != 0 || fake.listOffset != 0 {
		t.Errorf("pagination: got limit=%d offset=%d, want 0/0", fake.listLimit, fake.listOffset)
	}
}

func TestUserHandler_Update_PartialBody(t *testing.T) {
	id := validID()
	fake := &fakeUserService{
		updated: &model.UpdatedResponse{ID: id, UpdatedAt: time.Now().UTC()},
	}
	router := newUserTestRouter(fake)

	body := `{"about":"new bio"}`
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/users/"+id, bytes.NewBufferString(body))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	if fake.updateInput == nil {
		t.Fatal("service was not invoked")
	}
	if fake.updateInput.Name != nil {
		t.Errorf("name should be nil for absent field, got %q", *fake.updateInput.Name)
	}
	if fake.updateInput.About == nil || *fake.updateInput.About != "new bio" {
		t.Errorf("about: got %v, want %q", fake.updateInput.About, "new bio")
	}
}

func TestUserHandler_Delete(t *testing.T) {
	id := validID()
	fake := &fakeUserService{}
	router := newUserTestRouter(fake)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/users/"+id, nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("expected status 204, got %d", rec.Code)
	}
	if fake.deleteID != id {
		t.Errorf("service called with %q, want %q", fake.deleteID, id)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("expected empty body, got %q", rec.Body.String())
	}
}

func validID() string {
	return "9b1deb4d-3b7d-4bad-9bdd-2b0d7b3dcb6d"
}
