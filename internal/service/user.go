// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/userhub/userhub/internal/cache"
	"github.com/userhub/userhub/internal/metrics"
	"github.com/userhub/userhub/internal/model"
	"github.com/userhub/userhub/internal/repository"
)

// Service errors.
var (
	ErrNameRequired = errors.New("name is required")
	ErrNameTooLong  = errors.New("name exceeds maximum length")
	ErrAboutTooLong = errors.New("about exceeds maximum length")
	ErrUserNotFound = errors.New("user not found")
	ErrNoFields     = errors.New("no fields to update")
)

const (
	maxNameLength  = 255
	maxAboutLength = 4096

	// Listing bounds. Requests outside these are clamped, not rejected.
	defaultListLimit = 100
	maxListLimit     = 1000
)

// UserService handles user business logic.
type UserService struct {
	repo    *repository.Repository
	cache   *cache.Cache
	metrics metrics.Recorder
}

// NewUserService creates a new UserService.
func NewUserService(repo *repository.Repository, cache *cache.Cache, recorder metrics.Recorder) *UserService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &UserService{
		repo:    repo,
		cache:   cache,
		metrics: recorder,
	}
}

// CreateUserInput defines input for creating a user.
type CreateUserInput struct {
	Name  string
	About string
	Docs  []model.DocPayload
}

// CreateUser creates a new user with its attached docs.
func (s *UserService) CreateUser(ctx context.Context, input CreateUserInput) (*model.CreatedResponse, error) {
	if err := validateName(input.Name); err != nil {
		return nil, err
	}
	if err := validateAbout(input.About); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &model.User{
		ID:        uuid.NewString(),
		Name:      input.Name,
		About:     input.About,
		CreatedAt: now,
		UpdatedAt: now,
	}

	docs := make([]*model.Doc, 0, len(input.Docs))
	for _, payload := range input.Docs {
		docs = append(docs, &model.Doc{
			ID:        uuid.NewString(),
			UserID:    user.ID,
			Title:     payload.Title(),
			Content:   payload.Content(),
			Metadata:  payload.Fields,
			CreatedAt: now,
		})
	}

	if err := s.repo.CreateUser(ctx, user, docs); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.metrics.IncUserCreated()

	return &model.CreatedResponse{
		ID:        user.ID,
		CreatedAt: user.CreatedAt,
	}, nil
}

// GetUser retrieves a user by ID, reading through the cache.
func (s *UserService) GetUser(ctx context.Context, id string) (*model.User, error) {
	start := time.Now()
	defer func() {
		s.metrics.ObserveLookupDuration(time.Since(start))
	}()

	if s.cache != nil {
		if s.cache.IsUserNegative(ctx, id) {
			s.metrics.IncUserCacheHit()
			return nil, ErrUserNotFound
		}
		if user, err := s.cache.GetUser(ctx, id); err == nil {
			s.metrics.IncUserCacheHit()
			return user, nil
		}
	}

	s.metrics.IncUserCacheMiss()

	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			if s.cache != nil {
				_ = s.cache.SetUserNegative(ctx, id)
			}
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if s.cache != nil {
		_ = s.cache.SetUser(ctx, user)
	}

	return user, nil
}

// ListUsers returns a page of users. Limit is clamped to [1, 1000] with a
// default of 100; a negative offset is treated as zero. The envelope echoes
// the bounds the query actually ran with.
func (s *UserService) ListUsers(ctx context.Context, limit, offset int) (*model.ListResponse, error) {
	limit, offset = clampListBounds(limit, offset)

	users, err := s.repo.ListUsers(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	return &model.ListResponse{
		Items:  users,
		Limit:  limit,
		Offset: offset,
	}, nil
}

// UpdateUserInput defines input for a partial user update.
// Nil fields are left unchanged.
type UpdateUserInput struct {
	ID    string
	Name  *string
	About *string
}

// UpdateUser applies a partial update and invalidates the cache entry.
func (s *UserService) UpdateUser(ctx context.Context, input UpdateUserInput) (*model.UpdatedResponse, error) {
	if input.Name == nil && input.About == nil {
		return nil, ErrNoFields
	}
	if input.Name != nil {
		if err := validateName(*input.Name); err != nil {
			return nil, err
		}
	}
	if input.About != nil {
		if err := validateAbout(*input.About); err != nil {
			return nil, err
		}
	}

	updatedAt, err := s.repo.UpdateUser(ctx, input.ID, input.Name, input.About)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("update user: %w", err)
	}

	if s.cache != nil {
		_ = s.cache.DeleteUser(ctx, input.ID)
	}

	s.metrics.IncUserUpdated()

	return &model.UpdatedResponse{
		ID:        input.ID,
		UpdatedAt: updatedAt,
	}, nil
}

// DeleteUser removes a user and invalidates the cache entry.
func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	if err := s.repo.DeleteUser(ctx, id); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("delete user: %w", err)
	}

	if s.cache != nil {
		_ = s.cache.DeleteUser(ctx, id)
	}

	s.metrics.IncUserDeleted()

	return nil
}

// ListDocs returns the docs attached to a user.
func (s *UserService) ListDocs(ctx context.Context, userID string) ([]model.Doc, error) {
	docs, err := s.repo.ListDocsByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list docs: %w", err)
	}
	return docs, nil
}

// clampListBounds normalizes pagination bounds: a non-positive limit
// falls back to the default, an oversized limit is capped, and a
// negative offset becomes zero.
func clampListBounds(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func validateName(name string) error {
	if name == "" {
		return ErrNameRequired
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return ErrNameTooLong
	}
	return nil
}

func validateAbout(about string) error {
	if utf8.RuneCountInString(about) > maxAboutLength {
		return ErrAboutTooLong
	}
	return nil
}
