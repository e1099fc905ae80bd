//go:build integration

package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/userhub/userhub/internal/model"
	"github.com/userhub/userhub/internal/testutil"
)

func TestIntegrationUserRepository_CreateUser(t *testing.T) {
	ctx, repo := newUserTestEnv(t)

	user := testutil.NewTestUser(t, "Ada")

	if err := repo.CreateUser(ctx, user, nil); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	retrieved, err := repo.GetUserByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetUserByID failed: %v", err)
	}

	if retrieved.Name != "Ada" {
		t.Errorf("Name mismatch: got %q, want %q", retrieved.Name, "Ada")
	}
	if retrieved.About != user.About {
		t.Errorf("About mismatch: got %q, want %q", retrieved.About, user.About)
	}
	if retrieved.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}
}

func TestIntegrationUserRepository_CreateUser_WithDocs(t *testing.T) {
	ctx, repo := newUserTestEnv(t)

	user := testutil.NewTestUser(t, "Grace")
	docs := []*model.Doc{
		testutil.NewTestDoc(t, user.ID, "d1"),
		testutil.NewTestDoc(t, user.ID, "d2"),
	}

	if err := repo.CreateUser(ctx, user, docs); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	stored, err := repo.ListDocsByUserID(ctx, user.ID)
	if err != nil {
		t.Fatalf("ListDocsByUserID failed: %v", err)
	}

	if len(stored) != 2 {
		t.Fatalf("expected 2 docs, got %d", len(stored))
	}
	if stored[0].Title != "d1" {
		t.Errorf("first doc title: got %q, want %q", stored[0].Title, "d1")
	}
}

func TestIntegrationUserRepository_CreateUser_Duplicate(t *testing.T) {
	ctx, repo := newUserTestEnv(t)

	user := testutil.NewTestUser(t, "Ada")
	if err := repo.CreateUser(ctx, user, nil); err != nil {
		t.Fatalf("CreateUser (first) failed: %v", err)
	}

	dup := testutil.NewTestUser(t, "Ada Again")
	dup.ID = user.ID

	err := repo.CreateUser(ctx, dup, nil)
	if !errors.Is(err, ErrUserExists) {
		t.Errorf("Expected ErrUserExists, got: %v", err)
	}
}

func TestIntegrationUserRepository_GetByID_NotFound(t *testing.T) {
	ctx, repo := newUserTestEnv(t)

	_, err := repo.GetUserByID(ctx, "00000000-0000-4000-8000-000000000000")
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound, got: %v", err)
	}
}

func TestIntegrationUserRepository_ListUsers(t *testing.T) {
	ctx, repo := newUserTestEnv(t)

	for _, name := range []string{"a", "b", "c"} {
		if err := repo.CreateUser(ctx, testutil.NewTestUser(t, name), nil); err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}
	}

	users, err := repo.ListUsers(ctx, 2, 0)
	if err != nil {
		t.Fatalf("ListUsers failed: %v", err)
	}
	if len(users) != 2 {
		t.Errorf("expected 2 users, got %d", len(users))
	}

	rest, err := repo.ListUsers(ctx, 2, 2)
	if err != nil {
		t.Fatalf("ListUsers (offset) failed: %v", err)
	}
	if len(rest) != 1 {
		t.Errorf("expected 1 user at offset 2, got %d", len(rest))
	}
}

func TestIntegrationUserRepository_UpdateUser_Partial(t *testing.T) {
	ctx, repo := newUserTestEnv(t)

	user := testutil.NewTestUser(t, "Ada")
	if err := repo.CreateUser(ctx, user, nil); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	about := "new bio"
	updatedAt, err := repo.UpdateUser(ctx, user.ID, nil, &about)
	if err != nil {
		t.Fatalf("UpdateUser failed: %v", err)
	}
	if updatedAt.IsZero() {
		t.Error("updated_at should be set")
	}

	retrieved, err := repo.GetUserByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetUserByID failed: %v", err)
	}
	if retrieved.About != about {
		t.Errorf("About mismatch: got %q, want %q", retrieved.About, about)
	}
	// Name must be untouched by a nil field
	if retrieved.Name != "Ada" {
		t.Errorf("Name changed unexpectedly: got %q", retrieved.Name)
	}
}

func TestIntegrationUserRepository_UpdateUser_NotFound(t *testing.T) {
	ctx, repo := newUserTestEnv(t)

	name := "x"
	_, err := repo.UpdateUser(ctx, "00000000-0000-4000-8000-000000000000", &name, nil)
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound, got: %v", err)
	}
}

func TestIntegrationUserRepository_DeleteUser_CascadesDocs(t *testing.T) {
	ctx, repo := newUserTestEnv(t)

	user := testutil.NewTestUser(t, "Ada")
	docs := []*model.Doc{testutil.NewTestDoc(t, user.ID, "d1")}
	if err := repo.CreateUser(ctx, user, docs); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	if err := repo.DeleteUser(ctx, user.ID); err != nil {
		t.Fatalf("DeleteUser failed: %v", err)
	}

	if _, err := repo.GetUserByID(ctx, user.ID); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound after delete, got: %v", err)
	}

	remaining, err := repo.ListDocsByUserID(ctx, user.ID)
	if err != nil {
		t.Fatalf("ListDocsByUserID failed: %v", err)
	}
	if len(remaining) != 0 {
		t.Errorf("expected docs to cascade, found %d", len(remaining))
	}
}

func TestIntegrationUserRepository_DeleteUser_NotFound(t *testing.T) {
	ctx, repo := newUserTestEnv(t)

	err := repo.DeleteUser(ctx, "00000000-0000-4000-8000-000000000000")
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound, got: %v", err)
	}
}

func newUserTestEnv(t *testing.T) (context.Context, *Repository) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}

	ctx := context.Background()
	dbURL := testutil.RequireEnv(t, "DATABASE_URL")

	repo, err := New(ctx, dbURL)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(repo.Close)

	unlock, err := testutil.AcquireDBLock(ctx, repo.Pool())
	if err != nil {
		t.Fatalf("acquire db lock: %v", err)
	}
	t.Cleanup(func() {
		_ = unlock()
	})

	if err := testutil.ResetUsersSchema(ctx, repo.Pool()); err != nil {
		t.Fatalf("reset users schema: %v", err)
	}

	return ctx, repo
}
