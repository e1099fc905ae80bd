package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/userhub/userhub/internal/model"
)

// Common errors for user repository operations.
var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user already exists")
)

// CreateUser inserts a new user and its docs in a single transaction.
func (r *Repository) CreateUser(ctx context.Context, user *model.User, docs []*model.Doc) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO users (id, name, about, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err = tx.Exec(ctx, query,
		user.ID,
		user.Name,
		user.About,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrUserExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	for _, doc := range docs {
		if err := insertDoc(ctx, tx, doc); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit user creation: %w", err)
	}

	return nil
}

// insertDoc inserts a single doc within a transaction.
func insertDoc(ctx context.Context, tx pgx.Tx, doc *model.Doc) error {
	metadata, err := json.Marshal(doc.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal doc metadata: %w", err)
	}

	query := `
		INSERT INTO docs (id, user_id, title, content, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	if _, err := tx.Exec(ctx, query,
		doc.ID,
		doc.UserID,
		doc.Title,
		doc.Content,
		metadata,
		doc.CreatedAt,
	); err != nil {
		return fmt.Errorf("failed to create doc: %w", err)
	}

	return nil
}

// GetUserByID retrieves a user by their ID.
func (r *Repository) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	query := `
		SELECT id, name, about, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	var user model.User
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.Name,
		&user.About,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}

	return &user, nil
}

// ListUsers retrieves users ordered by creation time, newest first.
func (r *Repository) ListUsers(ctx context.Context, limit, offset int) ([]model.User, error) {
	query := `
		SELECT id, name, about, created_at, updated_at
		FROM users
		ORDER BY created_at DESC, id
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := make([]model.User, 0, limit)
	for rows.Next() {
		var user model.User
		if err := rows.Scan(
			&user.ID,
			&user.Name,
			&user.About,
			&user.CreatedAt,
			&user.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return users, nil
}

// UpdateUser applies a partial update. Nil fields keep their current value.
// Returns the updated_at timestamp stored by the database.
func (r *Repository) UpdateUser(ctx context.Context, id string, name, about *string) (time.Time, error) {
	query := `
		UPDATE users
		SET name = COALESCE($2, name),
		    about = COALESCE($3, about),
		    updated_at = $4
		WHERE id = $1
	`

	updatedAt := time.Now().UTC()
	result, err := r.pool.Exec(ctx, query, id, name, about, updatedAt)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to update user: %w", err)
	}

	if result.RowsAffected() == 0 {
		return time.Time{}, ErrUserNotFound
	}

	return updatedAt, nil
}

// DeleteUser removes a user. Docs are removed by the FK cascade.
func (r *Repository) DeleteUser(ctx context.Context, id string) error {
	query := `DELETE FROM users WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}

// ListDocsByUserID retrieves all docs attached to a user.
func (r *Repository) ListDocsByUserID(ctx context.Context, userID string) ([]model.Doc, error) {
	query := `
		SELECT id, user_id, title, content, metadata, created_at
		FROM docs
		WHERE user_id = $1
		ORDER BY created_at
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list docs: %w", err)
	}
	defer rows.Close()

	var docs []model.Doc
	for rows.Next() {
		var doc model.Doc
		var metadata []byte
		if err := rows.Scan(
			&doc.ID,
			&doc.UserID,
			&doc.Title,
			&doc.Content,
			&metadata,
			&doc.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan doc: %w", err)
		}
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &doc.Metadata); err != nil {
				return nil, fmt.Errorf("failed to unmarshal doc metadata: %w", err)
			}
		}
		docs = append(docs, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating docs: %w", err)
	}

	return docs, nil
}
