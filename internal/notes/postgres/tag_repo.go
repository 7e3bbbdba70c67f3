// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Notisblokk Contributors

// Package postgres implements the notes repositories using PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/notisblokk/notisblokk/internal/notes"
	"github.com/notisblokk/notisblokk/internal/store"
)

// TagRepository implements notes.TagRepository using PostgreSQL.
type TagRepository struct {
	pool store.Pool
}

// NewTagRepository creates a new TagRepository.
func NewTagRepository(pool store.Pool) *TagRepository {
	return &TagRepository{pool: pool}
}

// Create stores a new tag.
func (r *TagRepository) Create(ctx context.Context, tag *notes.Tag) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO tags (id, name, created_at)
		VALUES ($1, $2, $3)
	`, tag.ID.String(), tag.Name, tag.CreatedAt)
	if err != nil {
		return oops.Code("TAG_CREATE_FAILED").
			With("operation", "insert tag").
			With("name", tag.Name).
			Wrap(err)
	}
	return nil
}

// GetByID retrieves a tag by ID.
func (r *TagRepository) GetByID(ctx context.Context, id ulid.ULID) (*notes.Tag, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, created_at FROM tags WHERE id = $1
	`, id.String())

	tag, err := scanTag(row.Scan)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("TAG_NOT_FOUND").
			With("id", id.String()).
			Wrap(notes.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("TAG_GET_FAILED").
			With("id", id.String()).
			Wrap(err)
	}
	return tag, nil
}

// List retrieves all tags ordered by name.
func (r *TagRepository) List(ctx context.Context) ([]*notes.Tag, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, created_at FROM tags ORDER BY name
	`)
	if err != nil {
		return nil, oops.Code("TAG_LIST_FAILED").
			With("operation", "list tags").
			Wrap(err)
	}
	defer rows.Close()

	var result []*notes.Tag
	for rows.Next() {
		tag, err := scanTag(rows.Scan)
		if err != nil {
			return nil, oops.Code("TAG_SCAN_FAILED").Wrap(err)
		}
		result = append(result, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("TAG_ROWS_ERROR").Wrap(err)
	}
	return result, nil
}

// Update updates a tag's name.
func (r *TagRepository) Update(ctx context.Context, tag *notes.Tag) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE tags SET name = $2 WHERE id = $1
	`, tag.ID.String(), tag.Name)
	if err != nil {
		return oops.Code("TAG_UPDATE_FAILED").
			With("id", tag.ID.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("TAG_NOT_FOUND").
			With("id", tag.ID.String()).
			Wrap(notes.ErrNotFound)
	}
	return nil
}

// Delete removes a tag; its notes cascade away with it.
func (r *TagRepository) Delete(ctx context.Context, id ulid.ULID) error {
	result, err := r.pool.Exec(ctx, `
		DELETE FROM tags WHERE id = $1
	`, id.String())
	if err != nil {
		return oops.Code("TAG_DELETE_FAILED").
			With("id", id.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("TAG_NOT_FOUND").
			With("id", id.String()).
			Wrap(notes.ErrNotFound)
	}
	return nil
}

func scanTag(scan func(dest ...any) error) (*notes.Tag, error) {
	var (
		idStr     string
		name      string
		createdAt time.Time
	)
	if err := scan(&idStr, &name, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err //nolint:wrapcheck // Callers wrap with context-specific info
		}
		return nil, oops.Code("TAG_SCAN_FAILED").Wrap(err)
	}
	id, err := ulid.Parse(idStr)
	if err != nil {
		return nil, oops.Code("TAG_INVALID_ID").With("id", idStr).Wrap(err)
	}
	return &notes.Tag{ID: id, Name: name, CreatedAt: createdAt}, nil
}

// Compile-time interface check.
var _ notes.TagRepository = (*TagRepository)(nil)
