// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Notisblokk Contributors

package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/notisblokk/notisblokk/internal/notes"
	"github.com/notisblokk/notisblokk/internal/store"
)

// StatusRepository implements notes.StatusRepository using PostgreSQL.
type StatusRepository struct {
	pool store.Pool
}

// NewStatusRepository creates a new StatusRepository.
func NewStatusRepository(pool store.Pool) *StatusRepository {
	return &StatusRepository{pool: pool}
}

// Create stores a new status.
func (r *StatusRepository) Create(ctx context.Context, status *notes.Status) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO note_statuses (id, name, color_hex, created_at)
		VALUES ($1, $2, $3, $4)
	`, status.ID.String(), status.Name, status.ColorHex, status.CreatedAt)
	if err != nil {
		return oops.Code("STATUS_CREATE_FAILED").
			With("operation", "insert status").
			With("name", status.Name).
			Wrap(err)
	}
	return nil
}

// GetByID retrieves a status by ID.
func (r *StatusRepository) GetByID(ctx context.Context, id ulid.ULID) (*notes.Status, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, color_hex, created_at FROM note_statuses WHERE id = $1
	`, id.String())

	status, err := scanStatus(row.Scan)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("STATUS_NOT_FOUND").
			With("id", id.String()).
			Wrap(notes.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("STATUS_GET_FAILED").
			With("id", id.String()).
			Wrap(err)
	}
	return status, nil
}

// List retrieves all statuses ordered by name.
func (r *StatusRepository) List(ctx context.Context) ([]*notes.Status, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, color_hex, created_at FROM note_statuses ORDER BY name
	`)
	if err != nil {
		return nil, oops.Code("STATUS_LIST_FAILED").
			With("operation", "list statuses").
			Wrap(err)
	}
	defer rows.Close()

	var result []*notes.Status
	for rows.Next() {
		status, err := scanStatus(rows.Scan)
		if err != nil {
			return nil, oops.Code("STATUS_SCAN_FAILED").Wrap(err)
		}
		result = append(result, status)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("STATUS_ROWS_ERROR").Wrap(err)
	}
	return result, nil
}

// Update updates a status's name and color.
func (r *StatusRepository) Update(ctx context.Context, status *notes.Status) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE note_statuses SET name = $2, color_hex = $3 WHERE id = $1
	`, status.ID.String(), status.Name, status.ColorHex)
	if err != nil {
		return oops.Code("STATUS_UPDATE_FAILED").
			With("id", status.ID.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("STATUS_NOT_FOUND").
			With("id", status.ID.String()).
			Wrap(notes.ErrNotFound)
	}
	return nil
}

// Delete removes a status. The notes FK is ON DELETE RESTRICT, so a
// status still in use surfaces as ErrStatusInUse.
func (r *StatusRepository) Delete(ctx context.Context, id ulid.ULID) error {
	result, err := r.pool.Exec(ctx, `
		DELETE FROM note_statuses WHERE id = $1
	`, id.String())
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return oops.Code("STATUS_IN_USE").
				With("id", id.String()).
				Wrap(notes.ErrStatusInUse)
		}
		return oops.Code("STATUS_DELETE_FAILED").
			With("id", id.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("STATUS_NOT_FOUND").
			With("id", id.String()).
			Wrap(notes.ErrNotFound)
	}
	return nil
}

func scanStatus(scan func(dest ...any) error) (*notes.Status, error) {
	var (
		idStr     string
		name      string
		colorHex  string
		createdAt time.Time
	)
	if err := scan(&idStr, &name, &colorHex, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err //nolint:wrapcheck // Callers wrap with context-specific info
		}
		return nil, oops.Code("STATUS_SCAN_FAILED").Wrap(err)
	}
	id, err := ulid.Parse(idStr)
	if err != nil {
		return nil, oops.Code("STATUS_INVALID_ID").With("id", idStr).Wrap(err)
	}
	return &notes.Status{ID: id, Name: name, ColorHex: colorHex, CreatedAt: createdAt}, nil
}

// Compile-time interface check.
var _ notes.StatusRepository = (*StatusRepository)(nil)
