// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Notisblokk Contributors

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

const noteDetailQuery = `
	SELECT n.id, n.tag_id, n.status_id, n.title, n.body, n.due_date,
	       n.created_at, n.updated_at,
	       t.name, s.name, s.color_hex
	FROM notes n
	JOIN tags t ON t.id = n.tag_id
	JOIN note_statuses s ON s.id = n.status_id
`

// NoteRepository implements notes.NoteRepository using PostgreSQL.
type NoteRepository struct {
	pool store.Pool
}

// NewNoteRepository creates a new NoteRepository.
func NewNoteRepository(pool store.Pool) *NoteRepository {
	return &NoteRepository{pool: pool}
}

// Create stores a new note.
func (r *NoteRepository) Create(ctx context.Context, note *notes.Note) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO notes (id, tag_id, status_id, title, body, due_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		note.ID.String(),
		note.TagID.String(),
		note.StatusID.String(),
		note.Title,
		note.Body,
		note.DueDate,
		note.CreatedAt,
		note.UpdatedAt,
	)
	if err != nil {
		return oops.Code("NOTE_CREATE_FAILED").
			With("operation", "insert note").
			Wrap(err)
	}
	return nil
}

// GetByID retrieves a note with its tag and status joined in.
func (r *NoteRepository) GetByID(ctx context.Context, id ulid.ULID) (*notes.Detail, error) {
	row := r.pool.QueryRow(ctx, noteDetailQuery+` WHERE n.id = $1`, id.String())

	detail, err := scanDetail(row.Scan)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("NOTE_NOT_FOUND").
			With("id", id.String()).
			Wrap(notes.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("NOTE_GET_FAILED").
			With("id", id.String()).
			Wrap(err)
	}
	return detail, nil
}

// List retrieves all notes ordered by due date, soonest first.
func (r *NoteRepository) List(ctx context.Context) ([]*notes.Detail, error) {
	rows, err := r.pool.Query(ctx, noteDetailQuery+` ORDER BY n.due_date, n.id`)
	if err != nil {
		return nil, oops.Code("NOTE_LIST_FAILED").
			With("operation", "list notes").
			Wrap(err)
	}
	defer rows.Close()
	return collectDetails(rows)
}

// ListByTag retrieves the notes under one tag.
func (r *NoteRepository) ListByTag(ctx context.Context, tagID ulid.ULID) ([]*notes.Detail, error) {
	rows, err := r.pool.Query(ctx, noteDetailQuery+` WHERE n.tag_id = $1 ORDER BY n.due_date, n.id`, tagID.String())
	if err != nil {
		return nil, oops.Code("NOTE_LIST_FAILED").
			With("operation", "list notes by tag").
			With("tag_id", tagID.String()).
			Wrap(err)
	}
	defer rows.Close()
	return collectDetails(rows)
}

// Update rewrites a note's mutable fields.
func (r *NoteRepository) Update(ctx context.Context, note *notes.Note) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE notes
		SET tag_id = $2, status_id = $3, title = $4, body = $5, due_date = $6, updated_at = $7
		WHERE id = $1
	`,
		note.ID.String(),
		note.TagID.String(),
		note.StatusID.String(),
		note.Title,
		note.Body,
		note.DueDate,
		note.UpdatedAt,
	)
	if err != nil {
		return oops.Code("NOTE_UPDATE_FAILED").
			With("id", note.ID.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("NOTE_NOT_FOUND").
			With("id", note.ID.String()).
			Wrap(notes.ErrNotFound)
	}
	return nil
}

// Delete removes a note.
func (r *NoteRepository) Delete(ctx context.Context, id ulid.ULID) error {
	result, err := r.pool.Exec(ctx, `
		DELETE FROM notes WHERE id = $1
	`, id.String())
	if err != nil {
		return oops.Code("NOTE_DELETE_FAILED").
			With("id", id.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("NOTE_NOT_FOUND").
			With("id", id.String()).
			Wrap(notes.ErrNotFound)
	}
	return nil
}

func collectDetails(rows pgx.Rows) ([]*notes.Detail, error) {
	var result []*notes.Detail
	for rows.Next() {
		detail, err := scanDetail(rows.Scan)
		if err != nil {
			return nil, oops.Code("NOTE_SCAN_FAILED").Wrap(err)
		}
		result = append(result, detail)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("NOTE_ROWS_ERROR").Wrap(err)
	}
	return result, nil
}

func scanDetail(scan func(dest ...any) error) (*notes.Detail, error) {
	var (
		idStr       string
		tagIDStr    string
		statusIDStr string
		title       string
		body        string
		dueDate     time.Time
		createdAt   time.Time
		updatedAt   time.Time
		tagName     string
		statusName  string
		statusColor string
	)

	err := scan(&idStr, &tagIDStr, &statusIDStr, &title, &body, &dueDate,
		&createdAt, &updatedAt, &tagName, &statusName, &statusColor)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err //nolint:wrapcheck // Callers wrap with context-specific info
		}
		return nil, oops.Code("NOTE_SCAN_FAILED").Wrap(err)
	}

	id, err := ulid.Parse(idStr)
	if err != nil {
		return nil, oops.Code("NOTE_INVALID_ID").With("id", idStr).Wrap(err)
	}
	tagID, err := ulid.Parse(tagIDStr)
	if err != nil {
		return nil, oops.Code("NOTE_INVALID_TAG_ID").With("tag_id", tagIDStr).Wrap(err)
	}
	statusID, err := ulid.Parse(statusIDStr)
	if err != nil {
		return nil, oops.Code("NOTE_INVALID_STATUS_ID").With("status_id", statusIDStr).Wrap(err)
	}

	return &notes.Detail{
		Note: notes.Note{
			ID:        id,
			TagID:     tagID,
			StatusID:  statusID,
			Title:     title,
			Body:      body,
			DueDate:   dueDate,
			CreatedAt: createdAt,
			UpdatedAt: updatedAt,
		},
		TagName:     tagName,
		StatusName:  statusName,
		StatusColor: statusColor,
	}, nil
}

// Compile-time interface check.
var _ notes.NoteRepository = (*NoteRepository)(nil)
