// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Notisblokk Contributors

package notes

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrStatusInUse is returned when deleting a status still referenced by
// notes.
var ErrStatusInUse = errors.New("status in use")

// Terminal status names; notes carrying these are excluded from deadline
// alerts. Matched case-insensitively.
const (
	StatusResolved  = "Resolved"
	StatusCancelled = "Cancelled"
)

// Tag labels a group of notes.
type Tag struct {
	ID        ulid.ULID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// NewTag creates a validated Tag.
func NewTag(name string) (*Tag, error) {
	if strings.TrimSpace(name) == "" {
		return nil, oops.Code("TAG_INVALID_NAME").Errorf("tag name is required")
	}
	return &Tag{
		ID:        ulid.Make(),
		Name:      name,
		CreatedAt: time.Now(),
	}, nil
}

// Status is a named workflow state with a presentation color.
type Status struct {
	ID        ulid.ULID `json:"id"`
	Name      string    `json:"name"`
	ColorHex  string    `json:"color_hex"`
	CreatedAt time.Time `json:"created_at"`
}

// NewStatus creates a validated Status.
func NewStatus(name, colorHex string) (*Status, error) {
	if strings.TrimSpace(name) == "" {
		return nil, oops.Code("STATUS_INVALID_NAME").Errorf("status name is required")
	}
	if !strings.HasPrefix(colorHex, "#") || len(colorHex) != 7 {
		return nil, oops.Code("STATUS_INVALID_COLOR").
			With("color", colorHex).
			Errorf("color must be a #RRGGBB hex value")
	}
	return &Status{
		ID:        ulid.Make(),
		Name:      name,
		ColorHex:  colorHex,
		CreatedAt: time.Now(),
	}, nil
}

// IsTerminal reports whether notes in this status are done with their
// deadline, so alerts skip them.
func (s *Status) IsTerminal() bool {
	return strings.EqualFold(s.Name, StatusResolved) || strings.EqualFold(s.Name, StatusCancelled)
}

// Note is a tagged note with a status and a due date. The due date is a
// calendar date; time-of-day is not significant.
type Note struct {
	ID        ulid.ULID `json:"id"`
	TagID     ulid.ULID `json:"tag_id"`
	StatusID  ulid.ULID `json:"status_id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	DueDate   time.Time `json:"due_date"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewNote creates a validated Note.
func NewNote(tagID, statusID ulid.ULID, title, body string, dueDate time.Time) (*Note, error) {
	if tagID.Compare(ulid.ULID{}) == 0 {
		return nil, oops.Code("NOTE_INVALID_TAG").Errorf("tag ID cannot be zero")
	}
	if statusID.Compare(ulid.ULID{}) == 0 {
		return nil, oops.Code("NOTE_INVALID_STATUS").Errorf("status ID cannot be zero")
	}
	if strings.TrimSpace(title) == "" {
		return nil, oops.Code("NOTE_INVALID_TITLE").Errorf("title is required")
	}
	if dueDate.IsZero() {
		return nil, oops.Code("NOTE_INVALID_DUE_DATE").Errorf("due date is required")
	}

	now := time.Now()
	return &Note{
		ID:        ulid.Make(),
		TagID:     tagID,
		StatusID:  statusID,
		Title:     title,
		Body:      body,
		DueDate:   dueDate,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Detail is a note joined with its tag and status names for display,
// plus the number of calendar days remaining until the due date
// (negative when overdue).
type Detail struct {
	Note
	TagName       string `json:"tag_name"`
	StatusName    string `json:"status_name"`
	StatusColor   string `json:"status_color"`
	DaysRemaining int    `json:"days_remaining"`
}

// IsPending reports whether the note still has a live deadline.
func (d *Detail) IsPending() bool {
	return !strings.EqualFold(d.StatusName, StatusResolved) && !strings.EqualFold(d.StatusName, StatusCancelled)
}

// DaysUntil returns the number of whole calendar days from today to due.
// Both values are compared at midnight so partial days don't shift the
// bucket.
func DaysUntil(today, due time.Time) int {
	t := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	d := time.Date(due.Year(), due.Month(), due.Day(), 0, 0, 0, 0, time.UTC)
	return int(d.Sub(t).Hours() / 24)
}

// TagRepository manages tag persistence.
type TagRepository interface {
	Create(ctx context.Context, tag *Tag) error
	GetByID(ctx context.Context, id ulid.ULID) (*Tag, error)
	List(ctx context.Context) ([]*Tag, error)
	Update(ctx context.Context, tag *Tag) error

	// Delete removes a tag; its notes go with it (cascade).
	Delete(ctx context.Context, id ulid.ULID) error
}

// StatusRepository manages note-status persistence.
type StatusRepository interface {
	Create(ctx context.Context, status *Status) error
	GetByID(ctx context.Context, id ulid.ULID) (*Status, error)
	List(ctx context.Context) ([]*Status, error)
	Update(ctx context.Context, status *Status) error

	// Delete removes a status. Returns ErrStatusInUse (wrapped) when
	// notes still reference it.
	Delete(ctx context.Context, id ulid.ULID) error
}

// NoteRepository manages note persistence. Reads return Detail rows with
// the tag and status joined in; DaysRemaining is filled by the service.
type NoteRepository interface {
	Create(ctx context.Context, note *Note) error
	GetByID(ctx context.Context, id ulid.ULID) (*Detail, error)
	List(ctx context.Context) ([]*Detail, error)
	ListByTag(ctx context.Context, tagID ulid.ULID) ([]*Detail, error)
	Update(ctx context.Context, note *Note) error
	Delete(ctx context.Context, id ulid.ULID) error
}
