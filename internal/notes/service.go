// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Notisblokk Contributors

package notes

import (
	"context"
	"errors"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Service provides tag, status and note operations.
type Service struct {
	tags     TagRepository
	statuses StatusRepository
	notes    NoteRepository
	now      func() time.Time
}

// NewService creates a new notes Service.
func NewService(tags TagRepository, statuses StatusRepository, notes NoteRepository) (*Service, error) {
	return NewServiceWithClock(tags, statuses, notes, time.Now)
}

// NewServiceWithClock creates a notes Service with an injectable clock.
// The clock drives the days-remaining computation on reads.
func NewServiceWithClock(tags TagRepository, statuses StatusRepository, notes NoteRepository, now func() time.Time) (*Service, error) {
	if tags == nil {
		return nil, oops.Code("NOTES_SERVICE_INVALID").Errorf("tag repository is required")
	}
	if statuses == nil {
		return nil, oops.Code("NOTES_SERVICE_INVALID").Errorf("status repository is required")
	}
	if notes == nil {
		return nil, oops.Code("NOTES_SERVICE_INVALID").Errorf("note repository is required")
	}
	if now == nil {
		return nil, oops.Code("NOTES_SERVICE_INVALID").Errorf("clock is required")
	}
	return &Service{tags: tags, statuses: statuses, notes: notes, now: now}, nil
}

// CreateTag creates a new tag.
func (s *Service) CreateTag(ctx context.Context, name string) (*Tag, error) {
	tag, err := NewTag(name)
	if err != nil {
		return nil, err
	}
	if err := s.tags.Create(ctx, tag); err != nil {
		return nil, oops.Code("TAG_CREATE_FAILED").With("name", name).Wrap(err)
	}
	return tag, nil
}

// GetTag retrieves a tag by ID.
func (s *Service) GetTag(ctx context.Context, id ulid.ULID) (*Tag, error) {
	tag, err := s.tags.GetByID(ctx, id)
	if err != nil {
		return nil, wrapLookup(err, "TAG", id)
	}
	return tag, nil
}

// ListTags retrieves all tags.
func (s *Service) ListTags(ctx context.Context) ([]*Tag, error) {
	tags, err := s.tags.List(ctx)
	if err != nil {
		return nil, oops.Code("TAG_LIST_FAILED").Wrap(err)
	}
	return tags, nil
}

// RenameTag updates a tag's name.
func (s *Service) RenameTag(ctx context.Context, id ulid.ULID, name string) (*Tag, error) {
	tag, err := s.tags.GetByID(ctx, id)
	if err != nil {
		return nil, wrapLookup(err, "TAG", id)
	}
	if _, err := NewTag(name); err != nil {
		return nil, err
	}
	tag.Name = name
	if err := s.tags.Update(ctx, tag); err != nil {
		return nil, oops.Code("TAG_UPDATE_FAILED").With("id", id.String()).Wrap(err)
	}
	return tag, nil
}

// DeleteTag removes a tag and, by cascade, its notes.
func (s *Service) DeleteTag(ctx context.Context, id ulid.ULID) error {
	if err := s.tags.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return wrapLookup(err, "TAG", id)
		}
		return oops.Code("TAG_DELETE_FAILED").With("id", id.String()).Wrap(err)
	}
	return nil
}

// CreateStatus creates a new note status.
func (s *Service) CreateStatus(ctx context.Context, name, colorHex string) (*Status, error) {
	status, err := NewStatus(name, colorHex)
	if err != nil {
		return nil, err
	}
	if err := s.statuses.Create(ctx, status); err != nil {
		return nil, oops.Code("STATUS_CREATE_FAILED").With("name", name).Wrap(err)
	}
	return status, nil
}

// GetStatus retrieves a status by ID.
func (s *Service) GetStatus(ctx context.Context, id ulid.ULID) (*Status, error) {
	status, err := s.statuses.GetByID(ctx, id)
	if err != nil {
		return nil, wrapLookup(err, "STATUS", id)
	}
	return status, nil
}

// ListStatuses retrieves all statuses.
func (s *Service) ListStatuses(ctx context.Context) ([]*Status, error) {
	statuses, err := s.statuses.List(ctx)
	if err != nil {
		return nil, oops.Code("STATUS_LIST_FAILED").Wrap(err)
	}
	return statuses, nil
}

// UpdateStatus updates a status's name and color.
func (s *Service) UpdateStatus(ctx context.Context, id ulid.ULID, name, colorHex string) (*Status, error) {
	status, err := s.statuses.GetByID(ctx, id)
	if err != nil {
		return nil, wrapLookup(err, "STATUS", id)
	}
	if _, err := NewStatus(name, colorHex); err != nil {
		return nil, err
	}
	status.Name = name
	status.ColorHex = colorHex
	if err := s.statuses.Update(ctx, status); err != nil {
		return nil, oops.Code("STATUS_UPDATE_FAILED").With("id", id.String()).Wrap(err)
	}
	return status, nil
}

// DeleteStatus removes a status unless notes still reference it.
func (s *Service) DeleteStatus(ctx context.Context, id ulid.ULID) error {
	if err := s.statuses.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return wrapLookup(err, "STATUS", id)
		}
		if errors.Is(err, ErrStatusInUse) {
			return oops.Code("STATUS_IN_USE").
				With("id", id.String()).
				Wrap(err)
		}
		return oops.Code("STATUS_DELETE_FAILED").With("id", id.String()).Wrap(err)
	}
	return nil
}

// CreateNote creates a note after checking the tag and status exist.
func (s *Service) CreateNote(ctx context.Context, tagID, statusID ulid.ULID, title, body string, dueDate time.Time) (*Detail, error) {
	if _, err := s.tags.GetByID(ctx, tagID); err != nil {
		return nil, wrapLookup(err, "TAG", tagID)
	}
	if _, err := s.statuses.GetByID(ctx, statusID); err != nil {
		return nil, wrapLookup(err, "STATUS", statusID)
	}

	note, err := NewNote(tagID, statusID, title, body, dueDate)
	if err != nil {
		return nil, err
	}
	if err := s.notes.Create(ctx, note); err != nil {
		return nil, oops.Code("NOTE_CREATE_FAILED").Wrap(err)
	}
	return s.GetNote(ctx, note.ID)
}

// GetNote retrieves a note with tag and status joined in.
func (s *Service) GetNote(ctx context.Context, id ulid.ULID) (*Detail, error) {
	detail, err := s.notes.GetByID(ctx, id)
	if err != nil {
		return nil, wrapLookup(err, "NOTE", id)
	}
	s.fillDays(detail)
	return detail, nil
}

// ListNotes retrieves all notes, most urgent due date first.
func (s *Service) ListNotes(ctx context.Context) ([]*Detail, error) {
	details, err := s.notes.List(ctx)
	if err != nil {
		return nil, oops.Code("NOTE_LIST_FAILED").Wrap(err)
	}
	for _, d := range details {
		s.fillDays(d)
	}
	return details, nil
}

// ListNotesByTag retrieves the notes under one tag.
func (s *Service) ListNotesByTag(ctx context.Context, tagID ulid.ULID) ([]*Detail, error) {
	details, err := s.notes.ListByTag(ctx, tagID)
	if err != nil {
		return nil, oops.Code("NOTE_LIST_FAILED").With("tag_id", tagID.String()).Wrap(err)
	}
	for _, d := range details {
		s.fillDays(d)
	}
	return details, nil
}

// UpdateNote updates a note's fields after checking referenced rows exist.
func (s *Service) UpdateNote(ctx context.Context, id, tagID, statusID ulid.ULID, title, body string, dueDate time.Time) (*Detail, error) {
	current, err := s.notes.GetByID(ctx, id)
	if err != nil {
		return nil, wrapLookup(err, "NOTE", id)
	}
	if _, err := s.tags.GetByID(ctx, tagID); err != nil {
		return nil, wrapLookup(err, "TAG", tagID)
	}
	if _, err := s.statuses.GetByID(ctx, statusID); err != nil {
		return nil, wrapLookup(err, "STATUS", statusID)
	}

	note := current.Note
	note.TagID = tagID
	note.StatusID = statusID
	note.Title = title
	note.Body = body
	note.DueDate = dueDate
	note.UpdatedAt = s.now()

	if _, err := NewNote(tagID, statusID, title, body, dueDate); err != nil {
		return nil, err
	}
	if err := s.notes.Update(ctx, &note); err != nil {
		return nil, oops.Code("NOTE_UPDATE_FAILED").With("id", id.String()).Wrap(err)
	}
	return s.GetNote(ctx, id)
}

// DeleteNote removes a note.
func (s *Service) DeleteNote(ctx context.Context, id ulid.ULID) error {
	if err := s.notes.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return wrapLookup(err, "NOTE", id)
		}
		return oops.Code("NOTE_DELETE_FAILED").With("id", id.String()).Wrap(err)
	}
	return nil
}

func (s *Service) fillDays(d *Detail) {
	d.DaysRemaining = DaysUntil(s.now(), d.DueDate)
}

// wrapLookup maps repository lookup failures onto entity-specific codes.
func wrapLookup(err error, entity string, id ulid.ULID) error {
	if errors.Is(err, ErrNotFound) {
		return oops.Code(entity + "_NOT_FOUND").
			With("id", id.String()).
			Wrap(err)
	}
	return oops.Code(entity + "_GET_FAILED").
		With("id", id.String()).
		Wrap(err)
}
