// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Notisblokk Contributors

package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"

	"github.com/notisblokk/notisblokk/internal/notes"
)

// dueDateLayout is the wire format for note due dates.
const dueDateLayout = "2006-01-02"

// NotesHandler serves tag, status and note endpoints.
type NotesHandler struct {
	service *notes.Service
}

// NewNotesHandler creates a NotesHandler.
func NewNotesHandler(service *notes.Service) *NotesHandler {
	return &NotesHandler{service: service}
}

type tagRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreateTag creates a tag.
func (h *NotesHandler) CreateTag(c *gin.Context) {
	var req tagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "name is required")
		return
	}

	tag, err := h.service.CreateTag(c.Request.Context(), req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusCreated, tag)
}

// ListTags returns all tags.
func (h *NotesHandler) ListTags(c *gin.Context) {
	tags, err := h.service.ListTags(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, tags)
}

// GetTag returns one tag.
func (h *NotesHandler) GetTag(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	tag, err := h.service.GetTag(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, tag)
}

// RenameTag renames a tag.
func (h *NotesHandler) RenameTag(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req tagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "name is required")
		return
	}

	tag, err := h.service.RenameTag(c.Request.Context(), id, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, tag)
}

// DeleteTag deletes a tag and, by cascade, its notes.
func (h *NotesHandler) DeleteTag(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteTag(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "tag deleted")
}

type statusRequest struct {
	Name     string `json:"name" binding:"required"`
	ColorHex string `json:"color_hex" binding:"required"`
}

// CreateStatus creates a status.
func (h *NotesHandler) CreateStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "name and color_hex are required")
		return
	}

	status, err := h.service.CreateStatus(c.Request.Context(), req.Name, req.ColorHex)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusCreated, status)
}

// ListStatuses returns all statuses.
func (h *NotesHandler) ListStatuses(c *gin.Context) {
	statuses, err := h.service.ListStatuses(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, statuses)
}

// GetStatus returns one status.
func (h *NotesHandler) GetStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	status, err := h.service.GetStatus(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, status)
}

// UpdateStatus updates a status name and color.
func (h *NotesHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "name and color_hex are required")
		return
	}

	status, err := h.service.UpdateStatus(c.Request.Context(), id, req.Name, req.ColorHex)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, status)
}

// DeleteStatus deletes a status. Statuses still referenced by notes are
// rejected with a conflict.
func (h *NotesHandler) DeleteStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteStatus(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "status deleted")
}

type noteRequest struct {
	TagID    string `json:"tag_id" binding:"required"`
	StatusID string `json:"status_id" binding:"required"`
	Title    string `json:"title" binding:"required"`
	Body     string `json:"body"`
	DueDate  string `json:"due_date" binding:"required"`
}

// parsedNote is a noteRequest with IDs and the due date decoded.
type parsedNote struct {
	TagID    ulid.ULID
	StatusID ulid.ULID
	Title    string
	Body     string
	DueDate  time.Time
}

func (r *noteRequest) parse(c *gin.Context) (parsedNote, bool) {
	var in parsedNote

	tagID, err := ulid.Parse(r.TagID)
	if err != nil {
		respondBadRequest(c, "invalid tag_id")
		return in, false
	}
	statusID, err := ulid.Parse(r.StatusID)
	if err != nil {
		respondBadRequest(c, "invalid status_id")
		return in, false
	}
	dueDate, err := time.Parse(dueDateLayout, r.DueDate)
	if err != nil {
		respondBadRequest(c, "due_date must be YYYY-MM-DD")
		return in, false
	}

	in.TagID = tagID
	in.StatusID = statusID
	in.Title = r.Title
	in.Body = r.Body
	in.DueDate = dueDate
	return in, true
}

// CreateNote creates a note.
func (h *NotesHandler) CreateNote(c *gin.Context) {
	var req noteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "tag_id, status_id, title and due_date are required")
		return
	}

	in, ok := req.parse(c)
	if !ok {
		return
	}

	detail, err := h.service.CreateNote(c.Request.Context(), in.TagID, in.StatusID, in.Title, in.Body, in.DueDate)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusCreated, detail)
}

// ListNotes returns all notes with their tag and status resolved.
func (h *NotesHandler) ListNotes(c *gin.Context) {
	details, err := h.service.ListNotes(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, details)
}

// ListNotesByTag returns all notes under one tag.
func (h *NotesHandler) ListNotesByTag(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	details, err := h.service.ListNotesByTag(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, details)
}

// GetNote returns one note.
func (h *NotesHandler) GetNote(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	detail, err := h.service.GetNote(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, detail)
}

// UpdateNote updates a note's fields.
func (h *NotesHandler) UpdateNote(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req noteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "tag_id, status_id, title and due_date are required")
		return
	}

	in, ok := req.parse(c)
	if !ok {
		return
	}

	detail, err := h.service.UpdateNote(c.Request.Context(), id, in.TagID, in.StatusID, in.Title, in.Body, in.DueDate)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, detail)
}

// DeleteNote deletes a note.
func (h *NotesHandler) DeleteNote(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteNote(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "note deleted")
}
