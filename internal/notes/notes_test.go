// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Notisblokk Contributors

package notes_test

import (
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notisblokk/notisblokk/internal/notes"
	"github.com/notisblokk/notisblokk/pkg/errutil"
)

func TestNewTag(t *testing.T) {
	t.Run("valid name", func(t *testing.T) {
		tag, err := notes.NewTag("Work")
		require.NoError(t, err)
		assert.Equal(t, "Work", tag.Name)
		assert.NotEqual(t, ulid.ULID{}, tag.ID)
		assert.False(t, tag.CreatedAt.IsZero())
	})

	t.Run("blank name rejected", func(t *testing.T) {
		_, err := notes.NewTag("   ")
		errutil.AssertErrorCode(t, err, "TAG_INVALID_NAME")
	})
}

func TestNewStatus(t *testing.T) {
	tests := []struct {
		name     string
		status   string
		color    string
		wantCode string
	}{
		{name: "valid", status: "Pending", color: "#FFA500"},
		{name: "blank name", status: "  ", color: "#FFA500", wantCode: "STATUS_INVALID_NAME"},
		{name: "missing hash prefix", status: "Pending", color: "FFA500", wantCode: "STATUS_INVALID_COLOR"},
		{name: "short hex", status: "Pending", color: "#FFF", wantCode: "STATUS_INVALID_COLOR"},
		{name: "empty color", status: "Pending", color: "", wantCode: "STATUS_INVALID_COLOR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, err := notes.NewStatus(tt.status, tt.color)
			if tt.wantCode != "" {
				errutil.AssertErrorCode(t, err, tt.wantCode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.status, status.Name)
			assert.Equal(t, tt.color, status.ColorHex)
		})
	}
}

func TestStatusIsTerminal(t *testing.T) {
	tests := []struct {
		name     string
		terminal bool
	}{
		{name: "Resolved", terminal: true},
		{name: "resolved", terminal: true},
		{name: "RESOLVED", terminal: true},
		{name: "Cancelled", terminal: true},
		{name: "cancelled", terminal: true},
		{name: "Pending", terminal: false},
		{name: "In Progress", terminal: false},
		{name: "Suspended", terminal: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status := &notes.Status{Name: tt.name}
			assert.Equal(t, tt.terminal, status.IsTerminal())
		})
	}
}

func TestNewNote(t *testing.T) {
	tagID := ulid.Make()
	statusID := ulid.Make()
	due := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)

	t.Run("valid", func(t *testing.T) {
		note, err := notes.NewNote(tagID, statusID, "Renew certificate", "wildcard cert", due)
		require.NoError(t, err)
		assert.Equal(t, tagID, note.TagID)
		assert.Equal(t, statusID, note.StatusID)
		assert.True(t, note.DueDate.Equal(due))
		assert.Equal(t, note.CreatedAt, note.UpdatedAt)
	})

	t.Run("empty body allowed", func(t *testing.T) {
		_, err := notes.NewNote(tagID, statusID, "Renew certificate", "", due)
		assert.NoError(t, err)
	})

	t.Run("zero tag rejected", func(t *testing.T) {
		_, err := notes.NewNote(ulid.ULID{}, statusID, "t", "b", due)
		errutil.AssertErrorCode(t, err, "NOTE_INVALID_TAG")
	})

	t.Run("zero status rejected", func(t *testing.T) {
		_, err := notes.NewNote(tagID, ulid.ULID{}, "t", "b", due)
		errutil.AssertErrorCode(t, err, "NOTE_INVALID_STATUS")
	})

	t.Run("blank title rejected", func(t *testing.T) {
		_, err := notes.NewNote(tagID, statusID, "  ", "b", due)
		errutil.AssertErrorCode(t, err, "NOTE_INVALID_TITLE")
	})

	t.Run("zero due date rejected", func(t *testing.T) {
		_, err := notes.NewNote(tagID, statusID, "t", "b", time.Time{})
		errutil.AssertErrorCode(t, err, "NOTE_INVALID_DUE_DATE")
	})
}

func TestDetailIsPending(t *testing.T) {
	pending := &notes.Detail{StatusName: "In Progress"}
	assert.True(t, pending.IsPending())

	resolved := &notes.Detail{StatusName: "resolved"}
	assert.False(t, resolved.IsPending())

	cancelled := &notes.Detail{StatusName: "CANCELLED"}
	assert.False(t, cancelled.IsPending())
}

func TestDaysUntil(t *testing.T) {
	tests := []struct {
		name  string
		today time.Time
		due   time.Time
		want  int
	}{
		{
			name:  "same day",
			today: time.Date(2026, 9, 1, 9, 30, 0, 0, time.UTC),
			due:   time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
			want:  0,
		},
		{
			name:  "tomorrow",
			today: time.Date(2026, 9, 1, 23, 59, 0, 0, time.UTC),
			due:   time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC),
			want:  1,
		},
		{
			name:  "overdue yesterday",
			today: time.Date(2026, 9, 1, 0, 1, 0, 0, time.UTC),
			due:   time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
			want:  -1,
		},
		{
			name:  "five days out",
			today: time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC),
			due:   time.Date(2026, 9, 6, 18, 45, 0, 0, time.UTC),
			want:  5,
		},
		{
			name:  "across month boundary",
			today: time.Date(2026, 8, 30, 8, 0, 0, 0, time.UTC),
			due:   time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC),
			want:  3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, notes.DaysUntil(tt.today, tt.due))
		})
	}
}
