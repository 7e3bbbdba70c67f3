// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Notisblokk Contributors

// Package alerts buckets pending notes by deadline urgency. It is a pure
// fold over already-computed note details; nothing here touches storage
// directly.
package alerts

import (
	"context"
	"fmt"
	"sort"

	"github.com/samber/oops"

	"github.com/notisblokk/notisblokk/internal/notes"
)

// Severity identifies an alert bucket, most urgent first.
type Severity string

// Alert severities.
const (
	SeverityCritical  Severity = "critical"  // overdue
	SeverityUrgent    Severity = "urgent"    // due today or tomorrow
	SeverityAttention Severity = "attention" // due in 2-3 days
	SeverityNotice    Severity = "notice"    // due in 4-5 days
)

// Alert is one urgency bucket with its presentation colors and the notes
// that fell into it.
type Alert struct {
	Severity  Severity        `json:"severity"`
	Color     string          `json:"color"`
	TextColor string          `json:"text_color"`
	Message   string          `json:"message"`
	Count     int             `json:"count"`
	Notes     []*notes.Detail `json:"notes"`
}

// NoteSource provides the note details the buckets are computed from.
type NoteSource interface {
	ListNotes(ctx context.Context) ([]*notes.Detail, error)
}

// Service generates deadline alerts.
type Service struct {
	source NoteSource
}

// NewService creates an alerts Service.
func NewService(source NoteSource) (*Service, error) {
	if source == nil {
		return nil, oops.Code("ALERTS_SERVICE_INVALID").Errorf("note source is required")
	}
	return &Service{source: source}, nil
}

// Generate returns the non-empty alert buckets, most urgent first.
// Notes in a terminal status (Resolved, Cancelled) are skipped.
func (s *Service) Generate(ctx context.Context) ([]*Alert, error) {
	all, err := s.source.ListNotes(ctx)
	if err != nil {
		return nil, oops.Code("ALERTS_GENERATE_FAILED").
			With("operation", "list notes").
			Wrap(err)
	}

	var pending []*notes.Detail
	for _, n := range all {
		if n.IsPending() {
			pending = append(pending, n)
		}
	}

	return Bucket(pending), nil
}

// Bucket folds pending notes into severity buckets. Exported separately
// from Generate so callers with notes already in hand (and tests) can use
// it directly.
func Bucket(pending []*notes.Detail) []*Alert {
	overdue := filter(pending, func(d int) bool { return d < 0 })
	urgent := filter(pending, func(d int) bool { return d >= 0 && d <= 1 })
	attention := filter(pending, func(d int) bool { return d >= 2 && d <= 3 })
	notice := filter(pending, func(d int) bool { return d >= 4 && d <= 5 })

	// Overdue notes sort most-overdue first; the rest by due date.
	sort.SliceStable(overdue, func(i, j int) bool {
		return overdue[i].DaysRemaining < overdue[j].DaysRemaining
	})
	byDueDate(urgent)
	byDueDate(attention)
	byDueDate(notice)

	var result []*Alert
	if len(overdue) > 0 {
		result = append(result, &Alert{
			Severity:  SeverityCritical,
			Color:     "#000000",
			TextColor: "#DC2626",
			Message:   fmt.Sprintf("CRITICAL: %d note(s) overdue", len(overdue)),
			Count:     len(overdue),
			Notes:     overdue,
		})
	}
	if len(urgent) > 0 {
		result = append(result, &Alert{
			Severity:  SeverityUrgent,
			Color:     "#DC2626",
			TextColor: "#FFFFFF",
			Message:   fmt.Sprintf("URGENT: %d note(s) due today or tomorrow", len(urgent)),
			Count:     len(urgent),
			Notes:     urgent,
		})
	}
	if len(attention) > 0 {
		result = append(result, &Alert{
			Severity:  SeverityAttention,
			Color:     "#EA580C",
			TextColor: "#FFFFFF",
			Message:   fmt.Sprintf("ATTENTION: %d note(s) due in 2-3 days", len(attention)),
			Count:     len(attention),
			Notes:     attention,
		})
	}
	if len(notice) > 0 {
		result = append(result, &Alert{
			Severity:  SeverityNotice,
			Color:     "#FBBF24",
			TextColor: "#000000",
			Message:   fmt.Sprintf("NOTICE: %d note(s) due in 4-5 days", len(notice)),
			Count:     len(notice),
			Notes:     notice,
		})
	}
	return result
}

func filter(details []*notes.Detail, keep func(daysRemaining int) bool) []*notes.Detail {
	var out []*notes.Detail
	for _, d := range details {
		if keep(d.DaysRemaining) {
			out = append(out, d)
		}
	}
	return out
}

func byDueDate(details []*notes.Detail) {
	sort.SliceStable(details, func(i, j int) bool {
		return details[i].DueDate.Before(details[j].DueDate)
	})
}
