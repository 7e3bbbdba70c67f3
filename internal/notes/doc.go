// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Notisblokk Contributors

// Package notes provides the deadline-tracking domain: tags, note
// statuses, and notes with a due date. Notes reference a tag (deleting
// the tag cascades) and a status (statuses in use cannot be deleted).
package notes
