// Package models defines the client-side data types: diary entries as the
// Remote Entry Store returns them and the authenticated session.
package models

import "time"

// Entry is a persisted diary entry. Entries are immutable; they are only
// created and deleted.
type Entry struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// NewEntry is the body of a create call. CreatedAt is optional and, when set,
// asks the store to use that date (YYYY-MM-DD or RFC 3339) instead of now.
type NewEntry struct {
	Content   string `json:"content"`
	CreatedAt string `json:"created_at,omitempty"`
}
