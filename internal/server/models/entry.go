// Package models defines the entry server's persisted types.
package models

import "time"

// Entry is a diary entry owned by one user.
type Entry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
