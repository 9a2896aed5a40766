// Package entries provides the PostgreSQL-backed entry repository. Every
// query is scoped to one user; rows of other users are invisible.
package entries

import (
	"context"

	"github.com/dmitrijs2005/gophdiary/internal/server/models"
)

type Repository interface {
	// List returns the user's entries, newest first.
	List(ctx context.Context, userID string) ([]models.Entry, error)
	// Create inserts entry and returns it with the stored created_at.
	Create(ctx context.Context, entry *models.Entry) (*models.Entry, error)
	// Delete removes the user's entry; common.ErrorNotFound when there is none.
	Delete(ctx context.Context, userID, id string) error
}
