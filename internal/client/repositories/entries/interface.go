package entries

import (
	"github.com/dmitrijs2005/gophdiary/internal/client/models"
)

// Repository is the local entry cache.
type Repository interface {
	// Begin reserves the generation of a fetch that is about to start.
	Begin() uint64

	// Commit replaces the cached list with items fetched under gen. It
	// reports false, and changes nothing, when a newer list is already held.
	Commit(gen uint64, items []models.Entry) bool

	// GetAll returns a copy of the cached list in store order.
	GetAll() []models.Entry

	// GetByID looks an entry up in the cached list.
	GetByID(id string) (models.Entry, bool)

	// Clear empties the cache and discards fetches still in flight.
	Clear()
}
