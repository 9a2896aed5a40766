package entries

import (
	"slices"
	"sync"

	"github.com/dmitrijs2005/gophdiary/internal/client/models"
)

// MemoryRepository implements Repository. It is safe for concurrent use.
type MemoryRepository struct {
	mu      sync.RWMutex
	items   []models.Entry
	started uint64
	applied uint64
}

// NewMemoryRepository returns an empty cache.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) Begin() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.started++
	return r.started
}

func (r *MemoryRepository) Commit(gen uint64, items []models.Entry) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if gen <= r.applied || gen > r.started {
		return false
	}
	r.items = slices.Clone(items)
	r.applied = gen
	return true
}

func (r *MemoryRepository) GetAll() []models.Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.items == nil {
		return []models.Entry{}
	}
	return slices.Clone(r.items)
}

func (r *MemoryRepository) GetByID(id string) (models.Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i := slices.IndexFunc(r.items, func(e models.Entry) bool { return e.ID == id })
	if i < 0 {
		return models.Entry{}, false
	}
	return r.items[i], true
}

func (r *MemoryRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = nil
	r.applied = r.started
}
