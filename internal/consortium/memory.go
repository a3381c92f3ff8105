package consortium

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/consorcia/consorcia/internal/shared"
)

// MemoryRepository keeps aggregates in process memory. It is the offline
// configuration of the core: every read hands out a deep copy and Save
// applies the same optimistic version check as the Postgres store.
type MemoryRepository struct {
	mu        sync.RWMutex
	buildings map[uuid.UUID]*Building
	now       func() time.Time
}

// NewMemoryRepository constructs an empty in-memory store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		buildings: make(map[uuid.UUID]*Building),
		now:       time.Now,
	}
}

// Create stores a new aggregate at version 1.
func (r *MemoryRepository) Create(ctx context.Context, b *Building) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.buildings[b.ID]; ok {
		return shared.ErrConflict
	}
	b.Version = 1
	b.CreatedAt = r.now()
	b.UpdatedAt = b.CreatedAt
	r.buildings[b.ID] = b.Clone()
	return nil
}

// Load returns a deep copy of the aggregate.
func (r *MemoryRepository) Load(ctx context.Context, id uuid.UUID) (*Building, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.buildings[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return b.Clone(), nil
}

// Save replaces the aggregate after checking the version has not moved.
func (r *MemoryRepository) Save(ctx context.Context, b *Building) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.buildings[b.ID]
	if !ok {
		return shared.ErrNotFound
	}
	if current.Version != b.Version {
		return shared.ErrVersionConflict
	}
	b.Version++
	b.UpdatedAt = r.now()
	r.buildings[b.ID] = b.Clone()
	return nil
}

// Delete removes the aggregate from the live store. Archived liquidations
// disappear with it; this mirrors deleting the whole consortium.
func (r *MemoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.buildings[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.buildings, id)
	return nil
}

// List returns copies of all aggregates ordered by name.
func (r *MemoryRepository) List(ctx context.Context) ([]Building, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Building, 0, len(r.buildings))
	for _, b := range r.buildings {
		out = append(out, *b.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
