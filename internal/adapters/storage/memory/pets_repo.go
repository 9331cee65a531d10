package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"pet-sync/internal/domain/pets"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("pet already exists")
	ErrMissingID = errors.New("pet id required")
)

// petRepo indexa por id y por owner; cada lista de owner se mantiene
// ordenada por (created_at, id), igual que el ORDER BY de Postgres.
type petRepo struct {
	mu      sync.RWMutex
	byID    map[string]pets.Pet
	byOwner map[string][]string
}

func NewPetRepo() pets.Repository {
	return &petRepo{
		byID:    make(map[string]pets.Pet),
		byOwner: make(map[string][]string),
	}
}

func (r *petRepo) Create(_ context.Context, p pets.Pet) error {
	if strings.TrimSpace(p.ID) == "" {
		return ErrMissingID
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[p.ID]; exists {
		return ErrDuplicate
	}
	r.byID[p.ID] = p

	ids := r.byOwner[p.OwnerUserID]
	i := sort.Search(len(ids), func(i int) bool { return r.less(p, r.byID[ids[i]]) })
	ids = append(ids, "")
	copy(ids[i+1:], ids[i:])
	ids[i] = p.ID
	r.byOwner[p.OwnerUserID] = ids
	return nil
}

func (r *petRepo) less(a, b pets.Pet) bool {
	if a.CreatedAt.Equal(b.CreatedAt) {
		return a.ID < b.ID
	}
	return a.CreatedAt.Before(b.CreatedAt)
}

func (r *petRepo) GetByID(_ context.Context, id string) (pets.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[strings.TrimSpace(id)]
	if !ok {
		return pets.Pet{}, ErrNotFound
	}
	return p, nil
}

func (r *petRepo) ListByOwner(_ context.Context, ownerUserID string) ([]pets.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.byOwner[strings.TrimSpace(ownerUserID)]
	out := make([]pets.Pet, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.byID[id])
	}
	return out, nil
}
