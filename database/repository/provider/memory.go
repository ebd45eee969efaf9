package providerRepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"frontdesk/models"
)

// MemoryProviderRepo is an in-process ProviderRepository used by tests and
// the memory store driver.
type MemoryProviderRepo struct {
	mu        sync.RWMutex
	providers map[string]models.Provider
}

func NewMemoryProviderRepo() *MemoryProviderRepo {
	return &MemoryProviderRepo{providers: make(map[string]models.Provider)}
}

func (r *MemoryProviderRepo) Create(_ context.Context, p *models.Provider) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	r.providers[p.ID] = *p
	return nil
}

func (r *MemoryProviderRepo) Update(_ context.Context, p *models.Provider) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.providers[p.ID]; !ok {
		return ErrProviderNotFound
	}
	p.UpdatedAt = time.Now()
	r.providers[p.ID] = *p
	return nil
}

func (r *MemoryProviderRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.providers[id]; !ok {
		return ErrProviderNotFound
	}
	delete(r.providers, id)
	return nil
}

func (r *MemoryProviderRepo) GetByID(_ context.Context, id string) (*models.Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.providers[id]
	if !ok {
		return nil, ErrProviderNotFound
	}
	cp := p
	return &cp, nil
}

func (r *MemoryProviderRepo) GetAll(_ context.Context) ([]models.Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Provider, 0, len(r.providers))
	for _, p := range r.providers {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
