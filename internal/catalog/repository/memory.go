package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	catalogerrors "cleanbook/internal/catalog/errors"
	"cleanbook/pkg/model"
)

// MemoryServiceRepository is an in-process catalog for tests and local runs.
type MemoryServiceRepository struct {
	mu       sync.RWMutex
	services map[string]model.Service

	// Err, when set, is returned by every call.
	Err error
}

func NewMemoryServiceRepository(services ...model.Service) *MemoryServiceRepository {
	m := &MemoryServiceRepository{services: make(map[string]model.Service)}
	for _, s := range services {
		m.services[s.ID] = s
	}
	return m
}

func (m *MemoryServiceRepository) FindActive(_ context.Context) ([]*model.Service, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}

	out := []*model.Service{}
	for _, s := range m.services {
		if s.Active {
			cp := s
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DisplayOrder != out[j].DisplayOrder {
			return out[i].DisplayOrder < out[j].DisplayOrder
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (m *MemoryServiceRepository) FindByID(_ context.Context, id string) (*model.Service, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}
	s, ok := m.services[id]
	if !ok {
		return nil, catalogerrors.ErrNotFound
	}
	return &s, nil
}

func (m *MemoryServiceRepository) FindBySlug(_ context.Context, slug string) (*model.Service, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}
	for _, s := range m.services {
		if s.Slug == slug {
			cp := s
			return &cp, nil
		}
	}
	return nil, catalogerrors.ErrNotFound
}

func (m *MemoryServiceRepository) Upsert(_ context.Context, svc *model.Service) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	for id, s := range m.services {
		if id != svc.ID && s.Slug == svc.Slug {
			return catalogerrors.ErrDuplicateSlug
		}
	}
	svc.UpdatedAt = time.Now().UTC()
	m.services[svc.ID] = *svc
	return nil
}

var _ ServiceRepository = (*MemoryServiceRepository)(nil)
