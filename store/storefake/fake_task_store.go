// Package storefake provides an in-memory TaskStore for tests. It mirrors
// the tenant-predicate semantics of the real store, including the
// not-found-on-foreign-tenant behavior.
package storefake

import (
	"context"
	"sort"
	"sync"

	"tasktracker-backend/apperrors"
	"tasktracker-backend/models"
)

type FakeTaskStore struct {
	mu     sync.Mutex
	nextID uint
	tasks  map[uint]models.Task

	// FailWith, when set, makes every call return that error. Used to
	// simulate an unreachable backend.
	FailWith error
}

func New() *FakeTaskStore {
	return &FakeTaskStore{nextID: 1, tasks: map[uint]models.Task{}}
}

func (f *FakeTaskStore) Create(_ context.Context, task *models.Task) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailWith != nil {
		return f.FailWith
	}

	task.Id = f.nextID
	f.nextID++
	f.tasks[task.Id] = *task
	return nil
}

func (f *FakeTaskStore) ListByTenant(_ context.Context, tenantID string) ([]models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailWith != nil {
		return nil, f.FailWith
	}

	out := []models.Task{}
	for _, t := range f.tasks {
		if t.TenantId == tenantID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Id < out[j].Id })
	return out, nil
}

func (f *FakeTaskStore) GetByID(_ context.Context, tenantID string, id uint) (*models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailWith != nil {
		return nil, f.FailWith
	}

	t, ok := f.tasks[id]
	if !ok || t.TenantId != tenantID {
		return nil, apperrors.ErrTaskNotFound
	}
	found := t
	return &found, nil
}

func (f *FakeTaskStore) Update(_ context.Context, task *models.Task) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailWith != nil {
		return f.FailWith
	}

	existing, ok := f.tasks[task.Id]
	if !ok || existing.TenantId != task.TenantId {
		return apperrors.ErrTaskNotFound
	}
	f.tasks[task.Id] = *task
	return nil
}

func (f *FakeTaskStore) Delete(_ context.Context, tenantID string, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailWith != nil {
		return f.FailWith
	}

	t, ok := f.tasks[id]
	if !ok || t.TenantId != tenantID {
		return apperrors.ErrTaskNotFound
	}
	delete(f.tasks, id)
	return nil
}
