// Package store is the persistence boundary for tasks. Every accessor takes
// the owning tenant id and applies it as a mandatory predicate, so a task
// belonging to another tenant is indistinguishable from one that does not
// exist.
package store

import (
	"context"

	"tasktracker-backend/models"
)

// TaskStore abstracts task persistence. Implementations must translate their
// backend's failures into apperrors.ErrTaskNotFound or
// apperrors.ErrStorageUnavailable before returning.
type TaskStore interface {
	Create(ctx context.Context, task *models.Task) error
	ListByTenant(ctx context.Context, tenantID string) ([]models.Task, error)
	GetByID(ctx context.Context, tenantID string, id uint) (*models.Task, error)
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, tenantID string, id uint) error
}
