package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"tasktracker-backend/apperrors"
	"tasktracker-backend/models"
)

// GormTaskStore persists tasks in Postgres through an injected *gorm.DB.
// Every operation runs under a per-call timeout; waiting on an exhausted
// connection pool counts against it, which is the backpressure path.
type GormTaskStore struct {
	db      *gorm.DB
	timeout time.Duration
}

func NewGormTaskStore(db *gorm.DB, timeout time.Duration) *GormTaskStore {
	return &GormTaskStore{db: db, timeout: timeout}
}

func (s *GormTaskStore) Create(ctx context.Context, task *models.Task) error {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	if err := s.db.WithContext(ctx).Create(task).Error; err != nil {
		return storageErr(err)
	}
	return nil
}

func (s *GormTaskStore) ListByTenant(ctx context.Context, tenantID string) ([]models.Task, error) {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	tasks := []models.Task{}
	err := s.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("id ASC").
		Find(&tasks).Error
	if err != nil {
		return nil, storageErr(err)
	}
	return tasks, nil
}

func (s *GormTaskStore) GetByID(ctx context.Context, tenantID string, id uint) (*models.Task, error) {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	var task models.Task
	err := s.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		First(&task).Error
	if err != nil {
		return nil, storageErr(err)
	}
	return &task, nil
}

// Update writes the full mutable column set in a single UPDATE guarded by the
// tenant predicate. Zero rows affected means absent or foreign-owned; both
// report not found. Concurrent updates to the same row are last-write-wins.
func (s *GormTaskStore) Update(ctx context.Context, task *models.Task) error {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	res := s.db.WithContext(ctx).
		Model(&models.Task{}).
		Where("id = ? AND tenant_id = ?", task.Id, task.TenantId).
		Select("title", "description", "completed", "updated_at").
		Updates(task)
	if res.Error != nil {
		return storageErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrTaskNotFound
	}
	return nil
}

func (s *GormTaskStore) Delete(ctx context.Context, tenantID string, id uint) error {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	res := s.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		Delete(&models.Task{})
	if res.Error != nil {
		return storageErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrTaskNotFound
	}
	return nil
}

func (s *GormTaskStore) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

// storageErr maps gorm failures onto the shared taxonomy. Anything that is
// not a missing record (driver faults, pool wait timeouts, cancelled
// contexts) becomes ErrStorageUnavailable; the original detail stays in the
// wrapped message for logs and never reaches clients.
func storageErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.ErrTaskNotFound
	}
	return fmt.Errorf("%w: %v", apperrors.ErrStorageUnavailable, err)
}
