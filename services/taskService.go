package services

import (
	"context"
	"time"
	"unicode/utf8"

	"tasktracker-backend/apperrors"
	"tasktracker-backend/models"
	"tasktracker-backend/store"
	"tasktracker-backend/utils"
)

const (
	titleMaxLen       = 200
	descriptionMaxLen = 1000
)

// TaskPatch is a presence-aware partial update. A field left unset is not
// touched; title/completed set to null are rejected, description set to null
// or empty is cleared.
type TaskPatch struct {
	Title       utils.Optional[string]
	Description utils.Optional[string]
	Completed   utils.Optional[bool]
}

// TaskService applies validation and mutation rules on top of a TaskStore.
// The tenant id comes from the verified token, always as the first argument,
// never from client-supplied data.
type TaskService struct {
	store store.TaskStore
	now   func() time.Time
}

func NewTaskService(st store.TaskStore) *TaskService {
	return &TaskService{store: st, now: time.Now}
}

func (s *TaskService) Create(ctx context.Context, tenantID, title string, description *string) (*models.Task, error) {
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	if description != nil {
		if err := validateDescription(*description); err != nil {
			return nil, err
		}
	}

	now := s.now().UTC()
	task := &models.Task{
		TenantId:    tenantID,
		Title:       title,
		Description: description,
		Completed:   false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.Create(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// List returns the tenant's tasks ordered by id ascending.
func (s *TaskService) List(ctx context.Context, tenantID string) ([]models.Task, error) {
	return s.store.ListByTenant(ctx, tenantID)
}

func (s *TaskService) Get(ctx context.Context, tenantID string, id uint) (*models.Task, error) {
	return s.store.GetByID(ctx, tenantID, id)
}

// Update applies the supplied fields only. Validation runs before the task is
// even loaded so an invalid patch never causes a partial write.
func (s *TaskService) Update(ctx context.Context, tenantID string, id uint, patch TaskPatch) (*models.Task, error) {
	if err := validatePatch(patch); err != nil {
		return nil, err
	}

	task, err := s.store.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if patch.Title.Set {
		task.Title = patch.Title.Value
	}
	if patch.Description.Set {
		if !patch.Description.Valid || patch.Description.Value == "" {
			task.Description = nil
		} else {
			v := patch.Description.Value
			task.Description = &v
		}
	}
	if patch.Completed.Set {
		task.Completed = patch.Completed.Value
	}
	task.UpdatedAt = s.touch(task.UpdatedAt)

	if err := s.store.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, tenantID string, id uint) error {
	return s.store.Delete(ctx, tenantID, id)
}

func (s *TaskService) ToggleComplete(ctx context.Context, tenantID string, id uint) (*models.Task, error) {
	task, err := s.store.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	task.Completed = !task.Completed
	task.UpdatedAt = s.touch(task.UpdatedAt)

	if err := s.store.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// touch returns a timestamp strictly after prev so updated_at never stalls or
// moves backward, even when mutations land within clock resolution.
func (s *TaskService) touch(prev time.Time) time.Time {
	ts := s.now().UTC()
	if !ts.After(prev) {
		ts = prev.Add(time.Millisecond)
	}
	return ts
}

func validatePatch(patch TaskPatch) error {
	if patch.Title.Set {
		if !patch.Title.Valid {
			return apperrors.NewValidationError("title", "must not be null")
		}
		if err := validateTitle(patch.Title.Value); err != nil {
			return err
		}
	}
	if patch.Description.Set && patch.Description.Valid {
		if err := validateDescription(patch.Description.Value); err != nil {
			return err
		}
	}
	if patch.Completed.Set && !patch.Completed.Valid {
		return apperrors.NewValidationError("completed", "must not be null")
	}
	return nil
}

func validateTitle(title string) error {
	if title == "" {
		return apperrors.NewValidationError("title", "must not be empty")
	}
	if utf8.RuneCountInString(title) > titleMaxLen {
		return apperrors.NewValidationError("title", "must be at most 200 characters")
	}
	return nil
}

func validateDescription(description string) error {
	if utf8.RuneCountInString(description) > descriptionMaxLen {
		return apperrors.NewValidationError("description", "must be at most 1000 characters")
	}
	return nil
}
