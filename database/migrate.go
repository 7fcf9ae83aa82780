package database

import (
	"fmt"

	"gorm.io/gorm"

	"tasktracker-backend/models"
)

// AutoMigrate applies (idempotent) schema migrations:
// - AutoMigrate for the tasks table (columns + tenant_id index from tags)
// - CHECK constraints enforcing the title/description bounds at the database
//   level, so no code path can persist an out-of-range record
func AutoMigrate(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.AutoMigrate(&models.Task{}); err != nil {
			return fmt.Errorf("automigrate failed: %w", err)
		}

		checks := []string{
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'tasks'::regclass
					  AND conname  = 'chk_tasks_title_length'
				) THEN
					ALTER TABLE tasks
					ADD CONSTRAINT chk_tasks_title_length
					CHECK (char_length(title) BETWEEN 1 AND 200);
				END IF;
			END $$;`,
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'tasks'::regclass
					  AND conname  = 'chk_tasks_description_length'
				) THEN
					ALTER TABLE tasks
					ADD CONSTRAINT chk_tasks_description_length
					CHECK (description IS NULL OR char_length(description) <= 1000);
				END IF;
			END $$;`,
		}
		for _, stmt := range checks {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("check constraint migration failed: %w", err)
			}
		}

		return nil
	})
}
