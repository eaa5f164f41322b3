package database

import (
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/yukikurage/task-review-api/internal/models"
)

// AddIndexes adds the composite indexes the list queries rely on
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		model   interface{}
		table   string
		name    string
		columns string
	}{
		// Task filtering and paging
		{&models.Task{}, "tasks", "idx_tasks_status_created_at", "status, created_at"},

		// Eligibility lookups: one user's submissions on one task
		{&models.Submission{}, "submissions", "idx_submissions_task_user", "task_id, user_id"},

		// Reverse lookup for "assigned to me"
		{&models.TaskAssignment{}, "task_assignments", "idx_task_assignments_user_id", "user_id"},

		// Audit trail ordering
		{&models.TaskHistory{}, "task_histories", "idx_task_histories_task_changed", "task_id, changed_at"},
	}

	for _, idx := range indexes {
		if db.Migrator().HasIndex(idx.model, idx.name) {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.Printf("Created index %s on %s(%s)", idx.name, idx.table, idx.columns)
	}

	return nil
}
