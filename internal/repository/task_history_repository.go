package repository

import (
	"github.com/yukikurage/task-review-api/internal/models"
	"gorm.io/gorm"
)

// GormTaskHistoryRepository is a GORM implementation of TaskHistoryRepository
type GormTaskHistoryRepository struct {
	db *gorm.DB
}

// NewTaskHistoryRepository creates a new TaskHistoryRepository
func NewTaskHistoryRepository(db *gorm.DB) TaskHistoryRepository {
	return &GormTaskHistoryRepository{db: db}
}

// Record appends audit entries
func (r *GormTaskHistoryRepository) Record(entries ...models.TaskHistory) error {
	if len(entries) == 0 {
		return nil
	}
	return r.db.Create(&entries).Error
}

// ListByTask returns a task's audit entries oldest first
func (r *GormTaskHistoryRepository) ListByTask(taskID uint64) ([]models.TaskHistory, error) {
	var entries []models.TaskHistory
	if err := r.db.Where("task_id = ?", taskID).
		Order("changed_at ASC").
		Order("id ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
