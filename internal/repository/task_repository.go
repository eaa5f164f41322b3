package repository

import (
	"github.com/yukikurage/task-review-api/internal/database"
	"github.com/yukikurage/task-review-api/internal/models"
	"github.com/yukikurage/task-review-api/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task together with its initial assignment set
func (r *GormTaskRepository) Create(task *models.Task, assigneeIDs []uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(task).Error; err != nil {
			return err
		}
		return assignUsers(tx, task.ID, assigneeIDs)
	})
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db

	// Apply preloading if specified
	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// List retrieves tasks with filtering and pagination
func (r *GormTaskRepository) List(filter TaskFilter) ([]models.Task, int64, error) {
	var tasks []models.Task

	query := r.db.Model(&models.Task{})

	// Apply filters
	if filter.Status != nil {
		query = query.Where("tasks.status = ?", *filter.Status)
	}
	if filter.AssignedUserID != nil {
		query = query.Where("EXISTS (?)", r.assignmentExists(*filter.AssignedUserID))
	}
	if filter.VisibleToUserID != nil {
		anyAssignment := r.db.Model(&models.TaskAssignment{}).
			Select("1").
			Where("task_assignments.task_id = tasks.id")
		query = query.Where(
			r.db.Where("NOT EXISTS (?)", anyAssignment).
				Or("EXISTS (?)", r.assignmentExists(*filter.VisibleToUserID)),
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("tasks.created_at DESC").Order("tasks.id DESC")

	if filter.Page > 0 && filter.PageSize > 0 {
		listQuery = listQuery.Scopes(database.Paginate(utils.NewPaginationParams(filter.Page, filter.PageSize)))
	}

	if err := listQuery.Preload("Assignments").Find(&tasks).Error; err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

func (r *GormTaskRepository) assignmentExists(userID uint64) *gorm.DB {
	return r.db.Model(&models.TaskAssignment{}).
		Select("1").
		Where("task_assignments.task_id = tasks.id").
		Where("task_assignments.user_id = ?", userID)
}

// ApplyChange persists a task mutation and its audit entries atomically
func (r *GormTaskRepository) ApplyChange(change TaskChange) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return applyTaskChange(tx, change)
	})
}

// applyTaskChange writes change using tx, which must already be a transaction
func applyTaskChange(tx *gorm.DB, change TaskChange) error {
	if err := tx.Omit(clause.Associations).Save(change.Task).Error; err != nil {
		return err
	}

	if change.ReplaceAssignees {
		if err := tx.Where("task_id = ?", change.Task.ID).Delete(&models.TaskAssignment{}).Error; err != nil {
			return err
		}
		if err := assignUsers(tx, change.Task.ID, change.AssigneeIDs); err != nil {
			return err
		}
	}

	if len(change.History) == 0 {
		return nil
	}
	return NewTaskHistoryRepository(tx).Record(change.History...)
}

// Delete removes a task, its assignments, audit trail, submissions and comments
func (r *GormTaskRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		submissionIDs := tx.Model(&models.Submission{}).Select("id").Where("task_id = ?", id)
		if err := tx.Where("submission_id IN (?)", submissionIDs).Delete(&models.Comment{}).Error; err != nil {
			return err
		}

		if err := tx.Where("task_id = ?", id).Delete(&models.Submission{}).Error; err != nil {
			return err
		}

		if err := tx.Where("task_id = ?", id).Delete(&models.TaskHistory{}).Error; err != nil {
			return err
		}

		if err := tx.Where("task_id = ?", id).Delete(&models.TaskAssignment{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.Task{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// CountUsersByIDs counts how many of the given user IDs exist
func (r *GormTaskRepository) CountUsersByIDs(userIDs []uint64) (int64, error) {
	var count int64
	if len(userIDs) == 0 {
		return 0, nil
	}

	err := r.db.Model(&models.User{}).
		Where("id IN ?", userIDs).
		Count(&count).Error

	return count, err
}

// assignUsers adds users to a task's assignment set, ignoring existing members
func assignUsers(tx *gorm.DB, taskID uint64, userIDs []uint64) error {
	if len(userIDs) == 0 {
		return nil
	}

	assignments := make([]models.TaskAssignment, len(userIDs))
	for i, userID := range userIDs {
		assignments[i] = models.TaskAssignment{
			TaskID: taskID,
			UserID: userID,
		}
	}

	return tx.
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&assignments).Error
}
