package repository

import (
	"github.com/yukikurage/task-review-api/internal/database"
	"github.com/yukikurage/task-review-api/internal/models"
	"github.com/yukikurage/task-review-api/internal/utils"
	"gorm.io/gorm"
)

// GormSubmissionRepository is a GORM implementation of SubmissionRepository
type GormSubmissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository creates a new SubmissionRepository
func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &GormSubmissionRepository{db: db}
}

// Create creates a new submission
func (r *GormSubmissionRepository) Create(submission *models.Submission) error {
	return r.db.Omit("User").Create(submission).Error
}

// FindByID finds a submission by ID
func (r *GormSubmissionRepository) FindByID(id uint64) (*models.Submission, error) {
	var submission models.Submission
	if err := r.db.First(&submission, id).Error; err != nil {
		return nil, err
	}
	return &submission, nil
}

// List retrieves submissions with filtering and pagination, newest first
func (r *GormSubmissionRepository) List(filter SubmissionFilter) ([]models.Submission, int64, error) {
	var submissions []models.Submission

	query := r.db.Model(&models.Submission{})
	if filter.TaskID != nil {
		query = query.Where("task_id = ?", *filter.TaskID)
	}
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("submission_time DESC").Order("id DESC")
	if filter.Page > 0 && filter.PageSize > 0 {
		listQuery = listQuery.Scopes(database.Paginate(utils.NewPaginationParams(filter.Page, filter.PageSize)))
	}

	if err := listQuery.Find(&submissions).Error; err != nil {
		return nil, 0, err
	}

	return submissions, total, nil
}

// HasStatus reports whether the user holds a submission with the given status on the task
func (r *GormSubmissionRepository) HasStatus(taskID, userID uint64, status models.SubmissionStatus) (bool, error) {
	var count int64
	err := r.db.Model(&models.Submission{}).
		Where("task_id = ? AND user_id = ? AND status = ?", taskID, userID, status).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpdateStatus sets the review status of a submission. A non-nil taskChange
// is applied in the same transaction, so neither write lands without the other.
func (r *GormSubmissionRepository) UpdateStatus(id uint64, status models.SubmissionStatus, taskChange *TaskChange) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Submission{}).
			Where("id = ?", id).
			Update("status", status)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		if taskChange == nil {
			return nil
		}
		return applyTaskChange(tx, *taskChange)
	})
}
