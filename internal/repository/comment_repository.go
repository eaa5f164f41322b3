package repository

import (
	"github.com/yukikurage/task-review-api/internal/models"
	"gorm.io/gorm"
)

// GormCommentRepository is a GORM implementation of CommentRepository
type GormCommentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &GormCommentRepository{db: db}
}

// Create appends a comment
func (r *GormCommentRepository) Create(comment *models.Comment) error {
	return r.db.Create(comment).Error
}

// ListBySubmission returns a submission's comments oldest first
func (r *GormCommentRepository) ListBySubmission(submissionID uint64) ([]models.Comment, error) {
	var comments []models.Comment
	if err := r.db.Where("submission_id = ?", submissionID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}
