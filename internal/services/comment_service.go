package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/task-review-api/internal/models"
	"github.com/yukikurage/task-review-api/internal/repository"
	"gorm.io/gorm"
)

// CommentService manages the append-only comment thread on submissions.
type CommentService struct {
	commentRepo    repository.CommentRepository
	submissionRepo repository.SubmissionRepository
}

// NewCommentService creates a new CommentService.
func NewCommentService(commentRepo repository.CommentRepository, submissionRepo repository.SubmissionRepository) *CommentService {
	return &CommentService{
		commentRepo:    commentRepo,
		submissionRepo: submissionRepo,
	}
}

// AddComment appends a comment to a submission's thread
func (s *CommentService) AddComment(actor *models.User, submissionID uint64, text string) (*models.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrCommentEmpty
	}

	if err := s.authorize(actor, submissionID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		SubmissionID: submissionID,
		UserID:       actor.ID,
		Comment:      text,
	}
	if err := s.commentRepo.Create(comment); err != nil {
		return nil, fmt.Errorf("failed to add comment: %w", err)
	}

	return comment, nil
}

// ListComments returns a submission's comments oldest first
func (s *CommentService) ListComments(actor *models.User, submissionID uint64) ([]models.Comment, error) {
	if err := s.authorize(actor, submissionID); err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.ListBySubmission(submissionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	return comments, nil
}

func (s *CommentService) authorize(actor *models.User, submissionID uint64) error {
	submission, err := s.submissionRepo.FindByID(submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSubmissionNotFound
		}
		return fmt.Errorf("failed to find submission: %w", err)
	}

	return canAccessSubmission(actor, submission)
}
