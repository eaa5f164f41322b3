package services

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/yukikurage/task-review-api/internal/models"
	"github.com/yukikurage/task-review-api/internal/repository"
	"github.com/yukikurage/task-review-api/internal/visibility"
	"gorm.io/gorm"
)

// SubmissionService handles work submissions and their review.
// Accepting a submission completes the task in the same transaction.
type SubmissionService struct {
	submissionRepo repository.SubmissionRepository
	tasks          *TaskService
	now            func() time.Time
}

// NewSubmissionService creates a new SubmissionService.
func NewSubmissionService(submissionRepo repository.SubmissionRepository, tasks *TaskService) *SubmissionService {
	return &SubmissionService{
		submissionRepo: submissionRepo,
		tasks:          tasks,
		now:            time.Now,
	}
}

// SubmitInput represents a worker's submission
type SubmitInput struct {
	TaskID     uint64
	GitHubLink string
}

// ListSubmissionsInput represents pagination for submission lists
type ListSubmissionsInput struct {
	Page     int
	PageSize int
}

// Submit records a new PENDING submission. Earlier submissions are kept.
func (s *SubmissionService) Submit(actor *models.User, input SubmitInput) (*models.Submission, error) {
	if err := requireWorker(actor); err != nil {
		return nil, err
	}

	link, err := validateLink(input.GitHubLink)
	if err != nil {
		return nil, err
	}

	task, err := s.tasks.findTask(input.TaskID)
	if err != nil {
		return nil, err
	}

	if task.Status != models.TaskStatusAssigned {
		return nil, ErrTaskNotAssigned
	}
	if !visibility.Visible(*task, actor.ID, actor.Role) {
		return nil, ErrTaskNotVisible
	}

	accepted, err := s.submissionRepo.HasStatus(task.ID, actor.ID, models.SubmissionStatusAccepted)
	if err != nil {
		return nil, fmt.Errorf("failed to check previous submissions: %w", err)
	}
	if accepted {
		return nil, ErrAlreadyAccepted
	}

	submission := &models.Submission{
		TaskID:         task.ID,
		UserID:         actor.ID,
		GitHubLink:     link,
		Status:         models.SubmissionStatusPending,
		SubmissionTime: s.now(),
	}

	if err := s.submissionRepo.Create(submission); err != nil {
		return nil, fmt.Errorf("failed to create submission: %w", err)
	}

	return submission, nil
}

// Review sets the outcome of a submission. ACCEPTED completes the task.
// An accepted submission is locked; pending and rejected ones may be reviewed again.
func (s *SubmissionService) Review(actor *models.User, submissionID uint64, outcome models.SubmissionStatus) (*models.Submission, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if !outcome.IsReviewOutcome() {
		return nil, ErrInvalidReviewOutcome
	}

	submission, err := s.findSubmission(submissionID)
	if err != nil {
		return nil, err
	}

	if submission.Status == models.SubmissionStatusAccepted {
		return nil, ErrSubmissionLocked
	}

	var completion *repository.TaskChange
	if outcome == models.SubmissionStatusAccepted {
		task, err := s.tasks.findTask(submission.TaskID)
		if err != nil {
			return nil, err
		}
		completion = s.tasks.completionChange(task)
	}

	if err := s.submissionRepo.UpdateStatus(submission.ID, outcome, completion); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("failed to review submission: %w", err)
	}

	return s.findSubmission(submission.ID)
}

// ListForTask lists a task's submissions newest first.
// Workers only see their own submissions on tasks visible to them.
func (s *SubmissionService) ListForTask(actor *models.User, taskID uint64, input ListSubmissionsInput) ([]models.Submission, int64, error) {
	if _, err := s.tasks.GetTask(actor, taskID); err != nil {
		return nil, 0, err
	}

	filter := repository.SubmissionFilter{
		TaskID:   &taskID,
		Page:     input.Page,
		PageSize: input.PageSize,
	}
	if !actor.IsAdmin() {
		filter.UserID = &actor.ID
	}

	return s.list(filter)
}

// ListAll lists every submission newest first. Admin only.
func (s *SubmissionService) ListAll(actor *models.User, input ListSubmissionsInput) ([]models.Submission, int64, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, 0, err
	}

	return s.list(repository.SubmissionFilter{
		Page:     input.Page,
		PageSize: input.PageSize,
	})
}

// GetSubmission returns a submission to an admin or its submitter
func (s *SubmissionService) GetSubmission(actor *models.User, submissionID uint64) (*models.Submission, error) {
	submission, err := s.findSubmission(submissionID)
	if err != nil {
		return nil, err
	}

	if err := canAccessSubmission(actor, submission); err != nil {
		return nil, err
	}

	return submission, nil
}

func (s *SubmissionService) list(filter repository.SubmissionFilter) ([]models.Submission, int64, error) {
	submissions, total, err := s.submissionRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list submissions: %w", err)
	}
	return submissions, total, nil
}

func (s *SubmissionService) findSubmission(id uint64) (*models.Submission, error) {
	submission, err := s.submissionRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("failed to find submission: %w", err)
	}
	return submission, nil
}

func canAccessSubmission(actor *models.User, submission *models.Submission) error {
	if actor.IsAdmin() || submission.UserID == actor.ID {
		return nil
	}
	return ErrSubmissionAccessDenied
}

// validateLink accepts absolute http and https URLs only
func validateLink(raw string) (string, error) {
	link := strings.TrimSpace(raw)
	u, err := url.Parse(link)
	if err != nil || u.Host == "" {
		return "", ErrInvalidGitHubLink
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", ErrInvalidGitHubLink
	}
	return link, nil
}
