package repository

import (
	"github.com/yukikurage/task-review-api/internal/models"
)

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task together with its initial assignment set
	Create(task *models.Task, assigneeIDs []uint64) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// List retrieves tasks with filtering and pagination
	List(filter TaskFilter) ([]models.Task, int64, error)

	// ApplyChange persists a task mutation and its audit entries atomically
	ApplyChange(change TaskChange) error

	// Delete removes a task, its assignments, audit trail, submissions and comments
	Delete(id uint64) error

	// CountUsersByIDs counts how many of the given user IDs exist
	CountUsersByIDs(userIDs []uint64) (int64, error)
}

// TaskFilter holds filtering options for listing tasks.
// AssignedUserID keeps tasks whose assignment set contains the user;
// VisibleToUserID keeps broadcast tasks plus tasks assigned to the user.
type TaskFilter struct {
	Status          *models.TaskStatus
	AssignedUserID  *uint64
	VisibleToUserID *uint64
	Page            int
	PageSize        int
}

// TaskChange describes one task mutation. When ReplaceAssignees is set the
// assignment set is replaced by AssigneeIDs.
type TaskChange struct {
	Task             *models.Task
	ReplaceAssignees bool
	AssigneeIDs      []uint64
	History          []models.TaskHistory
}

// TaskHistoryRepository defines the interface for the task audit trail
type TaskHistoryRepository interface {
	// Record appends audit entries
	Record(entries ...models.TaskHistory) error

	// ListByTask returns a task's audit entries oldest first
	ListByTask(taskID uint64) ([]models.TaskHistory, error)
}

// SubmissionRepository defines the interface for submission data access
type SubmissionRepository interface {
	// Create creates a new submission
	Create(submission *models.Submission) error

	// FindByID finds a submission by ID
	FindByID(id uint64) (*models.Submission, error)

	// List retrieves submissions with filtering and pagination, newest first
	List(filter SubmissionFilter) ([]models.Submission, int64, error)

	// HasStatus reports whether the user holds a submission with the given status on the task
	HasStatus(taskID, userID uint64, status models.SubmissionStatus) (bool, error)

	// UpdateStatus sets the review status of a submission, applying taskChange in the same transaction when non-nil
	UpdateStatus(id uint64, status models.SubmissionStatus, taskChange *TaskChange) error
}

// SubmissionFilter holds filtering options for listing submissions
type SubmissionFilter struct {
	TaskID   *uint64
	UserID   *uint64
	Page     int
	PageSize int
}

// CommentRepository defines the interface for submission comments
type CommentRepository interface {
	// Create appends a comment
	Create(comment *models.Comment) error

	// ListBySubmission returns a submission's comments oldest first
	ListBySubmission(submissionID uint64) ([]models.Comment, error)
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// List returns every user ordered by ID
	List() ([]models.User, error)

	// Update saves a user's profile fields
	Update(user *models.User) error

	// Delete removes a user, leaving assignments and submissions that reference it
	Delete(id uint64) error
}
