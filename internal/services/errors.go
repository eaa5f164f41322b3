package services

import (
	apierrors "github.com/yukikurage/task-review-api/internal/errors"
	"github.com/yukikurage/task-review-api/internal/models"
)

// Access errors
var (
	ErrAdminRequired          = apierrors.NewAPIError(apierrors.ErrCodeForbidden, "admin role required")
	ErrWorkerRequired         = apierrors.NewAPIError(apierrors.ErrCodeForbidden, "worker role required")
	ErrNotOwnAssignments      = apierrors.NewAPIError(apierrors.ErrCodeForbidden, "workers may only list their own assignments")
	ErrSubmissionAccessDenied = apierrors.NewAPIError(apierrors.ErrCodeForbidden, "only admins and the submitter may access this submission")
)

// Auth and user errors
var (
	ErrInvalidCredentials = apierrors.NewAPIError(apierrors.ErrCodeInvalidCredentials, "invalid email or password")
	ErrInvalidToken       = apierrors.NewAPIError(apierrors.ErrCodeUnauthorized, "invalid or expired token")
	ErrEmailRequired      = apierrors.NewAPIError(apierrors.ErrCodeInvalidInput, "email is required")
	ErrEmailTaken         = apierrors.NewAPIError(apierrors.ErrCodeConflict, "email already registered")
	ErrPasswordTooShort   = apierrors.NewAPIError(apierrors.ErrCodeInvalidInput, "password too short")
	ErrPasswordTooLong    = apierrors.NewAPIError(apierrors.ErrCodeInvalidInput, "password too long")
	ErrInvalidRole        = apierrors.NewAPIError(apierrors.ErrCodeInvalidInput, "role must be ADMIN or WORKER")
	ErrUserNotFound       = apierrors.NewAPIError(apierrors.ErrCodeNotFound, "user not found")
	ErrCannotDeleteSelf   = apierrors.NewAPIError(apierrors.ErrCodeInvalidInput, "cannot delete your own account")
)

// Task errors
var (
	ErrTaskNotFound        = apierrors.NewAPIError(apierrors.ErrCodeNotFound, "task not found")
	ErrTitleRequired       = apierrors.NewAPIError(apierrors.ErrCodeInvalidInput, "title is required")
	ErrInvalidTaskStatus   = apierrors.NewAPIError(apierrors.ErrCodeInvalidInput, "status must be PENDING, ASSIGNED or DONE")
	ErrInvalidTaskAssignee = apierrors.NewAPIError(apierrors.ErrCodeNotFound, "one or more assignees do not exist")
	ErrTaskAlreadyDone     = apierrors.NewAPIError(apierrors.ErrCodeInvalidTransition, "task is already done")
	ErrDeadlineConflict    = apierrors.NewAPIError(apierrors.ErrCodeInvalidInput, "deadline and clear_deadline cannot be combined")
)

// Submission and comment errors
var (
	ErrSubmissionNotFound   = apierrors.NewAPIError(apierrors.ErrCodeNotFound, "submission not found")
	ErrInvalidGitHubLink    = apierrors.NewAPIError(apierrors.ErrCodeInvalidInput, "link must be an absolute http(s) URL")
	ErrTaskNotAssigned      = apierrors.NewAPIError(apierrors.ErrCodeNotEligible, "task is not open for submissions")
	ErrTaskNotVisible       = apierrors.NewAPIError(apierrors.ErrCodeNotEligible, "task is not assigned to you")
	ErrAlreadyAccepted      = apierrors.NewAPIError(apierrors.ErrCodeNotEligible, "you already have an accepted submission for this task")
	ErrInvalidReviewOutcome = apierrors.NewAPIError(apierrors.ErrCodeInvalidInput, "review status must be ACCEPTED or REJECTED")
	ErrSubmissionLocked     = apierrors.NewAPIError(apierrors.ErrCodeInvalidTransition, "accepted submissions cannot be reviewed again")
	ErrCommentEmpty         = apierrors.NewAPIError(apierrors.ErrCodeInvalidInput, "comment cannot be empty")
)

// AI errors
var (
	ErrAIServiceNotConfigured = apierrors.NewAPIError(apierrors.ErrCodeServiceUnavailable, "AI service is not configured")
	ErrAIRequestFailed        = apierrors.NewAPIError(apierrors.ErrCodeServiceUnavailable, "AI service request failed")
	ErrAITextRequired         = apierrors.NewAPIError(apierrors.ErrCodeInvalidInput, "text is required")
	ErrAINoTasksGenerated     = apierrors.NewAPIError(apierrors.ErrCodeInvalidInput, "AI did not generate any tasks")
	ErrAITooManyTasks         = apierrors.NewAPIError(apierrors.ErrCodeInvalidInput, "AI generated too many tasks")
	ErrAINoValidTasks         = apierrors.NewAPIError(apierrors.ErrCodeInvalidInput, "no valid tasks could be created from AI output")
)

func requireAdmin(actor *models.User) error {
	if !actor.IsAdmin() {
		return ErrAdminRequired
	}
	return nil
}

func requireWorker(actor *models.User) error {
	if !actor.IsWorker() {
		return ErrWorkerRequired
	}
	return nil
}
