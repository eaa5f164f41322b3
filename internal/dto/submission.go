package dto

import (
	"time"

	"github.com/yukikurage/task-review-api/internal/models"
	"github.com/yukikurage/task-review-api/internal/utils"
)

// SubmissionDTO represents a submission in API responses
type SubmissionDTO struct {
	ID             uint64                  `json:"id"`
	TaskID         uint64                  `json:"task_id"`
	UserID         uint64                  `json:"user_id"`
	GitHubLink     string                  `json:"github_link"`
	Status         models.SubmissionStatus `json:"status"`
	SubmissionTime time.Time               `json:"submission_time"`
	UpdatedAt      time.Time               `json:"updated_at"`
}

// SubmissionListResponse represents a paginated list of submissions
type SubmissionListResponse struct {
	Submissions []SubmissionDTO `json:"submissions"`
	Page        int             `json:"page"`
	PageSize    int             `json:"page_size"`
	TotalCount  int64           `json:"total_count"`
	TotalPages  int             `json:"total_pages"`
}

// SubmitRequest represents a work submission
type SubmitRequest struct {
	GitHubLink string `json:"github_link" binding:"required"`
}

// ReviewRequest carries the review outcome
type ReviewRequest struct {
	Status models.SubmissionStatus `json:"status" binding:"required"`
}

// CommentDTO represents a review comment
type CommentDTO struct {
	ID           uint64    `json:"id"`
	SubmissionID uint64    `json:"submission_id"`
	UserID       uint64    `json:"user_id"`
	Comment      string    `json:"comment"`
	CreatedAt    time.Time `json:"created_at"`
}

// CommentListResponse lists comments oldest first
type CommentListResponse struct {
	Comments []CommentDTO `json:"comments"`
}

// AddCommentRequest represents a new comment
type AddCommentRequest struct {
	Comment string `json:"comment" binding:"required"`
}

// ToSubmissionDTO converts a Submission model to SubmissionDTO
func ToSubmissionDTO(s models.Submission) SubmissionDTO {
	return SubmissionDTO{
		ID:             s.ID,
		TaskID:         s.TaskID,
		UserID:         s.UserID,
		GitHubLink:     s.GitHubLink,
		Status:         s.Status,
		SubmissionTime: s.SubmissionTime,
		UpdatedAt:      s.UpdatedAt,
	}
}

// ToSubmissionListResponse converts submissions to SubmissionListResponse
func ToSubmissionListResponse(submissions []models.Submission, page, pageSize int, totalCount int64) SubmissionListResponse {
	items := make([]SubmissionDTO, len(submissions))
	for i, s := range submissions {
		items[i] = ToSubmissionDTO(s)
	}

	return SubmissionListResponse{
		Submissions: items,
		Page:        page,
		PageSize:    pageSize,
		TotalCount:  totalCount,
		TotalPages:  utils.TotalPages(totalCount, pageSize),
	}
}

// ToCommentDTO converts a Comment model to CommentDTO
func ToCommentDTO(c models.Comment) CommentDTO {
	return CommentDTO{
		ID:           c.ID,
		SubmissionID: c.SubmissionID,
		UserID:       c.UserID,
		Comment:      c.Comment,
		CreatedAt:    c.CreatedAt,
	}
}

// ToCommentListResponse converts comments to CommentListResponse
func ToCommentListResponse(comments []models.Comment) CommentListResponse {
	items := make([]CommentDTO, len(comments))
	for i, c := range comments {
		items[i] = ToCommentDTO(c)
	}
	return CommentListResponse{Comments: items}
}
