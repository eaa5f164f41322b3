package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-review-api/internal/dto"
	apierrors "github.com/yukikurage/task-review-api/internal/errors"
	"github.com/yukikurage/task-review-api/internal/services"
	"github.com/yukikurage/task-review-api/internal/utils"
)

// SubmissionHandler serves submissions, reviews and their comment threads.
type SubmissionHandler struct {
	submissionService *services.SubmissionService
	commentService    *services.CommentService
}

// NewSubmissionHandler creates a new SubmissionHandler.
func NewSubmissionHandler(submissionService *services.SubmissionService, commentService *services.CommentService) *SubmissionHandler {
	return &SubmissionHandler{
		submissionService: submissionService,
		commentService:    commentService,
	}
}

// Submit records a worker's submission for a task.
func (h *SubmissionHandler) Submit(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}

	taskID, ok := parseIDParam(c, "id", "task")
	if !ok {
		return
	}

	var req dto.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	submission, err := h.submissionService.Submit(actor, services.SubmitInput{
		TaskID:     taskID,
		GitHubLink: req.GitHubLink,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToSubmissionDTO(*submission))
}

// ListTaskSubmissions lists a task's submissions.
func (h *SubmissionHandler) ListTaskSubmissions(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}

	taskID, ok := parseIDParam(c, "id", "task")
	if !ok {
		return
	}

	pagination := utils.GetPaginationParams(c)
	submissions, total, err := h.submissionService.ListForTask(actor, taskID, services.ListSubmissionsInput{
		Page:     pagination.Page,
		PageSize: pagination.Limit,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToSubmissionListResponse(submissions, pagination.Page, pagination.Limit, total))
}

// ListSubmissions lists every submission (admin only).
func (h *SubmissionHandler) ListSubmissions(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}

	pagination := utils.GetPaginationParams(c)
	submissions, total, err := h.submissionService.ListAll(actor, services.ListSubmissionsInput{
		Page:     pagination.Page,
		PageSize: pagination.Limit,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToSubmissionListResponse(submissions, pagination.Page, pagination.Limit, total))
}

// GetSubmission returns one submission.
func (h *SubmissionHandler) GetSubmission(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}

	submissionID, ok := parseIDParam(c, "id", "submission")
	if !ok {
		return
	}

	submission, err := h.submissionService.GetSubmission(actor, submissionID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToSubmissionDTO(*submission))
}

// ReviewSubmission accepts or rejects a submission (admin only).
func (h *SubmissionHandler) ReviewSubmission(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}

	submissionID, ok := parseIDParam(c, "id", "submission")
	if !ok {
		return
	}

	var req dto.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	submission, err := h.submissionService.Review(actor, submissionID, req.Status)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToSubmissionDTO(*submission))
}

// AddComment appends a comment to a submission.
func (h *SubmissionHandler) AddComment(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}

	submissionID, ok := parseIDParam(c, "id", "submission")
	if !ok {
		return
	}

	var req dto.AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	comment, err := h.commentService.AddComment(actor, submissionID, req.Comment)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToCommentDTO(*comment))
}

// ListComments lists a submission's comments oldest first.
func (h *SubmissionHandler) ListComments(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}

	submissionID, ok := parseIDParam(c, "id", "submission")
	if !ok {
		return
	}

	comments, err := h.commentService.ListComments(actor, submissionID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCommentListResponse(comments))
}
