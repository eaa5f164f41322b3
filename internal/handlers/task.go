package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-review-api/internal/dto"
	apierrors "github.com/yukikurage/task-review-api/internal/errors"
	"github.com/yukikurage/task-review-api/internal/middleware"
	"github.com/yukikurage/task-review-api/internal/models"
	"github.com/yukikurage/task-review-api/internal/services"
	"github.com/yukikurage/task-review-api/internal/utils"
)

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// ListAllTasks lists every task (admin only)
func (h *TaskHandler) ListAllTasks(c *gin.Context) {
	h.listTasks(c, h.taskService.ListAllTasks)
}

// ListVisibleTasks lists the tasks visible to the caller
func (h *TaskHandler) ListVisibleTasks(c *gin.Context) {
	h.listTasks(c, h.taskService.ListVisibleTasks)
}

// ListAssignedTasks lists tasks whose assignment set contains :user_id
func (h *TaskHandler) ListAssignedTasks(c *gin.Context) {
	userID, ok := parseIDParam(c, "user_id", "user")
	if !ok {
		return
	}

	h.listTasks(c, func(actor *models.User, input services.ListTasksInput) ([]models.Task, int64, error) {
		return h.taskService.ListAssignedTasks(actor, userID, input)
	})
}

func (h *TaskHandler) listTasks(c *gin.Context, list func(*models.User, services.ListTasksInput) ([]models.Task, int64, error)) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}

	pagination := utils.GetPaginationParams(c)
	tasks, total, err := list(actor, services.ListTasksInput{
		Status:   statusQuery(c),
		Page:     pagination.Page,
		PageSize: pagination.Limit,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks, pagination.Page, pagination.Limit, total))
}

// GetTask returns the task loaded by RequireTaskAccess
func (h *TaskHandler) GetTask(c *gin.Context) {
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// CreateTask creates a new task
func (h *TaskHandler) CreateTask(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}

	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.CreateTask(actor, services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Deadline:    req.Deadline,
		Tags:        req.Tags,
		AssigneeIDs: req.AssignedUserIDs,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// UpdateTask applies a partial edit
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}

	taskID, ok := parseIDParam(c, "id", "task")
	if !ok {
		return
	}

	var req dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.UpdateTask(actor, taskID, services.UpdateTaskInput{
		Title:         req.Title,
		Description:   req.Description,
		Deadline:      req.Deadline,
		ClearDeadline: req.ClearDeadline,
		Tags:          req.Tags,
		AssigneeIDs:   req.AssignedUserIDs,
		Status:        req.Status,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask deletes a task and everything attached to it
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}

	taskID, ok := parseIDParam(c, "id", "task")
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(actor, taskID); err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Task deleted successfully"})
}

// AssignTask adds a user to a task's assignment set
func (h *TaskHandler) AssignTask(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}

	taskID, ok := parseIDParam(c, "id", "task")
	if !ok {
		return
	}

	var req dto.AssignTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.AssignTask(actor, taskID, req.UserID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// CompleteTask marks a task DONE
func (h *TaskHandler) CompleteTask(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}

	taskID, ok := parseIDParam(c, "id", "task")
	if !ok {
		return
	}

	task, err := h.taskService.CompleteTask(actor, taskID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// TaskHistory returns a task's audit trail
func (h *TaskHandler) TaskHistory(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}

	taskID, ok := parseIDParam(c, "id", "task")
	if !ok {
		return
	}

	entries, err := h.taskService.TaskHistory(actor, taskID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskHistoryResponse(entries))
}

// GenerateTasks drafts tasks from text using AI
func (h *TaskHandler) GenerateTasks(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}

	var req dto.GenerateTasksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	drafts, err := h.taskService.GenerateDrafts(c.Request.Context(), actor, req.Text)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	items := make([]dto.GeneratedTaskDTO, len(drafts))
	for i, d := range drafts {
		items[i] = dto.GeneratedTaskDTO{
			Title:       d.Title,
			Description: d.Description,
			Tags:        d.Tags,
			Deadline:    d.Deadline,
		}
	}

	c.JSON(http.StatusOK, dto.GenerateTasksResponse{Tasks: items})
}
