package dto

import (
	"time"

	"github.com/yukikurage/task-review-api/internal/models"
	"github.com/yukikurage/task-review-api/internal/utils"
)

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID              uint64            `json:"id"`
	Title           string            `json:"title"`
	Description     string            `json:"description"`
	Status          models.TaskStatus `json:"status"`
	Deadline        *time.Time        `json:"deadline"`
	Tags            []string          `json:"tags"`
	AssignedUserIDs []uint64          `json:"assigned_user_ids"`
	CreatorID       uint64            `json:"creator_id"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// AssigneeIDs returns the task's assignment set
func (t TaskDTO) AssigneeIDs() []uint64 {
	return t.AssignedUserIDs
}

// TaskListResponse represents a paginated list of tasks
type TaskListResponse struct {
	Tasks      []TaskDTO `json:"tasks"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
	TotalCount int64     `json:"total_count"`
	TotalPages int       `json:"total_pages"`
}

// CreateTaskRequest represents the create task payload
type CreateTaskRequest struct {
	Title           string     `json:"title" binding:"required"`
	Description     string     `json:"description"`
	Deadline        *time.Time `json:"deadline"`
	Tags            []string   `json:"tags"`
	AssignedUserIDs []uint64   `json:"assigned_user_ids"`
}

// UpdateTaskRequest represents a partial task edit. Absent fields are left untouched.
type UpdateTaskRequest struct {
	Title           *string            `json:"title"`
	Description     *string            `json:"description"`
	Deadline        *time.Time         `json:"deadline"`
	ClearDeadline   bool               `json:"clear_deadline"`
	Tags            *[]string          `json:"tags"`
	AssignedUserIDs *[]uint64          `json:"assigned_user_ids"`
	Status          *models.TaskStatus `json:"status"`
}

// AssignTaskRequest names the user to add to a task's assignment set
type AssignTaskRequest struct {
	UserID uint64 `json:"user_id" binding:"required"`
}

// GenerateTasksRequest carries free text to draft tasks from
type GenerateTasksRequest struct {
	Text string `json:"text" binding:"required"`
}

// GeneratedTaskDTO is an unsaved task draft
type GeneratedTaskDTO struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Tags        []string   `json:"tags"`
	Deadline    *time.Time `json:"deadline"`
}

// GenerateTasksResponse lists task drafts
type GenerateTasksResponse struct {
	Tasks []GeneratedTaskDTO `json:"tasks"`
}

// TaskHistoryDTO represents one audit entry
type TaskHistoryDTO struct {
	ID           uint64    `json:"id"`
	TaskID       uint64    `json:"task_id"`
	FieldChanged string    `json:"field_changed"`
	OldValue     string    `json:"old_value"`
	NewValue     string    `json:"new_value"`
	ChangedAt    time.Time `json:"changed_at"`
}

// TaskHistoryResponse lists a task's audit trail oldest first
type TaskHistoryResponse struct {
	History []TaskHistoryDTO `json:"history"`
}

// Conversion functions

// ToTaskDTO converts a Task model to TaskDTO. Assignments should be preloaded.
func ToTaskDTO(task models.Task) TaskDTO {
	return TaskDTO{
		ID:              task.ID,
		Title:           task.Title,
		Description:     task.Description,
		Status:          task.Status,
		Deadline:        task.Deadline,
		Tags:            task.TagList(),
		AssignedUserIDs: task.AssigneeIDs(),
		CreatorID:       task.CreatorID,
		CreatedAt:       task.CreatedAt,
		UpdatedAt:       task.UpdatedAt,
	}
}

// ToTaskListResponse converts a slice of tasks to TaskListResponse
func ToTaskListResponse(tasks []models.Task, page, pageSize int, totalCount int64) TaskListResponse {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task)
	}

	return TaskListResponse{
		Tasks:      items,
		Page:       page,
		PageSize:   pageSize,
		TotalCount: totalCount,
		TotalPages: utils.TotalPages(totalCount, pageSize),
	}
}

// ToTaskHistoryResponse converts audit entries to TaskHistoryResponse
func ToTaskHistoryResponse(entries []models.TaskHistory) TaskHistoryResponse {
	items := make([]TaskHistoryDTO, len(entries))
	for i, e := range entries {
		items[i] = TaskHistoryDTO{
			ID:           e.ID,
			TaskID:       e.TaskID,
			FieldChanged: e.FieldChanged,
			OldValue:     e.OldValue,
			NewValue:     e.NewValue,
			ChangedAt:    e.ChangedAt,
		}
	}
	return TaskHistoryResponse{History: items}
}
