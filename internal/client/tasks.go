package client

import (
	"context"
	"net/http"

	"github.com/yukikurage/task-review-api/internal/dto"
)

// CreateTask creates a task (admin only)
func (c *Client) CreateTask(ctx context.Context, req dto.CreateTaskRequest) (*dto.TaskDTO, error) {
	return c.taskCall(ctx, request{method: http.MethodPost, path: "/api/tasks", body: req})
}

// GetTask fetches one task visible to the caller
func (c *Client) GetTask(ctx context.Context, taskID uint64) (*dto.TaskDTO, error) {
	return c.taskCall(ctx, request{method: http.MethodGet, path: idPath("/api/tasks/%d", taskID)})
}

// UpdateTask applies a partial edit (admin only)
func (c *Client) UpdateTask(ctx context.Context, taskID uint64, req dto.UpdateTaskRequest) (*dto.TaskDTO, error) {
	return c.taskCall(ctx, request{method: http.MethodPatch, path: idPath("/api/tasks/%d", taskID), body: req})
}

// DeleteTask deletes a task (admin only)
func (c *Client) DeleteTask(ctx context.Context, taskID uint64) error {
	return c.do(ctx, request{method: http.MethodDelete, path: idPath("/api/tasks/%d", taskID)}, nil)
}

// AssignTask adds a worker to a task's assignment set (admin only)
func (c *Client) AssignTask(ctx context.Context, taskID, userID uint64) (*dto.TaskDTO, error) {
	return c.taskCall(ctx, request{
		method: http.MethodPost,
		path:   idPath("/api/tasks/%d/assign", taskID),
		body:   dto.AssignTaskRequest{UserID: userID},
	})
}

// CompleteTask marks a task DONE (admin only)
func (c *Client) CompleteTask(ctx context.Context, taskID uint64) (*dto.TaskDTO, error) {
	return c.taskCall(ctx, request{method: http.MethodPost, path: idPath("/api/tasks/%d/complete", taskID)})
}

// ListTasks lists every task (admin only)
func (c *Client) ListTasks(ctx context.Context, opts ListOptions) (*dto.TaskListResponse, error) {
	return c.taskList(ctx, "/api/tasks", opts)
}

// ListVisibleTasks lists the tasks the caller may see
func (c *Client) ListVisibleTasks(ctx context.Context, opts ListOptions) (*dto.TaskListResponse, error) {
	return c.taskList(ctx, "/api/tasks/visible", opts)
}

// ListAssignedTasks lists tasks specifically assigned to userID
func (c *Client) ListAssignedTasks(ctx context.Context, userID uint64, opts ListOptions) (*dto.TaskListResponse, error) {
	return c.taskList(ctx, idPath("/api/tasks/assigned/%d", userID), opts)
}

// TaskHistory returns a task's audit trail oldest first
func (c *Client) TaskHistory(ctx context.Context, taskID uint64) ([]dto.TaskHistoryDTO, error) {
	var resp dto.TaskHistoryResponse
	if err := c.do(ctx, request{method: http.MethodGet, path: idPath("/api/tasks/%d/history", taskID)}, &resp); err != nil {
		return nil, err
	}
	return resp.History, nil
}

// GenerateTasks asks the server to draft tasks from free text (admin only)
func (c *Client) GenerateTasks(ctx context.Context, text string) ([]dto.GeneratedTaskDTO, error) {
	var resp dto.GenerateTasksResponse
	if err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/api/tasks/generate",
		body:   dto.GenerateTasksRequest{Text: text},
	}, &resp); err != nil {
		return nil, err
	}
	return resp.Tasks, nil
}

func (c *Client) taskCall(ctx context.Context, req request) (*dto.TaskDTO, error) {
	var task dto.TaskDTO
	if err := c.do(ctx, req, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) taskList(ctx context.Context, path string, opts ListOptions) (*dto.TaskListResponse, error) {
	var resp dto.TaskListResponse
	if err := c.do(ctx, request{method: http.MethodGet, path: path, query: opts.values()}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
