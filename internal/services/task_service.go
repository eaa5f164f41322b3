package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/yukikurage/task-review-api/internal/constants"
	"github.com/yukikurage/task-review-api/internal/models"
	"github.com/yukikurage/task-review-api/internal/repository"
	"github.com/yukikurage/task-review-api/internal/visibility"
	"gorm.io/gorm"
)

// TaskService owns the task lifecycle: PENDING -> ASSIGNED -> DONE.
// Every mutation records an audit entry per changed field.
type TaskService struct {
	taskRepo    repository.TaskRepository
	historyRepo repository.TaskHistoryRepository
	drafter     TaskDrafter
	now         func() time.Time
}

// NewTaskService creates a new TaskService. drafter may be nil when AI drafting is not configured.
func NewTaskService(taskRepo repository.TaskRepository, historyRepo repository.TaskHistoryRepository, drafter TaskDrafter) *TaskService {
	return &TaskService{
		taskRepo:    taskRepo,
		historyRepo: historyRepo,
		drafter:     drafter,
		now:         time.Now,
	}
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	Status   *models.TaskStatus
	Page     int
	PageSize int
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title       string
	Description string
	Deadline    *time.Time
	Tags        []string
	AssigneeIDs []uint64
}

// UpdateTaskInput represents a partial edit. Nil fields are left untouched.
type UpdateTaskInput struct {
	Title         *string
	Description   *string
	Deadline      *time.Time
	ClearDeadline bool
	Tags          *[]string
	AssigneeIDs   *[]uint64
	Status        *models.TaskStatus
}

// CreateTask creates a new PENDING task
func (s *TaskService) CreateTask(actor *models.User, input CreateTaskInput) (*models.Task, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	assigneeIDs := uniqueUint64(input.AssigneeIDs)
	if err := s.ensureUsersExist(assigneeIDs); err != nil {
		return nil, err
	}

	task := &models.Task{
		Title:       title,
		Description: input.Description,
		Status:      models.TaskStatusPending,
		Deadline:    input.Deadline,
		CreatorID:   actor.ID,
	}
	task.SetTags(input.Tags)

	if err := s.taskRepo.Create(task, assigneeIDs); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return s.findTask(task.ID)
}

// GetTask returns a task the actor may see. Hidden tasks read as not found.
func (s *TaskService) GetTask(actor *models.User, taskID uint64) (*models.Task, error) {
	task, err := s.findTask(taskID)
	if err != nil {
		return nil, err
	}

	if !visibility.Visible(*task, actor.ID, actor.Role) {
		return nil, ErrTaskNotFound
	}

	return task, nil
}

// AssignTask adds a user to the assignment set and moves a PENDING task to ASSIGNED
func (s *TaskService) AssignTask(actor *models.User, taskID, userID uint64) (*models.Task, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	task, err := s.findTask(taskID)
	if err != nil {
		return nil, err
	}

	if task.Status == models.TaskStatusDone {
		return nil, ErrTaskAlreadyDone
	}

	if err := s.ensureUsersExist([]uint64{userID}); err != nil {
		return nil, err
	}

	oldIDs := task.AssigneeIDs()
	newIDs := uniqueUint64(append(append([]uint64{}, oldIDs...), userID))
	oldStatus := task.Status

	if task.Status == models.TaskStatusPending {
		task.Status = models.TaskStatusAssigned
	}

	var history []models.TaskHistory
	history = s.appendChange(history, task.ID, models.FieldAssignedUserIDs, formatIDs(oldIDs), formatIDs(newIDs))
	history = s.appendChange(history, task.ID, models.FieldStatus, string(oldStatus), string(task.Status))

	if len(history) == 0 {
		return task, nil
	}

	if err := s.taskRepo.ApplyChange(repository.TaskChange{
		Task:             task,
		ReplaceAssignees: true,
		AssigneeIDs:      newIDs,
		History:          history,
	}); err != nil {
		return nil, fmt.Errorf("failed to assign task: %w", err)
	}

	return s.findTask(task.ID)
}

// UpdateTask applies an admin edit. Status may move in any direction here.
func (s *TaskService) UpdateTask(actor *models.User, taskID uint64, input UpdateTaskInput) (*models.Task, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if input.ClearDeadline && input.Deadline != nil {
		return nil, ErrDeadlineConflict
	}

	task, err := s.findTask(taskID)
	if err != nil {
		return nil, err
	}

	var history []models.TaskHistory
	change := repository.TaskChange{Task: task}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, ErrTitleRequired
		}
		history = s.appendChange(history, task.ID, models.FieldTitle, task.Title, title)
		task.Title = title
	}

	if input.Description != nil {
		history = s.appendChange(history, task.ID, models.FieldDescription, task.Description, *input.Description)
		task.Description = *input.Description
	}

	if input.ClearDeadline {
		history = s.appendChange(history, task.ID, models.FieldDeadline, formatDeadline(task.Deadline), "")
		task.Deadline = nil
	} else if input.Deadline != nil {
		if task.Deadline == nil || !task.Deadline.Equal(*input.Deadline) {
			history = s.appendChange(history, task.ID, models.FieldDeadline, formatDeadline(task.Deadline), formatDeadline(input.Deadline))
		}
		task.Deadline = input.Deadline
	}

	if input.Tags != nil {
		oldTags := task.TagList()
		task.SetTags(*input.Tags)
		if newTags := task.TagList(); !slices.Equal(oldTags, newTags) {
			history = s.appendChange(history, task.ID, models.FieldTags, formatTags(oldTags), formatTags(newTags))
		}
	}

	if input.AssigneeIDs != nil {
		newIDs := uniqueUint64(*input.AssigneeIDs)
		if err := s.ensureUsersExist(newIDs); err != nil {
			return nil, err
		}
		oldValue, newValue := formatIDs(task.AssigneeIDs()), formatIDs(newIDs)
		if oldValue != newValue {
			history = s.appendChange(history, task.ID, models.FieldAssignedUserIDs, oldValue, newValue)
			change.ReplaceAssignees = true
			change.AssigneeIDs = newIDs
		}
	}

	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, ErrInvalidTaskStatus
		}
		history = s.appendChange(history, task.ID, models.FieldStatus, string(task.Status), string(*input.Status))
		task.Status = *input.Status
	}

	if len(history) == 0 {
		return task, nil
	}

	change.History = history
	if err := s.taskRepo.ApplyChange(change); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return s.findTask(task.ID)
}

// CompleteTask marks a task DONE. Completing a DONE task is a no-op.
func (s *TaskService) CompleteTask(actor *models.User, taskID uint64) (*models.Task, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	task, err := s.findTask(taskID)
	if err != nil {
		return nil, err
	}

	change := s.completionChange(task)
	if change == nil {
		return task, nil
	}

	if err := s.taskRepo.ApplyChange(*change); err != nil {
		return nil, fmt.Errorf("failed to complete task: %w", err)
	}

	return s.findTask(task.ID)
}

// completionChange moves task to DONE in memory and returns the change to persist.
// It returns nil when the task is already DONE.
func (s *TaskService) completionChange(task *models.Task) *repository.TaskChange {
	if task.Status == models.TaskStatusDone {
		return nil
	}

	history := s.appendChange(nil, task.ID, models.FieldStatus, string(task.Status), string(models.TaskStatusDone))
	task.Status = models.TaskStatusDone
	return &repository.TaskChange{Task: task, History: history}
}

// DeleteTask removes a task with its audit trail, submissions and comments
func (s *TaskService) DeleteTask(actor *models.User, taskID uint64) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}

	if err := s.taskRepo.Delete(taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}

// ListAllTasks returns every task. Admin only.
func (s *TaskService) ListAllTasks(actor *models.User, input ListTasksInput) ([]models.Task, int64, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, 0, err
	}

	return s.listTasks(input, repository.TaskFilter{})
}

// ListVisibleTasks returns the tasks the actor may see
func (s *TaskService) ListVisibleTasks(actor *models.User, input ListTasksInput) ([]models.Task, int64, error) {
	filter := repository.TaskFilter{}
	if !actor.IsAdmin() {
		filter.VisibleToUserID = &actor.ID
	}

	tasks, total, err := s.listTasks(input, filter)
	if err != nil {
		return nil, 0, err
	}

	visible := visibility.Filter(tasks, actor.ID, actor.Role)
	total -= int64(len(tasks) - len(visible))

	return visible, total, nil
}

// ListAssignedTasks returns tasks whose assignment set contains userID.
// Workers may only ask about themselves.
func (s *TaskService) ListAssignedTasks(actor *models.User, userID uint64, input ListTasksInput) ([]models.Task, int64, error) {
	if !actor.IsAdmin() && actor.ID != userID {
		return nil, 0, ErrNotOwnAssignments
	}

	return s.listTasks(input, repository.TaskFilter{AssignedUserID: &userID})
}

// TaskHistory returns a task's audit trail oldest first
func (s *TaskService) TaskHistory(actor *models.User, taskID uint64) ([]models.TaskHistory, error) {
	if _, err := s.GetTask(actor, taskID); err != nil {
		return nil, err
	}

	entries, err := s.historyRepo.ListByTask(taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list task history: %w", err)
	}

	return entries, nil
}

// GenerateDrafts uses AI to draft tasks from text. Nothing is persisted.
func (s *TaskService) GenerateDrafts(ctx context.Context, actor *models.User, text string) ([]GeneratedTask, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if s.drafter == nil {
		return nil, ErrAIServiceNotConfigured
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrAITextRequired
	}

	aiTasks, err := s.drafter.GenerateTasksFromText(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAIRequestFailed, err)
	}

	if len(aiTasks) == 0 {
		return nil, ErrAINoTasksGenerated
	}
	if len(aiTasks) > constants.MaxAIGeneratedTasks {
		return nil, ErrAITooManyTasks
	}

	validTasks := make([]GeneratedTask, 0, len(aiTasks))
	cutoff := s.now().Add(-24 * time.Hour)
	for _, aiTask := range aiTasks {
		aiTask.Title = strings.TrimSpace(aiTask.Title)
		if aiTask.Title == "" {
			continue
		}

		if aiTask.Deadline != nil && aiTask.Deadline.Before(cutoff) {
			aiTask.Deadline = nil
		}
		aiTask.Tags = models.NormalizeTags(aiTask.Tags)

		validTasks = append(validTasks, aiTask)
	}

	if len(validTasks) == 0 {
		return nil, ErrAINoValidTasks
	}

	return validTasks, nil
}

func (s *TaskService) listTasks(input ListTasksInput, filter repository.TaskFilter) ([]models.Task, int64, error) {
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, 0, ErrInvalidTaskStatus
		}
		filter.Status = input.Status
	}
	filter.Page = input.Page
	filter.PageSize = input.PageSize

	tasks, total, err := s.taskRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, total, nil
}

// findTask loads a task with its assignment set
func (s *TaskService) findTask(taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID, "Assignments")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	return task, nil
}

// ensureUsersExist verifies that every id refers to a user
func (s *TaskService) ensureUsersExist(userIDs []uint64) error {
	if len(userIDs) == 0 {
		return nil
	}

	count, err := s.taskRepo.CountUsersByIDs(userIDs)
	if err != nil {
		return fmt.Errorf("failed to verify users: %w", err)
	}
	if int(count) != len(userIDs) {
		return ErrInvalidTaskAssignee
	}

	return nil
}

// appendChange records field when its value actually changed
func (s *TaskService) appendChange(history []models.TaskHistory, taskID uint64, field, oldValue, newValue string) []models.TaskHistory {
	if oldValue == newValue {
		return history
	}
	return append(history, models.TaskHistory{
		TaskID:       taskID,
		FieldChanged: field,
		OldValue:     oldValue,
		NewValue:     newValue,
		ChangedAt:    s.now(),
	})
}

func formatDeadline(deadline *time.Time) string {
	if deadline == nil {
		return ""
	}
	return deadline.UTC().Format(time.RFC3339Nano)
}

// formatTags encodes tags as a JSON array so tags containing commas stay distinct
func formatTags(tags []string) string {
	if tags == nil {
		tags = []string{}
	}
	data, _ := json.Marshal(tags)
	return string(data)
}

// formatIDs joins ids in ascending order
func formatIDs(ids []uint64) string {
	sorted := uniqueUint64(ids)
	sortUint64(sorted)

	parts := make([]string, len(sorted))
	for i, id := range sorted {
		parts[i] = strconv.FormatUint(id, 10)
	}
	return strings.Join(parts, ",")
}

// uniqueUint64 removes duplicate values from a slice of uint64
func uniqueUint64(values []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(values))
	result := make([]uint64, 0, len(values))

	for _, v := range values {
		if _, exists := seen[v]; exists {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}

	return result
}

func sortUint64(values []uint64) {
	sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })
}
