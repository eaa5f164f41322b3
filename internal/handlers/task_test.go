package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/yukikurage/task-review-api/internal/dto"
	apierrors "github.com/yukikurage/task-review-api/internal/errors"
	"github.com/yukikurage/task-review-api/internal/models"
)

func (suite *HandlerTestSuite) assign(taskID, userID uint64) dto.TaskDTO {
	w := suite.request(http.MethodPost, fmt.Sprintf("/api/tasks/%d/assign", taskID), suite.adminToken, dto.AssignTaskRequest{UserID: userID})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var task dto.TaskDTO
	suite.decode(w, &task)
	return task
}

func (suite *HandlerTestSuite) TestCreateTask_WorkerForbidden() {
	w := suite.request(http.MethodPost, "/api/tasks", suite.workerAToken, dto.CreateTaskRequest{Title: "Nope"})

	suite.Equal(http.StatusForbidden, w.Code)
	suite.Equal(apierrors.ErrCodeForbidden, suite.errorCode(w))
}

func (suite *HandlerTestSuite) TestCreateTask_MissingTitle() {
	w := suite.request(http.MethodPost, "/api/tasks", suite.adminToken, map[string]string{"description": "no title"})
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestCreateTask_UnknownAssignee() {
	w := suite.request(http.MethodPost, "/api/tasks", suite.adminToken, dto.CreateTaskRequest{
		Title:           "Ghost",
		AssignedUserIDs: []uint64{9999},
	})
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlerTestSuite) TestGetTask_Visibility() {
	broadcast := suite.createTask("Broadcast")
	private := suite.createTask("Private", suite.workerA.ID)

	w := suite.request(http.MethodGet, fmt.Sprintf("/api/tasks/%d", broadcast.ID), suite.workerBToken, nil)
	suite.Equal(http.StatusOK, w.Code)

	w = suite.request(http.MethodGet, fmt.Sprintf("/api/tasks/%d", private.ID), suite.workerAToken, nil)
	suite.Equal(http.StatusOK, w.Code)

	w = suite.request(http.MethodGet, fmt.Sprintf("/api/tasks/%d", private.ID), suite.workerBToken, nil)
	suite.Equal(http.StatusNotFound, w.Code)

	w = suite.request(http.MethodGet, "/api/tasks/abc", suite.adminToken, nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestListVisibleTasks() {
	suite.createTask("Broadcast")
	suite.createTask("Mine", suite.workerA.ID)
	suite.createTask("Theirs", suite.workerB.ID)

	w := suite.request(http.MethodGet, "/api/tasks/visible", suite.workerAToken, nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	var resp dto.TaskListResponse
	suite.decode(w, &resp)
	suite.Equal(int64(2), resp.TotalCount)

	titles := make([]string, 0, len(resp.Tasks))
	for _, t := range resp.Tasks {
		titles = append(titles, t.Title)
	}
	suite.ElementsMatch([]string{"Broadcast", "Mine"}, titles)
}

func (suite *HandlerTestSuite) TestListAllTasks_Pagination() {
	for i := 0; i < 5; i++ {
		suite.createTask(fmt.Sprintf("Task %d", i))
	}

	w := suite.request(http.MethodGet, "/api/tasks?page=2&page_size=2", suite.adminToken, nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	var resp dto.TaskListResponse
	suite.decode(w, &resp)
	suite.Equal(2, resp.Page)
	suite.Equal(2, resp.PageSize)
	suite.Equal(int64(5), resp.TotalCount)
	suite.Equal(3, resp.TotalPages)
	suite.Len(resp.Tasks, 2)

	w = suite.request(http.MethodGet, "/api/tasks", suite.workerAToken, nil)
	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *HandlerTestSuite) TestListAllTasks_StatusFilter() {
	task := suite.createTask("Assigned")
	suite.assign(task.ID, suite.workerA.ID)
	suite.createTask("Pending")

	w := suite.request(http.MethodGet, "/api/tasks?status=assigned", suite.adminToken, nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	var resp dto.TaskListResponse
	suite.decode(w, &resp)
	suite.Require().Len(resp.Tasks, 1)
	suite.Equal("Assigned", resp.Tasks[0].Title)

	w = suite.request(http.MethodGet, "/api/tasks?status=bogus", suite.adminToken, nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestListAssignedTasks() {
	suite.createTask("Mine", suite.workerA.ID)
	suite.createTask("Broadcast")

	w := suite.request(http.MethodGet, fmt.Sprintf("/api/tasks/assigned/%d", suite.workerA.ID), suite.workerAToken, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var resp dto.TaskListResponse
	suite.decode(w, &resp)
	suite.Require().Len(resp.Tasks, 1)
	suite.Equal("Mine", resp.Tasks[0].Title)

	w = suite.request(http.MethodGet, fmt.Sprintf("/api/tasks/assigned/%d", suite.workerA.ID), suite.workerBToken, nil)
	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *HandlerTestSuite) TestAssignTask_MovesToAssigned() {
	task := suite.createTask("Assign me")
	suite.Equal(models.TaskStatusPending, task.Status)

	assigned := suite.assign(task.ID, suite.workerA.ID)
	suite.Equal(models.TaskStatusAssigned, assigned.Status)
	suite.Equal([]uint64{suite.workerA.ID}, assigned.AssignedUserIDs)

	w := suite.request(http.MethodPost, fmt.Sprintf("/api/tasks/%d/assign", task.ID), suite.workerAToken, dto.AssignTaskRequest{UserID: suite.workerA.ID})
	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *HandlerTestSuite) TestUpdateTask_RecordsHistory() {
	task := suite.createTask("Before")
	title := "After"

	w := suite.request(http.MethodPatch, fmt.Sprintf("/api/tasks/%d", task.ID), suite.adminToken, dto.UpdateTaskRequest{Title: &title})
	suite.Require().Equal(http.StatusOK, w.Code)

	var updated dto.TaskDTO
	suite.decode(w, &updated)
	suite.Equal("After", updated.Title)

	w = suite.request(http.MethodGet, fmt.Sprintf("/api/tasks/%d/history", task.ID), suite.adminToken, nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	var history dto.TaskHistoryResponse
	suite.decode(w, &history)
	suite.Require().Len(history.History, 1)
	suite.Equal(models.FieldTitle, history.History[0].FieldChanged)
	suite.Equal("Before", history.History[0].OldValue)
	suite.Equal("After", history.History[0].NewValue)
}

func (suite *HandlerTestSuite) TestUpdateTask_DeadlineAndClearDeadlineRejected() {
	task := suite.createTask("Due")
	deadline := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

	w := suite.request(http.MethodPatch, fmt.Sprintf("/api/tasks/%d", task.ID), suite.adminToken, dto.UpdateTaskRequest{
		Deadline:      &deadline,
		ClearDeadline: true,
	})
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal(apierrors.ErrCodeInvalidInput, suite.errorCode(w))
}

func (suite *HandlerTestSuite) TestCompleteTask() {
	task := suite.createTask("Finish")
	suite.assign(task.ID, suite.workerA.ID)

	w := suite.request(http.MethodPost, fmt.Sprintf("/api/tasks/%d/complete", task.ID), suite.workerAToken, nil)
	suite.Equal(http.StatusForbidden, w.Code)

	w = suite.request(http.MethodPost, fmt.Sprintf("/api/tasks/%d/complete", task.ID), suite.adminToken, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var done dto.TaskDTO
	suite.decode(w, &done)
	suite.Equal(models.TaskStatusDone, done.Status)

	w = suite.request(http.MethodPost, fmt.Sprintf("/api/tasks/%d/assign", task.ID), suite.adminToken, dto.AssignTaskRequest{UserID: suite.workerB.ID})
	suite.Equal(http.StatusConflict, w.Code)
	suite.Equal(apierrors.ErrCodeInvalidTransition, suite.errorCode(w))
}

func (suite *HandlerTestSuite) TestDeleteTask() {
	task := suite.createTask("Delete me")

	w := suite.request(http.MethodDelete, fmt.Sprintf("/api/tasks/%d", task.ID), suite.workerAToken, nil)
	suite.Equal(http.StatusForbidden, w.Code)

	w = suite.request(http.MethodDelete, fmt.Sprintf("/api/tasks/%d", task.ID), suite.adminToken, nil)
	suite.Equal(http.StatusOK, w.Code)

	w = suite.request(http.MethodGet, fmt.Sprintf("/api/tasks/%d", task.ID), suite.adminToken, nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlerTestSuite) TestGenerateTasks_NotConfigured() {
	w := suite.request(http.MethodPost, "/api/tasks/generate", suite.adminToken, dto.GenerateTasksRequest{Text: "Write docs"})

	suite.Equal(http.StatusServiceUnavailable, w.Code)
	suite.Equal(apierrors.ErrCodeServiceUnavailable, suite.errorCode(w))
}
