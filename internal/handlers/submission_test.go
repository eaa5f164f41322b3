package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"

	"github.com/yukikurage/task-review-api/internal/dto"
	apierrors "github.com/yukikurage/task-review-api/internal/errors"
	"github.com/yukikurage/task-review-api/internal/models"
)

const testLink = "https://github.com/example/solution"

func (suite *HandlerTestSuite) submit(taskID uint64, token string) dto.SubmissionDTO {
	w := suite.request(http.MethodPost, fmt.Sprintf("/api/tasks/%d/submissions", taskID), token, dto.SubmitRequest{GitHubLink: testLink})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var submission dto.SubmissionDTO
	suite.decode(w, &submission)
	return submission
}

func (suite *HandlerTestSuite) review(submissionID uint64, status models.SubmissionStatus) *httptest.ResponseRecorder {
	return suite.request(http.MethodPost, fmt.Sprintf("/api/submissions/%d/review", submissionID), suite.adminToken, dto.ReviewRequest{Status: status})
}

func (suite *HandlerTestSuite) assignedTask(title string, userIDs ...uint64) dto.TaskDTO {
	task := suite.createTask(title)
	for _, id := range userIDs {
		task = suite.assign(task.ID, id)
	}
	return task
}

func (suite *HandlerTestSuite) TestSubmit_RejectThenAccept() {
	task := suite.assignedTask("Review flow", suite.workerA.ID)

	first := suite.submit(task.ID, suite.workerAToken)
	suite.Equal(models.SubmissionStatusPending, first.Status)
	suite.Equal(testLink, first.GitHubLink)

	res := suite.review(first.ID, models.SubmissionStatusRejected)
	suite.Require().Equal(http.StatusOK, res.Code)

	second := suite.submit(task.ID, suite.workerAToken)
	suite.NotEqual(first.ID, second.ID)

	res = suite.review(second.ID, models.SubmissionStatusAccepted)
	suite.Require().Equal(http.StatusOK, res.Code)

	w := suite.request(http.MethodGet, fmt.Sprintf("/api/tasks/%d", task.ID), suite.adminToken, nil)
	var done dto.TaskDTO
	suite.decode(w, &done)
	suite.Equal(models.TaskStatusDone, done.Status)

	// Accepted submissions are final and the task no longer takes submissions.
	res = suite.review(second.ID, models.SubmissionStatusRejected)
	suite.Equal(http.StatusConflict, res.Code)

	w = suite.request(http.MethodPost, fmt.Sprintf("/api/tasks/%d/submissions", task.ID), suite.workerAToken, dto.SubmitRequest{GitHubLink: testLink})
	suite.Equal(http.StatusUnprocessableEntity, w.Code)

	w = suite.request(http.MethodGet, fmt.Sprintf("/api/tasks/%d/submissions", task.ID), suite.workerAToken, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var list dto.SubmissionListResponse
	suite.decode(w, &list)
	suite.Require().Len(list.Submissions, 2)
	suite.Equal(second.ID, list.Submissions[0].ID)
	suite.Equal(models.SubmissionStatusAccepted, list.Submissions[0].Status)
	suite.Equal(models.SubmissionStatusRejected, list.Submissions[1].Status)
}

func (suite *HandlerTestSuite) TestSubmit_NotEligible() {
	pending := suite.createTask("Still pending")
	w := suite.request(http.MethodPost, fmt.Sprintf("/api/tasks/%d/submissions", pending.ID), suite.workerAToken, dto.SubmitRequest{GitHubLink: testLink})
	suite.Equal(http.StatusUnprocessableEntity, w.Code)
	suite.Equal(apierrors.ErrCodeNotEligible, suite.errorCode(w))

	task := suite.assignedTask("Only A", suite.workerA.ID)
	w = suite.request(http.MethodPost, fmt.Sprintf("/api/tasks/%d/submissions", task.ID), suite.workerBToken, dto.SubmitRequest{GitHubLink: testLink})
	suite.Equal(http.StatusUnprocessableEntity, w.Code)

	w = suite.request(http.MethodPost, fmt.Sprintf("/api/tasks/%d/submissions", task.ID), suite.adminToken, dto.SubmitRequest{GitHubLink: testLink})
	suite.Equal(http.StatusForbidden, w.Code)

	w = suite.request(http.MethodPost, fmt.Sprintf("/api/tasks/%d/submissions", task.ID), suite.workerAToken, dto.SubmitRequest{GitHubLink: "not a link"})
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.request(http.MethodPost, "/api/tasks/9999/submissions", suite.workerAToken, dto.SubmitRequest{GitHubLink: testLink})
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlerTestSuite) TestReview_Validation() {
	task := suite.assignedTask("Validate", suite.workerA.ID)
	submission := suite.submit(task.ID, suite.workerAToken)

	res := suite.review(submission.ID, models.SubmissionStatusPending)
	suite.Equal(http.StatusBadRequest, res.Code)

	res = suite.review(9999, models.SubmissionStatusAccepted)
	suite.Equal(http.StatusNotFound, res.Code)

	w := suite.request(http.MethodPost, fmt.Sprintf("/api/submissions/%d/review", submission.ID), suite.workerAToken, dto.ReviewRequest{Status: models.SubmissionStatusAccepted})
	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *HandlerTestSuite) TestGetSubmission_Access() {
	task := suite.assignedTask("Shared", suite.workerA.ID, suite.workerB.ID)
	submission := suite.submit(task.ID, suite.workerAToken)
	path := fmt.Sprintf("/api/submissions/%d", submission.ID)

	w := suite.request(http.MethodGet, path, suite.workerAToken, nil)
	suite.Equal(http.StatusOK, w.Code)

	w = suite.request(http.MethodGet, path, suite.adminToken, nil)
	suite.Equal(http.StatusOK, w.Code)

	w = suite.request(http.MethodGet, path, suite.workerBToken, nil)
	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *HandlerTestSuite) TestListSubmissions_AdminOnly() {
	task := suite.assignedTask("Everything", suite.workerA.ID, suite.workerB.ID)
	suite.submit(task.ID, suite.workerAToken)
	suite.submit(task.ID, suite.workerBToken)

	w := suite.request(http.MethodGet, "/api/submissions", suite.adminToken, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var list dto.SubmissionListResponse
	suite.decode(w, &list)
	suite.Equal(int64(2), list.TotalCount)

	w = suite.request(http.MethodGet, "/api/submissions", suite.workerAToken, nil)
	suite.Equal(http.StatusForbidden, w.Code)

	// Workers listing a task only see their own submissions.
	w = suite.request(http.MethodGet, fmt.Sprintf("/api/tasks/%d/submissions", task.ID), suite.workerBToken, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.decode(w, &list)
	suite.Require().Len(list.Submissions, 1)
	suite.Equal(suite.workerB.ID, list.Submissions[0].UserID)
}

func (suite *HandlerTestSuite) TestComments_Thread() {
	task := suite.assignedTask("Discuss", suite.workerA.ID)
	submission := suite.submit(task.ID, suite.workerAToken)
	path := fmt.Sprintf("/api/submissions/%d/comments", submission.ID)

	w := suite.request(http.MethodPost, path, suite.adminToken, dto.AddCommentRequest{Comment: "Please add tests"})
	suite.Require().Equal(http.StatusCreated, w.Code)

	w = suite.request(http.MethodPost, path, suite.workerAToken, dto.AddCommentRequest{Comment: "Done"})
	suite.Require().Equal(http.StatusCreated, w.Code)

	w = suite.request(http.MethodPost, path, suite.workerAToken, dto.AddCommentRequest{Comment: "   "})
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.request(http.MethodPost, path, suite.workerBToken, dto.AddCommentRequest{Comment: "Not mine"})
	suite.Equal(http.StatusForbidden, w.Code)

	w = suite.request(http.MethodGet, path, suite.workerAToken, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var thread dto.CommentListResponse
	suite.decode(w, &thread)
	suite.Require().Len(thread.Comments, 2)
	suite.Equal("Please add tests", thread.Comments[0].Comment)
	suite.Equal("Done", thread.Comments[1].Comment)
}
