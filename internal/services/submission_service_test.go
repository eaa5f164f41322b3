package services

import (
	apierrors "github.com/yukikurage/task-review-api/internal/errors"
	"github.com/yukikurage/task-review-api/internal/models"
)

func (suite *ServiceTestSuite) submit(worker *models.User, taskID uint64, link string) *models.Submission {
	submission, err := suite.submissions.Submit(worker, SubmitInput{TaskID: taskID, GitHubLink: link})
	suite.Require().NoError(err)
	return submission
}

func (suite *ServiceTestSuite) TestReviewFlow_RejectThenAccept() {
	task := suite.createTask("T1")

	visible, _, err := suite.taskService.ListVisibleTasks(suite.workerB, ListTasksInput{})
	suite.Require().NoError(err)
	suite.Require().Len(visible, 1)

	task, err = suite.taskService.AssignTask(suite.admin, task.ID, suite.workerA.ID)
	suite.Require().NoError(err)
	suite.Equal(models.TaskStatusAssigned, task.Status)

	s1 := suite.submit(suite.workerA, task.ID, "https://github.com/a/repo")
	suite.Equal(models.SubmissionStatusPending, s1.Status)

	reviewed, err := suite.submissions.Review(suite.admin, s1.ID, models.SubmissionStatusRejected)
	suite.Require().NoError(err)
	suite.Equal(models.SubmissionStatusRejected, reviewed.Status)

	task, err = suite.taskService.GetTask(suite.admin, task.ID)
	suite.Require().NoError(err)
	suite.Equal(models.TaskStatusAssigned, task.Status)

	s2 := suite.submit(suite.workerA, task.ID, "https://github.com/a/repo-v2")
	suite.NotEqual(s1.ID, s2.ID)

	_, err = suite.submissions.Review(suite.admin, s2.ID, models.SubmissionStatusAccepted)
	suite.Require().NoError(err)

	task, err = suite.taskService.GetTask(suite.admin, task.ID)
	suite.Require().NoError(err)
	suite.Equal(models.TaskStatusDone, task.Status)

	var statusChanges [][2]string
	for _, e := range suite.history(task.ID) {
		if e.FieldChanged == models.FieldStatus {
			statusChanges = append(statusChanges, [2]string{e.OldValue, e.NewValue})
		}
	}
	suite.Equal([][2]string{{"PENDING", "ASSIGNED"}, {"ASSIGNED", "DONE"}}, statusChanges)

	// Both submissions are kept.
	list, total, err := suite.submissions.ListForTask(suite.workerA, task.ID, ListSubmissionsInput{Page: 1, PageSize: 20})
	suite.Require().NoError(err)
	suite.Equal(int64(2), total)
	suite.Equal(s2.ID, list[0].ID)
}

func (suite *ServiceTestSuite) TestSubmit_NotEligible() {
	task := suite.assignedTask("T1", suite.workerA.ID)

	_, err := suite.submissions.Submit(suite.workerB, SubmitInput{TaskID: task.ID, GitHubLink: "https://github.com/b/repo"})
	suite.ErrorIs(err, ErrTaskNotVisible)
	suite.ErrorIs(err, apierrors.ErrNotEligible)

	pending := suite.createTask("Pending")
	_, err = suite.submissions.Submit(suite.workerA, SubmitInput{TaskID: pending.ID, GitHubLink: "https://github.com/a/repo"})
	suite.ErrorIs(err, ErrTaskNotAssigned)

	s := suite.submit(suite.workerA, task.ID, "https://github.com/a/repo")
	_, err = suite.submissions.Review(suite.admin, s.ID, models.SubmissionStatusAccepted)
	suite.Require().NoError(err)

	// Reopen the task so only the accepted submission blocks resubmission.
	assigned := models.TaskStatusAssigned
	_, err = suite.taskService.UpdateTask(suite.admin, task.ID, UpdateTaskInput{Status: &assigned})
	suite.Require().NoError(err)

	_, err = suite.submissions.Submit(suite.workerA, SubmitInput{TaskID: task.ID, GitHubLink: "https://github.com/a/again"})
	suite.ErrorIs(err, ErrAlreadyAccepted)
}

func (suite *ServiceTestSuite) TestSubmit_Validation() {
	task := suite.assignedTask("T1", suite.workerA.ID)

	_, err := suite.submissions.Submit(suite.admin, SubmitInput{TaskID: task.ID, GitHubLink: "https://github.com/a/repo"})
	suite.ErrorIs(err, ErrWorkerRequired)

	for _, link := range []string{"", "github.com/a/repo", "ftp://github.com/a", "https://"} {
		_, err = suite.submissions.Submit(suite.workerA, SubmitInput{TaskID: task.ID, GitHubLink: link})
		suite.ErrorIs(err, ErrInvalidGitHubLink, link)
	}

	_, err = suite.submissions.Submit(suite.workerA, SubmitInput{TaskID: 999, GitHubLink: "https://github.com/a/repo"})
	suite.ErrorIs(err, ErrTaskNotFound)
}

func (suite *ServiceTestSuite) TestBroadcastTask_AnyWorkerMaySubmit() {
	task := suite.createTask("Broadcast")
	assigned := models.TaskStatusAssigned
	_, err := suite.taskService.UpdateTask(suite.admin, task.ID, UpdateTaskInput{Status: &assigned})
	suite.Require().NoError(err)

	suite.submit(suite.workerB, task.ID, "https://github.com/b/repo")
}

func (suite *ServiceTestSuite) TestReview_Policy() {
	task := suite.assignedTask("T1", suite.workerA.ID)
	s := suite.submit(suite.workerA, task.ID, "https://github.com/a/repo")

	_, err := suite.submissions.Review(suite.workerA, s.ID, models.SubmissionStatusAccepted)
	suite.ErrorIs(err, ErrAdminRequired)

	_, err = suite.submissions.Review(suite.admin, s.ID, models.SubmissionStatusPending)
	suite.ErrorIs(err, ErrInvalidReviewOutcome)

	_, err = suite.submissions.Review(suite.admin, 999, models.SubmissionStatusRejected)
	suite.ErrorIs(err, ErrSubmissionNotFound)

	// Rejected submissions may be reviewed again.
	_, err = suite.submissions.Review(suite.admin, s.ID, models.SubmissionStatusRejected)
	suite.Require().NoError(err)
	_, err = suite.submissions.Review(suite.admin, s.ID, models.SubmissionStatusAccepted)
	suite.Require().NoError(err)

	_, err = suite.submissions.Review(suite.admin, s.ID, models.SubmissionStatusRejected)
	suite.ErrorIs(err, apierrors.ErrInvalidTransition)
}

func (suite *ServiceTestSuite) TestReview_AcceptIsAtomicWithCompletion() {
	task := suite.assignedTask("T1", suite.workerA.ID)
	s := suite.submit(suite.workerA, task.ID, "https://github.com/a/repo")

	// Completing the task fails once the audit table is gone.
	suite.Require().NoError(suite.db.Migrator().DropTable(&models.TaskHistory{}))

	_, err := suite.submissions.Review(suite.admin, s.ID, models.SubmissionStatusAccepted)
	suite.Require().Error(err)

	suite.Require().NoError(suite.db.AutoMigrate(&models.TaskHistory{}))

	stored, err := suite.submissions.GetSubmission(suite.admin, s.ID)
	suite.Require().NoError(err)
	suite.Equal(models.SubmissionStatusPending, stored.Status)

	reloaded, err := suite.taskService.GetTask(suite.admin, task.ID)
	suite.Require().NoError(err)
	suite.Equal(models.TaskStatusAssigned, reloaded.Status)

	// The failed attempt does not lock the submission.
	accepted, err := suite.submissions.Review(suite.admin, s.ID, models.SubmissionStatusAccepted)
	suite.Require().NoError(err)
	suite.Equal(models.SubmissionStatusAccepted, accepted.Status)

	reloaded, err = suite.taskService.GetTask(suite.admin, task.ID)
	suite.Require().NoError(err)
	suite.Equal(models.TaskStatusDone, reloaded.Status)

	// The recreated audit table holds only the completion.
	history := suite.history(task.ID)
	suite.Require().Len(history, 1)
	suite.Equal(models.FieldStatus, history[0].FieldChanged)
	suite.Equal(string(models.TaskStatusDone), history[0].NewValue)
}

func (suite *ServiceTestSuite) TestSubmissionReads_Access() {
	task := suite.createTask("Broadcast")
	assigned := models.TaskStatusAssigned
	_, err := suite.taskService.UpdateTask(suite.admin, task.ID, UpdateTaskInput{Status: &assigned})
	suite.Require().NoError(err)

	sa := suite.submit(suite.workerA, task.ID, "https://github.com/a/repo")
	suite.submit(suite.workerB, task.ID, "https://github.com/b/repo")

	mine, total, err := suite.submissions.ListForTask(suite.workerA, task.ID, ListSubmissionsInput{})
	suite.Require().NoError(err)
	suite.Equal(int64(1), total)
	suite.Equal(sa.ID, mine[0].ID)

	_, total, err = suite.submissions.ListForTask(suite.admin, task.ID, ListSubmissionsInput{})
	suite.Require().NoError(err)
	suite.Equal(int64(2), total)

	_, total, err = suite.submissions.ListAll(suite.admin, ListSubmissionsInput{Page: 1, PageSize: 1})
	suite.Require().NoError(err)
	suite.Equal(int64(2), total)

	_, _, err = suite.submissions.ListAll(suite.workerA, ListSubmissionsInput{})
	suite.ErrorIs(err, ErrAdminRequired)

	_, err = suite.submissions.GetSubmission(suite.workerA, sa.ID)
	suite.NoError(err)
	_, err = suite.submissions.GetSubmission(suite.workerB, sa.ID)
	suite.ErrorIs(err, ErrSubmissionAccessDenied)
	_, err = suite.submissions.GetSubmission(suite.admin, sa.ID)
	suite.NoError(err)

	private := suite.createTask("Private", suite.workerA.ID)
	_, _, err = suite.submissions.ListForTask(suite.workerB, private.ID, ListSubmissionsInput{})
	suite.ErrorIs(err, ErrTaskNotFound)
}
