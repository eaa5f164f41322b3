package services

import (
	"strings"

	"github.com/yukikurage/task-review-api/internal/constants"
	apierrors "github.com/yukikurage/task-review-api/internal/errors"
	"golang.org/x/crypto/bcrypt"
)

func (suite *ServiceTestSuite) TestUpdateProfile() {
	name := " Worker A "
	password := "new-password"
	user, err := suite.userService.UpdateProfile(suite.workerA, UpdateProfileInput{FullName: &name, Password: &password})
	suite.Require().NoError(err)
	suite.Equal("Worker A", user.FullName)
	suite.NoError(bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)))

	profile, err := suite.userService.Profile(suite.workerA)
	suite.Require().NoError(err)
	suite.Equal("Worker A", profile.FullName)

	short := "short"
	_, err = suite.userService.UpdateProfile(suite.workerA, UpdateProfileInput{Password: &short})
	suite.ErrorIs(err, ErrPasswordTooShort)

	long := strings.Repeat("p", constants.MaxPasswordLength+1)
	_, err = suite.userService.UpdateProfile(suite.workerA, UpdateProfileInput{Password: &long})
	suite.ErrorIs(err, ErrPasswordTooLong)
}

func (suite *ServiceTestSuite) TestListAndDeleteUsers() {
	users, err := suite.userService.ListUsers(suite.admin)
	suite.Require().NoError(err)
	suite.Len(users, 3)

	_, err = suite.userService.ListUsers(suite.workerA)
	suite.ErrorIs(err, apierrors.ErrForbidden)

	task := suite.createTask("T1", suite.workerA.ID)

	suite.ErrorIs(suite.userService.DeleteUser(suite.workerB, suite.workerA.ID), ErrAdminRequired)
	suite.ErrorIs(suite.userService.DeleteUser(suite.admin, suite.admin.ID), ErrCannotDeleteSelf)
	suite.ErrorIs(suite.userService.DeleteUser(suite.admin, 999), ErrUserNotFound)
	suite.Require().NoError(suite.userService.DeleteUser(suite.admin, suite.workerA.ID))

	reloaded, err := suite.taskService.GetTask(suite.admin, task.ID)
	suite.Require().NoError(err)
	suite.Equal([]uint64{suite.workerA.ID}, reloaded.AssigneeIDs())

	_, err = suite.userService.Profile(suite.workerA)
	suite.ErrorIs(err, apierrors.ErrNotFound)
}

func (suite *ServiceTestSuite) TestDeleteUser_SoleAssigneeKeepsTaskPrivate() {
	task := suite.assignedTask("Private", suite.workerA.ID)
	entries := len(suite.history(task.ID))

	suite.Require().NoError(suite.userService.DeleteUser(suite.admin, suite.workerA.ID))

	_, err := suite.taskService.GetTask(suite.workerB, task.ID)
	suite.ErrorIs(err, ErrTaskNotFound)

	visible, total, err := suite.taskService.ListVisibleTasks(suite.workerB, ListTasksInput{})
	suite.Require().NoError(err)
	suite.Empty(visible)
	suite.Zero(total)

	_, err = suite.submissions.Submit(suite.workerB, SubmitInput{TaskID: task.ID, GitHubLink: "https://github.com/acme/private/pull/1"})
	suite.ErrorIs(err, ErrTaskNotVisible)

	suite.Len(suite.history(task.ID), entries)
}
