package services

import (
	apierrors "github.com/yukikurage/task-review-api/internal/errors"
)

func (suite *ServiceTestSuite) TestComments() {
	task := suite.assignedTask("T1", suite.workerA.ID)
	s := suite.submit(suite.workerA, task.ID, "https://github.com/a/repo")

	_, err := suite.comments.AddComment(suite.admin, s.ID, "   ")
	suite.ErrorIs(err, ErrCommentEmpty)
	suite.ErrorIs(err, apierrors.ErrValidation)

	first, err := suite.comments.AddComment(suite.admin, s.ID, "  Please add tests  ")
	suite.Require().NoError(err)
	suite.Equal("Please add tests", first.Comment)

	_, err = suite.comments.AddComment(suite.workerA, s.ID, "Done")
	suite.Require().NoError(err)

	_, err = suite.comments.AddComment(suite.workerB, s.ID, "me too")
	suite.ErrorIs(err, apierrors.ErrForbidden)

	_, err = suite.comments.AddComment(suite.admin, 999, "hello")
	suite.ErrorIs(err, ErrSubmissionNotFound)

	comments, err := suite.comments.ListComments(suite.workerA, s.ID)
	suite.Require().NoError(err)
	suite.Require().Len(comments, 2)
	suite.Equal("Please add tests", comments[0].Comment)
	suite.Equal("Done", comments[1].Comment)

	_, err = suite.comments.ListComments(suite.workerB, s.ID)
	suite.ErrorIs(err, ErrSubmissionAccessDenied)
}
