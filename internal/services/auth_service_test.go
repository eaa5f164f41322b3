package services

import (
	"context"
	"strings"

	"github.com/yukikurage/task-review-api/internal/constants"
	apierrors "github.com/yukikurage/task-review-api/internal/errors"
	"github.com/yukikurage/task-review-api/internal/models"
)

func (suite *ServiceTestSuite) TestSignUp() {
	user, err := suite.authService.SignUp(SignUpInput{
		FullName: " New Worker ",
		Email:    " New@Example.com ",
		Password: "password123",
	})
	suite.Require().NoError(err)
	suite.Equal("new@example.com", user.Email)
	suite.Equal("New Worker", user.FullName)
	suite.Equal(models.RoleWorker, user.Role)
	suite.NotEqual("password123", user.PasswordHash)

	_, err = suite.authService.SignUp(SignUpInput{Email: "new@example.com", Password: "password123"})
	suite.ErrorIs(err, ErrEmailTaken)
	suite.ErrorIs(err, apierrors.ErrConflict)

	_, err = suite.authService.SignUp(SignUpInput{Email: "short@example.com", Password: "short"})
	suite.ErrorIs(err, ErrPasswordTooShort)

	_, err = suite.authService.SignUp(SignUpInput{Email: "long@example.com", Password: strings.Repeat("p", constants.MaxPasswordLength+1)})
	suite.ErrorIs(err, ErrPasswordTooLong)
	suite.ErrorIs(err, apierrors.ErrValidation)

	_, err = suite.authService.SignUp(SignUpInput{Email: "limit@example.com", Password: strings.Repeat("p", constants.MaxPasswordLength)})
	suite.NoError(err)

	_, err = suite.authService.SignUp(SignUpInput{Email: " ", Password: "password123"})
	suite.ErrorIs(err, ErrEmailRequired)

	_, err = suite.authService.SignUp(SignUpInput{Email: "owner@example.com", Password: "password123", Role: "OWNER"})
	suite.ErrorIs(err, ErrInvalidRole)

	admin, err := suite.authService.SignUp(SignUpInput{Email: "boss@example.com", Password: "password123", Role: models.RoleAdmin})
	suite.Require().NoError(err)
	suite.True(admin.IsAdmin())
}

func (suite *ServiceTestSuite) TestSignIn_AuthenticateLogout() {
	ctx := context.Background()
	_, err := suite.authService.SignUp(SignUpInput{Email: "w@example.com", Password: "password123"})
	suite.Require().NoError(err)

	_, err = suite.authService.SignIn(SignInInput{Email: "w@example.com", Password: "wrong-password"})
	suite.ErrorIs(err, apierrors.ErrInvalidCredentials)
	_, err = suite.authService.SignIn(SignInInput{Email: "nobody@example.com", Password: "password123"})
	suite.ErrorIs(err, ErrInvalidCredentials)

	result, err := suite.authService.SignIn(SignInInput{Email: "W@example.com", Password: "password123"})
	suite.Require().NoError(err)
	suite.NotEmpty(result.Token)
	suite.True(result.ExpiresAt.After(result.User.CreatedAt))

	user, claims, err := suite.authService.Authenticate(ctx, result.Token)
	suite.Require().NoError(err)
	suite.Equal(result.User.ID, user.ID)

	suite.Require().NoError(suite.authService.Logout(ctx, claims))
	_, _, err = suite.authService.Authenticate(ctx, result.Token)
	suite.ErrorIs(err, apierrors.ErrUnauthorized)

	_, _, err = suite.authService.Authenticate(ctx, "garbage")
	suite.ErrorIs(err, ErrInvalidToken)
}

func (suite *ServiceTestSuite) TestAuthenticate_DeletedUser() {
	ctx := context.Background()
	_, err := suite.authService.SignUp(SignUpInput{Email: "gone@example.com", Password: "password123"})
	suite.Require().NoError(err)
	result, err := suite.authService.SignIn(SignInInput{Email: "gone@example.com", Password: "password123"})
	suite.Require().NoError(err)

	suite.Require().NoError(suite.userService.DeleteUser(suite.admin, result.User.ID))

	_, _, err = suite.authService.Authenticate(ctx, result.Token)
	suite.ErrorIs(err, ErrInvalidToken)
}
