package handlers

import (
	"net/http"
	"strings"

	"github.com/yukikurage/task-review-api/internal/dto"
	apierrors "github.com/yukikurage/task-review-api/internal/errors"
	"github.com/yukikurage/task-review-api/internal/models"
)

func (suite *HandlerTestSuite) TestSignUp_Success() {
	w := suite.request(http.MethodPost, "/api/auth/signup", "", dto.SignUpRequest{
		FullName: "New Worker",
		Email:    "new@example.com",
		Password: "password123",
		Mobile:   "555-0100",
	})

	suite.Equal(http.StatusCreated, w.Code)
	var user dto.UserDTO
	suite.decode(w, &user)
	suite.Equal("new@example.com", user.Email)
	suite.Equal(models.RoleWorker, user.Role)
	suite.NotContains(w.Body.String(), "password")
}

func (suite *HandlerTestSuite) TestSignUp_Errors() {
	w := suite.request(http.MethodPost, "/api/auth/signup", "", dto.SignUpRequest{Email: "a@example.com", Password: "password123"})
	suite.Equal(http.StatusConflict, w.Code)

	w = suite.request(http.MethodPost, "/api/auth/signup", "", dto.SignUpRequest{Email: "short@example.com", Password: "short"})
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.request(http.MethodPost, "/api/auth/signup", "", dto.SignUpRequest{Email: "long@example.com", Password: strings.Repeat("p", 73)})
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal(apierrors.ErrCodeInvalidInput, suite.errorCode(w))

	w = suite.request(http.MethodPost, "/api/auth/signup", "", dto.SignUpRequest{Email: "not-an-email", Password: "password123"})
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestSignIn_InvalidCredentials() {
	w := suite.request(http.MethodPost, "/api/auth/signin", "", dto.SignInRequest{Email: "a@example.com", Password: "wrong-password"})

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.Equal(apierrors.ErrCodeInvalidCredentials, suite.errorCode(w))
}

func (suite *HandlerTestSuite) TestLogout_RevokesToken() {
	w := suite.request(http.MethodGet, "/api/users/profile", suite.workerAToken, nil)
	suite.Equal(http.StatusOK, w.Code)

	w = suite.request(http.MethodPost, "/api/auth/logout", suite.workerAToken, nil)
	suite.Equal(http.StatusOK, w.Code)

	w = suite.request(http.MethodGet, "/api/users/profile", suite.workerAToken, nil)
	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.Equal(apierrors.ErrCodeUnauthorized, suite.errorCode(w))
}

func (suite *HandlerTestSuite) TestProtectedRoutes_RequireToken() {
	for _, path := range []string{"/api/users/profile", "/api/tasks/visible", "/api/submissions"} {
		w := suite.request(http.MethodGet, path, "", nil)
		suite.Equal(http.StatusUnauthorized, w.Code, path)
	}

	w := suite.request(http.MethodGet, "/api/tasks/visible", "not-a-token", nil)
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *HandlerTestSuite) TestHealth() {
	w := suite.request(http.MethodGet, "/health", "", nil)
	suite.Equal(http.StatusOK, w.Code)
}

func (suite *HandlerTestSuite) TestUnknownRoute_NotFound() {
	w := suite.request(http.MethodGet, "/api/nope", suite.adminToken, nil)
	suite.Equal(http.StatusNotFound, w.Code)
	suite.Equal(apierrors.ErrCodeNotFound, suite.errorCode(w))
}
