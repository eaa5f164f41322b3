package handlers

import (
	"net/http"
	"strconv"

	"github.com/yukikurage/task-review-api/internal/dto"
)

func (suite *HandlerTestSuite) TestProfile_GetAndUpdate() {
	name := "Worker A"
	w := suite.request(http.MethodPut, "/api/users/profile", suite.workerAToken, dto.UpdateProfileRequest{FullName: &name})
	suite.Equal(http.StatusOK, w.Code)

	w = suite.request(http.MethodGet, "/api/users/profile", suite.workerAToken, nil)
	suite.Equal(http.StatusOK, w.Code)
	var user dto.UserDTO
	suite.decode(w, &user)
	suite.Equal("Worker A", user.FullName)
	suite.Equal(suite.workerA.ID, user.ID)
}

func (suite *HandlerTestSuite) TestListUsers_AdminOnly() {
	w := suite.request(http.MethodGet, "/api/users", suite.adminToken, nil)
	suite.Equal(http.StatusOK, w.Code)
	var resp dto.UserListResponse
	suite.decode(w, &resp)
	suite.Len(resp.Users, 3)

	w = suite.request(http.MethodGet, "/api/users", suite.workerAToken, nil)
	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *HandlerTestSuite) TestDeleteUser() {
	path := "/api/users/" + strconv.FormatUint(suite.workerB.ID, 10)

	w := suite.request(http.MethodDelete, path, suite.workerAToken, nil)
	suite.Equal(http.StatusForbidden, w.Code)

	w = suite.request(http.MethodDelete, path, suite.adminToken, nil)
	suite.Equal(http.StatusOK, w.Code)

	// The deleted user's token no longer resolves.
	w = suite.request(http.MethodGet, "/api/users/profile", suite.workerBToken, nil)
	suite.Equal(http.StatusUnauthorized, w.Code)

	w = suite.request(http.MethodDelete, path, suite.adminToken, nil)
	suite.Equal(http.StatusNotFound, w.Code)

	w = suite.request(http.MethodDelete, "/api/users/abc", suite.adminToken, nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}
