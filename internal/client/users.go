package client

import (
	"context"
	"net/http"

	"github.com/yukikurage/task-review-api/internal/dto"
)

// Profile returns the caller's profile
func (c *Client) Profile(ctx context.Context) (*dto.UserDTO, error) {
	var user dto.UserDTO
	if err := c.do(ctx, request{method: http.MethodGet, path: "/api/users/profile"}, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile edits the caller's own profile
func (c *Client) UpdateProfile(ctx context.Context, req dto.UpdateProfileRequest) (*dto.UserDTO, error) {
	var user dto.UserDTO
	if err := c.do(ctx, request{method: http.MethodPut, path: "/api/users/profile", body: req}, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ListUsers lists every account (admin only)
func (c *Client) ListUsers(ctx context.Context) ([]dto.UserDTO, error) {
	var resp dto.UserListResponse
	if err := c.do(ctx, request{method: http.MethodGet, path: "/api/users"}, &resp); err != nil {
		return nil, err
	}
	return resp.Users, nil
}

// DeleteUser removes an account (admin only)
func (c *Client) DeleteUser(ctx context.Context, userID uint64) error {
	return c.do(ctx, request{method: http.MethodDelete, path: idPath("/api/users/%d", userID)}, nil)
}
