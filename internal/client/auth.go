package client

import (
	"context"
	"net/http"

	"github.com/yukikurage/task-review-api/internal/dto"
)

// SignUp registers a new account
func (c *Client) SignUp(ctx context.Context, req dto.SignUpRequest) (*dto.UserDTO, error) {
	var user dto.UserDTO
	if err := c.do(ctx, request{method: http.MethodPost, path: "/api/auth/signup", body: req, public: true}, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// SignIn exchanges credentials for a bearer token
func (c *Client) SignIn(ctx context.Context, req dto.SignInRequest) (*dto.AuthResponse, error) {
	var resp dto.AuthResponse
	if err := c.do(ctx, request{method: http.MethodPost, path: "/api/auth/signin", body: req, public: true}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Logout revokes the session's token on the server
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, request{method: http.MethodPost, path: "/api/auth/logout"}, nil)
}

// FetchProfile loads the profile that token belongs to. A rejected token does not
// touch the client's own session.
func (c *Client) FetchProfile(ctx context.Context, token string) (*dto.UserDTO, error) {
	return c.WithSession(staticToken(token)).Profile(ctx)
}
