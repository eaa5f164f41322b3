package dto

import (
	"time"

	"github.com/yukikurage/task-review-api/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID        uint64          `json:"id"`
	FullName  string          `json:"full_name"`
	Email     string          `json:"email"`
	Mobile    string          `json:"mobile"`
	Role      models.UserRole `json:"role"`
	CreatedAt time.Time       `json:"created_at"`
}

// IsAdmin reports whether the user holds the ADMIN role
func (u UserDTO) IsAdmin() bool {
	return u.Role == models.RoleAdmin
}

// IsWorker reports whether the user holds the WORKER role
func (u UserDTO) IsWorker() bool {
	return u.Role == models.RoleWorker
}

// UserListResponse represents a list of users
type UserListResponse struct {
	Users []UserDTO `json:"users"`
}

// SignUpRequest represents the sign up payload
type SignUpRequest struct {
	FullName string          `json:"full_name"`
	Email    string          `json:"email" binding:"required,email"`
	Password string          `json:"password" binding:"required"`
	Mobile   string          `json:"mobile"`
	Role     models.UserRole `json:"role"`
}

// SignInRequest represents the sign in payload
type SignInRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse is returned by a successful sign in
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      UserDTO   `json:"user"`
}

// UpdateProfileRequest represents a partial profile update
type UpdateProfileRequest struct {
	FullName *string `json:"full_name"`
	Mobile   *string `json:"mobile"`
	Password *string `json:"password"`
}

// MessageResponse carries a plain confirmation message
type MessageResponse struct {
	Message string `json:"message"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:        user.ID,
		FullName:  user.FullName,
		Email:     user.Email,
		Mobile:    user.Mobile,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}
}

// ToUserListResponse converts users to a UserListResponse
func ToUserListResponse(users []models.User) UserListResponse {
	items := make([]UserDTO, len(users))
	for i, user := range users {
		items[i] = ToUserDTO(user)
	}
	return UserListResponse{Users: items}
}
