package dto

import (
	"time"

	"github.com/ledgerly/ledgerly_backend/internal/core/domain"
)

// --- Auth DTOs ---

// RegisterRequest creates a new org together with its first admin user.
type RegisterRequest struct {
	OrgName  string `json:"org_name" binding:"required,min=2,max=255"`
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"omitempty,max=255"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginRequest authenticates an existing user by email and password.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse carries the issued bearer token.
type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// --- User DTOs ---

// UserResponse defines data returned for a user.
type UserResponse struct {
	ID        string    `json:"id"`
	OrgID     string    `json:"org_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// ToUserResponse converts domain.User to DTO.
func ToUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.UserID,
		OrgID:     u.OrgID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}

// ToListUsersResponse converts a slice of domain.User to DTOs.
func ToListUsersResponse(users []domain.User) []UserResponse {
	list := make([]UserResponse, len(users))
	for i := range users {
		list[i] = ToUserResponse(&users[i])
	}
	return list
}
