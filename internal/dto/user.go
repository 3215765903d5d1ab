package dto

import (
	"time"

	"github.com/Anurag-933/simplebank/internal/core/domain"
)

// RegisterUserRequest defines the data needed to register a new user.
type RegisterUserRequest struct {
	FullName string `json:"fullName" binding:"required"`
	Username string `json:"username" binding:"required,min=3,max=50"`
	Password string `json:"password" binding:"required,min=4"`
}

// LoginRequest defines the data needed for username/password login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse defines the data returned after a successful login.
type LoginResponse struct {
	UserID     string    `json:"userID"`
	Username   string    `json:"username"`
	IsReviewer bool      `json:"isReviewer"`
	Token      string    `json:"token"`
	ExpiresAt  time.Time `json:"expiresAt"`
}

// UserResponse defines the data returned for a user.
type UserResponse struct {
	UserID     string    `json:"userID"`
	FullName   string    `json:"fullName"`
	Username   string    `json:"username"`
	IsReviewer bool      `json:"isReviewer"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ToUserResponse converts a domain.User to UserResponse DTO.
func ToUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		UserID:     user.UserID,
		FullName:   user.FullName,
		Username:   user.Username,
		IsReviewer: user.IsReviewer,
		CreatedAt:  user.CreatedAt,
	}
}
