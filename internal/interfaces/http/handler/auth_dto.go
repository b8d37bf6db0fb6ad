package handler

import (
	"time"

	"github.com/smartshop/backend/internal/application/identity"
)

// RegisterRequest is the request body for user registration
type RegisterRequest struct {
	Username    string `json:"username" binding:"required,min=3,max=50"`
	Password    string `json:"password" binding:"required,min=8,max=128"`
	Role        string `json:"role" binding:"required,oneof=customer shopkeeper"`
	DisplayName string `json:"display_name" binding:"omitempty,max=200"`
	Email       string `json:"email" binding:"omitempty,email,max=254"`
	Phone       string `json:"phone" binding:"omitempty,max=50"`
	ShopName    string `json:"shop_name" binding:"omitempty,max=200"`
}

// LoginRequest is the request body for login
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshTokenRequest is the request body for token refresh
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// ChangePasswordRequest is the request body for password change
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=128"`
}

// UserResponse is the API representation of a user
type UserResponse struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Role        string `json:"role"`
	ShopName    string `json:"shop_name,omitempty"`
}

// TokenResponse carries an issued token pair
type TokenResponse struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
}

// LoginResponse is the response body for a successful login
type LoginResponse struct {
	TokenResponse
	User UserResponse `json:"user"`
}

func toUserResponse(info identity.UserInfo) UserResponse {
	return UserResponse{
		ID:          info.ID.String(),
		Username:    info.Username,
		DisplayName: info.DisplayName,
		Email:       info.Email,
		Phone:       info.Phone,
		Role:        string(info.Role),
		ShopName:    info.ShopName,
	}
}
