package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// RegisterRequest creates an account. Students must name their college.
type RegisterRequest struct {
	Email     string   `json:"email" validate:"required,email"`
	Password  string   `json:"password" validate:"required,min=6"`
	Name      string   `json:"name" validate:"required"`
	UserType  UserType `json:"user_type" validate:"required,oneof=admin student"`
	CollegeID string   `json:"college_id" validate:"required_if=UserType student"`
}

// LoginRequest holds credentials for authenticating a user.
type LoginRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	IP        string `json:"-"`
	UserAgent string `json:"-"`
}

// LoginResponse carries the bearer token and the account it belongs to.
type LoginResponse struct {
	AccessToken string   `json:"access_token"`
	TokenType   string   `json:"token_type"`
	ExpiresIn   int64    `json:"expires_in"`
	UserType    UserType `json:"user_type"`
	User        UserInfo `json:"user"`
}

// ChangePasswordRequest payload for updating password.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

// UserInfo describes the authenticated user in responses.
type UserInfo struct {
	ID        string   `json:"id"`
	Email     string   `json:"email"`
	Name      string   `json:"name"`
	UserType  UserType `json:"user_type"`
	CollegeID string   `json:"college_id,omitempty"`
}

// NewUserInfo projects a user row.
func NewUserInfo(u *User) UserInfo {
	return UserInfo{ID: u.ID, Email: u.Email, Name: u.Name, UserType: u.UserType, CollegeID: u.College()}
}

// JWTClaims represents the JWT payload for access tokens.
type JWTClaims struct {
	UserID    string   `json:"user_id"`
	UserType  UserType `json:"user_type"`
	Email     string   `json:"email"`
	Name      string   `json:"name"`
	CollegeID string   `json:"college_id,omitempty"`
	jwt.RegisteredClaims
}
