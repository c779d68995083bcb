package model

import "github.com/golang-jwt/jwt/v5"

// Role decides which routes a user may call
type Role string

const (
	RoleAuthor     Role = "author"
	RoleRespondent Role = "respondent"
)

// UserClaims are JWT claims for an authenticated tenant user
type UserClaims struct {
	UserID   string `json:"userId"`
	TenantID string `json:"tenantId"`
	Role     Role   `json:"role"`
	jwt.RegisteredClaims
}

// LoginRequest is the request body for login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is returned after successful login
type LoginResponse struct {
	Token    string `json:"token"`
	UserID   string `json:"userId"`
	TenantID string `json:"tenantId"`
	Role     Role   `json:"role"`
}
