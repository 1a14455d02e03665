package models

import "roomalchemy/internal/policy"

// User is an authenticated account as returned to clients.
type User struct {
	ID    string      `json:"id"`
	Email string      `json:"email"`
	Role  policy.Role `json:"role"`
	Name  string      `json:"name"`
}

// Identity is the verified caller attached to a request after token checks.
type Identity struct {
	UserID string
	Email  string
	Role   policy.Role
	Token  string
}

// LoginRequest is the POST /auth/login body.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult is the POST /auth/login success payload.
type LoginResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
