package models

import "time"

// Role is the privilege level carried in access tokens
type Role int

const (
	RoleUser  Role = 1
	RoleAdmin Role = 2
)

// User represents an account that can buy courses and track progress
type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// RegisterRequest represents a request to create an account
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=150,alphanum"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// LoginRequest represents a request to obtain a token pair
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest represents a request to exchange a refresh token for a new pair
type RefreshRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

// TokenResponse is returned by register, login and refresh
type TokenResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}
