package model

import "github.com/golang-jwt/jwt/v5"

// UserClaims are JWT claims for an authenticated diary user
type UserClaims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// RegisterRequest is the request body for sign-up
type RegisterRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
}

// LoginRequest is the request body for login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is returned after successful login or registration
type LoginResponse struct {
	Token    string `json:"token"`
	UserID   string `json:"userId"`
	PublicID string `json:"publicId"`
}
