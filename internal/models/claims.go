package models

import "github.com/golang-jwt/jwt/v5"

// UserClaims is the JWT payload. Core operations trust UserID from here
// and never accept a caller-asserted user id.
type UserClaims struct {
	jwt.RegisteredClaims
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
}
