package models

import "github.com/golang-jwt/jwt/v5"

// UserClaims is the JWT payload carried between the auth service and the
// middleware. The session context the handlers operate on is built from
// these claims; no global "current user" state exists.
type UserClaims struct {
	jwt.RegisteredClaims
	UserID       uint   `json:"user_id"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	TokenVersion int    `json:"token_version"`
}
