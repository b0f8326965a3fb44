package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

// AdminClaims represents the typed JWT issued after a successful admin login.
type AdminClaims struct {
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
	jwt.RegisteredClaims
}
