package session

import (
	"github.com/golang-jwt/jwt/v5"
)

// Email returns the "email" claim of a JWT token without verifying its
// signature. Display only; the API remains the sole judge of validity.
func Email(token string) (string, bool) {
	if token == "" {
		return "", false
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return "", false
	}

	email, ok := claims["email"].(string)
	if !ok || email == "" {
		return "", false
	}
	return email, true
}
