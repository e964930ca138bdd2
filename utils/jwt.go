package utils

import (
	"errors"

	"consultbook/config"

	"github.com/golang-jwt/jwt"
)

// ValidateToken parses and validates a token string and returns the token if valid.
func ValidateToken(tokenString string) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Ensure that the token's signing method is HMAC.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(config.AppConfig.JWTSecret), nil
	})
}

// ExtractActorFromToken extracts the actor id (subject) and role claims from
// a valid token string. Tokens are issued by the external auth service; this
// service only validates them.
func ExtractActorFromToken(tokenString string) (actorID, role string, err error) {
	token, err := ValidateToken(tokenString)
	if err != nil {
		return "", "", err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", "", errors.New("invalid token claims")
	}
	actorID, _ = claims["sub"].(string)
	role, _ = claims["role"].(string)
	if actorID == "" || role == "" {
		return "", "", errors.New("token missing subject or role")
	}
	return actorID, role, nil
}
