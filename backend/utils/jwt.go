package utils

import (
	"strings"
	"time"

	"project/backend/config"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

// GenerateToken issues a signed bearer token with the user's email as
// subject. Expiry is the only invalidation mechanism; tokens are stateless.
func GenerateToken(email string, cfg *config.Config) (string, error) {
	claims := jwt.MapClaims{
		"sub": email,
		"exp": time.Now().Add(time.Duration(cfg.TokenExpireMinutes) * time.Minute).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWTSecret))
}

// ParseTokenSubject verifies a bearer token and returns its subject email.
// Malformed, tampered or expired tokens fail with an AuthError.
func ParseTokenSubject(tokenString string, cfg *config.Config) (string, error) {
	if tokenString == "" {
		return "", NewAuthError("Missing authorization token")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, NewAuthError("Invalid signing method")
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil {
		return "", NewAuthError("Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", NewAuthError("Invalid token claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", NewAuthError("Invalid token subject")
	}

	return sub, nil
}

// TokenFromRequest extracts the bearer token from the Authorization header.
// A bare token without the Bearer prefix is accepted as well.
func TokenFromRequest(c *fiber.Ctx) string {
	header := c.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return header
}
