package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

var ErrNoIdentity = errors.New("missing identity in token")

// Identity is the caller as described by the verified access token.
type Identity struct {
	ID    string
	Name  string
	Email string
	Role  string
}

// GetIdentity extracts the caller from the JWT stored by JWTProtected.
func GetIdentity(c *fiber.Ctx) (Identity, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok || token == nil {
		return Identity{}, ErrNoIdentity
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, ErrNoIdentity
	}

	sub, _ := claims["sub"].(string)
	if strings.TrimSpace(sub) == "" {
		return Identity{}, ErrNoIdentity
	}
	id := Identity{ID: sub}
	id.Name, _ = claims["name"].(string)
	id.Email, _ = claims["email"].(string)
	id.Role, _ = claims["role"].(string)
	return id, nil
}

// BearerToken returns the raw token from the Authorization header.
func BearerToken(c *fiber.Ctx) string {
	auth := c.Get(fiber.HeaderAuthorization)
	if len(auth) > 7 && strings.EqualFold(auth[:7], "bearer ") {
		return auth[7:]
	}
	return ""
}
