package middleware

import (
	"github.com/ahmetcoskunkizilkaya/moderation-inbox/internal/config"
	"github.com/ahmetcoskunkizilkaya/moderation-inbox/internal/dto"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
)

// JWTProtected verifies HS256 access tokens issued by the marketplace auth
// service and stores the parsed token under the "user" local.
func JWTProtected(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{
			JWTAlg: jwtware.HS256,
			Key:    []byte(cfg.JWTSecret),
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error:   true,
				Message: "Unauthorized: invalid or expired token",
			})
		},
	})
}

// JWTUnlessAdminToken skips token verification for requests that carry only
// an X-Admin-Token. AdminRequired must run after it to check that token.
func JWTUnlessAdminToken(cfg *config.Config) fiber.Handler {
	verify := JWTProtected(cfg)
	return func(c *fiber.Ctx) error {
		if c.Get(fiber.HeaderAuthorization) == "" && c.Get(AdminTokenHeader) != "" {
			return c.Next()
		}
		return verify(c)
	}
}
