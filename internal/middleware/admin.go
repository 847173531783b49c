package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/ahmetcoskunkizilkaya/moderation-inbox/internal/config"
	"github.com/ahmetcoskunkizilkaya/moderation-inbox/internal/dto"
	"github.com/gofiber/fiber/v2"
)

// AdminTokenHeader carries the shared admin token used by automation.
const AdminTokenHeader = "X-Admin-Token"

// AdminRequired lets a verified caller through when any of these holds:
// 1. the X-Admin-Token header matches the configured admin token
// 2. the token email or subject is in the configured admin lists
// 3. the token carries role "admin" or "moderator"
func AdminRequired(cfg *config.Config) fiber.Handler {
	adminEmails := parseCSV(cfg.AdminEmails)
	adminUserIDs := parseCSV(cfg.AdminUserIDs)

	return func(c *fiber.Ctx) error {
		if cfg.AdminToken != "" {
			if subtle.ConstantTimeCompare([]byte(c.Get(AdminTokenHeader)), []byte(cfg.AdminToken)) == 1 {
				return c.Next()
			}
		}

		id, err := GetIdentity(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		if contains(adminEmails, id.Email) || contains(adminUserIDs, id.ID) {
			return c.Next()
		}
		if id.Role == "admin" || id.Role == "moderator" {
			return c.Next()
		}

		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "Admin access required",
		})
	}
}

func parseCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func contains(list []string, val string) bool {
	if val == "" {
		return false
	}
	for _, item := range list {
		if item == val {
			return true
		}
	}
	return false
}
