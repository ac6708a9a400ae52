// fitness-progression-system/middleware/sse_auth.go
package middleware

import (
	"log"
	"strings"

	"fitness-progression-system/services"

	"github.com/gofiber/fiber/v2"
)

// SSEAuthMiddleware validates `token` and `device_id` from query params via
// AuthServiceClient. EventSource cannot send headers, so the SSE route is
// the one place auth rides on the query string.
//
// Usage:
//
//	app.Get("/user/achievements/stream", middleware.SSEAuthMiddleware(authClient), ledgerService.StreamAchievementsSSE(catalog))
func SSEAuthMiddleware(authClient *services.AuthServiceClient) func(*fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		accessToken := strings.TrimSpace(string(c.Request().URI().QueryArgs().Peek("token")))
		deviceID := strings.TrimSpace(string(c.Request().URI().QueryArgs().Peek("device_id")))

		if accessToken == "" || deviceID == "" {
			log.Printf("[SSEAuth] ❌ Missing query params on %s", c.Path())
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Missing token or device_id in query",
			})
		}

		resp, err := authClient.ValidateToken(accessToken, deviceID)
		if err != nil {
			log.Printf("[SSEAuth] ❌ Validation failed for token (prefix: %.10s...), device %s: %v",
				accessToken, deviceID, err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}

		// Attach to Fiber context under the same keys UserContextMiddleware uses
		c.Locals("user_id", resp.UserID)
		c.Locals("user_roles", resp.Roles)
		c.Locals("device_id", resp.DeviceID)

		log.Printf("[SSEAuth] ✅ Authenticated user %s (device %s)", resp.UserID, resp.DeviceID)
		return c.Next()
	}
}
