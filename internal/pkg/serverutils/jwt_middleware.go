package serverutils

import (
	"github.com/gofiber/fiber/v2"
)

const SessionIdLocal = "session_id"

// SessionTokenMiddleware accepts a session token from the `token` query parameter (browser
// websockets cannot set headers) or a Bearer Authorization header.
func SessionTokenMiddleware(issuer *SessionTokenIssuer) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		tokenStr := ctx.Query("token")
		if tokenStr == "" {
			authHeader := ctx.Get("Authorization")
			if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
				tokenStr = authHeader[7:]
			}
		}
		if tokenStr == "" {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "Missing token (Query 'token' or Header 'Authorization')"))
		}

		sessionId, err := issuer.Parse(tokenStr)
		if err != nil {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "Invalid token"))
		}

		ctx.Locals(SessionIdLocal, sessionId)
		return ctx.Next()
	}
}
