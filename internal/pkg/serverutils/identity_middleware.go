// FILE: internal/pkg/serverutils/identity_middleware.go
package serverutils

import (
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// OptionalIdentity resolves the caller's identity from a Bearer token when
// one is present and valid. A missing, expired or malformed credential is a
// normal outcome, not an error: the request proceeds as anonymous and no
// user_id local is set. Token issuance and session lifecycle live elsewhere.
func OptionalIdentity(ctx *fiber.Ctx) error {
	authHeader := ctx.Get("Authorization")
	if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
		return ctx.Next()
	}
	tokenStr := authHeader[7:]

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		return ctx.Next()
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ctx.Next()
	}

	if userId, ok := claims["user_id"].(string); ok && userId != "" {
		ctx.Locals("user_id", userId)
	}
	return ctx.Next()
}
