// Package middleware provides HTTP middleware components for the application.
// It authenticates callers and exposes their identity to handlers through
// the fiber request context.
package middleware

import (
	"log"
	"strings"

	"introspect/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// CallerKey is the fiber Locals key AuthMiddleware stores the caller under.
const CallerKey = "caller"

// AuthMiddleware validates bearer tokens and resolves the caller identity.
type AuthMiddleware struct {
	secret []byte
}

func NewAuthMiddleware(secret string) *AuthMiddleware {
	return &AuthMiddleware{secret: []byte(secret)}
}

// Handler validates JWT tokens and adds the caller to the request context.
// It checks for:
// - Presence of Authorization header with Bearer token
// - Valid HMAC signature and expiration
// - A caller claim that decodes to a 32-byte identifier
func (m *AuthMiddleware) Handler(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing authorization header"})
	}

	if !strings.HasPrefix(authHeader, "Bearer ") {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid authorization format"})
	}
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")

	token, err := jwt.ParseWithClaims(tokenString, &models.CallerClaims{}, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		log.Printf("Token validation error: %v", err)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid token"})
	}

	claims, ok := token.Claims.(*models.CallerClaims)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid claims"})
	}

	caller, err := claims.CallerKey()
	if err != nil || caller.IsZero() {
		log.Printf("Rejecting token with bad caller claim %q: %v", claims.Caller, err)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid caller"})
	}

	c.Locals(CallerKey, caller)

	return c.Next()
}

// Caller returns the identity stored by Handler.
func Caller(c *fiber.Ctx) (models.Pubkey, bool) {
	pk, ok := c.Locals(CallerKey).(models.Pubkey)
	return pk, ok
}
