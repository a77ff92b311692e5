// Package middleware provides HTTP middleware components for the application.
package middleware

import (
	"strings"

	"vendhub/internal/models"
	"vendhub/internal/services/auth"
	"vendhub/internal/services/session"
	"vendhub/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// Identity is the uniform result of bearer-token resolution: exactly one of
// Claims (vendor JWT) or Session (customer scan session) is set.
type Identity struct {
	Claims  *models.UserClaims
	Session *models.CustomerSession
}

func (i *Identity) IsVendor() bool {
	return i.Claims != nil
}

// AuthMiddleware resolves bearer tokens through an ordered verifier chain:
// vendor JWT first, customer session token second. Every failure mode returns
// the same 401 body so the chain leaks nothing about which verifier rejected
// the token.
type AuthMiddleware struct {
	authService auth.Service
	sessions    session.Service
}

func NewAuthMiddleware(authService auth.Service, sessions session.Service) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
		sessions:    sessions,
	}
}

// Handler authenticates the request and stores the resolved Identity in the
// request context.
func (m *AuthMiddleware) Handler(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return unauthorized(c)
	}
	token := strings.TrimPrefix(authHeader, "Bearer ")

	if claims := m.verifyVendor(token); claims != nil {
		c.Locals("identity", &Identity{Claims: claims})
		c.Locals("userID", claims.UserID)
		return c.Next()
	}

	if sess := m.verifySession(c, token); sess != nil {
		c.Locals("identity", &Identity{Session: sess})
		c.Locals("sessionID", sess.ID)
		c.Locals("machineID", sess.MachineID)
		return c.Next()
	}

	return unauthorized(c)
}

// verifyVendor validates a signed vendor credential: signature, expiry, token
// version, and that the referenced account still exists with a vendor role.
func (m *AuthMiddleware) verifyVendor(token string) *models.UserClaims {
	_, claims, err := utils.ParseToken(token)
	if err != nil {
		return nil
	}

	user, err := m.authService.GetUserByID(claims.UserID)
	if err != nil {
		return nil
	}
	if !user.IsVendor() || user.TokenVersion != claims.TokenVersion {
		return nil
	}
	return claims
}

// verifySession validates a live customer session token.
func (m *AuthMiddleware) verifySession(c *fiber.Ctx, token string) *models.CustomerSession {
	sess, err := m.sessions.FindByToken(c.Context(), token)
	if err != nil || sess == nil || sess.Expired() {
		return nil
	}
	return sess
}

// RequireVendor rejects requests whose identity is not a vendor credential.
func RequireVendor(c *fiber.Ctx) error {
	identity, ok := c.Locals("identity").(*Identity)
	if !ok || !identity.IsVendor() {
		return unauthorized(c)
	}
	return c.Next()
}

// RequireSession rejects requests whose identity is not a customer session.
func RequireSession(c *fiber.Ctx) error {
	identity, ok := c.Locals("identity").(*Identity)
	if !ok || identity.Session == nil {
		return unauthorized(c)
	}
	return c.Next()
}

// GetIdentity returns the resolved identity, or nil outside authenticated
// routes.
func GetIdentity(c *fiber.Ctx) *Identity {
	identity, _ := c.Locals("identity").(*Identity)
	return identity
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
}
