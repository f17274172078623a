package server

import (
	"time"

	"townsquare/internal/models"
	"townsquare/internal/observability"

	"github.com/gofiber/fiber/v2"
)

// sessionToken returns the raw session cookie, or "" when absent.
func (s *Server) sessionToken(c *fiber.Ctx) string {
	return c.Cookies(s.config.SessionCookieName)
}

func (s *Server) setSessionCookie(c *fiber.Ctx, token string, expires time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     s.config.SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HTTPOnly: true,
		Secure:   s.config.IsProduction(),
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func (s *Server) clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     s.config.SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   s.config.IsProduction(),
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// setIdentity exposes the authenticated user to handlers and to the logger.
func setIdentity(c *fiber.Ctx, identity *models.UserIdentity) {
	c.Locals("userID", identity.ID)
	c.Locals("identity", identity)
	c.SetUserContext(observability.WithUserID(c.UserContext(), identity.ID))
}

// currentIdentity returns the identity set by the session middleware, if any.
func currentIdentity(c *fiber.Ctx) *models.UserIdentity {
	identity, _ := c.Locals("identity").(*models.UserIdentity)
	return identity
}

// viewerID returns the reader's user ID, or nil for anonymous reads.
func viewerID(c *fiber.Ctx) *uint {
	if identity := currentIdentity(c); identity != nil {
		id := identity.ID
		return &id
	}
	return nil
}

// SessionOptional resolves the session cookie for read routes. It never
// rejects a request; a cookie that no longer maps to a user is cleared.
func (s *Server) SessionOptional() fiber.Handler {
	return func(c *fiber.Ctx) error {
		auth := s.gate.AuthorizeRead(c.UserContext(), s.sessionToken(c))
		if auth.InvalidateSession {
			s.clearSessionCookie(c)
		}
		if auth.Identity != nil {
			setIdentity(c, auth.Identity)
		}
		return c.Next()
	}
}

// SessionRequired rejects requests without a valid session.
func (s *Server) SessionRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := s.sessionToken(c)
		identity, err := s.gate.AuthorizeWrite(c.UserContext(), token)
		if err != nil {
			if token != "" && models.IsCode(err, models.CodeUnauthorized) {
				s.clearSessionCookie(c)
			}
			return respondError(c, err)
		}
		setIdentity(c, identity)
		return c.Next()
	}
}
