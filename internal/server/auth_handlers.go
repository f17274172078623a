package server

import (
	"townsquare/internal/models"
	"townsquare/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Register handles POST /api/auth/register
// @Summary User registration
// @Description Register a new user account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body object{email=string,display_name=string,password=string} true "Registration request"
// @Success 201 {object} models.User
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /auth/register [post]
func (s *Server) Register(c *fiber.Ctx) error {
	var req struct {
		Email       string `json:"email"`
		DisplayName string `json:"display_name"`
		Password    string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.authService.Register(c.UserContext(), service.RegisterInput{
		Email:       req.Email,
		DisplayName: req.DisplayName,
		Password:    req.Password,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(user)
}

// Login handles POST /api/auth/login
// @Summary User login
// @Description Authenticate user and start a cookie session
// @Tags auth
// @Accept json
// @Produce json
// @Param request body object{email=string,password=string} true "Login credentials"
// @Success 200 {object} object{user=models.UserIdentity,expires_at=string}
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/login [post]
func (s *Server) Login(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	result, err := s.authService.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}

	s.setSessionCookie(c, result.Token, result.ExpiresAt)
	return c.JSON(fiber.Map{
		"user":       result.Identity,
		"expires_at": result.ExpiresAt,
	})
}

// Logout handles POST /api/auth/logout
// @Summary Logout
// @Description End the current session and clear the cookie
// @Tags auth
// @Success 204
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/logout [post]
func (s *Server) Logout(c *fiber.Ctx) error {
	if err := s.authService.Logout(c.UserContext(), s.sessionToken(c)); err != nil {
		return respondError(c, err)
	}
	s.clearSessionCookie(c)
	return c.SendStatus(fiber.StatusNoContent)
}

// LogoutAll handles POST /api/auth/logout-all
// @Summary Logout everywhere
// @Description End every session of the current user
// @Tags auth
// @Success 204
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/logout-all [post]
func (s *Server) LogoutAll(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	if _, err := s.authService.DeleteUserSessions(c.UserContext(), userID); err != nil {
		return respondError(c, err)
	}
	s.clearSessionCookie(c)
	return c.SendStatus(fiber.StatusNoContent)
}

// Me handles GET /api/auth/me
func (s *Server) Me(c *fiber.Ctx) error {
	return c.JSON(currentIdentity(c))
}

// EmailExists handles GET /api/auth/email-exists?email=...
// @Summary Check email availability
// @Tags auth
// @Produce json
// @Param email query string true "Email address"
// @Success 200 {object} object{exists=bool}
// @Router /auth/email-exists [get]
func (s *Server) EmailExists(c *fiber.Ctx) error {
	exists, err := s.authService.EmailExists(c.UserContext(), c.Query("email"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"exists": exists})
}
