package server

import (
	"petition/internal/models"
	"petition/internal/service"
	"petition/internal/session"

	"github.com/gofiber/fiber/v2"
)

// ShowRegister handles GET /register
func (s *Server) ShowRegister(c *fiber.Ctx) error {
	return s.render(c, "register", nil)
}

// Register handles POST /register. On success the session transitions to
// Authenticated-NoSig and the user is sent to the profile form; on failure
// the form is re-rendered with the error and the session is left unchanged.
func (s *Server) Register(c *fiber.Ctx) error {
	in := service.RegisterInput{
		First:    c.FormValue("first"),
		Last:     c.FormValue("last"),
		Email:    c.FormValue("email"),
		Password: c.FormValue("password"),
	}

	user, err := s.accounts.Register(c.Context(), in)
	if err != nil {
		s.logError(c, "registration failed", err)
		return s.render(c, "register", fiber.Map{"err": models.UserMessage(err)})
	}

	sess := session.Session{UserID: user.ID, First: user.First, Last: user.Last}
	if err := s.sessions.Save(c, sess); err != nil {
		s.logError(c, "session save failed", err)
		return s.render(c, "register", fiber.Map{"err": models.UserMessage(err)})
	}

	return c.Redirect("/profile")
}

// ShowLogin handles GET /login
func (s *Server) ShowLogin(c *fiber.Ctx) error {
	return s.render(c, "login", nil)
}

// Login handles POST /login. The lookup left-joins the signature table so
// the session lands directly in Authenticated-NoSig or Authenticated-Signed.
// A password mismatch clears the session.
func (s *Server) Login(c *fiber.Ctx) error {
	result, err := s.accounts.Login(c.Context(), c.FormValue("email"), c.FormValue("password"))
	if err != nil {
		if appErr, ok := err.(*models.AppError); ok && appErr.Code == "INVALID_CREDENTIALS" {
			session.Clear(c)
		}
		s.logError(c, "login failed", err)
		return s.render(c, "login", fiber.Map{"err": models.UserMessage(err)})
	}

	sess := session.Session{
		UserID:      result.UserID,
		First:       result.First,
		Last:        result.Last,
		SignatureID: result.SignatureID,
	}
	if err := s.sessions.Save(c, sess); err != nil {
		s.logError(c, "session save failed", err)
		return s.render(c, "login", fiber.Map{"err": models.UserMessage(err)})
	}

	return c.Redirect("/petition")
}

// Logout handles GET /logout. The session is cleared unconditionally.
func (s *Server) Logout(c *fiber.Ctx) error {
	session.Clear(c)
	return c.Redirect("/register")
}
