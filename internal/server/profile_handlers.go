package server

import (
	"petition/internal/models"
	"petition/internal/service"
	"petition/internal/session"

	"github.com/gofiber/fiber/v2"
)

// ShowProfileForm handles GET /profile
func (s *Server) ShowProfileForm(c *fiber.Ctx) error {
	sess := session.FromCtx(c)
	return s.render(c, "profile", fiber.Map{"first": sess.First})
}

// CreateProfile handles POST /profile. The age field is optional: an empty
// string omits the column. The city is stored lower-cased.
func (s *Server) CreateProfile(c *fiber.Ctx) error {
	sess := session.FromCtx(c)

	err := s.accounts.CreateProfile(c.Context(), service.ProfileInput{
		UserID: sess.UserID,
		AgeRaw: c.FormValue("age"),
		City:   c.FormValue("city"),
		URL:    c.FormValue("homepage"),
	})
	if err != nil {
		s.logError(c, "profile creation failed", err)
		return s.render(c, "profile", fiber.Map{
			"first": sess.First,
			"err":   models.UserMessage(err),
		})
	}

	return c.Redirect("/petition")
}

// ShowEditProfile handles GET /profile/edit. A user without a profile is
// sent to the profile-creation form first.
func (s *Server) ShowEditProfile(c *fiber.Ctx) error {
	sess := session.FromCtx(c)

	user, err := s.accounts.GetAccount(c.Context(), sess.UserID)
	if err != nil {
		s.logError(c, "profile read failed", err)
		return c.Redirect("/profile")
	}
	if user.Profile == nil {
		return c.Redirect("/profile")
	}

	var age interface{}
	if user.Profile.Age != nil {
		age = *user.Profile.Age
	}

	return s.render(c, "editprofile", fiber.Map{
		"first": user.First,
		"last":  user.Last,
		"email": user.Email,
		"age":   age,
		"city":  user.Profile.City,
		"url":   user.Profile.URL,
	})
}

// UpdateProfile handles POST /profile/edit. A supplied password is
// re-hashed and written with the user row; otherwise the password column is
// untouched. The profile is upserted on user_id; an empty age leaves any
// stored age as it was.
func (s *Server) UpdateProfile(c *fiber.Ctx) error {
	sess := session.FromCtx(c)

	in := service.UpdateAccountInput{
		UserID:   sess.UserID,
		First:    c.FormValue("first"),
		Last:     c.FormValue("last"),
		Email:    c.FormValue("email"),
		Password: c.FormValue("password"),
		AgeRaw:   c.FormValue("age"),
		City:     c.FormValue("city"),
		URL:      c.FormValue("url"),
	}

	if err := s.accounts.UpdateAccount(c.Context(), in); err != nil {
		s.logError(c, "profile update failed", err)
		return s.render(c, "editprofile", fiber.Map{
			"first": in.First,
			"last":  in.Last,
			"email": in.Email,
			"age":   in.AgeRaw,
			"city":  in.City,
			"url":   in.URL,
			"err":   models.UserMessage(err),
		})
	}

	// Keep the cached display name in the session in sync with the edit.
	sess.First = in.First
	sess.Last = in.Last
	if err := s.sessions.Save(c, sess); err != nil {
		s.logError(c, "session save failed", err)
	}

	return c.Redirect("/signers")
}

// DeleteAccount handles POST /profile/delete. The user row is deleted and
// the schema cascades take the profile and signature with it. A failed
// delete is logged and the redirect still happens: the row either never
// existed or will be retried by the user.
func (s *Server) DeleteAccount(c *fiber.Ctx) error {
	sess := session.FromCtx(c)

	if err := s.accounts.DeleteAccount(c.Context(), sess.UserID); err != nil {
		s.logError(c, "account deletion failed", err)
	}

	session.Clear(c)
	return c.Redirect("/logout")
}
