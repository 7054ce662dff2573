package server

import (
	"errors"

	"petition/internal/models"
	"petition/internal/session"

	"github.com/gofiber/fiber/v2"
)

// ShowPetition handles GET /petition, rendering the signing form with the
// user's full name read from the database.
func (s *Server) ShowPetition(c *fiber.Ctx) error {
	sess := session.FromCtx(c)

	name, err := s.petitions.SignerName(c.Context(), sess.UserID)
	if err != nil {
		// The user row is gone (deleted account with a stale cookie).
		s.logError(c, "petition form read failed", err)
		session.Clear(c)
		return c.Redirect("/register")
	}

	return s.render(c, "petition", fiber.Map{"name": name})
}

// SignPetition handles POST /petition. The generated signature id is stored
// in the session; any write failure, including the one-signature-per-user
// constraint, re-renders the form with the error.
func (s *Server) SignPetition(c *fiber.Ctx) error {
	sess := session.FromCtx(c)

	id, err := s.petitions.Sign(c.Context(), sess.UserID, c.FormValue("signature"))
	if err != nil {
		s.logError(c, "petition signing failed", err)
		return s.render(c, "petition", fiber.Map{
			"name": sess.First + " " + sess.Last,
			"err":  models.UserMessage(err),
		})
	}

	if err := s.sessions.Save(c, sess.WithSignature(id)); err != nil {
		s.logError(c, "session save failed", err)
	}
	return c.Redirect("/thanks")
}

// DeleteSignature handles POST /delete-sig. The signature id is dropped
// from the session even if the delete failed; the row delete is retried
// naturally the next time the user signs and re-deletes.
func (s *Server) DeleteSignature(c *fiber.Ctx) error {
	sess := session.FromCtx(c)

	if err := s.petitions.DeleteSignature(c.Context(), sess.UserID); err != nil {
		s.logError(c, "signature deletion failed", err)
	}

	if err := s.sessions.Save(c, sess.WithoutSignature()); err != nil {
		s.logError(c, "session save failed", err)
	}
	return c.Redirect("/petition")
}

// Thanks handles GET /thanks, showing the stored signature payload and the
// total signature count.
func (s *Server) Thanks(c *fiber.Ctx) error {
	sess := session.FromCtx(c)

	sig, count, err := s.petitions.ThanksData(c.Context(), sess.SignatureID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			// The signature row vanished under a stale session; drop the id
			// and send the user back to the petition.
			if saveErr := s.sessions.Save(c, sess.WithoutSignature()); saveErr != nil {
				s.logError(c, "session save failed", saveErr)
			}
			return c.Redirect("/petition")
		}
		return err
	}

	return s.render(c, "thanks", fiber.Map{"sig": sig, "count": count})
}
