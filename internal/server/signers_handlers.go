package server

import (
	"net/url"

	"github.com/gofiber/fiber/v2"
)

// Signers handles GET /signers, listing every signer joined with their
// profile fields.
func (s *Server) Signers(c *fiber.Ctx) error {
	signers, err := s.petitions.Signers(c.Context())
	if err != nil {
		return err
	}

	return s.render(c, "signers", fiber.Map{"signers": signers})
}

// SignersByCity handles GET /signers/:city. The match is case-insensitive
// and the route is public.
func (s *Server) SignersByCity(c *fiber.Ctx) error {
	city := c.Params("city")
	if decoded, err := url.PathUnescape(city); err == nil {
		city = decoded
	}

	signers, err := s.petitions.SignersByCity(c.Context(), city)
	if err != nil {
		return err
	}

	return s.render(c, "city", fiber.Map{"city": city, "signers": signers})
}
