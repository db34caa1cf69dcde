package provision

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/GoWings-Provision/GoWings-Provision/internal/provision"
	"github.com/GoWings-Provision/GoWings-Provision/internal/web/handler"
	"github.com/GoWings-Provision/GoWings-Provision/internal/web/middleware/auth"
)

// CreateServer validates the request against the provisioning policy and,
// if it passes, runs the creation flow against Wings. Validation is pure;
// any creation failure after the row insert is compensated by hard delete.
func (s *Service) CreateServer(c *fiber.Ctx) error {
	user := auth.CurrentUser(c)

	req := new(provision.CreateRequest)
	if err := c.BodyParser(req); err != nil {
		return handler.Error(c, fiber.StatusBadRequest, ErrInvalidBody)
	}

	createErr, err := s.checks.Validate(user.ID, req)
	if err != nil {
		log.Error().Err(err).Uint64("user_id", user.ID).Msg("server creation validation failed")

		return handler.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	if createErr != nil {
		return handler.ErrorCode(c, createErr.Code.HTTPStatus(), string(createErr.Code), createErr.Message)
	}

	server, createErr, err := s.creator.Create(c.Context(), user.ID, req)
	if err != nil {
		log.Error().Err(err).Uint64("user_id", user.ID).Msg("server creation failed")

		return handler.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	if createErr != nil {
		return handler.ErrorCode(c, createErr.Code.HTTPStatus(), string(createErr.Code), createErr.Message)
	}

	log.Info().
		Uint64("user_id", user.ID).
		Uint64("server_id", server.ID).
		Str("uuid", server.UUID).
		Msg("server created")

	return handler.Success(c, server, "Server created")
}
