package group

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/GoWings-Provision/GoWings-Provision/internal/db/controller/activity"
	"github.com/GoWings-Provision/GoWings-Provision/internal/db/controller/group"
	"github.com/GoWings-Provision/GoWings-Provision/internal/db/controller/grouppermission"
	"github.com/GoWings-Provision/GoWings-Provision/internal/db/models"
	"github.com/GoWings-Provision/GoWings-Provision/internal/web/handler"
	"github.com/GoWings-Provision/GoWings-Provision/internal/web/middleware/auth"
)

// ErrGrantNotFound is returned when the grant to revoke does not exist.
const ErrGrantNotFound = "Permission not found"

// grantPayload identifies one resource grant.
type grantPayload struct {
	ResourceType models.ResourceType `json:"resource_type" validate:"required"`
	ResourceID   uint64              `json:"resource_id" validate:"required,gt=0"`
	ErrorMessage string              `json:"error_message"`
}

// ListPermissions returns all grants a group holds.
func (s *Service) ListPermissions(c *fiber.Ctx) error {
	id, err := groupID(c)
	if err != nil {
		return handler.Error(c, fiber.StatusBadRequest, err.Error())
	}

	if _, err := group.Get(s.db, id); err != nil {
		if errors.Is(err, group.ErrGroupNotFound) {
			return handler.Error(c, fiber.StatusNotFound, ErrGroupNotFound)
		}

		return handler.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	grants, err := grouppermission.ListByGroup(s.db, id)
	if err != nil {
		log.Error().Err(err).Uint("group_id", id).Msg("failed to list group permissions")

		return handler.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	return handler.Success(c, grants, "")
}

// GrantPermission grants a resource to a group. Re-granting an existing pair
// updates the custom error message.
func (s *Service) GrantPermission(c *fiber.Ctx) error {
	adminUser := auth.CurrentUser(c)

	id, err := groupID(c)
	if err != nil {
		return handler.Error(c, fiber.StatusBadRequest, err.Error())
	}

	if _, err := group.Get(s.db, id); err != nil {
		if errors.Is(err, group.ErrGroupNotFound) {
			return handler.Error(c, fiber.StatusNotFound, ErrGroupNotFound)
		}

		return handler.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	payload := new(grantPayload)
	if err := c.BodyParser(payload); err != nil {
		return handler.Error(c, fiber.StatusBadRequest, ErrInvalidBody)
	}

	if err := s.validator.Struct(payload); err != nil {
		return handler.Error(c, fiber.StatusBadRequest, "Validation failed: "+err.Error())
	}

	grant, err := grouppermission.Grant(s.db, id, payload.ResourceType, payload.ResourceID, payload.ErrorMessage)
	if err != nil {
		if errors.Is(err, grouppermission.ErrInvalidResourceType) {
			return handler.Error(c, fiber.StatusBadRequest, err.Error())
		}

		log.Error().Err(err).Uint("group_id", id).Msg("failed to grant group permission")

		return handler.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	if err := activity.Record(s.db, adminUser.ID, ActionGrant, string(payload.ResourceType), grant); err != nil {
		log.Error().Err(err).Msg("failed to write audit row")
	}

	return handler.Success(c, grant, "Permission granted")
}

// RevokePermission removes a grant from a group.
func (s *Service) RevokePermission(c *fiber.Ctx) error {
	adminUser := auth.CurrentUser(c)

	id, err := groupID(c)
	if err != nil {
		return handler.Error(c, fiber.StatusBadRequest, err.Error())
	}

	payload := new(grantPayload)
	if err := c.BodyParser(payload); err != nil {
		return handler.Error(c, fiber.StatusBadRequest, ErrInvalidBody)
	}

	err = grouppermission.Revoke(s.db, id, payload.ResourceType, payload.ResourceID)
	if err != nil {
		if errors.Is(err, grouppermission.ErrGrantNotFound) {
			return handler.Error(c, fiber.StatusNotFound, ErrGrantNotFound)
		}
		if errors.Is(err, grouppermission.ErrInvalidResourceType) {
			return handler.Error(c, fiber.StatusBadRequest, err.Error())
		}

		log.Error().Err(err).Uint("group_id", id).Msg("failed to revoke group permission")

		return handler.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	if err := activity.Record(s.db, adminUser.ID, ActionRevoke, string(payload.ResourceType), payload); err != nil {
		log.Error().Err(err).Msg("failed to write audit row")
	}

	return handler.Success(c, nil, "Permission revoked")
}
