package group

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/GoWings-Provision/GoWings-Provision/internal/db/controller/activity"
	"github.com/GoWings-Provision/GoWings-Provision/internal/db/controller/group"
	"github.com/GoWings-Provision/GoWings-Provision/internal/db/controller/usergroup"
	"github.com/GoWings-Provision/GoWings-Provision/internal/web/handler"
	"github.com/GoWings-Provision/GoWings-Provision/internal/web/middleware/auth"
)

// ErrMembershipNotFound is returned when the membership to remove does not exist.
const ErrMembershipNotFound = "User is not a member of this group"

// memberPayload identifies one panel user.
type memberPayload struct {
	UserID uint64 `json:"user_id" validate:"required,gt=0"`
}

// ListUsers returns the ids of all users in a group.
func (s *Service) ListUsers(c *fiber.Ctx) error {
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

	ids, err := usergroup.UserIDsForGroup(s.db, id)
	if err != nil {
		log.Error().Err(err).Uint("group_id", id).Msg("failed to list group members")

		return handler.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	return handler.Success(c, ids, "")
}

// AddUser adds a user to a group. Adding an existing member is a no-op.
func (s *Service) AddUser(c *fiber.Ctx) error {
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

	payload := new(memberPayload)
	if err := c.BodyParser(payload); err != nil {
		return handler.Error(c, fiber.StatusBadRequest, ErrInvalidBody)
	}

	if err := s.validator.Struct(payload); err != nil {
		return handler.Error(c, fiber.StatusBadRequest, "Validation failed: "+err.Error())
	}

	if err := usergroup.Assign(s.db, payload.UserID, id); err != nil {
		log.Error().Err(err).Uint("group_id", id).Uint64("user_id", payload.UserID).
			Msg("failed to add group member")

		return handler.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	if err := activity.Record(s.db, adminUser.ID, ActionAddUser, "", payload); err != nil {
		log.Error().Err(err).Msg("failed to write audit row")
	}

	return handler.Success(c, nil, "User added to group")
}

// RemoveUser removes a user from a group.
func (s *Service) RemoveUser(c *fiber.Ctx) error {
	adminUser := auth.CurrentUser(c)

	id, err := groupID(c)
	if err != nil {
		return handler.Error(c, fiber.StatusBadRequest, err.Error())
	}

	payload := new(memberPayload)
	if err := c.BodyParser(payload); err != nil {
		return handler.Error(c, fiber.StatusBadRequest, ErrInvalidBody)
	}

	if err := usergroup.Remove(s.db, payload.UserID, id); err != nil {
		if errors.Is(err, usergroup.ErrMembershipNotFound) {
			return handler.Error(c, fiber.StatusNotFound, ErrMembershipNotFound)
		}

		log.Error().Err(err).Uint("group_id", id).Uint64("user_id", payload.UserID).
			Msg("failed to remove group member")

		return handler.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	if err := activity.Record(s.db, adminUser.ID, ActionRemoveUser, "", payload); err != nil {
		log.Error().Err(err).Msg("failed to write audit row")
	}

	return handler.Success(c, nil, "User removed from group")
}
