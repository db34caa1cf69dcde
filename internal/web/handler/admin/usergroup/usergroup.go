// Package usergroup provides the admin endpoints for a user's group memberships.
package usergroup

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoWings-Provision/GoWings-Provision/internal/config"
	"github.com/GoWings-Provision/GoWings-Provision/internal/db/controller/activity"
	"github.com/GoWings-Provision/GoWings-Provision/internal/db/controller/usergroup"
	"github.com/GoWings-Provision/GoWings-Provision/internal/web/handler"
	"github.com/GoWings-Provision/GoWings-Provision/internal/web/middleware/auth"
)

const (
	// Path addresses one user's group memberships.
	Path = handler.AdminRootPath + "/users/:id/groups"

	// ActionSet is the audit-log action name for replacing a user's memberships.
	ActionSet = "user.groups.set"

	// ErrInvalidID is returned when the id parameter is invalid or non-positive.
	ErrInvalidID = "Invalid user id"
	// ErrInvalidBody is returned when the request body cannot be parsed.
	ErrInvalidBody = "Invalid request body"
)

// Service provides admin management of user memberships.
type Service struct {
	cfg       *config.Config
	db        *gorm.DB
	validator *validator.Validate
}

// Handler is the exported instance.
var Handler = Service{}

// Init registers routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db
	s.cfg = cfg
	s.validator = validator.New()

	authed := auth.New(db)
	admin := auth.RequireAdmin()

	app.Get(Path, authed, admin, s.Get)
	app.Put(Path, authed, admin, s.Set)
}

func userID(c *fiber.Ctx) (uint64, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New(ErrInvalidID)
	}

	return id, nil
}

// setPayload is the full replacement membership set.
type setPayload struct {
	GroupIDs []uint `json:"group_ids" validate:"required,dive,gt=0"`
}

// Get returns the groups a user belongs to, highest priority first.
func (s *Service) Get(c *fiber.Ctx) error {
	id, err := userID(c)
	if err != nil {
		return handler.Error(c, fiber.StatusBadRequest, err.Error())
	}

	groups, err := usergroup.GroupsForUser(s.db, id)
	if err != nil {
		log.Error().Err(err).Uint64("user_id", id).Msg("failed to list user groups")

		return handler.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	return handler.Success(c, groups, "")
}

// Set replaces the user's memberships with the submitted set. The replacement
// is transactional; a failure leaves the prior memberships intact.
func (s *Service) Set(c *fiber.Ctx) error {
	adminUser := auth.CurrentUser(c)

	id, err := userID(c)
	if err != nil {
		return handler.Error(c, fiber.StatusBadRequest, err.Error())
	}

	payload := new(setPayload)
	if err := c.BodyParser(payload); err != nil {
		return handler.Error(c, fiber.StatusBadRequest, ErrInvalidBody)
	}

	if err := s.validator.Struct(payload); err != nil {
		return handler.Error(c, fiber.StatusBadRequest, "Validation failed: "+err.Error())
	}

	if err := usergroup.SetGroupsForUser(s.db, id, payload.GroupIDs); err != nil {
		log.Error().Err(err).Uint64("user_id", id).Msg("failed to set user groups")

		return handler.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	if err := activity.Record(s.db, adminUser.ID, ActionSet, strconv.FormatUint(id, 10), payload); err != nil {
		log.Error().Err(err).Msg("failed to write audit row")
	}

	groups, err := usergroup.GroupsForUser(s.db, id)
	if err != nil {
		return handler.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	return handler.Success(c, groups, "Groups updated")
}
