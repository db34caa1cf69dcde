// Package userpermission provides the admin endpoints for a user's direct
// resource grants.
package userpermission

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoWings-Provision/GoWings-Provision/internal/config"
	"github.com/GoWings-Provision/GoWings-Provision/internal/db/controller/activity"
	"github.com/GoWings-Provision/GoWings-Provision/internal/db/controller/userpermission"
	"github.com/GoWings-Provision/GoWings-Provision/internal/db/models"
	"github.com/GoWings-Provision/GoWings-Provision/internal/web/handler"
	"github.com/GoWings-Provision/GoWings-Provision/internal/web/middleware/auth"
)

const (
	// Path addresses one user's direct grants.
	Path = handler.AdminRootPath + "/user-permissions/:userId"

	// ActionGrant is the audit-log action name for granting a resource to a user.
	ActionGrant = "user.permission.grant"
	// ActionRevoke is the audit-log action name for revoking a resource from a user.
	ActionRevoke = "user.permission.revoke"

	// ErrInvalidID is returned when the userId parameter is invalid or non-positive.
	ErrInvalidID = "Invalid user id"
	// ErrInvalidBody is returned when the request body cannot be parsed.
	ErrInvalidBody = "Invalid request body"
	// ErrGrantNotFound is returned when the grant to revoke does not exist.
	ErrGrantNotFound = "Permission not found"
)

// Service provides admin management of direct user grants.
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

	app.Get(Path, authed, admin, s.List)
	app.Put(Path, authed, admin, s.Grant)
	app.Delete(Path, authed, admin, s.Revoke)
}

func userID(c *fiber.Ctx) (uint64, error) {
	id, err := strconv.ParseUint(c.Params("userId"), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New(ErrInvalidID)
	}

	return id, nil
}

// grantPayload identifies one resource grant.
type grantPayload struct {
	ResourceType models.ResourceType `json:"resource_type" validate:"required"`
	ResourceID   uint64              `json:"resource_id" validate:"required,gt=0"`
	ErrorMessage string              `json:"error_message"`
}

// List returns all direct grants a user holds.
func (s *Service) List(c *fiber.Ctx) error {
	id, err := userID(c)
	if err != nil {
		return handler.Error(c, fiber.StatusBadRequest, err.Error())
	}

	grants, err := userpermission.ListByUser(s.db, id)
	if err != nil {
		log.Error().Err(err).Uint64("user_id", id).Msg("failed to list user permissions")

		return handler.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	return handler.Success(c, grants, "")
}

// Grant grants a resource directly to a user. Re-granting an existing pair
// updates the custom error message.
func (s *Service) Grant(c *fiber.Ctx) error {
	adminUser := auth.CurrentUser(c)

	id, err := userID(c)
	if err != nil {
		return handler.Error(c, fiber.StatusBadRequest, err.Error())
	}

	payload := new(grantPayload)
	if err := c.BodyParser(payload); err != nil {
		return handler.Error(c, fiber.StatusBadRequest, ErrInvalidBody)
	}

	if err := s.validator.Struct(payload); err != nil {
		return handler.Error(c, fiber.StatusBadRequest, "Validation failed: "+err.Error())
	}

	grant, err := userpermission.Grant(s.db, id, payload.ResourceType, payload.ResourceID, payload.ErrorMessage)
	if err != nil {
		if errors.Is(err, userpermission.ErrInvalidResourceType) {
			return handler.Error(c, fiber.StatusBadRequest, err.Error())
		}

		log.Error().Err(err).Uint64("user_id", id).Msg("failed to grant user permission")

		return handler.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	if err := activity.Record(s.db, adminUser.ID, ActionGrant, string(payload.ResourceType), grant); err != nil {
		log.Error().Err(err).Msg("failed to write audit row")
	}

	return handler.Success(c, grant, "Permission granted")
}

// Revoke removes a direct grant from a user.
func (s *Service) Revoke(c *fiber.Ctx) error {
	adminUser := auth.CurrentUser(c)

	id, err := userID(c)
	if err != nil {
		return handler.Error(c, fiber.StatusBadRequest, err.Error())
	}

	payload := new(grantPayload)
	if err := c.BodyParser(payload); err != nil {
		return handler.Error(c, fiber.StatusBadRequest, ErrInvalidBody)
	}

	err = userpermission.Revoke(s.db, id, payload.ResourceType, payload.ResourceID)
	if err != nil {
		if errors.Is(err, userpermission.ErrGrantNotFound) {
			return handler.Error(c, fiber.StatusNotFound, ErrGrantNotFound)
		}
		if errors.Is(err, userpermission.ErrInvalidResourceType) {
			return handler.Error(c, fiber.StatusBadRequest, err.Error())
		}

		log.Error().Err(err).Uint64("user_id", id).Msg("failed to revoke user permission")

		return handler.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	if err := activity.Record(s.db, adminUser.ID, ActionRevoke, string(payload.ResourceType), payload); err != nil {
		log.Error().Err(err).Msg("failed to write audit row")
	}

	return handler.Success(c, nil, "Permission revoked")
}
