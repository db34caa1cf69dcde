// Package group provides the admin endpoints for provisioning groups:
// CRUD, the grants a group holds, and its member users.
package group

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoWings-Provision/GoWings-Provision/internal/config"
	"github.com/GoWings-Provision/GoWings-Provision/internal/db/controller/activity"
	"github.com/GoWings-Provision/GoWings-Provision/internal/db/controller/group"
	"github.com/GoWings-Provision/GoWings-Provision/internal/db/models"
	"github.com/GoWings-Provision/GoWings-Provision/internal/web/handler"
	"github.com/GoWings-Provision/GoWings-Provision/internal/web/middleware/auth"
)

const (
	// Path is the base path for admin group management.
	Path = handler.AdminRootPath + "/groups"

	// RouteGroup addresses one group.
	RouteGroup = Path + "/:id"
	// RoutePermissions addresses one group's grants.
	RoutePermissions = Path + "/:id/permissions"
	// RouteUsers addresses one group's members.
	RouteUsers = Path + "/:id/users"

	// ActionCreate is the audit-log action name for group creation.
	ActionCreate = "group.create"
	// ActionUpdate is the audit-log action name for group updates.
	ActionUpdate = "group.update"
	// ActionDelete is the audit-log action name for group deletion.
	ActionDelete = "group.delete"
	// ActionGrant is the audit-log action name for granting a resource to a group.
	ActionGrant = "group.permission.grant"
	// ActionRevoke is the audit-log action name for revoking a resource from a group.
	ActionRevoke = "group.permission.revoke"
	// ActionAddUser is the audit-log action name for adding a member.
	ActionAddUser = "group.user.add"
	// ActionRemoveUser is the audit-log action name for removing a member.
	ActionRemoveUser = "group.user.remove"

	// ErrInvalidID is returned when the id parameter is invalid or non-positive.
	ErrInvalidID = "Invalid group id"
	// ErrInvalidBody is returned when the request body cannot be parsed.
	ErrInvalidBody = "Invalid request body"
	// ErrGroupNotFound is returned when the group does not exist.
	ErrGroupNotFound = "Group not found"
)

// Service provides admin group management.
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
	app.Post(Path, authed, admin, s.Create)
	app.Get(RouteGroup, authed, admin, s.Get)
	app.Patch(RouteGroup, authed, admin, s.Update)
	app.Delete(RouteGroup, authed, admin, s.Delete)

	app.Get(RoutePermissions, authed, admin, s.ListPermissions)
	app.Put(RoutePermissions, authed, admin, s.GrantPermission)
	app.Delete(RoutePermissions, authed, admin, s.RevokePermission)

	app.Get(RouteUsers, authed, admin, s.ListUsers)
	app.Post(RouteUsers, authed, admin, s.AddUser)
	app.Delete(RouteUsers, authed, admin, s.RemoveUser)
}

func groupID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, errors.New(ErrInvalidID)
	}

	return uint(id), nil
}

// groupPayload is the create/update request body.
type groupPayload struct {
	Name     string `json:"name" validate:"required,max=191"`
	Color    string `json:"color" validate:"omitempty,hexcolor"`
	Priority int    `json:"priority"`
}

// List returns all groups, highest priority first.
func (s *Service) List(c *fiber.Ctx) error {
	groups, err := group.GetAll(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to list groups")

		return handler.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	return handler.Success(c, groups, "")
}

// Get returns one group.
func (s *Service) Get(c *fiber.Ctx) error {
	id, err := groupID(c)
	if err != nil {
		return handler.Error(c, fiber.StatusBadRequest, err.Error())
	}

	g, err := group.Get(s.db, id)
	if err != nil {
		if errors.Is(err, group.ErrGroupNotFound) {
			return handler.Error(c, fiber.StatusNotFound, ErrGroupNotFound)
		}

		return handler.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	return handler.Success(c, g, "")
}

// Create creates a group.
func (s *Service) Create(c *fiber.Ctx) error {
	adminUser := auth.CurrentUser(c)

	payload := new(groupPayload)
	if err := c.BodyParser(payload); err != nil {
		return handler.Error(c, fiber.StatusBadRequest, ErrInvalidBody)
	}

	if err := s.validator.Struct(payload); err != nil {
		return handler.Error(c, fiber.StatusBadRequest, "Validation failed: "+err.Error())
	}

	g := &models.Group{
		Name:     payload.Name,
		Color:    payload.Color,
		Priority: payload.Priority,
	}

	if err := group.Create(s.db, g); err != nil {
		log.Error().Err(err).Str("name", payload.Name).Msg("failed to create group")

		return handler.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	if err := activity.Record(s.db, adminUser.ID, ActionCreate, g.Name, g); err != nil {
		log.Error().Err(err).Msg("failed to write audit row")
	}

	return handler.Success(c, g, "Group created")
}

// Update updates a group's name, color and priority.
func (s *Service) Update(c *fiber.Ctx) error {
	adminUser := auth.CurrentUser(c)

	id, err := groupID(c)
	if err != nil {
		return handler.Error(c, fiber.StatusBadRequest, err.Error())
	}

	g, err := group.Get(s.db, id)
	if err != nil {
		if errors.Is(err, group.ErrGroupNotFound) {
			return handler.Error(c, fiber.StatusNotFound, ErrGroupNotFound)
		}

		return handler.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	payload := &groupPayload{Name: g.Name, Color: g.Color, Priority: g.Priority}
	if err := c.BodyParser(payload); err != nil {
		return handler.Error(c, fiber.StatusBadRequest, ErrInvalidBody)
	}

	if err := s.validator.Struct(payload); err != nil {
		return handler.Error(c, fiber.StatusBadRequest, "Validation failed: "+err.Error())
	}

	g.Name = payload.Name
	g.Color = payload.Color
	g.Priority = payload.Priority

	if err := group.Update(s.db, g); err != nil {
		log.Error().Err(err).Uint("group_id", id).Msg("failed to update group")

		return handler.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	if err := activity.Record(s.db, adminUser.ID, ActionUpdate, g.Name, g); err != nil {
		log.Error().Err(err).Msg("failed to write audit row")
	}

	return handler.Success(c, g, "Group updated")
}

// Delete removes a group. Its grants and memberships cascade away.
func (s *Service) Delete(c *fiber.Ctx) error {
	adminUser := auth.CurrentUser(c)

	id, err := groupID(c)
	if err != nil {
		return handler.Error(c, fiber.StatusBadRequest, err.Error())
	}

	if err := group.Delete(s.db, id); err != nil {
		if errors.Is(err, group.ErrGroupNotFound) {
			return handler.Error(c, fiber.StatusNotFound, ErrGroupNotFound)
		}

		log.Error().Err(err).Uint("group_id", id).Msg("failed to delete group")

		return handler.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	if err := activity.Record(s.db, adminUser.ID, ActionDelete, strconv.FormatUint(uint64(id), 10), nil); err != nil {
		log.Error().Err(err).Msg("failed to write audit row")
	}

	return handler.Success(c, nil, "Group deleted")
}
