// Package resourcepermission provides the admin endpoints for per-resource
// open/restricted policy rows.
package resourcepermission

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoWings-Provision/GoWings-Provision/internal/config"
	"github.com/GoWings-Provision/GoWings-Provision/internal/db/controller/activity"
	"github.com/GoWings-Provision/GoWings-Provision/internal/db/controller/resourcepermission"
	"github.com/GoWings-Provision/GoWings-Provision/internal/db/models"
	"github.com/GoWings-Provision/GoWings-Provision/internal/web/handler"
	"github.com/GoWings-Provision/GoWings-Provision/internal/web/middleware/auth"
)

const (
	// Path is the base path for per-resource policy management.
	Path = handler.AdminRootPath + "/resource-permissions"

	// RouteBatch upserts many policy rows in one transaction.
	RouteBatch = Path + "/batch"

	// ActionSet is the audit-log action name for a single policy upsert.
	ActionSet = "resource.permission.set"
	// ActionBatchSet is the audit-log action name for a batch upsert.
	ActionBatchSet = "resource.permission.batch_set"
	// ActionDelete is the audit-log action name for removing a policy row.
	ActionDelete = "resource.permission.delete"

	// ErrInvalidBody is returned when the request body cannot be parsed.
	ErrInvalidBody = "Invalid request body"
	// ErrPolicyNotFound is returned when the policy row to delete does not exist.
	ErrPolicyNotFound = "Resource permission not found"
)

// Service provides admin management of per-resource policies.
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
	app.Put(Path, authed, admin, s.Set)
	app.Delete(Path, authed, admin, s.Delete)
	app.Put(RouteBatch, authed, admin, s.BatchSet)
}

// entryPayload is one policy row.
type entryPayload struct {
	ResourceType models.ResourceType   `json:"resource_type" validate:"required"`
	ResourceID   uint64                `json:"resource_id" validate:"required,gt=0"`
	Mode         models.PermissionMode `json:"permission_mode" validate:"required,oneof=open restricted"`
	ErrorMessage string                `json:"error_message"`
}

func (p *entryPayload) entry() resourcepermission.Entry {
	return resourcepermission.Entry{
		ResourceType:        p.ResourceType,
		ResourceID:          p.ResourceID,
		PermissionMode:      p.Mode,
		DefaultErrorMessage: p.ErrorMessage,
	}
}

// batchPayload is the batch upsert body.
type batchPayload struct {
	Entries []entryPayload `json:"entries" validate:"required,min=1,dive"`
}

// List returns all policy rows. Resources without a row are open by default
// and do not appear here.
func (s *Service) List(c *fiber.Ctx) error {
	policies, err := resourcepermission.GetAll(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to list resource permissions")

		return handler.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	return handler.Success(c, policies, "")
}

// Set creates or updates one policy row.
func (s *Service) Set(c *fiber.Ctx) error {
	adminUser := auth.CurrentUser(c)

	payload := new(entryPayload)
	if err := c.BodyParser(payload); err != nil {
		return handler.Error(c, fiber.StatusBadRequest, ErrInvalidBody)
	}

	if err := s.validator.Struct(payload); err != nil {
		return handler.Error(c, fiber.StatusBadRequest, "Validation failed: "+err.Error())
	}

	policy, err := resourcepermission.Set(s.db, payload.entry())
	if err != nil {
		if errors.Is(err, resourcepermission.ErrInvalidResourceType) ||
			errors.Is(err, resourcepermission.ErrInvalidPermissionMode) {
			return handler.Error(c, fiber.StatusBadRequest, err.Error())
		}

		log.Error().Err(err).Msg("failed to set resource permission")

		return handler.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	if err := activity.Record(s.db, adminUser.ID, ActionSet, string(payload.ResourceType), policy); err != nil {
		log.Error().Err(err).Msg("failed to write audit row")
	}

	return handler.Success(c, policy, "Resource permission saved")
}

// BatchSet upserts all submitted rows in one transaction. A single malformed
// row rejects the whole batch; nothing is committed.
func (s *Service) BatchSet(c *fiber.Ctx) error {
	adminUser := auth.CurrentUser(c)

	payload := new(batchPayload)
	if err := c.BodyParser(payload); err != nil {
		return handler.Error(c, fiber.StatusBadRequest, ErrInvalidBody)
	}

	if err := s.validator.Struct(payload); err != nil {
		return handler.Error(c, fiber.StatusBadRequest, "Validation failed: "+err.Error())
	}

	entries := make([]resourcepermission.Entry, 0, len(payload.Entries))
	for i := range payload.Entries {
		entries = append(entries, payload.Entries[i].entry())
	}

	if err := resourcepermission.BatchSet(s.db, entries); err != nil {
		if errors.Is(err, resourcepermission.ErrInvalidResourceType) ||
			errors.Is(err, resourcepermission.ErrInvalidPermissionMode) {
			return handler.Error(c, fiber.StatusBadRequest, err.Error())
		}

		log.Error().Err(err).Int("entries", len(entries)).Msg("failed to batch set resource permissions")

		return handler.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	if err := activity.Record(s.db, adminUser.ID, ActionBatchSet, "", payload); err != nil {
		log.Error().Err(err).Msg("failed to write audit row")
	}

	return handler.Success(c, nil, "Resource permissions saved")
}

// Delete removes one policy row, returning that resource to the default open
// state.
func (s *Service) Delete(c *fiber.Ctx) error {
	adminUser := auth.CurrentUser(c)

	payload := new(entryPayload)
	if err := c.BodyParser(payload); err != nil {
		return handler.Error(c, fiber.StatusBadRequest, ErrInvalidBody)
	}

	err := resourcepermission.Delete(s.db, payload.ResourceType, payload.ResourceID)
	if err != nil {
		if errors.Is(err, resourcepermission.ErrPolicyNotFound) {
			return handler.Error(c, fiber.StatusNotFound, ErrPolicyNotFound)
		}

		log.Error().Err(err).Msg("failed to delete resource permission")

		return handler.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	if err := activity.Record(s.db, adminUser.ID, ActionDelete, string(payload.ResourceType), payload); err != nil {
		log.Error().Err(err).Msg("failed to write audit row")
	}

	return handler.Success(c, nil, "Resource permission deleted")
}
