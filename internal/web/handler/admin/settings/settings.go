// Package settings provides the admin endpoints for the provisioning policy document.
package settings

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoWings-Provision/GoWings-Provision/internal/config"
	"github.com/GoWings-Provision/GoWings-Provision/internal/db/controller/activity"
	"github.com/GoWings-Provision/GoWings-Provision/internal/db/controller/provisionsettings"
	"github.com/GoWings-Provision/GoWings-Provision/internal/web/handler"
	"github.com/GoWings-Provision/GoWings-Provision/internal/web/middleware/auth"
)

const (
	// Path is the base path for admin settings management.
	Path = handler.AdminRootPath + "/settings"

	// ActionUpdate is the audit-log action name for settings updates.
	ActionUpdate = "settings.update"

	// ErrInvalidBody is returned when the request body cannot be parsed.
	ErrInvalidBody = "Invalid request body"
	// ErrSettingsFailed is returned when loading or saving the document fails.
	ErrSettingsFailed = "SETTINGS_FAILED"
)

// Service provides read/update for the provisioning policy.
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
	app.Patch(Path, authed, admin, s.Update)
}

// Get returns the current policy document (defaults if never saved).
func (s *Service) Get(c *fiber.Ctx) error {
	settings := &provisionsettings.Settings{}
	if err := settings.Load(s.db); err != nil {
		log.Error().Err(err).Msg("failed to load provisioning settings")

		return handler.ErrorCode(c, fiber.StatusInternalServerError, ErrSettingsFailed, err.Error())
	}

	return handler.Success(c, settings, "")
}

// Update replaces the policy document with the submitted one.
func (s *Service) Update(c *fiber.Ctx) error {
	admin := auth.CurrentUser(c)

	settings := &provisionsettings.Settings{}
	if err := settings.Load(s.db); err != nil {
		return handler.ErrorCode(c, fiber.StatusInternalServerError, ErrSettingsFailed, err.Error())
	}

	if err := c.BodyParser(settings); err != nil {
		return handler.Error(c, fiber.StatusBadRequest, ErrInvalidBody)
	}

	if err := s.validator.Struct(settings); err != nil {
		return handler.Error(c, fiber.StatusBadRequest, "Validation failed: "+err.Error())
	}

	if err := settings.Save(s.db); err != nil {
		log.Error().Err(err).Msg("failed to save provisioning settings")

		return handler.ErrorCode(c, fiber.StatusInternalServerError, ErrSettingsFailed, err.Error())
	}

	if err := activity.Record(s.db, admin.ID, ActionUpdate, provisionsettings.SettingKeyProvisioning, settings); err != nil {
		log.Error().Err(err).Msg("failed to write audit row")
	}

	return handler.Success(c, settings, "Settings updated")
}
