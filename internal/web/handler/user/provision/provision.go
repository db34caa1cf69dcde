// Package provision provides the user-facing self-provisioning endpoints:
// creation options, spell details, free allocations and server creation.
package provision

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoWings-Provision/GoWings-Provision/internal/config"
	"github.com/GoWings-Provision/GoWings-Provision/internal/permission"
	"github.com/GoWings-Provision/GoWings-Provision/internal/provision"
	"github.com/GoWings-Provision/GoWings-Provision/internal/quota"
	"github.com/GoWings-Provision/GoWings-Provision/internal/web/handler"
	"github.com/GoWings-Provision/GoWings-Provision/internal/web/middleware/auth"
	"github.com/GoWings-Provision/GoWings-Provision/internal/wings"
)

const (
	// Path is the base path for user-facing provisioning.
	Path = handler.UserRootPath

	// RouteOptions lists the filtered creation options.
	RouteOptions = Path + "/options"
	// RouteSpell returns one spell's details.
	RouteSpell = Path + "/spells/:id"
	// RouteAllocations lists free allocations on a node.
	RouteAllocations = Path + "/allocations"
	// RouteServers creates a server.
	RouteServers = Path + "/servers"

	// QueryNodeID is the query parameter naming the node for allocations.
	QueryNodeID = "node_id"

	// ErrInvalidID is returned when the provided id parameter is invalid or non-positive.
	ErrInvalidID = "Invalid id"
	// ErrSpellNotFound is returned when a spell with the given id does not exist.
	ErrSpellNotFound = "Spell not found"
	// ErrMissingNodeID is returned when the node_id query parameter is absent.
	ErrMissingNodeID = "Missing node_id query parameter"
	// ErrInvalidBody is returned when the request body cannot be parsed.
	ErrInvalidBody = "Invalid request body"
)

// Service provides the user-facing provisioning endpoints.
type Service struct {
	cfg       *config.Config
	db        *gorm.DB
	validator *validator.Validate

	resolver *permission.Service
	quota    *quota.Service
	filter   *provision.Filter
	checks   *provision.Validator
	creator  *provision.Creator
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

	s.resolver = permission.NewService(db)
	s.quota = quota.NewService(db)
	s.filter = provision.NewFilter(db, s.resolver)
	s.checks = provision.NewValidator(db, s.resolver, s.quota)
	s.creator = provision.NewCreator(db, wings.New())

	authed := auth.New(db)

	app.Get(RouteOptions, authed, s.Options)
	app.Get(RouteSpell, authed, s.Spell)
	app.Get(RouteAllocations, authed, s.Allocations)
	app.Post(RouteServers, authed, s.CreateServer)
}
