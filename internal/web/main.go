// Package web assembles the fiber application: middleware, handler routes,
// liveness and metrics endpoints, and graceful shutdown.
package web

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoWings-Provision/GoWings-Provision/internal/config"
	fiberlogger "github.com/GoWings-Provision/GoWings-Provision/internal/logger/adapter/fiber"
	admingroup "github.com/GoWings-Provision/GoWings-Provision/internal/web/handler/admin/group"
	adminresourcepermission "github.com/GoWings-Provision/GoWings-Provision/internal/web/handler/admin/resourcepermission"
	adminsettings "github.com/GoWings-Provision/GoWings-Provision/internal/web/handler/admin/settings"
	adminusergroup "github.com/GoWings-Provision/GoWings-Provision/internal/web/handler/admin/usergroup"
	adminuserpermission "github.com/GoWings-Provision/GoWings-Provision/internal/web/handler/admin/userpermission"
	userprovision "github.com/GoWings-Provision/GoWings-Provision/internal/web/handler/user/provision"
)

// CheckAliveURI is the liveness endpoint polled by load balancers.
const CheckAliveURI = "/checkalive"

// MetricsURI exposes prometheus metrics.
const MetricsURI = "/metrics"

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
	db           *gorm.DB
}

// Start starts the web service on the given address.
func (s *Service) Start(addr string) error {
	var doneFiber = make(chan bool)

	go func() {
		if err := s.App.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Msgf("fiber listen error: %v", err)
		}

		doneFiber <- true
	}()

	<-doneFiber // wait for fiber to stop

	return nil
}

// WaitShutdown waits for graceful shutdown of the service.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	// Graceful shutdown for reverse proxies: set status to fail, so checkalive returns fail.
	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		s.alive.Store(false)
		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	// stop fiber http server
	serverShutdown := make(chan struct{})

	go func() {
		log.Info().Msg("stopping http server ...")

		err := s.App.Shutdown()
		if err != nil {
			log.Error().Err(err).Msg("")
		}

		serverShutdown <- struct{}{}
	}()

	<-serverShutdown
	log.Info().Msg("http server was stopped ... good bye...")
}

// New creates a new web service with the given configuration.
func New(cfg *config.Config, db *gorm.DB) *Service {
	if cfg == nil {
		panic("config cannot be nil")
	}

	if db == nil {
		panic("db cannot be nil")
	}

	// create fiber app
	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 8192,
			AppName:        "GoWings-Provision",
			CaseSensitive:  true,
			Prefork:        false,
			Immutable:      true,
		},
	)

	if !cfg.Webserver.DisableRecover {
		app.Use(recover.New())
	}

	// access logging via zerolog
	app.Use(fiberlogger.New(fiberlogger.Config{
		Config:        cfg.Log,
		CheckAliveURI: CheckAliveURI,
	}))

	// init web service
	service := &Service{
		cfg: cfg,
		App: app,
		db:  db,
	}
	service.alive.Store(true)

	app.Get(CheckAliveURI, func(c *fiber.Ctx) error {
		if !service.alive.Load() {
			return c.SendStatus(fiber.StatusServiceUnavailable)
		}

		return c.SendString("OK")
	})

	app.Get(MetricsURI, adaptor.HTTPHandler(promhttp.Handler()))

	// init handlers (they register their own routes with auth middleware)
	userprovision.Handler.Init(app, cfg, db)
	adminsettings.Handler.Init(app, cfg, db)
	admingroup.Handler.Init(app, cfg, db)
	adminusergroup.Handler.Init(app, cfg, db)
	adminuserpermission.Handler.Init(app, cfg, db)
	adminresourcepermission.Handler.Init(app, cfg, db)

	return service
}
