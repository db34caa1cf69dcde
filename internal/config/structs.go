package config

import (
	"github.com/GoWings-Provision/GoWings-Provision/internal/logger"
)

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	DB        DB
	Log       logger.Log
	Title     string
	Webserver Webserver
}

// Webserver implement webserver settings.
type Webserver struct {
	Domain         string // domain name for the webserver
	Port           int    // listening port for the webserver
	ShutDownTime   int    // wait time for shutdown
	URL            string // base url for the webserver
	DisableRecover bool   // disable recover middleware
}
