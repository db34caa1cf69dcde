package provision

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/GoWings-Provision/GoWings-Provision/internal/db/controller/provisionsettings"
	"github.com/GoWings-Provision/GoWings-Provision/internal/db/models"
	"github.com/GoWings-Provision/GoWings-Provision/internal/web/handler"
	"github.com/GoWings-Provision/GoWings-Provision/internal/web/middleware/auth"
)

// Options returns the locations, nodes, realms and spells the user may pick
// from, plus their current quota headroom and the configured minimums.
func (s *Service) Options(c *fiber.Ctx) error {
	user := auth.CurrentUser(c)

	settings := &provisionsettings.Settings{}
	if err := settings.Load(s.db); err != nil {
		log.Error().Err(err).Msg("failed to load provisioning settings")

		return handler.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	var (
		locations []models.Location
		nodes     []models.Node
		realms    []models.Realm
		spells    []models.Spell
	)

	if err := s.db.Find(&locations).Error; err != nil {
		log.Error().Err(err).Msg("failed to load locations")

		return handler.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	if err := s.db.Where("public = ?", true).Find(&nodes).Error; err != nil {
		log.Error().Err(err).Msg("failed to load nodes")

		return handler.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	if err := s.db.Find(&realms).Error; err != nil {
		log.Error().Err(err).Msg("failed to load realms")

		return handler.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	if err := s.db.Find(&spells).Error; err != nil {
		log.Error().Err(err).Msg("failed to load spells")

		return handler.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	locationOptions, err := s.filter.Locations(settings, locations, &user.ID)
	if err != nil {
		return handler.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	nodeOptions, err := s.filter.Nodes(settings, nodes, &user.ID)
	if err != nil {
		return handler.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	realmOptions, err := s.filter.Realms(settings, realms, &user.ID)
	if err != nil {
		return handler.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	spellOptions, err := s.filter.Spells(settings, spells, &user.ID)
	if err != nil {
		return handler.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	available, err := s.quota.Available(user.ID)
	if err != nil {
		log.Error().Err(err).Uint64("user_id", user.ID).Msg("failed to compute quota")

		return handler.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	return handler.Success(c, fiber.Map{
		"locations": locationOptions,
		"nodes":     nodeOptions,
		"realms":    realmOptions,
		"spells":    spellOptions,
		"available": available,
		"minimums": fiber.Map{
			"memory": settings.MinimumMemory,
			"cpu":    settings.MinimumCPU,
			"disk":   settings.MinimumDisk,
		},
	}, "")
}
