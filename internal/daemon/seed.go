package daemon

import (
	"errors"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoWings-Provision/GoWings-Provision/internal/config"
	"github.com/GoWings-Provision/GoWings-Provision/internal/db/controller/provisionsettings"
	"github.com/GoWings-Provision/GoWings-Provision/internal/db/controller/setting"
)

func seed(_ *config.Config, db *gorm.DB) {
	// Seed the default provisioning policy document if none exists yet.

	_, err := setting.Get(db, provisionsettings.SettingKeyProvisioning)
	if err == nil {
		return
	}

	if !errors.Is(err, setting.ErrSettingNotFound) {
		log.Error().Err(err).Msg("failed to check provisioning settings")
		return
	}

	defaults := provisionsettings.Default()
	if err := defaults.Save(db); err != nil {
		log.Error().Err(err).Msg("failed to seed provisioning settings")
		return
	}

	log.Info().Msg("seeded default provisioning settings")
}
