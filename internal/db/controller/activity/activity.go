// Package activity writes admin audit-log rows.
package activity

import (
	"encoding/json"
	"errors"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoWings-Provision/GoWings-Provision/internal/db/models"
)

// ErrDBNil is returned when the database connection is nil.
var ErrDBNil = errors.New("database connection is nil")

// Record writes one audit row. Metadata is marshalled to JSON; a marshal
// failure is logged and the row is written without metadata, because an
// audit write must never fail the admin action it describes.
func Record(db *gorm.DB, actorID uint64, action, subject string, metadata any) error {
	if db == nil {
		return ErrDBNil
	}

	row := models.Activity{
		ActorID: actorID,
		Action:  action,
		Subject: subject,
	}

	if metadata != nil {
		data, err := json.Marshal(metadata)
		if err != nil {
			log.Error().Err(err).Str("action", action).Msg("failed to marshal activity metadata")
		} else {
			row.Metadata = string(data)
		}
	}

	return db.Create(&row).Error
}

// ListByActor retrieves audit rows for one administrator, newest first.
func ListByActor(db *gorm.DB, actorID uint64, limit int) ([]models.Activity, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var rows []models.Activity
	result := db.Where("actor_id = ?", actorID).Order("id DESC").Limit(limit).Find(&rows)
	if result.Error != nil {
		return nil, result.Error
	}

	return rows, nil
}
