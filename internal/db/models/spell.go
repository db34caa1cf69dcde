package models

import (
	"encoding/json"
	"time"
)

// Spell mirrors the host panel's spell (egg) table (read-only here).
// A spell is an installable game-server template belonging to one realm,
// carrying the startup command and docker image options.
type Spell struct {
	ID          uint64 `gorm:"primaryKey"`
	RealmID     uint64 `gorm:"column:realm_id;not null"`
	Name        string `gorm:"size:255"`
	Description string `gorm:"size:255"`
	Startup     string `gorm:"type:text"`
	// DockerImages is a JSON object of display name to image reference.
	DockerImages string `gorm:"column:docker_images;type:text"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName pins the model to the panel's spells table.
func (Spell) TableName() string {
	return "spells"
}

// Images decodes the docker image options. A blank or malformed document
// yields an empty map.
func (s *Spell) Images() map[string]string {
	images := map[string]string{}
	if s.DockerImages == "" {
		return images
	}

	if err := json.Unmarshal([]byte(s.DockerImages), &images); err != nil {
		return map[string]string{}
	}

	return images
}
