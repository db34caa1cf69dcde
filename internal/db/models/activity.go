package models

import "time"

// Activity is an admin audit-log row. Every admin mutation writes one.
type Activity struct {
	ID uint64 `gorm:"primaryKey"`
	// ActorID is the panel user id of the administrator who performed the action.
	ActorID uint64 `gorm:"not null;index"`
	// Action names the mutation, e.g. "group.create" or "settings.update".
	Action string `gorm:"size:100;not null"`
	// Subject identifies what was acted on, e.g. "group:4".
	Subject string `gorm:"size:255"`
	// Metadata is a JSON document with action-specific details.
	Metadata string `gorm:"type:text"`
	// CreatedAt is the timestamp of the action (managed by GORM).
	CreatedAt time.Time
}

// TableName specifies the database table name for the Activity model.
func (Activity) TableName() string {
	return "provision_activities"
}
