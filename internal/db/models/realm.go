package models

import "time"

// Realm mirrors the host panel's realm (nest) table (read-only here).
// A realm is a category of game types, e.g. "Minecraft".
type Realm struct {
	ID          uint64 `gorm:"primaryKey"`
	Name        string `gorm:"size:255"`
	Description string `gorm:"size:255"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName pins the model to the panel's realms table.
func (Realm) TableName() string {
	return "realms"
}
