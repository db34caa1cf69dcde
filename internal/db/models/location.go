package models

import "time"

// Location mirrors the host panel's location table (read-only here).
type Location struct {
	ID          uint64 `gorm:"primaryKey"`
	ShortCode   string `gorm:"size:100"`
	Name        string `gorm:"size:255"`
	Description string `gorm:"size:255"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName pins the model to the panel's locations table.
func (Location) TableName() string {
	return "locations"
}
