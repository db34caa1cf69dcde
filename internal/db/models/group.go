package models

import "time"

// DefaultGroupColor is the hex color assigned to groups created without one.
const DefaultGroupColor = "#3B82F6"

// Group represents an administrator-defined permission group.
// Groups collect users and carry resource grants; a user inherits every
// grant held by any group they belong to.
type Group struct {
	// ID is the unique identifier for the group.
	ID uint `gorm:"primaryKey"`
	// Name is the unique display name of the group.
	Name string `gorm:"unique;size:100;not null"`
	// Description provides a human-readable explanation of the group's purpose.
	Description string `gorm:"size:255"`
	// Color is the hex color used by the admin UI to render the group badge.
	Color string `gorm:"size:7;not null;default:'#3B82F6'"`
	// Priority orders groups in listings; higher sorts first.
	Priority int `gorm:"not null;default:0"`
	// CreatedAt is the timestamp when the group was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the group was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the Group model.
// This overrides GORM's default pluralized table naming.
func (Group) TableName() string {
	return "provision_groups"
}
