package models

import "time"

// UserPermission grants one panel user direct access to one resource.
// Same shape as GroupPermission but scoped to a single user; a direct grant
// takes precedence over group grants during resolution.
type UserPermission struct {
	// ID is the unique identifier for the grant.
	ID uint `gorm:"primaryKey"`
	// UserID is the ID of the panel user holding the grant.
	// Combined with ResourceType and ResourceID this forms a unique constraint.
	UserID uint64 `gorm:"not null;uniqueIndex:idx_user_resource"`
	// ResourceType is one of location, node, realm or spell.
	ResourceType ResourceType `gorm:"type:varchar(20);not null;uniqueIndex:idx_user_resource"`
	// ResourceID is the panel id of the granted resource.
	ResourceID uint64 `gorm:"not null;uniqueIndex:idx_user_resource"`
	// CustomErrorMessage optionally overrides the denial message shown for
	// this resource when the grant is the deciding rule.
	CustomErrorMessage string `gorm:"size:255"`
	// User is the associated panel user (loaded via foreign key).
	// When a user is deleted, their grants are automatically removed (CASCADE).
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	// CreatedAt is the timestamp when the grant was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the grant was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the UserPermission model.
// This overrides GORM's default pluralized table naming.
func (UserPermission) TableName() string {
	return "provision_user_permissions"
}
