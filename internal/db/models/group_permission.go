package models

import "time"

// GroupPermission grants one group access to one resource.
// Presence of a row always means "allowed", regardless of the resource's
// open/restricted mode; grants are additive escalation.
type GroupPermission struct {
	// ID is the unique identifier for the grant.
	ID uint `gorm:"primaryKey"`
	// GroupID is the ID of the group holding the grant.
	// Combined with ResourceType and ResourceID this forms a unique constraint.
	GroupID uint `gorm:"not null;uniqueIndex:idx_group_resource"`
	// ResourceType is one of location, node, realm or spell.
	ResourceType ResourceType `gorm:"type:varchar(20);not null;uniqueIndex:idx_group_resource"`
	// ResourceID is the panel id of the granted resource.
	ResourceID uint64 `gorm:"not null;uniqueIndex:idx_group_resource"`
	// CustomErrorMessage optionally overrides the denial message shown for
	// this resource when the grant is the deciding rule.
	CustomErrorMessage string `gorm:"size:255"`
	// Group is the associated group (loaded via foreign key).
	// When a group is deleted, its grants are automatically removed (CASCADE).
	Group Group `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE"`
	// CreatedAt is the timestamp when the grant was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the grant was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the GroupPermission model.
// This overrides GORM's default pluralized table naming.
func (GroupPermission) TableName() string {
	return "provision_group_permissions"
}
