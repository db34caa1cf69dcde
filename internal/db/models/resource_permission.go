package models

import "time"

// ResourcePermission stores the per-resource gating policy.
// At most one row exists per (resource_type, resource_id); absence of a row
// means the resource is open with the type's default error message.
type ResourcePermission struct {
	// ID is the unique identifier for the policy row.
	ID uint `gorm:"primaryKey"`
	// ResourceType is one of location, node, realm or spell.
	// Combined with ResourceID this forms a unique constraint.
	ResourceType ResourceType `gorm:"type:varchar(20);not null;uniqueIndex:idx_resource"`
	// ResourceID is the panel id of the resource this policy applies to.
	ResourceID uint64 `gorm:"not null;uniqueIndex:idx_resource"`
	// PermissionMode is either open (global allow-list gating) or restricted
	// (explicit user/group grant gating).
	PermissionMode PermissionMode `gorm:"type:varchar(20);not null;default:'open'"`
	// DefaultErrorMessage is shown when access to this resource is denied and
	// no more specific message applies.
	DefaultErrorMessage string `gorm:"size:255"`
	// CreatedAt is the timestamp when the policy row was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the policy row was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the ResourcePermission model.
// This overrides GORM's default pluralized table naming.
func (ResourcePermission) TableName() string {
	return "provision_resource_permissions"
}
