// Package resourcepermission manages the per-resource open/restricted policy rows.
package resourcepermission

import (
	"errors"

	"gorm.io/gorm"

	"github.com/GoWings-Provision/GoWings-Provision/internal/db/models"
)

const resourceQuery = "resource_type = ? AND resource_id = ?"

var (
	// ErrPolicyNotFound is returned when no policy row exists for a resource.
	ErrPolicyNotFound = errors.New("resource permission not found")
	// ErrInvalidResourceType is returned for resource types outside the four-valued enum.
	ErrInvalidResourceType = errors.New("invalid resource type")
	// ErrInvalidPermissionMode is returned for modes other than open/restricted.
	ErrInvalidPermissionMode = errors.New("invalid permission mode")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Entry is one row of a batch set operation.
type Entry struct {
	ResourceType        models.ResourceType
	ResourceID          uint64
	PermissionMode      models.PermissionMode
	DefaultErrorMessage string
}

func validMode(m models.PermissionMode) bool {
	return m == models.PermissionModeOpen || m == models.PermissionModeRestricted
}

// Get retrieves the policy row for a resource.
// Returns ErrPolicyNotFound when none exists (which callers treat as open).
func Get(db *gorm.DB, resourceType models.ResourceType, resourceID uint64) (*models.ResourcePermission, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var policy models.ResourcePermission
	result := db.Where(resourceQuery, resourceType, resourceID).First(&policy)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrPolicyNotFound
		}
		return nil, result.Error
	}

	return &policy, nil
}

// GetAll retrieves all policy rows.
func GetAll(db *gorm.DB) ([]models.ResourcePermission, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var policies []models.ResourcePermission
	result := db.Find(&policies)
	if result.Error != nil {
		return nil, result.Error
	}

	return policies, nil
}

// Set creates or updates the policy row for a resource (upsert).
func Set(db *gorm.DB, entry Entry) (*models.ResourcePermission, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	return setTx(db, entry)
}

func setTx(tx *gorm.DB, entry Entry) (*models.ResourcePermission, error) {
	if !entry.ResourceType.Valid() {
		return nil, ErrInvalidResourceType
	}
	if !validMode(entry.PermissionMode) {
		return nil, ErrInvalidPermissionMode
	}

	var policy models.ResourcePermission
	result := tx.Where(resourceQuery, entry.ResourceType, entry.ResourceID).First(&policy)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		policy = models.ResourcePermission{
			ResourceType:        entry.ResourceType,
			ResourceID:          entry.ResourceID,
			PermissionMode:      entry.PermissionMode,
			DefaultErrorMessage: entry.DefaultErrorMessage,
		}

		if err := tx.Create(&policy).Error; err != nil {
			return nil, err
		}

		return &policy, nil
	}
	if result.Error != nil {
		return nil, result.Error
	}

	policy.PermissionMode = entry.PermissionMode
	policy.DefaultErrorMessage = entry.DefaultErrorMessage
	if err := tx.Save(&policy).Error; err != nil {
		return nil, err
	}

	return &policy, nil
}

// BatchSet upserts all entries inside one transaction. Any malformed entry
// rolls the whole batch back; no partial rows are committed.
func BatchSet(db *gorm.DB, entries []Entry) error {
	if db == nil {
		return ErrDBNil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for _, entry := range entries {
			if _, err := setTx(tx, entry); err != nil {
				return err
			}
		}

		return nil
	})
}

// Delete removes the policy row for a resource, returning it to the default
// open state.
func Delete(db *gorm.DB, resourceType models.ResourceType, resourceID uint64) error {
	if db == nil {
		return ErrDBNil
	}

	result := db.Where(resourceQuery, resourceType, resourceID).
		Delete(&models.ResourcePermission{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPolicyNotFound
	}

	return nil
}
