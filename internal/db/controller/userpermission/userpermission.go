// Package userpermission manages direct resource grants held by panel users.
package userpermission

import (
	"errors"

	"gorm.io/gorm"

	"github.com/GoWings-Provision/GoWings-Provision/internal/db/models"
)

const userResourceQuery = "user_id = ? AND resource_type = ? AND resource_id = ?"

var (
	// ErrGrantNotFound is returned when a grant is not found.
	ErrGrantNotFound = errors.New("user permission not found")
	// ErrInvalidResourceType is returned for resource types outside the four-valued enum.
	ErrInvalidResourceType = errors.New("invalid resource type")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Grant creates a grant, or updates its custom error message if it already
// exists (upsert semantics: re-granting updates the message).
func Grant(db *gorm.DB, userID uint64, resourceType models.ResourceType, resourceID uint64, customError string) (*models.UserPermission, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if !resourceType.Valid() {
		return nil, ErrInvalidResourceType
	}

	var grant models.UserPermission
	result := db.Where(userResourceQuery, userID, resourceType, resourceID).First(&grant)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		grant = models.UserPermission{
			UserID:             userID,
			ResourceType:       resourceType,
			ResourceID:         resourceID,
			CustomErrorMessage: customError,
		}

		if err := db.Create(&grant).Error; err != nil {
			return nil, err
		}

		return &grant, nil
	}
	if result.Error != nil {
		return nil, result.Error
	}

	grant.CustomErrorMessage = customError
	if err := db.Save(&grant).Error; err != nil {
		return nil, err
	}

	return &grant, nil
}

// Revoke removes a grant.
func Revoke(db *gorm.DB, userID uint64, resourceType models.ResourceType, resourceID uint64) error {
	if db == nil {
		return ErrDBNil
	}
	if !resourceType.Valid() {
		return ErrInvalidResourceType
	}

	result := db.Where(userResourceQuery, userID, resourceType, resourceID).
		Delete(&models.UserPermission{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrGrantNotFound
	}

	return nil
}

// Find looks up the user's direct grant for a resource.
// Returns ErrGrantNotFound if the user holds none.
func Find(db *gorm.DB, userID uint64, resourceType models.ResourceType, resourceID uint64) (*models.UserPermission, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var grant models.UserPermission
	result := db.Where(userResourceQuery, userID, resourceType, resourceID).First(&grant)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrGrantNotFound
		}
		return nil, result.Error
	}

	return &grant, nil
}

// ListByUser retrieves all direct grants held by one user.
func ListByUser(db *gorm.DB, userID uint64) ([]models.UserPermission, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var grants []models.UserPermission
	result := db.Where("user_id = ?", userID).Find(&grants)
	if result.Error != nil {
		return nil, result.Error
	}

	return grants, nil
}

// CountForUser counts the user's direct grants. Holding any grant implicitly
// qualifies a user under the "specific" restriction mode.
func CountForUser(db *gorm.DB, userID uint64) (int64, error) {
	if db == nil {
		return 0, ErrDBNil
	}

	var count int64
	result := db.Model(&models.UserPermission{}).Where("user_id = ?", userID).Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}

	return count, nil
}
