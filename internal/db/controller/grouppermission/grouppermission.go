// Package grouppermission manages resource grants held by groups.
package grouppermission

import (
	"errors"

	"gorm.io/gorm"

	"github.com/GoWings-Provision/GoWings-Provision/internal/db/models"
)

const groupResourceQuery = "group_id = ? AND resource_type = ? AND resource_id = ?"

var (
	// ErrGrantNotFound is returned when a grant is not found.
	ErrGrantNotFound = errors.New("group permission not found")
	// ErrInvalidResourceType is returned for resource types outside the four-valued enum.
	ErrInvalidResourceType = errors.New("invalid resource type")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Grant creates a grant, or updates its custom error message if it already
// exists (upsert semantics: re-granting updates the message).
func Grant(db *gorm.DB, groupID uint, resourceType models.ResourceType, resourceID uint64, customError string) (*models.GroupPermission, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if !resourceType.Valid() {
		return nil, ErrInvalidResourceType
	}

	var grant models.GroupPermission
	result := db.Where(groupResourceQuery, groupID, resourceType, resourceID).First(&grant)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		grant = models.GroupPermission{
			GroupID:            groupID,
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
func Revoke(db *gorm.DB, groupID uint, resourceType models.ResourceType, resourceID uint64) error {
	if db == nil {
		return ErrDBNil
	}
	if !resourceType.Valid() {
		return ErrInvalidResourceType
	}

	result := db.Where(groupResourceQuery, groupID, resourceType, resourceID).
		Delete(&models.GroupPermission{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrGrantNotFound
	}

	return nil
}

// ListByGroup retrieves all grants held by one group.
func ListByGroup(db *gorm.DB, groupID uint) ([]models.GroupPermission, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var grants []models.GroupPermission
	result := db.Where("group_id = ?", groupID).Find(&grants)
	if result.Error != nil {
		return nil, result.Error
	}

	return grants, nil
}

// FindForGroups looks up a grant for the given resource held by any of the
// given groups. Returns ErrGrantNotFound if none of them hold one.
func FindForGroups(db *gorm.DB, groupIDs []uint, resourceType models.ResourceType, resourceID uint64) (*models.GroupPermission, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if len(groupIDs) == 0 {
		return nil, ErrGrantNotFound
	}

	var grant models.GroupPermission
	result := db.Where("group_id IN ? AND resource_type = ? AND resource_id = ?",
		groupIDs, resourceType, resourceID).First(&grant)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrGrantNotFound
		}
		return nil, result.Error
	}

	return &grant, nil
}
