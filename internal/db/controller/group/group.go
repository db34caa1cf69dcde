// Package group provides CRUD operations for provisioning groups.
package group

import (
	"errors"

	"gorm.io/gorm"

	"github.com/GoWings-Provision/GoWings-Provision/internal/db/models"
)

var (
	// ErrGroupNotFound is returned when a group is not found.
	ErrGroupNotFound = errors.New("group not found")
	// ErrGroupNameEmpty is returned when attempting to create/update a group with an empty name.
	ErrGroupNameEmpty = errors.New("group name cannot be empty")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Get retrieves a group by its ID.
func Get(db *gorm.DB, id uint) (*models.Group, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var g models.Group
	result := db.First(&g, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, result.Error
	}

	return &g, nil
}

// GetAll retrieves all groups ordered by priority (higher first), then name.
func GetAll(db *gorm.DB) ([]models.Group, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var groups []models.Group
	result := db.Order("priority DESC, name ASC").Find(&groups)
	if result.Error != nil {
		return nil, result.Error
	}

	return groups, nil
}

// Create creates a new group. A blank color falls back to the default.
func Create(db *gorm.DB, g *models.Group) error {
	if db == nil {
		return ErrDBNil
	}
	if g.Name == "" {
		return ErrGroupNameEmpty
	}

	if g.Color == "" {
		g.Color = models.DefaultGroupColor
	}

	return db.Create(g).Error
}

// Update updates an existing group.
func Update(db *gorm.DB, g *models.Group) error {
	if db == nil {
		return ErrDBNil
	}
	if g.Name == "" {
		return ErrGroupNameEmpty
	}

	var existing models.Group
	result := db.First(&existing, g.ID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return ErrGroupNotFound
		}
		return result.Error
	}

	return db.Save(g).Error
}

// Delete deletes a group by ID. Grants and memberships cascade away with it.
func Delete(db *gorm.DB, id uint) error {
	if db == nil {
		return ErrDBNil
	}

	result := db.Delete(&models.Group{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrGroupNotFound
	}

	return nil
}
