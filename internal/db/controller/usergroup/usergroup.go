// Package usergroup manages the many-to-many membership between panel users
// and provisioning groups.
package usergroup

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/GoWings-Provision/GoWings-Provision/internal/db/models"
)

var (
	// ErrMembershipNotFound is returned when a membership edge is not found.
	ErrMembershipNotFound = errors.New("user group membership not found")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Assign adds a user to a group. Assigning an existing membership is a no-op
// (insert-or-ignore).
func Assign(db *gorm.DB, userID uint64, groupID uint) error {
	if db == nil {
		return ErrDBNil
	}

	edge := models.UserGroup{UserID: userID, GroupID: groupID}

	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&edge).Error
}

// Remove hard-deletes a membership edge.
func Remove(db *gorm.DB, userID uint64, groupID uint) error {
	if db == nil {
		return ErrDBNil
	}

	result := db.Where("user_id = ? AND group_id = ?", userID, groupID).
		Delete(&models.UserGroup{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrMembershipNotFound
	}

	return nil
}

// SetGroupsForUser replaces the user's full membership set transactionally:
// delete-all then insert-all. A mid-batch failure leaves prior state intact.
func SetGroupsForUser(db *gorm.DB, userID uint64, groupIDs []uint) error {
	if db == nil {
		return ErrDBNil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.UserGroup{}).Error; err != nil {
			return err
		}

		for _, groupID := range groupIDs {
			edge := models.UserGroup{UserID: userID, GroupID: groupID}
			if err := tx.Create(&edge).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// GroupIDsForUser returns the ids of all groups the user belongs to.
func GroupIDsForUser(db *gorm.DB, userID uint64) ([]uint, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var ids []uint
	result := db.Model(&models.UserGroup{}).
		Where("user_id = ?", userID).
		Pluck("group_id", &ids)
	if result.Error != nil {
		return nil, result.Error
	}

	return ids, nil
}

// GroupsForUser returns the groups the user belongs to, ordered by priority
// (higher first), then name.
func GroupsForUser(db *gorm.DB, userID uint64) ([]models.Group, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var groups []models.Group
	result := db.Model(&models.Group{}).
		Joins("JOIN provision_user_groups ON provision_user_groups.group_id = provision_groups.id").
		Where("provision_user_groups.user_id = ?", userID).
		Order("priority DESC, name ASC").
		Find(&groups)
	if result.Error != nil {
		return nil, result.Error
	}

	return groups, nil
}

// UserIDsForGroup returns the ids of all users in a group.
func UserIDsForGroup(db *gorm.DB, groupID uint) ([]uint64, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var ids []uint64
	result := db.Model(&models.UserGroup{}).
		Where("group_id = ?", groupID).
		Pluck("user_id", &ids)
	if result.Error != nil {
		return nil, result.Error
	}

	return ids, nil
}
