// Package quota computes how much of each resource dimension a user has
// left, from the per-user limits on the panel user row minus what their
// existing servers already consume.
package quota

import (
	"errors"

	"gorm.io/gorm"

	"github.com/GoWings-Provision/GoWings-Provision/internal/db/models"
)

var (
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
	// ErrUserNotFound is returned when the panel user row does not exist.
	ErrUserNotFound = errors.New("user not found")
)

// Dimension is one quota dimension. A Limit of 0 means unlimited.
type Dimension struct {
	Limit int `json:"limit"`
	Used  int `json:"used"`
}

// CanFit reports whether want more units still fit within the limit.
func (d Dimension) CanFit(want int) bool {
	if d.Limit == 0 {
		return true
	}

	return d.Used+want <= d.Limit
}

// Remaining returns the unused units, or -1 for an unlimited dimension.
func (d Dimension) Remaining() int {
	if d.Limit == 0 {
		return -1
	}

	remaining := d.Limit - d.Used
	if remaining < 0 {
		return 0
	}

	return remaining
}

// Available is the user's current headroom per dimension.
type Available struct {
	Servers     Dimension `json:"servers"`
	Memory      Dimension `json:"memory"`
	CPU         Dimension `json:"cpu"`
	Disk        Dimension `json:"disk"`
	Databases   Dimension `json:"databases"`
	Backups     Dimension `json:"backups"`
	Allocations Dimension `json:"allocations"`
}

// Service computes per-user quota availability.
type Service struct {
	db *gorm.DB
}

// NewService creates a new quota service.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

type usage struct {
	Count       int
	Memory      int
	CPU         int
	Disk        int
	Databases   int
	Backups     int
	Allocations int
}

// Available returns the user's quota state across all dimensions.
func (s *Service) Available(userID uint64) (Available, error) {
	if s.db == nil {
		return Available{}, ErrDBNil
	}

	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Available{}, ErrUserNotFound
		}

		return Available{}, err
	}

	var used usage
	err := s.db.Model(&models.Server{}).
		Select("COUNT(*) AS count, " +
			"COALESCE(SUM(memory), 0) AS memory, " +
			"COALESCE(SUM(cpu), 0) AS cpu, " +
			"COALESCE(SUM(disk), 0) AS disk, " +
			"COALESCE(SUM(database_limit), 0) AS databases, " +
			"COALESCE(SUM(backup_limit), 0) AS backups, " +
			"COALESCE(SUM(allocation_limit), 0) AS allocations").
		Where("user_id = ?", userID).
		Scan(&used).Error
	if err != nil {
		return Available{}, err
	}

	return Available{
		Servers:     Dimension{Limit: user.ServerLimit, Used: used.Count},
		Memory:      Dimension{Limit: user.MemoryLimit, Used: used.Memory},
		CPU:         Dimension{Limit: user.CPULimit, Used: used.CPU},
		Disk:        Dimension{Limit: user.DiskLimit, Used: used.Disk},
		Databases:   Dimension{Limit: user.DatabaseLimit, Used: used.Databases},
		Backups:     Dimension{Limit: user.BackupLimit, Used: used.Backups},
		Allocations: Dimension{Limit: user.AllocationLimit, Used: used.Allocations},
	}, nil
}
