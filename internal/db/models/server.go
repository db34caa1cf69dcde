package models

import "time"

// Server status values used by this plugin.
const (
	// ServerStatusInstalling is the status a freshly created server row
	// carries until Wings finishes the install.
	ServerStatusInstalling = "installing"
)

// Server mirrors the host panel's server table. The plugin inserts a row
// during creation and hard-deletes it again if any later step fails.
type Server struct {
	ID        uint64 `gorm:"primaryKey"`
	UUID      string `gorm:"column:uuid;size:36;unique"`
	UUIDShort string `gorm:"column:uuid_short;size:16;unique"`
	UserID    uint64 `gorm:"column:user_id;not null;index"`
	NodeID    uint64 `gorm:"column:node_id;not null;index"`
	RealmID   uint64 `gorm:"column:realm_id;not null"`
	SpellID   uint64 `gorm:"column:spell_id;not null"`
	Name      string `gorm:"size:255;not null"`
	Status    string `gorm:"size:50"`

	Memory int `gorm:"not null"`
	CPU    int `gorm:"column:cpu;not null"`
	Disk   int `gorm:"not null"`

	DatabaseLimit   int `gorm:"column:database_limit"`
	BackupLimit     int `gorm:"column:backup_limit"`
	AllocationLimit int `gorm:"column:allocation_limit"`

	AllocationID uint64 `gorm:"column:allocation_id"`
	Startup      string `gorm:"type:text"`
	Image        string `gorm:"size:255"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName pins the model to the panel's servers table.
func (Server) TableName() string {
	return "servers"
}
