package models

import "time"

// User mirrors the host panel's user account table. The plugin reads users
// to authenticate API tokens and to compute per-user resource quotas; it
// never writes this table.
type User struct {
	ID       uint64 `gorm:"primaryKey"`
	Username string `gorm:"unique;size:100;not null"`
	Email    string `gorm:"size:255"`
	// RootAdmin marks panel administrators; admin API routes require it.
	RootAdmin bool `gorm:"column:root_admin"`
	// APIToken is the panel-issued bearer token presented by clients.
	APIToken string `gorm:"column:api_token;size:64;index"`

	// Per-user resource limits maintained by the panel's billing layer.
	// A limit of 0 means the dimension is unlimited.
	ServerLimit     int `gorm:"column:server_limit"`
	MemoryLimit     int `gorm:"column:memory_limit"`
	CPULimit        int `gorm:"column:cpu_limit"`
	DiskLimit       int `gorm:"column:disk_limit"`
	DatabaseLimit   int `gorm:"column:database_limit"`
	BackupLimit     int `gorm:"column:backup_limit"`
	AllocationLimit int `gorm:"column:allocation_limit"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName pins the model to the panel's users table.
func (User) TableName() string {
	return "users"
}
