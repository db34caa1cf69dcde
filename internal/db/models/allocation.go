package models

import "time"

// Allocation mirrors the host panel's allocation table: an IP:port pair on
// a node reservable by exactly one server. ServerID is nil while free.
// Claiming an allocation (setting ServerID) is the only write this plugin
// performs on the table.
type Allocation struct {
	ID       uint64  `gorm:"primaryKey"`
	NodeID   uint64  `gorm:"column:node_id;not null;index"`
	IP       string  `gorm:"column:ip;size:45"`
	Port     int     `gorm:"not null"`
	Alias    string  `gorm:"size:255"`
	ServerID *uint64 `gorm:"column:server_id;index"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName pins the model to the panel's allocations table.
func (Allocation) TableName() string {
	return "allocations"
}
