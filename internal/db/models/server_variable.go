package models

import "time"

// ServerVariable mirrors the host panel's per-server resolved variable rows.
// The plugin writes these during creation after variable resolution.
type ServerVariable struct {
	ID            uint64 `gorm:"primaryKey"`
	ServerID      uint64 `gorm:"column:server_id;not null;index"`
	VariableID    uint64 `gorm:"column:variable_id;not null"`
	VariableValue string `gorm:"column:variable_value;size:255"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TableName pins the model to the panel's server variables table.
func (ServerVariable) TableName() string {
	return "server_variables"
}
