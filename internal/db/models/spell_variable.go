package models

import "time"

// SpellVariable mirrors the host panel's spell variable definitions
// (read-only here). Variables become environment values on created servers.
type SpellVariable struct {
	ID           uint64 `gorm:"primaryKey"`
	SpellID      uint64 `gorm:"column:spell_id;not null;index"`
	Name         string `gorm:"size:255"`
	EnvVariable  string `gorm:"column:env_variable;size:255"`
	DefaultValue string `gorm:"column:default_value;size:255"`
	// Required variables must end up with a non-blank value at creation time.
	Required     bool
	UserEditable bool `gorm:"column:user_editable"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName pins the model to the panel's spell variables table.
func (SpellVariable) TableName() string {
	return "spell_variables"
}
