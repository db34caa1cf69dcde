package models

import (
	"fmt"
	"time"
)

// Node mirrors the host panel's node table (read-only here). Each node runs
// a Wings daemon reachable at Scheme://FQDN:DaemonPort with DaemonToken.
type Node struct {
	ID         uint64  `gorm:"primaryKey"`
	LocationID *uint64 `gorm:"column:location_id"`
	Name       string  `gorm:"size:255"`
	Public     bool
	Scheme     string `gorm:"size:10"`
	FQDN       string `gorm:"column:fqdn;size:255"`
	DaemonPort int    `gorm:"column:daemon_port"`
	// DaemonToken is the bearer token the panel uses to authenticate
	// against this node's Wings daemon.
	DaemonToken string `gorm:"column:daemon_token;size:255"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName pins the model to the panel's nodes table.
func (Node) TableName() string {
	return "nodes"
}

// BaseURL builds the Wings daemon base URL for this node.
func (n *Node) BaseURL() string {
	return fmt.Sprintf("%s://%s:%d", n.Scheme, n.FQDN, n.DaemonPort)
}
