// Package provision implements server-creation validation, option filtering
// and the creation flow against the Wings daemon.
package provision

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/GoWings-Provision/GoWings-Provision/internal/db/controller/provisionsettings"
	"github.com/GoWings-Provision/GoWings-Provision/internal/db/models"
	"github.com/GoWings-Provision/GoWings-Provision/internal/permission"
	"github.com/GoWings-Provision/GoWings-Provision/internal/quota"
)

// ErrDBNil is returned when the database connection is nil.
var ErrDBNil = errors.New("database connection is nil")

// CreateRequest is the caller-supplied body of a server creation request.
type CreateRequest struct {
	NodeID  uint64 `json:"node_id"`
	RealmID uint64 `json:"realms_id"`
	SpellID uint64 `json:"spell_id"`
	Name    string `json:"name"`
	Memory  int    `json:"memory"`
	CPU     int    `json:"cpu"`
	Disk    int    `json:"disk"`

	// Optional per-server feature limits; 0 means not requested.
	DatabaseLimit   int `json:"databases"`
	BackupLimit     int `json:"backups"`
	AllocationLimit int `json:"allocations"`

	// DockerImage optionally picks one of the spell's image options.
	DockerImage string `json:"docker_image"`
	// Environment holds caller-supplied spell variable values keyed by
	// environment variable name. Blank values fall back to defaults.
	Environment map[string]string `json:"environment"`

	StartOnCompletion bool `json:"start_on_completion"`
}

// Validator runs the ordered pre-creation checks. Pure validation: no side
// effects, no writes.
type Validator struct {
	db       *gorm.DB
	resolver *permission.Service
	quota    *quota.Service
}

// NewValidator creates a new creation validator.
func NewValidator(db *gorm.DB, resolver *permission.Service, quotaService *quota.Service) *Validator {
	return &Validator{db: db, resolver: resolver, quota: quotaService}
}

// Validate runs all checks in order; the first failure wins. A nil return
// means the request may proceed to creation.
func (v *Validator) Validate(userID uint64, req *CreateRequest) (*CreateError, error) {
	if v.db == nil {
		return nil, ErrDBNil
	}

	settings := &provisionsettings.Settings{}
	if err := settings.Load(v.db); err != nil {
		return nil, err
	}

	// 1. eligibility gate
	if !settings.UserCreationEnabled {
		return fail(CodeUserCreationDisabled, "Server creation is currently disabled"), nil
	}

	allowed, err := v.resolver.IsUserAllowedWithSettings(settings, userID)
	if err != nil {
		return nil, err
	}

	if !allowed {
		return fail(CodeUserNotAllowed, "You are not allowed to create servers"), nil
	}

	// 2. required fields
	if missing := missingField(req); missing != "" {
		return fail(CodeMissingField, "Missing required field: "+missing), nil
	}

	// 3. node and its location
	var node models.Node
	if err := v.db.First(&node, req.NodeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(CodeNodeNotFound, "Node not found"), nil
		}

		return nil, err
	}

	decision, err := v.resolver.CheckWithSettings(settings, userID, models.ResourceTypeNode, node.ID)
	if err != nil {
		return nil, err
	}

	if !decision.Allowed {
		return fail(CodeNodeNotAllowed, decision.ErrorMessage), nil
	}

	if node.LocationID != nil {
		decision, err = v.resolver.CheckWithSettings(settings, userID, models.ResourceTypeLocation, *node.LocationID)
		if err != nil {
			return nil, err
		}

		if !decision.Allowed {
			return fail(CodeLocationNotAllowed, decision.ErrorMessage), nil
		}
	}

	// 4. realm
	var realm models.Realm
	if err := v.db.First(&realm, req.RealmID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(CodeRealmNotFound, "Realm not found"), nil
		}

		return nil, err
	}

	decision, err = v.resolver.CheckWithSettings(settings, userID, models.ResourceTypeRealm, realm.ID)
	if err != nil {
		return nil, err
	}

	if !decision.Allowed {
		return fail(CodeRealmNotAllowed, decision.ErrorMessage), nil
	}

	// 5. spell, and it must belong to the requested realm
	var spell models.Spell
	if err := v.db.First(&spell, req.SpellID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(CodeSpellNotFound, "Spell not found"), nil
		}

		return nil, err
	}

	decision, err = v.resolver.CheckWithSettings(settings, userID, models.ResourceTypeSpell, spell.ID)
	if err != nil {
		return nil, err
	}

	if !decision.Allowed {
		return fail(CodeSpellNotAllowed, decision.ErrorMessage), nil
	}

	if spell.RealmID != req.RealmID {
		return fail(CodeSpellRealmMismatch, "The selected spell does not belong to the selected realm"), nil
	}

	// 6. at least one free allocation on the node
	var freeAllocations int64
	err = v.db.Model(&models.Allocation{}).
		Where("node_id = ? AND server_id IS NULL", req.NodeID).
		Count(&freeAllocations).Error
	if err != nil {
		return nil, err
	}

	if freeAllocations == 0 {
		return fail(CodeNoFreeAllocations, "No free allocations are available on this node"), nil
	}

	// 7. configured minimums
	if req.Memory < settings.MinimumMemory {
		return fail(CodeInvalidMemory, fmt.Sprintf("Memory must be at least %d MB", settings.MinimumMemory)), nil
	}

	if req.CPU < settings.MinimumCPU {
		return fail(CodeInvalidCPU, fmt.Sprintf("CPU must be at least %d%%", settings.MinimumCPU)), nil
	}

	if req.Disk < settings.MinimumDisk {
		return fail(CodeInvalidDisk, fmt.Sprintf("Disk must be at least %d MB", settings.MinimumDisk)), nil
	}

	// 8. quota headroom
	available, err := v.quota.Available(userID)
	if err != nil {
		return nil, err
	}

	switch {
	case !available.Servers.CanFit(1):
		return fail(CodeInsufficientServers, "You have reached your server limit"), nil
	case !available.Memory.CanFit(req.Memory):
		return fail(CodeInsufficientMemory, "You do not have enough memory available"), nil
	case !available.CPU.CanFit(req.CPU):
		return fail(CodeInsufficientCPU, "You do not have enough CPU available"), nil
	case !available.Disk.CanFit(req.Disk):
		return fail(CodeInsufficientDisk, "You do not have enough disk available"), nil
	case req.DatabaseLimit > 0 && !available.Databases.CanFit(req.DatabaseLimit):
		return fail(CodeInsufficientDatabases, "You do not have enough databases available"), nil
	case req.BackupLimit > 0 && !available.Backups.CanFit(req.BackupLimit):
		return fail(CodeInsufficientBackups, "You do not have enough backups available"), nil
	case req.AllocationLimit > 0 && !available.Allocations.CanFit(req.AllocationLimit):
		return fail(CodeInsufficientAllocations, "You do not have enough allocations available"), nil
	}

	return nil, nil
}

// missingField returns the name of the first absent required field, or "".
func missingField(req *CreateRequest) string {
	switch {
	case req.NodeID == 0:
		return "node_id"
	case req.RealmID == 0:
		return "realms_id"
	case req.SpellID == 0:
		return "spell_id"
	case req.Name == "":
		return "name"
	case req.Memory == 0:
		return "memory"
	case req.CPU == 0:
		return "cpu"
	case req.Disk == 0:
		return "disk"
	default:
		return ""
	}
}
