// Package provisionsettings stores the plugin-wide provisioning policy as a
// single typed settings document in the key-value settings table.
package provisionsettings

import (
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/GoWings-Provision/GoWings-Provision/internal/db/controller/setting"
	"github.com/GoWings-Provision/GoWings-Provision/internal/db/models"
)

const (
	// SettingKeyProvisioning is the key used to store the provisioning
	// policy document in the settings table.
	SettingKeyProvisioning = "provisioning"
)

// RestrictionMode controls which users may create servers at all.
type RestrictionMode string

const (
	// RestrictionModeAll lets every user pass the eligibility gate.
	RestrictionModeAll RestrictionMode = "all"
	// RestrictionModeSpecific limits creation to listed users and users
	// holding at least one direct permission grant.
	RestrictionModeSpecific RestrictionMode = "specific"
)

type (
	// ResourcePolicy is the type-level default gating for one resource type.
	// A per-resource row in provision_resource_permissions overrides it.
	ResourcePolicy struct {
		PermissionMode models.PermissionMode `json:"permissionMode" validate:"oneof=open restricted"`
		DefaultError   string                `json:"defaultError"`
	}

	// Settings represents the administrator-defined provisioning policy.
	// Empty allow-lists mean "no restriction", never "allow none".
	Settings struct {
		UserCreationEnabled bool            `json:"userCreationEnabled"`
		UserRestrictionMode RestrictionMode `json:"userRestrictionMode" validate:"oneof=all specific"`
		AllowedUsers        []uint64        `json:"allowedUsers"`

		AllowedLocations []uint64 `json:"allowedLocations"`
		AllowedNodes     []uint64 `json:"allowedNodes"`
		AllowedRealms    []uint64 `json:"allowedRealms"`
		AllowedSpells    []uint64 `json:"allowedSpells"`

		MinimumMemory int `json:"minimumMemory"`
		MinimumCPU    int `json:"minimumCpu"`
		MinimumDisk   int `json:"minimumDisk"`

		// Resources holds the per-type default mode and error message,
		// keyed by resource type.
		Resources map[models.ResourceType]ResourcePolicy `json:"resources"`
	}
)

// Default returns the policy in effect before an administrator saved one:
// creation disabled, no restrictions, no minimums, every type open.
func Default() Settings {
	resources := make(map[models.ResourceType]ResourcePolicy, len(models.ResourceTypes))
	for _, t := range models.ResourceTypes {
		resources[t] = ResourcePolicy{PermissionMode: models.PermissionModeOpen}
	}

	return Settings{
		UserCreationEnabled: false,
		UserRestrictionMode: RestrictionModeAll,
		Resources:           resources,
	}
}

// Load loads the provisioning policy from the database. A missing settings
// row yields the defaults, not an error.
func (s *Settings) Load(db *gorm.DB) error {
	*s = Default()

	row, err := setting.Get(db, SettingKeyProvisioning)
	if err != nil {
		if errors.Is(err, setting.ErrSettingNotFound) {
			return nil
		}

		return err
	}

	return json.Unmarshal(row.Value, s)
}

// Save saves the provisioning policy to the database.
func (s *Settings) Save(db *gorm.DB) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}

	_, err = setting.Set(db, SettingKeyProvisioning, data)

	return err
}

// AllowedIDs returns the global allow-list for the given resource type.
// An empty list means unrestricted.
func (s *Settings) AllowedIDs(t models.ResourceType) []uint64 {
	switch t {
	case models.ResourceTypeLocation:
		return s.AllowedLocations
	case models.ResourceTypeNode:
		return s.AllowedNodes
	case models.ResourceTypeRealm:
		return s.AllowedRealms
	case models.ResourceTypeSpell:
		return s.AllowedSpells
	default:
		return nil
	}
}

// TypeMode returns the type-level default permission mode.
func (s *Settings) TypeMode(t models.ResourceType) models.PermissionMode {
	if policy, ok := s.Resources[t]; ok && policy.PermissionMode != "" {
		return policy.PermissionMode
	}

	return models.PermissionModeOpen
}

// TypeDefaultError returns the type-level default denial message, or ""
// if none is configured.
func (s *Settings) TypeDefaultError(t models.ResourceType) string {
	if policy, ok := s.Resources[t]; ok {
		return policy.DefaultError
	}

	return ""
}

// GenericError is the last-resort denial message for a resource type.
func GenericError(t models.ResourceType) string {
	return fmt.Sprintf("You do not have permission to use this %s", t)
}
