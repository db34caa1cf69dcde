package provision

import (
	"gorm.io/gorm"

	"github.com/GoWings-Provision/GoWings-Provision/internal/db/controller/provisionsettings"
	"github.com/GoWings-Provision/GoWings-Provision/internal/db/models"
	"github.com/GoWings-Provision/GoWings-Provision/internal/permission"
)

// Option annotations attached to filtered resources.
type (
	// LocationOption is a location the user may pick, with its resolution result.
	LocationOption struct {
		models.Location
		Allowed      bool   `json:"allowed"`
		ErrorMessage string `json:"error_message,omitempty"`
	}

	// NodeOption is a node the user may pick, with its resolution result.
	NodeOption struct {
		models.Node
		Allowed      bool   `json:"allowed"`
		ErrorMessage string `json:"error_message,omitempty"`
	}

	// RealmOption is a realm the user may pick, with its resolution result.
	RealmOption struct {
		models.Realm
		Allowed      bool   `json:"allowed"`
		ErrorMessage string `json:"error_message,omitempty"`
	}

	// SpellOption is a spell the user may pick, with its resolution result.
	SpellOption struct {
		models.Spell
		Allowed      bool   `json:"allowed"`
		ErrorMessage string `json:"error_message,omitempty"`
	}
)

// Filter projects full resource lists down to the allowed subset for the
// user-facing options endpoint. With a user id, the full resolver runs per
// item and disallowed items are dropped (not greyed out); without one, only
// the coarser global allow-list check applies.
type Filter struct {
	db       *gorm.DB
	resolver *permission.Service
}

// NewFilter creates a new option filter.
func NewFilter(db *gorm.DB, resolver *permission.Service) *Filter {
	return &Filter{db: db, resolver: resolver}
}

func (f *Filter) decide(settings *provisionsettings.Settings, userID *uint64, resourceType models.ResourceType, resourceID uint64) (permission.Decision, error) {
	if userID == nil {
		return f.resolver.CheckGlobalOnly(settings, resourceType, resourceID)
	}

	return f.resolver.CheckWithSettings(settings, *userID, resourceType, resourceID)
}

// Locations returns the allowed subset of the given locations.
func (f *Filter) Locations(settings *provisionsettings.Settings, items []models.Location, userID *uint64) ([]LocationOption, error) {
	options := make([]LocationOption, 0, len(items))

	for _, item := range items {
		decision, err := f.decide(settings, userID, models.ResourceTypeLocation, item.ID)
		if err != nil {
			return nil, err
		}

		if !decision.Allowed {
			continue
		}

		options = append(options, LocationOption{
			Location:     item,
			Allowed:      true,
			ErrorMessage: decision.ErrorMessage,
		})
	}

	return options, nil
}

// Nodes returns the allowed subset of the given nodes. A node whose
// location is disallowed is dropped too.
func (f *Filter) Nodes(settings *provisionsettings.Settings, items []models.Node, userID *uint64) ([]NodeOption, error) {
	options := make([]NodeOption, 0, len(items))

	for _, item := range items {
		decision, err := f.decide(settings, userID, models.ResourceTypeNode, item.ID)
		if err != nil {
			return nil, err
		}

		if !decision.Allowed {
			continue
		}

		if item.LocationID != nil {
			locationDecision, err := f.decide(settings, userID, models.ResourceTypeLocation, *item.LocationID)
			if err != nil {
				return nil, err
			}

			if !locationDecision.Allowed {
				continue
			}
		}

		options = append(options, NodeOption{
			Node:         item,
			Allowed:      true,
			ErrorMessage: decision.ErrorMessage,
		})
	}

	return options, nil
}

// Realms returns the allowed subset of the given realms.
func (f *Filter) Realms(settings *provisionsettings.Settings, items []models.Realm, userID *uint64) ([]RealmOption, error) {
	options := make([]RealmOption, 0, len(items))

	for _, item := range items {
		decision, err := f.decide(settings, userID, models.ResourceTypeRealm, item.ID)
		if err != nil {
			return nil, err
		}

		if !decision.Allowed {
			continue
		}

		options = append(options, RealmOption{
			Realm:        item,
			Allowed:      true,
			ErrorMessage: decision.ErrorMessage,
		})
	}

	return options, nil
}

// Spells returns the allowed subset of the given spells.
func (f *Filter) Spells(settings *provisionsettings.Settings, items []models.Spell, userID *uint64) ([]SpellOption, error) {
	options := make([]SpellOption, 0, len(items))

	for _, item := range items {
		decision, err := f.decide(settings, userID, models.ResourceTypeSpell, item.ID)
		if err != nil {
			return nil, err
		}

		if !decision.Allowed {
			continue
		}

		options = append(options, SpellOption{
			Spell:        item,
			Allowed:      true,
			ErrorMessage: decision.ErrorMessage,
		})
	}

	return options, nil
}
