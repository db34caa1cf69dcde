// Package permission implements the rule evaluation that decides whether a
// user may use a given location, node, realm or spell.
//
// Two independent gating mechanisms exist and they are deliberately
// asymmetric: a resource in "open" mode is gated by the global per-type
// allow-list only (user and group grants are irrelevant), while a resource
// in "restricted" mode is gated by explicit user/group grants only and the
// global allow-list is bypassed entirely. This mirrors the observed behavior
// of the original plugin and must not be "fixed" silently.
package permission

import (
	"errors"
	"slices"

	"gorm.io/gorm"

	"github.com/GoWings-Provision/GoWings-Provision/internal/db/controller/grouppermission"
	"github.com/GoWings-Provision/GoWings-Provision/internal/db/controller/provisionsettings"
	"github.com/GoWings-Provision/GoWings-Provision/internal/db/controller/resourcepermission"
	"github.com/GoWings-Provision/GoWings-Provision/internal/db/controller/usergroup"
	"github.com/GoWings-Provision/GoWings-Provision/internal/db/controller/userpermission"
	"github.com/GoWings-Provision/GoWings-Provision/internal/db/models"
)

var (
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
	// ErrInvalidResourceType is returned for resource types outside the four-valued enum.
	ErrInvalidResourceType = errors.New("invalid resource type")
)

// Decision is the outcome of resolving one user against one resource.
// ErrorMessage carries the denial message on deny, or the grant's resolved
// message on a restricted-mode allow (the admin UI shows it either way).
type Decision struct {
	Allowed      bool
	ErrorMessage string
}

// Service resolves resource permissions against the database.
type Service struct {
	db *gorm.DB
}

// NewService creates a new permission resolver.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// firstNonEmpty returns the first non-empty string of its arguments.
func firstNonEmpty(candidates ...string) string {
	for _, c := range candidates {
		if c != "" {
			return c
		}
	}

	return ""
}

// CheckUserResourcePermission decides whether the user may use the resource.
func (s *Service) CheckUserResourcePermission(userID uint64, resourceType models.ResourceType, resourceID uint64) (Decision, error) {
	if s.db == nil {
		return Decision{}, ErrDBNil
	}

	settings := &provisionsettings.Settings{}
	if err := settings.Load(s.db); err != nil {
		return Decision{}, err
	}

	return s.CheckWithSettings(settings, userID, resourceType, resourceID)
}

// CheckWithSettings is CheckUserResourcePermission against an already loaded
// policy document, so callers iterating many resources load it once.
func (s *Service) CheckWithSettings(settings *provisionsettings.Settings, userID uint64, resourceType models.ResourceType, resourceID uint64) (Decision, error) {
	if !resourceType.Valid() {
		return Decision{}, ErrInvalidResourceType
	}

	mode, policy, err := s.resourceMode(settings, resourceType, resourceID)
	if err != nil {
		return Decision{}, err
	}

	resourceDefault := ""
	if policy != nil {
		resourceDefault = policy.DefaultErrorMessage
	}

	typeDefault := settings.TypeDefaultError(resourceType)
	generic := provisionsettings.GenericError(resourceType)

	if mode == models.PermissionModeOpen {
		return s.globalListDecision(settings, resourceType, resourceID, resourceDefault, typeDefault, generic), nil
	}

	// restricted: the global allow-list is bypassed entirely.
	if grant, errFind := userpermission.Find(s.db, userID, resourceType, resourceID); errFind == nil {
		return Decision{
			Allowed:      true,
			ErrorMessage: firstNonEmpty(grant.CustomErrorMessage, resourceDefault, typeDefault),
		}, nil
	} else if !errors.Is(errFind, userpermission.ErrGrantNotFound) {
		return Decision{}, errFind
	}

	groupIDs, err := usergroup.GroupIDsForUser(s.db, userID)
	if err != nil {
		return Decision{}, err
	}

	if grant, errFind := grouppermission.FindForGroups(s.db, groupIDs, resourceType, resourceID); errFind == nil {
		return Decision{
			Allowed:      true,
			ErrorMessage: firstNonEmpty(grant.CustomErrorMessage, resourceDefault, typeDefault),
		}, nil
	} else if !errors.Is(errFind, grouppermission.ErrGrantNotFound) {
		return Decision{}, errFind
	}

	return Decision{
		Allowed:      false,
		ErrorMessage: firstNonEmpty(resourceDefault, typeDefault, generic),
	}, nil
}

// CheckGlobalOnly applies only the global allow-list gate for the resource,
// ignoring per-resource modes and grants. Used when no user context exists.
func (s *Service) CheckGlobalOnly(settings *provisionsettings.Settings, resourceType models.ResourceType, resourceID uint64) (Decision, error) {
	if !resourceType.Valid() {
		return Decision{}, ErrInvalidResourceType
	}

	typeDefault := settings.TypeDefaultError(resourceType)
	generic := provisionsettings.GenericError(resourceType)

	return s.globalListDecision(settings, resourceType, resourceID, "", typeDefault, generic), nil
}

func (s *Service) globalListDecision(settings *provisionsettings.Settings, resourceType models.ResourceType, resourceID uint64, resourceDefault, typeDefault, generic string) Decision {
	allowed := settings.AllowedIDs(resourceType)
	if len(allowed) > 0 && !slices.Contains(allowed, resourceID) {
		return Decision{
			Allowed:      false,
			ErrorMessage: firstNonEmpty(resourceDefault, typeDefault, generic),
		}
	}

	return Decision{Allowed: true}
}

// resourceMode returns the effective mode for a resource: the per-resource
// policy row wins, then the type-level setting, then open.
func (s *Service) resourceMode(settings *provisionsettings.Settings, resourceType models.ResourceType, resourceID uint64) (models.PermissionMode, *models.ResourcePermission, error) {
	policy, err := resourcepermission.Get(s.db, resourceType, resourceID)
	if err != nil {
		if errors.Is(err, resourcepermission.ErrPolicyNotFound) {
			return settings.TypeMode(resourceType), nil, nil
		}

		return "", nil, err
	}

	return policy.PermissionMode, policy, nil
}

// IsUserAllowed implements the plugin-wide eligibility gate: creation must
// be enabled, and under "specific" restriction the user must be listed or
// hold at least one direct grant.
func (s *Service) IsUserAllowed(userID uint64) (bool, error) {
	if s.db == nil {
		return false, ErrDBNil
	}

	settings := &provisionsettings.Settings{}
	if err := settings.Load(s.db); err != nil {
		return false, err
	}

	return s.IsUserAllowedWithSettings(settings, userID)
}

// IsUserAllowedWithSettings is IsUserAllowed against a preloaded policy.
func (s *Service) IsUserAllowedWithSettings(settings *provisionsettings.Settings, userID uint64) (bool, error) {
	if !settings.UserCreationEnabled {
		return false, nil
	}

	if settings.UserRestrictionMode == provisionsettings.RestrictionModeAll {
		return true, nil
	}

	if slices.Contains(settings.AllowedUsers, userID) {
		return true, nil
	}

	// Any explicit direct grant implicitly qualifies the user.
	count, err := userpermission.CountForUser(s.db, userID)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}
