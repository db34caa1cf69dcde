package models

// ResourceType identifies one of the four independently permissioned
// resource kinds a server creation request touches.
type ResourceType string

const (
	// ResourceTypeLocation is a logical grouping of nodes (e.g. a datacenter region).
	ResourceTypeLocation ResourceType = "location"
	// ResourceTypeNode is a host machine running the Wings daemon.
	ResourceTypeNode ResourceType = "node"
	// ResourceTypeRealm is a category of game types (e.g. "Minecraft").
	ResourceTypeRealm ResourceType = "realm"
	// ResourceTypeSpell is an installable game-server template belonging to a realm.
	ResourceTypeSpell ResourceType = "spell"
)

// ResourceTypes lists all valid resource types.
var ResourceTypes = []ResourceType{
	ResourceTypeLocation,
	ResourceTypeNode,
	ResourceTypeRealm,
	ResourceTypeSpell,
}

// Valid reports whether t is one of the four known resource types.
func (t ResourceType) Valid() bool {
	switch t {
	case ResourceTypeLocation, ResourceTypeNode, ResourceTypeRealm, ResourceTypeSpell:
		return true
	default:
		return false
	}
}

// PermissionMode is the per-resource gating mode.
type PermissionMode string

const (
	// PermissionModeOpen gates the resource by the global per-type allow-list only.
	PermissionModeOpen PermissionMode = "open"
	// PermissionModeRestricted gates the resource by explicit user or group grants only.
	PermissionModeRestricted PermissionMode = "restricted"
)
