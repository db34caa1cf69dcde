package permission

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/GoWings-Provision/GoWings-Provision/internal/db/controller/grouppermission"
	"github.com/GoWings-Provision/GoWings-Provision/internal/db/controller/provisionsettings"
	"github.com/GoWings-Provision/GoWings-Provision/internal/db/controller/resourcepermission"
	"github.com/GoWings-Provision/GoWings-Provision/internal/db/controller/usergroup"
	"github.com/GoWings-Provision/GoWings-Provision/internal/db/controller/userpermission"
	"github.com/GoWings-Provision/GoWings-Provision/internal/db/models"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	err = db.AutoMigrate(
		&models.User{},
		&models.Setting{},
		&models.Group{},
		&models.GroupPermission{},
		&models.UserGroup{},
		&models.UserPermission{},
		&models.ResourcePermission{},
	)
	require.NoError(t, err, "failed to migrate test database")

	// grant tables carry foreign keys to users
	require.NoError(t, db.Create(&models.User{ID: 1, Username: "one", APIToken: "t1"}).Error)
	require.NoError(t, db.Create(&models.User{ID: 42, Username: "fortytwo", APIToken: "t42"}).Error)

	return db
}

func saveSettings(t *testing.T, db *gorm.DB, settings provisionsettings.Settings) {
	t.Helper()

	require.NoError(t, settings.Save(db))
}

func TestCheckUserResourcePermissionOpenMode(t *testing.T) {
	db := setupTestDB(t)
	service := NewService(db)

	const userID = uint64(1)

	t.Run("no settings row defaults to open and allows", func(t *testing.T) {
		decision, err := service.CheckUserResourcePermission(userID, models.ResourceTypeNode, 7)
		require.NoError(t, err)
		assert.True(t, decision.Allowed)
		assert.Empty(t, decision.ErrorMessage)
	})

	t.Run("empty allow-list allows everything", func(t *testing.T) {
		settings := provisionsettings.Default()
		settings.UserCreationEnabled = true
		saveSettings(t, db, settings)

		decision, err := service.CheckUserResourcePermission(userID, models.ResourceTypeNode, 7)
		require.NoError(t, err)
		assert.True(t, decision.Allowed)
	})

	t.Run("allow-list admits listed resource", func(t *testing.T) {
		settings := provisionsettings.Default()
		settings.AllowedNodes = []uint64{7, 9}
		saveSettings(t, db, settings)

		decision, err := service.CheckUserResourcePermission(userID, models.ResourceTypeNode, 7)
		require.NoError(t, err)
		assert.True(t, decision.Allowed)
	})

	t.Run("allow-list denies unlisted resource with generic message", func(t *testing.T) {
		settings := provisionsettings.Default()
		settings.AllowedNodes = []uint64{7, 9}
		saveSettings(t, db, settings)

		decision, err := service.CheckUserResourcePermission(userID, models.ResourceTypeNode, 8)
		require.NoError(t, err)
		assert.False(t, decision.Allowed)
		assert.Equal(t, "You do not have permission to use this node", decision.ErrorMessage)
	})

	t.Run("grants are irrelevant in open mode", func(t *testing.T) {
		settings := provisionsettings.Default()
		settings.AllowedNodes = []uint64{7}
		saveSettings(t, db, settings)

		// a direct grant for node 8 does not override the allow-list
		_, err := userpermission.Grant(db, userID, models.ResourceTypeNode, 8, "")
		require.NoError(t, err)

		decision, err := service.CheckUserResourcePermission(userID, models.ResourceTypeNode, 8)
		require.NoError(t, err)
		assert.False(t, decision.Allowed)

		require.NoError(t, userpermission.Revoke(db, userID, models.ResourceTypeNode, 8))
	})
}

func TestCheckUserResourcePermissionRestrictedMode(t *testing.T) {
	db := setupTestDB(t)
	service := NewService(db)

	const userID = uint64(1)

	settings := provisionsettings.Default()
	saveSettings(t, db, settings)

	_, err := resourcepermission.Set(db, resourcepermission.Entry{
		ResourceType:   models.ResourceTypeSpell,
		ResourceID:     5,
		PermissionMode: models.PermissionModeRestricted,
	})
	require.NoError(t, err)

	t.Run("deny by default without grants", func(t *testing.T) {
		decision, err := service.CheckUserResourcePermission(userID, models.ResourceTypeSpell, 5)
		require.NoError(t, err)
		assert.False(t, decision.Allowed)
		assert.Equal(t, "You do not have permission to use this spell", decision.ErrorMessage)
	})

	t.Run("direct grant allows", func(t *testing.T) {
		_, err := userpermission.Grant(db, userID, models.ResourceTypeSpell, 5, "")
		require.NoError(t, err)

		decision, err := service.CheckUserResourcePermission(userID, models.ResourceTypeSpell, 5)
		require.NoError(t, err)
		assert.True(t, decision.Allowed)
	})

	t.Run("revoking the grant restores the deny", func(t *testing.T) {
		require.NoError(t, userpermission.Revoke(db, userID, models.ResourceTypeSpell, 5))

		decision, err := service.CheckUserResourcePermission(userID, models.ResourceTypeSpell, 5)
		require.NoError(t, err)
		assert.False(t, decision.Allowed)
	})

	t.Run("group grant allows via membership", func(t *testing.T) {
		g := models.Group{Name: "beta-testers"}
		require.NoError(t, db.Create(&g).Error)
		require.NoError(t, usergroup.Assign(db, userID, g.ID))

		_, err := grouppermission.Grant(db, g.ID, models.ResourceTypeSpell, 5, "")
		require.NoError(t, err)

		decision, err := service.CheckUserResourcePermission(userID, models.ResourceTypeSpell, 5)
		require.NoError(t, err)
		assert.True(t, decision.Allowed)
	})

	t.Run("leaving the group restores the deny", func(t *testing.T) {
		var g models.Group
		require.NoError(t, db.Where("name = ?", "beta-testers").First(&g).Error)
		require.NoError(t, usergroup.Remove(db, userID, g.ID))

		decision, err := service.CheckUserResourcePermission(userID, models.ResourceTypeSpell, 5)
		require.NoError(t, err)
		assert.False(t, decision.Allowed)
	})

	t.Run("global allow-list is bypassed in restricted mode", func(t *testing.T) {
		// spell 5 is not on the allow-list, but a grant still admits it
		listed := provisionsettings.Default()
		listed.AllowedSpells = []uint64{99}
		saveSettings(t, db, listed)

		_, err := userpermission.Grant(db, userID, models.ResourceTypeSpell, 5, "")
		require.NoError(t, err)

		decision, err := service.CheckUserResourcePermission(userID, models.ResourceTypeSpell, 5)
		require.NoError(t, err)
		assert.True(t, decision.Allowed)
	})
}

func TestDenialMessagePrecedence(t *testing.T) {
	const userID = uint64(1)

	testCases := []struct {
		name            string
		resourceDefault string
		typeDefault     string
		expectedMessage string
	}{
		{
			name:            "resource row default wins",
			resourceDefault: "This node is reserved",
			typeDefault:     "Nodes are members only",
			expectedMessage: "This node is reserved",
		},
		{
			name:            "type default next",
			typeDefault:     "Nodes are members only",
			expectedMessage: "Nodes are members only",
		},
		{
			name:            "generic message last",
			expectedMessage: "You do not have permission to use this node",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			db := setupTestDB(t)
			service := NewService(db)

			settings := provisionsettings.Default()
			settings.Resources[models.ResourceTypeNode] = provisionsettings.ResourcePolicy{
				PermissionMode: models.PermissionModeOpen,
				DefaultError:   tc.typeDefault,
			}
			saveSettings(t, db, settings)

			_, err := resourcepermission.Set(db, resourcepermission.Entry{
				ResourceType:        models.ResourceTypeNode,
				ResourceID:          3,
				PermissionMode:      models.PermissionModeRestricted,
				DefaultErrorMessage: tc.resourceDefault,
			})
			require.NoError(t, err)

			decision, err := service.CheckUserResourcePermission(userID, models.ResourceTypeNode, 3)
			require.NoError(t, err)
			assert.False(t, decision.Allowed)
			assert.Equal(t, tc.expectedMessage, decision.ErrorMessage)
		})
	}
}

func TestGrantCustomMessageOnAllow(t *testing.T) {
	db := setupTestDB(t)
	service := NewService(db)

	const userID = uint64(1)

	saveSettings(t, db, provisionsettings.Default())

	_, err := resourcepermission.Set(db, resourcepermission.Entry{
		ResourceType:        models.ResourceTypeRealm,
		ResourceID:          2,
		PermissionMode:      models.PermissionModeRestricted,
		DefaultErrorMessage: "Realm is invite only",
	})
	require.NoError(t, err)

	_, err = userpermission.Grant(db, userID, models.ResourceTypeRealm, 2, "Welcome back")
	require.NoError(t, err)

	decision, err := service.CheckUserResourcePermission(userID, models.ResourceTypeRealm, 2)
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
	assert.Equal(t, "Welcome back", decision.ErrorMessage)
}

func TestResourceModePrecedence(t *testing.T) {
	db := setupTestDB(t)
	service := NewService(db)

	const userID = uint64(1)

	// type-level restricted, but the per-resource row reopens node 4
	settings := provisionsettings.Default()
	settings.Resources[models.ResourceTypeNode] = provisionsettings.ResourcePolicy{
		PermissionMode: models.PermissionModeRestricted,
	}
	saveSettings(t, db, settings)

	_, err := resourcepermission.Set(db, resourcepermission.Entry{
		ResourceType:   models.ResourceTypeNode,
		ResourceID:     4,
		PermissionMode: models.PermissionModeOpen,
	})
	require.NoError(t, err)

	decision, err := service.CheckUserResourcePermission(userID, models.ResourceTypeNode, 4)
	require.NoError(t, err)
	assert.True(t, decision.Allowed, "per-resource open row overrides the restricted type default")

	decision, err = service.CheckUserResourcePermission(userID, models.ResourceTypeNode, 5)
	require.NoError(t, err)
	assert.False(t, decision.Allowed, "node without a row falls back to the restricted type default")
}

func TestCheckUserResourcePermissionInvalidType(t *testing.T) {
	db := setupTestDB(t)
	service := NewService(db)

	_, err := service.CheckUserResourcePermission(1, "volume", 1)
	require.ErrorIs(t, err, ErrInvalidResourceType)
}

func TestIsUserAllowed(t *testing.T) {
	const userID = uint64(42)

	testCases := []struct {
		name     string
		settings func() provisionsettings.Settings
		grant    bool
		expected bool
	}{
		{
			name: "creation disabled blocks everyone",
			settings: func() provisionsettings.Settings {
				s := provisionsettings.Default()
				s.UserCreationEnabled = false
				s.AllowedUsers = []uint64{userID}
				return s
			},
			expected: false,
		},
		{
			name: "mode all admits any user",
			settings: func() provisionsettings.Settings {
				s := provisionsettings.Default()
				s.UserCreationEnabled = true
				return s
			},
			expected: true,
		},
		{
			name: "specific mode admits listed user",
			settings: func() provisionsettings.Settings {
				s := provisionsettings.Default()
				s.UserCreationEnabled = true
				s.UserRestrictionMode = provisionsettings.RestrictionModeSpecific
				s.AllowedUsers = []uint64{userID}
				return s
			},
			expected: true,
		},
		{
			name: "specific mode rejects unlisted user",
			settings: func() provisionsettings.Settings {
				s := provisionsettings.Default()
				s.UserCreationEnabled = true
				s.UserRestrictionMode = provisionsettings.RestrictionModeSpecific
				return s
			},
			expected: false,
		},
		{
			name: "specific mode admits user holding a direct grant",
			settings: func() provisionsettings.Settings {
				s := provisionsettings.Default()
				s.UserCreationEnabled = true
				s.UserRestrictionMode = provisionsettings.RestrictionModeSpecific
				return s
			},
			grant:    true,
			expected: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			db := setupTestDB(t)
			service := NewService(db)

			saveSettings(t, db, tc.settings())

			if tc.grant {
				_, err := userpermission.Grant(db, userID, models.ResourceTypeNode, 1, "")
				require.NoError(t, err)
			}

			allowed, err := service.IsUserAllowed(userID)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, allowed)
		})
	}
}
