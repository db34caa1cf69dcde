package quota

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/GoWings-Provision/GoWings-Provision/internal/db/models"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	err = db.AutoMigrate(&models.User{}, &models.Server{})
	require.NoError(t, err, "failed to migrate test database")

	return db
}

func TestDimensionCanFit(t *testing.T) {
	testCases := []struct {
		name      string
		dimension Dimension
		want      int
		expected  bool
	}{
		{name: "zero limit is unlimited", dimension: Dimension{Limit: 0, Used: 100000}, want: 100000, expected: true},
		{name: "fits exactly", dimension: Dimension{Limit: 10, Used: 8}, want: 2, expected: true},
		{name: "exceeds by one", dimension: Dimension{Limit: 10, Used: 8}, want: 3, expected: false},
		{name: "already over", dimension: Dimension{Limit: 10, Used: 12}, want: 1, expected: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.dimension.CanFit(tc.want))
		})
	}
}

func TestDimensionRemaining(t *testing.T) {
	assert.Equal(t, -1, Dimension{Limit: 0, Used: 5}.Remaining())
	assert.Equal(t, 2, Dimension{Limit: 10, Used: 8}.Remaining())
	assert.Equal(t, 0, Dimension{Limit: 10, Used: 12}.Remaining())
}

func TestAvailable(t *testing.T) {
	db := setupTestDB(t)
	service := NewService(db)

	user := models.User{
		Username:    "player",
		APIToken:    "token",
		ServerLimit: 3,
		MemoryLimit: 8192,
		CPULimit:    400,
		DiskLimit:   50000,
	}
	require.NoError(t, db.Create(&user).Error)

	for i, memory := range []int{1024, 2048} {
		server := models.Server{
			UUID:      string(rune('a'+i)) + "0000000-0000-0000-0000-000000000000",
			UUIDShort: string(rune('a'+i)) + "hortid",
			UserID:    user.ID,
			NodeID:    1,
			RealmID:   1,
			SpellID:   1,
			Name:      "server",
			Memory:    memory,
			CPU:       100,
			Disk:      10000,
		}
		require.NoError(t, db.Create(&server).Error)
	}

	available, err := service.Available(user.ID)
	require.NoError(t, err)

	assert.Equal(t, Dimension{Limit: 3, Used: 2}, available.Servers)
	assert.Equal(t, Dimension{Limit: 8192, Used: 3072}, available.Memory)
	assert.Equal(t, Dimension{Limit: 400, Used: 200}, available.CPU)
	assert.Equal(t, Dimension{Limit: 50000, Used: 20000}, available.Disk)
	assert.Equal(t, Dimension{Limit: 0, Used: 0}, available.Databases)
}

func TestAvailableUserNotFound(t *testing.T) {
	db := setupTestDB(t)

	_, err := NewService(db).Available(999)
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestAvailableNilDB(t *testing.T) {
	_, err := NewService(nil).Available(1)
	require.ErrorIs(t, err, ErrDBNil)
}
