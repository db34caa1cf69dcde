package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/GoWings-Provision/GoWings-Provision/internal/db/models"
)

// setupTestDB creates an in-memory SQLite database with two users seeded.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	err = db.AutoMigrate(&models.User{})
	require.NoError(t, err, "failed to migrate test database")

	require.NoError(t, db.Create(&models.User{
		Username: "player",
		APIToken: "player-token",
	}).Error)

	require.NoError(t, db.Create(&models.User{
		Username:  "root",
		APIToken:  "admin-token",
		RootAdmin: true,
	}).Error)

	return db
}

func setupApp(db *gorm.DB) *fiber.App {
	app := fiber.New()

	app.Get("/user", New(db), func(c *fiber.Ctx) error {
		return c.SendString(CurrentUser(c).Username)
	})

	app.Get("/admin", New(db), RequireAdmin(), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	return app
}

func TestAuthMiddleware(t *testing.T) {
	db := setupTestDB(t)
	app := setupApp(db)

	testCases := []struct {
		name           string
		path           string
		authorization  string
		expectedStatus int
	}{
		{
			name:           "missing header",
			path:           "/user",
			expectedStatus: fiber.StatusUnauthorized,
		},
		{
			name:           "not a bearer token",
			path:           "/user",
			authorization:  "Basic abc",
			expectedStatus: fiber.StatusUnauthorized,
		},
		{
			name:           "empty bearer token",
			path:           "/user",
			authorization:  "Bearer ",
			expectedStatus: fiber.StatusUnauthorized,
		},
		{
			name:           "unknown token",
			path:           "/user",
			authorization:  "Bearer nope",
			expectedStatus: fiber.StatusUnauthorized,
		},
		{
			name:           "valid token",
			path:           "/user",
			authorization:  "Bearer player-token",
			expectedStatus: fiber.StatusOK,
		},
		{
			name:           "non-admin on admin route",
			path:           "/admin",
			authorization:  "Bearer player-token",
			expectedStatus: fiber.StatusForbidden,
		},
		{
			name:           "admin on admin route",
			path:           "/admin",
			authorization:  "Bearer admin-token",
			expectedStatus: fiber.StatusOK,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			if tc.authorization != "" {
				req.Header.Set(fiber.HeaderAuthorization, tc.authorization)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			defer func() {
				_ = resp.Body.Close()
			}()

			assert.Equal(t, tc.expectedStatus, resp.StatusCode)
		})
	}
}

func TestCurrentUserWithoutMiddleware(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		assert.Nil(t, CurrentUser(c))
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() {
		_ = resp.Body.Close()
	}()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
