package settings

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/GoWings-Provision/GoWings-Provision/internal/config"
	"github.com/GoWings-Provision/GoWings-Provision/internal/db/controller/provisionsettings"
	"github.com/GoWings-Provision/GoWings-Provision/internal/db/models"
	"github.com/GoWings-Provision/GoWings-Provision/internal/web/middleware/auth"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	err = db.AutoMigrate(&models.User{}, &models.Setting{}, &models.Activity{})
	require.NoError(t, err, "failed to migrate test database")

	return db
}

func setupApp(t *testing.T, db *gorm.DB) *fiber.App {
	t.Helper()

	service := &Service{
		cfg:       &config.Config{},
		db:        db,
		validator: validator.New(),
	}

	app := fiber.New()
	app.Get(Path, auth.New(db), auth.RequireAdmin(), service.Get)
	app.Patch(Path, auth.New(db), auth.RequireAdmin(), service.Update)

	return app
}

func seedAdmin(t *testing.T, db *gorm.DB) models.User {
	t.Helper()

	admin := models.User{Username: "root", APIToken: "admin-token", RootAdmin: true}
	require.NoError(t, db.Create(&admin).Error)

	return admin
}

func TestGetReturnsDefaultsWhenUnsaved(t *testing.T) {
	db := setupTestDB(t)
	seedAdmin(t, db)
	app := setupApp(t, db)

	req := httptest.NewRequest(http.MethodGet, Path, nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer admin-token")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() {
		_ = resp.Body.Close()
	}()

	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var envelope struct {
		Success bool                       `json:"success"`
		Data    provisionsettings.Settings `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))

	assert.True(t, envelope.Success)
	assert.False(t, envelope.Data.UserCreationEnabled)
	assert.Equal(t, provisionsettings.RestrictionModeAll, envelope.Data.UserRestrictionMode)
}

func TestUpdatePersistsAndAudits(t *testing.T) {
	db := setupTestDB(t)
	admin := seedAdmin(t, db)
	app := setupApp(t, db)

	body := `{"userCreationEnabled": true, "minimumMemory": 512}`

	req := httptest.NewRequest(http.MethodPatch, Path, strings.NewReader(body))
	req.Header.Set(fiber.HeaderAuthorization, "Bearer admin-token")
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() {
		_ = resp.Body.Close()
	}()

	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	saved := &provisionsettings.Settings{}
	require.NoError(t, saved.Load(db))
	assert.True(t, saved.UserCreationEnabled)
	assert.Equal(t, 512, saved.MinimumMemory)

	var audit models.Activity
	require.NoError(t, db.First(&audit).Error)
	assert.Equal(t, admin.ID, audit.ActorID)
	assert.Equal(t, ActionUpdate, audit.Action)
}

func TestUpdateRejectsMalformedBody(t *testing.T) {
	db := setupTestDB(t)
	seedAdmin(t, db)
	app := setupApp(t, db)

	req := httptest.NewRequest(http.MethodPatch, Path, strings.NewReader("{not json"))
	req.Header.Set(fiber.HeaderAuthorization, "Bearer admin-token")
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() {
		_ = resp.Body.Close()
	}()

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	payload, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(payload), ErrInvalidBody)
}

func TestEndpointsRequireAdmin(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.Create(&models.User{Username: "player", APIToken: "player-token"}).Error)
	app := setupApp(t, db)

	req := httptest.NewRequest(http.MethodGet, Path, nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer player-token")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() {
		_ = resp.Body.Close()
	}()

	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}
