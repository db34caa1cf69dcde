package provision

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/GoWings-Provision/GoWings-Provision/internal/db/models"
	"github.com/GoWings-Provision/GoWings-Provision/internal/wings"
)

// pointNodeAt rewrites the node's daemon address to the test server.
func pointNodeAt(t *testing.T, db *gorm.DB, node *models.Node, server *httptest.Server) {
	t.Helper()

	parsed, err := url.Parse(server.URL)
	require.NoError(t, err)

	port, err := strconv.Atoi(parsed.Port())
	require.NoError(t, err)

	node.Scheme = parsed.Scheme
	node.FQDN = parsed.Hostname()
	node.DaemonPort = port
	node.DaemonToken = "daemon-token"
	require.NoError(t, db.Save(node).Error)
}

func TestCreateSuccess(t *testing.T) {
	db := setupTestDB(t)
	user, node, realm, spell := seedPanel(t, db)
	enabledSettings(t, db, nil)

	required := models.SpellVariable{
		SpellID:      spell.ID,
		Name:         "Server Jar",
		EnvVariable:  "SERVER_JARFILE",
		DefaultValue: "server.jar",
		Required:     true,
		UserEditable: true,
	}
	require.NoError(t, db.Create(&required).Error)

	var received wings.CreateServerRequest

	wingsServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/servers", r.URL.Path)
		assert.Equal(t, "Bearer daemon-token", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusCreated)
	}))
	defer wingsServer.Close()

	pointNodeAt(t, db, &node, wingsServer)

	req := validRequest(node, realm, spell)
	req.Environment = map[string]string{"SERVER_JARFILE": "paper.jar"}

	creator := NewCreator(db, wings.New())

	server, createErr, err := creator.Create(context.Background(), user.ID, req)
	require.NoError(t, err)
	require.Nil(t, createErr)
	require.NotNil(t, server)

	assert.Equal(t, models.ServerStatusInstalling, server.Status)
	assert.Equal(t, user.ID, server.UserID)
	assert.NotEmpty(t, server.UUID)
	assert.NotEmpty(t, server.UUIDShort)
	assert.Equal(t, "ghcr.io/example/java:21", server.Image)

	// caller value wins over the variable default
	assert.Equal(t, "paper.jar", received.Environment["SERVER_JARFILE"])
	assert.Equal(t, "10.0.0.5", received.Allocation.IP)
	assert.Equal(t, 25565, received.Allocation.Port)

	// the allocation is claimed for the new server
	var allocation models.Allocation
	require.NoError(t, db.Where("node_id = ?", node.ID).First(&allocation).Error)
	require.NotNil(t, allocation.ServerID)
	assert.Equal(t, server.ID, *allocation.ServerID)

	// the variable value is persisted
	var variable models.ServerVariable
	require.NoError(t, db.Where("server_id = ?", server.ID).First(&variable).Error)
	assert.Equal(t, "paper.jar", variable.VariableValue)
}

func TestCreateWingsFailureRollsBack(t *testing.T) {
	testCases := []struct {
		name         string
		status       int
		expectedCode Code
	}{
		{name: "bad request", status: http.StatusBadRequest, expectedCode: CodeInvalidServerConfig},
		{name: "unauthorized", status: http.StatusUnauthorized, expectedCode: CodeWingsUnauthorized},
		{name: "forbidden", status: http.StatusForbidden, expectedCode: CodeWingsForbidden},
		{name: "unprocessable", status: http.StatusUnprocessableEntity, expectedCode: CodeInvalidServerData},
		{name: "internal error", status: http.StatusInternalServerError, expectedCode: CodeWingsError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			db := setupTestDB(t)
			user, node, realm, spell := seedPanel(t, db)
			enabledSettings(t, db, nil)

			wingsServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
			}))
			defer wingsServer.Close()

			pointNodeAt(t, db, &node, wingsServer)

			creator := NewCreator(db, wings.New())

			server, createErr, err := creator.Create(context.Background(), user.ID, validRequest(node, realm, spell))
			require.NoError(t, err)
			require.NotNil(t, createErr)
			assert.Nil(t, server)
			assert.Equal(t, tc.expectedCode, createErr.Code)

			// hard delete: no server row survives
			var count int64
			db.Model(&models.Server{}).Count(&count)
			assert.Zero(t, count)

			// the allocation is free again
			var allocation models.Allocation
			require.NoError(t, db.Where("node_id = ?", node.ID).First(&allocation).Error)
			assert.Nil(t, allocation.ServerID)

			// no variable rows survive
			db.Model(&models.ServerVariable{}).Count(&count)
			assert.Zero(t, count)
		})
	}
}

func TestCreateUnreachableWings(t *testing.T) {
	db := setupTestDB(t)
	user, node, realm, spell := seedPanel(t, db)
	enabledSettings(t, db, nil)

	// point at a closed port
	node.Scheme = "http"
	node.FQDN = "127.0.0.1"
	node.DaemonPort = 1
	require.NoError(t, db.Save(&node).Error)

	creator := NewCreator(db, wings.New())

	server, createErr, err := creator.Create(context.Background(), user.ID, validRequest(node, realm, spell))
	require.NoError(t, err)
	require.NotNil(t, createErr)
	assert.Nil(t, server)
	assert.Equal(t, CodeFailedToCreateServerInWings, createErr.Code)

	var count int64
	db.Model(&models.Server{}).Count(&count)
	assert.Zero(t, count)
}

func TestCreateMissingRequiredVariable(t *testing.T) {
	db := setupTestDB(t)
	user, node, realm, spell := seedPanel(t, db)
	enabledSettings(t, db, nil)

	// required variable with no default and no caller value
	definition := models.SpellVariable{
		SpellID:     spell.ID,
		Name:        "Token",
		EnvVariable: "AUTH_TOKEN",
		Required:    true,
	}
	require.NoError(t, db.Create(&definition).Error)

	creator := NewCreator(db, wings.New())

	server, createErr, err := creator.Create(context.Background(), user.ID, validRequest(node, realm, spell))
	require.NoError(t, err)
	require.NotNil(t, createErr)
	assert.Nil(t, server)
	assert.Equal(t, CodeMissingRequiredVariable, createErr.Code)
	assert.Equal(t, "Missing required variable: AUTH_TOKEN", createErr.Message)

	// rollback leaves nothing behind
	var count int64
	db.Model(&models.Server{}).Count(&count)
	assert.Zero(t, count)

	var allocation models.Allocation
	require.NoError(t, db.Where("node_id = ?", node.ID).First(&allocation).Error)
	assert.Nil(t, allocation.ServerID)
}

func TestCreateNoFreeAllocations(t *testing.T) {
	db := setupTestDB(t)
	user, node, realm, spell := seedPanel(t, db)
	enabledSettings(t, db, nil)

	claimed := uint64(777)
	require.NoError(t, db.Model(&models.Allocation{}).
		Where("node_id = ?", node.ID).
		Update("server_id", claimed).Error)

	creator := NewCreator(db, wings.New())

	server, createErr, err := creator.Create(context.Background(), user.ID, validRequest(node, realm, spell))
	require.NoError(t, err)
	require.NotNil(t, createErr)
	assert.Nil(t, server)
	assert.Equal(t, CodeNoFreeAllocations, createErr.Code)
}
