package wings

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

	"github.com/GoWings-Provision/GoWings-Provision/internal/db/models"
)

func testNode(t *testing.T, server *httptest.Server) *models.Node {
	t.Helper()

	parsed, err := url.Parse(server.URL)
	require.NoError(t, err)

	port, err := strconv.Atoi(parsed.Port())
	require.NoError(t, err)

	return &models.Node{
		ID:          1,
		Scheme:      parsed.Scheme,
		FQDN:        parsed.Hostname(),
		DaemonPort:  port,
		DaemonToken: "secret-token",
	}
}

func TestCreateServer(t *testing.T) {
	var received CreateServerRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/servers", r.URL.Path)
		assert.Equal(t, "Bearer secret-token", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	client := New()

	req := &CreateServerRequest{
		UUID:      "11111111-1111-1111-1111-111111111111",
		UUIDShort: "abcdefgh",
		Name:      "my server",
		Memory:    1024,
		CPU:       100,
		Disk:      5000,
		Image:     "ghcr.io/example/java:21",
		Startup:   "java -jar server.jar",
		Environment: map[string]string{
			"SERVER_JARFILE": "server.jar",
		},
		Allocation: AllocationSpec{IP: "10.0.0.5", Port: 25565},
	}

	err := client.CreateServer(context.Background(), testNode(t, server), req)
	require.NoError(t, err)

	assert.Equal(t, req.UUID, received.UUID)
	assert.Equal(t, req.Allocation, received.Allocation)
	assert.Equal(t, req.Environment, received.Environment)
}

func TestCreateServerAPIError(t *testing.T) {
	testCases := []struct {
		name   string
		status int
	}{
		{name: "bad request", status: http.StatusBadRequest},
		{name: "unauthorized", status: http.StatusUnauthorized},
		{name: "unprocessable", status: http.StatusUnprocessableEntity},
		{name: "internal error", status: http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte("nope"))
			}))
			defer server.Close()

			err := New().CreateServer(context.Background(), testNode(t, server), &CreateServerRequest{})
			require.Error(t, err)

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tc.status, apiErr.StatusCode)
			assert.Equal(t, "nope", apiErr.Body)
		})
	}
}

func TestCreateServerNilClient(t *testing.T) {
	var client *Client

	err := client.CreateServer(context.Background(), &models.Node{}, &CreateServerRequest{})
	require.ErrorIs(t, err, ErrClientNotInitialized)
}
