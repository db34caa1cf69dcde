// Package wings implements the HTTP client for the per-node Wings daemon,
// the external service that actually creates and runs game-server
// containers. The plugin only assembles creation payloads; everything after
// the POST is Wings' business.
package wings

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"

	"github.com/GoWings-Provision/GoWings-Provision/internal/db/models"
)

const (
	defaultTimeout = 30 * time.Second

	createServerPath = "/api/servers"
)

// AllocationSpec is the network allocation handed to a new server.
type AllocationSpec struct {
	IP   string `json:"ip"`
	Port int    `json:"port"`
}

// CreateServerRequest is the payload POSTed to Wings to materialize a server.
type CreateServerRequest struct {
	UUID        string            `json:"uuid"`
	UUIDShort   string            `json:"uuid_short"`
	Name        string            `json:"name"`
	Memory      int               `json:"memory"`
	CPU         int               `json:"cpu"`
	Disk        int               `json:"disk"`
	Image       string            `json:"image"`
	Startup     string            `json:"startup"`
	Environment map[string]string `json:"environment"`
	Allocation  AllocationSpec    `json:"allocation"`

	StartOnCompletion bool `json:"start_on_completion"`
}

// Client talks to Wings daemons. One client serves all nodes; the per-node
// base URL and token are taken from the node row on each call.
type Client struct {
	http *resty.Client
}

// New creates a Wings client with the fixed call budget.
func New() *Client {
	return &Client{
		http: resty.New().SetTimeout(defaultTimeout),
	}
}

// CreateServer asks the node's Wings daemon to materialize a server.
// A non-2xx response is returned as *APIError; transport failures come back
// as the underlying error.
func (c *Client) CreateServer(ctx context.Context, node *models.Node, req *CreateServerRequest) error {
	if c == nil || c.http == nil {
		return ErrClientNotInitialized
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(node.DaemonToken).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		Post(node.BaseURL() + createServerPath)
	if err != nil {
		return err
	}

	if resp.IsError() {
		return &APIError{StatusCode: resp.StatusCode(), Body: string(resp.Body())}
	}

	log.Info().
		Str("uuid", req.UUID).
		Uint64("node_id", node.ID).
		Msg("wings accepted server creation")

	return nil
}
