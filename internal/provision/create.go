package provision

import (
	"context"
	"errors"
	"math/rand"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/teris-io/shortid"
	"gorm.io/gorm"

	"github.com/GoWings-Provision/GoWings-Provision/internal/db/models"
	"github.com/GoWings-Provision/GoWings-Provision/internal/wings"
)

// Creator runs the post-validation creation flow. Every step after the row
// insert can unwind via hard delete back to "nothing exists"; there are no
// retries, any failure is terminal for the request.
type Creator struct {
	db    *gorm.DB
	wings *wings.Client
}

// NewCreator creates a new server creator.
func NewCreator(db *gorm.DB, wingsClient *wings.Client) *Creator {
	return &Creator{db: db, wings: wingsClient}
}

// Create inserts the server row, claims an allocation, resolves spell
// variables and asks Wings to materialize the server. The request is assumed
// to have passed Validate; a second allocation query runs here regardless.
//
// Two concurrent requests for the same node can both observe the same
// allocation as free before either claims it; there is no locking read. A
// claim that affects zero rows is logged and creation continues.
func (c *Creator) Create(ctx context.Context, userID uint64, req *CreateRequest) (*models.Server, *CreateError, error) {
	if c.db == nil {
		return nil, nil, ErrDBNil
	}

	var spell models.Spell
	if err := c.db.First(&spell, req.SpellID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fail(CodeSpellNotFound, "Spell not found"), nil
		}

		return nil, nil, err
	}

	var node models.Node
	if err := c.db.First(&node, req.NodeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fail(CodeNodeNotFound, "Node not found"), nil
		}

		return nil, nil, err
	}

	// re-query free allocations and pick one uniformly at random
	var free []models.Allocation
	err := c.db.Where("node_id = ? AND server_id IS NULL", req.NodeID).Find(&free).Error
	if err != nil {
		return nil, nil, err
	}

	if len(free) == 0 {
		return nil, fail(CodeNoFreeAllocations, "No free allocations are available on this node"), nil
	}

	allocation := free[rand.Intn(len(free))] //nolint:gosec // uniform pick, not crypto

	serverUUID := uuid.New().String()

	uuidShort, err := shortid.Generate()
	if err != nil {
		return nil, nil, err
	}

	image := req.DockerImage
	if image == "" {
		for _, candidate := range spell.Images() {
			image = candidate
			break
		}
	}

	server := models.Server{
		UUID:            serverUUID,
		UUIDShort:       uuidShort,
		UserID:          userID,
		NodeID:          req.NodeID,
		RealmID:         req.RealmID,
		SpellID:         req.SpellID,
		Name:            req.Name,
		Status:          models.ServerStatusInstalling,
		Memory:          req.Memory,
		CPU:             req.CPU,
		Disk:            req.Disk,
		DatabaseLimit:   req.DatabaseLimit,
		BackupLimit:     req.BackupLimit,
		AllocationLimit: req.AllocationLimit,
		AllocationID:    allocation.ID,
		Startup:         spell.Startup,
		Image:           image,
	}

	if err := c.db.Create(&server).Error; err != nil {
		return nil, fail(CodeFailedToCreateServer, "Failed to create server"), nil
	}

	// claim the chosen allocation for the new server id
	claim := c.db.Model(&models.Allocation{}).
		Where("id = ? AND server_id IS NULL", allocation.ID).
		Update("server_id", server.ID)
	if claim.Error != nil {
		c.compensate(server.ID)
		return nil, nil, claim.Error
	}

	if claim.RowsAffected == 0 {
		// lost the race to another request; creation continues regardless
		log.Warn().
			Uint64("allocation_id", allocation.ID).
			Uint64("server_id", server.ID).
			Msg("allocation already claimed by another server")
	}

	// resolve spell variables: caller value if non-blank, else the default
	environment, createErr, err := c.applyVariables(&server, &spell, req.Environment)
	if err != nil || createErr != nil {
		c.compensate(server.ID)
		return nil, createErr, err
	}

	wingsReq := &wings.CreateServerRequest{
		UUID:      serverUUID,
		UUIDShort: uuidShort,
		Name:      req.Name,
		Memory:    req.Memory,
		CPU:       req.CPU,
		Disk:      req.Disk,
		Image:     image,
		Startup:   spell.Startup,
		Allocation: wings.AllocationSpec{
			IP:   allocation.IP,
			Port: allocation.Port,
		},
		Environment:       environment,
		StartOnCompletion: req.StartOnCompletion,
	}

	if err := c.wings.CreateServer(ctx, &node, wingsReq); err != nil {
		c.compensate(server.ID)
		return nil, mapWingsError(err), nil
	}

	// return the freshly reloaded row
	var created models.Server
	if err := c.db.First(&created, server.ID).Error; err != nil {
		return nil, nil, err
	}

	return &created, nil, nil
}

// applyVariables resolves and persists the spell's variable definitions for
// the server. A required variable ending up blank fails the creation.
func (c *Creator) applyVariables(server *models.Server, spell *models.Spell, supplied map[string]string) (map[string]string, *CreateError, error) {
	var definitions []models.SpellVariable
	if err := c.db.Where("spell_id = ?", spell.ID).Find(&definitions).Error; err != nil {
		return nil, nil, err
	}

	environment := make(map[string]string, len(definitions))

	for _, definition := range definitions {
		value := supplied[definition.EnvVariable]
		if value == "" {
			value = definition.DefaultValue
		}

		if definition.Required && value == "" {
			return nil, fail(CodeMissingRequiredVariable,
				"Missing required variable: "+definition.EnvVariable), nil
		}

		environment[definition.EnvVariable] = value

		row := models.ServerVariable{
			ServerID:      server.ID,
			VariableID:    definition.ID,
			VariableValue: value,
		}

		if err := c.db.Create(&row).Error; err != nil {
			return nil, nil, err
		}
	}

	return environment, nil, nil
}

// compensate unwinds a partially created server by hard deletion: variable
// rows, the allocation claim, then the server row itself. This is a
// compensating action, not a transaction.
func (c *Creator) compensate(serverID uint64) {
	if err := c.db.Where("server_id = ?", serverID).Delete(&models.ServerVariable{}).Error; err != nil {
		log.Error().Err(err).Uint64("server_id", serverID).Msg("failed to delete server variables during rollback")
	}

	err := c.db.Model(&models.Allocation{}).
		Where("server_id = ?", serverID).
		Update("server_id", nil).Error
	if err != nil {
		log.Error().Err(err).Uint64("server_id", serverID).Msg("failed to release allocation during rollback")
	}

	if err := c.db.Delete(&models.Server{}, serverID).Error; err != nil {
		log.Error().Err(err).Uint64("server_id", serverID).Msg("failed to delete server row during rollback")
	}
}

// mapWingsError maps a Wings failure onto the plugin's error codes.
func mapWingsError(err error) *CreateError {
	var apiErr *wings.APIError
	if !errors.As(err, &apiErr) {
		return fail(CodeFailedToCreateServerInWings, "Failed to create server in Wings: "+err.Error())
	}

	switch apiErr.StatusCode {
	case 400:
		return fail(CodeInvalidServerConfig, "Wings rejected the server configuration")
	case 401:
		return fail(CodeWingsUnauthorized, "Wings rejected the daemon token")
	case 403:
		return fail(CodeWingsForbidden, "Wings refused the request")
	case 422:
		return fail(CodeInvalidServerData, "Wings rejected the server data")
	default:
		return fail(CodeWingsError, "Wings returned an unexpected error")
	}
}
