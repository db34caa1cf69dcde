package provision

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/GoWings-Provision/GoWings-Provision/internal/db/models"
	"github.com/GoWings-Provision/GoWings-Provision/internal/web/handler"
)

// Allocations lists the free allocations on a node.
func (s *Service) Allocations(c *fiber.Ctx) error {
	nodeID := c.QueryInt(QueryNodeID, 0)
	if nodeID <= 0 {
		return handler.Error(c, fiber.StatusBadRequest, ErrMissingNodeID)
	}

	var free []models.Allocation
	err := s.db.Where("node_id = ? AND server_id IS NULL", nodeID).Find(&free).Error
	if err != nil {
		log.Error().Err(err).Int("node_id", nodeID).Msg("failed to load allocations")

		return handler.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	return handler.Success(c, free, "")
}
