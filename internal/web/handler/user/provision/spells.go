package provision

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/GoWings-Provision/GoWings-Provision/internal/db/models"
	"github.com/GoWings-Provision/GoWings-Provision/internal/web/handler"
)

// Spell returns one spell's name, startup command, docker image options and
// user-editable variables.
func (s *Service) Spell(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return handler.Error(c, fiber.StatusBadRequest, ErrInvalidID)
	}

	var spell models.Spell
	if err := s.db.First(&spell, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return handler.Error(c, fiber.StatusNotFound, ErrSpellNotFound)
		}

		return handler.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	var variables []models.SpellVariable
	err = s.db.Where("spell_id = ? AND user_editable = ?", spell.ID, true).
		Find(&variables).Error
	if err != nil {
		return handler.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	return handler.Success(c, fiber.Map{
		"id":            spell.ID,
		"realm_id":      spell.RealmID,
		"name":          spell.Name,
		"description":   spell.Description,
		"startup":       spell.Startup,
		"docker_images": spell.Images(),
		"variables":     variables,
	}, "")
}
