// Package auth authenticates requests against panel-issued API tokens.
// The host panel owns accounts and token issuance; this middleware only
// resolves the presented bearer token to a panel user row.
package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoWings-Provision/GoWings-Provision/internal/db/models"
)

const (
	// LocalsUser is the fiber locals key holding the authenticated user.
	LocalsUser = "CurrentUser"

	bearerPrefix = "Bearer "
)

// New creates the bearer-token authentication middleware.
func New(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(header, bearerPrefix) {
			return unauthorized(c)
		}

		token := strings.TrimPrefix(header, bearerPrefix)
		if token == "" {
			return unauthorized(c)
		}

		var user models.User
		err := db.Where("api_token = ?", token).First(&user).Error
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				log.Error().Err(err).Msg("failed to resolve api token")

				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"success":       false,
					"error_message": "Internal Server Error",
				})
			}

			return unauthorized(c)
		}

		c.Locals(LocalsUser, &user)

		return c.Next()
	}
}

// RequireAdmin creates middleware that rejects non-administrators.
// Must run after New.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil {
			return unauthorized(c)
		}

		if !user.RootAdmin {
			log.Warn().Uint64("user_id", user.ID).Msg("non-admin attempted admin route")

			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"success":       false,
				"error_message": "Forbidden: administrator access required",
			})
		}

		return c.Next()
	}
}

// CurrentUser returns the authenticated user from the request context, or
// nil if the auth middleware did not run.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, ok := c.Locals(LocalsUser).(*models.User)
	if !ok {
		return nil
	}

	return user
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"success":       false,
		"error_message": "Unauthorized",
	})
}
