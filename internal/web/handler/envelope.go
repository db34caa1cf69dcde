package handler

import (
	"github.com/gofiber/fiber/v2"
)

// Success writes the uniform success envelope.
func Success(c *fiber.Ctx, data any, message string) error {
	return c.JSON(fiber.Map{
		"success": true,
		"message": message,
		"data":    data,
	})
}

// Error writes the uniform failure envelope.
func Error(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success":       false,
		"error_message": message,
	})
}

// ErrorCode writes the failure envelope with a machine-readable error code.
func ErrorCode(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success":       false,
		"error_message": message,
		"error_code":    code,
	})
}
