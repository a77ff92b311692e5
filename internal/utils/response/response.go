package response

import (
	domainErrors "vendhub/internal/errors"

	"github.com/gofiber/fiber/v2"
)

func Success(c *fiber.Ctx, message string, data interface{}) error {
	return c.JSON(fiber.Map{
		"message": message,
		"data":    data,
	})
}

func Error(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": message,
	})
}

func BadRequest(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusBadRequest, message)
}

func ServerError(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusInternalServerError, message)
}

func Unauthorized(c *fiber.Ctx) error {
	return Error(c, fiber.StatusUnauthorized, "unauthorized")
}

// Domain maps a domain error to its HTTP status and structured body. Unknown
// errors come back as a generic 500 without internal detail.
func Domain(c *fiber.Ctx, err error) error {
	de, ok := err.(*domainErrors.DomainError)
	if !ok {
		return ServerError(c, "something went wrong")
	}
	return c.Status(statusFor(de.Code)).JSON(fiber.Map{
		"error": de.Message,
		"code":  de.Code,
	})
}

func statusFor(code string) int {
	switch code {
	case "UNAUTHORIZED", "SESSION_EXPIRED", "SESSION_NOT_FOUND":
		return fiber.StatusUnauthorized
	case "MACHINE_NOT_FOUND", "DISCOUNT_NOT_FOUND", "POLL_NOT_FOUND":
		return fiber.StatusNotFound
	case "ALREADY_REDEEMED", "ALREADY_VOTED", "SESSION_ALREADY_LINKED":
		return fiber.StatusConflict
	default:
		return fiber.StatusBadRequest
	}
}
