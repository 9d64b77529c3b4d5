package utils

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// ErrorResponse is the envelope for failed answers. Successful answers carry
// no envelope; handlers render their payloads directly.
type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   string      `json:"error"`
	Message string      `json:"message,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

// Fail renders err with the HTTP status matching its kind. Unrecognized
// errors become 500 without leaking their message.
func Fail(c *fiber.Ctx, err error) error {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Success: false,
			Error:   string(KindInternal),
			Message: "Internal server error",
		})
	}

	resp := ErrorResponse{
		Success: false,
		Error:   string(appErr.Kind),
		Message: appErr.Message,
	}
	if len(appErr.Fields) > 0 {
		resp.Details = appErr.Fields
	}

	return c.Status(statusForKind(appErr.Kind)).JSON(resp)
}

func statusForKind(kind ErrorKind) int {
	switch kind {
	case KindValidation, KindConflict:
		// The original API reported duplicate registration with 400, and
		// clients match on that; the kind string still distinguishes them.
		return fiber.StatusBadRequest
	case KindAuth:
		return fiber.StatusUnauthorized
	case KindForbidden:
		return fiber.StatusForbidden
	case KindNotFound:
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}
