package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/EvgeniyKrainov/foodgram/internal/apperrors"
)

// respondError maps a domain error to its HTTP response. Validation errors
// become a per-field payload; everything unanticipated is a 500.
func respondError(c *fiber.Ctx, err error) error {
	if ve, ok := apperrors.AsValidation(err); ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"errors": map[string][]string{ve.Field: {ve.Message}},
		})
	}

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Not found",
		})
	case errors.Is(err, apperrors.ErrDuplicateRelation):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Already exists",
		})
	case errors.Is(err, apperrors.ErrSelfReference):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "You cannot subscribe to yourself",
		})
	case errors.Is(err, apperrors.ErrPermissionDenied):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "You do not have permission to perform this action",
		})
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Invalid credentials",
		})
	}

	log.Printf("Internal error: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "Internal server error",
	})
}
