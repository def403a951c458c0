package handlers

import (
	"errors"

	"fitness-duel-system/duel"
	"fitness-duel-system/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// writeError maps service and domain errors onto HTTP responses. Anything
// unrecognised is logged and reported as a generic 500.
func writeError(c *fiber.Ctx, log *zap.Logger, err error) error {
	var (
		unknownExercise *duel.UnknownExerciseError
		unknownCategory *duel.UnknownCategoryError
		repeated        *duel.RepeatedCategoryError
		missing         *duel.MissingFieldError
		negative        *duel.NegativeScoreError
		invalid         *services.ValidationError
	)

	switch {
	case errors.As(err, &unknownExercise):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":              err.Error(),
			"invalid":            unknownExercise.Invalid,
			"availableExercises": unknownExercise.Allowed,
		})
	case errors.As(err, &unknownCategory):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":               err.Error(),
			"availableCategories": unknownCategory.Known,
		})
	case errors.As(err, &repeated):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
			"keys":  repeated.Keys,
		})
	case errors.As(err, &missing):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  err.Error(),
			"fields": missing.Fields,
		})
	case errors.As(err, &invalid):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  invalid.Message,
			"fields": invalid.Fields,
		})
	case errors.As(err, &negative),
		errors.Is(err, duel.ErrSelfDuel),
		errors.Is(err, duel.ErrEmptyCategorySet),
		errors.Is(err, duel.ErrInvalidDuelType),
		errors.Is(err, services.ErrSelfFriend):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrDuelNotFound),
		errors.Is(err, services.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, duel.ErrDuelFinished),
		errors.Is(err, duel.ErrAlreadyFinished),
		errors.Is(err, duel.ErrDuplicateActiveDuel),
		errors.Is(err, services.ErrEmailTaken):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidCredentials):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	log.Error("request failed",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Error(err),
	)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
}

func badBody(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": "invalid request body",
		"cause": err.Error(),
	})
}
