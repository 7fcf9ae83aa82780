package middlewares

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"tasktracker-backend/apperrors"
)

// NewErrorHandler returns the single place where errors become HTTP status
// codes. Responses stay sanitized: auth failures never say which check
// failed, not-found never says whether the record exists for someone else,
// and storage detail stays in the logs.
func NewErrorHandler(log zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		// 1) Authentication failures (401, generic body; reason logged only)
		var authErr *apperrors.AuthError
		if errors.As(err, &authErr) {
			log.Debug().
				Str("reason", string(authErr.Reason)).
				Err(authErr.Err).
				Msg("authentication rejected")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "invalid authentication credentials",
			})
		}

		// 2) Service-level validation errors (422 + violated field)
		var valErr *apperrors.ValidationError
		if errors.As(err, &valErr) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"message": "validation failed",
				"errors":  map[string]string{valErr.Field: valErr.Message},
			})
		}

		// 3) Absent or foreign-owned task (404, identical message either way)
		if errors.Is(err, apperrors.ErrTaskNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "task not found",
			})
		}

		// 4) Storage faults (503, no backend detail leaked)
		if errors.Is(err, apperrors.ErrStorageUnavailable) {
			log.Error().Err(err).Msg("storage unavailable")
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"message": "service temporarily unavailable",
			})
		}

		// 5) Request-binding validation errors (422 + per-field info)
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			out := make(map[string]string, len(ve))
			for _, fe := range ve {
				out[fe.Field()] = fe.Tag()
			}
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"message": "validation failed",
				"errors":  out,
			})
		}

		// 6) Fiber errors (use their status code + message)
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(fiber.Map{"message": fe.Message})
		}

		// 7) Unknown errors (500)
		log.Error().Err(err).Msg("internal error")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "internal server error",
		})
	}
}
