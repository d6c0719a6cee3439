package handler

import (
	"errors"
	"strconv"
	"time"

	"go-inventory-ledger/internal/service"
	"go-inventory-ledger/internal/serviceerrors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const dateLayout = "2006-01-02"

// writeError renders err with the status its kind maps to. Storage failures
// are logged and hidden behind a generic message.
func writeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrUserInactive):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrWrongPassword):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	svcErr, ok := serviceerrors.As(err)
	if !ok {
		log.Error().Err(err).Str("path", c.Path()).Msg("unhandled error")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal Server Error"})
	}

	switch svcErr.Kind {
	case serviceerrors.KindNotFound:
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": svcErr.Message})
	case serviceerrors.KindInvalidArgument:
		body := fiber.Map{"error": svcErr.Message}
		if len(svcErr.Fields) > 0 {
			body["fields"] = svcErr.Fields
		}
		return c.Status(fiber.StatusUnprocessableEntity).JSON(body)
	case serviceerrors.KindConflict, serviceerrors.KindConcurrencyConflict:
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": svcErr.Message})
	case serviceerrors.KindForbidden:
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": svcErr.Message})
	default:
		log.Error().Err(err).Str("path", c.Path()).Msg("storage failure")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal Server Error"})
	}
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": message})
}

func parseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params(name))
	return id, err == nil
}

// parseDateQuery reads an optional YYYY-MM-DD query parameter as a UTC date.
func parseDateQuery(c *fiber.Ctx, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(dateLayout, raw, time.UTC)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func parseOptionalUint(raw string) (*uint, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return nil, err
	}
	u := uint(v)
	return &u, nil
}
