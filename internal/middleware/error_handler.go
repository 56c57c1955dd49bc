package middleware

import (
	"errors"

	"proforma-backend/internal/domain"
	"proforma-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// ErrorHandler is the global error handler. Domain errors map to stable
// status codes; anything unrecognized becomes a 500 without leaking internals.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"
	details := map[string]interface{}{}

	var verr *domain.ValidationError
	var cerr *domain.ConvergenceError
	var derr *domain.DataUnavailableError

	switch {
	case errors.As(err, &verr):
		code = fiber.StatusBadRequest
		message = verr.Message
		details["field"] = verr.Field
	case errors.As(err, &cerr):
		code = fiber.StatusUnprocessableEntity
		message = cerr.Error()
		details["method"] = cerr.Method
	case errors.As(err, &derr):
		code = fiber.StatusNotFound
		message = derr.Error()
		details["parameter"] = derr.Parameter
		details["location_code"] = derr.LocationCode
	default:
		var ferr *fiber.Error
		if errors.As(err, &ferr) {
			code = ferr.Code
			message = ferr.Message
		} else {
			log.Error().Err(err).Str("trace_id", GetTraceID(c)).Str("path", c.Path()).Msg("unhandled error")
		}
	}

	return response.Error(c, message, code, details)
}
