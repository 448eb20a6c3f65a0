package handlers

import (
	"errors"
	"fmt"

	"trego/internal/apperr"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

var kindStatus = map[apperr.Kind]int{
	apperr.KindNotFound:                 fiber.StatusNotFound,
	apperr.KindForbidden:                fiber.StatusForbidden,
	apperr.KindInvalidArgument:          fiber.StatusBadRequest,
	apperr.KindInvalidState:             fiber.StatusBadRequest,
	apperr.KindPaymentDeclined:          fiber.StatusBadRequest,
	apperr.KindConflict:                 fiber.StatusConflict,
	apperr.KindUnauthorized:             fiber.StatusUnauthorized,
	apperr.KindPersistenceInconsistency: fiber.StatusInternalServerError,
	apperr.KindInternal:                 fiber.StatusInternalServerError,
}

// StatusFor maps an error to the HTTP status it is reported with.
func StatusFor(err error) int {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	var be *bindError
	if errors.As(err, &be) {
		return fiber.StatusBadRequest
	}
	return kindStatus[apperr.KindOf(err)]
}

// ErrorHandler is the single place where errors become HTTP responses.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	log = log.Named("http")
	return func(c *fiber.Ctx, err error) error {
		var (
			fe *fiber.Error
			be *bindError
		)
		switch {
		case errors.As(err, &be):
			body := fiber.Map{"message": be.message, "code": string(apperr.KindInvalidArgument)}
			if len(be.fields) > 0 {
				body["errors"] = be.fields
			}
			return c.Status(fiber.StatusBadRequest).JSON(body)
		case errors.As(err, &fe):
			return c.Status(fe.Code).JSON(fiber.Map{"message": fe.Message})
		}

		kind := apperr.KindOf(err)
		status := kindStatus[kind]
		if apperr.IsClientError(err) {
			return c.Status(status).JSON(fiber.Map{"message": err.Error(), "code": string(kind)})
		}

		log.Error("request failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("code", string(kind)),
			zap.Error(err),
		)
		return c.Status(status).JSON(fiber.Map{"message": "Internal server error", "code": string(kind)})
	}
}

// bindError reports a malformed or invalid request body.
type bindError struct {
	message string
	fields  map[string]string
	cause   error
}

func (e *bindError) Error() string { return e.message }
func (e *bindError) Unwrap() error { return e.cause }

// bindBody parses the JSON body into dst and runs validator tags on it.
func bindBody(c *fiber.Ctx, validate *validator.Validate, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return &bindError{message: "Invalid request body", cause: err}
	}
	if err := validate.Struct(dst); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return &bindError{message: "Validation failed", cause: err}
		}
		fields := make(map[string]string, len(validationErrors))
		for _, e := range validationErrors {
			fields[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return &bindError{message: "Validation failed", fields: fields, cause: err}
	}
	return nil
}
