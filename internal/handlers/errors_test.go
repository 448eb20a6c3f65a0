package handlers_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"trego/internal/apperr"
	"trego/internal/handlers"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{apperr.NotFound("product with ID %s not found", "p-1"), http.StatusNotFound},
		{apperr.Forbidden("nope"), http.StatusForbidden},
		{apperr.InvalidArgument("quantity must be at least 1"), http.StatusBadRequest},
		{apperr.InvalidState("cart is empty"), http.StatusBadRequest},
		{apperr.PaymentDeclined("declined"), http.StatusBadRequest},
		{apperr.Conflict("taken"), http.StatusConflict},
		{apperr.Unauthorized("invalid token"), http.StatusUnauthorized},
		{apperr.PersistenceInconsistency("status mismatch"), http.StatusInternalServerError},
		{fmt.Errorf("checkout: %w", apperr.InvalidState("cart is empty")), http.StatusBadRequest},
		{errors.New("connection refused"), http.StatusInternalServerError},
		{fiber.ErrMethodNotAllowed, http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, handlers.StatusFor(tt.err), tt.err.Error())
	}
}
