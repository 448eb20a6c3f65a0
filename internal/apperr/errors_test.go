package apperr_test

import (
	"errors"
	"fmt"
	"testing"

	"trego/internal/apperr"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	err := apperr.NotFound("product with ID %s not found", "p-1")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.Equal(t, "product with ID p-1 not found", err.Error())

	wrapped := fmt.Errorf("add to cart: %w", err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(wrapped))
	assert.True(t, errors.Is(wrapped, apperr.ErrNotFound))
	assert.False(t, errors.Is(wrapped, apperr.ErrForbidden))

	assert.Equal(t, apperr.KindInternal, apperr.KindOf(errors.New("boom")))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := apperr.Wrap(apperr.KindInternal, cause, "failed to list orders")

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "failed to list orders: connection reset", err.Error())
}

func TestIsClientError(t *testing.T) {
	assert.True(t, apperr.IsClientError(apperr.InvalidState("cart is empty")))
	assert.True(t, apperr.IsClientError(apperr.PaymentDeclined("declined")))
	assert.False(t, apperr.IsClientError(apperr.PersistenceInconsistency("status mismatch")))
	assert.False(t, apperr.IsClientError(errors.New("boom")))
}
