package services_test

import (
	"encoding/json"
	"testing"

	"trego/internal/logger"
	"trego/internal/models"
	"trego/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleOrderEvent(t *testing.T) {
	body, err := json.Marshal(services.OrderEvent{
		Type:      services.EventOrderShipped,
		OrderID:   "o-1",
		UserID:    "alice",
		ProductID: "p-1",
		Quantity:  2,
		Amount:    price("20.00"),
		Status:    models.OrderStatusShipped,
	})
	require.NoError(t, err)
	assert.NoError(t, services.HandleOrderEvent(logger.Nop(), body))

	assert.Error(t, services.HandleOrderEvent(logger.Nop(), []byte("not json")))
	assert.Error(t, services.HandleOrderEvent(logger.Nop(), []byte(`{"type":"order.placed"}`)))
}
