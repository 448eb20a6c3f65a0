package repositories

import (
	"context"

	"trego/internal/models"
)

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	ListAll(ctx context.Context) ([]models.Order, error)
	ListByUser(ctx context.Context, userID string) ([]models.Order, error)
	GetByID(ctx context.Context, id string) (*models.Order, error)
	CreateBatch(ctx context.Context, orders []models.Order) error
	// TransitionStatus moves an order from one status to another only if it is
	// still in the expected status. It reports whether the row changed.
	TransitionStatus(ctx context.Context, id string, from, to models.OrderStatus) (bool, error)
}
