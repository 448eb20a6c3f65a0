package repositories

import (
	"context"

	"trego/internal/models"
)

// CartRepository defines the interface for cart line data access.
type CartRepository interface {
	ListByUser(ctx context.Context, userID string) ([]models.CartItem, error)
	GetByID(ctx context.Context, id string) (*models.CartItem, error)
	FindByUserAndProduct(ctx context.Context, userID, productID string) (*models.CartItem, error)
	Create(ctx context.Context, item *models.CartItem) error
	IncrementQuantity(ctx context.Context, id string, delta int) error
	SetQuantity(ctx context.Context, id string, quantity int) error
	Delete(ctx context.Context, id string) error
	// DeleteByIDs removes the given lines of one user and reports how many rows went away.
	DeleteByIDs(ctx context.Context, userID string, ids []string) (int64, error)
}
