package services

import (
	"context"

	"trego/internal/apperr"
	"trego/internal/models"
	"trego/internal/repositories"

	"go.uber.org/zap"
)

// CatalogReader resolves products for the cart.
type CatalogReader interface {
	GetByID(ctx context.Context, id string) (*models.Product, error)
}

// CartService manages the cart of the calling user. Every method is scoped to
// the caller's own lines: no role, admin included, can touch another cart.
type CartService struct {
	catalog CatalogReader
	carts   repositories.CartRepository
	scope   repositories.TransactionScope
	log     *zap.Logger
}

// NewCartService creates a new CartService.
func NewCartService(catalog CatalogReader, carts repositories.CartRepository, scope repositories.TransactionScope, log *zap.Logger) *CartService {
	return &CartService{
		catalog: catalog,
		carts:   carts,
		scope:   scope,
		log:     log.Named("cart"),
	}
}

// ListItems returns the caller's cart lines.
func (s *CartService) ListItems(ctx context.Context, caller models.Principal) ([]models.CartItem, error) {
	return s.carts.ListByUser(ctx, caller.UserID)
}

// AddItem puts quantity units of a product in the cart. A product already in
// the cart has its quantity increased instead of getting a second line.
func (s *CartService) AddItem(ctx context.Context, caller models.Principal, productID string, quantity int) (*models.CartItem, error) {
	if quantity <= 0 {
		return nil, apperr.InvalidArgument("quantity must be at least 1")
	}
	if _, err := s.catalog.GetByID(ctx, productID); err != nil {
		return nil, err
	}

	var result *models.CartItem
	err := s.scope.ExecuteForUser(ctx, caller.UserID, func(repos repositories.TxRepositories) error {
		carts := repos.Carts()

		existing, err := carts.FindByUserAndProduct(ctx, caller.UserID, productID)
		switch {
		case err == nil:
			if err := carts.IncrementQuantity(ctx, existing.ID, quantity); err != nil {
				return err
			}
			result, err = carts.GetByID(ctx, existing.ID)
			return err
		case apperr.KindOf(err) == apperr.KindNotFound:
			item := &models.CartItem{UserID: caller.UserID, ProductID: productID, Quantity: quantity}
			if err := carts.Create(ctx, item); err != nil {
				return err
			}
			result, err = carts.GetByID(ctx, item.ID)
			return err
		default:
			return err
		}
	})
	if err != nil {
		return nil, err
	}

	s.log.Debug("cart item added",
		zap.String("user_id", caller.UserID),
		zap.String("product_id", productID),
		zap.Int("quantity", result.Quantity),
	)
	return result, nil
}

// UpdateQuantity overwrites the quantity of one of the caller's lines.
// A nil quantity means the caller did not send one.
func (s *CartService) UpdateQuantity(ctx context.Context, caller models.Principal, itemID string, quantity *int) (*models.CartItem, error) {
	if quantity == nil {
		return nil, apperr.InvalidArgument("quantity is required")
	}
	if *quantity <= 0 {
		return nil, apperr.InvalidArgument("quantity must be at least 1")
	}

	var result *models.CartItem
	err := s.scope.ExecuteForUser(ctx, caller.UserID, func(repos repositories.TxRepositories) error {
		carts := repos.Carts()
		if _, err := ownedItem(ctx, carts, caller, itemID); err != nil {
			return err
		}
		if err := carts.SetQuantity(ctx, itemID, *quantity); err != nil {
			return err
		}
		var err error
		result, err = carts.GetByID(ctx, itemID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RemoveItem deletes one of the caller's lines. Removing it twice reports NotFound.
func (s *CartService) RemoveItem(ctx context.Context, caller models.Principal, itemID string) error {
	return s.scope.ExecuteForUser(ctx, caller.UserID, func(repos repositories.TxRepositories) error {
		carts := repos.Carts()
		if _, err := ownedItem(ctx, carts, caller, itemID); err != nil {
			return err
		}
		return carts.Delete(ctx, itemID)
	})
}

// ownedItem loads a line and hides lines of other users behind NotFound.
func ownedItem(ctx context.Context, carts repositories.CartRepository, caller models.Principal, itemID string) (*models.CartItem, error) {
	item, err := carts.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if !caller.Owns(item.UserID) {
		return nil, apperr.NotFound("cart item with ID %s not found", itemID)
	}
	return item, nil
}
