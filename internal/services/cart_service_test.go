package services_test

import (
	"context"
	"testing"

	"trego/internal/apperr"
	"trego/internal/logger"
	"trego/internal/models"
	"trego/internal/repositories"
	"trego/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	alice = models.Principal{UserID: "alice", Username: "alice", Role: models.RoleCustomer}
	bob   = models.Principal{UserID: "bob", Username: "bob", Role: models.RoleCustomer}
	root  = models.Principal{UserID: "root", Username: "root", Role: models.RoleAdmin}
)

// store bundles the in-memory repositories the cart and order services share.
type store struct {
	products *repositories.MockProductRepository
	carts    *repositories.MockCartRepository
	orders   *repositories.MockOrderRepository
	scope    *repositories.MockTransactionScope
}

func newStore() *store {
	products := repositories.NewMockProductRepository()
	carts := repositories.NewMockCartRepository(products)
	orders := repositories.NewMockOrderRepository(products)
	return &store{
		products: products,
		carts:    carts,
		orders:   orders,
		scope:    repositories.NewMockTransactionScope(carts, orders),
	}
}

func (s *store) product(t *testing.T, name, amount string) *models.Product {
	t.Helper()
	p := &models.Product{Name: name, Price: price(amount)}
	require.NoError(t, s.products.Create(context.Background(), p))
	return p
}

func (s *store) cartService() *services.CartService {
	return services.NewCartService(s.products, s.carts, s.scope, logger.Nop())
}

func intPtr(v int) *int { return &v }

func TestCartService_AddMergesSameProduct(t *testing.T) {
	ctx := context.Background()
	s := newStore()
	cart := s.cartService()
	laptop := s.product(t, "Laptop", "1200.00")

	first, err := cart.AddItem(ctx, alice, laptop.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, first.Quantity)

	second, err := cart.AddItem(ctx, alice, laptop.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 5, second.Quantity)

	items, err := cart.ListItems(ctx, alice)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
	require.NotNil(t, items[0].Product)
	assert.Equal(t, "Laptop", items[0].Product.Name)
}

func TestCartService_AddUnknownProduct(t *testing.T) {
	ctx := context.Background()
	s := newStore()
	cart := s.cartService()
	mouse := s.product(t, "Mouse", "25.00")
	_, err := cart.AddItem(ctx, alice, mouse.ID, 1)
	require.NoError(t, err)

	_, err = cart.AddItem(ctx, alice, "missing", 1)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	items, err := cart.ListItems(ctx, alice)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, mouse.ID, items[0].ProductID)
	assert.Equal(t, 1, items[0].Quantity)
}

func TestCartService_AddRejectsNonPositiveQuantity(t *testing.T) {
	ctx := context.Background()
	s := newStore()
	cart := s.cartService()
	mouse := s.product(t, "Mouse", "25.00")

	for _, q := range []int{0, -2} {
		_, err := cart.AddItem(ctx, alice, mouse.ID, q)
		assert.Equal(t, apperr.KindInvalidArgument, apperr.KindOf(err), q)
	}
	items, err := cart.ListItems(ctx, alice)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCartService_UpdateQuantity(t *testing.T) {
	ctx := context.Background()
	s := newStore()
	cart := s.cartService()
	mouse := s.product(t, "Mouse", "25.00")
	line, err := cart.AddItem(ctx, alice, mouse.ID, 4)
	require.NoError(t, err)

	tests := []struct {
		name     string
		caller   models.Principal
		quantity *int
		kind     apperr.Kind
	}{
		{name: "absent quantity", caller: alice, quantity: nil, kind: apperr.KindInvalidArgument},
		{name: "zero quantity", caller: alice, quantity: intPtr(0), kind: apperr.KindInvalidArgument},
		{name: "negative quantity", caller: alice, quantity: intPtr(-1), kind: apperr.KindInvalidArgument},
		{name: "other user", caller: bob, quantity: intPtr(9), kind: apperr.KindNotFound},
		{name: "admin is no exception", caller: root, quantity: intPtr(9), kind: apperr.KindNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := cart.UpdateQuantity(ctx, tt.caller, line.ID, tt.quantity)
			assert.Equal(t, tt.kind, apperr.KindOf(err))

			got, err := s.carts.GetByID(ctx, line.ID)
			require.NoError(t, err)
			assert.Equal(t, 4, got.Quantity)
		})
	}

	// The new quantity replaces the old one.
	updated, err := cart.UpdateQuantity(ctx, alice, line.ID, intPtr(1))
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Quantity)

	_, err = cart.UpdateQuantity(ctx, alice, "missing", intPtr(1))
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestCartService_RemoveItem(t *testing.T) {
	ctx := context.Background()
	s := newStore()
	cart := s.cartService()
	mouse := s.product(t, "Mouse", "25.00")
	line, err := cart.AddItem(ctx, alice, mouse.ID, 1)
	require.NoError(t, err)

	err = cart.RemoveItem(ctx, bob, line.ID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	require.NoError(t, cart.RemoveItem(ctx, alice, line.ID))
	err = cart.RemoveItem(ctx, alice, line.ID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	items, err := cart.ListItems(ctx, alice)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCartService_ListIsScopedToCaller(t *testing.T) {
	ctx := context.Background()
	s := newStore()
	cart := s.cartService()
	mouse := s.product(t, "Mouse", "25.00")
	keyboard := s.product(t, "Keyboard", "75.00")

	_, err := cart.AddItem(ctx, alice, mouse.ID, 1)
	require.NoError(t, err)
	_, err = cart.AddItem(ctx, bob, mouse.ID, 2)
	require.NoError(t, err)
	_, err = cart.AddItem(ctx, bob, keyboard.ID, 1)
	require.NoError(t, err)

	mine, err := cart.ListItems(ctx, alice)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "alice", mine[0].UserID)

	theirs, err := cart.ListItems(ctx, bob)
	require.NoError(t, err)
	assert.Len(t, theirs, 2)

	adminCart, err := cart.ListItems(ctx, root)
	require.NoError(t, err)
	assert.Empty(t, adminCart)
}
