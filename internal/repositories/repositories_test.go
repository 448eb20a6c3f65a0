package repositories_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"trego/internal/apperr"
	"trego/internal/models"
	"trego/internal/repositories"
	"trego/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var (
	_ repositories.ProductRepository  = (*repositories.GORMProductRepository)(nil)
	_ repositories.CategoryRepository = (*repositories.GORMCategoryRepository)(nil)
	_ repositories.UserRepository     = (*repositories.GORMUserRepository)(nil)
	_ repositories.CartRepository     = (*repositories.GORMCartRepository)(nil)
	_ repositories.OrderRepository    = (*repositories.GORMOrderRepository)(nil)
	_ repositories.FeedbackRepository = (*repositories.GORMFeedbackRepository)(nil)
)

func seedProduct(t *testing.T, db *gorm.DB, name, price string) *models.Product {
	t.Helper()
	p := &models.Product{Name: name, Price: decimal.RequireFromString(price)}
	require.NoError(t, repositories.NewGORMProductRepository(db).Create(context.Background(), p))
	return p
}

func TestProductRepository_SoftDeleteKeepsCartReference(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	products := repositories.NewGORMProductRepository(db)
	carts := repositories.NewGORMCartRepository(db)

	p := seedProduct(t, db, "Laptop", "1200.00")
	item := &models.CartItem{UserID: "u-1", ProductID: p.ID, Quantity: 1}
	require.NoError(t, carts.Create(ctx, item))

	require.NoError(t, products.Delete(ctx, p.ID))
	_, err := products.GetByID(ctx, p.ID)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	items, err := carts.ListByUser(ctx, "u-1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.NotNil(t, items[0].Product)
	assert.Equal(t, "Laptop", items[0].Product.Name)

	err = products.Delete(ctx, p.ID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestProductRepository_Update(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	products := repositories.NewGORMProductRepository(db)
	p := seedProduct(t, db, "Mouse", "25.00")

	p.Price = decimal.RequireFromString("19.50")
	p.Name = "Wireless Mouse"
	require.NoError(t, products.Update(ctx, p))

	got, err := products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Wireless Mouse", got.Name)
	assert.True(t, decimal.RequireFromString("19.50").Equal(got.Price))

	err = products.Update(ctx, &models.Product{ID: "missing", Name: "x"})
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestCartRepository_UniquePerUserAndProduct(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	carts := repositories.NewGORMCartRepository(db)
	p := seedProduct(t, db, "Keyboard", "75.00")

	require.NoError(t, carts.Create(ctx, &models.CartItem{UserID: "u-1", ProductID: p.ID, Quantity: 1}))
	err := carts.Create(ctx, &models.CartItem{UserID: "u-1", ProductID: p.ID, Quantity: 2})
	assert.Error(t, err)

	// another user may hold the same product
	assert.NoError(t, carts.Create(ctx, &models.CartItem{UserID: "u-2", ProductID: p.ID, Quantity: 2}))
}

func TestCartRepository_QuantityOperations(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	carts := repositories.NewGORMCartRepository(db)
	p := seedProduct(t, db, "Monitor", "200.00")

	item := &models.CartItem{UserID: "u-1", ProductID: p.ID, Quantity: 2}
	require.NoError(t, carts.Create(ctx, item))

	require.NoError(t, carts.IncrementQuantity(ctx, item.ID, 3))
	got, err := carts.FindByUserAndProduct(ctx, "u-1", p.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Quantity)

	require.NoError(t, carts.SetQuantity(ctx, item.ID, 1))
	got, err = carts.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Quantity)

	require.NoError(t, carts.Delete(ctx, item.ID))
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(carts.Delete(ctx, item.ID)))
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(carts.IncrementQuantity(ctx, item.ID, 1)))
}

func TestCartRepository_DeleteByIDsOnlyTouchesOwner(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	carts := repositories.NewGORMCartRepository(db)
	p1 := seedProduct(t, db, "A", "1.00")
	p2 := seedProduct(t, db, "B", "2.00")

	mine := &models.CartItem{UserID: "u-1", ProductID: p1.ID, Quantity: 1}
	theirs := &models.CartItem{UserID: "u-2", ProductID: p2.ID, Quantity: 1}
	require.NoError(t, carts.Create(ctx, mine))
	require.NoError(t, carts.Create(ctx, theirs))

	n, err := carts.DeleteByIDs(ctx, "u-1", []string{mine.ID, theirs.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	_, err = carts.GetByID(ctx, theirs.ID)
	assert.NoError(t, err)
}

func TestOrderRepository_ListNewestFirstAndTransition(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	orders := repositories.NewGORMOrderRepository(db)
	p := seedProduct(t, db, "Laptop", "1200.00")

	now := time.Now()
	batch := []models.Order{
		{UserID: "u-1", ProductID: p.ID, Quantity: 1, UnitPrice: p.Price, Status: models.OrderStatusPending, CreatedAt: now.Add(-2 * time.Hour)},
		{UserID: "u-1", ProductID: p.ID, Quantity: 2, UnitPrice: p.Price, Status: models.OrderStatusPending, CreatedAt: now},
		{UserID: "u-2", ProductID: p.ID, Quantity: 3, UnitPrice: p.Price, Status: models.OrderStatusPending, CreatedAt: now.Add(-time.Hour)},
	}
	require.NoError(t, orders.CreateBatch(ctx, batch))

	mine, err := orders.ListByUser(ctx, "u-1")
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, 2, mine[0].Quantity)
	assert.Equal(t, 1, mine[1].Quantity)

	all, err := orders.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []int{2, 3, 1}, []int{all[0].Quantity, all[1].Quantity, all[2].Quantity})

	changed, err := orders.TransitionStatus(ctx, batch[0].ID, models.OrderStatusPending, models.OrderStatusShipped)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = orders.TransitionStatus(ctx, batch[0].ID, models.OrderStatusPending, models.OrderStatusShipped)
	require.NoError(t, err)
	assert.False(t, changed)

	got, err := orders.GetByID(ctx, batch[0].ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusShipped, got.Status)
}

func TestGormTransactionScope_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	scope := repositories.NewGormTransactionScope(db)
	p := seedProduct(t, db, "Laptop", "1200.00")

	boom := errors.New("boom")
	err := scope.ExecuteForUser(ctx, "u-1", func(repos repositories.TxRepositories) error {
		if err := repos.Carts().Create(ctx, &models.CartItem{UserID: "u-1", ProductID: p.ID, Quantity: 1}); err != nil {
			return err
		}
		if err := repos.Orders().CreateBatch(ctx, []models.Order{{UserID: "u-1", ProductID: p.ID, Quantity: 1, Status: models.OrderStatusPending}}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	items, err := repositories.NewGORMCartRepository(db).ListByUser(ctx, "u-1")
	require.NoError(t, err)
	assert.Empty(t, items)
	orders, err := repositories.NewGORMOrderRepository(db).ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestKeyedMutex(t *testing.T) {
	km := repositories.NewKeyedMutex()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		inside  int
		maxSeen int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := km.Lock("u-1")
			mu.Lock()
			inside++
			if inside > maxSeen {
				maxSeen = inside
			}
			mu.Unlock()
			time.Sleep(time.Millisecond)
			mu.Lock()
			inside--
			mu.Unlock()
			unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxSeen)

	// different keys do not block each other
	unlockA := km.Lock("a")
	unlockB := km.Lock("b")
	unlockA()
	unlockB()
}
