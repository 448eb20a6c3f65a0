package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"trego/internal/apperr"
	"trego/internal/models"

	"github.com/google/uuid"
)

// MockOrderRepository is an in-memory implementation of OrderRepository.
type MockOrderRepository struct {
	orders    map[string]models.Order
	catalog   *MockProductRepository
	createErr error
	mu        sync.RWMutex
}

// NewMockOrderRepository creates a new instance of MockOrderRepository.
func NewMockOrderRepository(catalog *MockProductRepository) *MockOrderRepository {
	return &MockOrderRepository{
		orders:  make(map[string]models.Order),
		catalog: catalog,
	}
}

// FailCreateWith makes every following CreateBatch return err. A nil err clears it.
func (r *MockOrderRepository) FailCreateWith(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.createErr = err
}

func (r *MockOrderRepository) withProduct(order models.Order) models.Order {
	if r.catalog != nil {
		if p, ok := r.catalog.lookup(order.ProductID); ok {
			order.Product = p
		}
	}
	return order
}

func (r *MockOrderRepository) list(keep func(models.Order) bool) []models.Order {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orderList := make([]models.Order, 0, len(r.orders))
	for _, order := range r.orders {
		if keep(order) {
			orderList = append(orderList, r.withProduct(order))
		}
	}
	sort.Slice(orderList, func(i, j int) bool {
		if orderList[i].CreatedAt.Equal(orderList[j].CreatedAt) {
			return orderList[i].ID > orderList[j].ID
		}
		return orderList[i].CreatedAt.After(orderList[j].CreatedAt)
	})
	return orderList
}

// ListAll returns all orders, newest first.
func (r *MockOrderRepository) ListAll(_ context.Context) ([]models.Order, error) {
	return r.list(func(models.Order) bool { return true }), nil
}

// ListByUser returns the orders of one user, newest first.
func (r *MockOrderRepository) ListByUser(_ context.Context, userID string) ([]models.Order, error) {
	return r.list(func(o models.Order) bool { return o.UserID == userID }), nil
}

// GetByID returns an order by its ID.
func (r *MockOrderRepository) GetByID(_ context.Context, id string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, apperr.NotFound("order with ID %s not found", id)
	}
	order = r.withProduct(order)
	return &order, nil
}

// CreateBatch adds all orders or none.
func (r *MockOrderRepository) CreateBatch(_ context.Context, orders []models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.createErr != nil {
		return r.createErr
	}
	now := time.Now()
	for i := range orders {
		if orders[i].ID == "" {
			orders[i].ID = uuid.New().String()
		}
		if orders[i].CreatedAt.IsZero() {
			orders[i].CreatedAt = now
		}
		orders[i].UpdatedAt = now
		stored := orders[i]
		stored.Product = nil
		r.orders[stored.ID] = stored
	}
	return nil
}

// TransitionStatus updates the status of an order still in the expected status.
func (r *MockOrderRepository) TransitionStatus(_ context.Context, id string, from, to models.OrderStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok || order.Status != from {
		return false, nil
	}
	order.Status = to
	order.UpdatedAt = time.Now()
	r.orders[id] = order
	return true, nil
}

func (r *MockOrderRepository) snapshot() map[string]models.Order {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]models.Order, len(r.orders))
	for id, order := range r.orders {
		out[id] = order
	}
	return out
}

func (r *MockOrderRepository) restore(orders map[string]models.Order) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders = orders
}

var _ OrderRepository = (*MockOrderRepository)(nil)
