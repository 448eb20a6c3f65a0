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

// MockCartRepository is an in-memory implementation of CartRepository. Lines
// resolve their product through the given catalog, deleted products included.
type MockCartRepository struct {
	items   map[string]models.CartItem
	catalog *MockProductRepository
	mu      sync.RWMutex
}

// NewMockCartRepository creates a new instance of MockCartRepository.
func NewMockCartRepository(catalog *MockProductRepository) *MockCartRepository {
	return &MockCartRepository{
		items:   make(map[string]models.CartItem),
		catalog: catalog,
	}
}

func (r *MockCartRepository) withProduct(item models.CartItem) models.CartItem {
	if r.catalog != nil {
		if p, ok := r.catalog.lookup(item.ProductID); ok {
			item.Product = p
		}
	}
	return item
}

// ListByUser returns the cart lines of a user, oldest first.
func (r *MockCartRepository) ListByUser(_ context.Context, userID string) ([]models.CartItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]models.CartItem, 0)
	for _, item := range r.items {
		if item.UserID == userID {
			items = append(items, r.withProduct(item))
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].AddedAt.Equal(items[j].AddedAt) {
			return items[i].ID < items[j].ID
		}
		return items[i].AddedAt.Before(items[j].AddedAt)
	})
	return items, nil
}

// GetByID returns a cart line regardless of its owner.
func (r *MockCartRepository) GetByID(_ context.Context, id string) (*models.CartItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	if !ok {
		return nil, apperr.NotFound("cart item with ID %s not found", id)
	}
	item = r.withProduct(item)
	return &item, nil
}

func (r *MockCartRepository) FindByUserAndProduct(_ context.Context, userID, productID string) (*models.CartItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.items {
		if item.UserID == userID && item.ProductID == productID {
			return &item, nil
		}
	}
	return nil, apperr.NotFound("product %s is not in the cart", productID)
}

// Create adds a line. A second line for the same (user, product) is rejected
// the way the unique index rejects it.
func (r *MockCartRepository) Create(_ context.Context, item *models.CartItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.items {
		if existing.UserID == item.UserID && existing.ProductID == item.ProductID {
			return apperr.Conflict("product %s is already in the cart of user %s", item.ProductID, item.UserID)
		}
	}
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	now := time.Now()
	item.AddedAt = now
	item.UpdatedAt = now
	stored := *item
	stored.Product = nil
	r.items[item.ID] = stored
	return nil
}

func (r *MockCartRepository) IncrementQuantity(_ context.Context, id string, delta int) error {
	return r.update(id, func(item *models.CartItem) { item.Quantity += delta })
}

func (r *MockCartRepository) SetQuantity(_ context.Context, id string, quantity int) error {
	return r.update(id, func(item *models.CartItem) { item.Quantity = quantity })
}

func (r *MockCartRepository) update(id string, fn func(item *models.CartItem)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[id]
	if !ok {
		return apperr.NotFound("cart item with ID %s not found", id)
	}
	fn(&item)
	item.UpdatedAt = time.Now()
	r.items[id] = item
	return nil
}

func (r *MockCartRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return apperr.NotFound("cart item with ID %s not found", id)
	}
	delete(r.items, id)
	return nil
}

func (r *MockCartRepository) DeleteByIDs(_ context.Context, userID string, ids []string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var removed int64
	for _, id := range ids {
		if item, ok := r.items[id]; ok && item.UserID == userID {
			delete(r.items, id)
			removed++
		}
	}
	return removed, nil
}

func (r *MockCartRepository) snapshot() map[string]models.CartItem {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]models.CartItem, len(r.items))
	for id, item := range r.items {
		out[id] = item
	}
	return out
}

func (r *MockCartRepository) restore(items map[string]models.CartItem) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = items
}

var _ CartRepository = (*MockCartRepository)(nil)
