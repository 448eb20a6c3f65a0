package repositories

import (
	"context"
	"fmt"
	"sync"

	"gorm.io/gorm"
)

// TxRepositories exposes repositories bound to one open transaction.
type TxRepositories interface {
	Carts() CartRepository
	Orders() OrderRepository
}

// TransactionScope runs work atomically and isolated per user.
type TransactionScope interface {
	// ExecuteForUser runs fn in one transaction while holding the lock for userID.
	// fn returning an error rolls everything back.
	ExecuteForUser(ctx context.Context, userID string, fn func(repos TxRepositories) error) error
}

// GormTransactionScope implements TransactionScope using GORM transactions.
// Work for the same user is serialized in-process by a KeyedMutex and, on
// Postgres, across processes by a transaction-scoped advisory lock.
type GormTransactionScope struct {
	db    *gorm.DB
	locks *KeyedMutex
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db, locks: NewKeyedMutex()}
}

func (s *GormTransactionScope) ExecuteForUser(ctx context.Context, userID string, fn func(repos TxRepositories) error) error {
	unlock := s.locks.Lock(userID)
	defer unlock()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if tx.Dialector.Name() == "postgres" {
			if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", userID).Error; err != nil {
				return fmt.Errorf("failed to acquire cart lock for user %s: %w", userID, err)
			}
		}
		return fn(&gormTxRepositories{tx: tx})
	})
}

type gormTxRepositories struct {
	tx *gorm.DB
}

func (r *gormTxRepositories) Carts() CartRepository {
	return NewGORMCartRepository(r.tx)
}

func (r *gormTxRepositories) Orders() OrderRepository {
	return NewGORMOrderRepository(r.tx)
}

var (
	_ TransactionScope = (*GormTransactionScope)(nil)
	_ TxRepositories   = (*gormTxRepositories)(nil)
)

// MockTransactionScope runs work against in-memory repositories. Transactions
// are serialized globally and a failing fn restores both repositories to the
// state they had when it started.
type MockTransactionScope struct {
	carts  *MockCartRepository
	orders *MockOrderRepository
	mu     sync.Mutex
}

// NewMockTransactionScope creates a scope over the given in-memory repositories.
func NewMockTransactionScope(carts *MockCartRepository, orders *MockOrderRepository) *MockTransactionScope {
	return &MockTransactionScope{carts: carts, orders: orders}
}

func (s *MockTransactionScope) ExecuteForUser(_ context.Context, _ string, fn func(repos TxRepositories) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	carts, orders := s.carts.snapshot(), s.orders.snapshot()
	if err := fn(s); err != nil {
		s.carts.restore(carts)
		s.orders.restore(orders)
		return err
	}
	return nil
}

func (s *MockTransactionScope) Carts() CartRepository   { return s.carts }
func (s *MockTransactionScope) Orders() OrderRepository { return s.orders }

var (
	_ TransactionScope = (*MockTransactionScope)(nil)
	_ TxRepositories   = (*MockTransactionScope)(nil)
)
