package services

import (
	"context"
	"fmt"
	"time"

	"trego/internal/apperr"
	"trego/internal/models"
	"trego/internal/repositories"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const defaultSettleTimeout = 5 * time.Second

// OrderService handles checkout and the order lifecycle.
type OrderService struct {
	orders        repositories.OrderRepository
	scope         repositories.TransactionScope
	settlement    SettlementProvider
	events        EventPublisher
	settleTimeout time.Duration
	log           *zap.Logger
}

// NewOrderService creates a new OrderService. A nil publisher disables events.
func NewOrderService(
	orders repositories.OrderRepository,
	scope repositories.TransactionScope,
	settlement SettlementProvider,
	events EventPublisher,
	settleTimeout time.Duration,
	log *zap.Logger,
) *OrderService {
	if events == nil {
		events = NoopPublisher{}
	}
	if settleTimeout <= 0 {
		settleTimeout = defaultSettleTimeout
	}
	return &OrderService{
		orders:        orders,
		scope:         scope,
		settlement:    settlement,
		events:        events,
		settleTimeout: settleTimeout,
		log:           log.Named("orders"),
	}
}

// CheckoutResult lists the orders created from one cart.
type CheckoutResult struct {
	Orders []models.Order  `json:"orders"`
	Total  decimal.Decimal `json:"total"`
}

// Checkout turns every line of the caller's cart into one pending order and
// empties the cart, all in one transaction. Prices are copied from the catalog
// at this moment.
func (s *OrderService) Checkout(ctx context.Context, caller models.Principal) (*CheckoutResult, error) {
	var created []models.Order

	err := s.scope.ExecuteForUser(ctx, caller.UserID, func(repos repositories.TxRepositories) error {
		items, err := repos.Carts().ListByUser(ctx, caller.UserID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return apperr.InvalidState("cart is empty")
		}

		orders := make([]models.Order, 0, len(items))
		ids := make([]string, 0, len(items))
		for _, item := range items {
			if item.Product == nil || item.Product.DeletedAt.Valid {
				return apperr.NotFound("product with ID %s no longer exists", item.ProductID)
			}
			orders = append(orders, models.Order{
				UserID:    caller.UserID,
				ProductID: item.ProductID,
				Product:   item.Product,
				Quantity:  item.Quantity,
				UnitPrice: item.Product.Price,
				Status:    models.OrderStatusPending,
			})
			ids = append(ids, item.ID)
		}

		if err := repos.Orders().CreateBatch(ctx, orders); err != nil {
			return err
		}

		removed, err := repos.Carts().DeleteByIDs(ctx, caller.UserID, ids)
		if err != nil {
			return err
		}
		if removed != int64(len(ids)) {
			return fmt.Errorf("checkout removed %d of %d cart lines", removed, len(ids))
		}

		created = orders
		return nil
	})
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, o := range created {
		total = total.Add(o.Total())
	}

	s.log.Info("checkout completed",
		zap.String("user_id", caller.UserID),
		zap.Int("orders", len(created)),
		zap.String("total", total.StringFixed(2)),
	)
	publishOrderEvents(s.events, s.log, EventOrderPlaced, created...)

	return &CheckoutResult{Orders: created, Total: total}, nil
}

// ListOrders returns every order for callers allowed to view all orders and
// the caller's own orders otherwise, newest first.
func (s *OrderService) ListOrders(ctx context.Context, caller models.Principal) ([]models.Order, error) {
	if caller.Can(models.CapViewAllOrders) {
		return s.orders.ListAll(ctx)
	}
	return s.orders.ListByUser(ctx, caller.UserID)
}

// GetOrder returns one order visible to the caller.
func (s *OrderService) GetOrder(ctx context.Context, caller models.Principal, id string) (*models.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.Owns(order.UserID) && !caller.Can(models.CapViewAllOrders) {
		return nil, apperr.Forbidden("order %s does not belong to you", id)
	}
	return order, nil
}

// ProcessPayment settles a pending order and ships it. The settlement call
// holds no lock; the conditional status update is the commit point, so a
// declined or timed-out settlement leaves the order pending.
func (s *OrderService) ProcessPayment(ctx context.Context, caller models.Principal, id string) (*models.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.Owns(order.UserID) && !caller.Can(models.CapSettleAnyOrder) {
		return nil, apperr.Forbidden("order %s does not belong to you", id)
	}
	if order.Status.IsTerminal() {
		return nil, apperr.InvalidState("order %s is %s, only pending orders can be paid", id, order.Status)
	}

	settleCtx, cancel := context.WithTimeout(ctx, s.settleTimeout)
	result, err := s.settlement.Settle(settleCtx, SettlementRequest{
		OrderID: order.ID,
		UserID:  order.UserID,
		Amount:  order.Total(),
	})
	cancel()
	if err != nil {
		s.log.Warn("settlement failed", zap.String("order_id", id), zap.Error(err))
		return nil, apperr.Wrap(apperr.KindPaymentDeclined, err, "payment for order %s was declined", id)
	}
	if !result.Approved {
		s.log.Info("payment declined", zap.String("order_id", id), zap.String("reason", result.Reason))
		return nil, apperr.PaymentDeclined("payment for order %s was declined: %s", id, result.Reason)
	}

	changed, err := s.orders.TransitionStatus(ctx, id, models.OrderStatusPending, models.OrderStatusShipped)
	if err != nil {
		return nil, err
	}
	if !changed {
		s.log.Warn("order changed during settlement",
			zap.String("order_id", id),
			zap.String("settlement_ref", result.Reference),
		)
		return nil, apperr.InvalidState("order %s is no longer pending", id)
	}

	updated, err := s.orders.GetByID(ctx, id)
	if err != nil {
		s.log.Error("order could not be re-read after payment", zap.String("order_id", id), zap.Error(err))
		return nil, apperr.Wrap(apperr.KindPersistenceInconsistency, err, "order %s could not be re-read after being marked shipped", id)
	}
	if updated.Status != models.OrderStatusShipped {
		s.log.Error("order status mismatch after payment",
			zap.String("order_id", id),
			zap.String("expected", string(models.OrderStatusShipped)),
			zap.String("actual", string(updated.Status)),
		)
		return nil, apperr.PersistenceInconsistency("order %s is %s after being marked shipped", id, updated.Status)
	}

	s.log.Info("order shipped", zap.String("order_id", id), zap.String("settlement_ref", result.Reference))
	publishOrderEvents(s.events, s.log, EventOrderShipped, *updated)
	return updated, nil
}

// CancelOrder moves a pending order to the terminal cancelled state.
func (s *OrderService) CancelOrder(ctx context.Context, caller models.Principal, id string) (*models.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.Owns(order.UserID) && !caller.Can(models.CapSettleAnyOrder) {
		return nil, apperr.Forbidden("order %s does not belong to you", id)
	}
	if order.Status.IsTerminal() {
		return nil, apperr.InvalidState("order %s is %s, only pending orders can be cancelled", id, order.Status)
	}

	changed, err := s.orders.TransitionStatus(ctx, id, models.OrderStatusPending, models.OrderStatusCancelled)
	if err != nil {
		return nil, err
	}
	if !changed {
		return nil, apperr.InvalidState("order %s is no longer pending", id)
	}

	updated, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to re-read order %s after cancel: %w", id, err)
	}
	s.log.Info("order cancelled", zap.String("order_id", id), zap.String("by", caller.UserID))
	publishOrderEvents(s.events, s.log, EventOrderCancelled, *updated)
	return updated, nil
}
