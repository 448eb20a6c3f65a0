package services

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SettlementRequest asks the provider to collect the amount for an order.
type SettlementRequest struct {
	OrderID string
	UserID  string
	Amount  decimal.Decimal
}

// SettlementResult is the provider's answer. A declined result is not an error.
type SettlementResult struct {
	Approved  bool
	Reference string
	Reason    string
}

// SettlementProvider confirms payments with an external party. Settle makes a
// single attempt and must return promptly once ctx is done.
type SettlementProvider interface {
	Settle(ctx context.Context, req SettlementRequest) (SettlementResult, error)
}

// SettlementFunc adapts a function to SettlementProvider.
type SettlementFunc func(ctx context.Context, req SettlementRequest) (SettlementResult, error)

func (f SettlementFunc) Settle(ctx context.Context, req SettlementRequest) (SettlementResult, error) {
	return f(ctx, req)
}

// SimulatedSettlement stands in for a payment gateway: it waits for a fixed
// latency and then declines a configurable share of payments.
type SimulatedSettlement struct {
	latency     time.Duration
	declineRate float64

	mu  sync.Mutex
	rng *rand.Rand
}

// NewSimulatedSettlement creates a simulated provider. A nil rng seeds one from the clock.
func NewSimulatedSettlement(latency time.Duration, declineRate float64, rng *rand.Rand) *SimulatedSettlement {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &SimulatedSettlement{latency: latency, declineRate: declineRate, rng: rng}
}

func (s *SimulatedSettlement) Settle(ctx context.Context, req SettlementRequest) (SettlementResult, error) {
	if s.latency > 0 {
		timer := time.NewTimer(s.latency)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return SettlementResult{}, ctx.Err()
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return SettlementResult{}, err
	}

	s.mu.Lock()
	roll := s.rng.Float64()
	s.mu.Unlock()

	if roll < s.declineRate {
		return SettlementResult{Approved: false, Reason: "card declined by issuer"}, nil
	}
	return SettlementResult{Approved: true, Reference: uuid.NewString()}, nil
}
