package services_test

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"trego/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulatedSettlement_Outcomes(t *testing.T) {
	ctx := context.Background()
	req := services.SettlementRequest{OrderID: "o-1", UserID: "alice", Amount: price("10.00")}

	approveAll := services.NewSimulatedSettlement(0, 0, rand.New(rand.NewSource(1)))
	for i := 0; i < 20; i++ {
		res, err := approveAll.Settle(ctx, req)
		require.NoError(t, err)
		assert.True(t, res.Approved)
		assert.NotEmpty(t, res.Reference)
	}

	declineAll := services.NewSimulatedSettlement(0, 1, rand.New(rand.NewSource(1)))
	res, err := declineAll.Settle(ctx, req)
	require.NoError(t, err)
	assert.False(t, res.Approved)
	assert.NotEmpty(t, res.Reason)
}

func TestSimulatedSettlement_DeclineRate(t *testing.T) {
	s := services.NewSimulatedSettlement(0, 0.5, rand.New(rand.NewSource(42)))
	declined := 0
	for i := 0; i < 1000; i++ {
		res, err := s.Settle(context.Background(), services.SettlementRequest{OrderID: "o"})
		require.NoError(t, err)
		if !res.Approved {
			declined++
		}
	}
	assert.InDelta(t, 500, declined, 100)
}

func TestSimulatedSettlement_HonoursContext(t *testing.T) {
	s := services.NewSimulatedSettlement(time.Minute, 0, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	start := time.Now()
	_, err := s.Settle(ctx, services.SettlementRequest{OrderID: "o-1"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)

	cancelled, cancelNow := context.WithCancel(context.Background())
	cancelNow()
	_, err = services.NewSimulatedSettlement(0, 0, nil).Settle(cancelled, services.SettlementRequest{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSimulatedSettlement_WaitsForLatency(t *testing.T) {
	s := services.NewSimulatedSettlement(30*time.Millisecond, 0, nil)
	start := time.Now()
	res, err := s.Settle(context.Background(), services.SettlementRequest{OrderID: "o-1"})
	require.NoError(t, err)
	assert.True(t, res.Approved)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}
