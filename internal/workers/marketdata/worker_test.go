package marketdata

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"botbi/internal/domain/market"
	"botbi/internal/workers"
	"botbi/pkg/logger"
)

// MockProvider is a mock for SnapshotProvider
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) GetSnapshot(ctx context.Context) market.Snapshot {
	return m.Called(ctx).Get(0).(market.Snapshot)
}

func TestSnapshotWorker_Run(t *testing.T) {
	provider := new(MockProvider)
	provider.On("GetSnapshot", mock.Anything).Return(market.Snapshot{
		Equities:     []market.PriceQuote{market.NewQuote("AAPL", 224.5, 1.45)},
		Crypto:       []market.PriceQuote{market.NewQuote("BTC", 64230.5, 1.25)},
		RetrievedVia: market.SourceEmergencyFixed,
		CryptoVia:    market.CryptoSourceFixed,
	}).Once()

	w := NewSnapshotWorker(provider, 15*time.Minute, true, logger.NewNop())

	require.NoError(t, w.Run(context.Background()))
	provider.AssertExpectations(t)
	assert.Equal(t, "market_snapshot", w.Name())
	assert.Equal(t, 15*time.Minute, w.Interval())
}

func TestSnapshotWorker_UnderScheduler(t *testing.T) {
	provider := new(MockProvider)
	provider.On("GetSnapshot", mock.Anything).Return(market.Snapshot{})

	w := NewSnapshotWorker(provider, time.Hour, true, logger.NewNop())
	s := workers.NewScheduler(logger.NewNop())
	s.RegisterWorker(w)

	require.NoError(t, s.Start(context.Background()))
	require.Eventually(t, func() bool { return w.Health().RunCount == 1 }, time.Second, 10*time.Millisecond)
	require.NoError(t, s.Stop())

	assert.Zero(t, w.Health().ErrorCount)
}
