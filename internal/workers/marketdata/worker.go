package marketdata

import (
	"context"
	"time"

	"botbi/internal/domain/market"
	"botbi/internal/workers"
	"botbi/pkg/logger"
)

// SnapshotProvider builds a market snapshot. It never fails.
type SnapshotProvider interface {
	GetSnapshot(ctx context.Context) market.Snapshot
}

// SnapshotWorker refreshes the market snapshot on a schedule. This keeps the equities cache
// warm and the quote gauges current between client requests.
type SnapshotWorker struct {
	*workers.BaseWorker
	provider SnapshotProvider
}

// NewSnapshotWorker creates the snapshot worker
func NewSnapshotWorker(provider SnapshotProvider, interval time.Duration, enabled bool, log *logger.Logger) *SnapshotWorker {
	return &SnapshotWorker{
		BaseWorker: workers.NewBaseWorker("market_snapshot", interval, enabled, log),
		provider:   provider,
	}
}

// Run takes one snapshot
func (w *SnapshotWorker) Run(ctx context.Context) error {
	snap := w.provider.GetSnapshot(ctx)

	w.Log().Infow("Market snapshot refreshed",
		"equities", len(snap.Equities),
		"equities_via", snap.RetrievedVia,
		"crypto", len(snap.Crypto),
		"crypto_via", snap.CryptoVia,
	)
	return nil
}
