package bootstrap

import (
	"context"
	"sync"
	"time"

	pgclient "botbi/internal/adapters/postgres"
	redisclient "botbi/internal/adapters/redis"
	"botbi/internal/api"
	"botbi/internal/workers"
	"botbi/pkg/errors"
	"botbi/pkg/logger"
)

// Lifecycle manages graceful shutdown of components
type Lifecycle struct {
	shutdownTimeout time.Duration
}

// NewLifecycle creates a new lifecycle manager
func NewLifecycle() *Lifecycle {
	return &Lifecycle{
		shutdownTimeout: 90 * time.Second,
	}
}

// Shutdown stops components in dependency order: HTTP, workers, goroutines, error tracker,
// logs, and the databases last since workers may still be writing during their final run.
func (l *Lifecycle) Shutdown(
	wg *sync.WaitGroup,
	httpServer *api.Server,
	workerScheduler *workers.Scheduler,
	pgClient *pgclient.Client,
	redisClient *redisclient.Client,
	errorTracker errors.Tracker,
	log *logger.Logger,
) {
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), l.shutdownTimeout)
	defer shutdownCancel()

	log.Info("[1/6] Stopping HTTP server...")
	if httpServer != nil {
		httpCtx, httpCancel := context.WithTimeout(shutdownCtx, 5*time.Second)
		if err := httpServer.Shutdown(httpCtx); err != nil {
			log.Errorw("HTTP server shutdown failed", "error", err)
		}
		httpCancel()
	}

	log.Info("[2/6] Stopping background workers...")
	if workerScheduler != nil && workerScheduler.IsRunning() {
		if err := workerScheduler.Stop(); err != nil {
			log.Errorw("Workers shutdown failed", "error", err)
		} else {
			log.Info("Workers stopped")
		}
	}

	log.Info("[3/6] Waiting for goroutines...")
	l.waitForGoroutines(wg, 5*time.Second, log)

	log.Info("[4/6] Flushing error tracker...")
	l.flushErrorTracker(shutdownCtx, errorTracker, log)

	log.Info("[5/6] Syncing logs...")
	_ = logger.Sync()

	log.Info("[6/6] Closing database connections...")
	l.closeDatabases(pgClient, redisClient, log)

	log.Info("Graceful shutdown complete")
}

func (l *Lifecycle) waitForGoroutines(wg *sync.WaitGroup, timeout time.Duration, log *logger.Logger) {
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(timeout):
		log.Warnw("Some goroutines did not finish within timeout", "timeout", timeout)
	}
}

func (l *Lifecycle) flushErrorTracker(ctx context.Context, tracker errors.Tracker, log *logger.Logger) {
	if tracker == nil {
		return
	}

	flushCtx, flushCancel := context.WithTimeout(ctx, 3*time.Second)
	defer flushCancel()

	if err := tracker.Flush(flushCtx); err != nil {
		log.Warnw("Error tracker flush failed", "error", err)
	}
}

func (l *Lifecycle) closeDatabases(pgClient *pgclient.Client, redisClient *redisclient.Client, log *logger.Logger) {
	var errs errors.MultiError

	if pgClient != nil {
		if err := pgClient.Close(); err != nil {
			errs.Add(errors.Wrap(err, "postgres"))
		}
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			errs.Add(errors.Wrap(err, "redis"))
		}
	}

	if err := errs.ToError(); err != nil {
		log.Errorw("Database close failed", "error", err)
		return
	}
	log.Info("Database connections closed")
}
