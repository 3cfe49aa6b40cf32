package main

// Runs a single iteration of one background worker and exits.
// Useful for seeding the news table or warming the equities cache by hand.
//
// Usage:
//   go run scripts/run_once.go --worker news_ingestion
//   go run scripts/run_once.go --worker market_snapshot --timeout 30s

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"botbi/internal/bootstrap"
)

func main() {
	name := flag.String("worker", "news_ingestion", "Worker to run (news_ingestion, newsletter, market_snapshot)")
	timeout := flag.Duration("timeout", 5*time.Minute, "Upper bound for the run")
	flag.Parse()

	c := bootstrap.NewContainer()
	c.MustInit()
	defer c.Shutdown()

	for _, w := range c.Background.WorkerScheduler.GetWorkers() {
		if w.Name() != *name {
			continue
		}

		ctx, cancel := context.WithTimeout(c.Context, *timeout)
		defer cancel()

		start := time.Now()
		if err := w.Run(ctx); err != nil {
			c.Log.Errorw("Run failed", "worker", *name, "error", err, "duration", time.Since(start))
			return
		}
		c.Log.Infow("Run complete", "worker", *name, "duration", time.Since(start))
		return
	}

	fmt.Fprintf(os.Stderr, "unknown worker %q\n", *name)
}
