package bootstrap

import (
	"context"
	"sync"

	"botbi/internal/adapters/ai"
	"botbi/internal/adapters/config"
	"botbi/internal/adapters/feeds"
	pgclient "botbi/internal/adapters/postgres"
	redisclient "botbi/internal/adapters/redis"
	"botbi/internal/api"
	"botbi/internal/api/health"
	"botbi/internal/domain/market"
	"botbi/internal/domain/news"
	"botbi/internal/services/curation"
	"botbi/internal/services/enrichment"
	marketdatasvc "botbi/internal/services/market_data"
	"botbi/internal/workers"
	"botbi/internal/workers/newsletter"
	"botbi/pkg/errors"
	"botbi/pkg/logger"
)

// Container holds all application dependencies and their lifecycle.
// Components are organized in initialization order.
type Container struct {
	// Core configuration & logging
	Config       *config.Config
	Log          *logger.Logger
	ErrorTracker errors.Tracker

	// Infrastructure (data stores). Redis is nil when not configured.
	PG    *pgclient.Client
	Redis *redisclient.Client

	Repos       *Repositories
	Adapters    *Adapters
	Services    *Services
	Application *Application
	Background  *Background

	Lifecycle *Lifecycle
	WG        *sync.WaitGroup
	Context   context.Context
	Cancel    context.CancelFunc
}

// Repositories groups persistence ports
type Repositories struct {
	News          news.Repository
	EquitiesCache market.CacheStore
}

// Adapters groups external service clients
type Adapters struct {
	Reasoner ai.Reasoner
	Feeds    feeds.Source
	Crypto   market.CryptoFetcher
	Equities market.EquityFetcher
	Sender   newsletter.Sender
}

// Services groups the domain pipelines
type Services struct {
	Enrichment *enrichment.Pipeline
	Curation   *curation.Pipeline
	MarketData *marketdatasvc.Service
}

// Application groups request-serving components
type Application struct {
	HealthHandler *health.Handler
	HTTPServer    *api.Server
}

// Background groups scheduled components
type Background struct {
	WorkerScheduler *workers.Scheduler
}

// NewContainer creates a new dependency container
func NewContainer() *Container {
	ctx, cancel := context.WithCancel(context.Background())

	return &Container{
		Repos:       &Repositories{},
		Adapters:    &Adapters{},
		Services:    &Services{},
		Application: &Application{},
		Background:  &Background{},
		Lifecycle:   NewLifecycle(),
		WG:          &sync.WaitGroup{},
		Context:     ctx,
		Cancel:      cancel,
	}
}

// MustInit initializes all components in order. Panics on any error (fail-fast at startup).
func (c *Container) MustInit() {
	c.MustInitConfig()
	c.MustInitInfrastructure()
	c.MustInitRepositories()
	c.MustInitAdapters()
	c.MustInitServices()
	c.MustInitApplication()
	c.MustInitBackground()
}

// Start runs the HTTP server and the worker scheduler
func (c *Container) Start() error {
	c.Log.Info("Starting all systems...")

	c.WG.Add(1)
	go func() {
		defer c.WG.Done()
		if err := c.Application.HTTPServer.Start(); err != nil {
			c.Log.Errorf("HTTP server failed: %v", err)
			c.Cancel()
		}
	}()

	if err := c.Background.WorkerScheduler.Start(c.Context); err != nil {
		return errors.Wrap(err, "failed to start workers")
	}

	c.Log.Info("All systems operational")
	return nil
}

// Shutdown performs graceful shutdown in the correct order
func (c *Container) Shutdown() {
	c.Log.Info("Initiating graceful shutdown...")
	c.Cancel()

	c.Lifecycle.Shutdown(
		c.WG,
		c.Application.HTTPServer,
		c.Background.WorkerScheduler,
		c.PG,
		c.Redis,
		c.ErrorTracker,
		c.Log,
	)
}
