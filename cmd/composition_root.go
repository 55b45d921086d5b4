package cmd

import (
	"log/slog"
	"os"
	"time"

	"gorm.io/gorm"

	httpin "cafe/internal/adapters/in/http"
	"cafe/internal/adapters/out/memory/snapshotstore"
	"cafe/internal/adapters/out/notify"
	"cafe/internal/adapters/out/postgres"
	"cafe/internal/adapters/out/postgres/menurepo"
	"cafe/internal/core/application/usecases/commands"
	"cafe/internal/core/application/usecases/queries"
	"cafe/internal/core/domain/services"
	"cafe/internal/core/ports"
	"cafe/internal/jobs"
)

// CompositionRoot wires every adapter and domain service once at startup.
type CompositionRoot struct {
	config Config
	gormDB *gorm.DB
	logger *slog.Logger
	clock  ports.Clock

	uowFactory *postgres.GormUnitOfWorkFactory
	snapshots  *snapshotstore.Store
	notifier   *notify.FanOut
	lifecycle  *services.Lifecycle
	router     *services.Router
	registry   *commands.CommandLogRegistry
}

// NewCompositionRoot builds the shared object graph.
func NewCompositionRoot(config Config, gormDB *gorm.DB, logger *slog.Logger) (*CompositionRoot, error) {
	clock := ports.ClockFunc(time.Now)
	snapshots := snapshotstore.NewStore(config.SnapshotHistoryLimit)

	notifier := notify.NewFanOut(logger)
	notifier.SubscribeKitchen("kitchen-display", notify.NewConsoleSink(os.Stdout))

	lifecycle, err := services.NewLifecycle(snapshots, notifier, clock, logger)
	if err != nil {
		return nil, err
	}
	router, err := services.NewRouter(lifecycle, clock, logger)
	if err != nil {
		return nil, err
	}

	uowFactory := postgres.NewGormUnitOfWorkFactory(gormDB)
	commandFactory := FuncUoWFactory(func() commands.UoW {
		return uowFactory.Create()
	})
	registry, err := commands.NewCommandLogRegistry(commandFactory, config.CommandHistoryLimit, logger)
	if err != nil {
		return nil, err
	}

	return &CompositionRoot{
		config:     config,
		gormDB:     gormDB,
		logger:     logger,
		clock:      clock,
		uowFactory: uowFactory,
		snapshots:  snapshots,
		notifier:   notifier,
		lifecycle:  lifecycle,
		router:     router,
		registry:   registry,
	}, nil
}

// Notifier exposes the fan-out so callers can register further subscribers.
func (c *CompositionRoot) Notifier() *notify.FanOut {
	return c.notifier
}

func (c *CompositionRoot) commandDeps() commands.Deps {
	return commands.Deps{
		Catalog:   menurepo.NewGormMenuCatalog(c.gormDB),
		Lifecycle: c.lifecycle,
		Clock:     c.clock,
	}
}

// CreateHTTPServer builds the inbound HTTP adapter over the shared graph.
func (c *CompositionRoot) CreateHTTPServer() *httpin.Server {
	commandFactory := FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})

	return httpin.NewServer(
		c.registry,
		c.commandDeps(),
		commandFactory,
		c.router,
		c.snapshots,
		queries.NewGetPendingOrdersQueryHandler(c.gormDB),
		queries.NewGetStationStatusQueryHandler(c.gormDB, c.clock),
		queries.NewGetOrderHistoryQueryHandler(c.gormDB),
	)
}

// CreateJobManager builds the background-job graph.
func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	retention := time.Duration(c.config.SnapshotRetentionDays) * 24 * time.Hour
	return jobs.NewJobManager(c.snapshots, c.clock, retention, c.logger)
}

// FuncUoWFactory adapts a closure to commands.UoWFactory.
type FuncUoWFactory func() commands.UoW

// Create invokes the wrapped closure.
func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
