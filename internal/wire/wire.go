// Package wire provides dependency injection for portplan. It builds the
// configuration, logger, ship store and services once per process.
package wire

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"

	cliadapter "github.com/example/portplan/internal/adapters/cli"
	"github.com/example/portplan/internal/adapters/filesystem"
	"github.com/example/portplan/internal/adapters/postgres"
	"github.com/example/portplan/internal/adapters/sqlite"
	"github.com/example/portplan/internal/app"
	"github.com/example/portplan/internal/config"
	"github.com/example/portplan/internal/core/tree"
	"github.com/example/portplan/internal/db"
	"github.com/example/portplan/internal/logging"
	"github.com/example/portplan/internal/ports/primary"
	"github.com/example/portplan/internal/ports/secondary"
)

var (
	configPath string

	cfg          *config.Config
	logger       zerolog.Logger
	store        secondary.ShipStore
	closers      []func()
	fleetService primary.FleetService
	initErr      error
	once         sync.Once
)

// SetConfigPath selects the config file. It must be called before any
// other function in this package.
func SetConfigPath(path string) {
	configPath = path
}

// initServices loads config and opens the store. This is called once via
// sync.Once.
func initServices() {
	cfg, initErr = config.Load(configPath)
	if initErr != nil {
		return
	}

	var out io.Writer = os.Stderr
	if cfg.Log.File != "" {
		w, f, err := logging.File(cfg.Log.File)
		if err != nil {
			initErr = err
			return
		}
		out = w
		closers = append(closers, func() { f.Close() })
	}
	logger, initErr = logging.New(cfg.Log, out)
	if initErr != nil {
		return
	}

	var closeStore func()
	store, closeStore, initErr = OpenStore(context.Background(), cfg)
	if initErr != nil {
		return
	}
	closers = append(closers, closeStore)

	logger.Debug().Str("driver", cfg.Store.Driver).Msg("ship store opened")
	fleetService = app.NewFleetService(store, model(), logger)
}

func model() app.ShipModel {
	return app.DefaultShipModel(cfg.Seed)
}

// OpenStore opens the ship store selected by cfg.Store.Driver. The returned
// function releases its resources.
func OpenStore(ctx context.Context, cfg *config.Config) (secondary.ShipStore, func(), error) {
	switch cfg.Store.Driver {
	case config.DriverDir:
		s, err := filesystem.NewShipStore(cfg.ShipsDir)
		if err != nil {
			return nil, nil, err
		}
		return s, func() {}, nil
	case config.DriverSQLite:
		database, err := db.Open(cfg.Store.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		return sqlite.NewShipStore(database), func() { database.Close() }, nil
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.Store.Postgres.DSN())
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open postgres store: %w", err)
		}
		s := postgres.NewShipStore(pool)
		if err := s.Migrate(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return s, pool.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}

// Config returns the loaded configuration.
func Config() (*config.Config, error) {
	once.Do(initServices)
	return cfg, initErr
}

// Logger returns the process logger.
func Logger() zerolog.Logger {
	once.Do(initServices)
	if initErr != nil {
		return zerolog.Nop()
	}
	return logger
}

// FleetService returns the singleton FleetService instance.
func FleetService() (primary.FleetService, error) {
	once.Do(initServices)
	return fleetService, initErr
}

// NewEditor creates an editing session over the shared store. The caller
// closes it.
func NewEditor(pickers tree.Options) (*app.EditorServiceImpl, error) {
	once.Do(initServices)
	if initErr != nil {
		return nil, initErr
	}
	return app.NewEditorService(store, model(), pickers, logger), nil
}

// FleetAdapter returns a new FleetAdapter writing to out.
func FleetAdapter(out io.Writer) (*cliadapter.FleetAdapter, error) {
	svc, err := FleetService()
	if err != nil {
		return nil, err
	}
	return cliadapter.NewFleetAdapter(svc, out), nil
}

// Close releases the store and log file.
func Close() {
	for i := len(closers) - 1; i >= 0; i-- {
		closers[i]()
	}
	closers = nil
}
