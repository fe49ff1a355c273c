// Package app assembles stores, services and HTTP surfaces from configuration.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/rpggio/workflow/internal/config"
	"github.com/rpggio/workflow/internal/domain/dashboard"
	"github.com/rpggio/workflow/internal/domain/progress"
	"github.com/rpggio/workflow/internal/domain/project"
	"github.com/rpggio/workflow/internal/domain/task"
	"github.com/rpggio/workflow/internal/graphql"
	"github.com/rpggio/workflow/internal/mcp"
	"github.com/rpggio/workflow/internal/metrics"
	"github.com/rpggio/workflow/internal/mongodb"
	"github.com/rpggio/workflow/internal/sqlite"
	"github.com/rpggio/workflow/internal/transport"
)

// ProjectStore is everything the services need from a project store.
type ProjectStore interface {
	project.Repository
	task.ProjectLookup
	progress.ProgressWriter
	dashboard.ProjectCounter
}

// TaskStore is everything the services need from a task store.
type TaskStore interface {
	task.Repository
	project.TaskRepository
	progress.TaskCounter
	dashboard.TaskCounter
}

// Stores is an opened backend.
type Stores struct {
	Projects ProjectStore
	Tasks    TaskStore
	Close    func() error
}

// NewSQLiteStores wraps an already migrated SQLite database.
func NewSQLiteStores(db *sqlite.DB) *Stores {
	return &Stores{
		Projects: sqlite.NewProjectRepository(db),
		Tasks:    sqlite.NewTaskRepository(db),
		Close:    db.Close,
	}
}

// OpenStores connects to the configured backend and prepares its schema.
func OpenStores(ctx context.Context, cfg config.StoreConfig, logger *slog.Logger) (*Stores, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	switch cfg.Driver {
	case config.DriverSQLite:
		db, err := sqlite.New(cfg.SQLite.Path)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite: %w", err)
		}
		if err := db.RunMigrations(); err != nil {
			_ = db.Close()
			return nil, err
		}
		logger.Info("store ready", "driver", cfg.Driver, "path", cfg.SQLite.Path)
		return NewSQLiteStores(db), nil

	case config.DriverMongo:
		db, err := mongodb.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
		if err != nil {
			return nil, err
		}
		if err := db.EnsureIndexes(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
		logger.Info("store ready", "driver", cfg.Driver, "database", cfg.Mongo.Database)
		return &Stores{
			Projects: mongodb.NewProjectRepository(db),
			Tasks:    mongodb.NewTaskRepository(db),
			Close:    db.Close,
		}, nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
}

// Services holds the domain services shared by every surface.
type Services struct {
	Progress  *progress.Engine
	Projects  *project.Service
	Tasks     *task.Service
	Dashboard *dashboard.Service
}

// NewServices wires the domain services over stores.
func NewServices(stores *Stores, logger *slog.Logger) *Services {
	engine := progress.NewEngine(stores.Tasks, stores.Projects, logger)
	return &Services{
		Progress:  engine,
		Projects:  project.NewService(stores.Projects, stores.Tasks, engine, logger),
		Tasks:     task.NewService(stores.Tasks, stores.Projects, engine, logger),
		Dashboard: dashboard.NewService(stores.Projects, stores.Tasks, logger),
	}
}

// HandlerOptions selects optional surfaces.
type HandlerOptions struct {
	Metrics bool
	Version string
}

// NewHandler builds the HTTP router: REST, GraphQL, MCP and optionally
// Prometheus metrics.
func NewHandler(svcs *Services, opts HandlerOptions, logger *slog.Logger) (*chi.Mux, error) {
	gql, err := graphql.NewHandler(svcs.Projects, svcs.Tasks, svcs.Dashboard, logger)
	if err != nil {
		return nil, err
	}

	mcpServer := mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Projects:  svcs.Projects,
			Tasks:     svcs.Tasks,
			Dashboard: svcs.Dashboard,
		},
		Version: opts.Version,
		Logger:  logger,
	})
	mcpHandler := mcp.NewHTTPHandler(mcpServer)

	mounts := []transport.Mount{
		{Pattern: "/graphql", Handler: gql},
		{Pattern: "/mcp", Handler: mcpHandler},
		{Pattern: "/mcp/*", Handler: mcpHandler},
	}
	if opts.Metrics {
		mounts = append(mounts, transport.Mount{Pattern: "/metrics", Handler: metrics.Handler()})
	}

	return transport.NewServer(svcs.Projects, svcs.Tasks, logger, mounts...), nil
}
