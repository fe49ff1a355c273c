// Package mcp exposes the project and task services as Model Context Protocol
// tools.
package mcp

import (
	"context"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rpggio/workflow/internal/domain/dashboard"
	"github.com/rpggio/workflow/internal/domain/project"
	"github.com/rpggio/workflow/internal/domain/task"
)

// ProjectService defines project operations needed by MCP.
type ProjectService interface {
	List(ctx context.Context, opts project.ListOptions) ([]project.Project, error)
	Create(ctx context.Context, payload any) (*project.Project, error)
	Stats(ctx context.Context, id string) (*project.Stats, error)
	RecalculateProgress(ctx context.Context, id string) (int, error)
}

// TaskService defines task operations needed by MCP.
type TaskService interface {
	Create(ctx context.Context, payload any) (*task.Task, error)
	UpdateStatus(ctx context.Context, id string, status string) (*task.Task, error)
	BulkUpdateStatus(ctx context.Context, ids []string, status string) ([]task.Task, error)
}

// DashboardService defines the dashboard query needed by MCP.
type DashboardService interface {
	Stats(ctx context.Context) (*dashboard.Stats, error)
}

// Services contains all domain services needed by MCP.
type Services struct {
	Projects  ProjectService
	Tasks     TaskService
	Dashboard DashboardService
}

// Config contains server configuration.
type Config struct {
	Services Services
	Version  string
	Logger   *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	version := cfg.Version
	if version == "" {
		version = "dev"
	}

	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "workflow",
		Version: version,
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       logger,
	})

	registerDocResources(server)

	server.AddReceivingMiddleware(sessionMiddleware(), toolMetricsMiddleware())
	server.AddReceivingMiddleware(trafficLoggingMiddleware(logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(logger, "outbound"))

	registerTools(server, cfg.Services, logger)

	return server
}
