package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/rpggio/workflow/internal/app"
	"github.com/rpggio/workflow/internal/config"
	"github.com/rpggio/workflow/internal/domain/project"
)

const maxLogSizeMB = 5

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runtime holds the loaded config and logger shared by subcommands.
type runtime struct {
	cfg    config.Config
	logger *slog.Logger
	close  func()
}

func newRuntime(stdout io.Writer) (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	rt := &runtime{cfg: cfg, close: func() {}}
	logWriter := stdout
	if logPath := os.Getenv("WORKFLOW_LOG_PATH"); logPath != "" {
		file := newLogFile(logPath)
		rt.close = func() { _ = file.Close() }
		logWriter = file
	}
	rt.logger = slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))
	return rt, nil
}

func (rt *runtime) openStores(ctx context.Context) (*app.Stores, error) {
	if rt.cfg.Store.Driver == config.DriverSQLite {
		if err := ensureDBDir(rt.cfg.Store.SQLite.Path); err != nil {
			return nil, fmt.Errorf("prepare database path: %w", err)
		}
	}
	return app.OpenStores(ctx, rt.cfg.Store, rt.logger)
}

func newRootCmd() *cobra.Command {
	serve := newServeCmd()
	root := &cobra.Command{
		Use:           "workflow",
		Short:         "Project and task tracking backend",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve.RunE,
	}
	root.AddCommand(serve, newMigrateCmd(), newRecalcCmd())
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the REST, GraphQL and MCP APIs (default)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := newRuntime(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer rt.close()

			stores, err := rt.openStores(cmd.Context())
			if err != nil {
				return err
			}
			defer stores.Close()

			handler, err := app.NewHandler(app.NewServices(stores, rt.logger), app.HandlerOptions{
				Metrics: rt.cfg.Metrics.Enabled,
				Version: version,
			}, rt.logger)
			if err != nil {
				return err
			}

			httpServer := &http.Server{
				Addr:         rt.cfg.Server.Addr(),
				Handler:      handler,
				ReadTimeout:  rt.cfg.Server.ReadTimeout,
				WriteTimeout: rt.cfg.Server.WriteTimeout,
			}

			errCh := make(chan error, 1)
			go func() {
				rt.logger.Info("server listening", "addr", httpServer.Addr, "store", rt.cfg.Store.Driver, "version", version)
				if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			return waitForShutdown(rt, httpServer, errCh)
		},
	}
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the store schema (SQLite tables or Mongo indexes) and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := newRuntime(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer rt.close()

			stores, err := rt.openStores(cmd.Context())
			if err != nil {
				return err
			}
			return stores.Close()
		},
	}
}

func newRecalcCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recalc [projectID...]",
		Short: "Recompute stored progress for the given projects, or all of them",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer rt.close()

			ctx := cmd.Context()
			stores, err := rt.openStores(ctx)
			if err != nil {
				return err
			}
			defer stores.Close()

			projects := app.NewServices(stores, rt.logger).Projects
			ids := args
			if len(ids) == 0 {
				all, err := projects.List(ctx, project.ListOptions{})
				if err != nil {
					return err
				}
				for _, p := range all {
					ids = append(ids, p.ID)
				}
			}

			var failed int
			for _, id := range ids {
				value, err := projects.RecalculateProgress(ctx, id)
				if err != nil {
					failed++
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", id, err)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d%%\n", id, value)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d projects failed", failed, len(ids))
			}
			return nil
		},
	}
}

func ensureDBDir(path string) error {
	if path == "" || path == ":memory:" || strings.HasPrefix(path, "file:") {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

// newLogFile returns a size-capped log file. Once it passes maxLogSizeMB it is
// rotated, keeping a single backup.
func newLogFile(path string) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxLogSizeMB,
		MaxBackups: 1,
	}
}

// waitForShutdown blocks until a signal arrives or the server fails, then
// drains in-flight requests.
func waitForShutdown(rt *runtime, server *http.Server, errCh <-chan error) error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-stop:
	}

	ctx, cancel := context.WithTimeout(context.Background(), rt.cfg.Server.ShutdownTimeout)
	defer cancel()

	rt.logger.Info("shutting down")
	if err := server.Shutdown(ctx); err != nil {
		rt.logger.Error("shutdown error", "error", err)
		return err
	}
	return nil
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
