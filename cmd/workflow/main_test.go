package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rpggio/workflow/internal/app"
	"github.com/rpggio/workflow/internal/sqlite"
)

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestParseLogLevel(t *testing.T) {
	require.Equal(t, slog.LevelDebug, parseLogLevel("debug"))
	require.Equal(t, slog.LevelWarn, parseLogLevel("warn"))
	require.Equal(t, slog.LevelError, parseLogLevel("error"))
	require.Equal(t, slog.LevelInfo, parseLogLevel("verbose"))
}

func TestEnsureDBDir(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "data", "workflow.db")

	require.NoError(t, ensureDBDir(path))
	info, err := os.Stat(filepath.Dir(path))
	require.NoError(t, err)
	require.True(t, info.IsDir())

	require.NoError(t, ensureDBDir(":memory:"))
	require.NoError(t, ensureDBDir("file:x?mode=memory"))
}

func TestNewLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "workflow.log")
	file := newLogFile(path)
	defer file.Close()

	require.Equal(t, maxLogSizeMB, file.MaxSize)
	require.Equal(t, 1, file.MaxBackups)

	_, err := file.Write([]byte("server listening\n"))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "server listening\n", string(data))
}

func TestRecalcCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db", "workflow.db")
	t.Setenv("WORKFLOW_STORE_DRIVER", "sqlite")
	t.Setenv("WORKFLOW_DB_PATH", path)
	t.Setenv("WORKFLOW_LOG_LEVEL", "error")

	_, err := runCmd(t, "migrate")
	require.NoError(t, err)

	db, err := sqlite.New(path)
	require.NoError(t, err)
	services := app.NewServices(app.NewSQLiteStores(db), nil)
	created, err := services.Projects.Create(context.Background(), map[string]any{"title": "Launch", "progress": 40})
	require.NoError(t, err)
	require.NoError(t, db.Close())

	out, err := runCmd(t, "recalc")
	require.NoError(t, err)
	require.Contains(t, out, created.ID+"\t0%")

	out, err = runCmd(t, "recalc", "missing")
	require.Error(t, err)
	require.Contains(t, err.Error(), "1 of 1 projects failed")
	require.Contains(t, out, "missing: ")
}
