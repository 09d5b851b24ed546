package commands

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/strrl/tiking/internal/config"
	"github.com/strrl/tiking/internal/db"
	"github.com/strrl/tiking/internal/history"
	"github.com/strrl/tiking/internal/kv"
	"github.com/strrl/tiking/internal/logging"
	"github.com/strrl/tiking/internal/settings"
)

// globalFlags are the persistent flags shared by every command
type globalFlags struct {
	dataDir      string
	settingsPath string
	logLevel     string
	ephemeral    bool
}

var flags globalFlags

// app holds the stores and services a command works with
type app struct {
	settings settings.Settings
	logger   *slog.Logger
	logFile  *os.File

	// database is nil when running with --ephemeral
	database *db.KV
	store    kv.Store
	config   *config.Config
	history  *history.Log
}

// openApp loads settings, opens the log file and the key/value store.
// Flags given on the command line override the settings file.
func openApp(cmd *cobra.Command) (*app, error) {
	s, err := settings.Load(flags.settingsPath)
	if err != nil {
		// A broken settings file must not keep the timer from starting.
		fmt.Fprintf(os.Stderr, "Warning: %v, using defaults\n", err)
		s = settings.Default()
	}
	if cmd.Flags().Changed("data-dir") {
		s.DataDir = flags.dataDir
	}
	if cmd.Flags().Changed("log-level") {
		s.LogLevel = flags.logLevel
	}
	if s.DataDir == "" {
		return nil, fmt.Errorf("no data directory: set --data-dir or data_dir in %s", flags.settingsPath)
	}

	a := &app{settings: s}

	level, levelErr := logging.ParseLevel(s.LogLevel)
	logFile, err := logging.OpenFile(s.DataDir)
	if err != nil {
		return nil, err
	}
	a.logFile = logFile
	a.logger = logging.New(level, logFile).With("command", cmd.Name())
	if levelErr != nil {
		a.logger.Warn("falling back to info level", "error", levelErr)
	}

	var backend kv.Store
	if flags.ephemeral {
		backend = kv.NewMemory()
		a.logger.Info("using in-memory store")
	} else {
		path := filepath.Join(s.DataDir, db.FileName)
		database, err := db.OpenKV(path)
		if err != nil {
			a.logFile.Close()
			return nil, fmt.Errorf("failed to open store: %w", err)
		}
		a.database = database
		backend = database
		a.logger.Info("opened store", "path", path)
	}

	a.store = kv.NewAsyncWriter(backend, kv.WithLogger(a.logger))
	a.config = config.New(a.store, a.logger)
	a.history = history.Load(a.store, history.WithLogger(a.logger))
	return a, nil
}

// Close flushes pending writes and releases the store and log file
func (a *app) Close() error {
	err := a.store.Close()
	if err != nil {
		a.logger.Error("failed to flush store", "error", err)
	}
	a.logFile.Close()
	return err
}
