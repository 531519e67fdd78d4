// Package cli implements the moltherm command-line interface: quick-check
// screening, thermo recording, output syncing, and descriptor regression over
// reaction directories.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/moltherm/moltherm/internal/config"
	"github.com/moltherm/moltherm/internal/domain/reaction"
	"github.com/moltherm/moltherm/internal/infrastructure/database/postgres"
	"github.com/moltherm/moltherm/internal/infrastructure/database/postgres/repositories"
	"github.com/moltherm/moltherm/internal/infrastructure/monitoring/logging"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// RootOptions holds global CLI flags.
type RootOptions struct {
	ConfigPath string
	BaseDir    string
	LogLevel   string
}

// App carries initialized dependencies through the command tree.
type App struct {
	Config *config.Config
	Logger logging.Logger

	// conn is non-nil once a store connection has been opened.
	conn *postgres.Connection
}

type appContextKey struct{}

// NewRootCommand creates the root cobra command with all global flags and
// subcommands attached.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:     "moltherm",
		Short:   "MolTherm — reaction thermochemistry aggregation toolkit",
		Long:    "MolTherm post-processes quantum-chemistry workflows: it associates\ncalculation outputs with the molecules of each reaction directory,\naggregates them into reaction enthalpy, entropy, and the critical\ntemperature, and records the results to a report file or a database.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return persistentPreRun(cmd, opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "config file path (default: ./moltherm.yaml, then environment)")
	pf.StringVar(&opts.BaseDir, "base-dir", "", "override workflow.base_dir from configuration")
	pf.StringVar(&opts.LogLevel, "log-level", "", "override log level (debug, info, warn, error)")

	cmd.AddCommand(
		NewCheckCmd(),
		NewRecordCmd(),
		NewSyncCmd(),
		NewRegressCmd(),
	)
	return cmd
}

// persistentPreRun loads configuration, initializes logging, and stores the
// App on the command context.
func persistentPreRun(cmd *cobra.Command, opts *RootOptions) error {
	cfg, err := initConfig(opts)
	if err != nil {
		return err
	}
	if opts.BaseDir != "" {
		cfg.Workflow.BaseDir = opts.BaseDir
	}
	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}

	logger, err := logging.NewLogger(logging.LogConfig{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		OutputPaths: cfg.Log.OutputPaths,
	})
	if err != nil {
		return fmt.Errorf("logger initialization failed: %w", err)
	}

	app := &App{Config: cfg, Logger: logger}
	cmd.SetContext(context.WithValue(cmd.Context(), appContextKey{}, app))
	return nil
}

// initConfig loads configuration: an explicit --config path, then
// ./moltherm.yaml, then environment variables only.
func initConfig(opts *RootOptions) (*config.Config, error) {
	if opts.ConfigPath != "" {
		return config.Load(opts.ConfigPath)
	}
	if _, err := os.Stat("moltherm.yaml"); err == nil {
		return config.Load("moltherm.yaml")
	}
	return config.LoadFromEnv()
}

// appFromCommand extracts the App placed on the context by persistentPreRun.
func appFromCommand(cmd *cobra.Command) *App {
	app, _ := cmd.Context().Value(appContextKey{}).(*App)
	return app
}

// associator builds the file associator from the workflow configuration.
func (a *App) associator() *reaction.Associator {
	return reaction.NewAssociator(
		a.Config.Workflow.BaseDir,
		a.Config.Workflow.ReactantPrefix,
		a.Config.Workflow.ProductPrefix,
		a.Logger,
	)
}

// analyzer wires the Analyzer.  When withStore is true and a database is
// configured, it connects, applies pending migrations, and attaches the task
// and thermo repositories; otherwise the store stays nil and store-backed
// operations fail with a typed configuration error.
func (a *App) analyzer(ctx context.Context, withStore bool) (*reaction.Analyzer, error) {
	var (
		tasks reaction.TaskSource
		sink  reaction.ThermoSink
	)
	if withStore && a.Config.Database.Configured() {
		conn, err := a.connect(ctx)
		if err != nil {
			return nil, err
		}
		tasks = repositories.NewTaskRepository(conn.Pool(), a.Logger)
		sink = repositories.NewThermoRepository(conn.Pool(), a.Logger)
	}
	return reaction.NewAnalyzer(a.associator(), tasks, sink, a.Logger), nil
}

// connect opens the store connection once per invocation.
func (a *App) connect(ctx context.Context) (*postgres.Connection, error) {
	if a.conn != nil {
		return a.conn, nil
	}
	conn, err := postgres.NewConnection(ctx, a.Config.Database, a.Logger)
	if err != nil {
		return nil, err
	}
	if err := postgres.RunMigrations(postgres.BuildDSN(a.Config.Database), a.Config.Database.MigrationsPath); err != nil {
		conn.Close()
		return nil, err
	}
	a.conn = conn
	return conn, nil
}

// Close releases any resources opened during command execution.
func (a *App) Close() {
	if a.conn != nil {
		a.conn.Close()
	}
}

// Execute runs the root command.  It is the single entry point used by main.
func Execute() error {
	return NewRootCommand().ExecuteContext(context.Background())
}
