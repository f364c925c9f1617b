package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/saltyorg/wbnkit/internal/config"
	"github.com/saltyorg/wbnkit/internal/database"
	"github.com/saltyorg/wbnkit/internal/logging"
	"github.com/saltyorg/wbnkit/internal/metrics"
	"github.com/saltyorg/wbnkit/internal/web"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// CLI flags
var (
	configPath   string
	databaseName string
	verbosity    int

	addr        string
	autoMigrate bool
	maintenance string

	readTimeout     time.Duration
	idleTimeout     time.Duration
	requestTimeout  time.Duration
	shutdownTimeout time.Duration
)

func main() {
	env, err := config.ParseServer()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := newRootCmd(env).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(env *config.Server) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "wbnkit",
		Short: "wbnkit - active record web scaffold",
		Long:  `wbnkit serves JSON CRUD endpoints for its entities on top of a SQL database.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(env)
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", env.ConfigPath, "Database configuration file (or set WBN_CONFIG)")
	rootCmd.PersistentFlags().StringVarP(&databaseName, "database", "d", env.Database, "Database configuration entry to use (or set WBN_DATABASE)")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v debug, -vv trace)")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE:  runServe,
	}
	serveCmd.Flags().StringVarP(&addr, "addr", "a", env.Address, "HTTP listen address (or set WBN_HTTP_ADDRESS)")
	serveCmd.Flags().BoolVar(&autoMigrate, "auto-migrate", env.AutoMigrate, "Apply pending migrations before serving (or set WBN_AUTO_MIGRATE)")
	serveCmd.Flags().StringVar(&maintenance, "maintenance", env.MaintenanceSchedule, "Cron schedule for database maintenance, empty to disable")

	defaults := config.DefaultTimeoutConfig()
	serveCmd.Flags().DurationVar(&readTimeout, "read-timeout", defaults.ReadTimeout, "Maximum time to read a request")
	serveCmd.Flags().DurationVar(&idleTimeout, "idle-timeout", defaults.IdleTimeout, "Keep-alive timeout between requests")
	serveCmd.Flags().DurationVar(&requestTimeout, "request-timeout", defaults.RequestTimeout, "Maximum time for a handler to answer")
	serveCmd.Flags().DurationVar(&shutdownTimeout, "shutdown-timeout", defaults.ShutdownTimeout, "Grace period for in-flight requests on shutdown")

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE:  runMigrate,
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("wbnkit %s (commit: %s, built: %s)\n", version, commit, date)
		},
	}

	rootCmd.AddCommand(serveCmd, migrateCmd, versionCmd)
	return rootCmd
}

func setupLogging(env *config.Server) {
	opts := logging.Options{
		FilePath:   env.Log.File,
		MaxSizeMB:  env.Log.MaxSizeMB,
		MaxBackups: env.Log.MaxBackups,
		MaxAgeDays: env.Log.MaxAgeDays,
		Compress:   env.Log.Compress,
	}
	if opts.FilePath == "" {
		opts.FilePath = logging.FilePathFor(configPath)
	}
	logging.Apply(logging.LevelForVerbosity(verbosity), opts)
}

// openDatabase loads the configuration and returns a provider together with
// the connection for the selected entry.
func openDatabase(ctx context.Context) (*database.Provider, *database.DB, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	provider := database.NewProvider(cfg)
	db, err := provider.Instance(ctx, databaseName)
	if err != nil {
		return nil, nil, err
	}
	return provider, db, nil
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	provider, db, err := openDatabase(ctx)
	if err != nil {
		return err
	}
	defer provider.Close()

	if err := db.Migrate(ctx); err != nil {
		return err
	}

	current, err := db.SchemaVersion(ctx)
	if err != nil {
		return err
	}
	log.Info().Int64("version", current).Str("database", db.Name()).Msg("Schema is up to date")
	return nil
}

// serveTimeouts collects the timeout flags of the serve command.
func serveTimeouts() *config.TimeoutConfig {
	return &config.TimeoutConfig{
		ReadTimeout:     readTimeout,
		IdleTimeout:     idleTimeout,
		RequestTimeout:  requestTimeout,
		ShutdownTimeout: shutdownTimeout,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Configure global timeouts before the router and server read them
	config.SetGlobalTimeouts(serveTimeouts())

	log.Info().
		Str("version", version).
		Str("addr", addr).
		Str("config", configPath).
		Str("database", databaseName).
		Dur("request_timeout", requestTimeout).
		Msg("Starting wbnkit")

	provider, db, err := openDatabase(ctx)
	if err != nil {
		return err
	}
	defer provider.Close()

	if autoMigrate {
		if err := db.Migrate(ctx); err != nil {
			return err
		}
	}

	if maintenance != "" {
		m := database.NewMaintenance(db)
		if err := m.Start(maintenance); err != nil {
			return err
		}
		defer m.Stop()
	}

	server, err := web.NewServer(db, addr, metrics.New())
	if err != nil {
		return err
	}

	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	log.Info().Msg("wbnkit stopped")
	return nil
}
