package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/fasterfoods/fasterfoods-go/internal/api"
	"github.com/fasterfoods/fasterfoods-go/internal/config"
	"github.com/fasterfoods/fasterfoods-go/internal/logging"
	"github.com/fasterfoods/fasterfoods-go/internal/outbox"
	"github.com/fasterfoods/fasterfoods-go/internal/reachability"
	"github.com/fasterfoods/fasterfoods-go/internal/snapshot"
	syncpkg "github.com/fasterfoods/fasterfoods-go/internal/sync"
)

var cfgFile string

func main() {
	rootCmd := &cobra.Command{
		Use:   "ffsync",
		Short: "FasterFoods offline sync client",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
	}

	setupFlags(rootCmd)

	rootCmd.AddCommand(
		newAddCommand(),
		newDeleteCommand(),
		&cobra.Command{
			Use:   "pull",
			Short: "Fetch server state and merge it into the local snapshot",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runPull(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "flush",
			Short: "Replay queued mutations against the server",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runFlush(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show cached state, queue depth, and connectivity",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runStatus(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Wipe the local snapshot and outbox (logout)",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runClear(cmd.Context())
			},
		},
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupFlags(cmd *cobra.Command) {
	config.ApplyDefaults(viper.GetViper())
	defaults := config.NewViper()
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to configuration file")
	cmd.PersistentFlags().String("api-base-url", defaults.GetString("api.base_url"), "FasterFoods API base URL")
	cmd.PersistentFlags().String("token", "", "API bearer token (overrides env)")
	cmd.PersistentFlags().String("data-dir", defaults.GetString("data.dir"), "Directory for snapshot and outbox documents")
	cmd.PersistentFlags().String("log-level", defaults.GetString("log.level"), "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().Duration("probe-interval", defaults.GetDuration("reachability.probe_interval"), "Reachability probe interval")

	bindFlag(cmd, "api.base_url", "api-base-url")
	bindFlag(cmd, "api.token", "token")
	bindFlag(cmd, "data.dir", "data-dir")
	bindFlag(cmd, "log.level", "log-level")
	bindFlag(cmd, "reachability.probe_interval", "probe-interval")
}

func bindFlag(cmd *cobra.Command, key, flag string) {
	if err := viper.BindPFlag(key, cmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(err)
	}
}

func initConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}

	if err := viper.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if cfgFile != "" && errors.As(err, &configNotFound) {
			return err
		}
	}

	return nil
}

type clientApp struct {
	coordinator *syncpkg.Coordinator
	monitor     *reachability.Monitor
	logger      *zap.Logger
}

func newClientApp(ctx context.Context) (*clientApp, error) {
	appConfig, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, err
	}

	logger, err := logging.NewLogger(appConfig.LogLevel)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(appConfig.DataDir, 0o700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	store, err := snapshot.NewStore(snapshot.StoreConfig{Directory: appConfig.DataDir, Logger: logger})
	if err != nil {
		return nil, err
	}
	log, err := outbox.Open(outbox.LogConfig{Directory: appConfig.DataDir, Logger: logger})
	if err != nil {
		return nil, err
	}

	client, err := api.NewClient(api.ClientConfig{
		BaseURL: appConfig.APIBaseURL,
		Token:   appConfig.APIToken,
	})
	if err != nil {
		return nil, err
	}

	monitor := reachability.NewMonitor(reachability.MonitorConfig{
		Probe:    client.Ping,
		Interval: appConfig.ProbeInterval,
		Logger:   logger,
	})

	coordinator, err := syncpkg.NewCoordinator(syncpkg.Config{
		Store:  store,
		Outbox: log,
		Remote: client,
		Signal: monitor,
		Logger: logger,
	})
	if err != nil {
		return nil, err
	}

	return &clientApp{coordinator: coordinator, monitor: monitor, logger: logger}, nil
}

func runPull(ctx context.Context) error {
	app, err := newClientApp(ctx)
	if err != nil {
		return err
	}
	defer app.logger.Sync() //nolint:errcheck

	snap, err := app.coordinator.LoadAll(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("merged server state cached at %s\n", snap.CachedAt.Format("2006-01-02 15:04:05 MST"))
	printCounts(snap)
	fmt.Printf("pending operations: %d\n", app.coordinator.PendingOperations())
	return nil
}

func runFlush(ctx context.Context) error {
	app, err := newClientApp(ctx)
	if err != nil {
		return err
	}
	defer app.logger.Sync() //nolint:errcheck

	before := app.coordinator.PendingOperations()
	if err := app.coordinator.FlushPendingOperations(ctx); err != nil {
		return err
	}
	after := app.coordinator.PendingOperations()
	fmt.Printf("replayed %d operation(s), %d remaining\n", before-after, after)
	return nil
}

func runStatus(ctx context.Context) error {
	app, err := newClientApp(ctx)
	if err != nil {
		return err
	}
	defer app.logger.Sync() //nolint:errcheck

	snap := app.coordinator.Snapshot()
	if snap.CachedAt.IsZero() {
		fmt.Println("no cached server state")
	} else {
		fmt.Printf("cached server state from %s\n", snap.CachedAt.Format("2006-01-02 15:04:05 MST"))
	}
	printCounts(snap)
	fmt.Printf("pending operations: %d\n", app.coordinator.PendingOperations())
	if app.monitor.Connected() {
		fmt.Println("service: reachable")
	} else {
		fmt.Println("service: unreachable")
	}
	if syncErr := app.coordinator.LastSyncError(); syncErr != nil {
		fmt.Printf("last sync error: %v\n", syncErr)
	}
	return nil
}

func runClear(ctx context.Context) error {
	app, err := newClientApp(ctx)
	if err != nil {
		return err
	}
	defer app.logger.Sync() //nolint:errcheck

	app.coordinator.ClearOfflineState()
	fmt.Println("offline state cleared")
	return nil
}

func printCounts(snap *snapshot.Snapshot) {
	fmt.Printf("  pantry items:   %d\n", len(snap.PantryItems))
	fmt.Printf("  shopping lists: %d\n", len(snap.ShoppingLists))
	fmt.Printf("  food logs:      %d\n", len(snap.FoodLogItems))
	fmt.Printf("  workouts:       %d\n", len(snap.WorkoutItems))
	fmt.Printf("  metrics:        %d\n", len(snap.CustomMetrics))
}
