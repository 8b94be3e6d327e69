package main

import (
	"context"
	"fmt"
	"net"
	"os"

	"github.com/de-tools/contriview/pkg/models/domain"
	"github.com/de-tools/contriview/pkg/server"
	"github.com/de-tools/contriview/pkg/services/config"
	"github.com/de-tools/contriview/pkg/services/contributions"
	"github.com/de-tools/contriview/pkg/services/fetcher"
	"github.com/de-tools/contriview/pkg/services/registry"
	"github.com/de-tools/contriview/pkg/services/report"
	"github.com/de-tools/contriview/pkg/services/tracker"
	"github.com/de-tools/contriview/pkg/store/duckdb"
	"github.com/de-tools/contriview/pkg/store/duckdb/snapshot"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var cfgPath string

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the web server for contriview",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "",
		"Path to the config file (default is ./.contriview.yaml)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := cfg.Logger(os.Stdout)
	ctx := logger.WithContext(cmd.Context())

	reports, err := newReportService(cfg, "")
	if err != nil {
		return fmt.Errorf("failed to create report service: %w", err)
	}

	reg := registry.NewEmptyRegistry()
	if cfg.Tracker.AccountsFile != "" {
		reg, err = registry.NewRegistry(cfg.Tracker.AccountsFile)
		if err != nil {
			return fmt.Errorf("failed to create account registry: %w", err)
		}
		logger.Info().Msgf("Accounts file `%s` successfully loaded.", cfg.Tracker.AccountsFile)
	}

	db, err := duckdb.NewDB(duckdb.Settings{
		DbPath: cfg.Store.Path,
	})
	if err != nil {
		return fmt.Errorf("failed to create DuckDB instance: %w", err)
	}
	defer db.Close()

	snapshotStore, err := snapshot.NewStore(db)
	if err != nil {
		return fmt.Errorf("failed to create snapshot store: %w", err)
	}

	trackerCtrl := tracker.NewController(func() *tracker.Runner {
		return tracker.NewRunner(reg, func(account domain.TrackedAccount) (report.Service, error) {
			return newReportService(cfg, account.BaseURL)
		}, snapshotStore, db, tracker.RunnerConfig{
			Interval: cfg.Tracker.Interval,
		})
	})
	if err := trackerCtrl.Start(ctx); err != nil {
		return fmt.Errorf("failed to start tracker: %w", err)
	}
	defer func() {
		if err := trackerCtrl.Stop(context.Background()); err != nil {
			logger.Error().Err(err).Msg("failed to stop tracker")
		}
	}()

	logTrackedAccounts(ctx, reg)

	addr := net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)

	api := server.NewWebAPI(server.Config{
		Addr:            addr,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		Dependencies: server.Dependencies{
			Reports:   reports,
			Snapshots: snapshotStore,
			Registry:  reg,
			Logger:    logger,
		},
	})

	return api.Start()
}

func logTrackedAccounts(ctx context.Context, reg registry.Registry) {
	logger := zerolog.Ctx(ctx)

	accounts, err := reg.ListAccounts(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("failed to list tracked accounts")
		return
	}
	for _, account := range accounts {
		logger.Info().Msgf("Tracking `%s` as `%s`", account.Name, account.Username)
	}
}

func newReportService(cfg *config.Config, baseURL string) (report.Service, error) {
	settings := cfg.FetcherSettings()
	if baseURL != "" {
		settings.BaseURL = baseURL
	}

	f, err := fetcher.NewGitHubFetcher(settings)
	if err != nil {
		return nil, err
	}
	return report.NewService(f, contributions.NewBuilder(contributions.NewParser(cfg.ParserOptions()))), nil
}
