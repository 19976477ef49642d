package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/BarkinBalci/event-dataset-generator/internal/config"
	"github.com/BarkinBalci/event-dataset-generator/internal/job"
	"github.com/BarkinBalci/event-dataset-generator/internal/lineage"
	"github.com/BarkinBalci/event-dataset-generator/internal/logger"
	"github.com/BarkinBalci/event-dataset-generator/internal/repository/sinks"
	"github.com/BarkinBalci/event-dataset-generator/internal/service"
	"github.com/BarkinBalci/event-dataset-generator/internal/telemetry"
)

var version = "0.1.0-dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "generator",
		Short: "Synthetic event dataset generator",
		Long: `generator simulates users, sessions, events and purchases day by day
and streams them into one or more analytical sinks.

Connection settings come from the environment (CLICKHOUSE_*, POSTGRES_*,
MYSQL_*, SQLITE_*); the generation profile comes from a YAML file.`,
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON")
	rootCmd.PersistentFlags().Bool("quiet", false, "Disable logging")
	rootCmd.PersistentFlags().String("profile", "", "Generation profile YAML (defaults to GENERATOR_PROFILE_PATH)")

	rootCmd.AddCommand(
		newVersionCmd(),
		newGenerateCmd(),
		newVersionsCmd(),
	)

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]string{"version": version})
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "generator version %s\n", version)
			}
		},
	}
}

// app wires the generator service for a single command invocation
type app struct {
	cfg      *config.Config
	log      *zap.Logger
	provider *telemetry.Provider
	service  *service.GeneratorService
}

func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if path, _ := cmd.Flags().GetString("profile"); path != "" {
		cfg.Generator.ProfilePath = path
	}

	log := zap.NewNop()
	if quiet, _ := cmd.Flags().GetBool("quiet"); !quiet {
		if log, err = logger.New(cfg.Service.Environment, "generator-cli"); err != nil {
			return nil, fmt.Errorf("failed to initialize logger: %w", err)
		}
	}

	provider, err := telemetry.New(cfg.Telemetry, "generator-cli")
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	svc := service.NewGeneratorService(
		sinks.NewFactory(cfg, log),
		job.NewManager(log),
		lineage.NewRegistry(log),
		cfg.Generator.BaseProfile,
		provider.Meter(),
		log)

	return &app{cfg: cfg, log: log, provider: provider, service: svc}, nil
}

func (a *app) close() {
	if err := a.provider.Shutdown(context.Background()); err != nil {
		a.log.Warn("Failed to shut down telemetry", zap.Error(err))
	}
	_ = a.log.Sync()
}
