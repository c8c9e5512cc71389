package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/nerrad567/sensorgen/internal/generator"
	"github.com/nerrad567/sensorgen/internal/infrastructure/config"
	"github.com/nerrad567/sensorgen/internal/infrastructure/database"
	"github.com/nerrad567/sensorgen/internal/infrastructure/logging"
	"github.com/nerrad567/sensorgen/internal/inventory"
	"github.com/nerrad567/sensorgen/internal/journal"
	"github.com/nerrad567/sensorgen/internal/sensor"
	"github.com/nerrad567/sensorgen/migrations"
)

// options holds the flags shared by every command.
type options struct {
	configPath string
	envFile    string
	dryRun     bool
}

// newRootCommand builds the command tree. Running the root command
// without a subcommand generates.
func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "sensorgen",
		Short: "Add named BLE sensors to Grafana and openHAB configuration",
		Long: `sensorgen reads a device mapping (NAMES_INPUT) and adds every listed
sensor to a Grafana dashboard (GRAFANA_INPUT/GRAFANA_OUTPUT) and to the
openHAB JSON database (SMARTHOME_JSONDB_INPUT/SMARTHOME_JSONDB_OUTPUT).
Existing entries are kept; only missing ones are added.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if opts.envFile == "" {
				return nil
			}
			// Variables already set in the environment win.
			if err := godotenv.Load(opts.envFile); err != nil {
				return fmt.Errorf("loading env file: %w", err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd.Context(), opts, stdout)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", errFlag, err)
	})

	root.PersistentFlags().StringVar(&opts.configPath, "config", "",
		"YAML configuration file (default $"+config.EnvConfigFile+")")
	root.PersistentFlags().StringVar(&opts.envFile, "env-file", "",
		"load environment variables from this file first")
	root.PersistentFlags().BoolVar(&opts.dryRun, "dry-run", false,
		"print JSON merge patches instead of writing outputs")

	root.AddCommand(
		newGenerateCommand(opts, stdout),
		newInventoryCommand(opts, stdout),
		newJournalCommand(opts, stdout),
		newVersionCommand(stdout),
	)
	return root
}

func newGenerateCommand(opts *options, stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Add missing sensors to the configured outputs (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd.Context(), opts, stdout)
		},
	}
}

func newInventoryCommand(opts *options, stdout io.Writer) *cobra.Command {
	var settle time.Duration

	cmd := &cobra.Command{
		Use:   "inventory",
		Short: "List live sensors missing from the mapping",
		Long: `inventory asks InfluxDB for the bridge's measurements and listens for
retained Homie node names on MQTT, then prints every sensor that is not in
the mapping as an id=name line. Mapped sensors that were not seen are
logged as warnings.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInventory(cmd.Context(), opts, settle, stdout)
		},
	}
	cmd.Flags().DurationVar(&settle, "settle", 0, "how long to collect Homie names (default mqtt.settle)")
	return cmd
}

func newJournalCommand(opts *options, stdout io.Writer) *cobra.Command {
	var filter journal.Filter

	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Show recently inserted entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runJournal(cmd.Context(), opts, filter, stdout)
		},
	}
	cmd.Flags().StringVar(&filter.Store, "store", "", "only this store (dashboard, items, metadata, links)")
	cmd.Flags().StringVar(&filter.DeviceID, "device", "", "only this device id")
	cmd.Flags().StringVar(&filter.RunID, "run", "", "only this run id")
	cmd.Flags().IntVar(&filter.Limit, "limit", 50, "maximum entries (at most 200)")
	return cmd
}

func newVersionCommand(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(stdout, "sensorgen %s (commit %s, built %s)\n", version, commit, date)
			return err
		},
	}
}

// loadConfig loads the configuration and builds the logger from it.
func loadConfig(opts *options) (*config.Config, *logging.Logger, error) {
	path := opts.configPath
	if path == "" {
		path = os.Getenv(config.EnvConfigFile)
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}
	if opts.dryRun {
		cfg.DryRun = true
	}

	log := logging.New(cfg.Logging, version)
	if path != "" {
		log.Debug("configuration loaded", "path", path)
	}
	return cfg, log, nil
}

// openJournal opens and migrates the journal database.
func openJournal(ctx context.Context, cfg *config.Config) (*database.DB, error) {
	db, err := database.Open(cfg.Journal)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(ctx, migrations.FS); err != nil {
		db.Close() //nolint:errcheck // Best effort cleanup on error path
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return db, nil
}

func runGenerate(ctx context.Context, opts *options, stdout io.Writer) error {
	cfg, log, err := loadConfig(opts)
	if err != nil {
		return err
	}

	var recorder generator.Recorder
	if cfg.Journal.Enabled && !cfg.DryRun {
		db, err := openJournal(ctx, cfg)
		if err != nil {
			return fmt.Errorf("opening journal: %w", err)
		}
		defer func() {
			if closeErr := db.Close(); closeErr != nil {
				log.Error("error closing journal", "error", closeErr)
			}
		}()
		recorder = journal.NewSQLiteRepository(db.DB)
	}

	summary, err := generator.New(cfg, log, recorder, stdout).Run(ctx)
	if err != nil {
		return err
	}

	log.Info("generation complete",
		"run_id", summary.RunID,
		"dry_run", summary.DryRun,
		"dashboard", summary.Dashboard,
		"items", summary.Items,
		"metadata", summary.Metadata,
		"links", summary.Links,
	)
	return nil
}

func runInventory(ctx context.Context, opts *options, settle time.Duration, stdout io.Writer) error {
	cfg, log, err := loadConfig(opts)
	if err != nil {
		return err
	}
	if settle <= 0 {
		settle = cfg.MQTT.Settle
	}

	devices, err := sensor.Load(cfg.Names.Input)
	if err != nil {
		return err
	}

	src, closeSources, err := inventory.Connect(cfg, log)
	if err != nil {
		return err
	}
	defer closeSources()

	report, err := inventory.Collect(ctx, cfg, src, devices, settle)
	if err != nil {
		return err
	}

	for _, s := range report.Unmapped {
		if _, err := fmt.Fprintln(stdout, s.MappingLine()); err != nil {
			return err
		}
	}
	for _, d := range report.Unseen {
		log.Warn("mapped sensor not seen", "device", d.ID, "name", d.Name)
	}
	log.Info("inventory complete",
		"seen", report.Seen,
		"unmapped", len(report.Unmapped),
		"unseen", len(report.Unseen),
	)
	return nil
}

func runJournal(ctx context.Context, opts *options, filter journal.Filter, stdout io.Writer) error {
	cfg, log, err := loadConfig(opts)
	if err != nil {
		return err
	}
	if !cfg.Journal.Enabled {
		return fmt.Errorf("journal is not enabled (set journal.enabled or %s)", config.EnvJournalPath)
	}

	db, err := openJournal(ctx, cfg)
	if err != nil {
		return fmt.Errorf("opening journal: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing journal", "error", closeErr)
		}
	}()

	entries, err := journal.NewSQLiteRepository(db.DB).List(ctx, filter)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CREATED\tSTORE\tDEVICE\tNAME\tKEY")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			e.CreatedAt.Format(time.RFC3339), e.Store, e.DeviceID, e.DeviceName, e.Key)
	}
	return w.Flush()
}
