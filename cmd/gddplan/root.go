package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/couchcryptid/gdd-planner/internal/adapter/static"
	"github.com/couchcryptid/gdd-planner/internal/catalog"
	"github.com/couchcryptid/gdd-planner/internal/config"
	"github.com/couchcryptid/gdd-planner/internal/dataset"
	"github.com/couchcryptid/gdd-planner/internal/observability"
	"github.com/couchcryptid/gdd-planner/internal/planner"
)

// app holds the components every subcommand shares. It is populated by the
// root command's PersistentPreRunE.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	metrics  *observability.Metrics
	catalog  *catalog.Catalog
	frost    *dataset.FrostDataset
	stations *dataset.StationIndex
	series   *dataset.SeriesStore
	planner  *planner.Planner
}

// newRootCmd builds the command tree. Metrics register with reg.
func newRootCmd(reg prometheus.Registerer) *cobra.Command {
	var cfgFile string
	a := &app{}

	root := &cobra.Command{
		Use:   "gddplan",
		Short: "Estimate crop maturity dates from growing degree days",
		Long: `gddplan estimates when selected crops reach maturity at a location,
using typical-year cumulative growing degree days from the nearest GDD
station and the location's average first fall frost.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd, cfgFile, reg)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (yaml, json or toml)")
	flags.String("data-dir", "", "directory holding the published datasets (env DATA_DIR)")
	flags.String("data-url", "", "base URL of the published datasets; wins over --data-dir (env DATA_BASE_URL)")
	flags.String("log-level", "", "debug, info, warn or error (env LOG_LEVEL)")
	flags.String("log-format", "", "json or text (env LOG_FORMAT)")

	root.AddCommand(
		newEstimateCmd(a),
		newFrostCmd(a),
		newStationCmd(a),
		newCropsCmd(a),
		newWorkerCmd(a),
	)
	return root
}

func (a *app) init(cmd *cobra.Command, cfgFile string, reg prometheus.Registerer) error {
	cfg, err := loadConfig(cmd, cfgFile)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = observability.NewLoggerTo(cmd.ErrOrStderr(), cfg)
	a.metrics = observability.NewMetricsWith(reg)

	a.catalog, err = catalog.Load(cfg.CropsFile, cfg.GDDCropsFile)
	if err != nil {
		return err
	}

	fetcher := newFetcher(cfg, a.logger)
	a.frost = dataset.NewFrostDataset(fetcher, a.logger, a.metrics)
	a.stations = dataset.NewStationIndex(fetcher, a.logger, a.metrics)
	a.series = dataset.NewSeriesStore(fetcher, a.logger, a.metrics)
	a.planner = planner.New(a.frost, a.stations, a.series, a.catalog, a.logger, a.metrics)
	return nil
}

// loadConfig reads the environment, then layers the config file and any
// flags the user set on top.
func loadConfig(cmd *cobra.Command, cfgFile string) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	v := viper.New()
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if errors.As(err, &notFound) || os.IsNotExist(err) {
				return nil, fmt.Errorf("config file %s not found: %w", cfgFile, err)
			}
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	for key, flag := range map[string]string{
		"data_dir":      "data-dir",
		"data_base_url": "data-url",
		"log_level":     "log-level",
		"log_format":    "log-format",
	} {
		if f := cmd.Flags().Lookup(flag); f != nil && f.Changed {
			v.Set(key, strings.TrimSpace(f.Value.String()))
		}
	}

	if err := config.ApplyOverrides(cfg, v); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newFetcher(cfg *config.Config, logger *slog.Logger) dataset.Fetcher {
	if cfg.DataBaseURL != "" {
		logger.Debug("reading datasets over http", "base_url", cfg.DataBaseURL)
		return static.NewClient(cfg.DataBaseURL, cfg.DataFetchTimeout, logger)
	}
	logger.Debug("reading datasets from disk", "dir", cfg.DataDir)
	return static.NewDir(cfg.DataDir)
}

// exitError carries a process exit code for a command that completed but
// did not produce a usable result.
type exitError struct {
	code int
	msg  string
}

func (e *exitError) Error() string { return e.msg }

func exitCode(err error, stderr io.Writer) int {
	if err == nil {
		return 0
	}
	fmt.Fprintln(stderr, err)
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return 1
}
