package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Dav3whit3/ih-datamadpt0420-project-m2/config"
	"github.com/Dav3whit3/ih-datamadpt0420-project-m2/dataset"
)

// ============================================================================
// DIAMONDS CLI — Dashboard server plus one-shot chart/table queries
// ============================================================================

// app carries what PersistentPreRunE resolved for the subcommands.
type app struct {
	configPath string
	dataPath   string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "diamonds",
		Short: "Diamonds overview dashboard",
		Long: `diamonds serves an interactive overview of a gemstone dataset and answers
the same chart and table queries from the command line.

The dataset is a CSV, TSV or XLSX file with a header row. Numeric columns
feed the histograms and aggregate lines; the price column drives the range
filter and the color column the category filter.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", config.DefaultPath, "Config file (YAML)")
	root.PersistentFlags().StringVarP(&a.dataPath, "data", "d", "", "Dataset file (overrides config)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable verbose logging")

	root.AddCommand(newServeCmd(a))
	root.AddCommand(newChartCmd(a))
	root.AddCommand(newTableCmd(a))
	root.AddCommand(newSchemaCmd(a))
	root.AddCommand(newVersionCmd())
	return root
}

func (a *app) init() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.dataPath != "" {
		cfg.Dataset.Path = a.dataPath
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := cfg.Logging.NewLogger(a.verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.cfg = cfg
	a.logger = logger
	return nil
}

// load reads the configured dataset.
func (a *app) load() (*dataset.Dataset, error) {
	opts := a.cfg.LoaderOptions()
	opts.Logger = a.logger
	return dataset.Load(a.cfg.Dataset.Path, opts)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
