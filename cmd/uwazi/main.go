/*
main.go - uwazi command-line entry point

PURPOSE:
  One binary for serving the dashboard API and for working with datasets
  offline.

COMMANDS:
  serve     Start the HTTP API over the configured dataset
  seed      Write the configured dataset into a SQLite snapshot
  summary   Print the overview figures as JSON
  export    Write the dashboard workbook (.xlsx)
  check     Print the integrity report

CONFIGURATION:
  --config points at a YAML file (see config/config.go). Without it the
  defaults apply: builtin dataset, port 8080, JSON logs at info level.
  UWAZI_* environment variables override the file.

EXAMPLES:
  uwazi serve --port 3000
  uwazi seed --db ./data/uwazi.db
  UWAZI_DATASET_SOURCE=sqlite UWAZI_DATASET_PATH=./data/uwazi.db uwazi serve
  uwazi export --out dashboard.xlsx

SEE ALSO:
  - api/server.go: Router configuration
  - config/dataset.go: Dataset sources
*/
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/uwazi/transparency-engine/config"
	"github.com/uwazi/transparency-engine/logging"
	"go.uber.org/zap"
)

var (
	// Global flags
	configPath string

	// Set by the root command before any subcommand runs
	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "uwazi",
	Short: "Uwazi - public project and loan transparency engine",
	Long: `Uwazi serves dashboard aggregates over a read-only dataset of public
projects, tenders, loans, audits and citizen flags.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if err := loaded.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		cfg = loaded

		logger, err = logging.New(cfg.Logging.Level, cfg.Logging.Format, logging.ServiceName)
		if err != nil {
			return fmt.Errorf("failed to build logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to YAML config file")

	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "HTTP port (overrides config)")
	seedCmd.Flags().StringVar(&seedDB, "db", "", "SQLite database to write (required)")
	seedCmd.MarkFlagRequired("db")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "uwazi-dashboard.xlsx", "Output workbook path")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(checkCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
