package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/uwazi/transparency-engine/config"
	"github.com/uwazi/transparency-engine/store/sqlite"
	"go.uber.org/zap"
)

var seedDB string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Write the configured dataset into a SQLite snapshot",
	Long: `Reads the dataset from the configured source (the builtin dataset by
default) and replaces the snapshot stored in --db. Serve it afterwards with
dataset.source=sqlite.`,
	Args: cobra.NoArgs,
	RunE: runSeed,
}

func runSeed(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	ds, err := config.LoadDataset(ctx, cfg.Dataset)
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}
	if err := ds.Validate(); err != nil {
		return fmt.Errorf("refusing to seed: %w", err)
	}

	db, err := sqlite.New(seedDB)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.SaveDataset(ctx, ds, cfg.Dataset.Source); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	info, err := db.LatestSnapshot(ctx)
	if err != nil {
		return err
	}
	logger.Info("Snapshot saved", zap.String("db", seedDB), zap.String("source", info.Source), zap.Int("records", info.Records))
	fmt.Fprintf(cmd.OutOrStdout(), "Seeded %s with %d records from %s\n", seedDB, info.Records, info.Source)
	return nil
}
