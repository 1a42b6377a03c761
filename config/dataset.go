package config

import (
	"context"
	"fmt"
	"os"

	"github.com/uwazi/transparency-engine/generic"
	"github.com/uwazi/transparency-engine/store/sqlite"
	"github.com/uwazi/transparency-engine/transparency"
)

// LoadDataset reads the dataset named by cfg without validating it.
func LoadDataset(ctx context.Context, cfg DatasetConfig) (transparency.Dataset, error) {
	switch cfg.Source {
	case SourceBuiltin, "":
		return transparency.BuiltinDataset()

	case SourceJSON:
		f, err := os.Open(cfg.Path)
		if err != nil {
			return transparency.Dataset{}, fmt.Errorf("failed to open dataset: %w", err)
		}
		defer f.Close()
		return transparency.DecodeDataset(f)

	case SourceSQLite:
		if _, err := os.Stat(cfg.Path); err != nil {
			return transparency.Dataset{}, fmt.Errorf("failed to open dataset: %w", err)
		}
		store, err := sqlite.New(cfg.Path)
		if err != nil {
			return transparency.Dataset{}, err
		}
		defer store.Close()
		return store.LoadDataset(ctx)

	default:
		return transparency.Dataset{}, fmt.Errorf("%w: %s", generic.ErrUnknownSource, cfg.Source)
	}
}

// OpenDataset loads the configured dataset and builds the entity store.
func OpenDataset(ctx context.Context, cfg DatasetConfig) (*transparency.Store, error) {
	ds, err := LoadDataset(ctx, cfg)
	if err != nil {
		return nil, err
	}
	store, err := transparency.NewStore(ds)
	if err != nil {
		return nil, fmt.Errorf("dataset from %s source: %w", cfg.Source, err)
	}
	return store, nil
}
