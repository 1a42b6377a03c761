/*
Package sqlite persists dataset snapshots in SQLite.

PURPOSE:
  The engine reads an immutable Dataset at startup. This package lets that
  dataset come from a SQLite file instead of the binary: `uwazi seed` writes a
  snapshot, `uwazi serve` with dataset.source=sqlite reads it back.

KEY TABLES:
  records:   One row per record, body kept as JSON in the record's own shape
  snapshots: One row per save (when, from which source, how many records)

ORDERING:
  Every record carries its position within its entity type (seq). Loading
  orders by seq, so a round trip preserves store order exactly.

SAVE SEMANTICS:
  SaveDataset replaces the previous snapshot inside one SQL transaction. A
  failed save leaves the previous snapshot intact.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. The pool is capped at one connection
  so ":memory:" databases are shared by every statement.

USAGE:
  store, err := sqlite.New("./data/uwazi.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  err = store.SaveDataset(ctx, ds, "builtin")
  ds, err = store.LoadDataset(ctx)

SEE ALSO:
  - transparency/store.go: Dataset and its validation
  - config/dataset.go: Opening a store from the configured source
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/uwazi/transparency-engine/generic"
	"github.com/uwazi/transparency-engine/transparency"
)

// Store holds dataset snapshots in a SQLite database.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// SnapshotInfo describes the stored snapshot.
type SnapshotInfo struct {
	SavedAt time.Time
	Source  string
	Records int
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS records (
		entity TEXT NOT NULL,
		id TEXT NOT NULL,
		seq INTEGER NOT NULL,
		body_json TEXT NOT NULL,
		PRIMARY KEY (entity, id)
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_records_entity_seq
		ON records(entity, seq);

	CREATE TABLE IF NOT EXISTS snapshots (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		saved_at TEXT NOT NULL,
		source TEXT NOT NULL,
		record_count INTEGER NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// SAVE
// =============================================================================

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// SaveDataset replaces the stored snapshot with ds.
func (s *Store) SaveDataset(ctx context.Context, ds transparency.Dataset, source string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	if _, err := sqlTx.ExecContext(ctx, "DELETE FROM records"); err != nil {
		return fmt.Errorf("failed to clear records: %w", err)
	}

	total := 0
	for _, sec := range sections(&ds) {
		n, err := sec.save(ctx, sqlTx)
		if err != nil {
			return fmt.Errorf("failed to save %s: %w", sec.entity, err)
		}
		total += n
	}

	_, err = sqlTx.ExecContext(ctx,
		`INSERT INTO snapshots (saved_at, source, record_count) VALUES (?, ?, ?)`,
		time.Now().UTC().Format(time.RFC3339), source, total,
	)
	if err != nil {
		return fmt.Errorf("failed to record snapshot: %w", err)
	}

	return sqlTx.Commit()
}

func insertAll[T any](ctx context.Context, db execer, entity string, items []T, id func(T) string) (int, error) {
	for seq, item := range items {
		body, err := json.Marshal(item)
		if err != nil {
			return seq, err
		}
		_, err = db.ExecContext(ctx,
			`INSERT INTO records (entity, id, seq, body_json) VALUES (?, ?, ?, ?)`,
			entity, id(item), seq, string(body),
		)
		if err != nil {
			if isUniqueConstraintError(err) {
				return seq, &generic.DatasetError{Entity: entity, ID: id(item), Field: "id", Reason: "is duplicated"}
			}
			return seq, err
		}
	}
	return len(items), nil
}

// =============================================================================
// LOAD
// =============================================================================

// LoadDataset reads the stored snapshot back in store order. It returns
// generic.ErrNotFound when nothing was ever saved.
func (s *Store) LoadDataset(ctx context.Context) (transparency.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, err := s.latest(ctx); err != nil {
		return transparency.Dataset{}, err
	}

	var ds transparency.Dataset
	for _, sec := range sections(&ds) {
		if err := sec.load(ctx, s.db); err != nil {
			return transparency.Dataset{}, fmt.Errorf("failed to load %s: %w", sec.entity, err)
		}
	}
	return ds, nil
}

func loadAll[T any](ctx context.Context, db *sql.DB, entity string) ([]T, error) {
	rows, err := db.QueryContext(ctx, `SELECT body_json FROM records WHERE entity = ? ORDER BY seq`, entity)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]T, 0)
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, err
		}
		var item T
		if err := json.Unmarshal([]byte(body), &item); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

// LatestSnapshot describes the stored snapshot, or returns generic.ErrNotFound.
func (s *Store) LatestSnapshot(ctx context.Context) (*SnapshotInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest(ctx)
}

func (s *Store) latest(ctx context.Context) (*SnapshotInfo, error) {
	var info SnapshotInfo
	var savedAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT saved_at, source, record_count FROM snapshots ORDER BY id DESC LIMIT 1`,
	).Scan(&savedAt, &info.Source, &info.Records)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("no dataset snapshot saved: %w", generic.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	info.SavedAt, _ = time.Parse(time.RFC3339, savedAt)
	return &info, nil
}

// =============================================================================
// SECTIONS - one per entity type, in Dataset order
// =============================================================================

type section struct {
	entity string
	save   func(ctx context.Context, db execer) (int, error)
	load   func(ctx context.Context, db *sql.DB) error
}

func sectionOf[T any](entity string, items *[]T, id func(T) string) section {
	return section{
		entity: entity,
		save: func(ctx context.Context, db execer) (int, error) {
			return insertAll(ctx, db, entity, *items, id)
		},
		load: func(ctx context.Context, db *sql.DB) error {
			loaded, err := loadAll[T](ctx, db, entity)
			if err != nil {
				return err
			}
			*items = loaded
			return nil
		},
	}
}

func sections(ds *transparency.Dataset) []section {
	return []section{
		sectionOf("users", &ds.Users, func(u transparency.User) string { return string(u.ID) }),
		sectionOf("projects", &ds.Projects, func(p transparency.Project) string { return string(p.ID) }),
		sectionOf("milestones", &ds.Milestones, func(m transparency.Milestone) string { return string(m.ID) }),
		sectionOf("contractors", &ds.Contractors, func(c transparency.Contractor) string { return string(c.ID) }),
		sectionOf("tenders", &ds.Tenders, func(t transparency.Tender) string { return string(t.ID) }),
		sectionOf("bids", &ds.Bids, func(b transparency.Bid) string { return string(b.ID) }),
		sectionOf("audits", &ds.Audits, func(a transparency.Audit) string { return string(a.ID) }),
		sectionOf("transactions", &ds.Transactions, func(t transparency.Transaction) string { return string(t.ID) }),
		sectionOf("flags", &ds.Flags, func(f transparency.FlagReport) string { return string(f.ID) }),
		sectionOf("performance_records", &ds.PerformanceRecords, func(r transparency.PerformanceRecord) string { return string(r.ID) }),
		sectionOf("loans", &ds.Loans, func(l transparency.Loan) string { return string(l.ID) }),
		sectionOf("taxpayer_funds", &ds.TaxpayerFunds, func(f transparency.TaxpayerFund) string { return string(f.ID) }),
		sectionOf("panel_members", &ds.PanelMembers, func(m transparency.PanelMember) string { return string(m.ID) }),
		sectionOf("change_logs", &ds.ChangeLogs, func(c transparency.ChangeLog) string { return string(c.ID) }),
	}
}

// =============================================================================
// UTILITIES
// =============================================================================

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, table := range []string{"records", "snapshots"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

// Count returns the number of stored records per entity type.
func (s *Store) Count(ctx context.Context) (map[string]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT entity, COUNT(*) FROM records GROUP BY entity`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var entity string
		var n int
		if err := rows.Scan(&entity, &n); err != nil {
			return nil, err
		}
		counts[entity] = n
	}
	return counts, rows.Err()
}

func isUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
