// Package storage persists the tracker's four collections. The backing
// schema is a single key-value table mapping a collection name to its
// JSON payload; every save replaces the whole payload in one statement,
// so a collection is always either fully written or untouched.
package storage

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"fintrack/internal/core"
	applog "fintrack/internal/log"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var schemaFS embed.FS

const (
	collectionTransactions = "transactions"
	collectionSchedules    = "recurringSchedules"
	collectionPlans        = "budgetPlans"
	collectionGoals        = "savingsGoals"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := migrateSchema(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// migrateSchema brings the collections schema up to date from the
// embedded migration files, tracking applied versions in
// fintrack_schema_migrations. It runs on its own connection so a
// failed migration never poisons the store's handle.
func migrateSchema(dbPath string) error {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("open migration connection: %w", err)
	}
	defer db.Close()

	driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{
		MigrationsTable: "fintrack_schema_migrations",
	})
	if err != nil {
		return fmt.Errorf("create sqlite driver: %w", err)
	}
	src, err := iofs.New(schemaFS, "migrations")
	if err != nil {
		return fmt.Errorf("read embedded migrations: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// loadCollection reads one collection payload into out. A missing row or
// an unparseable payload both leave out untouched: corrupt stored state
// is treated as an empty collection, never as a fatal error.
func (s *SQLiteStore) loadCollection(ctx context.Context, name string, out any) error {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM collections WHERE name = ?`, name).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read collection %s: %w", name, err)
	}

	if err := json.Unmarshal([]byte(payload), out); err != nil {
		slog.WarnContext(ctx, "Stored collection is unreadable, reinitializing as empty",
			applog.FieldCollection, name,
			applog.FieldError, err)
		return nil
	}
	return nil
}

func (s *SQLiteStore) saveCollection(ctx context.Context, name string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode collection %s: %w", name, err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO collections (name, payload, updated_at)
		 VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(name) DO UPDATE SET
		     payload = excluded.payload,
		     updated_at = CURRENT_TIMESTAMP`,
		name, string(payload))
	if err != nil {
		return fmt.Errorf("write collection %s: %w", name, err)
	}
	return nil
}

func (s *SQLiteStore) LoadTransactions(ctx context.Context) ([]core.Transaction, error) {
	var txs []core.Transaction
	if err := s.loadCollection(ctx, collectionTransactions, &txs); err != nil {
		return nil, err
	}
	return txs, nil
}

func (s *SQLiteStore) SaveTransactions(ctx context.Context, txs []core.Transaction) error {
	return s.saveCollection(ctx, collectionTransactions, txs)
}

func (s *SQLiteStore) LoadSchedules(ctx context.Context) ([]core.RecurringSchedule, error) {
	var schedules []core.RecurringSchedule
	if err := s.loadCollection(ctx, collectionSchedules, &schedules); err != nil {
		return nil, err
	}
	return schedules, nil
}

func (s *SQLiteStore) SaveSchedules(ctx context.Context, schedules []core.RecurringSchedule) error {
	return s.saveCollection(ctx, collectionSchedules, schedules)
}

// storedPlan defers categories decoding so legacy encodings can be
// migrated; see core.DecodeCategories.
type storedPlan struct {
	ID          int64           `json:"id"`
	Month       string          `json:"month"`
	TotalBudget core.Money      `json:"totalBudget"`
	Categories  json.RawMessage `json:"categories"`
}

// LoadBudgetPlans loads all plans, normalizing any legacy categories
// encoding to the canonical {name, allocatedAmount} shape. When a legacy
// shape was found the normalized collection is persisted back before
// being returned, so the migration runs at most once per plan.
func (s *SQLiteStore) LoadBudgetPlans(ctx context.Context) ([]core.BudgetPlan, error) {
	var stored []storedPlan
	if err := s.loadCollection(ctx, collectionPlans, &stored); err != nil {
		return nil, err
	}

	plans := make([]core.BudgetPlan, 0, len(stored))
	migrated := false
	for _, sp := range stored {
		cats, changed, err := core.DecodeCategories(sp.Categories)
		if err != nil {
			// One bad plan never blocks the rest.
			slog.WarnContext(ctx, "Skipping budget plan with unreadable categories",
				"plan_id", sp.ID,
				applog.FieldMonth, sp.Month,
				applog.FieldError, err)
			migrated = true
			continue
		}
		if changed {
			migrated = true
		}
		plans = append(plans, core.BudgetPlan{
			ID:          sp.ID,
			Month:       sp.Month,
			TotalBudget: sp.TotalBudget,
			Categories:  cats,
		})
	}

	if migrated {
		if err := s.SaveBudgetPlans(ctx, plans); err != nil {
			return nil, fmt.Errorf("persist normalized plans: %w", err)
		}
		slog.InfoContext(ctx, "Normalized legacy budget plan categories", "plans", len(plans))
	}

	return plans, nil
}

func (s *SQLiteStore) SaveBudgetPlans(ctx context.Context, plans []core.BudgetPlan) error {
	return s.saveCollection(ctx, collectionPlans, plans)
}

func (s *SQLiteStore) LoadGoals(ctx context.Context) ([]core.SavingsGoal, error) {
	var goals []core.SavingsGoal
	if err := s.loadCollection(ctx, collectionGoals, &goals); err != nil {
		return nil, err
	}
	return goals, nil
}

func (s *SQLiteStore) SaveGoals(ctx context.Context, goals []core.SavingsGoal) error {
	return s.saveCollection(ctx, collectionGoals, goals)
}
