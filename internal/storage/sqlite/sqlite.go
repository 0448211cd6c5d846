// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/splitfair/splitfair/internal/models"
	"github.com/splitfair/splitfair/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// querier is satisfied by both *sql.DB and *sql.Tx, so reads can run
// either standalone or inside the settle transaction.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Pragmas go in the DSN so every pooled connection gets them:
	// foreign_keys makes the ON DELETE CASCADE clauses effective, and
	// busy_timeout makes a losing writer wait instead of failing with
	// SQLITE_BUSY.
	dsn := dbPath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Snapshot reads the group and its complete ledger in one transaction,
// so the five reads see a single point-in-time state regardless of
// concurrent writes.
func (s *SQLiteStore) Snapshot(ctx context.Context, groupID string) (*models.GroupSnapshot, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	snap, err := snapshot(ctx, tx, groupID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return snap, nil
}

// Settle runs fn against a snapshot taken inside a single transaction and
// inserts the returned settlement before committing. SQLite serializes
// writers, so the read-validate-insert sequence cannot interleave with a
// concurrent settle on the same database.
func (s *SQLiteStore) Settle(ctx context.Context, groupID string, fn func(*models.GroupSnapshot) (*models.Settlement, error)) (*models.Settlement, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	snap, err := snapshot(ctx, tx, groupID)
	if err != nil {
		return nil, err
	}

	settlement, err := fn(snap)
	if err != nil {
		return nil, err
	}

	if err := insertSettlement(ctx, tx, settlement); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return settlement, nil
}

func snapshot(ctx context.Context, q querier, groupID string) (*models.GroupSnapshot, error) {
	group, err := getGroup(ctx, q, groupID)
	if err != nil {
		return nil, err
	}

	members, err := listMembers(ctx, q, groupID)
	if err != nil {
		return nil, err
	}

	expenses, err := listExpenses(ctx, q, groupID)
	if err != nil {
		return nil, err
	}

	shares, err := listShares(ctx, q, groupID)
	if err != nil {
		return nil, err
	}

	settlements, err := listSettlements(ctx, q, groupID)
	if err != nil {
		return nil, err
	}

	return &models.GroupSnapshot{
		Group:       group,
		Members:     members,
		Expenses:    expenses,
		Shares:      shares,
		Settlements: settlements,
	}, nil
}

// newID returns a fresh UUID string.
func newID() string {
	return uuid.New().String()
}

// parseAmount converts a stored decimal string back to a decimal.
func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("corrupt amount %q: %w", s, err)
	}
	return d, nil
}
