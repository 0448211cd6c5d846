// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/splitfair/splitfair/internal/models"
)

// Store defines the interface for ledger storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL,
// etc.) without changing the service layer. The handle is created by the
// process entry point and passed in explicitly; no package-level state.
type Store interface {
	// CreateGroup persists a new group. ID and CreatedAt are populated
	// by the store if unset.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group by ID.
	// Returns models.ErrGroupNotFound if it does not exist.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// UpdateGroup updates a group's name, description, icon and split mode.
	UpdateGroup(ctx context.Context, group *models.Group) error

	// DeleteGroup removes a group and cascades to its members, expenses,
	// shares and settlements.
	DeleteGroup(ctx context.Context, groupID string) error

	// ListGroupsForUser returns all groups the user is a member of.
	ListGroupsForUser(ctx context.Context, userID string) ([]*models.Group, error)

	// AddMember adds a user to a group's roster. Adding an existing
	// member updates the display name and is otherwise a no-op.
	AddMember(ctx context.Context, member *models.Member) error

	// RemoveMember removes a user from a group's roster. Historical
	// expenses, shares and settlements referencing the user are kept.
	RemoveMember(ctx context.Context, groupID, userID string) error

	// ListMembers returns the roster in join order.
	ListMembers(ctx context.Context, groupID string) ([]models.Member, error)

	// CreateExpense persists a new expense and derives its share rows as
	// an equal split over the group's current roster. The derived shares
	// sum exactly to the expense amount and are returned to the caller.
	CreateExpense(ctx context.Context, expense *models.Expense) ([]models.ExpenseShare, error)

	// UpdateExpense updates an expense's payer, amount, description and
	// date. An amount change rescales the expense's existing share rows
	// proportionally; shares are never re-derived from current membership.
	UpdateExpense(ctx context.Context, expense *models.Expense) error

	// DeleteExpense removes an expense and its share rows.
	DeleteExpense(ctx context.Context, groupID, expenseID string) error

	// CreateSettlement appends a settlement row. Settlements are never
	// updated or deleted through this interface.
	CreateSettlement(ctx context.Context, settlement *models.Settlement) error

	// Snapshot reads the group and its complete ledger in one consistent
	// pass. Returns models.ErrGroupNotFound if the group does not exist.
	Snapshot(ctx context.Context, groupID string) (*models.GroupSnapshot, error)

	// Settle runs fn against a snapshot taken inside a single write
	// transaction and inserts the settlement fn returns before
	// committing. Concurrent settle calls for the same group are
	// serialized, so two callers can never both consume the same
	// recommended amount.
	Settle(ctx context.Context, groupID string, fn func(*models.GroupSnapshot) (*models.Settlement, error)) (*models.Settlement, error)

	// Close releases any resources held by the store.
	Close() error
}
