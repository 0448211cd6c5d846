package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/splitfair/splitfair/internal/models"
)

// CreateExpense persists a new expense and derives its share rows as an
// equal split over the current roster. The shares are fixed at creation
// time and are not rebalanced when membership changes later.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) ([]models.ExpenseShare, error) {
	if expense.ID == "" {
		expense.ID = newID()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}
	if expense.ExpenseDate == 0 {
		expense.ExpenseDate = expense.CreatedAt
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := getGroup(ctx, tx, expense.GroupID); err != nil {
		return nil, err
	}

	members, err := listMembers(ctx, tx, expense.GroupID)
	if err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return nil, models.NewValidationError("group has no members to share the expense")
	}

	payerOnRoster := false
	for _, m := range members {
		if m.UserID == expense.PaidBy {
			payerOnRoster = true
			break
		}
	}
	if !payerOnRoster {
		return nil, models.ErrMemberNotFound
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO expenses (id, group_id, paid_by, amount, description, expense_date, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.GroupID, expense.PaidBy, expense.Amount.String(),
		expense.Description, expense.ExpenseDate, expense.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert expense: %w", err)
	}

	shares := equalShares(expense.ID, expense.Amount, members)
	for _, share := range shares {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO expense_shares (expense_id, user_id, share_amount) VALUES (?, ?, ?)",
			share.ExpenseID, share.UserID, share.ShareAmount.String(),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to insert expense share: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return shares, nil
}

// equalShares splits amount evenly across members at 2-decimal precision.
// The cent remainder of an inexact division goes to the first member, so
// the shares always sum exactly to the amount.
func equalShares(expenseID string, amount decimal.Decimal, members []models.Member) []models.ExpenseShare {
	n := int64(len(members))
	base := amount.DivRound(decimal.NewFromInt(n), 2)
	first := amount.Sub(base.Mul(decimal.NewFromInt(n - 1)))

	shares := make([]models.ExpenseShare, n)
	for i, m := range members {
		share := base
		if i == 0 {
			share = first
		}
		shares[i] = models.ExpenseShare{
			ExpenseID:   expenseID,
			UserID:      m.UserID,
			ShareAmount: share,
		}
	}
	return shares
}

// UpdateExpense updates an expense's payer, amount, description and date.
// When the amount changes, the existing share rows are rescaled
// proportionally instead of being re-derived from the current roster, so
// the original attribution survives membership changes.
func (s *SQLiteStore) UpdateExpense(ctx context.Context, expense *models.Expense) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var oldAmountStr string
	err = tx.QueryRowContext(ctx,
		"SELECT amount FROM expenses WHERE id = ? AND group_id = ?",
		expense.ID, expense.GroupID,
	).Scan(&oldAmountStr)
	if err == sql.ErrNoRows {
		return models.ErrExpenseNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to get expense: %w", err)
	}

	oldAmount, err := parseAmount(oldAmountStr)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE expenses SET paid_by = ?, amount = ?, description = ?, expense_date = ?
		 WHERE id = ? AND group_id = ?`,
		expense.PaidBy, expense.Amount.String(), expense.Description, expense.ExpenseDate,
		expense.ID, expense.GroupID,
	)
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}

	if !expense.Amount.Equal(oldAmount) {
		if err := rescaleShares(ctx, tx, expense.ID, oldAmount, expense.Amount); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// rescaleShares multiplies every share of the expense by new/old, keeping
// the invariant sum(shares) == amount by folding the rounding remainder
// into the first share.
func rescaleShares(ctx context.Context, tx *sql.Tx, expenseID string, oldAmount, newAmount decimal.Decimal) error {
	rows, err := tx.QueryContext(ctx,
		"SELECT user_id, share_amount FROM expense_shares WHERE expense_id = ? ORDER BY user_id",
		expenseID,
	)
	if err != nil {
		return fmt.Errorf("failed to list shares: %w", err)
	}

	var shares []models.ExpenseShare
	for rows.Next() {
		var share models.ExpenseShare
		var amountStr string
		if err := rows.Scan(&share.UserID, &amountStr); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan share: %w", err)
		}
		if share.ShareAmount, err = parseAmount(amountStr); err != nil {
			rows.Close()
			return err
		}
		shares = append(shares, share)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate shares: %w", err)
	}

	if len(shares) == 0 {
		return nil
	}

	remainder := newAmount
	for i := range shares {
		if oldAmount.IsZero() {
			// Degenerate legacy rows; fall back to an equal split.
			shares[i].ShareAmount = newAmount.DivRound(decimal.NewFromInt(int64(len(shares))), 2)
		} else {
			shares[i].ShareAmount = shares[i].ShareAmount.Mul(newAmount).DivRound(oldAmount, 2)
		}
		if i > 0 {
			remainder = remainder.Sub(shares[i].ShareAmount)
		}
	}
	shares[0].ShareAmount = remainder

	for _, share := range shares {
		_, err := tx.ExecContext(ctx,
			"UPDATE expense_shares SET share_amount = ? WHERE expense_id = ? AND user_id = ?",
			share.ShareAmount.String(), expenseID, share.UserID,
		)
		if err != nil {
			return fmt.Errorf("failed to update share: %w", err)
		}
	}

	return nil
}

// DeleteExpense removes an expense; its share rows cascade.
func (s *SQLiteStore) DeleteExpense(ctx context.Context, groupID, expenseID string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM expenses WHERE id = ? AND group_id = ?",
		expenseID, groupID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if n == 0 {
		return models.ErrExpenseNotFound
	}

	return nil
}

func listExpenses(ctx context.Context, q querier, groupID string) ([]models.Expense, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, group_id, paid_by, amount, description, expense_date, created_at
		 FROM expenses WHERE group_id = ?
		 ORDER BY expense_date DESC, created_at DESC`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []models.Expense
	for rows.Next() {
		var e models.Expense
		var amountStr string
		if err := rows.Scan(&e.ID, &e.GroupID, &e.PaidBy, &amountStr,
			&e.Description, &e.ExpenseDate, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		if e.Amount, err = parseAmount(amountStr); err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	return expenses, nil
}

func listShares(ctx context.Context, q querier, groupID string) ([]models.ExpenseShare, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT es.expense_id, es.user_id, es.share_amount
		 FROM expense_shares es
		 JOIN expenses e ON e.id = es.expense_id
		 WHERE e.group_id = ?
		 ORDER BY es.expense_id, es.user_id`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expense shares: %w", err)
	}
	defer rows.Close()

	var shares []models.ExpenseShare
	for rows.Next() {
		var share models.ExpenseShare
		var amountStr string
		if err := rows.Scan(&share.ExpenseID, &share.UserID, &amountStr); err != nil {
			return nil, fmt.Errorf("failed to scan expense share: %w", err)
		}
		if share.ShareAmount, err = parseAmount(amountStr); err != nil {
			return nil, err
		}
		shares = append(shares, share)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expense shares: %w", err)
	}

	return shares, nil
}
