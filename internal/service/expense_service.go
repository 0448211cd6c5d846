package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/splitfair/splitfair/internal/metrics"
	"github.com/splitfair/splitfair/internal/models"
	"github.com/splitfair/splitfair/internal/storage"
)

// ExpenseService manages the expense rows of a group's ledger.
type ExpenseService struct {
	store storage.Store
}

// NewExpenseService creates a new ExpenseService with the given storage backend.
func NewExpenseService(store storage.Store) *ExpenseService {
	return &ExpenseService{store: store}
}

func validateExpenseInput(paidBy string, amount decimal.Decimal, description string) error {
	if paidBy == "" {
		return models.NewValidationError("paid_by is required")
	}
	if !amount.IsPositive() {
		return models.NewValidationError("amount must be greater than zero")
	}
	if strings.TrimSpace(description) == "" {
		return models.NewValidationError("description is required")
	}
	return nil
}

// AddExpense records a new expense. Share rows are derived by the store
// as an equal split over the members present right now; they stay fixed
// even if the roster changes later.
func (s *ExpenseService) AddExpense(ctx context.Context, groupID, paidBy string, amount decimal.Decimal, description string, expenseDate int64) (*models.Expense, []models.ExpenseShare, error) {
	slog.Info("AddExpense request received",
		"group_id", groupID,
		"paid_by", paidBy,
		"amount", amount.String(),
	)

	if err := validateExpenseInput(paidBy, amount, description); err != nil {
		return nil, nil, err
	}

	expense := &models.Expense{
		GroupID:     groupID,
		PaidBy:      paidBy,
		Amount:      amount,
		Description: strings.TrimSpace(description),
		ExpenseDate: expenseDate,
	}
	shares, err := s.store.CreateExpense(ctx, expense)
	if err != nil {
		slog.Error("AddExpense failed", "group_id", groupID, "error", err)
		return nil, nil, err
	}

	metrics.ExpensesCreated.Inc()
	slog.Info("Expense recorded", "expense_id", expense.ID, "group_id", groupID, "shares", len(shares))
	return expense, shares, nil
}

// UpdateExpense changes an expense's payer, amount, description or date.
// An amount change rescales the original shares proportionally.
func (s *ExpenseService) UpdateExpense(ctx context.Context, groupID, expenseID, paidBy string, amount decimal.Decimal, description string, expenseDate int64) (*models.Expense, error) {
	slog.Info("UpdateExpense request received", "group_id", groupID, "expense_id", expenseID)

	if err := validateExpenseInput(paidBy, amount, description); err != nil {
		return nil, err
	}

	expense := &models.Expense{
		ID:          expenseID,
		GroupID:     groupID,
		PaidBy:      paidBy,
		Amount:      amount,
		Description: strings.TrimSpace(description),
		ExpenseDate: expenseDate,
	}
	if err := s.store.UpdateExpense(ctx, expense); err != nil {
		slog.Error("UpdateExpense failed", "expense_id", expenseID, "error", err)
		return nil, err
	}

	return expense, nil
}

// DeleteExpense removes an expense and its shares from the ledger.
func (s *ExpenseService) DeleteExpense(ctx context.Context, groupID, expenseID string) error {
	slog.Info("DeleteExpense request received", "group_id", groupID, "expense_id", expenseID)

	if err := s.store.DeleteExpense(ctx, groupID, expenseID); err != nil {
		slog.Error("DeleteExpense failed", "expense_id", expenseID, "error", err)
		return err
	}

	return nil
}
