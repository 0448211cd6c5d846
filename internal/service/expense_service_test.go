package service

import (
	"context"
	"errors"
	"testing"

	"github.com/splitfair/splitfair/internal/models"
)

func TestAddExpense(t *testing.T) {
	groups, expenses := setupServices(t)
	ctx := context.Background()

	group := newGroup(t, groups, "tricount", "A", "B")

	expense, shares, err := expenses.AddExpense(ctx, group.ID, "A", dec("25.50"), "  Lunch  ", 1700000000)
	if err != nil {
		t.Fatalf("AddExpense failed: %v", err)
	}
	if expense.ID == "" {
		t.Error("expected expense ID to be generated")
	}
	if expense.Description != "Lunch" {
		t.Errorf("description = %q, want trimmed", expense.Description)
	}
	if expense.ExpenseDate != 1700000000 {
		t.Errorf("expense date = %d, want 1700000000", expense.ExpenseDate)
	}
	if len(shares) != 2 {
		t.Fatalf("expected 2 shares, got %d", len(shares))
	}
	for _, share := range shares {
		if !share.ShareAmount.Equal(dec("12.75")) {
			t.Errorf("share = %s, want 12.75", share.ShareAmount)
		}
	}
}

func TestAddExpense_Validation(t *testing.T) {
	groups, expenses := setupServices(t)
	ctx := context.Background()

	group := newGroup(t, groups, "splitwise", "A")

	tests := []struct {
		name        string
		paidBy      string
		amount      string
		description string
	}{
		{name: "zero amount", paidBy: "A", amount: "0", description: "x"},
		{name: "negative amount", paidBy: "A", amount: "-1", description: "x"},
		{name: "missing payer", paidBy: "", amount: "10", description: "x"},
		{name: "blank description", paidBy: "A", amount: "10", description: "   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := expenses.AddExpense(ctx, group.ID, tt.paidBy, dec(tt.amount), tt.description, 0)
			if !models.IsValidation(err) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestUpdateExpense_ChangesBalances(t *testing.T) {
	groups, expenses := setupServices(t)
	ctx := context.Background()

	group := newGroup(t, groups, "splitwise", "A", "B")
	expense, _, err := expenses.AddExpense(ctx, group.ID, "A", dec("40"), "Groceries", 0)
	if err != nil {
		t.Fatalf("AddExpense failed: %v", err)
	}

	if _, err := expenses.UpdateExpense(ctx, group.ID, expense.ID, "B", dec("100"), "Groceries", expense.ExpenseDate); err != nil {
		t.Fatalf("UpdateExpense failed: %v", err)
	}

	details, err := groups.GetGroupDetails(ctx, group.ID)
	if err != nil {
		t.Fatalf("GetGroupDetails failed: %v", err)
	}
	// B now paid 100 with a fair share of 50 each.
	if details.Balances[0].UserID != "B" || !details.Balances[0].Balance.Equal(dec("50")) {
		t.Errorf("top balance = %+v, want B +50", details.Balances[0])
	}
}

func TestDeleteExpense_RemovesDebt(t *testing.T) {
	groups, expenses := setupServices(t)
	ctx := context.Background()

	group := newGroup(t, groups, "splitwise", "A", "B")
	expense, _, err := expenses.AddExpense(ctx, group.ID, "A", dec("40"), "Groceries", 0)
	if err != nil {
		t.Fatalf("AddExpense failed: %v", err)
	}

	if err := expenses.DeleteExpense(ctx, group.ID, expense.ID); err != nil {
		t.Fatalf("DeleteExpense failed: %v", err)
	}
	if err := expenses.DeleteExpense(ctx, group.ID, expense.ID); !errors.Is(err, models.ErrExpenseNotFound) {
		t.Errorf("expected ErrExpenseNotFound on double delete, got %v", err)
	}

	details, err := groups.GetGroupDetails(ctx, group.ID)
	if err != nil {
		t.Fatalf("GetGroupDetails failed: %v", err)
	}
	if len(details.RecommendedSettlements) != 0 {
		t.Errorf("expected no recommendations after delete, got %+v", details.RecommendedSettlements)
	}
	if !details.TotalExpense.IsZero() {
		t.Errorf("total expense = %s, want 0", details.TotalExpense)
	}
}
