package service

import (
	"context"
	"errors"
	"testing"

	"github.com/splitfair/splitfair/internal/models"
)

func TestCreateSettlement(t *testing.T) {
	groups, expenses := setupServices(t)
	ctx := context.Background()

	// A paid 90 for three: B and C each owe A 30.
	group := newGroup(t, groups, "splitwise", "A", "B", "C")
	if _, _, err := expenses.AddExpense(ctx, group.ID, "A", dec("90"), "Dinner", 0); err != nil {
		t.Fatalf("AddExpense failed: %v", err)
	}

	t.Run("exact settlement clears the debt", func(t *testing.T) {
		settlement, details, err := groups.CreateSettlement(ctx, group.ID, "B", "A", dec("30"))
		if err != nil {
			t.Fatalf("CreateSettlement failed: %v", err)
		}
		if !settlement.Amount.Equal(dec("30")) {
			t.Errorf("settled amount = %s, want 30", settlement.Amount)
		}
		if !settlement.IsPaid {
			t.Error("expected settlement to be marked paid")
		}

		// B's debt is gone; only C -> A remains.
		recs := details.RecommendedSettlements
		if len(recs) != 1 || recs[0].FromUserID != "C" || recs[0].ToUserID != "A" {
			t.Fatalf("expected only C->A left, got %+v", recs)
		}
		for _, b := range details.Balances {
			if b.UserID == "B" && !b.Balance.IsZero() {
				t.Errorf("B balance = %s, want 0", b.Balance)
			}
		}
	})

	t.Run("over-settlement is clamped, not rejected", func(t *testing.T) {
		// C owes 30; asking to settle 100 records exactly 30.
		settlement, details, err := groups.CreateSettlement(ctx, group.ID, "C", "A", dec("100"))
		if err != nil {
			t.Fatalf("CreateSettlement failed: %v", err)
		}
		if !settlement.Amount.Equal(dec("30")) {
			t.Errorf("settled amount = %s, want clamped 30", settlement.Amount)
		}

		if len(details.RecommendedSettlements) != 0 {
			t.Errorf("expected no recommendations left, got %+v", details.RecommendedSettlements)
		}
		for _, b := range details.Balances {
			if !b.Balance.IsZero() {
				t.Errorf("%s balance = %s, want 0", b.UserID, b.Balance)
			}
		}
	})

	t.Run("settling an unrecommended direction conflicts", func(t *testing.T) {
		// Everything is settled now; B -> A is stale.
		_, _, err := groups.CreateSettlement(ctx, group.ID, "B", "A", dec("10"))
		if !errors.Is(err, models.ErrNothingToSettle) {
			t.Errorf("expected ErrNothingToSettle, got %v", err)
		}
	})
}

func TestCreateSettlement_WrongDirection(t *testing.T) {
	groups, expenses := setupServices(t)
	ctx := context.Background()

	group := newGroup(t, groups, "splitwise", "A", "B")
	if _, _, err := expenses.AddExpense(ctx, group.ID, "A", dec("60"), "Tickets", 0); err != nil {
		t.Fatalf("AddExpense failed: %v", err)
	}

	// B owes A, so A -> B is not a recommended direction.
	_, _, err := groups.CreateSettlement(ctx, group.ID, "A", "B", dec("30"))
	if !errors.Is(err, models.ErrNothingToSettle) {
		t.Errorf("expected ErrNothingToSettle for reversed direction, got %v", err)
	}
}

func TestCreateSettlement_PartialLeavesRemainder(t *testing.T) {
	groups, expenses := setupServices(t)
	ctx := context.Background()

	group := newGroup(t, groups, "splitwise", "A", "B")
	if _, _, err := expenses.AddExpense(ctx, group.ID, "A", dec("60"), "Hotel", 0); err != nil {
		t.Fatalf("AddExpense failed: %v", err)
	}

	// B owes 30, settles 10: 20 remains recommended.
	settlement, details, err := groups.CreateSettlement(ctx, group.ID, "B", "A", dec("10"))
	if err != nil {
		t.Fatalf("CreateSettlement failed: %v", err)
	}
	if !settlement.Amount.Equal(dec("10")) {
		t.Errorf("settled amount = %s, want 10", settlement.Amount)
	}

	recs := details.RecommendedSettlements
	if len(recs) != 1 || !recs[0].Amount.Equal(dec("20")) {
		t.Fatalf("expected B->A 20 remaining, got %+v", recs)
	}
}

func TestCreateSettlement_Validation(t *testing.T) {
	groups, _ := setupServices(t)
	ctx := context.Background()

	group := newGroup(t, groups, "splitwise", "A", "B")

	tests := []struct {
		name   string
		from   string
		to     string
		amount string
	}{
		{name: "zero amount", from: "B", to: "A", amount: "0"},
		{name: "negative amount", from: "B", to: "A", amount: "-5"},
		{name: "missing from", from: "", to: "A", amount: "10"},
		{name: "self settlement", from: "A", to: "A", amount: "10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := groups.CreateSettlement(ctx, group.ID, tt.from, tt.to, dec(tt.amount))
			if !models.IsValidation(err) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestCreateSettlement_GroupNotFound(t *testing.T) {
	groups, _ := setupServices(t)

	_, _, err := groups.CreateSettlement(context.Background(), "nope", "B", "A", dec("10"))
	if !errors.Is(err, models.ErrGroupNotFound) {
		t.Errorf("expected ErrGroupNotFound, got %v", err)
	}
}
