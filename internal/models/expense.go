package models

import "github.com/shopspring/decimal"

// Expense represents a shared expense paid by one group member.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// GroupID is the group this expense belongs to.
	GroupID string

	// PaidBy is the user ID of the member who paid.
	PaidBy string

	// Amount is the expense amount in currency-less decimal units.
	// Must be greater than zero.
	Amount decimal.Decimal

	// Description is the human-readable label (e.g., "Groceries").
	Description string

	// ExpenseDate is the Unix timestamp of when the expense happened,
	// as opposed to when it was entered.
	ExpenseDate int64

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64
}

// ExpenseShare is one member's portion of one expense. Shares are derived
// as an equal split over the members present at expense creation time and
// are not recomputed when membership changes later; they only participate
// in tricount-mode balances.
type ExpenseShare struct {
	ExpenseID   string
	UserID      string
	ShareAmount decimal.Decimal
}
