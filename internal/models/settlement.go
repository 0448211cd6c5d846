package models

import "github.com/shopspring/decimal"

// Settlement records a payment between group members to clear debts.
// Settlements are append-only: once recorded they are never edited and
// permanently shift both users' balances.
type Settlement struct {
	// ID is the unique identifier for the settlement (UUID format).
	ID string

	// GroupID is the group this settlement belongs to.
	GroupID string

	// FromUserID is the user who paid (debtor settling up).
	FromUserID string

	// ToUserID is the user who received payment (creditor being paid).
	ToUserID string

	// Amount is the payment amount.
	Amount decimal.Decimal

	// SettledAt is the Unix timestamp when the settlement was recorded.
	SettledAt int64

	// IsPaid marks the settlement as executed. Only paid settlements
	// affect balances; false is a reserved pending state that nothing
	// currently writes.
	IsPaid bool
}
