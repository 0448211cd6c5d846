package models

import "github.com/shopspring/decimal"

// MemberBalance is a member's signed net position within a group.
// Positive means the group owes this member money, negative means the
// member owes the group. Balances are derived values and never persisted.
type MemberBalance struct {
	UserID      string
	DisplayName string

	// Balance carries full internal precision; render with two decimal
	// places at the boundary.
	Balance decimal.Decimal
}

// RecommendedSettlement is a system-suggested transfer that would help
// bring all balances to zero. It is not a financial record until a caller
// confirms it via settlement creation.
type RecommendedSettlement struct {
	FromUserID string
	ToUserID   string
	Amount     decimal.Decimal
}

// GroupSnapshot is one consistent read of everything the balance engine
// needs for a group.
type GroupSnapshot struct {
	Group       *Group
	Members     []Member
	Expenses    []Expense
	Shares      []ExpenseShare
	Settlements []Settlement
}

// GroupDetails is the composite group view: the group, its roster and
// ledger, plus everything derived from them. This is the single source of
// truth consumed by presentation layers.
type GroupDetails struct {
	Group       *Group
	Members     []Member
	Expenses    []Expense
	Settlements []Settlement

	// Balances is ordered largest creditor first.
	Balances []MemberBalance

	RecommendedSettlements []RecommendedSettlement

	// TotalExpense is the sum of all expense amounts in the group.
	TotalExpense decimal.Decimal

	// NetBalance is the sum of all member balances. It must be ~0; a
	// persistent nonzero value indicates a data-integrity problem
	// upstream (e.g., share rows not summing to their expense amount).
	NetBalance decimal.Decimal
}
