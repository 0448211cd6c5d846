// Package models defines the core domain models for Splitfair.
//
// # Persisted Models
//
//   - Group: An expense-sharing group with a split mode
//   - Member: A (group, user) roster entry
//   - Expense: A shared expense paid by one member
//   - ExpenseShare: One member's portion of one expense (tricount mode)
//   - Settlement: An append-only record of a payment between members
//
// User identity and profiles are owned by an external collaborator; the
// ledger only keeps an opaque user ID and a display name per roster entry.
//
// # Derived Models
//
// Balances and recommended settlements are values, not rows. They are
// recomputed from the persisted models on every read and never stored:
//
//   - MemberBalance: A member's signed net position
//   - RecommendedSettlement: A suggested transfer to zero out balances
//   - GroupDetails: The composite group view assembled by the service
//
// # Design Principles
//
// 1. **Exact money**: All amounts are decimal.Decimal, never float64
// 2. **Append-only settlements**: A settlement is never edited once recorded
// 3. **Avoid circular references**: Models reference each other by ID strings
package models
