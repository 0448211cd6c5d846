package calculator

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/splitfair/splitfair/internal/models"
)

// remaining tracks how much of a member's balance is still unmatched
// while walking the creditor and debtor lists.
type remaining struct {
	userID string
	amount decimal.Decimal
}

// RecommendSettlements converts signed balances into a list of suggested
// transfers that would zero all balances if executed.
//
// The matching is the classic greedy debt-simplification heuristic: sort
// creditors and debtors descending by remaining amount, then walk both
// lists with two cursors, settling min(debtor remaining, creditor
// remaining) at each step. It is deterministic but not guaranteed to
// minimize the number of transfers.
//
// Emitted amounts are rounded to two decimal places; matches at or below
// epsilon are dropped. The sum of emitted amounts equals the sum of all
// positive balances up to rounding. With no creditors or no debtors the
// result is empty.
func RecommendSettlements(balances []models.MemberBalance) []models.RecommendedSettlement {
	var creditors, debtors []remaining
	for _, b := range balances {
		switch {
		case b.Balance.IsPositive():
			creditors = append(creditors, remaining{userID: b.UserID, amount: b.Balance})
		case b.Balance.IsNegative():
			debtors = append(debtors, remaining{userID: b.UserID, amount: b.Balance.Neg()})
		}
	}

	// Largest remaining first; stable so exact ties keep input order.
	byAmountDesc := func(rs []remaining) func(i, j int) bool {
		return func(i, j int) bool { return rs[i].amount.Cmp(rs[j].amount) > 0 }
	}
	sort.SliceStable(creditors, byAmountDesc(creditors))
	sort.SliceStable(debtors, byAmountDesc(debtors))

	var recs []models.RecommendedSettlement
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		debtor := &debtors[i]
		creditor := &creditors[j]

		amount := debtor.amount
		if creditor.amount.Cmp(amount) < 0 {
			amount = creditor.amount
		}

		if amount.Cmp(epsilon) > 0 {
			recs = append(recs, models.RecommendedSettlement{
				FromUserID: debtor.userID,
				ToUserID:   creditor.userID,
				Amount:     amount.Round(2),
			})
		}

		debtor.amount = debtor.amount.Sub(amount)
		creditor.amount = creditor.amount.Sub(amount)

		if debtor.amount.Cmp(epsilon) <= 0 {
			i++
		}
		if creditor.amount.Cmp(epsilon) <= 0 {
			j++
		}
	}

	return recs
}

// FindRecommendation returns the recommended settlement for the exact
// directed pair (from, to), or nil if nothing is owed in that direction.
func FindRecommendation(recs []models.RecommendedSettlement, fromUserID, toUserID string) *models.RecommendedSettlement {
	for i := range recs {
		if recs[i].FromUserID == fromUserID && recs[i].ToUserID == toUserID {
			return &recs[i]
		}
	}
	return nil
}
