// Package calculator implements the balance computation and settlement
// recommendation engine. Everything here is pure computation over rows
// fetched by the caller; the package does no I/O and keeps no state.
package calculator

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/splitfair/splitfair/internal/models"
)

// epsilon absorbs decimal residue left over from divisions and rounding.
// Remainders at or below this are treated as zero.
var epsilon = decimal.New(1, -6) // 1e-6

// ComputeBalances computes the net balance of every group member under
// the given split mode.
//
// Per mode the raw balance of a member is:
//   - splitwise: (total paid as payer) - (group total / member count)
//   - tricount:  (total paid as payer) - (sum of own expense shares)
//
// On top of the raw balance, every paid settlement increases the
// from-user's balance and decreases the to-user's balance by its amount.
// Unpaid settlements do not affect balances.
//
// Only roster members get a balance; payments or settlements involving
// users who have since left the group still contribute to the group total
// but are not reported. An empty roster yields an empty result, and in
// splitwise mode a zero fair share rather than a division by zero.
//
// The result is sorted descending by balance (largest creditor first),
// preserving roster order on ties. Balances carry full precision; callers
// round for display.
func ComputeBalances(
	mode models.SplitMode,
	members []models.Member,
	expenses []models.Expense,
	shares []models.ExpenseShare,
	settlements []models.Settlement,
) []models.MemberBalance {
	balances := make([]models.MemberBalance, len(members))
	index := make(map[string]int, len(members))
	for i, m := range members {
		balances[i] = models.MemberBalance{
			UserID:      m.UserID,
			DisplayName: m.DisplayName,
			Balance:     decimal.Zero,
		}
		index[m.UserID] = i
	}

	// Credit each member with what they paid as payer. The group total
	// includes every expense, even ones paid by former members.
	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(e.Amount)
		if i, ok := index[e.PaidBy]; ok {
			balances[i].Balance = balances[i].Balance.Add(e.Amount)
		}
	}

	switch mode {
	case models.SplitModeTricount:
		for _, s := range shares {
			if i, ok := index[s.UserID]; ok {
				balances[i].Balance = balances[i].Balance.Sub(s.ShareAmount)
			}
		}
	default:
		// Splitwise: everyone owes an equal share of the group total.
		if n := len(members); n > 0 {
			fairShare := total.Div(decimal.NewFromInt(int64(n)))
			for i := range balances {
				balances[i].Balance = balances[i].Balance.Sub(fairShare)
			}
		}
	}

	for _, s := range settlements {
		if !s.IsPaid {
			continue
		}
		if i, ok := index[s.FromUserID]; ok {
			balances[i].Balance = balances[i].Balance.Add(s.Amount)
		}
		if i, ok := index[s.ToUserID]; ok {
			balances[i].Balance = balances[i].Balance.Sub(s.Amount)
		}
	}

	sort.SliceStable(balances, func(i, j int) bool {
		return balances[i].Balance.Cmp(balances[j].Balance) > 0
	})

	return balances
}

// TotalExpense sums all expense amounts.
func TotalExpense(expenses []models.Expense) decimal.Decimal {
	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(e.Amount)
	}
	return total
}

// NetBalance sums all member balances. A result beyond epsilon from zero
// indicates inconsistent ledger data.
func NetBalance(balances []models.MemberBalance) decimal.Decimal {
	net := decimal.Zero
	for _, b := range balances {
		net = net.Add(b.Balance)
	}
	return net
}
