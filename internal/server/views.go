package server

import "github.com/splitfair/splitfair/internal/models"

// View types are the JSON shapes served to clients. Monetary fields are
// rendered as strings with exactly two decimal places.

type groupView struct {
	GroupID     string `json:"group_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	CreatedBy   string `json:"created_by"`
	SplitMode   string `json:"split_mode"`
	CreatedAt   int64  `json:"created_at"`
}

type memberView struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	JoinedAt    int64  `json:"joined_at"`
}

type expenseView struct {
	ExpenseID   string `json:"expense_id"`
	GroupID     string `json:"group_id"`
	PaidBy      string `json:"paid_by"`
	PaidByName  string `json:"paid_by_name,omitempty"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
	ExpenseDate int64  `json:"expense_date"`
	CreatedAt   int64  `json:"created_at"`
}

type shareView struct {
	ExpenseID   string `json:"expense_id"`
	UserID      string `json:"user_id"`
	ShareAmount string `json:"share_amount"`
}

type settlementView struct {
	SettlementID string `json:"settlement_id"`
	GroupID      string `json:"group_id"`
	FromUserID   string `json:"from_user_id"`
	FromUserName string `json:"from_user_name,omitempty"`
	ToUserID     string `json:"to_user_id"`
	ToUserName   string `json:"to_user_name,omitempty"`
	Amount       string `json:"amount"`
	SettledAt    int64  `json:"settled_at"`
	IsPaid       bool   `json:"is_paid"`
}

type balanceView struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	Balance     string `json:"balance"`
}

type recommendedSettlementView struct {
	FromUserID string `json:"from_user_id"`
	ToUserID   string `json:"to_user_id"`
	Amount     string `json:"amount"`
}

type groupDetailsView struct {
	Group                  groupView                   `json:"group"`
	Members                []memberView                `json:"members"`
	Expenses               []expenseView               `json:"expenses"`
	Settlements            []settlementView            `json:"settlements"`
	Balances               []balanceView               `json:"balances"`
	RecommendedSettlements []recommendedSettlementView `json:"recommended_settlements"`
	TotalExpense           string                      `json:"total_expense"`
	NetBalance             string                      `json:"net_balance"`
}

func toGroupView(g *models.Group) groupView {
	return groupView{
		GroupID:     g.ID,
		Name:        g.Name,
		Description: g.Description,
		Icon:        g.Icon,
		CreatedBy:   g.CreatedBy,
		SplitMode:   string(g.SplitMode),
		CreatedAt:   g.CreatedAt,
	}
}

func toMemberView(m models.Member) memberView {
	return memberView{UserID: m.UserID, DisplayName: m.DisplayName, JoinedAt: m.JoinedAt}
}

func toSettlementView(s models.Settlement, names map[string]string) settlementView {
	return settlementView{
		SettlementID: s.ID,
		GroupID:      s.GroupID,
		FromUserID:   s.FromUserID,
		FromUserName: names[s.FromUserID],
		ToUserID:     s.ToUserID,
		ToUserName:   names[s.ToUserID],
		Amount:       s.Amount.StringFixed(2),
		SettledAt:    s.SettledAt,
		IsPaid:       s.IsPaid,
	}
}

func toGroupDetailsView(d *models.GroupDetails) groupDetailsView {
	names := make(map[string]string, len(d.Members))
	members := make([]memberView, len(d.Members))
	for i, m := range d.Members {
		names[m.UserID] = m.DisplayName
		members[i] = toMemberView(m)
	}

	expenses := make([]expenseView, len(d.Expenses))
	for i, e := range d.Expenses {
		expenses[i] = expenseView{
			ExpenseID:   e.ID,
			GroupID:     e.GroupID,
			PaidBy:      e.PaidBy,
			PaidByName:  names[e.PaidBy],
			Amount:      e.Amount.StringFixed(2),
			Description: e.Description,
			ExpenseDate: e.ExpenseDate,
			CreatedAt:   e.CreatedAt,
		}
	}

	settlements := make([]settlementView, len(d.Settlements))
	for i, s := range d.Settlements {
		settlements[i] = toSettlementView(s, names)
	}

	balances := make([]balanceView, len(d.Balances))
	for i, b := range d.Balances {
		balances[i] = balanceView{
			UserID:      b.UserID,
			DisplayName: b.DisplayName,
			Balance:     b.Balance.StringFixed(2),
		}
	}

	recs := make([]recommendedSettlementView, len(d.RecommendedSettlements))
	for i, r := range d.RecommendedSettlements {
		recs[i] = recommendedSettlementView{
			FromUserID: r.FromUserID,
			ToUserID:   r.ToUserID,
			Amount:     r.Amount.StringFixed(2),
		}
	}

	return groupDetailsView{
		Group:                  toGroupView(d.Group),
		Members:                members,
		Expenses:               expenses,
		Settlements:            settlements,
		Balances:               balances,
		RecommendedSettlements: recs,
		TotalExpense:           d.TotalExpense.StringFixed(2),
		NetBalance:             d.NetBalance.StringFixed(2),
	}
}
