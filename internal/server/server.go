// Package server is the JSON-over-HTTP rendering of the ledger services.
// It translates requests into primitive arguments, calls the service
// layer and serializes the plain result structures; all domain logic
// lives below it.
package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"

	"github.com/splitfair/splitfair/internal/service"
)

// Server wires HTTP routes to the group and expense services.
type Server struct {
	groups   *service.GroupService
	expenses *service.ExpenseService
}

// New builds the HTTP handler with all routes and middleware attached.
func New(groups *service.GroupService, expenses *service.ExpenseService) http.Handler {
	s := &Server{groups: groups, expenses: expenses}

	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/groups", s.handleCreateGroup)
	mux.HandleFunc("GET /api/groups/{groupID}", s.handleGetGroupDetails)
	mux.HandleFunc("PATCH /api/groups/{groupID}", s.handleUpdateGroup)
	mux.HandleFunc("DELETE /api/groups/{groupID}", s.handleDeleteGroup)
	mux.HandleFunc("GET /api/users/{userID}/groups", s.handleListGroups)

	mux.HandleFunc("POST /api/groups/{groupID}/members", s.handleAddMember)
	mux.HandleFunc("DELETE /api/groups/{groupID}/members/{userID}", s.handleRemoveMember)

	mux.HandleFunc("POST /api/groups/{groupID}/expenses", s.handleAddExpense)
	mux.HandleFunc("PATCH /api/groups/{groupID}/expenses/{expenseID}", s.handleUpdateExpense)
	mux.HandleFunc("DELETE /api/groups/{groupID}/expenses/{expenseID}", s.handleDeleteExpense)

	mux.HandleFunc("GET /api/groups/{groupID}/balances", s.handleGetBalances)
	mux.HandleFunc("POST /api/groups/{groupID}/settlements", s.handleCreateSettlement)

	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	return loggingMiddleware(corsMiddleware(metricsMiddleware(mux, mux)))
}

type createGroupRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	SplitMode   string `json:"split_mode"`
	CreatedBy   string `json:"created_by"`
	CreatorName string `json:"creator_name"`
}

func (s *Server) handleCreateGroup(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	group, err := s.groups.CreateGroup(r.Context(), req.Name, req.Description, req.Icon, req.SplitMode, req.CreatedBy, req.CreatorName)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toGroupView(group))
}

func (s *Server) handleGetGroupDetails(w http.ResponseWriter, r *http.Request) {
	details, err := s.groups.GetGroupDetails(r.Context(), r.PathValue("groupID"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toGroupDetailsView(details))
}

type updateGroupRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	SplitMode   string `json:"split_mode"`
}

func (s *Server) handleUpdateGroup(w http.ResponseWriter, r *http.Request) {
	var req updateGroupRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	group, err := s.groups.UpdateGroup(r.Context(), r.PathValue("groupID"), req.Name, req.Description, req.Icon, req.SplitMode)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toGroupView(group))
}

func (s *Server) handleDeleteGroup(w http.ResponseWriter, r *http.Request) {
	if err := s.groups.DeleteGroup(r.Context(), r.PathValue("groupID")); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, nil)
}

func (s *Server) handleListGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := s.groups.ListGroups(r.Context(), r.PathValue("userID"))
	if err != nil {
		writeError(w, err)
		return
	}

	views := make([]groupView, len(groups))
	for i, g := range groups {
		views[i] = toGroupView(g)
	}
	writeJSON(w, http.StatusOK, views)
}

type addMemberRequest struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
}

func (s *Server) handleAddMember(w http.ResponseWriter, r *http.Request) {
	var req addMemberRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	member, err := s.groups.AddMember(r.Context(), r.PathValue("groupID"), req.UserID, req.DisplayName)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toMemberView(*member))
}

func (s *Server) handleRemoveMember(w http.ResponseWriter, r *http.Request) {
	if err := s.groups.RemoveMember(r.Context(), r.PathValue("groupID"), r.PathValue("userID")); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, nil)
}

type expenseRequest struct {
	PaidBy      string          `json:"paid_by"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	ExpenseDate int64           `json:"expense_date"`
}

func (s *Server) handleAddExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	expense, shares, err := s.expenses.AddExpense(r.Context(), r.PathValue("groupID"), req.PaidBy, req.Amount, req.Description, req.ExpenseDate)
	if err != nil {
		writeError(w, err)
		return
	}

	shareViews := make([]shareView, len(shares))
	for i, share := range shares {
		shareViews[i] = shareView{
			ExpenseID:   share.ExpenseID,
			UserID:      share.UserID,
			ShareAmount: share.ShareAmount.StringFixed(2),
		}
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"expense": expenseView{
			ExpenseID:   expense.ID,
			GroupID:     expense.GroupID,
			PaidBy:      expense.PaidBy,
			Amount:      expense.Amount.StringFixed(2),
			Description: expense.Description,
			ExpenseDate: expense.ExpenseDate,
			CreatedAt:   expense.CreatedAt,
		},
		"shares": shareViews,
	})
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	expense, err := s.expenses.UpdateExpense(r.Context(), r.PathValue("groupID"), r.PathValue("expenseID"), req.PaidBy, req.Amount, req.Description, req.ExpenseDate)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, expenseView{
		ExpenseID:   expense.ID,
		GroupID:     expense.GroupID,
		PaidBy:      expense.PaidBy,
		Amount:      expense.Amount.StringFixed(2),
		Description: expense.Description,
		ExpenseDate: expense.ExpenseDate,
		CreatedAt:   expense.CreatedAt,
	})
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	if err := s.expenses.DeleteExpense(r.Context(), r.PathValue("groupID"), r.PathValue("expenseID")); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, nil)
}

func (s *Server) handleGetBalances(w http.ResponseWriter, r *http.Request) {
	balances, err := s.groups.ComputeBalances(r.Context(), r.PathValue("groupID"), r.URL.Query().Get("mode"))
	if err != nil {
		writeError(w, err)
		return
	}

	views := make([]balanceView, len(balances))
	for i, b := range balances {
		views[i] = balanceView{
			UserID:      b.UserID,
			DisplayName: b.DisplayName,
			Balance:     b.Balance.StringFixed(2),
		}
	}
	writeJSON(w, http.StatusOK, views)
}

type createSettlementRequest struct {
	FromUserID string          `json:"from_user_id"`
	ToUserID   string          `json:"to_user_id"`
	Amount     decimal.Decimal `json:"amount"`
}

func (s *Server) handleCreateSettlement(w http.ResponseWriter, r *http.Request) {
	var req createSettlementRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	settlement, details, err := s.groups.CreateSettlement(r.Context(), r.PathValue("groupID"), req.FromUserID, req.ToUserID, req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}

	names := make(map[string]string, len(details.Members))
	for _, m := range details.Members {
		names[m.UserID] = m.DisplayName
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"settlement": toSettlementView(*settlement, names),
		"group":      toGroupDetailsView(details),
	})
}
