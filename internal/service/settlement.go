package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/splitfair/splitfair/internal/calculator"
	"github.com/splitfair/splitfair/internal/metrics"
	"github.com/splitfair/splitfair/internal/models"
)

// CreateSettlement records "fromUserID pays toUserID amount" against the
// group's current recommendations and returns the persisted settlement
// together with the fresh group view.
//
// The request is only accepted if the engine currently recommends a
// transfer in exactly that direction; otherwise models.ErrNothingToSettle
// is returned so stale clients cannot insert duplicate settlements. The
// amount is clamped to the recommended amount, a caller can never settle
// more than is currently owed. Validation, recomputation, clamping and
// the insert all run inside one store transaction, so two concurrent
// settle calls cannot both consume the same recommendation.
func (s *GroupService) CreateSettlement(ctx context.Context, groupID, fromUserID, toUserID string, amount decimal.Decimal) (*models.Settlement, *models.GroupDetails, error) {
	slog.Info("CreateSettlement request received",
		"group_id", groupID,
		"from_user_id", fromUserID,
		"to_user_id", toUserID,
		"amount", amount.String(),
	)

	if fromUserID == "" || toUserID == "" {
		return nil, nil, models.NewValidationError("from_user_id and to_user_id are required")
	}
	if fromUserID == toUserID {
		return nil, nil, models.NewValidationError("cannot settle with yourself")
	}
	if !amount.IsPositive() {
		return nil, nil, models.NewValidationError("amount must be greater than zero")
	}

	settlement, err := s.store.Settle(ctx, groupID, func(snap *models.GroupSnapshot) (*models.Settlement, error) {
		balances := calculator.ComputeBalances(snap.Group.SplitMode, snap.Members, snap.Expenses, snap.Shares, snap.Settlements)
		recs := calculator.RecommendSettlements(balances)

		rec := calculator.FindRecommendation(recs, fromUserID, toUserID)
		if rec == nil {
			return nil, models.ErrNothingToSettle
		}

		// Never settle more than is currently owed in this direction.
		settled := amount
		if rec.Amount.Cmp(settled) < 0 {
			settled = rec.Amount
		}

		return &models.Settlement{
			GroupID:    groupID,
			FromUserID: fromUserID,
			ToUserID:   toUserID,
			Amount:     settled.Round(2),
			IsPaid:     true,
		}, nil
	})
	if err != nil {
		if errors.Is(err, models.ErrNothingToSettle) {
			metrics.SettlementConflicts.Inc()
			slog.Info("CreateSettlement conflict",
				"group_id", groupID,
				"from_user_id", fromUserID,
				"to_user_id", toUserID,
			)
		} else {
			slog.Error("CreateSettlement failed", "group_id", groupID, "error", err)
		}
		return nil, nil, err
	}

	metrics.SettlementsCreated.Inc()
	slog.Info("Settlement recorded",
		"settlement_id", settlement.ID,
		"group_id", groupID,
		"amount", settlement.Amount.String(),
	)

	// Return the fresh view so the caller immediately sees the updated
	// balances and recommendations.
	details, err := s.GetGroupDetails(ctx, groupID)
	if err != nil {
		return nil, nil, err
	}

	return settlement, details, nil
}
