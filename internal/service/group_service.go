// Package service orchestrates the ledger store and the calculator into
// the operations the transport layer exposes.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/splitfair/splitfair/internal/calculator"
	"github.com/splitfair/splitfair/internal/metrics"
	"github.com/splitfair/splitfair/internal/models"
	"github.com/splitfair/splitfair/internal/storage"
)

// netEpsilon is the tolerance for the zero-sum check on a group's net
// balance; deviations beyond it are logged as integrity warnings.
var netEpsilon = decimal.New(1, -6)

// GroupService implements group management and the aggregation contract:
// one consistent group-details snapshot per read, with balances and
// recommended settlements computed fresh every time.
type GroupService struct {
	store storage.Store
}

// NewGroupService creates a new GroupService with the given storage backend.
func NewGroupService(store storage.Store) *GroupService {
	return &GroupService{store: store}
}

// CreateGroup creates a new group and puts the creator on the roster.
func (s *GroupService) CreateGroup(ctx context.Context, name, description, icon, splitMode, createdBy, creatorName string) (*models.Group, error) {
	slog.Info("CreateGroup request received", "name", name, "split_mode", splitMode)

	if strings.TrimSpace(name) == "" {
		return nil, models.NewValidationError("group name is required")
	}
	if createdBy == "" {
		return nil, models.NewValidationError("creator id is required")
	}

	mode := models.SplitModeSplitwise
	if splitMode != "" {
		var err error
		if mode, err = models.ParseSplitMode(splitMode); err != nil {
			return nil, err
		}
	}

	group := &models.Group{
		Name:        strings.TrimSpace(name),
		Description: description,
		Icon:        strings.TrimSpace(icon),
		CreatedBy:   createdBy,
		SplitMode:   mode,
	}
	if err := s.store.CreateGroup(ctx, group); err != nil {
		slog.Error("CreateGroup failed", "error", err)
		return nil, err
	}

	// The creator joins their own group immediately.
	member := &models.Member{
		GroupID:     group.ID,
		UserID:      createdBy,
		DisplayName: creatorName,
	}
	if err := s.store.AddMember(ctx, member); err != nil {
		slog.Error("CreateGroup failed to add creator", "group_id", group.ID, "error", err)
		return nil, err
	}

	slog.Info("Group created", "group_id", group.ID)
	return group, nil
}

// UpdateGroup updates a group's name, description, icon and split mode.
// Empty arguments leave the current value untouched.
func (s *GroupService) UpdateGroup(ctx context.Context, groupID, name, description, icon, splitMode string) (*models.Group, error) {
	slog.Info("UpdateGroup request received", "group_id", groupID)

	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(name) != "" {
		group.Name = strings.TrimSpace(name)
	}
	if description != "" {
		group.Description = description
	}
	if strings.TrimSpace(icon) != "" {
		group.Icon = strings.TrimSpace(icon)
	}
	if splitMode != "" {
		mode, err := models.ParseSplitMode(splitMode)
		if err != nil {
			return nil, err
		}
		group.SplitMode = mode
	}

	if err := s.store.UpdateGroup(ctx, group); err != nil {
		slog.Error("UpdateGroup failed", "group_id", groupID, "error", err)
		return nil, err
	}

	slog.Info("Group updated", "group_id", groupID, "split_mode", group.SplitMode)
	return group, nil
}

// DeleteGroup removes a group and everything it owns.
func (s *GroupService) DeleteGroup(ctx context.Context, groupID string) error {
	slog.Info("DeleteGroup request received", "group_id", groupID)
	return s.store.DeleteGroup(ctx, groupID)
}

// ListGroups returns all groups the user belongs to.
func (s *GroupService) ListGroups(ctx context.Context, userID string) ([]*models.Group, error) {
	if userID == "" {
		return nil, models.NewValidationError("user id is required")
	}
	return s.store.ListGroupsForUser(ctx, userID)
}

// AddMember puts a user on a group's roster.
func (s *GroupService) AddMember(ctx context.Context, groupID, userID, displayName string) (*models.Member, error) {
	slog.Info("AddMember request received", "group_id", groupID, "user_id", userID)

	if userID == "" {
		return nil, models.NewValidationError("user id is required")
	}

	member := &models.Member{
		GroupID:     groupID,
		UserID:      userID,
		DisplayName: displayName,
	}
	if err := s.store.AddMember(ctx, member); err != nil {
		slog.Error("AddMember failed", "group_id", groupID, "user_id", userID, "error", err)
		return nil, err
	}

	return member, nil
}

// RemoveMember takes a user off a group's roster. Their historical
// expenses, shares and settlements stay on the ledger.
func (s *GroupService) RemoveMember(ctx context.Context, groupID, userID string) error {
	slog.Info("RemoveMember request received", "group_id", groupID, "user_id", userID)
	return s.store.RemoveMember(ctx, groupID, userID)
}

// GetGroupDetails assembles one consistent group view: roster, expenses,
// settlements, balances and recommended settlements, plus the group
// total and the net balance. The split mode is read fresh on every call.
func (s *GroupService) GetGroupDetails(ctx context.Context, groupID string) (*models.GroupDetails, error) {
	snap, err := s.store.Snapshot(ctx, groupID)
	if err != nil {
		if !errors.Is(err, models.ErrGroupNotFound) {
			slog.Error("GetGroupDetails failed", "group_id", groupID, "error", err)
		}
		return nil, err
	}

	return s.buildDetails(snap), nil
}

// ComputeBalances returns the ordered member balances for a group. An
// empty mode uses the group's current split mode; a non-empty mode
// overrides it for this one computation.
func (s *GroupService) ComputeBalances(ctx context.Context, groupID, splitMode string) ([]models.MemberBalance, error) {
	mode := models.SplitMode("")
	if splitMode != "" {
		var err error
		if mode, err = models.ParseSplitMode(splitMode); err != nil {
			return nil, err
		}
	}

	snap, err := s.store.Snapshot(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if mode == "" {
		mode = snap.Group.SplitMode
	}

	metrics.BalanceComputations.WithLabelValues(string(mode)).Inc()
	return calculator.ComputeBalances(mode, snap.Members, snap.Expenses, snap.Shares, snap.Settlements), nil
}

// buildDetails derives the full view from a snapshot.
func (s *GroupService) buildDetails(snap *models.GroupSnapshot) *models.GroupDetails {
	mode := snap.Group.SplitMode
	metrics.BalanceComputations.WithLabelValues(string(mode)).Inc()

	balances := calculator.ComputeBalances(mode, snap.Members, snap.Expenses, snap.Shares, snap.Settlements)
	net := calculator.NetBalance(balances)
	if net.Abs().Cmp(netEpsilon) > 0 {
		// Non-fatal: the view is still served, but the ledger data is
		// inconsistent upstream (e.g. shares not summing to an expense).
		metrics.IntegrityWarnings.Inc()
		slog.Warn("nonzero net balance",
			"group_id", snap.Group.ID,
			"split_mode", mode,
			"net_balance", net.String(),
		)
	}

	return &models.GroupDetails{
		Group:                  snap.Group,
		Members:                snap.Members,
		Expenses:               snap.Expenses,
		Settlements:            snap.Settlements,
		Balances:               balances,
		RecommendedSettlements: calculator.RecommendSettlements(balances),
		TotalExpense:           calculator.TotalExpense(snap.Expenses),
		NetBalance:             net,
	}
}
