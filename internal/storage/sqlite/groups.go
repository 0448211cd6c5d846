package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/splitfair/splitfair/internal/models"
)

// CreateGroup persists a new group to the database.
func (s *SQLiteStore) CreateGroup(ctx context.Context, group *models.Group) error {
	if group.ID == "" {
		group.ID = newID()
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().Unix()
	}
	if group.Icon == "" {
		group.Icon = models.DefaultGroupIcon
	}
	if group.SplitMode == "" {
		group.SplitMode = models.SplitModeSplitwise
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO groups (id, name, description, icon, created_by, split_mode, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		group.ID, group.Name, group.Description, group.Icon,
		group.CreatedBy, string(group.SplitMode), group.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}

	return nil
}

// GetGroup retrieves a group by ID.
func (s *SQLiteStore) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	return getGroup(ctx, s.db, groupID)
}

func getGroup(ctx context.Context, q querier, groupID string) (*models.Group, error) {
	group := &models.Group{}
	var mode string

	err := q.QueryRowContext(ctx,
		`SELECT id, name, description, icon, created_by, split_mode, created_at
		 FROM groups WHERE id = ?`,
		groupID,
	).Scan(&group.ID, &group.Name, &group.Description, &group.Icon,
		&group.CreatedBy, &mode, &group.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, models.ErrGroupNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	group.SplitMode = models.SplitMode(mode)
	return group, nil
}

// UpdateGroup updates a group's mutable fields.
func (s *SQLiteStore) UpdateGroup(ctx context.Context, group *models.Group) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE groups SET name = ?, description = ?, icon = ?, split_mode = ? WHERE id = ?`,
		group.Name, group.Description, group.Icon, string(group.SplitMode), group.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update group: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if n == 0 {
		return models.ErrGroupNotFound
	}

	return nil
}

// DeleteGroup removes a group; members, expenses, shares and settlements
// cascade via foreign keys.
func (s *SQLiteStore) DeleteGroup(ctx context.Context, groupID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM groups WHERE id = ?", groupID)
	if err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if n == 0 {
		return models.ErrGroupNotFound
	}

	return nil
}

// ListGroupsForUser returns all groups the user belongs to, newest first.
func (s *SQLiteStore) ListGroupsForUser(ctx context.Context, userID string) ([]*models.Group, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT g.id, g.name, g.description, g.icon, g.created_by, g.split_mode, g.created_at
		 FROM groups g
		 JOIN group_members gm ON gm.group_id = g.id
		 WHERE gm.user_id = ?
		 ORDER BY g.created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups for user: %w", err)
	}
	defer rows.Close()

	var groups []*models.Group
	for rows.Next() {
		group := &models.Group{}
		var mode string
		if err := rows.Scan(&group.ID, &group.Name, &group.Description, &group.Icon,
			&group.CreatedBy, &mode, &group.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		group.SplitMode = models.SplitMode(mode)
		groups = append(groups, group)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}

	return groups, nil
}

// AddMember adds a user to a group's roster, updating the display name
// if the user is already a member.
func (s *SQLiteStore) AddMember(ctx context.Context, member *models.Member) error {
	// The referenced group must exist; the FK only guards inserts that
	// reach the table, not a helpful error message.
	if _, err := getGroup(ctx, s.db, member.GroupID); err != nil {
		return err
	}

	if member.JoinedAt == 0 {
		member.JoinedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO group_members (group_id, user_id, display_name, joined_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (group_id, user_id) DO UPDATE SET display_name = excluded.display_name`,
		member.GroupID, member.UserID, member.DisplayName, member.JoinedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert member: %w", err)
	}

	return nil
}

// RemoveMember removes a user from a group's roster.
func (s *SQLiteStore) RemoveMember(ctx context.Context, groupID, userID string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM group_members WHERE group_id = ? AND user_id = ?",
		groupID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check remove result: %w", err)
	}
	if n == 0 {
		return models.ErrMemberNotFound
	}

	return nil
}

// ListMembers returns the roster in join order.
func (s *SQLiteStore) ListMembers(ctx context.Context, groupID string) ([]models.Member, error) {
	return listMembers(ctx, s.db, groupID)
}

func listMembers(ctx context.Context, q querier, groupID string) ([]models.Member, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT group_id, user_id, display_name, joined_at
		 FROM group_members WHERE group_id = ?
		 ORDER BY joined_at, user_id`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	var members []models.Member
	for rows.Next() {
		var m models.Member
		if err := rows.Scan(&m.GroupID, &m.UserID, &m.DisplayName, &m.JoinedAt); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}

	return members, nil
}
