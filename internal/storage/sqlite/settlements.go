package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/splitfair/splitfair/internal/models"
)

// CreateSettlement appends a settlement row to the ledger.
func (s *SQLiteStore) CreateSettlement(ctx context.Context, settlement *models.Settlement) error {
	return insertSettlement(ctx, s.db, settlement)
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertSettlement(ctx context.Context, q execer, settlement *models.Settlement) error {
	if settlement.ID == "" {
		settlement.ID = newID()
	}
	if settlement.SettledAt == 0 {
		settlement.SettledAt = time.Now().Unix()
	}

	isPaid := 0
	if settlement.IsPaid {
		isPaid = 1
	}

	_, err := q.ExecContext(ctx,
		`INSERT INTO settlements (id, group_id, from_user_id, to_user_id, amount, settled_at, is_paid)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		settlement.ID, settlement.GroupID, settlement.FromUserID, settlement.ToUserID,
		settlement.Amount.String(), settlement.SettledAt, isPaid,
	)
	if err != nil {
		return fmt.Errorf("failed to insert settlement: %w", err)
	}

	return nil
}

func listSettlements(ctx context.Context, q querier, groupID string) ([]models.Settlement, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, group_id, from_user_id, to_user_id, amount, settled_at, is_paid
		 FROM settlements WHERE group_id = ?
		 ORDER BY settled_at DESC, id`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements: %w", err)
	}
	defer rows.Close()

	var settlements []models.Settlement
	for rows.Next() {
		var st models.Settlement
		var amountStr string
		var isPaid int
		if err := rows.Scan(&st.ID, &st.GroupID, &st.FromUserID, &st.ToUserID,
			&amountStr, &st.SettledAt, &isPaid); err != nil {
			return nil, fmt.Errorf("failed to scan settlement: %w", err)
		}
		if st.Amount, err = parseAmount(amountStr); err != nil {
			return nil, err
		}
		st.IsPaid = isPaid != 0
		settlements = append(settlements, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settlements: %w", err)
	}

	return settlements, nil
}
