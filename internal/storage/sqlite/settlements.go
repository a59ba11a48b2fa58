package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/splitledger/internal/models"
)

const settlementColumns = "id, group_id, from_member_id, to_member_id, amount, is_settled, settled_at, created_at"

// CreateSettlement persists a new settlement to the database.
func (s *SQLiteStore) CreateSettlement(ctx context.Context, settlement *models.Settlement) error {
	// Generate ID if not set
	if settlement.ID == "" {
		settlement.ID = uuid.New().String()
	}
	if settlement.CreatedAt == 0 {
		settlement.CreatedAt = time.Now().Unix()
	}

	var settledAt any
	isSettled := 0
	if settlement.IsSettled {
		isSettled = 1
		if settlement.SettledAt == 0 {
			settlement.SettledAt = settlement.CreatedAt
		}
		settledAt = settlement.SettledAt
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO settlements ("+settlementColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		settlement.ID, settlement.GroupID, settlement.FromMemberID, settlement.ToMemberID,
		settlement.Amount, isSettled, settledAt, settlement.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert settlement: %w", err)
	}

	return nil
}

// GetSettlement retrieves a settlement by ID.
func (s *SQLiteStore) GetSettlement(ctx context.Context, settlementID string) (*models.Settlement, error) {
	return getSettlement(ctx, s.db, settlementID)
}

func getSettlement(ctx context.Context, q querier, settlementID string) (*models.Settlement, error) {
	row := q.QueryRowContext(ctx, "SELECT "+settlementColumns+" FROM settlements WHERE id = ?", settlementID)
	settlement, err := scanSettlement(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("settlement", settlementID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settlement: %w", err)
	}
	return settlement, nil
}

// ListSettlementsByGroup retrieves all settlements for a group, newest first.
func (s *SQLiteStore) ListSettlementsByGroup(ctx context.Context, groupID string) ([]*models.Settlement, error) {
	return listSettlements(ctx, s.db, groupID)
}

func listSettlements(ctx context.Context, q querier, groupID string) ([]*models.Settlement, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT "+settlementColumns+" FROM settlements WHERE group_id = ? ORDER BY created_at DESC, id",
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements by group: %w", err)
	}
	defer rows.Close()

	var settlements []*models.Settlement
	for rows.Next() {
		settlement, err := scanSettlement(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan settlement: %w", err)
		}
		settlements = append(settlements, settlement)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settlements: %w", err)
	}

	return settlements, nil
}

// MarkSettlementPaid flags a settlement as paid. Marking an already paid
// settlement keeps the original settled_at.
func (s *SQLiteStore) MarkSettlementPaid(ctx context.Context, settlementID string, settledAt int64) (*models.Settlement, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE settlements SET is_settled = 1, settled_at = COALESCE(settled_at, ?) WHERE id = ?",
		settledAt, settlementID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to mark settlement paid: %w", err)
	}
	if err := expectRow(res, "settlement", settlementID); err != nil {
		return nil, err
	}
	return getSettlement(ctx, s.db, settlementID)
}

func scanSettlement(sc scanner) (*models.Settlement, error) {
	settlement := &models.Settlement{}
	var settledAt sql.NullInt64
	if err := sc.Scan(&settlement.ID, &settlement.GroupID, &settlement.FromMemberID, &settlement.ToMemberID,
		&settlement.Amount, &settlement.IsSettled, &settledAt, &settlement.CreatedAt); err != nil {
		return nil, err
	}
	settlement.SettledAt = settledAt.Int64
	return settlement, nil
}
