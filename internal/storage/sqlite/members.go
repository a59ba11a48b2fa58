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

const memberColumns = "id, group_id, name, email, avatar, joined_at"

// AddMember adds a member to an existing group.
func (s *SQLiteStore) AddMember(ctx context.Context, member *models.Member) error {
	if _, err := getGroup(ctx, s.db, member.GroupID); err != nil {
		return err
	}
	return insertMember(ctx, s.db, member)
}

func insertMember(ctx context.Context, q querier, member *models.Member) error {
	if member.ID == "" {
		member.ID = uuid.New().String()
	}
	if member.JoinedAt == 0 {
		member.JoinedAt = time.Now().Unix()
	}

	// seq preserves join order when several members join in the same second.
	_, err := q.ExecContext(ctx,
		`INSERT INTO members (id, group_id, name, email, avatar, joined_at, seq)
		 VALUES (?, ?, ?, ?, ?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM members WHERE group_id = ?))`,
		member.ID, member.GroupID, member.Name, nullString(member.Email), nullString(member.Avatar),
		member.JoinedAt, member.GroupID,
	)
	if err != nil {
		return fmt.Errorf("failed to insert member: %w", err)
	}
	return nil
}

// GetMember retrieves a member by ID.
func (s *SQLiteStore) GetMember(ctx context.Context, memberID string) (*models.Member, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+memberColumns+" FROM members WHERE id = ?", memberID)
	member, err := scanMember(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("member", memberID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	return member, nil
}

// ListMembers retrieves a group's members in join order.
func (s *SQLiteStore) ListMembers(ctx context.Context, groupID string) ([]*models.Member, error) {
	return listMembers(ctx, s.db, groupID)
}

func listMembers(ctx context.Context, q querier, groupID string) ([]*models.Member, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT "+memberColumns+" FROM members WHERE group_id = ? ORDER BY seq",
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	var members []*models.Member
	for rows.Next() {
		member, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, member)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}
	return members, nil
}

// RemoveMember deletes a member. Expense history is left untouched.
func (s *SQLiteStore) RemoveMember(ctx context.Context, memberID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM members WHERE id = ?", memberID)
	if err != nil {
		return fmt.Errorf("failed to delete member: %w", err)
	}
	return expectRow(res, "member", memberID)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMember(sc scanner) (*models.Member, error) {
	member := &models.Member{}
	var email, avatar sql.NullString
	if err := sc.Scan(&member.ID, &member.GroupID, &member.Name, &email, &avatar, &member.JoinedAt); err != nil {
		return nil, err
	}
	member.Email = email.String
	member.Avatar = avatar.String
	return member, nil
}
