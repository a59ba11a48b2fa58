// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/splitledger/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// GroupSnapshot is a consistent view of everything the ledger needs for one
// group, read at a single point in time.
type GroupSnapshot struct {
	Group       *models.Group
	Members     []models.Member     // join order
	Expenses    []models.Expense    // with resolved splits
	Settlements []models.Settlement // recorded settlements, paid or not
}

// Store defines the interface for ledger storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	// CreateGroup persists a new group and its initial members.
	// ID, CreatedAt and member IDs are populated by the store.
	CreateGroup(ctx context.Context, group *models.Group, members []*models.Member) error
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)
	ListGroups(ctx context.Context) ([]*models.Group, error)
	UpdateGroup(ctx context.Context, group *models.Group) error
	// DeleteGroup removes a group with its members, expenses and settlements.
	DeleteGroup(ctx context.Context, groupID string) error

	AddMember(ctx context.Context, member *models.Member) error
	GetMember(ctx context.Context, memberID string) (*models.Member, error)
	ListMembers(ctx context.Context, groupID string) ([]*models.Member, error)
	// RemoveMember deletes the member only. Expenses and splits that
	// reference it are kept as recorded.
	RemoveMember(ctx context.Context, memberID string) error

	CreateExpense(ctx context.Context, expense *models.Expense) error
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)
	// UpdateExpense replaces the whole expense record including its splits.
	UpdateExpense(ctx context.Context, expense *models.Expense) error
	DeleteExpense(ctx context.Context, expenseID string) error
	// ListExpensesByGroup returns expenses newest first.
	ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error)

	CreateSettlement(ctx context.Context, settlement *models.Settlement) error
	GetSettlement(ctx context.Context, settlementID string) (*models.Settlement, error)
	ListSettlementsByGroup(ctx context.Context, groupID string) ([]*models.Settlement, error)
	// MarkSettlementPaid flags the settlement as paid at the given Unix time.
	MarkSettlementPaid(ctx context.Context, settlementID string, settledAt int64) (*models.Settlement, error)

	// Snapshot reads the group, members, expenses and settlements in one
	// read transaction so concurrent writes cannot produce a torn view.
	Snapshot(ctx context.Context, groupID string) (*GroupSnapshot, error)

	// Close releases any resources held by the store.
	Close() error
}
