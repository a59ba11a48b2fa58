package models

import "github.com/shopspring/decimal"

// Settlement represents a recorded payment between group members.
// Suggested transfers are derived on the fly; a Settlement only exists once
// someone records one.
type Settlement struct {
	// ID is the unique identifier for the settlement (UUID format).
	ID string

	// GroupID is the group this settlement belongs to.
	GroupID string

	// FromMemberID is the member who pays (debtor settling up).
	FromMemberID string

	// ToMemberID is the member who receives the payment (creditor).
	ToMemberID string

	// Amount is the payment amount. Always positive.
	Amount decimal.Decimal

	// IsSettled reports whether the payment has been marked as paid.
	IsSettled bool

	// SettledAt is the Unix timestamp when the settlement was marked paid, 0 if unpaid.
	SettledAt int64

	// CreatedAt is the Unix timestamp when the settlement was recorded.
	CreatedAt int64
}
