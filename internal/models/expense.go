package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// SplitMethod describes how an expense amount was divided when it was created.
type SplitMethod string

const (
	// SplitEqual divides the amount evenly across the participants.
	SplitEqual SplitMethod = "equal"
	// SplitCustom uses caller-supplied per-member amounts.
	SplitCustom SplitMethod = "custom"
	// SplitPercentage uses caller-supplied per-member percentages.
	SplitPercentage SplitMethod = "percentage"
)

// ParseSplitMethod converts a wire value to a SplitMethod.
// An empty string defaults to SplitEqual.
func ParseSplitMethod(s string) (SplitMethod, error) {
	switch SplitMethod(s) {
	case "", SplitEqual:
		return SplitEqual, nil
	case SplitCustom:
		return SplitCustom, nil
	case SplitPercentage:
		return SplitPercentage, nil
	default:
		return "", fmt.Errorf("unknown split method %q", s)
	}
}

// Expense represents money one member paid on behalf of the group.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// GroupID is the group this expense belongs to.
	GroupID string

	// Description is a short human-readable label (e.g., "Dinner at Thalassa").
	Description string

	// Amount is the total paid. Non-negative, two decimal places.
	Amount decimal.Decimal

	// Category is one of the values in the Categories table.
	Category string

	// PaidBy is the member ID of the payer.
	PaidBy string

	// SplitMethod records how Splits were produced.
	SplitMethod SplitMethod

	// Splits are the resolved per-member shares of Amount.
	// Their sum equals Amount for every expense created through the service.
	Splits []Split

	// Date is the Unix timestamp of the expense itself.
	Date int64

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64
}

// Split is one member's owed share of an expense.
type Split struct {
	MemberID string
	Amount   decimal.Decimal
}
