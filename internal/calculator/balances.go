package calculator

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
)

// ExpenseForBalance represents an expense with the minimal information needed
// for balance calculations. Splits must already be resolved.
type ExpenseForBalance struct {
	ID     string
	PaidBy string
	Amount decimal.Decimal
	Splits []models.Split
}

// Balance is the net position of one member.
type Balance struct {
	MemberID  string
	Amount    decimal.Decimal // Positive = is owed money, Negative = owes money
	TotalPaid decimal.Decimal // Total fronted across all expenses
	TotalOwed decimal.Decimal // Total of this member's split shares
}

// DropKind says which part of an expense referenced an unknown member.
type DropKind string

const (
	DropSplit DropKind = "split"
	DropPayer DropKind = "payer"
)

// DroppedEntry records an amount that could not be applied because it
// referenced a member outside the member list (e.g. a removed member).
type DroppedEntry struct {
	ExpenseID string
	MemberID  string
	Amount    decimal.Decimal
	Kind      DropKind
}

// BalanceSheet is the output of ComputeBalances.
type BalanceSheet struct {
	// Balances holds one entry per member, in member list order.
	Balances []Balance

	// Dropped lists every payer credit or split debit that was skipped.
	Dropped []DroppedEntry
}

// Residual returns the sum of all balances on the sheet.
func (s *BalanceSheet) Residual() decimal.Decimal {
	return Residual(s.Balances)
}

// ComputeBalances derives every member's net balance from the expense history.
//
// Algorithm:
//   - every member starts at zero
//   - the payer of each expense is credited with the full amount
//   - every split member is debited with their share
//
// Accumulation is exact decimal addition, so the result does not depend on
// expense order. Amounts that reference a member not in members are not
// applied anywhere and are reported in BalanceSheet.Dropped instead of failing.
// Split amounts are used as given; remainders are never redistributed here.
//
// A negative expense or split amount is rejected with ErrMalformedAmount
// before anything is accumulated.
func ComputeBalances(members []string, expenses []ExpenseForBalance) (*BalanceSheet, error) {
	for _, e := range expenses {
		if e.Amount.IsNegative() {
			return nil, fmt.Errorf("%w: expense %s has negative amount %s", ErrMalformedAmount, e.ID, e.Amount)
		}
		for _, sp := range e.Splits {
			if sp.Amount.IsNegative() {
				return nil, fmt.Errorf("%w: expense %s has negative split %s for %s", ErrMalformedAmount, e.ID, sp.Amount, sp.MemberID)
			}
		}
	}

	sheet := &BalanceSheet{Balances: make([]Balance, 0, len(members))}
	index := make(map[string]int, len(members))
	for _, id := range members {
		if _, exists := index[id]; exists {
			continue
		}
		index[id] = len(sheet.Balances)
		sheet.Balances = append(sheet.Balances, Balance{
			MemberID:  id,
			Amount:    decimal.Zero,
			TotalPaid: decimal.Zero,
			TotalOwed: decimal.Zero,
		})
	}

	for _, e := range expenses {
		// Payer fronted the full amount
		if i, ok := index[e.PaidBy]; ok {
			sheet.Balances[i].TotalPaid = sheet.Balances[i].TotalPaid.Add(e.Amount)
		} else {
			sheet.Dropped = append(sheet.Dropped, DroppedEntry{
				ExpenseID: e.ID, MemberID: e.PaidBy, Amount: e.Amount, Kind: DropPayer,
			})
		}

		// Each split member owes their share
		for _, sp := range e.Splits {
			i, ok := index[sp.MemberID]
			if !ok {
				sheet.Dropped = append(sheet.Dropped, DroppedEntry{
					ExpenseID: e.ID, MemberID: sp.MemberID, Amount: sp.Amount, Kind: DropSplit,
				})
				continue
			}
			sheet.Balances[i].TotalOwed = sheet.Balances[i].TotalOwed.Add(sp.Amount)
		}
	}

	for i := range sheet.Balances {
		b := &sheet.Balances[i]
		b.Amount = b.TotalPaid.Sub(b.TotalOwed)
	}

	return sheet, nil
}
