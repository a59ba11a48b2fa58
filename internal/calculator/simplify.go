package calculator

import (
	"cmp"
	"slices"

	"github.com/shopspring/decimal"
)

// Transfer is a suggested payment that moves both parties toward zero.
type Transfer struct {
	From   string // Member who pays
	To     string // Member who is paid
	Amount decimal.Decimal
}

// party is one side of the matching with its remaining open amount.
type party struct {
	memberID  string
	remaining decimal.Decimal
	index     int // position in the input, used as the tie-break key
}

// SimplifySettlements produces a transfer plan for the balances using Epsilon.
func SimplifySettlements(balances []Balance) []Transfer {
	return SimplifySettlementsWithin(balances, Epsilon)
}

// SimplifySettlementsWithin matches the largest remaining creditor with the
// largest remaining debtor until one side runs out.
//
// Members within epsilon of zero are already settled and never appear in the
// plan. Creditors and debtors are ordered by amount, largest first; equal
// amounts keep input order. The output is therefore fully determined by the
// input slice.
//
// This is a greedy heuristic. It keeps the plan small but does not guarantee
// the minimum possible number of transfers.
//
// The balances are expected to sum to zero. If they don't, the loop still
// terminates but leaves the excess unsettled on one side; callers can check
// with Residual.
func SimplifySettlementsWithin(balances []Balance, epsilon decimal.Decimal) []Transfer {
	var creditors, debtors []party
	for i, b := range balances {
		switch {
		case b.Amount.GreaterThan(epsilon):
			creditors = append(creditors, party{memberID: b.MemberID, remaining: b.Amount, index: i})
		case b.Amount.LessThan(epsilon.Neg()):
			debtors = append(debtors, party{memberID: b.MemberID, remaining: b.Amount.Abs(), index: i})
		}
	}

	largestFirst := func(a, b party) int {
		if c := b.remaining.Cmp(a.remaining); c != 0 {
			return c
		}
		return cmp.Compare(a.index, b.index)
	}
	slices.SortStableFunc(creditors, largestFirst)
	slices.SortStableFunc(debtors, largestFirst)

	transfers := make([]Transfer, 0)
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		debtor := &debtors[i]
		creditor := &creditors[j]

		// Amount to settle is minimum of what debtor owes and creditor is owed
		amount := decimal.Min(debtor.remaining, creditor.remaining)
		if amount.GreaterThan(epsilon) {
			transfers = append(transfers, Transfer{
				From:   debtor.memberID,
				To:     creditor.memberID,
				Amount: amount,
			})
		}

		debtor.remaining = debtor.remaining.Sub(amount)
		creditor.remaining = creditor.remaining.Sub(amount)

		if debtor.remaining.LessThanOrEqual(epsilon) {
			i++
		}
		if creditor.remaining.LessThanOrEqual(epsilon) {
			j++
		}
	}

	return transfers
}

// ApplyTransfers returns a copy of balances with every transfer executed:
// the payer's balance goes up and the receiver's goes down by the amount.
// Transfers naming unknown members are ignored.
func ApplyTransfers(balances []Balance, transfers []Transfer) []Balance {
	out := make([]Balance, len(balances))
	copy(out, balances)

	index := make(map[string]int, len(out))
	for i, b := range out {
		index[b.MemberID] = i
	}
	for _, t := range transfers {
		if i, ok := index[t.From]; ok {
			out[i].Amount = out[i].Amount.Add(t.Amount)
		}
		if i, ok := index[t.To]; ok {
			out[i].Amount = out[i].Amount.Sub(t.Amount)
		}
	}
	return out
}
