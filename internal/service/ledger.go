package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/metrics"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

// Ledger computes balances and suggested transfers for a group.
type Ledger struct {
	store        storage.Store
	metrics      *metrics.Metrics
	applySettled bool
}

// NewLedger creates a Ledger. When applySettled is true, settlements marked
// as paid offset the balances they paid down. m may be nil.
func NewLedger(store storage.Store, m *metrics.Metrics, applySettled bool) *Ledger {
	return &Ledger{store: store, metrics: m, applySettled: applySettled}
}

// LedgerResult is one consistent balance computation.
type LedgerResult struct {
	Snapshot  *storage.GroupSnapshot
	Sheet     *calculator.BalanceSheet
	Transfers []calculator.Transfer
	Residual  decimal.Decimal
	// Complete is true when applying Transfers leaves every balance negligible.
	Complete bool
}

// Compute reads a snapshot of the group and computes its ledger.
func (l *Ledger) Compute(ctx context.Context, groupID string) (*LedgerResult, error) {
	snap, err := l.store.Snapshot(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return l.compute(ctx, snap)
}

func (l *Ledger) compute(ctx context.Context, snap *storage.GroupSnapshot) (*LedgerResult, error) {
	groupID := snap.Group.ID

	memberIDs := make([]string, len(snap.Members))
	for i, m := range snap.Members {
		memberIDs[i] = m.ID
	}

	expenses := make([]calculator.ExpenseForBalance, 0, len(snap.Expenses)+len(snap.Settlements))
	for _, e := range snap.Expenses {
		expenses = append(expenses, calculator.ExpenseForBalance{
			ID:     e.ID,
			PaidBy: e.PaidBy,
			Amount: e.Amount,
			Splits: e.Splits,
		})
	}
	if l.applySettled {
		expenses = append(expenses, settledOffsets(snap.Settlements)...)
	}

	sheet, err := calculator.ComputeBalances(memberIDs, expenses)
	if err != nil {
		// Stored amounts are validated on write, so this is corrupt data.
		return nil, fmt.Errorf("compute balances for group %s: %v", groupID, err)
	}

	if len(sheet.Dropped) > 0 {
		var splits, payers int
		for _, d := range sheet.Dropped {
			if d.Kind == calculator.DropPayer {
				payers++
			} else {
				splits++
			}
		}
		slog.WarnContext(ctx, "Balance entries reference members outside the group",
			"group_id", groupID,
			"dropped_splits", splits,
			"dropped_payers", payers,
		)
		l.metrics.ObserveDropped(string(calculator.DropSplit), splits)
		l.metrics.ObserveDropped(string(calculator.DropPayer), payers)
	}

	transfers := calculator.SimplifySettlements(sheet.Balances)
	l.metrics.ObserveTransfers(len(transfers))

	residual := sheet.Residual()
	complete := true
	if !calculator.IsNegligible(residual) {
		l.metrics.ObserveResidualViolation()
		for _, b := range calculator.ApplyTransfers(sheet.Balances, transfers) {
			if !calculator.IsNegligible(b.Amount) {
				complete = false
			}
		}
		slog.WarnContext(ctx, "Group balances do not sum to zero",
			"group_id", groupID,
			"residual", residual.String(),
			"complete", complete,
		)
	}

	slog.DebugContext(ctx, "Ledger computed",
		"group_id", groupID,
		"members", len(memberIDs),
		"expenses", len(snap.Expenses),
		"transfers", len(transfers),
	)

	return &LedgerResult{
		Snapshot:  snap,
		Sheet:     sheet,
		Transfers: transfers,
		Residual:  residual,
		Complete:  complete,
	}, nil
}

// settledOffsets turns each paid settlement into an expense the payer fronted
// entirely for the payee, which moves both balances toward zero.
func settledOffsets(settlements []models.Settlement) []calculator.ExpenseForBalance {
	var out []calculator.ExpenseForBalance
	for _, s := range settlements {
		if !s.IsSettled {
			continue
		}
		out = append(out, calculator.ExpenseForBalance{
			ID:     "settlement:" + s.ID,
			PaidBy: s.FromMemberID,
			Amount: s.Amount,
			Splits: []models.Split{{MemberID: s.ToMemberID, Amount: s.Amount}},
		})
	}
	return out
}
