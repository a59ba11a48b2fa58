package service

import (
	"context"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/api"
	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/events"
	"github.com/mmynk/splitledger/internal/metrics"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

// SettlementService implements the Connect SettlementService
type SettlementService struct {
	store    storage.Store
	notifier notifier
	now      func() time.Time
}

var _ api.SettlementServiceHandler = (*SettlementService)(nil)

// NewSettlementService creates a new SettlementService. pub and m may be nil.
func NewSettlementService(store storage.Store, pub events.Publisher, m *metrics.Metrics) *SettlementService {
	return &SettlementService{store: store, notifier: newNotifier(pub, m), now: time.Now}
}

// RecordSettlement records a payment between two members of a group.
// It stays a suggestion until marked paid.
func (s *SettlementService) RecordSettlement(ctx context.Context, req *connect.Request[api.RecordSettlementRequest]) (*connect.Response[api.RecordSettlementResponse], error) {
	slog.Info("RecordSettlement request received",
		"group_id", req.Msg.GroupID,
		"from", req.Msg.FromMemberID,
		"to", req.Msg.ToMemberID,
		"amount", req.Msg.Amount.String(),
	)

	if err := calculator.ValidateAmount(req.Msg.Amount); err != nil {
		return nil, invalidArgument("amount: %v", err)
	}
	if !req.Msg.Amount.IsPositive() {
		return nil, invalidArgument("amount must be positive")
	}
	if req.Msg.FromMemberID == req.Msg.ToMemberID {
		return nil, invalidArgument("a member cannot settle with themselves")
	}

	if _, err := s.store.GetGroup(ctx, req.Msg.GroupID); err != nil {
		slog.Error("RecordSettlement failed - group not found", "group_id", req.Msg.GroupID, "error", err)
		return nil, storageError("get group", err)
	}
	members, err := s.store.ListMembers(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, storageError("list members", err)
	}
	names := memberNames(members)
	for _, id := range []string{req.Msg.FromMemberID, req.Msg.ToMemberID} {
		if _, ok := names[id]; !ok {
			return nil, invalidArgument("member %q is not in the group", id)
		}
	}

	settlement := &models.Settlement{
		GroupID:      req.Msg.GroupID,
		FromMemberID: req.Msg.FromMemberID,
		ToMemberID:   req.Msg.ToMemberID,
		Amount:       req.Msg.Amount,
	}
	if err := s.store.CreateSettlement(ctx, settlement); err != nil {
		slog.Error("RecordSettlement failed", "error", err)
		return nil, storageError("create settlement", err)
	}

	slog.Info("Settlement recorded", "settlement_id", settlement.ID, "group_id", settlement.GroupID)
	s.notifier.notify(ctx, events.New(events.SettlementRecorded, settlement.GroupID, settlement.ID, settlement.Amount))

	return connect.NewResponse(&api.RecordSettlementResponse{
		Settlement: toAPISettlement(settlement),
	}), nil
}

// MarkSettlementPaid flags a settlement as paid. Marking an already paid
// settlement again is a no-op.
func (s *SettlementService) MarkSettlementPaid(ctx context.Context, req *connect.Request[api.MarkSettlementPaidRequest]) (*connect.Response[api.MarkSettlementPaidResponse], error) {
	slog.Info("MarkSettlementPaid request received", "settlement_id", req.Msg.SettlementID)

	existing, err := s.store.GetSettlement(ctx, req.Msg.SettlementID)
	if err != nil {
		slog.Error("MarkSettlementPaid failed", "settlement_id", req.Msg.SettlementID, "error", err)
		return nil, storageError("get settlement", err)
	}
	if existing.IsSettled {
		return connect.NewResponse(&api.MarkSettlementPaidResponse{
			Settlement: toAPISettlement(existing),
		}), nil
	}

	settlement, err := s.store.MarkSettlementPaid(ctx, existing.ID, s.now().Unix())
	if err != nil {
		slog.Error("MarkSettlementPaid failed", "settlement_id", existing.ID, "error", err)
		return nil, storageError("mark settlement paid", err)
	}

	slog.Info("Settlement paid", "settlement_id", settlement.ID, "settled_at", settlement.SettledAt)
	s.notifier.notify(ctx, events.New(events.SettlementSettled, settlement.GroupID, settlement.ID, settlement.Amount))

	return connect.NewResponse(&api.MarkSettlementPaidResponse{
		Settlement: toAPISettlement(settlement),
	}), nil
}

// ListSettlements lists a group's recorded settlements.
func (s *SettlementService) ListSettlements(ctx context.Context, req *connect.Request[api.ListSettlementsRequest]) (*connect.Response[api.ListSettlementsResponse], error) {
	slog.Info("ListSettlements request received", "group_id", req.Msg.GroupID)

	if _, err := s.store.GetGroup(ctx, req.Msg.GroupID); err != nil {
		slog.Error("ListSettlements failed - group not found", "group_id", req.Msg.GroupID, "error", err)
		return nil, storageError("get group", err)
	}
	settlements, err := s.store.ListSettlementsByGroup(ctx, req.Msg.GroupID)
	if err != nil {
		slog.Error("ListSettlements failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, storageError("list settlements", err)
	}

	out := make([]api.Settlement, len(settlements))
	for i, st := range settlements {
		out[i] = toAPISettlement(st)
	}

	return connect.NewResponse(&api.ListSettlementsResponse{
		Settlements: out,
	}), nil
}
